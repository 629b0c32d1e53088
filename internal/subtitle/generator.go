package subtitle

import (
	"fmt"

	"github.com/mgpai22/wordsub/internal/caption"
	"github.com/mgpai22/wordsub/internal/logging"
)

// DefaultMaxChars is the caption budget used when none is configured.
const DefaultMaxChars = 80

// turns transcript segments into a numbered caption track
type Generator struct {
	MaxChars int
	Logger   *logging.Logger
}

func NewGenerator(maxChars int, logger *logging.Logger) *Generator {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Generator{
		MaxChars: maxChars,
		Logger:   logger.OrNop(),
	}
}

// Generate converts one transcript. Every call numbers its captions from 1,
// so a Generator can be shared between concurrent jobs.
func (g *Generator) Generate(segments []caption.Segment, format Format) (*Track, error) {
	log := g.Logger.OrNop()

	fallback := 0
	for _, seg := range segments {
		if !seg.HasWordTimings() && seg.Text != "" {
			fallback++
			log.Warnw("No word timestamps for segment, spreading time evenly",
				"start", seg.Start,
				"end", seg.End,
			)
		}
	}

	units, err := caption.Convert(segments, g.MaxChars)
	if err != nil {
		return nil, fmt.Errorf("failed to split transcript: %w", err)
	}

	stats := caption.Stats(units, g.MaxChars)
	if stats.Oversized > 0 {
		log.Warnw("Captions exceed the character budget with a single word",
			"count", stats.Oversized,
			"max_chars", g.MaxChars,
			"longest", stats.MaxLen,
		)
	}
	log.Debugw("Captions generated",
		"segments", len(segments),
		"fallback_segments", fallback,
		"captions", stats.Count,
	)

	return &Track{
		Captions: units,
		Format:   format,
	}, nil
}
