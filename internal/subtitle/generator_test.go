package subtitle

import (
	"errors"
	"testing"

	"github.com/mgpai22/wordsub/internal/caption"
)

func TestGeneratorNumbersEachTrackFromOne(t *testing.T) {
	gen := NewGenerator(10, nil)
	segments := []caption.Segment{
		{Start: 0, End: 2, Words: []caption.Word{
			{Text: "Hello", Start: 0.0, End: 0.5},
			{Text: "world", Start: 0.6, End: 1.0},
			{Text: "foo", Start: 1.1, End: 1.5},
		}},
		{Start: 10, End: 13, Text: "one two three four"},
	}

	for run := 0; run < 2; run++ {
		track, err := gen.Generate(segments, FormatSRT)
		if err != nil {
			t.Fatalf("run %d: Generate returned error: %v", run, err)
		}
		if len(track.Captions) != 5 {
			t.Fatalf("run %d: expected 5 captions, got %d", run, len(track.Captions))
		}
		if track.Captions[0].Index != 1 || track.Captions[4].Index != 5 {
			t.Errorf("run %d: expected indices 1..5, got %+v", run, track.Captions)
		}
		if track.Format != FormatSRT {
			t.Errorf("run %d: expected format srt, got %q", run, track.Format)
		}
	}
}

func TestGeneratorDefaultsBudget(t *testing.T) {
	if gen := NewGenerator(0, nil); gen.MaxChars != DefaultMaxChars {
		t.Errorf("expected default budget %d, got %d", DefaultMaxChars, gen.MaxChars)
	}
}

func TestGeneratorPropagatesInvalidSegment(t *testing.T) {
	gen := NewGenerator(10, nil)
	_, err := gen.Generate([]caption.Segment{{Start: 2, End: 1, Text: "x"}}, FormatSRT)
	if !errors.Is(err, caption.ErrInvalidSegment) {
		t.Errorf("expected ErrInvalidSegment, got %v", err)
	}
}
