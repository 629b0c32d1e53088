package transcribe

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mgpai22/wordsub/internal/caption"
)

// word from a verbose_json / WhisperX response
type verboseWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// segment from a verbose_json / WhisperX response; WhisperX nests words
type verboseSegment struct {
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Text  string        `json:"text"`
	Words []verboseWord `json:"words"`
}

// verbose_json response structure; OpenAI returns word timings at the top
// level when word granularity is requested
type verboseResponse struct {
	Text     string           `json:"text"`
	Segments []verboseSegment `json:"segments"`
	Words    []verboseWord    `json:"words"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

// parseVerboseJSON converts a verbose transcript into caption segments.
// Segments with blank text and no words are dropped.
func parseVerboseJSON(raw []byte) (*Result, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	var resp verboseResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	result := &Result{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
		Duration: secondsToDuration(resp.Duration),
	}

	if len(resp.Segments) == 0 {
		switch {
		case len(resp.Words) > 0:
			words := convertWords(resp.Words)
			result.Segments = []caption.Segment{{
				Start: words[0].Start,
				End:   max(words[len(words)-1].End, words[0].Start),
				Text:  result.Text,
				Words: words,
			}}
		case result.Text != "":
			result.Segments = []caption.Segment{{
				Start: 0,
				End:   resp.Duration,
				Text:  result.Text,
			}}
		default:
			return nil, fmt.Errorf("no segments or text in response")
		}
		return result, nil
	}

	segments := make([]caption.Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, caption.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
			Words: convertWords(seg.Words),
		})
	}
	if len(resp.Words) > 0 {
		assignWords(segments, convertWords(resp.Words))
	}

	kept := segments[:0]
	for _, seg := range segments {
		if seg.Text == "" && len(seg.Words) == 0 {
			continue
		}
		kept = append(kept, seg)
	}
	result.Segments = kept

	if result.Text == "" {
		result.Text = joinSegmentText(kept)
	}

	return result, nil
}

func convertWords(in []verboseWord) []caption.Word {
	if len(in) == 0 {
		return nil
	}
	words := make([]caption.Word, len(in))
	for i, w := range in {
		words[i] = caption.Word{Text: w.Word, Start: w.Start, End: w.End}
	}
	return words
}

// assignWords hands top-level words to the segment their start falls in.
// A word before the first segment goes to the first one and a word past
// the last segment goes to the last one. Segments that already carry nested
// words keep them, and top-level words landing there are dropped.
func assignWords(segments []caption.Segment, words []caption.Word) {
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Start < words[j].Start
	})

	nested := make([]bool, len(segments))
	for i, seg := range segments {
		nested[i] = len(seg.Words) > 0
	}

	seg := 0
	for _, w := range words {
		for seg < len(segments)-1 && w.Start >= segments[seg+1].Start {
			seg++
		}
		if nested[seg] {
			continue
		}
		segments[seg].Words = append(segments[seg].Words, w)
	}
}

func joinSegmentText(segments []caption.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Text != "" {
			parts = append(parts, seg.Text)
		}
	}
	return strings.Join(parts, " ")
}
