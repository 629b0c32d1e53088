package caption

import (
	"errors"
	"math"
)

var (
	// ErrInvalidSegment is returned for segments whose timing breaks the
	// input contract (negative times, inverted spans, unordered words).
	ErrInvalidSegment = errors.New("invalid segment")
	// ErrInvalidBudget is returned when the character budget or starting
	// index is not positive.
	ErrInvalidBudget = errors.New("invalid caption budget")
	// ErrNegativeTime is returned by the formatter for negative or NaN input.
	ErrNegativeTime = errors.New("negative timestamp")
)

// single word with its own timing, as aligned by the transcription engine
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// transcript segment, times in seconds
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

// Unit is one caption block ready to be serialized.
type Unit struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Duration returns the on-screen time of the unit in seconds.
func (u Unit) Duration() float64 {
	return u.End - u.Start
}

// Timing is the source of timestamps for one segment: either WordLevel or
// SegmentLevel.
type Timing interface {
	timing()
}

// word-aligned segment
type WordLevel struct {
	Words []Word
}

// segment without word alignment; times are spread evenly over chunks
type SegmentLevel struct {
	Text  string
	Start float64
	End   float64
}

func (WordLevel) timing()    {}
func (SegmentLevel) timing() {}

// Timing picks the timing variant for the segment.
func (s Segment) Timing() Timing {
	if len(s.Words) > 0 {
		return WordLevel{Words: s.Words}
	}
	return SegmentLevel{Text: s.Text, Start: s.Start, End: s.End}
}

// HasWordTimings reports whether the segment carries word alignment.
func (s Segment) HasWordTimings() bool {
	return len(s.Words) > 0
}

func validTime(t float64) bool {
	return t >= 0 && !math.IsInf(t, 1)
}
