package caption

import (
	"fmt"
	"unicode/utf8"
)

// Convert splits a whole transcript into captions numbered 1..N. Each call
// owns its counter, so independent transcripts can be converted
// concurrently. Nothing is returned if any segment is rejected.
func Convert(segments []Segment, maxChars int) ([]Unit, error) {
	var units []Unit
	next := 1

	for i, seg := range segments {
		split, n, err := Split(seg, maxChars, next)
		if err != nil {
			return nil, fmt.Errorf("segment %d (%.3fs): %w", i, seg.Start, err)
		}
		units = append(units, split...)
		next = n
	}

	return units, nil
}

// summary of a caption sequence
type Summary struct {
	Count     int
	Oversized int     // units longer than the budget (single long words)
	Covered   float64 // total on-screen seconds
	First     float64
	Last      float64
	MaxLen    int
}

// Stats summarizes units against a character budget.
func Stats(units []Unit, maxChars int) Summary {
	s := Summary{Count: len(units)}
	for i, u := range units {
		n := utf8.RuneCountInString(u.Text)
		if n > maxChars {
			s.Oversized++
		}
		if n > s.MaxLen {
			s.MaxLen = n
		}
		s.Covered += u.Duration()
		if i == 0 || u.Start < s.First {
			s.First = u.Start
		}
		if u.End > s.Last {
			s.Last = u.End
		}
	}
	return s
}
