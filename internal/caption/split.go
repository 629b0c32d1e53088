package caption

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// run of packed tokens; next is the index of the first token of the
// following chunk (len(tokens) for the last one)
type chunk struct {
	text  string
	first int
	next  int
}

// greedy packing shared by both timing modes. A chunk is closed before the
// token that would push it past maxChars; tokens are never split, so a token
// longer than maxChars ends up alone in its chunk.
func pack(tokens []string, maxChars int) []chunk {
	var (
		chunks []chunk
		acc    strings.Builder
		accLen int
		first  int
	)

	for i, tok := range tokens {
		tokLen := utf8.RuneCountInString(tok)
		if accLen > 0 && accLen+tokLen+1 > maxChars {
			chunks = append(chunks, chunk{
				text:  strings.TrimSpace(acc.String()),
				first: first,
				next:  i,
			})
			acc.Reset()
			accLen = 0
			first = i
		}
		acc.WriteString(tok)
		acc.WriteByte(' ')
		accLen += tokLen + 1
	}

	if text := strings.TrimSpace(acc.String()); text != "" {
		chunks = append(chunks, chunk{text: text, first: first, next: len(tokens)})
	}

	return chunks
}

// derives the time span of chunk i out of n
type spanFunc func(c chunk, i, n int) (start, end float64)

func emit(chunks []chunk, next int, span spanFunc) ([]Unit, int) {
	if len(chunks) == 0 {
		return nil, next
	}
	units := make([]Unit, len(chunks))
	for i, c := range chunks {
		start, end := span(c, i, len(chunks))
		units[i] = Unit{
			Index: next,
			Start: start,
			End:   end,
			Text:  c.text,
		}
		next++
	}
	return units, next
}

// Split breaks one segment into caption units of at most maxChars runes,
// numbered from next. It returns the units and the next free index.
//
// With word timings a unit starts at its first word and ends where the word
// that overflowed it starts; the last unit ends at the last word's end.
// Without word timings the segment span is divided evenly between units.
//
// Word text is trimmed before it is measured, so the leading space Whisper
// puts on every word does not count against the budget. Lines can therefore
// hold one more rune per word than when padded words are measured as is.
func Split(seg Segment, maxChars, next int) ([]Unit, int, error) {
	if maxChars <= 0 {
		return nil, next, fmt.Errorf("%w: max chars must be positive, got %d", ErrInvalidBudget, maxChars)
	}
	if next < 1 {
		return nil, next, fmt.Errorf("%w: starting index must be at least 1, got %d", ErrInvalidBudget, next)
	}
	if err := Validate(seg); err != nil {
		return nil, next, err
	}

	switch t := seg.Timing().(type) {
	case WordLevel:
		return splitWords(t, maxChars, next)
	case SegmentLevel:
		return splitEvenly(t, maxChars, next)
	default:
		return nil, next, fmt.Errorf("%w: unknown timing %T", ErrInvalidSegment, t)
	}
}

func splitWords(t WordLevel, maxChars, next int) ([]Unit, int, error) {
	words := make([]Word, 0, len(t.Words))
	tokens := make([]string, 0, len(t.Words))
	for _, w := range t.Words {
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		words = append(words, w)
		tokens = append(tokens, text)
	}

	units, next := emit(pack(tokens, maxChars), next, func(c chunk, _, _ int) (float64, float64) {
		start := words[c.first].Start
		if c.next < len(words) {
			return start, words[c.next].Start
		}
		return start, words[len(words)-1].End
	})
	return units, next, nil
}

func splitEvenly(t SegmentLevel, maxChars, next int) ([]Unit, int, error) {
	duration := t.End - t.Start
	units, next := emit(pack(strings.Fields(t.Text), maxChars), next, func(_ chunk, i, n int) (float64, float64) {
		step := duration / float64(n)
		start := t.Start + float64(i)*step
		if i == n-1 {
			return start, t.End
		}
		return start, t.Start + float64(i+1)*step
	})
	return units, next, nil
}

// Validate checks the timing contract of a segment without producing
// captions.
func Validate(seg Segment) error {
	if !validTime(seg.Start) || !validTime(seg.End) {
		return fmt.Errorf("%w: times must be finite and non-negative (start=%v end=%v)", ErrInvalidSegment, seg.Start, seg.End)
	}
	if seg.End < seg.Start {
		return fmt.Errorf("%w: end %.3f before start %.3f", ErrInvalidSegment, seg.End, seg.Start)
	}

	for i, w := range seg.Words {
		if !validTime(w.Start) || !validTime(w.End) {
			return fmt.Errorf("%w: word %d %q has invalid times (start=%v end=%v)", ErrInvalidSegment, i, w.Text, w.Start, w.End)
		}
		if w.End < w.Start {
			return fmt.Errorf("%w: word %d %q ends at %.3f before it starts at %.3f", ErrInvalidSegment, i, w.Text, w.End, w.Start)
		}
		if i > 0 && w.Start < seg.Words[i-1].Start {
			return fmt.Errorf("%w: word %d %q starts at %.3f before previous word at %.3f", ErrInvalidSegment, i, w.Text, w.Start, seg.Words[i-1].Start)
		}
	}

	return nil
}
