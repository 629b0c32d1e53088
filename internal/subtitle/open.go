package subtitle

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Open parses an existing subtitle file. Only SRT is read back; VTT and ASS
// are write-only.
func Open(path string) (*Track, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return ParseSRTFile(path)
	default:
		return nil, fmt.Errorf("unsupported subtitle format for reading: %s", ext)
	}
}

// Issue is a problem found by Check.
type Issue struct {
	Index   int
	Message string
}

// Check reports numbering gaps, inverted or overlapping cues and cues over
// the character budget that hold more than one word.
func Check(track *Track, maxChars int) []Issue {
	var issues []Issue
	for i, c := range track.Captions {
		if c.Index != i+1 {
			issues = append(issues, Issue{Index: c.Index, Message: fmt.Sprintf("expected index %d", i+1)})
		}
		if c.End < c.Start {
			issues = append(issues, Issue{Index: c.Index, Message: "ends before it starts"})
		}
		if i > 0 && track.Captions[i-1].End > c.Start {
			issues = append(issues, Issue{Index: c.Index, Message: "overlaps previous caption"})
		}
		if maxChars > 0 && utf8.RuneCountInString(c.Text) > maxChars && len(strings.Fields(c.Text)) > 1 {
			issues = append(issues, Issue{Index: c.Index, Message: fmt.Sprintf("text longer than %d characters", maxChars)})
		}
	}
	return issues
}
