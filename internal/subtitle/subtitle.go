package subtitle

import (
	"io"

	"github.com/mgpai22/wordsub/internal/caption"
)

// complete subtitle track for one source and language
type Track struct {
	Captions []caption.Unit
	Language string
	Format   Format
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
)

// interface for writing subtitles
type Writer interface {
	// Encode renders the whole track to w.
	Encode(track *Track, w io.Writer) error
	// Write renders the track in memory and writes it to path in one step.
	Write(track *Track, path string) error
}
