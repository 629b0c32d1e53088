package subtitle

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/wordsub/internal/caption"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

// Advanced SubStation Alpha format
type ASSWriter struct {
	Title    string
	FontName string
	FontSize int
}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	case FormatASS:
		return &ASSWriter{
			Title:    "wordsub captions",
			FontName: "Arial",
			FontSize: 20,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// writes SRT blocks:
//
//	<index>
//	<start> --> <end>
//	<text>
//	<blank line>
func (w *SRTWriter) Encode(track *Track, out io.Writer) error {
	var sb strings.Builder
	for _, c := range track.Captions {
		start, err := caption.FormatTimestamp(c.Start)
		if err != nil {
			return fmt.Errorf("caption %d start: %w", c.Index, err)
		}
		end, err := caption.FormatTimestamp(c.End)
		if err != nil {
			return fmt.Errorf("caption %d end: %w", c.Index, err)
		}

		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n", c.Index, start, end, c.Text)
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

func (w *SRTWriter) Write(track *Track, path string) error {
	return writeFile(w, track, path)
}

func (w *VTTWriter) Encode(track *Track, out io.Writer) error {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	for _, c := range track.Captions {
		start, err := caption.FormatTimestampSep(c.Start, '.')
		if err != nil {
			return fmt.Errorf("caption %d start: %w", c.Index, err)
		}
		end, err := caption.FormatTimestampSep(c.End, '.')
		if err != nil {
			return fmt.Errorf("caption %d end: %w", c.Index, err)
		}

		// cue identifier, then timing line
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n", c.Index, start, end, c.Text)
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

func (w *VTTWriter) Write(track *Track, path string) error {
	return writeFile(w, track, path)
}

func (w *ASSWriter) Encode(track *Track, out io.Writer) error {
	var sb strings.Builder

	sb.WriteString("[Script Info]\n")
	fmt.Fprintf(&sb, "Title: %s\n", w.Title)
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("Collisions: Normal\n")
	sb.WriteString("PlayDepth: 0\n\n")

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(&sb, "Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n\n",
		w.FontName, w.FontSize)

	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, c := range track.Captions {
		start, err := formatASSTime(c.Start)
		if err != nil {
			return fmt.Errorf("caption %d start: %w", c.Index, err)
		}
		end, err := formatASSTime(c.End)
		if err != nil {
			return fmt.Errorf("caption %d end: %w", c.Index, err)
		}
		fmt.Fprintf(&sb, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n", start, end, escapeASSText(c.Text))
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

func (w *ASSWriter) Write(track *Track, path string) error {
	return writeFile(w, track, path)
}

// the track is rendered fully before the file is touched, so a bad
// timestamp never leaves a half-written subtitle file behind
func writeFile(w Writer, track *Track, path string) error {
	var buf bytes.Buffer
	if err := w.Encode(track, &buf); err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// H:MM:SS.cc, centiseconds taken from the rounded millisecond value
func formatASSTime(seconds float64) (string, error) {
	ms, err := caption.Milliseconds(seconds)
	if err != nil {
		return "", err
	}
	hours := ms / 3_600_000
	minutes := ms / 60_000 % 60
	secs := ms / 1000 % 60
	centis := ms % 1000 / 10

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centis), nil
}

func escapeASSText(text string) string {
	return strings.ReplaceAll(text, "\n", "\\N")
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	case ".ass", ".ssa":
		return FormatASS
	default:
		return FormatSRT
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatSRT:
		return ".srt"
	case FormatVTT:
		return ".vtt"
	case FormatASS:
		return ".ass"
	default:
		return ".srt"
	}
}

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "srt":
		return FormatSRT, nil
	case "vtt":
		return FormatVTT, nil
	case "ass", "ssa":
		return FormatASS, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use srt, vtt, or ass", name)
	}
}
