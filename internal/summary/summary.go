// Package summary writes the plain-text transcript file that accompanies
// every subtitle file.
package summary

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Summary struct {
	Model          string
	ProcessingTime time.Duration
	AudioLength    time.Duration
	Text           string
}

// Encode writes s as
//
//	Model: <model>
//	Processing Time: <seconds> seconds
//	Audio Length: <seconds> seconds
//
//	<text>
func Encode(s Summary, w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Model: %s\nProcessing Time: %s seconds\nAudio Length: %s seconds\n\n%s",
		s.Model,
		seconds(s.ProcessingTime),
		seconds(s.AudioLength),
		strings.TrimSpace(s.Text),
	)
	return err
}

// Write renders s in memory and then writes it to path.
func Write(s Summary, path string) error {
	var buf bytes.Buffer
	if err := Encode(s, &buf); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Seconds())
}
