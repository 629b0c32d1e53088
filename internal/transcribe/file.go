package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// FileTranscriber loads a transcript that was already produced by Whisper,
// WhisperX or the OpenAI verbose_json endpoint. The "audio" path it is given
// is the JSON file itself.
type FileTranscriber struct {
	options Options
}

func NewFileTranscriber(opts Options) *FileTranscriber {
	return &FileTranscriber{options: opts}
}

func (t *FileTranscriber) Name() string {
	return "file"
}

func (t *FileTranscriber) Transcribe(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := LoadJSON(path)
	if err != nil {
		return nil, err
	}
	if result.Language == "" {
		result.Language = t.options.Language
	}
	return result, nil
}

// LoadJSON reads a verbose transcript JSON file.
func LoadJSON(path string) (*Result, error) {
	if strings.TrimSpace(path) == "" {
		return nil, os.ErrNotExist
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	result, err := parseVerboseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, nil
}
