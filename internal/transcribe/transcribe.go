package transcribe

import (
	"context"
	"fmt"
	"time"

	"github.com/mgpai22/wordsub/internal/audio"
	"github.com/mgpai22/wordsub/internal/caption"
	"github.com/mgpai22/wordsub/internal/logging"
)

// transcription result
type Result struct {
	Segments []caption.Segment
	Text     string
	Language string
	Duration time.Duration
}

// interface for audio transcription
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
	Name() string
}

// transcription service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	// reads an existing Whisper/WhisperX JSON transcript instead of audio
	ProviderFile Provider = "file"
)

// transcription options
type Options struct {
	Language string // source language of the audio
	Model    string
	Prompt   string
	Logger   *logging.Logger
}

// swapped in tests
var audioDuration = audio.GetDuration

// fills a missing result duration from the audio file; the duration only
// feeds the summary, so a failed lookup is logged and skipped
func fillDuration(result *Result, audioPath string, logger *logging.Logger) {
	if result.Duration > 0 {
		return
	}
	duration, err := audioDuration(audioPath)
	if err != nil {
		logger.OrNop().Debugw("Could not read audio length",
			"path", audioPath,
			"error", err,
		)
		return
	}
	result.Duration = duration
}

// creates transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderFile:
		return NewFileTranscriber(opts), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// NeedsAPIKey reports whether provider talks to a remote API.
func NeedsAPIKey(provider Provider) bool {
	return provider == ProviderOpenAI || provider == ProviderGemini
}

// APIKeyEnv names the environment variable holding the provider's key.
func APIKeyEnv(provider Provider) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
