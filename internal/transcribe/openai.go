package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mgpai22/wordsub/internal/caption"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// implements Transcriber interface using OpenAI Audio API
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
}

func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAITranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

func (t *OpenAITranscriber) Name() string {
	return "openai:" + t.model
}

// transcribes single audio file with word and segment timestamps
func (t *OpenAITranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word", "segment"},
	}

	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}

	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	result, err := parseVerboseJSON([]byte(resp.RawJSON()))
	if err != nil {
		// plain text only: one segment over the whole file, split evenly later
		result, err = plainTextResult(audioPath, resp.Text)
		if err != nil {
			return nil, err
		}
	}

	if result.Language == "" {
		result.Language = t.options.Language
	}
	fillDuration(result, audioPath, t.options.Logger)

	return result, nil
}

// builds a single segment spanning the length of audioPath; a failed or
// zero-length duration lookup is an error
func plainTextResult(audioPath, text string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return &Result{}, nil
	}

	duration, err := audioDuration(audioPath)
	if err != nil {
		return nil, fmt.Errorf("plain-text transcript needs the audio length: %w", err)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("plain-text transcript needs the audio length: %s has zero duration", audioPath)
	}

	return &Result{
		Segments: []caption.Segment{{
			Start: 0,
			End:   duration.Seconds(),
			Text:  text,
		}},
		Text:     text,
		Duration: duration,
	}, nil
}
