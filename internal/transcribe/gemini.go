package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/mgpai22/wordsub/internal/caption"
	"google.golang.org/genai"
)

// implements Transcriber interface using Google Gemini
type GeminiTranscriber struct {
	client  *genai.Client
	model   string
	options Options
}

// segment from Gemini's JSON response
type geminiSegment struct {
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Text  string        `json:"text"`
	Words []verboseWord `json:"words"`
}

var jsonBlockRegex = regexp.MustCompile("```(?:json)?\\s*")

func NewGeminiTranscriber(ctx context.Context, apiKey string, opts Options) (*GeminiTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiTranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

func (t *GeminiTranscriber) Name() string {
	return "gemini:" + t.model
}

// transcribes single audio file
func (t *GeminiTranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	uploadedFile, err := t.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio file: %w", err)
	}

	defer func() {
		_, _ = t.client.Files.Delete(ctx, uploadedFile.Name, nil)
	}()

	parts := []*genai.Part{
		genai.NewPartFromText(t.buildTranscriptionPrompt()),
		genai.NewPartFromURI(uploadedFile.URI, uploadedFile.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	segments, err := parseGeminiSegments(responseText(resp))
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcription: %w", err)
	}

	result := &Result{
		Segments: segments,
		Text:     joinSegmentText(segments),
		Language: t.options.Language,
	}
	fillDuration(result, audioPath, t.options.Logger)

	return result, nil
}

// creates the prompt for transcription
func (t *GeminiTranscriber) buildTranscriptionPrompt() string {
	var sb strings.Builder

	sb.WriteString("Generate a detailed transcript of this audio. ")
	sb.WriteString("Split it into sentences or phrases. For each one provide 'start', 'end' and 'text', ")
	sb.WriteString("plus a 'words' array with one object per spoken word holding 'word', 'start' and 'end'. ")
	sb.WriteString("All timestamps are seconds from the start of the audio, as numbers. ")
	sb.WriteString("Words must appear in spoken order. ")

	if t.options.Language != "" {
		sb.WriteString(fmt.Sprintf("The audio is in %s; transcribe it in that language. ", t.options.Language))
	}

	if t.options.Prompt != "" {
		sb.WriteString(t.options.Prompt)
		sb.WriteString(" ")
	}

	sb.WriteString("Return ONLY the JSON array, no other text or markdown formatting.")

	return sb.String()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// parses Gemini's JSON answer into segments
func parseGeminiSegments(text string) ([]caption.Segment, error) {
	text = cleanJSONResponse(text)
	if text == "" {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	raw, err := extractSegmentArray(text)
	if err != nil {
		return nil, err
	}

	var parsed []geminiSegment
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w (response: %s)", err, truncateString(text, 200))
	}

	segments := make([]caption.Segment, 0, len(parsed))
	for _, seg := range parsed {
		s := caption.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
			Words: convertWords(seg.Words),
		}
		if s.Text == "" && len(s.Words) == 0 {
			continue
		}
		segments = append(segments, s)
	}

	return segments, nil
}

// finds the segment array in the response: a bare array, an array wrapped
// in prose, or the first array valued field of a wrapper object
func extractSegmentArray(text string) ([]byte, error) {
	if strings.HasPrefix(text, "{") {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal([]byte(text), &wrapper); err == nil {
			for _, key := range []string{"segments", "transcript", "data"} {
				if v, ok := wrapper[key]; ok {
					return v, nil
				}
			}
			for _, v := range wrapper {
				trimmed := strings.TrimSpace(string(v))
				if strings.HasPrefix(trimmed, "[") {
					return []byte(trimmed), nil
				}
			}
		}
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON array in response: %s", truncateString(text, 200))
	}
	return []byte(text[start : end+1]), nil
}

// removes markdown formatting from the response
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
