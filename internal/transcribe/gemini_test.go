package transcribe

import (
	"strings"
	"testing"
)

func TestParseGeminiSegments(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantWords int
		wantErr   bool
	}{
		{
			name: "plain valid array",
			input: `[
				{"start": 0.0, "end": 2.5, "text": "Hello world"},
				{"start": 2.5, "end": 5.0, "text": "How are you"}
			]`,
			wantCount: 2,
		},
		{
			name: "array with words",
			input: `[{"start": 0.0, "end": 1.0, "text": "Hello world", "words": [
				{"word": "Hello", "start": 0.0, "end": 0.4},
				{"word": "world", "start": 0.5, "end": 1.0}
			]}]`,
			wantCount: 1,
			wantWords: 2,
		},
		{
			name:      "code fenced",
			input:     "```json\n[{\"start\": 0.0, \"end\": 1.5, \"text\": \"Fenced content\"}]\n```",
			wantCount: 1,
		},
		{
			name: "preamble and trailing text",
			input: `Here is your transcript:
			[{"start": 1.0, "end": 3.0, "text": "Test segment"}]
			That's all!`,
			wantCount: 1,
		},
		{
			name:      "wrapper object with segments key",
			input:     `{"segments": [{"start": 0.0, "end": 2.0, "text": "Wrapped segment"}]}`,
			wantCount: 1,
		},
		{
			name:      "wrapper object with unknown key",
			input:     `{"myCustomKey": [{"start": 0.0, "end": 2.0, "text": "From unknown key"}]}`,
			wantCount: 1,
		},
		{
			name:      "blank segments dropped",
			input:     `[{"start": 0, "end": 1, "text": "  "}, {"start": 1, "end": 2, "text": "kept"}]`,
			wantCount: 1,
		},
		{
			name:    "empty",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "no array",
			input:   "I could not transcribe this audio.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := parseGeminiSegments(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(segments) != tt.wantCount {
				t.Fatalf("expected %d segments, got %d", tt.wantCount, len(segments))
			}
			if tt.wantWords > 0 && len(segments[0].Words) != tt.wantWords {
				t.Errorf("expected %d words, got %d", tt.wantWords, len(segments[0].Words))
			}
		})
	}
}

func TestBuildTranscriptionPrompt(t *testing.T) {
	tr := &GeminiTranscriber{options: Options{Language: "es", Prompt: "Speaker is a chemist."}}
	prompt := tr.buildTranscriptionPrompt()

	for _, want := range []string{"'words'", "The audio is in es", "Speaker is a chemist.", "Return ONLY the JSON array"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("abcdef", 3); got != "abc..." {
		t.Errorf("got %q", got)
	}
	if got := truncateString("abc", 3); got != "abc" {
		t.Errorf("got %q", got)
	}
}
