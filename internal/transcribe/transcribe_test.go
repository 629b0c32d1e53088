package transcribe

import (
	"context"
	"testing"
)

func TestFactory(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		apiKey   string
		wantName string
		wantErr  bool
	}{
		{name: "openai default model", provider: ProviderOpenAI, apiKey: "sk-test", wantName: "openai:whisper-1"},
		{name: "openai without key", provider: ProviderOpenAI, wantErr: true},
		{name: "gemini without key", provider: ProviderGemini, wantErr: true},
		{name: "file", provider: ProviderFile, wantName: "file"},
		{name: "unknown", provider: Provider("nope"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Factory(context.Background(), tt.provider, tt.apiKey, Options{})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tr.Name() != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, tr.Name())
			}
		})
	}
}

func TestNeedsAPIKey(t *testing.T) {
	if !NeedsAPIKey(ProviderOpenAI) || !NeedsAPIKey(ProviderGemini) {
		t.Error("remote providers need a key")
	}
	if NeedsAPIKey(ProviderFile) {
		t.Error("file provider needs no key")
	}
	if APIKeyEnv(ProviderGemini) != "GEMINI_API_KEY" {
		t.Errorf("unexpected env var %q", APIKeyEnv(ProviderGemini))
	}
}
