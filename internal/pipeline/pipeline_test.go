package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgpai22/wordsub/internal/caption"
	"github.com/mgpai22/wordsub/internal/subtitle"
	"github.com/mgpai22/wordsub/internal/transcribe"
)

const talkJSON = `{
	"text": "Hello world. Second part",
	"language": "en",
	"duration": 3.0,
	"segments": [
		{"start": 0.0, "end": 1.0, "text": " Hello world.", "words": [
			{"word": " Hello", "start": 0.0, "end": 0.5},
			{"word": " world.", "start": 0.6, "end": 1.0}
		]},
		{"start": 1.0, "end": 3.0, "text": " Second part"}
	]
}`

func writeTranscript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write transcript: %v", err)
	}
	return path
}

func fileOptions(dir string) Options {
	return Options{
		Provider:       transcribe.ProviderFile,
		MaxChars:       80,
		Format:         subtitle.FormatSRT,
		TranscriptsDir: filepath.Join(dir, "transcripts"),
		SubtitlesDir:   filepath.Join(dir, "subs"),
	}
}

func TestRunWritesSubtitlesAndSummary(t *testing.T) {
	dir := t.TempDir()
	source := writeTranscript(t, dir, "talk.json", talkJSON)

	out, err := New(fileOptions(dir), nil).Run(context.Background(), Job{Source: source, Language: "en"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if want := filepath.Join(dir, "subs", "talk_file_en.srt"); out.SubtitlePath != want {
		t.Errorf("subtitle path = %s, want %s", out.SubtitlePath, want)
	}
	if want := filepath.Join(dir, "transcripts", "talk_file_en.txt"); out.SummaryPath != want {
		t.Errorf("summary path = %s, want %s", out.SummaryPath, want)
	}

	srt, err := os.ReadFile(out.SubtitlePath)
	if err != nil {
		t.Fatalf("failed to read subtitles: %v", err)
	}
	wantSRT := "1\n00:00:00,000 --> 00:00:01,000\nHello world.\n\n" +
		"2\n00:00:01,000 --> 00:00:03,000\nSecond part\n\n"
	if string(srt) != wantSRT {
		t.Errorf("subtitles:\n%q\nwant:\n%q", srt, wantSRT)
	}

	txt, err := os.ReadFile(out.SummaryPath)
	if err != nil {
		t.Fatalf("failed to read summary: %v", err)
	}
	s := string(txt)
	if !strings.HasPrefix(s, "Model: file\nProcessing Time: ") {
		t.Errorf("unexpected summary header:\n%s", s)
	}
	if !strings.Contains(s, "\nAudio Length: 3.00 seconds\n\nHello world. Second part") {
		t.Errorf("unexpected summary body:\n%s", s)
	}

	if out.Segments != 2 || out.Captions.Count != 2 {
		t.Errorf("unexpected counts: %d segments, %d captions", out.Segments, out.Captions.Count)
	}
}

func TestRunNumbersEachLanguageFromOne(t *testing.T) {
	dir := t.TempDir()
	source := writeTranscript(t, dir, "talk.json", talkJSON)
	r := New(fileOptions(dir), nil)

	for _, lang := range []string{"en", "es"} {
		out, err := r.Run(context.Background(), Job{Source: source, Language: lang})
		if err != nil {
			t.Fatalf("Run(%s) returned error: %v", lang, err)
		}
		track, err := subtitle.Open(out.SubtitlePath)
		if err != nil {
			t.Fatalf("failed to reopen %s: %v", out.SubtitlePath, err)
		}
		if track.Captions[0].Index != 1 {
			t.Errorf("%s: first caption numbered %d", lang, track.Captions[0].Index)
		}
	}
}

func TestRunUsesInjectedTranscriber(t *testing.T) {
	dir := t.TempDir()
	source := writeTranscript(t, dir, "clip.mp3", "fake audio")

	opts := fileOptions(dir)
	opts.Provider = transcribe.ProviderOpenAI
	opts.Model = "whisper-1"
	opts.Format = subtitle.FormatVTT

	r := New(opts, nil).WithTranscriber(func(ctx context.Context, language string) (transcribe.Transcriber, error) {
		return nil, errors.New("no network in tests")
	})

	if _, err := r.Run(context.Background(), Job{Source: source, Language: "en"}); err == nil {
		t.Fatal("expected transcriber error")
	}

	_, subPath := r.OutputPaths(Job{Source: source, Language: "en"})
	if want := filepath.Join(dir, "subs", "clip_whisper-1_en.vtt"); subPath != want {
		t.Errorf("subtitle path = %s, want %s", subPath, want)
	}
}

func TestRunRejectsInvalidTranscript(t *testing.T) {
	dir := t.TempDir()
	source := writeTranscript(t, dir, "bad.json", `{"segments": [{"start": 2.0, "end": 1.0, "text": "backwards"}]}`)

	out := fileOptions(dir)
	_, err := New(out, nil).Run(context.Background(), Job{Source: source, Language: "en"})
	if !errors.Is(err, caption.ErrInvalidSegment) {
		t.Fatalf("expected ErrInvalidSegment, got %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "subs", "bad_file_en.srt")); !os.IsNotExist(err) {
		t.Errorf("no subtitle file should be written for a failed job: %v", err)
	}
}

func TestRunMissingSource(t *testing.T) {
	dir := t.TempDir()
	if _, err := New(fileOptions(dir), nil).Run(context.Background(), Job{Source: filepath.Join(dir, "nope.json")}); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestOutputPathsDefaultToSourceDir(t *testing.T) {
	r := New(Options{Provider: transcribe.ProviderGemini, Model: "models/gemini-2.5-flash", Format: subtitle.FormatASS}, nil)

	summaryPath, subtitlePath := r.OutputPaths(Job{Source: filepath.Join("media", "ep1.mkv"), Language: "fr"})
	if want := filepath.Join("media", "ep1_models-gemini-2.5-flash_fr.txt"); summaryPath != want {
		t.Errorf("summary path = %s, want %s", summaryPath, want)
	}
	if want := filepath.Join("media", "ep1_models-gemini-2.5-flash_fr.ass"); subtitlePath != want {
		t.Errorf("subtitle path = %s, want %s", subtitlePath, want)
	}
}
