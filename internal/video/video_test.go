package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mgpai22/wordsub/internal/audio"
)

func TestExtractedPath(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   string
	}{
		{name: "mp3", format: "mp3", want: filepath.Join("audio", "lecture.mp3")},
		{name: "wav upper", format: "WAV", want: filepath.Join("audio", "lecture.wav")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultExtractAudioOptions()
			opts.Format = tt.format
			if got := ExtractedPath("/videos/lecture.mp4", "audio", opts); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExtractAudioReusesExisting(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "clip.mp4")
	audioDir := filepath.Join(dir, "audio")
	if err := os.WriteFile(videoPath, []byte("not really a video"), 0644); err != nil {
		t.Fatalf("failed to write video: %v", err)
	}
	if err := os.MkdirAll(audioDir, 0755); err != nil {
		t.Fatalf("failed to create audio dir: %v", err)
	}
	existing := filepath.Join(audioDir, "clip.mp3")
	if err := os.WriteFile(existing, []byte("extracted earlier"), 0644); err != nil {
		t.Fatalf("failed to write audio: %v", err)
	}

	// the binary path is bogus: reaching ffmpeg would fail the test
	p := NewProcessor(filepath.Join(dir, "no-such-ffmpeg"))
	got, err := p.ExtractAudio(context.Background(), videoPath, audioDir, DefaultExtractAudioOptions())
	if err != nil {
		t.Fatalf("ExtractAudio returned error: %v", err)
	}
	if got != existing {
		t.Errorf("got %s, want %s", got, existing)
	}

	data, err := os.ReadFile(existing)
	if err != nil || string(data) != "extracted earlier" {
		t.Errorf("existing extraction was modified: %q, %v", data, err)
	}
}

func TestExtractAudioErrors(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(videoPath, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write video: %v", err)
	}
	p := NewProcessor(filepath.Join(dir, "no-such-ffmpeg"))

	if _, err := p.ExtractAudio(context.Background(), filepath.Join(dir, "missing.mp4"), dir, DefaultExtractAudioOptions()); err == nil {
		t.Error("expected error for missing video")
	}

	opts := DefaultExtractAudioOptions()
	opts.Format = "flac"
	if _, err := p.ExtractAudio(context.Background(), videoPath, dir, opts); !errors.Is(err, audio.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.ExtractAudio(ctx, videoPath, filepath.Join(dir, "out"), DefaultExtractAudioOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// slowFFmpeg writes a fake ffmpeg that creates its mp3 output in two steps a
// second apart and records every invocation in runsPath.
func slowFFmpeg(t *testing.T, dir, runsPath string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake ffmpeg is a shell script")
	}
	script := `#!/bin/sh
out=""
for a in "$@"; do
	case "$a" in *.mp3) out="$a" ;; esac
done
echo run >> "` + runsPath + `"
printf partial > "$out"
sleep 1
printf -- -complete >> "$out"
`
	path := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write fake ffmpeg: %v", err)
	}
	return path
}

func TestExtractAudioConcurrentCallersSeeCompleteFile(t *testing.T) {
	tests := []struct {
		name      string
		overwrite bool
		wantRuns  int
	}{
		{name: "reuse", overwrite: false, wantRuns: 1},
		{name: "overwrite", overwrite: true, wantRuns: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			runsPath := filepath.Join(dir, "runs")
			p := NewProcessor(slowFFmpeg(t, dir, runsPath))

			videoPath := filepath.Join(dir, "talk.mp4")
			if err := os.WriteFile(videoPath, []byte("video"), 0644); err != nil {
				t.Fatalf("failed to write video: %v", err)
			}
			audioDir := filepath.Join(dir, "audio")
			opts := DefaultExtractAudioOptions()
			opts.Overwrite = tt.overwrite

			var wg sync.WaitGroup
			paths := make([]string, 2)
			contents := make([]string, 2)
			for i := range 2 {
				if i == 1 {
					time.Sleep(300 * time.Millisecond)
				}
				wg.Go(func() {
					got, err := p.ExtractAudio(context.Background(), videoPath, audioDir, opts)
					if err != nil {
						t.Errorf("caller %d: ExtractAudio returned error: %v", i, err)
						return
					}
					data, err := os.ReadFile(got)
					if err != nil {
						t.Errorf("caller %d: failed to read %s: %v", i, got, err)
						return
					}
					paths[i] = got
					contents[i] = string(data)
				})
			}
			wg.Wait()

			want := filepath.Join(audioDir, "talk.mp3")
			for i := range 2 {
				if paths[i] != want {
					t.Errorf("caller %d got path %s, want %s", i, paths[i], want)
				}
				if contents[i] != "partial-complete" {
					t.Errorf("caller %d read %q, want complete extraction", i, contents[i])
				}
			}

			runs, err := os.ReadFile(runsPath)
			if err != nil {
				t.Fatalf("failed to read run log: %v", err)
			}
			if got := strings.Count(string(runs), "run"); got != tt.wantRuns {
				t.Errorf("ffmpeg ran %d times, want %d", got, tt.wantRuns)
			}

			if _, err := os.Stat(partialPathFor(want)); !os.IsNotExist(err) {
				t.Errorf("temporary extraction left behind: %v", err)
			}
		})
	}
}

func TestPartialPathFor(t *testing.T) {
	got := partialPathFor(filepath.Join("audio", "talk.mp3"))
	if want := filepath.Join("audio", ".talk.partial.mp3"); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
