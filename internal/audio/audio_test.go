package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCodecArgs(t *testing.T) {
	tests := []struct {
		name      string
		opts      EncodeOptions
		wantCodec string
		wantRate  bool
		wantErr   bool
	}{
		{name: "default mp3", opts: DefaultEncodeOptions(), wantCodec: "libmp3lame", wantRate: true},
		{name: "wav", opts: EncodeOptions{Format: "WAV", SampleRate: 44100, Channels: 1}, wantCodec: "pcm_s16le"},
		{name: "aac rejected", opts: EncodeOptions{Format: "aac"}, wantErr: true},
		{name: "empty rejected", opts: EncodeOptions{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kwargs, err := CodecArgs(tt.opts)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if kwargs["acodec"] != tt.wantCodec {
				t.Errorf("acodec = %v, want %s", kwargs["acodec"], tt.wantCodec)
			}
			if _, ok := kwargs["vn"]; !ok {
				t.Error("expected video to be dropped")
			}
			_, hasRate := kwargs["b:a"]
			if hasRate != tt.wantRate {
				t.Errorf("bitrate present = %v, want %v", hasRate, tt.wantRate)
			}
			if kwargs["ar"] != tt.opts.SampleRate || kwargs["ac"] != tt.opts.Channels {
				t.Errorf("unexpected rate/channels %v/%v", kwargs["ar"], kwargs["ac"])
			}
		})
	}
}

func TestDefaultEncodeOptions(t *testing.T) {
	opts := DefaultEncodeOptions()
	if opts.Format != "mp3" || opts.Bitrate != "64k" || opts.SampleRate != 44100 || opts.Channels != 1 {
		t.Errorf("unexpected defaults %+v", opts)
	}
	if opts.Extension() != ".mp3" {
		t.Errorf("unexpected extension %q", opts.Extension())
	}
}

func TestParseFFprobeDuration(t *testing.T) {
	got, err := parseFFprobeDuration([]byte(`{"format": {"duration": "12.500000"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 12500*time.Millisecond {
		t.Errorf("got %v, want 12.5s", got)
	}

	for _, bad := range []string{``, `{"format": {}}`, `{"format": {"duration": "N/A"}}`, `{"format": {"duration": "-1"}}`} {
		if _, err := parseFFprobeDuration([]byte(bad)); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestPlanChunks(t *testing.T) {
	jobs := planChunks("/media/talk.mp3", "/tmp/chunks", 25, 10)
	if len(jobs) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(jobs))
	}

	wantEnds := []float64{10, 20, 25}
	for i, j := range jobs {
		if j.index != i {
			t.Errorf("chunk %d has index %d", i, j.index)
		}
		if j.startSeconds != float64(i*10) || j.endSeconds != wantEnds[i] {
			t.Errorf("chunk %d spans %v..%v", i, j.startSeconds, j.endSeconds)
		}
	}
	if want := filepath.Join("/tmp/chunks", "talk_chunk_002.mp3"); jobs[2].chunkPath != want {
		t.Errorf("chunk path = %s, want %s", jobs[2].chunkPath, want)
	}

	info := jobs[1].info()
	if info.StartTime != 10*time.Second || info.EndTime != 20*time.Second {
		t.Errorf("unexpected chunk info %+v", info)
	}

	if got := planChunks("a.mp3", "out", 0, 10); len(got) != 0 {
		t.Errorf("expected no chunks for empty audio, got %d", len(got))
	}
}

func TestMediaDetection(t *testing.T) {
	tests := []struct {
		path  string
		video bool
		audio bool
	}{
		{"lecture.MP4", true, false},
		{"clip.mkv", true, false},
		{"podcast.mp3", false, true},
		{"voice.Wav", false, true},
		{"notes.txt", false, false},
		{"noext", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if IsVideoFile(tt.path) != tt.video {
				t.Errorf("IsVideoFile = %v", !tt.video)
			}
			if IsAudioFile(tt.path) != tt.audio {
				t.Errorf("IsAudioFile = %v", !tt.audio)
			}
			if IsMediaFile(tt.path) != (tt.video || tt.audio) {
				t.Errorf("IsMediaFile mismatch")
			}
		})
	}
}

func TestCleanupChunks(t *testing.T) {
	dir := t.TempDir()
	var chunks []ChunkInfo
	for _, name := range []string{"a_chunk_000.mp3", "a_chunk_001.mp3"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write chunk: %v", err)
		}
		chunks = append(chunks, ChunkInfo{Path: path})
	}
	chunks = append(chunks, ChunkInfo{Path: filepath.Join(dir, "already_gone.mp3")})

	if err := CleanupChunks(chunks); err != nil {
		t.Fatalf("CleanupChunks returned error: %v", err)
	}
	for _, c := range chunks {
		if _, err := os.Stat(c.Path); !os.IsNotExist(err) {
			t.Errorf("chunk %s still exists", c.Path)
		}
	}

	source := filepath.Join(dir, "source.mp3")
	if err := os.WriteFile(source, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	if err := CleanupChunks([]ChunkInfo{{Path: source}}); err != nil {
		t.Fatalf("CleanupChunks returned error: %v", err)
	}
	if _, err := os.Stat(source); err != nil {
		t.Errorf("single-chunk source was removed: %v", err)
	}
}

func TestChunkAudioRejectsBadDuration(t *testing.T) {
	if _, err := ChunkAudio(t.Context(), "x.mp3", 0, t.TempDir()); err == nil {
		t.Error("expected error for zero chunk duration")
	}
}
