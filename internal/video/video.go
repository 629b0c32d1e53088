package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/mgpai22/wordsub/internal/audio"
	ffmpegbin "github.com/mgpai22/wordsub/internal/ffmpeg"
)

const lockRetryDelay = 50 * time.Millisecond

// holds options for audio extraction
type ExtractAudioOptions struct {
	audio.EncodeOptions
	// re-extract even when the output already exists
	Overwrite bool
}

// mp3 at 64k, 44.1 kHz, mono, reusing earlier extractions
func DefaultExtractAudioOptions() ExtractAudioOptions {
	return ExtractAudioOptions{EncodeOptions: audio.DefaultEncodeOptions()}
}

// defines interface for video processing operations
type Processor interface {
	// extracts the audio track of videoPath into audioDir and returns the
	// path written
	ExtractAudio(ctx context.Context, videoPath, audioDir string, opts ExtractAudioOptions) (string, error)
}

// default implementation using ffmpeg
type DefaultProcessor struct {
	ffmpegPath string
}

// ffmpegPath may be empty to locate the binary on first use
func NewProcessor(ffmpegPath string) *DefaultProcessor {
	return &DefaultProcessor{ffmpegPath: ffmpegPath}
}

// ExtractedPath is where the audio of videoPath lands: the video's base
// name with the format's extension, inside audioDir.
func ExtractedPath(videoPath, audioDir string, opts ExtractAudioOptions) string {
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	return filepath.Join(audioDir, base+opts.Extension())
}

// extracts audio from video file. Concurrent calls for the same output are
// serialized on <output>.lock, and ffmpeg writes to a temporary file that is
// renamed into place, so a caller never sees a half-written extraction.
func (p *DefaultProcessor) ExtractAudio(
	ctx context.Context,
	videoPath, audioDir string,
	opts ExtractAudioOptions,
) (string, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return "", fmt.Errorf("video file not found: %s", videoPath)
	}

	kwargs, err := audio.CodecArgs(opts.EncodeOptions)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(audioDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := ExtractedPath(videoPath, audioDir, opts)

	lock := flock.New(outputPath + ".lock")
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return "", fmt.Errorf("acquire lock for %s: %w", outputPath, err)
	}
	if !ok {
		return "", fmt.Errorf("acquire lock for %s: already held", outputPath)
	}
	defer func() { _ = lock.Unlock() }()

	if _, err := os.Stat(outputPath); err == nil && !opts.Overwrite {
		return outputPath, nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	ffmpegPath := p.ffmpegPath
	if ffmpegPath == "" {
		ffmpegPath, err = ffmpegbin.FFmpegPath()
		if err != nil {
			return "", err
		}
	}

	// keeps the extension so ffmpeg picks the right muxer
	partialPath := partialPathFor(outputPath)
	defer os.Remove(partialPath)

	err = ffmpeg.Input(videoPath).
		Output(partialPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return "", fmt.Errorf("ffmpeg extraction failed: %w", err)
	}

	if err := os.Rename(partialPath, outputPath); err != nil {
		return "", fmt.Errorf("failed to move extracted audio into place: %w", err)
	}

	return outputPath, nil
}

// <dir>/.<base>.partial<ext>
func partialPathFor(outputPath string) string {
	dir, name := filepath.Split(outputPath)
	ext := filepath.Ext(name)
	return filepath.Join(dir, "."+strings.TrimSuffix(name, ext)+".partial"+ext)
}
