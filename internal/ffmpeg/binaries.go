package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// environment overrides for the binaries wordsub runs
const (
	FFmpegEnv  = "WORDSUB_FFMPEG_PATH"
	FFprobeEnv = "WORDSUB_FFPROBE_PATH"
)

// ErrNotFound is returned when ffmpeg or ffprobe cannot be located.
var ErrNotFound = errors.New("ffmpeg binaries not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure locates ffmpeg and ffprobe once per process.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = locate(os.Getenv, exec.LookPath)
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

// env override wins, then PATH
func locate(getenv func(string) string, lookPath func(string) (string, error)) (BinaryPaths, error) {
	paths := BinaryPaths{
		FFmpeg:  strings.TrimSpace(getenv(FFmpegEnv)),
		FFprobe: strings.TrimSpace(getenv(FFprobeEnv)),
	}

	var missing []string
	if paths.FFmpeg == "" {
		found, err := lookPath("ffmpeg")
		if err != nil {
			missing = append(missing, "ffmpeg")
		}
		paths.FFmpeg = found
	}
	if paths.FFprobe == "" {
		found, err := lookPath("ffprobe")
		if err != nil {
			missing = append(missing, "ffprobe")
		}
		paths.FFprobe = found
	}

	if len(missing) > 0 {
		return BinaryPaths{}, fmt.Errorf(
			"%w: %s not on PATH (install ffmpeg or set %s / %s)",
			ErrNotFound,
			strings.Join(missing, ", "),
			FFmpegEnv,
			FFprobeEnv,
		)
	}

	return paths, nil
}
