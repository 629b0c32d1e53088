package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is looked up in the working directory when no config path
// is given.
const DefaultFileName = "wordsub.toml"

// Subtitles controls caption segmentation and output.
type Subtitles struct {
	MaxChars int    `toml:"max_chars"`
	Format   string `toml:"format"`
}

// Transcription selects the speech-to-text provider.
type Transcription struct {
	Provider     string   `toml:"provider"`
	Model        string   `toml:"model"`
	Languages    []string `toml:"languages"`
	Concurrency  int      `toml:"concurrency"`
	ChunkMinutes int      `toml:"chunk_minutes"`
	Prompt       string   `toml:"prompt"`
}

// Audio controls extraction from video sources.
type Audio struct {
	Format     string `toml:"format"`
	Bitrate    string `toml:"bitrate"`
	SampleRate int    `toml:"sample_rate"`
	Channels   int    `toml:"channels"`
	Overwrite  bool   `toml:"overwrite"`
}

// Paths contains output directories. Empty values mean "next to the input".
type Paths struct {
	AudioDir       string `toml:"audio_dir"`
	TranscriptsDir string `toml:"transcripts_dir"`
	SubtitlesDir   string `toml:"subtitles_dir"`
}

// Config is the full application configuration.
type Config struct {
	Subtitles     Subtitles     `toml:"subtitles"`
	Transcription Transcription `toml:"transcription"`
	Audio         Audio         `toml:"audio"`
	Paths         Paths         `toml:"paths"`
}

// Load reads path (or DefaultFileName when path is empty and the file
// exists) over the defaults, then normalizes and validates the result. The
// returned bool reports whether a file was read.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	resolved, exists, err := resolvePath(path)
	if err != nil {
		return nil, false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	} else if path != "" {
		return nil, false, fmt.Errorf("config file not found: %s", resolved)
	}

	if err := cfg.normalize(); err != nil {
		return nil, false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}

	return &cfg, exists, nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	var sb strings.Builder
	encoder := toml.NewEncoder(&sb)
	encoder.SetIndentTables(true)
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return []byte(sb.String()), nil
}

func resolvePath(path string) (string, bool, error) {
	if path == "" {
		path = DefaultFileName
	}
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// ExpandPath resolves a leading ~ and makes the path absolute.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
