package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	validProviders       = []string{"openai", "gemini", "file"}
	validSubtitleFormats = []string{"srt", "vtt", "ass"}
	validAudioFormats    = []string{"mp3", "wav"}
)

func (c *Config) normalize() error {
	c.Subtitles.Format = strings.ToLower(strings.TrimSpace(c.Subtitles.Format))
	c.Transcription.Provider = strings.ToLower(strings.TrimSpace(c.Transcription.Provider))
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = DefaultModel(c.Transcription.Provider)
	}
	c.Audio.Format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Audio.Format), "."))

	langs := make([]string, 0, len(c.Transcription.Languages))
	for _, lang := range c.Transcription.Languages {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang != "" && !slices.Contains(langs, lang) {
			langs = append(langs, lang)
		}
	}
	c.Transcription.Languages = langs

	var err error
	if c.Paths.AudioDir, err = ExpandPath(c.Paths.AudioDir); err != nil {
		return fmt.Errorf("paths.audio_dir: %w", err)
	}
	if c.Paths.TranscriptsDir, err = ExpandPath(c.Paths.TranscriptsDir); err != nil {
		return fmt.Errorf("paths.transcripts_dir: %w", err)
	}
	if c.Paths.SubtitlesDir, err = ExpandPath(c.Paths.SubtitlesDir); err != nil {
		return fmt.Errorf("paths.subtitles_dir: %w", err)
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Subtitles.MaxChars <= 0 {
		return fmt.Errorf("subtitles.max_chars must be positive, got %d", c.Subtitles.MaxChars)
	}
	if !slices.Contains(validSubtitleFormats, c.Subtitles.Format) {
		return fmt.Errorf("subtitles.format %q is not one of %s", c.Subtitles.Format, strings.Join(validSubtitleFormats, ", "))
	}
	if !slices.Contains(validProviders, c.Transcription.Provider) {
		return fmt.Errorf("transcription.provider %q is not one of %s", c.Transcription.Provider, strings.Join(validProviders, ", "))
	}
	if len(c.Transcription.Languages) == 0 {
		return errors.New("transcription.languages must list at least one language")
	}
	if c.Transcription.Concurrency <= 0 {
		return fmt.Errorf("transcription.concurrency must be positive, got %d", c.Transcription.Concurrency)
	}
	if c.Transcription.ChunkMinutes <= 0 {
		return fmt.Errorf("transcription.chunk_minutes must be positive, got %d", c.Transcription.ChunkMinutes)
	}
	if !slices.Contains(validAudioFormats, c.Audio.Format) {
		return fmt.Errorf("audio.format %q is not one of %s", c.Audio.Format, strings.Join(validAudioFormats, ", "))
	}
	if c.Audio.SampleRate <= 0 || c.Audio.Channels <= 0 {
		return errors.New("audio.sample_rate and audio.channels must be positive")
	}
	return nil
}
