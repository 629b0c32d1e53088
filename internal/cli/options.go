package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/mgpai22/wordsub/internal/config"
	"github.com/mgpai22/wordsub/internal/pipeline"
	"github.com/mgpai22/wordsub/internal/subtitle"
	"github.com/mgpai22/wordsub/internal/transcribe"
	"github.com/mgpai22/wordsub/internal/video"
	"github.com/spf13/cobra"
)

// registers the flags shared by generate and batch; unset flags fall back
// to the config file
func addTranscriptionFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringP("api-key", "k", "", "API key (or set OPENAI_API_KEY / GEMINI_API_KEY)")
	cmd.Flags().
		StringP("provider", "p", "", "Transcription provider (openai, gemini, file)")
	cmd.Flags().
		String("model", "", "Transcription model (default depends on provider)")
	cmd.Flags().
		StringSliceP("language", "l", nil, "Languages to transcribe, one subtitle file each (e.g. en,es)")
	cmd.Flags().
		StringP("format", "f", "", "Output subtitle format (srt, vtt, ass)")
	cmd.Flags().
		IntP("max-chars", "m", 0, "Maximum characters per caption")
	cmd.Flags().
		IntP("chunk-duration", "d", 0, "Chunk duration in minutes for splitting audio")
	cmd.Flags().
		Int("concurrency", 0, "Number of parallel transcription workers per file")
	cmd.Flags().
		String("prompt", "", "Extra context passed to the transcription model")
	cmd.Flags().
		String("audio-dir", "", "Directory for audio extracted from video")
	cmd.Flags().
		String("transcripts-dir", "", "Directory for transcript summaries")
	cmd.Flags().
		String("subtitles-dir", "", "Directory for subtitle files")
	cmd.Flags().
		Bool("overwrite", false, "Re-extract audio even when it already exists")
}

// applies changed flags over the loaded config
func applyFlags(cmd *cobra.Command, base *config.Config) (config.Config, error) {
	c := *base
	c.Transcription.Languages = append([]string(nil), base.Transcription.Languages...)
	flags := cmd.Flags()

	if flags.Changed("provider") {
		c.Transcription.Provider, _ = flags.GetString("provider")
		c.Transcription.Provider = strings.ToLower(c.Transcription.Provider)
		if !flags.Changed("model") {
			c.Transcription.Model = config.DefaultModel(c.Transcription.Provider)
		}
	}
	if flags.Changed("model") {
		c.Transcription.Model, _ = flags.GetString("model")
	}
	if flags.Changed("language") {
		langs, _ := flags.GetStringSlice("language")
		c.Transcription.Languages = c.Transcription.Languages[:0]
		for _, lang := range langs {
			if lang = strings.ToLower(strings.TrimSpace(lang)); lang != "" && !slices.Contains(c.Transcription.Languages, lang) {
				c.Transcription.Languages = append(c.Transcription.Languages, lang)
			}
		}
	}
	if flags.Changed("format") {
		format, _ := flags.GetString("format")
		c.Subtitles.Format = strings.ToLower(format)
	}
	if flags.Changed("max-chars") {
		c.Subtitles.MaxChars, _ = flags.GetInt("max-chars")
	}
	if flags.Changed("chunk-duration") {
		c.Transcription.ChunkMinutes, _ = flags.GetInt("chunk-duration")
	}
	if flags.Changed("concurrency") {
		c.Transcription.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("prompt") {
		c.Transcription.Prompt, _ = flags.GetString("prompt")
	}
	if flags.Changed("audio-dir") {
		c.Paths.AudioDir, _ = flags.GetString("audio-dir")
	}
	if flags.Changed("transcripts-dir") {
		c.Paths.TranscriptsDir, _ = flags.GetString("transcripts-dir")
	}
	if flags.Changed("subtitles-dir") {
		c.Paths.SubtitlesDir, _ = flags.GetString("subtitles-dir")
	}
	if flags.Changed("overwrite") {
		c.Audio.Overwrite, _ = flags.GetBool("overwrite")
	}

	if err := c.Validate(); err != nil {
		return config.Config{}, err
	}
	return c, nil
}

// picks the flag value, then the provider's environment variable
func resolveAPIKey(flagValue string, provider transcribe.Provider, getenv func(string) string) (string, error) {
	if !transcribe.NeedsAPIKey(provider) {
		return "", nil
	}
	if flagValue != "" {
		return flagValue, nil
	}
	env := transcribe.APIKeyEnv(provider)
	if key := getenv(env); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%s API key is required: use --api-key flag or set %s environment variable", provider, env)
}

// builds the pipeline options for a fully resolved config
func pipelineOptions(cmd *cobra.Command, c config.Config) (pipeline.Options, error) {
	provider := transcribe.Provider(c.Transcription.Provider)

	flagKey, _ := cmd.Flags().GetString("api-key")
	apiKey, err := resolveAPIKey(flagKey, provider, os.Getenv)
	if err != nil {
		return pipeline.Options{}, err
	}

	format, err := subtitle.ParseFormat(c.Subtitles.Format)
	if err != nil {
		return pipeline.Options{}, err
	}

	extract := video.DefaultExtractAudioOptions()
	extract.Format = c.Audio.Format
	extract.Bitrate = c.Audio.Bitrate
	extract.SampleRate = c.Audio.SampleRate
	extract.Channels = c.Audio.Channels
	extract.Overwrite = c.Audio.Overwrite

	return pipeline.Options{
		Provider:       provider,
		APIKey:         apiKey,
		Model:          c.Transcription.Model,
		Prompt:         c.Transcription.Prompt,
		MaxChars:       c.Subtitles.MaxChars,
		Format:         format,
		ChunkDuration:  time.Duration(c.Transcription.ChunkMinutes) * time.Minute,
		Concurrency:    c.Transcription.Concurrency,
		Audio:          extract,
		AudioDir:       c.Paths.AudioDir,
		TranscriptsDir: c.Paths.TranscriptsDir,
		SubtitlesDir:   c.Paths.SubtitlesDir,
	}, nil
}
