package config

const (
	defaultMaxChars        = 80
	defaultSubtitleFormat  = "srt"
	defaultProvider        = "openai"
	defaultConcurrency     = 3
	defaultChunkMinutes    = 10
	defaultAudioFormat     = "mp3"
	defaultAudioBitrate    = "64k"
	defaultAudioSampleRate = 44100
	defaultAudioChannels   = 1
)

var defaultLanguages = []string{"en"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Subtitles: Subtitles{
			MaxChars: defaultMaxChars,
			Format:   defaultSubtitleFormat,
		},
		Transcription: Transcription{
			Provider:     defaultProvider,
			Languages:    append([]string(nil), defaultLanguages...),
			Concurrency:  defaultConcurrency,
			ChunkMinutes: defaultChunkMinutes,
		},
		Audio: Audio{
			Format:     defaultAudioFormat,
			Bitrate:    defaultAudioBitrate,
			SampleRate: defaultAudioSampleRate,
			Channels:   defaultAudioChannels,
		},
	}
}

// DefaultModel returns the model used when none is configured for provider.
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		return "whisper-1"
	case "gemini":
		return "gemini-2.5-flash"
	default:
		return ""
	}
}
