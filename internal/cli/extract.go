package cli

import (
	"fmt"
	"path/filepath"

	"github.com/mgpai22/wordsub/internal/video"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract audio from a video file",
	Long: `Extract the audio track from a video file into the audio directory,
named after the video with the format's extension.

Supported formats are mp3 (libmp3lame at --bitrate) and wav (16-bit PCM).
An existing extraction is kept unless --overwrite is given.

Examples:
  wordsub extract video.mp4
  wordsub extract video.mp4 --audio-dir ./audio -f wav
  wordsub extract video.mp4 --bitrate 128k --sample-rate 48000 --channels 2`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().
		StringP("format", "f", "", "Output audio format (mp3, wav)")
	extractCmd.Flags().
		StringP("bitrate", "b", "", "Bitrate for mp3 (e.g. 64k, 128k)")
	extractCmd.Flags().
		IntP("sample-rate", "r", 0, "Sample rate in Hz (e.g. 16000, 44100)")
	extractCmd.Flags().
		Int("channels", 0, "Number of audio channels (1=mono, 2=stereo)")
	extractCmd.Flags().
		String("audio-dir", "", "Output directory (default next to the video)")
	extractCmd.Flags().
		Bool("overwrite", false, "Re-extract even when the output exists")
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	flags := cmd.Flags()

	opts := video.DefaultExtractAudioOptions()
	opts.Format = cfg.Audio.Format
	opts.Bitrate = cfg.Audio.Bitrate
	opts.SampleRate = cfg.Audio.SampleRate
	opts.Channels = cfg.Audio.Channels
	opts.Overwrite = cfg.Audio.Overwrite
	audioDir := cfg.Paths.AudioDir

	if flags.Changed("format") {
		opts.Format, _ = flags.GetString("format")
	}
	if flags.Changed("bitrate") {
		opts.Bitrate, _ = flags.GetString("bitrate")
	}
	if flags.Changed("sample-rate") {
		opts.SampleRate, _ = flags.GetInt("sample-rate")
	}
	if flags.Changed("channels") {
		opts.Channels, _ = flags.GetInt("channels")
	}
	if flags.Changed("overwrite") {
		opts.Overwrite, _ = flags.GetBool("overwrite")
	}
	if flags.Changed("audio-dir") {
		audioDir, _ = flags.GetString("audio-dir")
	}
	if audioDir == "" {
		audioDir = filepath.Dir(videoPath)
	}

	logger.Infow("Extracting audio",
		"video", videoPath,
		"audio_dir", audioDir,
		"format", opts.Format,
		"sample_rate", opts.SampleRate,
		"channels", opts.Channels,
	)

	outputPath, err := video.NewProcessor("").ExtractAudio(cmd.Context(), videoPath, audioDir, opts)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Audio extracted successfully: %s\n", absOutput)

	return nil
}
