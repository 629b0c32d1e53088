package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgpai22/wordsub/internal/audio"
	"github.com/mgpai22/wordsub/internal/pipeline"
	"github.com/mgpai22/wordsub/internal/transcribe"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [media_file]",
	Short: "Generate a transcript summary and subtitles for one file",
	Long: `Transcribe an audio or video file and write, for every language, a
plain-text transcript summary and a subtitle file.

Video files have their audio extracted first (mp3 at 64k, 44.1 kHz, mono by
default) into the audio directory; an earlier extraction is reused unless
--overwrite is given. Long audio is split into chunks and transcribed in
parallel.

Captions are built from word timestamps and never exceed --max-chars
characters unless a single word is longer. Segments without word timestamps
have their time spread evenly over their captions.

With --provider file the input is an existing Whisper/WhisperX JSON
transcript and nothing is sent over the network.

Outputs are named <base>_<model>_<lang>.txt and <base>_<model>_<lang>.<format>.

Examples:
  wordsub generate lecture.mp4
  wordsub generate podcast.mp3 -l en,es --format vtt
  wordsub generate talk.wav -p gemini -k YOUR_KEY --max-chars 42
  wordsub generate talk.json -p file --subtitles-dir subs`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addTranscriptionFlags(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	sourcePath := args[0]
	ctx := cmd.Context()

	if _, err := os.Stat(sourcePath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", sourcePath)
	}

	resolved, err := applyFlags(cmd, cfg)
	if err != nil {
		return err
	}
	if transcribe.Provider(resolved.Transcription.Provider) != transcribe.ProviderFile && !audio.IsMediaFile(sourcePath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(sourcePath))
	}

	opts, err := pipelineOptions(cmd, resolved)
	if err != nil {
		return err
	}

	logger.Infow("Starting subtitle generation",
		"input", sourcePath,
		"provider", opts.Provider,
		"model", opts.Model,
		"languages", resolved.Transcription.Languages,
		"format", opts.Format,
		"max_chars", opts.MaxChars,
	)

	runner := pipeline.New(opts, logger)
	out := cmd.OutOrStdout()

	for _, job := range pipeline.Jobs([]string{sourcePath}, resolved.Transcription.Languages) {
		result, err := runner.Run(ctx, job)
		if err != nil {
			return fmt.Errorf("%s (%s): %w", filepath.Base(job.Source), job.Language, err)
		}

		absSubs, _ := filepath.Abs(result.SubtitlePath)
		absSummary, _ := filepath.Abs(result.SummaryPath)
		fmt.Fprintf(out, "Subtitles generated successfully: %s\n", absSubs)
		fmt.Fprintf(out, "  Summary: %s\n", absSummary)
		fmt.Fprintf(out, "  Captions: %d\n", result.Captions.Count)
		fmt.Fprintf(out, "  Audio length: %s\n", result.AudioLength.String())
	}

	return nil
}
