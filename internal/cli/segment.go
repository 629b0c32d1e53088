package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mgpai22/wordsub/internal/subtitle"
	"github.com/mgpai22/wordsub/internal/transcribe"
	"github.com/spf13/cobra"
)

var segmentCmd = &cobra.Command{
	Use:   "segment [transcript.json]",
	Short: "Split an existing transcript into subtitles",
	Long: `Read a Whisper, WhisperX or OpenAI verbose_json transcript and write
it as captions of at most --max-chars characters. Nothing is transcribed and
nothing is sent over the network.

The output format follows the extension of --output when given, else
--format.

Examples:
  wordsub segment talk.json
  wordsub segment talk.json -m 42 -o talk.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runSegment,
}

func init() {
	rootCmd.AddCommand(segmentCmd)

	segmentCmd.Flags().
		StringP("output", "o", "", "Output subtitle path (default next to the transcript)")
	segmentCmd.Flags().
		StringP("format", "f", "", "Output subtitle format (srt, vtt, ass)")
	segmentCmd.Flags().
		IntP("max-chars", "m", 0, "Maximum characters per caption")
	segmentCmd.Flags().
		StringP("language", "l", "", "Language tag recorded in the track")
}

func runSegment(cmd *cobra.Command, args []string) error {
	transcriptPath := args[0]

	outputPath, _ := cmd.Flags().GetString("output")
	formatName, _ := cmd.Flags().GetString("format")
	language, _ := cmd.Flags().GetString("language")

	maxChars := cfg.Subtitles.MaxChars
	if cmd.Flags().Changed("max-chars") {
		maxChars, _ = cmd.Flags().GetInt("max-chars")
		if maxChars <= 0 {
			return fmt.Errorf("--max-chars must be positive, got %d", maxChars)
		}
	}

	var format subtitle.Format
	switch {
	case formatName != "":
		f, err := subtitle.ParseFormat(formatName)
		if err != nil {
			return err
		}
		format = f
	case outputPath != "":
		format = subtitle.GetFormatFromExtension(outputPath)
	default:
		f, err := subtitle.ParseFormat(cfg.Subtitles.Format)
		if err != nil {
			return err
		}
		format = f
	}

	if outputPath == "" {
		base := strings.TrimSuffix(transcriptPath, filepath.Ext(transcriptPath))
		outputPath = base + subtitle.GetExtensionForFormat(format)
	}

	result, err := transcribe.LoadJSON(transcriptPath)
	if err != nil {
		return err
	}
	if language == "" {
		language = result.Language
	}

	track, err := subtitle.NewGenerator(maxChars, logger).Generate(result.Segments, format)
	if err != nil {
		return err
	}
	track.Language = language

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return fmt.Errorf("failed to create subtitle writer: %w", err)
	}
	if err := writer.Write(track, outputPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtitles written: %s\n", absOutput)
	fmt.Fprintf(out, "  Segments: %d\n", len(result.Segments))
	fmt.Fprintf(out, "  Captions: %d\n", len(track.Captions))

	return nil
}
