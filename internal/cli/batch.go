package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mgpai22/wordsub/internal/pipeline"
	"github.com/mgpai22/wordsub/internal/transcribe"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch [directory]",
	Short: "Generate subtitles for every media file in a directory",
	Long: `Process every audio and video file in a directory (or every .json
transcript with --provider file), once per language, with a bounded number
of files in flight.

A failing file is reported and does not stop the others. The command exits
with an error when any job failed.

Examples:
  wordsub batch ./videos -l en,es --audio-dir ./audio --subtitles-dir ./subs
  wordsub batch ./recordings --ext wav --workers 4
  wordsub batch ./transcripts -p file -f vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addTranscriptionFlags(batchCmd)

	batchCmd.Flags().
		IntP("workers", "w", 2, "Number of files processed at once")
	batchCmd.Flags().
		String("ext", "", "Only process files with this extension (e.g. mp4)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	resolved, err := applyFlags(cmd, cfg)
	if err != nil {
		return err
	}
	opts, err := pipelineOptions(cmd, resolved)
	if err != nil {
		return err
	}

	workers, _ := cmd.Flags().GetInt("workers")
	ext, _ := cmd.Flags().GetString("ext")

	sources, err := pipeline.Scan(dir, transcribe.Provider(resolved.Transcription.Provider), ext)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no input files found in %s", dir)
	}

	jobs := pipeline.Jobs(sources, resolved.Transcription.Languages)
	runID, outputs := pipeline.New(opts, logger).Batch(cmd.Context(), jobs, workers)

	headers := []string{"File", "Lang", "Captions", "Audio", "Elapsed", "Result"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}
	rows := make([][]string, 0, len(outputs))
	failed := 0
	for _, out := range outputs {
		result := filepath.Base(out.SubtitlePath)
		captions, audioLen, elapsed := "", "", ""
		if out.Err != nil {
			failed++
			result = "error: " + out.Err.Error()
		} else {
			captions = strconv.Itoa(out.Captions.Count)
			audioLen = out.AudioLength.Round(time.Second).String()
			elapsed = out.Elapsed.Round(time.Millisecond).String()
		}
		rows = append(rows, []string{filepath.Base(out.Source), out.Language, captions, audioLen, elapsed, result})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Run %s\n", runID)
	fmt.Fprintln(w, renderTable(headers, rows, aligns))

	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(outputs))
	}
	return nil
}
