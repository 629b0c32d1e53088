package cli

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/mgpai22/wordsub/internal/caption"
	"github.com/mgpai22/wordsub/internal/subtitle"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [subtitle.srt]",
	Short: "Show the captions of an SRT file and check them",
	Long: `Print every caption of an SRT file with its timing and length, then
report numbering gaps, inverted or overlapping captions and captions longer
than --max-chars.

Examples:
  wordsub inspect talk_whisper-1_en.srt
  wordsub inspect talk.srt -m 42 --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().
		IntP("max-chars", "m", 0, "Character budget to check against")
	inspectCmd.Flags().
		Bool("strict", false, "Exit with an error when any issue is found")
	inspectCmd.Flags().
		Bool("summary", false, "Only print the summary line")
}

func runInspect(cmd *cobra.Command, args []string) error {
	maxChars := cfg.Subtitles.MaxChars
	if cmd.Flags().Changed("max-chars") {
		maxChars, _ = cmd.Flags().GetInt("max-chars")
	}
	strict, _ := cmd.Flags().GetBool("strict")
	summaryOnly, _ := cmd.Flags().GetBool("summary")

	track, err := subtitle.Open(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !summaryOnly {
		fmt.Fprintln(out, renderCaptions(track.Captions))
	}

	stats := caption.Stats(track.Captions, maxChars)
	fmt.Fprintf(out, "%d captions covering %.3fs, longest %d chars, %d over %d\n",
		stats.Count, stats.Covered, stats.MaxLen, stats.Oversized, maxChars)

	issues := subtitle.Check(track, maxChars)
	for _, issue := range issues {
		fmt.Fprintf(out, "caption %d: %s\n", issue.Index, issue.Message)
	}

	if strict && len(issues) > 0 {
		return fmt.Errorf("%d issues found", len(issues))
	}
	return nil
}

func renderCaptions(units []caption.Unit) string {
	headers := []string{"#", "Start", "End", "Dur", "Chars", "Text"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(units))
	for _, u := range units {
		start, _ := caption.FormatTimestamp(u.Start)
		end, _ := caption.FormatTimestamp(u.End)
		rows = append(rows, []string{
			strconv.Itoa(u.Index),
			start,
			end,
			strconv.FormatFloat(u.Duration(), 'f', 3, 64),
			strconv.Itoa(utf8.RuneCountInString(u.Text)),
			u.Text,
		})
	}
	return renderTable(headers, rows, aligns)
}
