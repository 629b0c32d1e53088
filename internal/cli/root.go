package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/mgpai22/wordsub/internal/config"
	"github.com/mgpai22/wordsub/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "wordsub",
	Short: "Word-timed subtitle generator for audio, video and transcripts",
	Long: `Wordsub turns speech into subtitles whose captions never exceed a
character budget.

It transcribes audio or video with OpenAI Whisper or Google Gemini (or reads
an existing Whisper/WhisperX JSON transcript), writes a plain-text transcript
summary, and splits the transcript into SRT, VTT or ASS captions timed from
word-level timestamps.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		loaded, found, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		if found {
			logger.Debugw("Loaded config", "path", configPath)
		}
		return nil
	},
}

// Execute runs the root command; an interrupt cancels in-flight work.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Config file (default ./"+config.DefaultFileName+" when present)")
}
