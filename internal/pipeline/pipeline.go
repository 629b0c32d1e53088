// Package pipeline turns one media file (or transcript JSON) into a
// transcript summary and a subtitle file per language.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mgpai22/wordsub/internal/audio"
	"github.com/mgpai22/wordsub/internal/caption"
	"github.com/mgpai22/wordsub/internal/logging"
	"github.com/mgpai22/wordsub/internal/subtitle"
	"github.com/mgpai22/wordsub/internal/summary"
	"github.com/mgpai22/wordsub/internal/transcribe"
	"github.com/mgpai22/wordsub/internal/video"
)

// Options configure every job a Runner executes.
type Options struct {
	Provider transcribe.Provider
	APIKey   string
	Model    string
	Prompt   string

	MaxChars int
	Format   subtitle.Format

	ChunkDuration time.Duration
	Concurrency   int // transcription workers per job

	Audio video.ExtractAudioOptions

	// empty directories mean "next to the source file"
	AudioDir       string
	TranscriptsDir string
	SubtitlesDir   string
}

// Job is one source file transcribed in one language.
type Job struct {
	Source   string
	Language string
}

// Output describes what a finished job wrote.
type Output struct {
	Job
	SummaryPath  string
	SubtitlePath string
	Segments     int
	Captions     caption.Summary
	AudioLength  time.Duration
	Elapsed      time.Duration
	Err          error
}

// creates a transcriber for one language
type TranscriberFactory func(ctx context.Context, language string) (transcribe.Transcriber, error)

type Runner struct {
	opts           Options
	logger         *logging.Logger
	processor      video.Processor
	newTranscriber TranscriberFactory
}

func New(opts Options, logger *logging.Logger) *Runner {
	if opts.MaxChars <= 0 {
		opts.MaxChars = subtitle.DefaultMaxChars
	}
	if opts.Format == "" {
		opts.Format = subtitle.FormatSRT
	}
	if opts.Audio.Format == "" {
		opts.Audio = video.DefaultExtractAudioOptions()
	}

	r := &Runner{
		opts:      opts,
		logger:    logger.OrNop(),
		processor: video.NewProcessor(""),
	}
	r.newTranscriber = func(ctx context.Context, language string) (transcribe.Transcriber, error) {
		return transcribe.Factory(ctx, opts.Provider, opts.APIKey, transcribe.Options{
			Language: language,
			Model:    opts.Model,
			Prompt:   opts.Prompt,
			Logger:   r.logger,
		})
	}
	return r
}

// WithTranscriber replaces the provider factory.
func (r *Runner) WithTranscriber(f TranscriberFactory) *Runner {
	r.newTranscriber = f
	return r
}

// ModelLabel is the model name used in output file names and summaries.
func (r *Runner) ModelLabel() string {
	label := r.opts.Model
	if label == "" {
		label = string(r.opts.Provider)
	}
	return strings.NewReplacer("/", "-", "\\", "-", " ", "-").Replace(label)
}

// OutputPaths returns the summary and subtitle destinations for job:
// <base>_<model>_<lang>.txt and <base>_<model>_<lang>.<ext>.
func (r *Runner) OutputPaths(job Job) (summaryPath, subtitlePath string) {
	srcDir := filepath.Dir(job.Source)
	base := strings.TrimSuffix(filepath.Base(job.Source), filepath.Ext(job.Source))
	name := base + "_" + r.ModelLabel()
	if job.Language != "" {
		name += "_" + job.Language
	}

	summaryPath = filepath.Join(orDefault(r.opts.TranscriptsDir, srcDir), name+".txt")
	subtitlePath = filepath.Join(orDefault(r.opts.SubtitlesDir, srcDir), name+subtitle.GetExtensionForFormat(r.opts.Format))
	return summaryPath, subtitlePath
}

// Run executes one job.
func (r *Runner) Run(ctx context.Context, job Job) (*Output, error) {
	log := r.logger.With("file", filepath.Base(job.Source), "lang", job.Language)
	start := time.Now()

	if _, err := os.Stat(job.Source); err != nil {
		return nil, fmt.Errorf("source not found: %w", err)
	}

	transcriber, err := r.newTranscriber(ctx, job.Language)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcriber: %w", err)
	}

	log.Infow("Transcribing", "provider", transcriber.Name())

	result, err := r.transcribe(ctx, log, transcriber, job.Source)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	log.Infow("Transcription complete",
		"segments", len(result.Segments),
		"language", result.Language,
	)

	generator := subtitle.NewGenerator(r.opts.MaxChars, log)
	track, err := generator.Generate(result.Segments, r.opts.Format)
	if err != nil {
		return nil, err
	}
	track.Language = job.Language

	writer, err := subtitle.NewWriter(r.opts.Format)
	if err != nil {
		return nil, err
	}

	audioLength := result.Duration
	if audioLength == 0 && len(result.Segments) > 0 {
		audioLength = time.Duration(result.Segments[len(result.Segments)-1].End * float64(time.Second))
	}

	summaryPath, subtitlePath := r.OutputPaths(job)
	out := &Output{
		Job:          job,
		SummaryPath:  summaryPath,
		SubtitlePath: subtitlePath,
		Segments:     len(result.Segments),
		Captions:     caption.Stats(track.Captions, r.opts.MaxChars),
		AudioLength:  audioLength,
	}

	err = withLock(ctx, subtitlePath, func() error {
		if err := writer.Write(track, subtitlePath); err != nil {
			return fmt.Errorf("failed to write subtitles: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out.Elapsed = time.Since(start)
	err = withLock(ctx, summaryPath, func() error {
		return summary.Write(summary.Summary{
			Model:          r.ModelLabel(),
			ProcessingTime: out.Elapsed,
			AudioLength:    audioLength,
			Text:           result.Text,
		}, summaryPath)
	})
	if err != nil {
		return nil, err
	}

	log.Infow("Wrote outputs",
		"subtitles", subtitlePath,
		"summary", summaryPath,
		"captions", out.Captions.Count,
		"elapsed", out.Elapsed.Round(time.Millisecond).String(),
	)

	return out, nil
}

func (r *Runner) transcribe(
	ctx context.Context,
	log *logging.Logger,
	t transcribe.Transcriber,
	source string,
) (*transcribe.Result, error) {
	if r.opts.Provider == transcribe.ProviderFile {
		return t.Transcribe(ctx, source)
	}

	if !audio.IsMediaFile(source) {
		return nil, fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(source))
	}

	tempDir, err := os.MkdirTemp("", "wordsub-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	audioPath, err := r.prepareAudio(ctx, log, source, tempDir)
	if err != nil {
		return nil, err
	}

	chunkDuration := r.opts.ChunkDuration
	if chunkDuration <= 0 {
		chunkDuration = 10 * time.Minute
	}

	chunks, err := audio.ChunkAudio(ctx, audioPath, chunkDuration, filepath.Join(tempDir, "chunks"))
	if err != nil {
		return nil, fmt.Errorf("failed to split audio: %w", err)
	}
	defer func() {
		if err := audio.CleanupChunks(chunks); err != nil {
			log.Debugw("Failed to remove audio chunks", "error", err)
		}
	}()

	log.Debugw("Created audio chunks", "count", len(chunks))

	return transcribe.TranscribeChunks(ctx, t, chunks, r.opts.Concurrency)
}

// extracts video audio into the audio dir and re-encodes audio the provider
// may not accept
func (r *Runner) prepareAudio(ctx context.Context, log *logging.Logger, source, tempDir string) (string, error) {
	if audio.IsVideoFile(source) {
		audioDir := orDefault(r.opts.AudioDir, filepath.Dir(source))
		log.Infow("Extracting audio from video", "audio_dir", audioDir)

		audioPath, err := r.processor.ExtractAudio(ctx, source, audioDir, r.opts.Audio)
		if err != nil {
			return "", fmt.Errorf("failed to extract audio: %w", err)
		}
		return audioPath, nil
	}

	ext := strings.ToLower(filepath.Ext(source))
	if ext == ".mp3" || ext == ".wav" {
		return source, nil
	}

	log.Infow("Compressing audio for transcription", "from", ext)
	audioPath := filepath.Join(tempDir, "audio"+r.opts.Audio.Extension())
	if err := audio.CompressAudio(ctx, source, audioPath, r.opts.Audio.EncodeOptions); err != nil {
		return "", fmt.Errorf("failed to compress audio: %w", err)
	}
	return audioPath, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
