package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mgpai22/wordsub/internal/audio"
	"github.com/mgpai22/wordsub/internal/transcribe"
)

// Scan lists the sources in dir for provider, sorted by name: transcript
// JSON files for the file provider, audio and video files otherwise. A
// non-empty ext narrows the match to that extension.
func Scan(dir string, provider transcribe.Provider, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if ext != "" && !strings.EqualFold(filepath.Ext(name), ext) {
			continue
		}

		path := filepath.Join(dir, name)
		switch {
		case provider == transcribe.ProviderFile:
			if strings.EqualFold(filepath.Ext(name), ".json") {
				sources = append(sources, path)
			}
		case audio.IsMediaFile(path):
			sources = append(sources, path)
		}
	}

	sort.Strings(sources)
	return sources, nil
}

// Jobs pairs every source with every language, sources first.
func Jobs(sources, languages []string) []Job {
	if len(languages) == 0 {
		languages = []string{""}
	}
	jobs := make([]Job, 0, len(sources)*len(languages))
	for _, src := range sources {
		for _, lang := range languages {
			jobs = append(jobs, Job{Source: src, Language: lang})
		}
	}
	return jobs
}

// Batch runs jobs with at most workers in flight. Failed jobs are reported
// in their Output and never stop the others, unless ctx is canceled. The
// returned slice is in job order.
func (r *Runner) Batch(ctx context.Context, jobs []Job, workers int) (string, []Output) {
	runID := uuid.NewString()
	if workers <= 0 {
		workers = 1
	}

	batchRunner := *r
	batchRunner.logger = r.logger.With("run_id", runID)
	batchRunner.logger.Infow("Starting batch",
		"jobs", len(jobs),
		"workers", workers,
	)

	outputs := make([]Output, len(jobs))
	work := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for i := range work {
				job := jobs[i]
				if err := ctx.Err(); err != nil {
					outputs[i] = Output{Job: job, Err: err}
					continue
				}

				out, err := batchRunner.Run(ctx, job)
				if err != nil {
					batchRunner.logger.Errorw("Job failed",
						"file", filepath.Base(job.Source),
						"lang", job.Language,
						"error", err,
					)
					outputs[i] = Output{Job: job, Err: err}
					continue
				}
				outputs[i] = *out
			}
		})
	}

	for i := range jobs {
		work <- i
	}
	close(work)
	wg.Wait()

	failed := 0
	for _, out := range outputs {
		if out.Err != nil {
			failed++
		}
	}
	batchRunner.logger.Infow("Batch finished",
		"succeeded", len(jobs)-failed,
		"failed", failed,
	)

	return runID, outputs
}
