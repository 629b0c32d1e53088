package transcribe

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mgpai22/wordsub/internal/audio"
	"github.com/mgpai22/wordsub/internal/caption"
)

// holds the result of transcribing a chunk
type chunkResult struct {
	Index  int
	Result *Result
	Error  error
}

// TranscribeChunk transcribes one chunk and shifts every segment and word
// timestamp by the chunk's offset in the source.
func TranscribeChunk(ctx context.Context, t Transcriber, chunk audio.ChunkInfo) (*Result, error) {
	result, err := t.Transcribe(ctx, chunk.Path)
	if err != nil {
		return nil, err
	}

	offset := chunk.StartTime.Seconds()
	shifted := make([]caption.Segment, len(result.Segments))
	for i, seg := range result.Segments {
		shifted[i] = caption.Segment{
			Start: seg.Start + offset,
			End:   seg.End + offset,
			Text:  seg.Text,
		}
		if len(seg.Words) > 0 {
			shifted[i].Words = make([]caption.Word, len(seg.Words))
			for j, w := range seg.Words {
				shifted[i].Words[j] = caption.Word{
					Text:  w.Text,
					Start: w.Start + offset,
					End:   w.End + offset,
				}
			}
		}
	}
	result.Segments = shifted

	return result, nil
}

// TranscribeChunks transcribes chunks with a bounded worker pool and merges
// the results in chunk order. The first failure cancels the remaining work.
func TranscribeChunks(
	ctx context.Context,
	t Transcriber,
	chunks []audio.ChunkInfo,
	concurrency int,
) (*Result, error) {
	if len(chunks) == 0 {
		return &Result{}, nil
	}

	if concurrency <= 0 {
		concurrency = 3
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workChan := make(chan audio.ChunkInfo)
	resultChan := make(chan chunkResult, len(chunks))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case chunk, ok := <-workChan:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}

					result, err := TranscribeChunk(ctx, t, chunk)
					if err != nil {
						cancel()
					}
					resultChan <- chunkResult{
						Index:  chunk.Index,
						Result: result,
						Error:  err,
					}
				}
			}
		})
	}

	go func() {
		defer close(workChan)
		for _, chunk := range chunks {
			select {
			case <-ctx.Done():
				return
			case workChan <- chunk:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]chunkResult, 0, len(chunks))
	var firstErr error
	for result := range resultChan {
		if result.Error != nil && firstErr == nil {
			firstErr = fmt.Errorf("chunk %d failed: %w", result.Index, result.Error)
			cancel()
		}
		if result.Error == nil {
			results = append(results, result)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if len(results) != len(chunks) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("transcribed %d of %d chunks", len(results), len(chunks))
	}

	// sort by index to maintain order
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	merged := &Result{
		Duration: chunks[len(chunks)-1].EndTime,
	}
	var texts []string
	for _, r := range results {
		merged.Segments = append(merged.Segments, r.Result.Segments...)
		if r.Result.Text != "" {
			texts = append(texts, r.Result.Text)
		}
		if merged.Language == "" {
			merged.Language = r.Result.Language
		}
	}
	merged.Text = strings.Join(texts, " ")

	return merged, nil
}
