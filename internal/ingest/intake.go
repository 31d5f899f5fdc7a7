package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/biasharafund/discounting/internal/extract"
)

// Extractor is the slice of the extraction pipeline the intake needs.
type Extractor interface {
	Extract(ctx context.Context, path string) extract.Result
}

// Sink receives the extraction result for each intake file.
type Sink func(path string, result extract.Result)

// Intake drains a watcher's path channel through a bounded worker pool,
// running the extraction pipeline on every discovered document.
type Intake struct {
	extractor Extractor
	sink      Sink
	workers   int
	logger    *slog.Logger
}

func NewIntake(extractor Extractor, sink Sink, workers int, logger *slog.Logger) *Intake {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 2
	}
	return &Intake{extractor: extractor, sink: sink, workers: workers, logger: logger}
}

// Run consumes paths until the channel closes or ctx is cancelled. It
// blocks until all in-flight extractions finish.
func (in *Intake) Run(ctx context.Context, paths <-chan string) {
	var wg sync.WaitGroup
	for i := 0; i < in.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case path, ok := <-paths:
					if !ok {
						return
					}
					in.process(ctx, path)
				}
			}
		}()
	}
	wg.Wait()
}

func (in *Intake) process(ctx context.Context, path string) {
	start := time.Now()
	result := in.extractor.Extract(ctx, path)

	in.logger.Info("ingest.file.done",
		"path", path,
		"run_id", result.RunID.String(),
		"extraction_success", result.Invoice.ExtractionSuccess,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if in.sink != nil {
		in.sink(path, result)
	}
}
