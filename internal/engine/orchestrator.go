// Package engine fans surah downloads out across a bounded worker pool and
// folds the per-surah results into one summary.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/qurandl/qurandl/internal/domain"
	"github.com/qurandl/qurandl/internal/infra/logger"
	"github.com/segmentio/ksuid"
)

// SurahFetcher is the engine's contract with the per-surah fetch unit.
// Implementations capture every failure into the result.
type SurahFetcher interface {
	FetchItem(ctx context.Context, rec domain.Reciter, surah int, outputRoot string) domain.FetchResult
}

type Orchestrator struct {
	fetcher SurahFetcher
	log     *logger.Logger
	workers int

	// OnResult, when set, is called from the collection loop for each
	// completed surah. Used by the CLI to advance the progress bar.
	OnResult func(domain.FetchResult)
}

func New(fetcher SurahFetcher, log *logger.Logger, workers int) *Orchestrator {
	if workers <= 0 {
		workers = 5
	}
	return &Orchestrator{
		fetcher: fetcher,
		log:     log,
		workers: workers,
	}
}

// Run downloads the requested surahs for one reciter. Per-surah failures
// never abort the run; the returned error only covers setup problems that
// happen before any transfer starts.
func (o *Orchestrator) Run(ctx context.Context, rec domain.Reciter, surahs []int, outputRoot string) (domain.DownloadSummary, error) {
	summary := domain.DownloadSummary{
		RunID:     ksuid.New().String(),
		Reciter:   rec.Name,
		Requested: len(surahs),
		OutputDir: filepath.Join(outputRoot, domain.SanitizeDirName(rec.Name)),
	}

	if err := os.MkdirAll(outputRoot, 0755); err != nil {
		return summary, fmt.Errorf("failed to create output root: %w", err)
	}

	o.log.Info("[%s] downloading %d surahs for %s with %d workers",
		summary.RunID, len(surahs), rec.Name, o.workers)

	start := time.Now()

	// Buffered to the full set so dispatch never blocks and every surah
	// yields exactly one result, cancelled or not.
	jobs := make(chan int, len(surahs))
	results := make(chan domain.FetchResult, len(surahs))

	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.worker(ctx, rec, outputRoot, jobs, results)
		}()
	}

	for _, s := range surahs {
		jobs <- s
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if res.Success {
			summary.Succeeded++
			o.log.Info("[%s] surah %03d done (%d attempts)", summary.RunID, res.Surah, res.Attempts)
		} else {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("surah %03d: %s", res.Surah, res.Error))
			o.log.Error("[%s] surah %03d failed after %d attempts: %s", summary.RunID, res.Surah, res.Attempts, res.Error)
		}
		if o.OnResult != nil {
			o.OnResult(res)
		}
	}

	summary.Elapsed = time.Since(start)
	o.log.Info("[%s] finished: %d ok, %d failed in %s", summary.RunID, summary.Succeeded, summary.Failed, summary.Elapsed)

	return summary, nil
}

// worker drains jobs until the channel closes. Once the context is
// cancelled remaining surahs fail fast without touching the network,
// leaving any .part files in place for a future resume.
func (o *Orchestrator) worker(ctx context.Context, rec domain.Reciter, outputRoot string, jobs <-chan int, results chan<- domain.FetchResult) {
	for surah := range jobs {
		if err := ctx.Err(); err != nil {
			results <- domain.FetchResult{Surah: surah, Error: err.Error()}
			continue
		}
		results <- o.fetcher.FetchItem(ctx, rec, surah, outputRoot)
	}
}
