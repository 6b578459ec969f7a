package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/jieqi-converter/pkg/jobs"
)

type termPrefetcher interface {
	Prefetch(ctx context.Context, year int) error
}

// TermWarmer fills the term cache for a window of years around a centre year.
type TermWarmer struct {
	terms   termPrefetcher
	workers int
	retries int
	delay   time.Duration
	logger  *zap.Logger
}

// NewTermWarmer constructs a warmer running the given number of concurrent fetches.
func NewTermWarmer(terms termPrefetcher, workers int, logger *zap.Logger) *TermWarmer {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermWarmer{terms: terms, workers: workers, retries: 2, delay: 2 * time.Second, logger: logger}
}

// Warm prefetches every year in [center-span, center+span] clamped to the supported range.
// It blocks until all years were attempted or ctx ends.
func (w *TermWarmer) Warm(ctx context.Context, center, span int) jobs.Stats {
	first, last := warmWindow(center, span)
	if first > last {
		return jobs.Stats{}
	}

	q := jobs.NewQueue("term-warmup", func(ctx context.Context, task jobs.Task[int]) error {
		return w.terms.Prefetch(ctx, task.Payload)
	}, jobs.QueueConfig{
		Workers:    w.workers,
		MaxRetries: w.retries,
		RetryDelay: w.delay,
		Logger:     w.logger,
	})
	q.Start(ctx)

	for year := first; year <= last; year++ {
		if err := q.Enqueue(jobs.Task[int]{ID: strconv.Itoa(year), Payload: year}); err != nil {
			w.logger.Warn("term warmup interrupted", zap.Int("year", year), zap.Error(err))
			break
		}
	}

	stats := q.Drain()
	w.logger.Info("term warmup finished",
		zap.Int("from", first),
		zap.Int("to", last),
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed),
	)
	return stats
}

func warmWindow(center, span int) (int, int) {
	if span < 0 {
		return 1, 0
	}
	first, last := center-span, center+span
	if first < MinTermYear {
		first = MinTermYear
	}
	if last > MaxTermYear {
		last = MaxTermYear
	}
	return first, last
}
