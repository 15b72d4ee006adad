package sentiment

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/logger"
	"reddit-sentiment-lab/internal/observability"
)

// Pool scores texts on a fixed number of workers. Each worker builds its own
// analyzer and scorer; results are placed by submission index.
type Pool struct {
	workers       int
	policy        domain.Policy
	newAnalyzer   AnalyzerFactory
	progressEvery int
	log           *logger.Logger
}

// PoolOptions contains configuration for creating a Pool.
type PoolOptions struct {
	Workers       int // 0 = runtime.NumCPU()
	Policy        domain.Policy
	Analyzer      AnalyzerFactory // nil = VaderFactory
	ProgressEvery int             // log progress every N results, 0 = never
	Logger        *logger.Logger
}

// NewPool creates a new scoring pool. Returns ErrUnknownPolicy for an invalid policy.
func NewPool(opts PoolOptions) (*Pool, error) {
	if !opts.Policy.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, opts.Policy)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	factory := opts.Analyzer
	if factory == nil {
		factory = VaderFactory
	}

	return &Pool{
		workers:       workers,
		policy:        opts.Policy,
		newAnalyzer:   factory,
		progressEvery: opts.ProgressEvery,
		log:           logger.OrDefault(opts.Logger),
	}, nil
}

// Workers returns the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Policy returns the scoring policy of every worker.
func (p *Pool) Policy() domain.Policy {
	return p.policy
}

type job struct {
	index int
	text  string
}

type result struct {
	index     int
	sentiment domain.Sentiment
}

// ScoreAll scores every text and returns results aligned with texts.
// Completion order across workers is irrelevant to the output order.
func (p *Pool) ScoreAll(ctx context.Context, texts []string) ([]domain.Sentiment, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	start := time.Now()

	workers := p.workers
	if workers > len(texts) {
		workers = len(texts)
	}

	jobs := make(chan job)
	results := make(chan result, workers)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i, text := range texts {
			select {
			case jobs <- job{index: i, text: text}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			scorer, err := NewScorer(p.policy, p.newAnalyzer())
			if err != nil {
				return err
			}
			for j := range jobs {
				select {
				case results <- result{index: j.index, sentiment: scorer.Score(j.text)}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		g.Wait()
		close(results)
	}()

	out := make([]domain.Sentiment, len(texts))
	done := 0
	for r := range results {
		out[r.index] = r.sentiment
		done++
		if p.progressEvery > 0 && done%p.progressEvery == 0 {
			p.log.Infow("scoring progress", "done", done, "total", len(texts))
		}
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score texts: %w", err)
	}

	observability.RecordScored(string(p.policy), len(texts), time.Since(start).Seconds())
	return out, nil
}
