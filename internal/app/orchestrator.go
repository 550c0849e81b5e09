package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/quantmind-br/loanrates-go/internal/domain"
	"github.com/quantmind-br/loanrates-go/internal/utils"
)

// Orchestrator runs a pipeline for every source concurrently
type Orchestrator struct {
	pipeline *Pipeline
	workers  int
	logger   *utils.Logger
	onResult func(SourceResult)
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	Fetcher   domain.Fetcher
	Extractor domain.Extractor
	// Timeout bounds each fetch; zero means DefaultFetchTimeout
	Timeout time.Duration
	// Workers caps concurrent pipelines; zero runs one goroutine per source
	Workers int
	Logger  *utils.Logger
	// OnResult is called from the worker goroutine after each source finishes
	OnResult func(SourceResult)
	Now      func() time.Time
}

// SourceResult represents the outcome of one source pipeline
type SourceResult struct {
	Source   domain.Source
	Record   domain.Record
	Err      error
	Duration time.Duration
}

// NewOrchestrator creates a new orchestrator with the given options
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	pipeline, err := NewPipeline(PipelineOptions{
		Fetcher:   opts.Fetcher,
		Extractor: opts.Extractor,
		Timeout:   opts.Timeout,
		Logger:    logger,
		Now:       opts.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	return &Orchestrator{
		pipeline: pipeline,
		workers:  opts.Workers,
		logger:   logger.WithComponent("orchestrator"),
		onResult: opts.OnResult,
	}, nil
}

// RunAll collects one record per successful source, in completion order.
// Failed sources are logged and left out. Cancelling ctx stops in-flight
// fetches; records gathered until then are returned.
func (o *Orchestrator) RunAll(ctx context.Context, sources []domain.Source) []domain.Record {
	records := make([]domain.Record, 0, len(sources))
	for record := range o.Stream(ctx, sources) {
		records = append(records, record)
	}
	return records
}

// Stream starts a pipeline per source and delivers each record as soon as
// its source completes. The channel is closed once every pipeline is done.
func (o *Orchestrator) Stream(ctx context.Context, sources []domain.Source) <-chan domain.Record {
	out := make(chan domain.Record, len(sources))

	go func() {
		defer close(out)

		startTime := time.Now()
		total := len(sources)

		o.logger.Info().
			Int("sources", total).
			Int("workers", o.workers).
			Msg("Starting rate collection")

		var success atomic.Int64

		errs := utils.ParallelForEach(ctx, sources, o.workers, func(ctx context.Context, src domain.Source) error {
			sourceStart := time.Now()
			record, err := o.pipeline.Run(ctx, src)
			duration := time.Since(sourceStart)

			if err != nil {
				o.logger.Warn().
					Err(err).
					Str("bank", src.Bank).
					Str("url", src.URL).
					Dur("duration", duration).
					Msg("Source failed")
			} else {
				success.Add(1)
				o.logger.Info().
					Str("bank", src.Bank).
					Str("product", src.Product).
					Float64("apr", record.APR).
					Dur("duration", duration).
					Msg("Source collected")
				out <- record
			}

			if o.onResult != nil {
				o.onResult(SourceResult{Source: src, Record: record, Err: err, Duration: duration})
			}
			return err
		})

		failed := len(utils.CollectErrors(errs))
		if ctx.Err() != nil {
			o.logger.Warn().Msg("Rate collection cancelled")
		}

		o.logger.Info().
			Dur("duration", time.Since(startTime)).
			Int("total", total).
			Int64("success", success.Load()).
			Int("failed", failed).
			Int64("skipped", int64(total-failed)-success.Load()).
			Msg("Rate collection completed")
	}()

	return out
}
