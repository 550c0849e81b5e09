package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quantmind-br/loanrates-go/internal/domain"
	"github.com/quantmind-br/loanrates-go/internal/extractor"
	"github.com/quantmind-br/loanrates-go/internal/utils"
)

// DefaultFetchTimeout bounds a single fetch when no timeout is configured
const DefaultFetchTimeout = 20 * time.Second

// Pipeline runs one source: fetch once, then try each extractor in order
// until one yields a valid rate.
type Pipeline struct {
	fetcher   domain.Fetcher
	extractor domain.Extractor
	timeout   time.Duration
	logger    *utils.Logger
	now       func() time.Time
}

// PipelineOptions contains options for creating a Pipeline
type PipelineOptions struct {
	Fetcher   domain.Fetcher
	Extractor domain.Extractor
	Timeout   time.Duration
	Logger    *utils.Logger
	// Now overrides the clock used for FetchedAt
	Now func() time.Time
}

// NewPipeline creates a source pipeline
func NewPipeline(opts PipelineOptions) (*Pipeline, error) {
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if opts.Extractor == nil {
		opts.Extractor = extractor.New()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultFetchTimeout
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Pipeline{
		fetcher:   opts.Fetcher,
		extractor: opts.Extractor,
		timeout:   opts.Timeout,
		logger:    opts.Logger.WithComponent("pipeline"),
		now:       opts.Now,
	}, nil
}

// Run produces the record for src. A failed fetch is returned as a
// *domain.FetchError; when every extractor fails the error is
// domain.ErrNoMatch.
func (p *Pipeline) Run(ctx context.Context, src domain.Source) (domain.Record, error) {
	logger := p.logger.WithSource(src.Bank, src.URL)

	body, err := p.fetch(ctx, src.URL)
	if err != nil {
		logger.Debug().Err(err).Msg("Fetch failed")
		return domain.Record{}, err
	}
	logger.Debug().Int("bytes", len(body)).Msg("Fetched document")

	for i, spec := range src.Extractors {
		extLogger := logger.WithExtractor(i, string(spec.Kind()))

		apr, err := p.apply(body, spec)
		if err != nil {
			extLogger.Debug().Err(err).Msg("Extractor failed, trying next")
			continue
		}

		record, ok := domain.NewRecord(src, apr, p.now())
		if !ok {
			extLogger.Debug().Float64("apr", apr).Msg("Rate out of range, trying next")
			continue
		}

		extLogger.Debug().Float64("apr", record.APR).Msg("Extractor matched")
		return record, nil
	}

	logger.Debug().Int("extractors", len(src.Extractors)).Msg("No extractor produced a rate")
	return domain.Record{}, fmt.Errorf("%s: %w", src.Bank, domain.ErrNoMatch)
}

// fetch retrieves the source document under its own timeout
func (p *Pipeline) fetch(ctx context.Context, url string) ([]byte, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.fetcher.Get(fetchCtx, url)
	if err != nil {
		if ctx.Err() == nil && errors.Is(fetchCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrTimeout) {
			return nil, domain.NewFetchError(url, 0, fmt.Errorf("%w after %s: %w", domain.ErrTimeout, p.timeout, err))
		}
		var fetchErr *domain.FetchError
		if errors.As(err, &fetchErr) {
			return nil, fetchErr
		}
		return nil, domain.NewFetchError(url, 0, err)
	}
	if resp == nil {
		return nil, domain.NewFetchError(url, 0, fmt.Errorf("empty response"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.NewFetchError(url, resp.StatusCode, fmt.Errorf("HTTP %d", resp.StatusCode))
	}
	return resp.Body, nil
}

// apply runs one extractor and the post-processor. A panic in either is
// reported as an extraction failure.
func (p *Pipeline) apply(body []byte, spec domain.ExtractorSpec) (apr float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			apr = 0
			err = domain.NewExtractionError(spec.Kind(), domain.ErrExtractorPanic, fmt.Sprint(r))
		}
	}()

	candidates, err := p.extractor.Extract(body, spec)
	if err != nil {
		return 0, err
	}

	format := spec.PercentFormat
	if format == "" {
		format = domain.DefaultPercentFormat
	}
	take := spec.Take
	if take == "" {
		take = domain.DefaultTake
	}

	value, ok := extractor.Process(candidates, format, take)
	if !ok {
		return 0, domain.NewExtractionError(spec.Kind(), domain.ErrNoCandidates, "no candidate in (0, 200)")
	}
	return value, nil
}
