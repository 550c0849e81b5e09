package app

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/quantmind-br/loanrates-go/internal/domain"
	"github.com/quantmind-br/loanrates-go/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakePage describes how fakeFetcher answers for one URL
type fakePage struct {
	body   string
	status int
	delay  time.Duration
	err    error
}

// fakeFetcher serves canned pages and honours context cancellation
type fakeFetcher struct {
	pages map[string]fakePage
}

func (f *fakeFetcher) Get(ctx context.Context, url string) (*domain.Response, error) {
	page, ok := f.pages[url]
	if !ok {
		return nil, domain.NewFetchError(url, http.StatusNotFound, errors.New("HTTP 404"))
	}
	if page.delay > 0 {
		select {
		case <-time.After(page.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if page.err != nil {
		return nil, page.err
	}
	status := page.status
	if status == 0 {
		status = http.StatusOK
	}
	return &domain.Response{StatusCode: status, Body: []byte(page.body), URL: url}, nil
}

func (f *fakeFetcher) Close() error { return nil }

var fixedNow = time.Date(2024, 3, 5, 10, 30, 15, 999, time.FixedZone("CET", 3600))

func newTestPipeline(t *testing.T, fetcher domain.Fetcher, ext domain.Extractor, timeout time.Duration) *Pipeline {
	t.Helper()
	p, err := NewPipeline(PipelineOptions{
		Fetcher:   fetcher,
		Extractor: ext,
		Timeout:   timeout,
		Now:       func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return p
}

func testSource(url string, specs ...domain.ExtractorSpec) domain.Source {
	return domain.Source{
		Bank:       "Acme Bank",
		Country:    "PT",
		Product:    "mortgage",
		Term:       "30y",
		Currency:   "EUR",
		URL:        url,
		Extractors: specs,
	}
}

func TestNewPipeline(t *testing.T) {
	t.Run("fetcher is required", func(t *testing.T) {
		_, err := NewPipeline(PipelineOptions{})
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		p, err := NewPipeline(PipelineOptions{Fetcher: &fakeFetcher{}})
		require.NoError(t, err)
		assert.Equal(t, DefaultFetchTimeout, p.timeout)
		assert.NotNil(t, p.extractor)
		assert.NotNil(t, p.logger)
	})
}

func TestPipeline_Run(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fakePage{
		"https://acme.example/plain": {body: "Rate: 4,50%"},
		"https://acme.example/table": {body: `<table>
			<tr><td>Fixed</td><td>3,10%</td></tr>
			<tr><td>Variable</td><td>2,90%</td></tr>
		</table>`},
		"https://acme.example/api":     {body: `{"rates":[{"apr":0.045}]}`},
		"https://acme.example/outlier": {body: "<p>Max 250%</p><p>apr 5.5</p>"},
	}}

	tests := []struct {
		name   string
		source domain.Source
		want   float64
	}{
		{
			name:   "plain text with default extractor",
			source: testSource("https://acme.example/plain", domain.ExtractorSpec{Params: domain.HTMLCSS{}}),
			want:   4.5,
		},
		{
			name: "contains filter",
			source: testSource("https://acme.example/table",
				domain.ExtractorSpec{Params: domain.HTMLCSS{Selector: "tr:contains('variable')"}}),
			want: 2.9,
		},
		{
			name: "json path with multiplier",
			source: testSource("https://acme.example/api",
				domain.ExtractorSpec{Params: domain.JSONAPI{Field: "rates.0.apr", Multiplier: 100}}),
			want: 4.5,
		},
		{
			name: "falls back after a failing extractor",
			source: testSource("https://acme.example/table",
				domain.ExtractorSpec{Params: domain.HTMLCSS{Selector: "td["}},
				domain.ExtractorSpec{Params: domain.Regex{Pattern: `fixed</td><td>([\d,]+)`}}),
			want: 3.1,
		},
		{
			name: "skips an unsupported extractor type",
			source: testSource("https://acme.example/plain",
				domain.ExtractorSpec{Params: domain.Unsupported{Type: "xpath"}},
				domain.ExtractorSpec{Params: domain.HTMLCSS{}}),
			want: 4.5,
		},
		{
			name: "falls back after a zero multiplier",
			source: testSource("https://acme.example/api",
				domain.ExtractorSpec{Params: domain.JSONAPI{Field: "rates.0.apr", Multiplier: 0}},
				domain.ExtractorSpec{Params: domain.JSONAPI{Field: "rates.0.apr", Multiplier: 100}, Take: domain.TakeFirst}),
			want: 4.5,
		},
		{
			name: "falls back when every candidate is out of range",
			source: testSource("https://acme.example/outlier",
				domain.ExtractorSpec{Params: domain.HTMLCSS{Selector: "p"}},
				domain.ExtractorSpec{Params: domain.Regex{Pattern: `apr ([\d.]+)`}}),
			want: 5.5,
		},
		{
			name: "aggregation mode",
			source: testSource("https://acme.example/table",
				domain.ExtractorSpec{Params: domain.HTMLCSS{Selector: "td"}, Take: domain.TakeMax}),
			want: 3.1,
		},
		{
			name: "basis format",
			source: testSource("https://acme.example/api",
				domain.ExtractorSpec{Params: domain.JSONAPI{Field: "rates.0.apr", Multiplier: 1}, PercentFormat: domain.PercentBasis}),
			want: 4.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(t, fetcher, nil, time.Second)

			record, err := p.Run(context.Background(), tt.source)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, record.APR, 1e-9)
			assert.Equal(t, tt.source.Bank, record.Bank)
			assert.Equal(t, tt.source.Country, record.Country)
			assert.Equal(t, tt.source.Product, record.Product)
			assert.Equal(t, tt.source.Term, record.Term)
			assert.Equal(t, tt.source.Currency, record.Currency)
			assert.Equal(t, tt.source.URL, record.SourceURL)
			assert.Equal(t, time.Date(2024, 3, 5, 9, 30, 15, 0, time.UTC), record.FetchedAt)
		})
	}
}

func TestPipeline_Run_RecoversExtractorPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	ext := mocks.NewMockExtractor(ctrl)

	first := domain.ExtractorSpec{Params: domain.Regex{Pattern: "boom"}}
	second := domain.ExtractorSpec{Params: domain.HTMLCSS{}}

	gomock.InOrder(
		ext.EXPECT().Extract(gomock.Any(), first).DoAndReturn(func([]byte, domain.ExtractorSpec) ([]float64, error) {
			panic("index out of range")
		}),
		ext.EXPECT().Extract(gomock.Any(), second).Return([]float64{6.2, 5.9}, nil),
	)

	fetcher := &fakeFetcher{pages: map[string]fakePage{"https://acme.example": {body: "irrelevant"}}}
	p := newTestPipeline(t, fetcher, ext, time.Second)

	record, err := p.Run(context.Background(), testSource("https://acme.example", first, second))
	require.NoError(t, err)
	assert.InDelta(t, 5.9, record.APR, 1e-9)
}

func TestPipeline_Apply_PanicBecomesExtractionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	ext := mocks.NewMockExtractor(ctrl)
	ext.EXPECT().Extract(gomock.Any(), gomock.Any()).DoAndReturn(func([]byte, domain.ExtractorSpec) ([]float64, error) {
		panic("nil map")
	})

	p := newTestPipeline(t, &fakeFetcher{}, ext, time.Second)

	apr, err := p.apply([]byte("x"), domain.ExtractorSpec{Params: domain.Regex{Pattern: "x"}})
	assert.Zero(t, apr)
	require.ErrorIs(t, err, domain.ErrExtractorPanic)

	var extractionErr *domain.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, domain.KindRegex, extractionErr.Extractor)
	assert.Contains(t, extractionErr.Detail, "nil map")
}

func TestPipeline_Run_NoMatch(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fakePage{"https://acme.example": {body: "<p>Call us for a quote</p>"}}}
	p := newTestPipeline(t, fetcher, nil, time.Second)

	tests := []struct {
		name  string
		specs []domain.ExtractorSpec
	}{
		{"no extractors", nil},
		{"all extractors fail", []domain.ExtractorSpec{
			{Params: domain.HTMLCSS{Selector: "p"}},
			{Params: domain.Regex{Pattern: `apr (\d+)`}},
			{Params: domain.JSONAPI{Field: "apr", Multiplier: 1}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Run(context.Background(), testSource("https://acme.example", tt.specs...))
			require.ErrorIs(t, err, domain.ErrNoMatch)

			var fetchErr *domain.FetchError
			assert.False(t, errors.As(err, &fetchErr))
		})
	}
}

func TestPipeline_Run_FetchFailures(t *testing.T) {
	transportErr := errors.New("connection refused")

	tests := []struct {
		name       string
		page       fakePage
		timeout    time.Duration
		wantStatus int
		wantErr    error
	}{
		{
			name:    "transport error",
			page:    fakePage{err: transportErr},
			timeout: time.Second,
			wantErr: transportErr,
		},
		{
			name:       "non-2xx status",
			page:       fakePage{status: http.StatusInternalServerError, body: "Rate: 4%"},
			timeout:    time.Second,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:    "timeout",
			page:    fakePage{delay: 2 * time.Second, body: "Rate: 4%"},
			timeout: 20 * time.Millisecond,
			wantErr: domain.ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			// Extract must never be reached after a failed fetch.
			ext := mocks.NewMockExtractor(ctrl)

			fetcher := &fakeFetcher{pages: map[string]fakePage{"https://acme.example": tt.page}}
			p := newTestPipeline(t, fetcher, ext, tt.timeout)

			_, err := p.Run(context.Background(), testSource("https://acme.example", domain.ExtractorSpec{Params: domain.HTMLCSS{}}))
			require.Error(t, err)

			var fetchErr *domain.FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, "https://acme.example", fetchErr.URL)
			assert.Equal(t, tt.wantStatus, fetchErr.StatusCode)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPipeline_Run_FetcherErrorPassthrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)

	original := domain.NewFetchError("https://acme.example", http.StatusForbidden, errors.New("HTTP 403"))
	fetcher.EXPECT().Get(gomock.Any(), "https://acme.example").Return(nil, original)

	p := newTestPipeline(t, fetcher, nil, time.Second)

	_, err := p.Run(context.Background(), testSource("https://acme.example", domain.ExtractorSpec{Params: domain.HTMLCSS{}}))
	assert.Same(t, original, err)
}

func TestPipeline_Run_ParentCancelled(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fakePage{"https://acme.example": {delay: 5 * time.Second}}}
	p := newTestPipeline(t, fetcher, nil, 10*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := p.Run(ctx, testSource("https://acme.example", domain.ExtractorSpec{Params: domain.HTMLCSS{}}))
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrTimeout)
}
