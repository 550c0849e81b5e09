package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/quantmind-br/loanrates-go/internal/domain"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single fetch
const DefaultTimeout = 20 * time.Second

// Client is an HTTP client backed by tls-client. It follows redirects,
// retries transient statuses and transcodes bodies to UTF-8.
type Client struct {
	tlsClient tls_client.HttpClient
	userAgent string
	retrier   *Retrier
	limiter   *rate.Limiter
	timeout   time.Duration
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	Timeout    time.Duration
	MaxRetries int
	UserAgent  string
	ProxyURL   string
	// RateLimit is the number of requests per second across all sources;
	// zero disables throttling
	RateLimit float64
	Burst     int
}

// DefaultClientOptions returns default client options
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
		UserAgent:  DefaultUserAgent,
		Burst:      1,
	}
}

// NewClient creates a new HTTP client
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	tlsOpts := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(max(1, int(opts.Timeout.Seconds()))),
		tls_client.WithClientProfile(profiles.Chrome_131),
		tls_client.WithRandomTLSExtensionOrder(),
	}

	if opts.ProxyURL != "" {
		tlsOpts = append(tlsOpts, tls_client.WithProxyUrl(opts.ProxyURL))
	}

	tlsClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), tlsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls client: %w", err)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	retrier := NewRetrier(RetrierOptions{
		MaxRetries:      opts.MaxRetries,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
	})

	return &Client{
		tlsClient: tlsClient,
		userAgent: opts.UserAgent,
		retrier:   retrier,
		limiter:   limiter,
		timeout:   opts.Timeout,
	}, nil
}

// Get fetches a URL. Non-2xx statuses, transport failures and deadlines are
// returned as *domain.FetchError; a deadline also matches domain.ErrTimeout.
func (c *Client) Get(ctx context.Context, url string) (*domain.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, domain.NewFetchError(url, 0, contextError(ctx, fmt.Errorf("rate limiter: %w", err)))
		}
	}

	resp, err := RetryWithValue(ctx, c.retrier, func() (*domain.Response, error) {
		return c.doRequest(ctx, url)
	})
	if err != nil {
		var retryable *domain.RetryableError
		if errors.As(err, &retryable) {
			err = retryable.Err
		}
		var fetchErr *domain.FetchError
		if errors.As(err, &fetchErr) {
			return nil, fetchErr
		}
		return nil, domain.NewFetchError(url, 0, err)
	}

	return resp, nil
}

// doRequest performs a single HTTP request
func (c *Client) doRequest(ctx context.Context, targetURL string) (*domain.Response, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, targetURL, nil)
	if err != nil {
		return nil, domain.NewFetchError(targetURL, 0, fmt.Errorf("failed to create request: %w", err))
	}

	for k, v := range RequestHeaders(c.userAgent) {
		req.Header.Set(k, v)
	}

	resp, err := c.tlsClient.Do(req)
	if err != nil {
		return nil, domain.NewFetchError(targetURL, 0, contextError(ctx, fmt.Errorf("request failed: %w", err)))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := fmt.Errorf("HTTP %d", resp.StatusCode)
		if resp.StatusCode == fhttp.StatusTooManyRequests {
			statusErr = fmt.Errorf("HTTP %d: %w", resp.StatusCode, domain.ErrRateLimited)
		}
		fetchErr := domain.NewFetchError(targetURL, resp.StatusCode, statusErr)
		if ShouldRetryStatus(resp.StatusCode) {
			return nil, &domain.RetryableError{
				Err:        fetchErr,
				RetryAfter: int(ParseRetryAfter(resp.Header.Get("Retry-After")).Seconds()),
			}
		}
		return nil, fetchErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewFetchError(targetURL, resp.StatusCode, contextError(ctx, fmt.Errorf("failed to read response body: %w", err)))
	}

	contentType := resp.Header.Get("Content-Type")

	httpHeaders := make(http.Header, len(resp.Header))
	for k, v := range resp.Header {
		httpHeaders[k] = v
	}

	finalURL := targetURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &domain.Response{
		StatusCode:  resp.StatusCode,
		Body:        ConvertToUTF8(body, contentType),
		Headers:     httpHeaders,
		ContentType: contentType,
		URL:         finalURL,
	}, nil
}

// contextError marks err with domain.ErrTimeout when ctx hit its deadline
func contextError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrTimeout) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return err
}

// Close releases idle connections
func (c *Client) Close() error {
	c.tlsClient.CloseIdleConnections()
	return nil
}
