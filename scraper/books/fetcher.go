package books

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"books-scraper/config"
	"books-scraper/utils"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// FetchError signals that a page could not be retrieved: a connection
// failure, a timeout, or a non-2xx status.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher issues paced HTTP GET requests against the catalog host.
// Consecutive requests are spaced by the configured minimum interval.
type Fetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
	retry   *utils.RetryConfig
	logger  *utils.Logger
}

// NewFetcher creates a Fetcher from config: request timeout, pacing
// interval, and best-effort retry with exponential backoff.
func NewFetcher(cfg *config.Config, logger *utils.Logger) *Fetcher {
	client := resty.New().
		SetTimeout(time.Duration(cfg.HTTPTimeoutSec)*time.Second).
		SetHeader("User-Agent", userAgent)

	interval := time.Duration(cfg.RateLimitMs) * time.Millisecond
	var limiter *rate.Limiter
	if interval > 0 {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
	} else {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	return &Fetcher{
		client:  client,
		limiter: limiter,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   time.Second,
			Logger:      logger,
		},
		logger: logger,
	}
}

// Fetch retrieves the body of one page as text. It blocks on the rate
// limiter before each attempt and returns a *FetchError on failure.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var body string

	err := f.retry.Do("GET "+url, func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return &FetchError{URL: url, Err: err}
		}

		resp, err := f.client.R().SetContext(ctx).Get(url)
		if err != nil {
			return &FetchError{URL: url, Err: err}
		}
		if !resp.IsSuccess() {
			return &FetchError{URL: url, Status: resp.StatusCode()}
		}

		body = string(resp.Body())
		return nil
	})
	if err != nil {
		return "", err
	}
	return body, nil
}
