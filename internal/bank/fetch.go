package bank

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"quiz-drill/internal/domain"
)

// Fetcher retrieves the raw bytes of a bank resource.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FileFetcher reads banks from the local filesystem.
type FileFetcher struct{}

func (FileFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fetchError(location, err)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, domain.NewFetchError(location, err)
	}
	return data, nil
}

// HTTPFetcher downloads banks with resty. Retries, when configured, only
// happen here; the loader itself never retries.
type HTTPFetcher struct {
	client *resty.Client
}

type HTTPFetcherOption func(*resty.Client)

func WithRetries(count int) HTTPFetcherOption {
	return func(c *resty.Client) {
		if count > 0 {
			c.SetRetryCount(count).
				SetRetryWaitTime(200 * time.Millisecond).
				SetRetryMaxWaitTime(2 * time.Second)
		}
	}
}

func NewHTTPFetcher(timeout time.Duration, opts ...HTTPFetcherOption) *HTTPFetcher {
	client := resty.New().
		SetHeader("Accept", "application/json, application/x-yaml, text/csv, text/plain, */*")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	for _, opt := range opts {
		opt(client)
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(location)
	if err != nil {
		return nil, fetchError(location, err)
	}
	if resp.IsError() {
		return nil, domain.NewFetchError(location, fmt.Errorf("unexpected status %d", resp.StatusCode())).
			WithContext("status", resp.StatusCode())
	}
	return resp.Body(), nil
}

func fetchError(location string, err error) *domain.DomainError {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewFetchTimeoutError(location, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.NewFetchTimeoutError(location, err)
	}
	return domain.NewFetchError(location, err)
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
