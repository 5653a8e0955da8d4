package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/alejandrodnm/bbfs/internal/domain"
	"github.com/alejandrodnm/bbfs/internal/ports"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout       = 15 * time.Second
	defaultRatePerSecond = 2
	defaultMaxRetries    = 3
	defaultRetryWait     = 500 * time.Millisecond

	// Límite del body del feed. El histórico completo ocupa unos cientos de KB.
	maxBodyBytes = 32 << 20
)

// Config ajusta el comportamiento HTTP del client. Los campos en cero toman el default.
type Config struct {
	Timeout       time.Duration
	RatePerSecond float64
	MaxRetries    int           // negativo desactiva los retries
	RetryWait     time.Duration // base del backoff exponencial
}

var _ ports.DrawFeed = (*Client)(nil)

// Client descarga históricos de sorteos con rate limiting y retries.
type Client struct {
	http       *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryWait  time.Duration
}

// NewClient crea un Client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = defaultRatePerSecond
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = defaultRetryWait
	}
	return &Client{
		http:       &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		maxRetries: cfg.MaxRetries,
		retryWait:  cfg.RetryWait,
	}
}

// FetchDraws implementa ports.DrawFeed.
func (c *Client) FetchDraws(ctx context.Context, url string) ([]domain.DrawRecord, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("feed.FetchDraws %s: %w", url, err)
	}
	records, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("feed.FetchDraws %s: %w", url, err)
	}
	slog.Debug("feed fetched", "url", url, "bytes", len(body), "records", len(records))
	return records, nil
}

// get hace un GET con rate limiting y retries y devuelve el body.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	return c.doWithRetry(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json, text/plain;q=0.9, text/html;q=0.8")
		return c.http.Do(req)
	})
}

// doWithRetry ejecuta fn con backoff exponencial. Se reintentan 429, 5xx y
// errores de transporte; cualquier otro 4xx falla de inmediato.
func (c *Client) doWithRetry(ctx context.Context, fn func() (*http.Response, error)) ([]byte, error) {
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := fn()
		if err != nil {
			if attempt == c.maxRetries || ctx.Err() != nil {
				return nil, fmt.Errorf("request failed after %d retries: %w", attempt, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == c.maxRetries {
				return nil, fmt.Errorf("server error %d after %d retries", resp.StatusCode, attempt)
			}
			slog.Warn("feed request retry", "status", resp.StatusCode, "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return nil, fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return body, nil
	}
	return nil, fmt.Errorf("exhausted %d retries", c.maxRetries)
}

// sleep espera con backoff exponencial respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * c.retryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
