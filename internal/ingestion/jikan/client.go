package jikan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Jikan allows 3 requests per second and 60 per minute; stay under the
	// per-minute budget.
	rateLimit = 1
	rateBurst = 3

	maxRetries   = 5
	initialDelay = 1 * time.Second
	maxDelay     = 32 * time.Second
)

// Client performs Jikan v4 REST requests with rate limiting and retries.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a Jikan API client. baseURL is e.g. https://api.jikan.moe/v4.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		logger:      logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SearchAnime queries /anime with a free-text search
func (c *Client) SearchAnime(ctx context.Context, query string, page int) (*AnimeListResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))

	var result AnimeListResponse
	if err := c.doRequest(ctx, "/anime?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("failed to search anime: %w", err)
	}
	return &result, nil
}

// TopAnime queries /top/anime ordered by popularity
func (c *Client) TopAnime(ctx context.Context, page int) (*AnimeListResponse, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var result AnimeListResponse
	if err := c.doRequest(ctx, "/top/anime?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("failed to fetch top anime: %w", err)
	}
	return &result, nil
}

// doRequest performs a GET with rate limiting and retry logic
func (c *Client) doRequest(ctx context.Context, path string, result interface{}) error {
	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries {
				c.logger.Warn("jikan request failed, retrying",
					"attempt", attempt+1, "max", maxRetries, "delay", delay, "error", err)
				if sleepErr := sleepCtx(ctx, delay); sleepErr != nil {
					return sleepErr
				}
				delay = minDuration(delay*2, maxDelay)
				continue
			}
			return fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			if shouldRetry(resp.StatusCode) && attempt < maxRetries {
				lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))

				if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
					if seconds, parseErr := strconv.Atoi(retryAfter); parseErr == nil {
						delay = time.Duration(seconds) * time.Second
					}
				}

				c.logger.Warn("jikan returned retryable status",
					"status", resp.StatusCode, "attempt", attempt+1, "max", maxRetries, "delay", delay)
				if sleepErr := sleepCtx(ctx, delay); sleepErr != nil {
					return sleepErr
				}
				delay = minDuration(delay*2, maxDelay)
				continue
			}
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
}

func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
