// Package openlibrary is a small client for the Open Library books API.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://openlibrary.org"

// StatusError reports a non-200 response that was not retried away.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openlibrary: status %d", e.StatusCode)
}

func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

// NewClient builds a client allowing rps requests per second. Zero means unlimited.
func NewClient(userAgent string, rps int, maxRetries int) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		userAgent:  userAgent,
		baseURL:    defaultBaseURL,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: maxRetries,
		backoff:    time.Second,
	}
}

type Publisher struct {
	Name string `json:"name"`
}

type Author struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

type Cover struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// BookDetails is one entry of an api/books?jscmd=data response.
type BookDetails struct {
	Title         string      `json:"title"`
	Subtitle      string      `json:"subtitle"`
	Publishers    []Publisher `json:"publishers"`
	PublishDate   string      `json:"publish_date"`
	Cover         Cover       `json:"cover"`
	Authors       []Author    `json:"authors"`
	NumberOfPages int         `json:"number_of_pages"`
	Notes         string      `json:"notes"`
}

// GetBooksByISBN returns details keyed by "ISBN:<isbn>". ISBNs unknown to
// Open Library are absent from the map.
func (c *Client) GetBooksByISBN(ctx context.Context, isbns []string) (map[string]BookDetails, error) {
	if len(isbns) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(isbns))
	for _, isbn := range isbns {
		keys = append(keys, "ISBN:"+isbn)
	}
	q := url.Values{}
	q.Set("bibkeys", strings.Join(keys, ","))
	q.Set("jscmd", "data")
	q.Set("format", "json")

	var res map[string]BookDetails
	if err := c.fetch(ctx, c.baseURL+"/api/books?"+q.Encode(), &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) fetch(ctx context.Context, target string, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff << (attempt - 1)
			t := time.NewTimer(wait)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.attempt(ctx, target, out)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("openlibrary: gave up after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) attempt(ctx context.Context, target string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		return statusErr.retryable(), statusErr
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("openlibrary: decode books: %w", err)
	}
	return false, nil
}
