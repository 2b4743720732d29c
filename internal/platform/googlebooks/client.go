package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1"

// StatusError reports a non-200 response that was not retried away.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

type Client struct {
	httpClient *http.Client
	apiKey     string
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func NewClient(apiKey, userAgent string, rps int, maxRetries int) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Every(time.Second / time.Duration(rps))
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		apiKey:     apiKey,
		userAgent:  userAgent,
		baseURL:    defaultBaseURL,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: maxRetries,
		backoff:    time.Second,
	}
}

// VolumesResponse matches volumes?q=isbn:...
type VolumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

type VolumeInfo struct {
	Title         string      `json:"title"`
	Subtitle      string      `json:"subtitle"`
	Authors       []string    `json:"authors"`
	Publisher     string      `json:"publisher"`
	PublishedDate string      `json:"publishedDate"`
	Description   string      `json:"description"`
	PageCount     int         `json:"pageCount"`
	ImageLinks    *ImageLinks `json:"imageLinks"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

// VolumesByISBN queries volumes matching isbn. An empty Items slice means
// the provider has no match.
func (c *Client) VolumesByISBN(ctx context.Context, isbn string) (*VolumesResponse, error) {
	q := url.Values{}
	q.Set("q", "isbn:"+isbn)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u := c.baseURL + "/volumes?" + q.Encode()

	var res VolumesResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1x, 2x, 4x...
			backoff := c.backoff * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.do(ctx, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

// do performs one attempt and reports whether a failure is worth retrying.
func (c *Client) do(ctx context.Context, url string, target any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
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
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return retry, &StatusError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return false, fmt.Errorf("decode volumes response: %w", err)
	}
	return false, nil
}
