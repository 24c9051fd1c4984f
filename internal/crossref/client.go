// Package crossref provides a minimal rate-limited Crossref works lookup,
// used to recover titles for PDFs whose first page yields none.
package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Crossref REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit keeps us inside Crossref's polite-pool expectations.
	RateLimit = 1.0
)

// Sentinel errors.
var (
	ErrNotFound     = errors.New("DOI not found")
	ErrNetworkError = errors.New("network error")
	ErrRateLimited  = errors.New("rate limited by server")
)

// Work is the subset of Crossref work metadata this tool uses.
type Work struct {
	DOI            string
	Title          string
	ContainerTitle string
	Year           int
}

// Client is a rate-limited HTTP client for the Crossref REST API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// NewClient creates a new Crossref client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// crossrefWork mirrors the fields of the works endpoint response we consume.
type crossrefWork struct {
	Message struct {
		DOI            string   `json:"DOI"`
		Title          []string `json:"title"`
		ContainerTitle []string `json:"container-title"`
		Issued         struct {
			DateParts [][]int `json:"date-parts"`
		} `json:"issued"`
	} `json:"message"`
}

// ResolveDOI fetches work metadata for a DOI.
func (c *Client) ResolveDOI(ctx context.Context, doi string) (*Work, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + "/works/" + url.PathEscape(doi)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("crossref: HTTP %d", resp.StatusCode)
	}

	var work crossrefWork
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return nil, fmt.Errorf("parsing work: %w", err)
	}

	w := &Work{DOI: work.Message.DOI}
	if len(work.Message.Title) > 0 {
		w.Title = work.Message.Title[0]
	}
	if len(work.Message.ContainerTitle) > 0 {
		w.ContainerTitle = work.Message.ContainerTitle[0]
	}
	if dp := work.Message.Issued.DateParts; len(dp) > 0 && len(dp[0]) > 0 {
		w.Year = dp[0][0]
	}
	return w, nil
}

// ResolveTitle returns only the work title for a DOI. It satisfies the
// inventory scanner's TitleResolver interface.
func (c *Client) ResolveTitle(ctx context.Context, doi string) (string, error) {
	w, err := c.ResolveDOI(ctx, doi)
	if err != nil {
		return "", err
	}
	return w.Title, nil
}
