// Package metadata fetches book covers from the Google Books API and runs
// the background enrichment sweep over books missing one.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// VolumeInfo is the subset of a Google Books volume this application cares
// about.
type VolumeInfo struct {
	Title       string   `json:"title,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	PageCount   int      `json:"pageCount,omitempty"`
	Language    string   `json:"language,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageLinks  struct {
		Thumbnail      string `json:"thumbnail,omitempty"`
		SmallThumbnail string `json:"smallThumbnail,omitempty"`
	} `json:"imageLinks"`
}

type volumesResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo VolumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

// GoogleBooksClient queries the public Google Books volumes endpoint. No
// API key is required for basic search.
type GoogleBooksClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewGoogleBooksClient creates a rate-limited client. The API tolerates
// roughly three requests a second from anonymous callers.
func NewGoogleBooksClient() *GoogleBooksClient {
	return &GoogleBooksClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     "https://www.googleapis.com/books/v1",
		rateLimiter: newRateLimiter(300 * time.Millisecond),
	}
}

// Search runs a volumes query and returns up to maxResults matches.
func (c *GoogleBooksClient) Search(ctx context.Context, query string, maxResults int) ([]VolumeInfo, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	c.rateLimiter.wait()

	searchURL := fmt.Sprintf("%s/volumes?q=%s&maxResults=%d", c.baseURL, url.QueryEscape(query), maxResults)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "LibrisMundis/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var body volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	volumes := make([]VolumeInfo, 0, len(body.Items))
	for _, item := range body.Items {
		volumes = append(volumes, item.VolumeInfo)
	}
	return volumes, nil
}

// BestCover finds a cover image URL for a book. A usable ISBN gets an exact
// isbn: query; otherwise the title and author go into a plain search. An
// empty URL with a nil error means the API simply has no cover.
func (c *GoogleBooksClient) BestCover(ctx context.Context, isbn, title, author string) (string, error) {
	query := buildQuery(isbn, title, author)
	if query == "" {
		return "", fmt.Errorf("nothing to search by")
	}

	volumes, err := c.Search(ctx, query, 3)
	if err != nil {
		return "", err
	}

	for _, v := range volumes {
		if cover := coverOf(v); cover != "" {
			return cover, nil
		}
	}
	return "", nil
}

func buildQuery(isbn, title, author string) string {
	if cleaned := normalizeISBN(isbn); cleaned != "" {
		return "isbn:" + cleaned
	}
	parts := []string{}
	if strings.TrimSpace(title) != "" {
		parts = append(parts, strings.TrimSpace(title))
	}
	if strings.TrimSpace(author) != "" {
		parts = append(parts, strings.TrimSpace(author))
	}
	return strings.Join(parts, " ")
}

// coverOf prefers the full thumbnail over the small one, and upgrades the
// scheme since the API still hands out http URLs.
func coverOf(v VolumeInfo) string {
	cover := v.ImageLinks.Thumbnail
	if cover == "" {
		cover = v.ImageLinks.SmallThumbnail
	}
	return strings.Replace(cover, "http://", "https://", 1)
}

// normalizeISBN strips separators and rejects anything too short to be a
// real ISBN-10.
func normalizeISBN(isbn string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, strings.TrimSpace(isbn))
	if len(cleaned) < 10 {
		return ""
	}
	return cleaned
}
