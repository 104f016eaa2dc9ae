// Package cardimages looks up card artwork on the Pokémon TCG API.
package cardimages

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"prize-trainer/game"
	"prize-trainer/ports"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.pokemontcg.io/v2"
	requestTimeout = 15 * time.Second
	maxRetries     = 3
	maxBackoff     = 8 * time.Second
)

// Client is a rate-limited, caching CardImageLookup. Misses are cached too.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	backoff     time.Duration
	ttl         time.Duration
	now         func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	image   *ports.CardImage
	expires time.Time
}

var _ ports.CardImageLookup = (*Client)(nil)

type Options struct {
	BaseURL      string
	APIKey       string
	RateInterval time.Duration
	CacheTTL     time.Duration
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.RateInterval <= 0 {
		opts.RateInterval = 100 * time.Millisecond
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}

	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		httpClient:  &http.Client{Timeout: requestTimeout},
		rateLimiter: rate.NewLimiter(rate.Every(opts.RateInterval), 1),
		backoff:     time.Second,
		ttl:         opts.CacheTTL,
		now:         time.Now,
		cache:       make(map[string]cacheEntry),
	}
}

type searchResponse struct {
	Data []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Images struct {
			Small string `json:"small"`
			Large string `json:"large"`
		} `json:"images"`
	} `json:"data"`
}

// LookupCardImage returns the first card named like name, or nil when the
// API has none.
func (c *Client) LookupCardImage(ctx context.Context, name string) (*ports.CardImage, error) {
	clean := strings.ReplaceAll(game.NormalizeCardName(name), `"`, "")
	if clean == "" {
		return nil, nil
	}
	key := strings.ToLower(clean)

	if img, ok := c.cached(key); ok {
		return img, nil
	}

	q := url.Values{}
	q.Set("q", fmt.Sprintf(`name:"%s"`, clean))
	q.Set("pageSize", "1")

	var resp searchResponse
	if err := c.doRequest(ctx, c.baseURL+"/cards?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to look up card %q: %w", clean, err)
	}

	var img *ports.CardImage
	if len(resp.Data) > 0 {
		d := resp.Data[0]
		img = &ports.CardImage{ID: d.ID, Name: d.Name, SmallURL: d.Images.Small, LargeURL: d.Images.Large}
	}
	c.store(key, img)
	return img, nil
}

func (c *Client) cached(key string) (*ports.CardImage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		delete(c.cache, key)
		return nil, false
	}
	return e.image, true
}

func (c *Client) store(key string, img *ports.CardImage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cacheEntry{image: img, expires: c.now().Add(c.ttl)}
}

// doRequest performs a GET with rate limiting, retrying 429s, 5xx and
// network errors with exponential backoff.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, maxBackoff)
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-Api-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			continue
		}

		retry, err := decodeResponse(resp, result)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
		log.Printf("[CARDS] attempt %d failed: %v", attempt+1, err)
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func decodeResponse(resp *http.Response, result interface{}) (retry bool, err error) {
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return false, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return true, fmt.Errorf("rate limited (HTTP 429)")
	case resp.StatusCode >= 500:
		return true, fmt.Errorf("server error (HTTP %d)", resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
