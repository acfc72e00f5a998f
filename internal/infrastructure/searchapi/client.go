package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/assortcheck/backend/internal/domain"
	"golang.org/x/time/rate"
)

// envToken is the placeholder in the host template that gets replaced with
// the environment name (e.g. "http://dlp-{env}-search-api...").
const envToken = "{env}"

// maxErrorBodyBytes bounds how much of an upstream error body we keep
const maxErrorBodyBytes = 4096

// Client handles communication with the assortment search API
type Client struct {
	httpClient   *http.Client
	hostTemplate string
	rateLimiter  *rate.Limiter
	debug        bool
}

// NewClient creates a new search API client. The timeout bounds the whole
// request; there is no cancellation of an in-flight search beyond it.
func NewClient(hostTemplate string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// The prod search clusters serve live storefront traffic, so the checker
	// keeps itself to a couple of requests per second.
	limiter := rate.NewLimiter(rate.Limit(2), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		hostTemplate: hostTemplate,
		rateLimiter:  limiter,
	}
}

// SetDebug enables verbose request/response logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// searchRequest is the wire format of the search API request body.
// ForceExplodingVariants stays false so each product appears once instead of
// once per size/color variant.
type searchRequest struct {
	Query                  string `json:"query"`
	Size                   int    `json:"size"`
	ForceExplodingVariants bool   `json:"force_exploding_variants"`
}

// searchResponse is the wire format of the search API response body.
// Products are kept raw so the full record survives into matching.
type searchResponse struct {
	Products []json.RawMessage `json:"products"`
}

// Search fetches the ranked product list for a query. A single attempt: a
// failure is returned as a typed error, and re-running is up to the caller.
func (c *Client) Search(ctx context.Context, shopID string, env domain.Environment, query string, size int) ([]domain.Product, error) {
	reqURL := c.endpointURL(env, shopID)
	c.debugLog("[SEARCH] POST %s query=%q size=%d", reqURL, query, size)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	payload, err := json.Marshal(searchRequest{Query: query, Size: size})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "AssortCheck/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		timeout := isTimeout(err)
		log.Printf("[SEARCH] transport failure (timeout=%v) for %q: %v", timeout, query, err)
		return nil, &domain.NetworkError{Err: err, Timeout: timeout}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := readLimitedBody(resp.Body, maxErrorBodyBytes)
		log.Printf("[SEARCH] API error for %q - status: %d, body: %s", query, resp.StatusCode, string(body))
		return nil, &domain.APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(searchResp.Products) == 0 {
		log.Printf("[SEARCH] no products for query %q (shop %q)", query, shopID)
		return nil, &domain.EmptyResultsError{Query: query}
	}

	products := make([]domain.Product, 0, len(searchResp.Products))
	for _, raw := range searchResp.Products {
		products = append(products, domain.DecodeProduct(raw))
	}

	c.debugLog("[SEARCH] %d products for query %q", len(products), query)
	return products, nil
}

// endpointURL resolves the per-environment host and appends the tenant.
// A template without the env token is treated as a fixed host.
func (c *Client) endpointURL(env domain.Environment, shopID string) string {
	host := strings.ReplaceAll(c.hostTemplate, envToken, string(env))
	return fmt.Sprintf("%s/search?shop_id=%s", host, url.QueryEscape(shopID))
}

// isTimeout reports whether a transport error was a timeout rather than a
// connection-level failure
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// readLimitedBody reads at most limit bytes of a response body
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf(format, args...)
	}
}
