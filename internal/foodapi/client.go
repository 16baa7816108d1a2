package foodapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Lixing-Zhang/food-dashboard/internal/models"
	"github.com/google/uuid"
)

const (
	foodsPath = "/foods"

	requestIDHeader = "X-Request-Id"
	apiKeyHeader    = "api_key"

	// cap on error bodies we read back into APIError.Message
	maxErrorBody = 4 << 10
)

// Client talks to a remote food collection over HTTP
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	apiKey     string
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithAPIKey sends key in the api_key header on every request
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the collection rooted at baseURL,
// e.g. http://localhost:3333 serves http://localhost:3333/foods.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List fetches the whole collection in server order
func (c *Client) List(ctx context.Context) ([]models.Food, error) {
	var foods []models.Food
	if err := c.do(ctx, http.MethodGet, foodsPath, nil, &foods); err != nil {
		return nil, err
	}
	if foods == nil {
		foods = []models.Food{}
	}
	return foods, nil
}

// createRequest is a FoodInput with the availability flag pinned on
type createRequest struct {
	models.FoodInput
	Available bool `json:"available"`
}

// Create adds a food. New foods are always created available.
func (c *Client) Create(ctx context.Context, input models.FoodInput) (models.Food, error) {
	var created models.Food
	body := createRequest{FoodInput: input, Available: true}
	if err := c.do(ctx, http.MethodPost, foodsPath, body, &created); err != nil {
		return models.Food{}, err
	}
	return created, nil
}

// Update replaces the food stored under id with food
func (c *Client) Update(ctx context.Context, id int64, food models.Food) (models.Food, error) {
	var updated models.Food
	if err := c.do(ctx, http.MethodPut, foodPath(id), food, &updated); err != nil {
		return models.Food{}, err
	}
	return updated, nil
}

// Delete removes the food stored under id. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, foodPath(id), nil, nil)
}

func foodPath(id int64) string {
	return foodsPath + "/" + strconv.FormatInt(id, 10)
}

// do sends one request and decodes a 2xx JSON body into out (when non-nil)
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("foods api call",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
			RequestID:  requestID,
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

// readErrorMessage pulls {"error": "..."} out of an error body, falling back to the raw text
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}
