package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/s0up4200/moviesearcher/film"
)

// Client represents an OMDb API client
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new OMDb client
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}

	o := clientOptions{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	u, err := url.Parse(o.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", ErrInvalidConfig, o.baseURL)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		baseURL:    o.baseURL,
		apiKey:     apiKey,
		userAgent:  o.userAgent,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// FetchFilm looks a movie up by exact title. A title the service does not know
// yields an *APIError; a request that cannot be completed wraps ErrTransport.
func (c *Client) FetchFilm(ctx context.Context, title string) (film.Film, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return film.Film{}, ErrEmptyTitle
	}

	params := url.Values{}
	params.Set("t", title)
	params.Set("apikey", c.apiKey)

	status, body, err := c.doRequest(ctx, params)
	if err != nil {
		return film.Film{}, err
	}

	c.logger.Debug().
		Str("url", c.redactedURL(params)).
		Int("status", status).
		Int("bytes", len(body)).
		Msg("OMDb lookup completed")

	var resp Response
	if status != http.StatusOK {
		// Error bodies are usually JSON too; use the message when there is one.
		_ = json.Unmarshal(body, &resp)
		return film.Film{}, &APIError{Title: title, StatusCode: status, Message: resp.Error}
	}

	if err := json.Unmarshal(body, &resp); err != nil {
		return film.Film{}, fmt.Errorf("%w: failed to parse response: %w", ErrTransport, err)
	}

	if !resp.OK() {
		return film.Film{}, &APIError{Title: title, StatusCode: status, Message: resp.Error}
	}

	return resp.Film(), nil
}

// redactedURL is the lookup URL with the API key masked, for logging.
func (c *Client) redactedURL(params url.Values) string {
	masked := url.Values{}
	for k, v := range params {
		masked[k] = v
	}
	masked.Set("apikey", "REDACTED")
	return c.endpoint(masked)
}

func (c *Client) endpoint(params url.Values) string {
	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + params.Encode()
}

// doRequest performs the GET and returns the status code and body.
func (c *Client) doRequest(ctx context.Context, params url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(params), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: failed to create request: %w", ErrTransport, err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: failed to read response body: %w", ErrTransport, err)
	}

	return resp.StatusCode, body, nil
}
