package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rickgao/shoprank/internal/auth"
)

// Default endpoints.
const (
	DefaultSearchURL  = "https://openapi.naver.com/v1/search/shop.json"
	DefaultKeywordURL = "https://api.searchad.naver.com"
)

// client carries the HTTP plumbing shared by both API clients.
type client struct {
	name       string // metrics label
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// headers returns the per-request headers for method and path.
	headers func(method, path string) map[string]string

	// authAware reports 401/403 responses as apperr.KindAuth.
	authAware bool
}

// ClientOption configures a client.
type ClientOption func(*client)

func newClient(name, baseURL string, opts []ClientOption) client {
	c := client{
		name:    name,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *client) {
		c.httpClient = hc
	}
}

// SearchClient queries the shopping search API.
type SearchClient struct {
	client
}

// NewSearchClient creates a search client. baseURL is the full endpoint URL.
func NewSearchClient(baseURL, clientID, clientSecret string, opts ...ClientOption) *SearchClient {
	if baseURL == "" {
		baseURL = DefaultSearchURL
	}
	c := &SearchClient{client: newClient("search", baseURL, opts)}
	c.headers = func(string, string) map[string]string {
		return map[string]string{
			"X-Naver-Client-Id":     clientID,
			"X-Naver-Client-Secret": clientSecret,
		}
	}
	return c
}

// KeywordClient queries the keyword-metrics API.
type KeywordClient struct {
	client
}

// NewKeywordClient creates a keyword-metrics client that signs every request with creds.
func NewKeywordClient(baseURL string, creds *auth.Credentials, opts ...ClientOption) *KeywordClient {
	if baseURL == "" {
		baseURL = DefaultKeywordURL
	}
	c := &KeywordClient{client: newClient("keywordstool", baseURL, opts)}
	c.headers = creds.SignRequest
	c.authAware = true
	return c
}
