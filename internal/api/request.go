package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rickgao/shoprank/internal/apperr"
	"github.com/rickgao/shoprank/internal/metrics"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 8 << 20

// APIError represents a non-2xx response from an upstream API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("naver api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// IsAuth returns true when the credentials or signature were rejected.
func (e *APIError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// errorBody covers the error shapes of both APIs.
type errorBody struct {
	ErrorMessage string `json:"errorMessage"`
	Title        string `json:"title"`
	Message      string `json:"message"`
}

// doRequest performs an HTTP request with the given method and path.
func (c *client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.headers != nil {
		for k, v := range c.headers(method, path) {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.APIRequestDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequests.WithLabelValues(c.name, metrics.StatusLabel(0)).Inc()
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	metrics.APIRequests.WithLabelValues(c.name, metrics.StatusLabel(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, body),
			Body:       body,
		}
	}

	return body, nil
}

// get performs a GET request and decodes the JSON body into result.
// Failures are classified into apperr kinds.
func (c *client) get(ctx context.Context, op, path string, query url.Values, result any) error {
	body, err := c.doRequest(ctx, http.MethodGet, path, query)
	if err != nil {
		return classify(op, err, c.authAware)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return apperr.Decode(op, fmt.Errorf("unmarshal response: %w", err))
	}

	return nil
}

// errMissingField reports a response that decoded but lacks a required key.
func errMissingField(name string) error {
	return fmt.Errorf("response is missing %q", name)
}

// classify maps a request error to its apperr kind. authAware enables the
// 401/403 -> Auth mapping used by the signed API.
func classify(op string, err error, authAware bool) error {
	if errors.Is(err, context.Canceled) {
		return apperr.Canceled(op, err)
	}
	var apiErr *APIError
	if authAware && errors.As(err, &apiErr) && apiErr.IsAuth() {
		return apperr.Auth(op, err)
	}
	return apperr.Transport(op, err)
}

func errorMessage(status int, body []byte) string {
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		switch {
		case eb.ErrorMessage != "":
			return eb.ErrorMessage
		case eb.Title != "":
			return eb.Title
		case eb.Message != "":
			return eb.Message
		}
	}
	return http.StatusText(status)
}
