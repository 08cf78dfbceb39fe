package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rickgao/shoprank/internal/apperr"
	"github.com/rickgao/shoprank/internal/model"
)

// FetchPage fetches one page of search results. Size is capped at
// model.MaxPageSize; Start must lie within [1, model.MaxStart].
func (c *SearchClient) FetchPage(ctx context.Context, req model.PageRequest) (*model.Page, error) {
	const op = "search"

	if strings.TrimSpace(req.Keyword) == "" {
		return nil, apperr.Validation(op, "keyword is required")
	}
	if req.Size < 1 {
		return nil, apperr.Validation(op, "display must be >= 1, got %d", req.Size)
	}
	if req.Start < 1 || req.Start > model.MaxStart {
		return nil, apperr.Validation(op, "start must be between 1 and %d, got %d", model.MaxStart, req.Start)
	}
	if !req.Sort.Valid() {
		return nil, apperr.Validation(op, "unknown sort mode %q", req.Sort)
	}

	query := url.Values{}
	query.Set("query", req.Keyword)
	query.Set("display", strconv.Itoa(min(req.Size, model.MaxPageSize)))
	query.Set("start", strconv.Itoa(req.Start))
	query.Set("sort", req.Sort.Token())

	var resp SearchResponse
	if err := c.get(ctx, op, "", query, &resp); err != nil {
		return nil, fmt.Errorf("fetch page at %d: %w", req.Start, err)
	}
	if resp.Items == nil {
		return nil, apperr.Decode(op, errMissingField("items"))
	}

	if resp.Start == 0 {
		resp.Start = req.Start
	}

	c.logger.Debug("fetched search page",
		"keyword", req.Keyword,
		"start", req.Start,
		"items", len(*resp.Items),
		"total", resp.Total,
	)

	return resp.ToPage(req.Keyword), nil
}

// Ping issues a one-item search to check credentials and connectivity.
func (c *SearchClient) Ping(ctx context.Context) error {
	query := url.Values{}
	query.Set("query", "test")
	query.Set("display", "1")

	if _, err := c.doRequest(ctx, http.MethodGet, "", query); err != nil {
		return classify("search ping", err, false)
	}
	return nil
}
