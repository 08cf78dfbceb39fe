package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rickgao/shoprank/internal/apperr"
	"github.com/rickgao/shoprank/internal/model"
)

// KeywordToolPath is the signed path of the related-keyword endpoint.
const KeywordToolPath = "/keywordstool"

// Related returns related keywords with their monthly metrics for hint.
// Spaces are removed from the hint; the endpoint rejects them.
func (c *KeywordClient) Related(ctx context.Context, hint string) ([]model.KeywordMetric, error) {
	const op = "keywordstool"

	hint = strings.ReplaceAll(strings.TrimSpace(hint), " ", "")
	if hint == "" {
		return nil, apperr.Validation(op, "hint keyword is required")
	}

	query := url.Values{}
	query.Set("hintKeywords", hint)
	query.Set("showDetail", "1")

	var resp KeywordToolResponse
	if err := c.get(ctx, op, KeywordToolPath, query, &resp); err != nil {
		return nil, fmt.Errorf("related keywords: %w", err)
	}
	if resp.KeywordList == nil {
		return nil, apperr.Decode(op, errMissingField("keywordList"))
	}

	list := *resp.KeywordList
	out := make([]model.KeywordMetric, 0, len(list))
	for i := range list {
		m := list[i].ToModel()
		if m.Keyword == "" {
			continue
		}
		out = append(out, m)
	}

	c.logger.Debug("fetched related keywords", "hint", hint, "count", len(out))

	return out, nil
}
