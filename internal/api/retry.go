package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/rickgao/shoprank/internal/apperr"
	"github.com/rickgao/shoprank/internal/model"
)

// PageFetcher fetches one page of search results.
type PageFetcher interface {
	FetchPage(ctx context.Context, req model.PageRequest) (*model.Page, error)
}

// RetryFetcher retries transient page fetch failures with jittered
// exponential backoff. Validation, decode and auth errors are never retried.
type RetryFetcher struct {
	next       PageFetcher
	maxRetries uint64
	backoff    time.Duration
	logger     *slog.Logger
}

// NewRetryFetcher wraps next. maxRetries <= 0 disables retries.
func NewRetryFetcher(next PageFetcher, maxRetries int, backoff time.Duration, logger *slog.Logger) *RetryFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	return &RetryFetcher{
		next:       next,
		maxRetries: uint64(max(maxRetries, 0)),
		backoff:    backoff,
		logger:     logger,
	}
}

// FetchPage implements PageFetcher.
func (r *RetryFetcher) FetchPage(ctx context.Context, req model.PageRequest) (*model.Page, error) {
	if r.maxRetries == 0 {
		return r.next.FetchPage(ctx, req)
	}

	b := retry.NewExponential(r.backoff)
	b = retry.WithJitterPercent(50, b)
	b = retry.WithMaxRetries(r.maxRetries, b)

	var page *model.Page
	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		p, err := r.next.FetchPage(ctx, req)
		if err != nil {
			if !IsRetryable(err) {
				return err
			}
			r.logger.Warn("retrying page fetch",
				"keyword", req.Keyword,
				"start", req.Start,
				"attempt", attempt,
				"err", err,
			)
			return retry.RetryableError(err)
		}
		page = p
		return nil
	})
	if err != nil {
		// retry.Do reports an expired context as a bare ctx.Err().
		if apperr.KindOf(err) == apperr.KindUnknown {
			if errors.Is(err, context.Canceled) {
				return nil, apperr.Canceled("search", err)
			}
			return nil, apperr.Transport("search", err)
		}
		return nil, err
	}

	return page, nil
}

// IsRetryable reports whether err is a transient transport failure:
// a retryable status code or a network error.
func IsRetryable(err error) bool {
	if apperr.KindOf(err) != apperr.KindTransport {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRetryable()
	}
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded)
}
