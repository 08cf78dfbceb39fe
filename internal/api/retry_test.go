package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rickgao/shoprank/internal/apperr"
	"github.com/rickgao/shoprank/internal/model"
)

// flakyFetcher fails with the queued errors before succeeding.
type flakyFetcher struct {
	errs  []error
	calls int
}

func (f *flakyFetcher) FetchPage(ctx context.Context, req model.PageRequest) (*model.Page, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return &model.Page{Keyword: req.Keyword, Start: req.Start}, nil
}

func transportStatus(code int) error {
	return apperr.Transport("search", &APIError{StatusCode: code, Message: http.StatusText(code)})
}

func TestRetryFetcher_RetriesTransient(t *testing.T) {
	next := &flakyFetcher{errs: []error{transportStatus(503), transportStatus(429)}}
	r := NewRetryFetcher(next, 3, time.Millisecond, nil)

	page, err := r.FetchPage(context.Background(), model.PageRequest{Keyword: "k", Start: 1, Size: 10})
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if page.Keyword != "k" {
		t.Errorf("Keyword = %q, want k", page.Keyword)
	}
	if next.calls != 3 {
		t.Errorf("calls = %d, want 3", next.calls)
	}
}

func TestRetryFetcher_GivesUp(t *testing.T) {
	next := &flakyFetcher{errs: []error{transportStatus(500), transportStatus(500), transportStatus(500)}}
	r := NewRetryFetcher(next, 2, time.Millisecond, nil)

	_, err := r.FetchPage(context.Background(), model.PageRequest{Keyword: "k", Start: 1, Size: 10})
	if got := apperr.KindOf(err); got != apperr.KindTransport {
		t.Errorf("KindOf(err) = %v, want transport", got)
	}
	if next.calls != 3 {
		t.Errorf("calls = %d, want 3", next.calls)
	}
}

func TestRetryFetcher_NoRetryOnPermanent(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"bad request", transportStatus(400)},
		{"decode", apperr.Decode("search", errors.New("unexpected EOF"))},
		{"validation", apperr.Validation("search", "keyword is required")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &flakyFetcher{errs: []error{tt.err}}
			r := NewRetryFetcher(next, 3, time.Millisecond, nil)

			_, err := r.FetchPage(context.Background(), model.PageRequest{Keyword: "k", Start: 1, Size: 10})
			if err == nil {
				t.Fatal("expected error")
			}
			if next.calls != 1 {
				t.Errorf("calls = %d, want 1", next.calls)
			}
		})
	}
}

func TestRetryFetcher_Disabled(t *testing.T) {
	next := &flakyFetcher{errs: []error{transportStatus(503)}}
	r := NewRetryFetcher(next, 0, time.Millisecond, nil)

	if _, err := r.FetchPage(context.Background(), model.PageRequest{Keyword: "k", Start: 1, Size: 10}); err == nil {
		t.Fatal("expected error with retries disabled")
	}
	if next.calls != 1 {
		t.Errorf("calls = %d, want 1", next.calls)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"503", transportStatus(503), true},
		{"429", transportStatus(429), true},
		{"404", transportStatus(404), false},
		{"deadline", apperr.Transport("search", context.DeadlineExceeded), true},
		{"auth", apperr.Auth("keywordstool", transportStatus(403)), false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		if got := IsRetryable(tt.err); got != tt.want {
			t.Errorf("IsRetryable(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
