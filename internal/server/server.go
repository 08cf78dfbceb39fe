package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/shoprank/internal/analysis"
	"github.com/rickgao/shoprank/internal/apperr"
	"github.com/rickgao/shoprank/internal/export"
	"github.com/rickgao/shoprank/internal/history"
	"github.com/rickgao/shoprank/internal/model"
	"github.com/rickgao/shoprank/internal/rank"
	"github.com/rickgao/shoprank/internal/service"
	"github.com/rickgao/shoprank/internal/version"
)

// DefaultTopN is the shopping table size when n is not given.
const DefaultTopN = 50

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 1 << 20

// Server serves the HTTP API.
type Server struct {
	svc      *service.Service
	logger   *slog.Logger
	upgrader websocket.Upgrader
	// pingInterval is how often /ws/rank pings an idle client.
	pingInterval time.Duration
}

// New creates a Server.
func New(svc *service.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		svc:    svc,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		pingInterval: 30 * time.Second,
	}
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/rank", s.handleRank)
	mux.HandleFunc("GET /api/top", s.handleTop)
	mux.HandleFunc("GET /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/keywords", s.handleKeywords)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /ws/rank", s.handleRankStream)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		version.Info
	}{Status: "ok", Info: version.Get()})
}

type rankRequest struct {
	Keywords []string `json:"keywords"`
	Merchant string   `json:"merchant"`
	PageSize int      `json:"page_size"`
	MaxPages int      `json:"max_pages"`
	Sort     string   `json:"sort"`
}

type rankItem struct {
	Keyword string       `json:"keyword"`
	Result  *rank.Result `json:"result,omitempty"`
	Error   *errorBody   `json:"error,omitempty"`
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	const op = "rank request"

	var req rankRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, apperr.Validation(op, "invalid JSON body: %v", err))
		return
	}
	sort, err := model.ParseSortMode(req.Sort)
	if err != nil {
		s.writeError(w, r, apperr.Validation(op, "%v", err))
		return
	}

	keywords, err := rank.ParseKeywords(strings.Join(req.Keywords, ","), s.svc.MaxKeywords())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	base := model.RankQuery{Merchant: req.Merchant, PageSize: req.PageSize, MaxPages: req.MaxPages, Sort: sort}
	items, err := s.svc.CheckRanks(r.Context(), keywords, base, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if wantsCSV(r) {
		writeCSV(w, "rank", func(out io.Writer) error { return export.WriteRankResults(out, items) })
		return
	}

	resp := make([]rankItem, len(items))
	for i, it := range items {
		resp[i] = rankItem{Keyword: it.Keyword, Result: it.Result}
		if it.Err != nil {
			body := bodyFor(it.Err)
			resp[i].Error = &body
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": resp})
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	const op = "top request"
	q := r.URL.Query()

	n, err := intParam(q.Get("n"), DefaultTopN)
	if err != nil {
		s.writeError(w, r, apperr.Validation(op, "n: %v", err))
		return
	}
	sort, err := model.ParseSortMode(q.Get("sort"))
	if err != nil {
		s.writeError(w, r, apperr.Validation(op, "%v", err))
		return
	}
	order, err := analysis.ParseShoppingSort(q.Get("order"))
	if err != nil {
		s.writeError(w, r, apperr.Validation(op, "%v", err))
		return
	}

	view, err := s.svc.Shopping(r.Context(), service.ShoppingRequest{
		Keyword: q.Get("keyword"),
		N:       n,
		Sort:    sort,
		Order:   order,
		Target:  q.Get("target"),
		Filter: analysis.ShoppingFilter{
			Merchant: q.Get("mall"),
			Brand:    q.Get("brand"),
			Title:    q.Get("title"),
		},
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if wantsCSV(r) {
		writeCSV(w, "shopping", func(out io.Writer) error { return export.WriteShopping(out, view.Rows) })
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "analyze request"
	q := r.URL.Query()

	limit, err := intParam(q.Get("limit"), 20)
	if err != nil {
		s.writeError(w, r, apperr.Validation(op, "limit: %v", err))
		return
	}
	sort, err := model.ParseSortMode(q.Get("sort"))
	if err != nil {
		s.writeError(w, r, apperr.Validation(op, "%v", err))
		return
	}

	a, err := s.svc.Analyze(r.Context(), q.Get("keyword"), sort, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	const op = "keywords request"
	q := r.URL.Query()

	keyword := strings.TrimSpace(q.Get("keyword"))
	if keyword == "" {
		s.writeError(w, r, apperr.Validation(op, "keyword is required"))
		return
	}
	by, err := analysis.ParseKeywordSort(q.Get("sort"))
	if err != nil {
		s.writeError(w, r, apperr.Validation(op, "%v", err))
		return
	}
	order := analysis.KeywordSort{
		By:           by,
		Desc:         q.Get("order") == "desc",
		UnknownFirst: q.Get("unknown") == "first",
	}

	view, err := s.svc.KeywordTable(r.Context(), keyword, q.Get("filter"), order)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if wantsCSV(r) {
		writeCSV(w, "keywords", func(out io.Writer) error { return export.WriteKeywords(out, view.Rows) })
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	const op = "history request"
	q := r.URL.Query()

	limit, err := intParam(q.Get("limit"), history.DefaultListLimit)
	if err != nil {
		s.writeError(w, r, apperr.Validation(op, "limit: %v", err))
		return
	}

	checks, err := s.svc.History(r.Context(), history.Filter{
		Keyword:  q.Get("keyword"),
		Merchant: q.Get("merchant"),
		Limit:    limit,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if checks == nil {
		checks = []history.Check{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"checks": checks})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv"
}

func writeCSV(w http.ResponseWriter, name string, fn func(io.Writer) error) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
	_ = fn(w)
}

// intParam parses an optional positive integer parameter.
func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("must be >= 1, got %d", n)
	}
	return n, nil
}
