package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rickgao/shoprank/internal/apperr"
	"github.com/rickgao/shoprank/internal/model"
	"github.com/rickgao/shoprank/internal/progress"
	"github.com/rickgao/shoprank/internal/rank"
)

const writeTimeout = 10 * time.Second

// Stream message types.
const (
	MessageProgress = "progress"
	MessageResult   = "result"
	MessageError    = "error"
)

// StreamMessage is one frame sent on /ws/rank.
type StreamMessage struct {
	Type     string         `json:"type"`
	ID       string         `json:"id"`
	Progress *rank.Progress `json:"progress,omitempty"`
	Result   *rank.Result   `json:"result,omitempty"`
	Error    *errorBody     `json:"error,omitempty"`
}

// handleRankStream runs one rank check and streams its progress. The query
// is validated before the upgrade so bad input gets a plain 400. Closing
// the socket cancels the check.
func (s *Server) handleRankStream(w http.ResponseWriter, r *http.Request) {
	const op = "rank stream"
	params := r.URL.Query()

	pageSize, err := intParam(params.Get("page_size"), 0)
	if err != nil {
		s.writeError(w, r, apperr.Validation(op, "page_size: %v", err))
		return
	}
	maxPages, err := intParam(params.Get("max_pages"), 0)
	if err != nil {
		s.writeError(w, r, apperr.Validation(op, "max_pages: %v", err))
		return
	}
	sort, err := model.ParseSortMode(params.Get("sort"))
	if err != nil {
		s.writeError(w, r, apperr.Validation(op, "%v", err))
		return
	}
	q := s.svc.WithDefaults(model.RankQuery{
		Keyword:  params.Get("keyword"),
		Merchant: params.Get("merchant"),
		PageSize: pageSize,
		MaxPages: maxPages,
		Sort:     sort,
	})
	if err := q.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client never sends anything meaningful; a read error means it went away.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	events := progress.NewQueue[rank.Progress](16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeProgress(conn, id, events)
	}()

	res, err := s.svc.CheckRank(ctx, q, func(p rank.Progress) { events.Push(p) })
	events.Close()
	<-writerDone

	final := StreamMessage{Type: MessageResult, ID: id, Result: res}
	if err != nil {
		body := bodyFor(err)
		final = StreamMessage{Type: MessageError, ID: id, Error: &body}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(final); err != nil {
		s.logger.Debug("websocket write failed", "id", id, "err", err)
		return
	}
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
}

// writeProgress forwards queued progress until the queue is closed and
// drained, pinging the client while the scan is between pages.
func (s *Server) writeProgress(conn *websocket.Conn, id string, events *progress.Queue[rank.Progress]) {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte("keepalive"), time.Now().Add(writeTimeout)); err != nil {
					s.logger.Debug("failed to send ping", "id", id, "err", err)
				}
			}
		}
	}()

	failed := false
	for {
		p, ok := events.Pop()
		if !ok {
			return
		}
		if failed {
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(StreamMessage{Type: MessageProgress, ID: id, Progress: &p}); err != nil {
			s.logger.Debug("websocket write failed", "id", id, "err", err)
			// Keep draining so the scan never blocks on a dead client.
			failed = true
		}
	}
}
