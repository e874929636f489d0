package sheets

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// ActionSyncAll is the only write action the endpoint understands.
const ActionSyncAll = "sync_all"

// PushRequest is the body of a write to the remote endpoint.
type PushRequest struct {
	Action string  `json:"action"`
	Data   Dataset `json:"data"`
}

// Server exposes a Book the way the hosted spreadsheet script does: GET
// returns every table, POST overwrites them.
type Server struct {
	book *Book
	Mux  *chi.Mux
}

func NewServer(book *Book) *Server {
	s := &Server{book: book, Mux: chi.NewRouter()}
	s.Mux.Use(s.logger)
	for _, path := range []string{"/", "/exec"} {
		s.Mux.Get(path, s.handleRead)
		s.Mux.Post(path, s.handleWrite)
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Mux.ServeHTTP(w, r)
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	ds, err := s.book.ReadDataset()
	if err != nil {
		slog.Error("đọc bảng tính thất bại", "error", err)
		writeJSON(w, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, ds)
}

func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, failure(err))
		return
	}

	req := PushRequest{}
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, failure(err))
		return
	}
	if req.Action != ActionSyncAll {
		writeJSON(w, failure(fmt.Errorf("unsupported action %q", req.Action)))
		return
	}

	if err := s.book.WriteDataset(req.Data); err != nil {
		slog.Error("ghi bảng tính thất bại", "error", err)
		writeJSON(w, failure(err))
		return
	}
	writeJSON(w, map[string]any{"success": true})
}

func (s *Server) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("đã xử lý yêu cầu bảng tính", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func failure(err error) map[string]any {
	return map[string]any{"success": false, "error": err.Error()}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("ghi phản hồi thất bại", "error", err)
	}
}
