// Package api is the thin HTTP translation layer: request in, core call,
// JSON out. All similarity logic lives below it.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"coddog/internal/db"
	"coddog/internal/errors"
)

// maxPageSize bounds submatch pages.
const maxPageSize = 100

// Server serves the corpus query surface over HTTP.
type Server struct {
	db *db.DB
}

// NewServer builds a server around an open database handle.
func NewServer(database *db.DB) *Server {
	return &Server{db: database}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("coddog"))
	})
	mux.HandleFunc("GET /projects", s.getProjects)
	mux.HandleFunc("POST /projects", s.createProject)
	mux.HandleFunc("GET /projects/{id}", s.getProject)
	mux.HandleFunc("PATCH /projects/{id}", s.updateProject)
	mux.HandleFunc("DELETE /projects/{id}", s.deleteProject)
	mux.HandleFunc("POST /symbols", s.querySymbolsByName)
	mux.HandleFunc("GET /symbols/{slug}", s.getSymbol)
	mux.HandleFunc("GET /symbols/{slug}/match", s.getSymbolMatches)
	mux.HandleFunc("POST /symbols/{slug}/submatch", s.getSymbolSubmatches)
	return mux
}

// ListenAndServe runs the server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	log.Printf("listening on %s", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps error kinds to status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.KindOf(err) {
	case errors.KindBadRequest, errors.KindUnknownPlatform:
		status = http.StatusBadRequest
	case errors.KindNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
	}
	writeJSON(w, status, map[string]interface{}{"success": false, "message": err.Error()})
}
