// Package server exposes the query engine over HTTP with one
// conversation log per session.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rcliao/helios/internal/chat"
	"github.com/rcliao/helios/internal/jira"
	"github.com/rcliao/helios/internal/logging"
)

// Engine is the query API the handlers call.
type Engine interface {
	ProcessQuery(ctx context.Context, sess *chat.Session, query, projectKey string) (*chat.Result, error)
	Followup(ctx context.Context, sess *chat.Session, query string) (string, error)
	Ask(ctx context.Context, sess *chat.Session, query string) (string, *chat.Result, error)
}

// Server holds the handler dependencies.
type Server struct {
	engine   Engine
	sessions *Registry
	log      *logging.Logger
}

// New creates a Server.
func New(engine Engine, sessions *Registry, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{engine: engine, sessions: sessions, log: logger}
}

// Router returns the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.deleteSession)
			r.Get("/history", s.history)
			r.Post("/query", s.query)
			r.Post("/followup", s.followup)
			r.Post("/ask", s.ask)
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return s.sessions.Close()
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Sessions: s.sessions.Len()})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		s.log.Error("create session", "err", err)
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "could not create session"})
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: sess.ID, CreatedAt: sess.CreatedAt})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.sessions.With(id, func(sess *chat.Session) error {
		turns, err := sess.History(r.Context())
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, historyResponse{SessionID: id, Turns: turns})
		return nil
	})
	if err != nil {
		s.writeSessionError(w, err)
	}
}

func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r, true)
	if !ok {
		return
	}
	err := s.sessions.With(chi.URLParam(r, "id"), func(sess *chat.Session) error {
		res, err := s.engine.ProcessQuery(r.Context(), sess, req.Query, req.ProjectKey)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, res)
		return nil
	})
	if err != nil {
		s.writeSessionError(w, err)
	}
}

func (s *Server) followup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r, false)
	if !ok {
		return
	}
	err := s.sessions.With(chi.URLParam(r, "id"), func(sess *chat.Session) error {
		answer, err := s.engine.Followup(r.Context(), sess, req.Query)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, answerResponse{Response: answer, ProjectKey: sess.Current.ProjectKey})
		return nil
	})
	if err != nil {
		s.writeSessionError(w, err)
	}
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r, false)
	if !ok {
		return
	}
	err := s.sessions.With(chi.URLParam(r, "id"), func(sess *chat.Session) error {
		answer, res, err := s.engine.Ask(r.Context(), sess, req.Query)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, answerResponse{Response: answer, ProjectKey: res.ProjectKey})
		return nil
	})
	if err != nil {
		s.writeSessionError(w, err)
	}
}

// decodeQuery reads the request body. allowKeyOnly accepts an empty query
// when a project key is given.
func decodeQuery(w http.ResponseWriter, r *http.Request, allowKeyOnly bool) (queryRequest, bool) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return req, false
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" && !(allowKeyOnly && req.ProjectKey != "") {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "query is required"})
		return req, false
	}
	return req, true
}

func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	var qe *chat.QueryError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeError(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, chat.ErrNoContext):
		writeError(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.As(err, &qe):
		writeError(w, queryStatus(qe), errorResponse{Error: qe.Detail, Response: qe.Response, Kind: string(qe.Kind)})
	default:
		s.log.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func queryStatus(qe *chat.QueryError) int {
	switch {
	case qe.Kind == chat.KindNoProject:
		return http.StatusUnprocessableEntity
	case errors.Is(qe, jira.ErrProjectNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, body errorResponse) {
	writeJSON(w, status, body)
}
