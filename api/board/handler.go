// Package board exposes the schedule board over HTTP for the UI.
package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/interviewday/board/connectors/engine"
	coreboard "github.com/interviewday/board/core/board"
	"github.com/interviewday/board/core/logger"
	"github.com/interviewday/board/core/session"
)

// Handler serves the board API. When token is non-empty, every request
// must carry "Authorization: Bearer <token>".
type Handler struct {
	sess  *session.Session
	token string
	log   logger.Logger
}

// New returns the board API handler.
func New(sess *session.Session, token string, log logger.Logger) http.Handler {
	h := &Handler{sess: sess, token: token, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/board/generate", h.auth(h.generate))
	mux.HandleFunc("/api/board/view", h.auth(h.view))
	mux.HandleFunc("/api/board/schedule", h.auth(h.schedule))
	mux.HandleFunc("/api/board/drag", h.auth(h.drag))
	mux.HandleFunc("/api/board/drop", h.auth(h.drop))
	mux.HandleFunc("/api/board/proposals/", h.auth(h.confirm))
	mux.HandleFunc("/api/board/export", h.auth(h.export))
	return mux
}

func (h *Handler) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.token != "" && r.Header.Get("Authorization") != "Bearer "+h.token {
			writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		next(w, r)
	}
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	stats, err := h.sess.Generate(r.Context())
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	v, err := h.sess.View()
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) schedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	sched, err := h.sess.Schedule()
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (h *Handler) drag(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var src coreboard.CellRef
		if err := json.NewDecoder(r.Body).Decode(&src); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode source: %w", err))
			return
		}
		h.sess.DragStart(src)
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		h.sess.DragEnd()
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, http.MethodPost, http.MethodDelete)
	}
}

func (h *Handler) drop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var target coreboard.CellRef
	if err := json.NewDecoder(r.Body).Decode(&target); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode target: %w", err))
		return
	}
	p, err := h.sess.Drop(target)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/board/proposals/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	var body struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}
	outcome, err := h.sess.Confirm(r.Context(), id, body.Accept)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	exp, err := h.sess.Export(r.Context())
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	defer func() { _ = exp.Body.Close() }()
	if exp.ContentType != "" {
		w.Header().Set("Content-Type", exp.ContentType)
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	if _, err := io.Copy(w, exp.Body); err != nil {
		h.log.Errorf("stream export: %v", err)
	}
}

// writeFailure maps session and engine errors onto HTTP statuses,
// keeping the engine's error payload intact for the UI to show.
func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	var statusErr *engine.StatusError
	switch {
	case errors.Is(err, session.ErrBusy):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, session.ErrNoSchedule):
		writeError(w, http.StatusPreconditionFailed, err)
	case errors.Is(err, session.ErrUnknownProposal):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, coreboard.ErrInvalidDrop), errors.Is(err, coreboard.ErrNoDrag):
		writeError(w, http.StatusUnprocessableEntity, err)
	case errors.As(err, &statusErr):
		writeError(w, http.StatusBadGateway, err)
	default:
		h.log.Errorf("board api: %v", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}
