package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "archview/pkg/errors"
	"archview/pkg/search"
	"archview/pkg/session"
	"archview/pkg/store"
	"archview/pkg/view"
)

// viewPayload is the renderer-facing snapshot of a session: positioned
// nodes, routed edges and the navigation state.
type viewPayload struct {
	Session  string         `json:"session"`
	Snapshot string         `json:"snapshot"`
	Nodes    []view.Node    `json:"nodes"`
	Edges    []view.Edge    `json:"edges"`
	State    view.ViewState `json:"state"`
}

func buildPayload(sess *session.Session, lv *liveView) viewPayload {
	return viewPayload{
		Session:  sess.ID,
		Snapshot: sess.Snapshot,
		Nodes:    lv.view.Nodes(),
		Edges:    lv.view.Edges(),
		State:    lv.view.State(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the shared error envelope: a human-readable message plus
// a machine-readable code clients can branch on.
func writeError(w http.ResponseWriter, status int, code apperrors.Code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": string(code)})
}

// loadSession resolves the {id} route param to a persisted session, writing
// the error response itself on failure.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.opts.Sessions.Get(r.Context(), id)
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, apperrors.ErrCodeSessionNotFound, "session not found")
		return nil, false
	case errors.Is(err, session.ErrExpired):
		writeError(w, http.StatusGone, apperrors.ErrCodeSessionExpired, "session expired")
		return nil, false
	case err != nil:
		s.logger.Error("load session", "session", id, "error", err)
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeStorage, "session lookup failed")
		return nil, false
	}
	return sess, true
}

// handleListSnapshots returns the snapshot catalog.
func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	names, err := s.opts.Snapshots.List(r.Context())
	if err != nil {
		s.logger.Error("list snapshots", "error", err)
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeStorage, "snapshot listing failed")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"snapshots": names})
}

// handleCreateSession opens a session over a named snapshot and returns the
// initial top-level view.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Snapshot string `json:"snapshot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Snapshot == "" {
		writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "snapshot name required")
		return
	}

	sess := session.New(req.Snapshot, session.DefaultTTL)
	lv, err := s.acquire(r.Context(), sess)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, apperrors.ErrCodeSnapshotNotFound, "snapshot not found")
		return
	}
	if err != nil {
		s.logger.Error("open snapshot", "snapshot", req.Snapshot, "error", err)
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeStorage, "snapshot load failed")
		return
	}

	if err := s.opts.Sessions.Set(r.Context(), sess); err != nil {
		s.live.remove(sess.ID)
		s.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeStorage, "session store failed")
		return
	}

	lv.mu.Lock()
	payload := buildPayload(sess, lv)
	lv.mu.Unlock()
	writeJSON(w, http.StatusCreated, payload)
}

// handleGetView returns the current positioned view for a session.
func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	lv, err := s.acquire(r.Context(), sess)
	if err != nil {
		s.logger.Error("rebuild view", "session", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "view rebuild failed")
		return
	}
	lv.mu.Lock()
	payload := buildPayload(sess, lv)
	lv.mu.Unlock()
	writeJSON(w, http.StatusOK, payload)
}

// actionRequest is one navigation or interaction command.
type actionRequest struct {
	Action string  `json:"action"` // select, clear, drill, up, jump, drag
	ID     string  `json:"id,omitempty"`
	Index  *int    `json:"index,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
}

// handleAction applies one navigation action and returns the view as of the
// action's synchronous effects. Positions from the layout that the action
// may have triggered arrive later over the websocket.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	lv, err := s.acquire(r.Context(), sess)
	if err != nil {
		s.logger.Error("rebuild view", "session", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "view rebuild failed")
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidAction, "invalid action body")
		return
	}

	ctx := r.Context()
	lv.mu.Lock()
	switch req.Action {
	case "select":
		lv.view.Select(ctx, req.ID)
	case "clear":
		lv.view.ClearSelection(ctx)
	case "drill":
		lv.view.DrillInto(ctx, req.ID)
	case "up":
		lv.view.DrillUp(ctx)
	case "jump":
		if req.Index == nil {
			lv.mu.Unlock()
			writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidAction, "jump requires index")
			return
		}
		lv.view.JumpToBreadcrumb(ctx, *req.Index)
	case "drag":
		lv.view.Coordinator().DragNode(req.ID, req.X, req.Y)
	default:
		lv.mu.Unlock()
		writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidAction, "unknown action "+strconv.Quote(req.Action))
		return
	}
	state := lv.view.State()
	payload := buildPayload(sess, lv)
	lv.mu.Unlock()

	s.persistState(ctx, sess, state)
	writeJSON(w, http.StatusOK, payload)
}

// handleSearch resolves free text against the session's snapshot.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	lv, err := s.acquire(r.Context(), sess)
	if err != nil {
		s.logger.Error("rebuild view", "session", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "view rebuild failed")
		return
	}

	results := lv.index.Query(r.URL.Query().Get("q"))
	if results == nil {
		results = []search.Result{}
	}
	writeJSON(w, http.StatusOK, map[string][]search.Result{"results": results})
}

// handleDeleteSession drops the session and its live view.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.live.remove(id)
	if err := s.opts.Sessions.Delete(r.Context(), id); err != nil {
		s.logger.Error("delete session", "session", id, "error", err)
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeStorage, "session delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
