package server

import (
	"context"
	"sync"

	"archview/pkg/search"
	"archview/pkg/session"
	"archview/pkg/view"
)

// liveView is the in-memory half of a session: the view engine instance plus
// the websocket subscribers waiting for layout completions.
//
// View navigation methods are single atomic transitions, so every handler
// that mutates the view holds mu for the whole action.
type liveView struct {
	mu    sync.Mutex
	view  *view.View
	index *search.SubstringIndex

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
}

// notify wakes every subscriber without blocking. Slow subscribers coalesce
// updates: the channel holds at most one pending signal.
func (lv *liveView) notify() {
	lv.subMu.Lock()
	defer lv.subMu.Unlock()
	for ch := range lv.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// subscribe registers an update channel and returns its remove function.
func (lv *liveView) subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	lv.subMu.Lock()
	lv.subs[ch] = struct{}{}
	lv.subMu.Unlock()
	return ch, func() {
		lv.subMu.Lock()
		delete(lv.subs, ch)
		lv.subMu.Unlock()
	}
}

// liveRegistry maps session ids to their live views.
type liveRegistry struct {
	mu    sync.Mutex
	views map[string]*liveView
}

func newLiveRegistry() *liveRegistry {
	return &liveRegistry{views: make(map[string]*liveView)}
}

func (r *liveRegistry) get(id string) (*liveView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lv, ok := r.views[id]
	return lv, ok
}

func (r *liveRegistry) put(id string, lv *liveView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[id] = lv
}

func (r *liveRegistry) remove(id string) {
	r.mu.Lock()
	lv, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()
	if ok {
		lv.view.Close()
	}
}

func (r *liveRegistry) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, lv := range r.views {
		lv.view.Close()
		delete(r.views, id)
	}
}

// acquire returns the live view for a session, rebuilding it from the
// persisted session record when the server has restarted since the session
// was created.
func (s *Server) acquire(ctx context.Context, sess *session.Session) (*liveView, error) {
	if lv, ok := s.live.get(sess.ID); ok {
		return lv, nil
	}

	snap, err := s.opts.Snapshots.Load(ctx, sess.Snapshot)
	if err != nil {
		return nil, err
	}

	lv := &liveView{
		index: search.NewSubstringIndex(snap),
		subs:  make(map[chan struct{}]struct{}),
	}
	lv.view = view.New(snap, view.Options{
		Coordinator: view.CoordinatorOptions{
			Engine:    s.opts.Engine,
			Cache:     s.opts.Cache,
			Logger:    s.logger,
			Direction: s.opts.Direction,
			OnUpdate:  lv.notify,
			OnError: func(err error) {
				s.logger.Error("layout failed", "session", sess.ID, "error", err)
			},
		},
	})

	// Replay the persisted navigation state. DrillInto rebuilds the full
	// breadcrumb trail from the component tree, so one call restores any
	// depth.
	if sess.State.DrillTarget != "" {
		lv.view.DrillInto(ctx, sess.State.DrillTarget)
	} else {
		lv.view.Refresh(ctx)
	}
	if sess.State.SelectedID != "" {
		lv.view.Select(ctx, sess.State.SelectedID)
	}

	s.live.put(sess.ID, lv)
	return lv, nil
}
