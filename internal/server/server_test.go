package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archview/pkg/model"
	"archview/pkg/session"
	"archview/pkg/store"
	"archview/pkg/view"
)

// stubEngine places nodes on a fixed horizontal line so tests never depend
// on real layout geometry.
type stubEngine struct{}

func (stubEngine) Layout(_ context.Context, nodes []view.NodeSpec, _ []view.EdgeSpec, _ view.Direction) ([]view.PlacedNode, error) {
	placed := make([]view.PlacedNode, len(nodes))
	for i, n := range nodes {
		placed[i] = view.PlacedNode{ID: n.ID, X: float64(i) * 200}
	}
	return placed, nil
}

func testSnapshot() *model.Snapshot {
	return model.NewSnapshot(&model.Architecture{
		Name: "shop",
		Components: []*model.Component{
			{
				ID:   "repo",
				Name: "shop",
				Type: "repository",
				Children: []*model.Component{
					{ID: "web", Name: "web", Type: "web-client"},
					{
						ID:   "api",
						Name: "api",
						Type: "api-server",
						Children: []*model.Component{
							{ID: "auth", Name: "auth", Type: "service"},
							{ID: "billing", Name: "billing", Type: "service"},
						},
					},
				},
			},
		},
		Relationships: []*model.Relationship{
			{Source: "web", Target: "api", Type: "http", Protocol: "REST"},
		},
	})
}

type testEnv struct {
	opts     Options
	server   *Server
	ts       *httptest.Server
	sessions *session.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	snaps, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, snaps.Save(context.Background(), "shop", testSnapshot()))

	sessions := session.NewMemoryStore()
	opts := Options{
		Snapshots: snaps,
		Sessions:  sessions,
		Engine:    stubEngine{},
		Logger:    log.New(io.Discard),
	}
	srv := New(opts)
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return &testEnv{opts: opts, server: srv, ts: ts, sessions: sessions}
}

func (e *testEnv) request(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.ts.URL+path, &buf)
	require.NoError(t, err)
	resp, err := e.ts.Client().Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func (e *testEnv) createSession(t *testing.T) viewPayload {
	t.Helper()
	resp, data := e.request(t, http.MethodPost, "/api/sessions", map[string]string{"snapshot": "shop"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", data)
	var payload viewPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	return payload
}

func nodeIDs(nodes []view.Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func TestListSnapshots(t *testing.T) {
	env := newTestEnv(t)

	resp, data := env.request(t, http.MethodGet, "/api/snapshots", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, []string{"shop"}, body["snapshots"])
}

func TestCreateSession(t *testing.T) {
	env := newTestEnv(t)

	payload := env.createSession(t)
	assert.NotEmpty(t, payload.Session)
	assert.Equal(t, "shop", payload.Snapshot)
	assert.ElementsMatch(t, []string{"web", "api"}, nodeIDs(payload.Nodes))
	assert.Empty(t, payload.State.DrillTarget)

	// The session record is persisted, not just held in memory.
	sess, err := env.sessions.Get(context.Background(), payload.Session)
	require.NoError(t, err)
	assert.Equal(t, "shop", sess.Snapshot)
}

func TestCreateSessionErrors(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.request(t, http.MethodPost, "/api/sessions", map[string]string{"snapshot": "missing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.request(t, http.MethodPost, "/api/sessions", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetViewUnknownSession(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.request(t, http.MethodGet, "/api/sessions/nope/view", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetViewExpiredSession(t *testing.T) {
	env := newTestEnv(t)

	sess := session.New("shop", time.Nanosecond)
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, env.sessions.Set(context.Background(), sess))

	resp, _ := env.request(t, http.MethodGet, "/api/sessions/"+sess.ID+"/view", nil)
	assert.Equal(t, http.StatusGone, resp.StatusCode)
}

func TestDrillAction(t *testing.T) {
	env := newTestEnv(t)
	created := env.createSession(t)
	base := "/api/sessions/" + created.Session

	resp, data := env.request(t, http.MethodPost, base+"/actions", actionRequest{Action: "drill", ID: "api"})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", data)

	var payload viewPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "api", payload.State.DrillTarget)
	require.Len(t, payload.State.Breadcrumbs, 2)
	assert.Equal(t, "repo", payload.State.Breadcrumbs[0].ID)
	assert.Equal(t, "api", payload.State.Breadcrumbs[1].ID)
	assert.ElementsMatch(t, []string{"auth", "billing"}, nodeIDs(payload.Nodes))

	// The drilled state is persisted for the next request.
	sess, err := env.sessions.Get(context.Background(), created.Session)
	require.NoError(t, err)
	assert.Equal(t, "api", sess.State.DrillTarget)
}

func TestSelectAndClearActions(t *testing.T) {
	env := newTestEnv(t)
	created := env.createSession(t)
	base := "/api/sessions/" + created.Session

	resp, data := env.request(t, http.MethodPost, base+"/actions", actionRequest{Action: "select", ID: "web"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var payload viewPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "web", payload.State.SelectedID)
	for _, n := range payload.Nodes {
		if n.ID == "web" {
			assert.True(t, n.Emphasized, "selected node should stay emphasized")
		}
	}

	resp, data = env.request(t, http.MethodPost, base+"/actions", actionRequest{Action: "clear"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Empty(t, payload.State.SelectedID)
}

func TestActionErrors(t *testing.T) {
	env := newTestEnv(t)
	created := env.createSession(t)
	base := "/api/sessions/" + created.Session

	resp, data := env.request(t, http.MethodPost, base+"/actions", actionRequest{Action: "explode"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "INVALID_ACTION", body["code"])

	resp, _ = env.request(t, http.MethodPost, base+"/actions", actionRequest{Action: "jump"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "jump without index")
}

func TestDragAction(t *testing.T) {
	env := newTestEnv(t)
	created := env.createSession(t)
	base := "/api/sessions/" + created.Session

	// Wait for the initial layout to land so its merge does not overwrite
	// the dragged position afterwards.
	require.Eventually(t, func() bool {
		_, data := env.request(t, http.MethodGet, base+"/view", nil)
		var payload viewPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return false
		}
		for _, n := range payload.Nodes {
			if n.Position.X == 200 {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond, "initial layout never applied")

	resp, data := env.request(t, http.MethodPost, base+"/actions",
		actionRequest{Action: "drag", ID: "web", X: 640, Y: 480})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload viewPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	for _, n := range payload.Nodes {
		if n.ID == "web" {
			assert.Equal(t, 640.0, n.Position.X)
			assert.Equal(t, 480.0, n.Position.Y)
		}
	}
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	created := env.createSession(t)

	resp, data := env.request(t, http.MethodGet, "/api/sessions/"+created.Session+"/search?q=auth", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Results []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &body))
	require.NotEmpty(t, body.Results)
	assert.Equal(t, "auth", body.Results[0].ID)

	resp, data = env.request(t, http.MethodGet, "/api/sessions/"+created.Session+"/search?q=zzz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Empty(t, body.Results)
}

func TestDeleteSession(t *testing.T) {
	env := newTestEnv(t)
	created := env.createSession(t)

	resp, _ := env.request(t, http.MethodDelete, "/api/sessions/"+created.Session, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.request(t, http.MethodGet, "/api/sessions/"+created.Session+"/view", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestViewRebuiltAfterRestart(t *testing.T) {
	env := newTestEnv(t)
	created := env.createSession(t)
	base := "/api/sessions/" + created.Session

	resp, _ := env.request(t, http.MethodPost, base+"/actions", actionRequest{Action: "drill", ID: "api"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.request(t, http.MethodPost, base+"/actions", actionRequest{Action: "select", ID: "auth"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A fresh server sharing the same stores stands in for a restart: the
	// live view is gone but the persisted session record remains.
	restarted := New(env.opts)
	defer restarted.Close()
	ts2 := httptest.NewServer(restarted)
	defer ts2.Close()

	req, err := http.NewRequest(http.MethodGet, ts2.URL+base+"/view", nil)
	require.NoError(t, err)
	r2, err := ts2.Client().Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(r2.Body)
	require.NoError(t, err)
	r2.Body.Close()
	require.Equal(t, http.StatusOK, r2.StatusCode, "body: %s", data)

	var payload viewPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "api", payload.State.DrillTarget)
	require.Len(t, payload.State.Breadcrumbs, 2)
	assert.Equal(t, "auth", payload.State.SelectedID)
	assert.ElementsMatch(t, []string{"auth", "billing"}, nodeIDs(payload.Nodes))
}

func TestWebsocketPushesUpdates(t *testing.T) {
	env := newTestEnv(t)
	created := env.createSession(t)
	base := "/api/sessions/" + created.Session

	wsURL := "ws" + strings.TrimPrefix(env.ts.URL, "http") + base + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// The initial view arrives immediately on connect.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var payload viewPayload
	require.NoError(t, conn.ReadJSON(&payload))
	assert.Equal(t, created.Session, payload.Session)
	assert.ElementsMatch(t, []string{"web", "api"}, nodeIDs(payload.Nodes))

	// A drill triggers a new layout; its completion is pushed. The push from
	// the session's very first layout may still be in flight, so read until
	// the drilled state shows up.
	r, _ := env.request(t, http.MethodPost, base+"/actions", actionRequest{Action: "drill", ID: "api"})
	require.Equal(t, http.StatusOK, r.StatusCode)

	deadline := time.Now().Add(5 * time.Second)
	for {
		require.NoError(t, conn.SetReadDeadline(deadline))
		require.NoError(t, conn.ReadJSON(&payload))
		if payload.State.DrillTarget == "api" {
			break
		}
	}
	assert.ElementsMatch(t, []string{"auth", "billing"}, nodeIDs(payload.Nodes))
}
