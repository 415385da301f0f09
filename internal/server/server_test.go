package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crystal/pkg/observability"
	"github.com/matzehuels/crystal/pkg/scene"
	"github.com/matzehuels/crystal/pkg/session"
)

const sidebarScene = `{
  "window": {"width": 800, "height": 600},
  "root": {
    "id": "app", "kind": "horizontal", "size": "flex", "spacing": 8, "padding": 16,
    "children": [
      {"id": "nav", "kind": "vertical", "label": "Navigation", "width": 200, "height": "flex"},
      {"id": "content", "kind": "empty", "size": "flex(3)"}
    ]
  }
}`

const listScene = `
[window]
width = 320
height = 200

[root]
id = "list"
kind = "vertical"
size = "flex"
spacing = 4
padding = "8 12"

[[root.children]]
id = "row-1"
kind = "empty"
width = "flex"
height = 60

[[root.children]]
id = "row-2"
kind = "empty"
width = "flex"
height = 60

[[root.children]]
id = "row-3"
kind = "empty"
width = "flex"
height = 60

[[root.children]]
id = "row-4"
kind = "empty"
width = "flex"
height = 60
`

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[errorBody](t, rec).Error.Code
}

func findBox(t *testing.T, f *scene.Frame, id string) scene.Box {
	t.Helper()
	b, ok := f.Box(id)
	if !ok {
		t.Fatalf("frame has no box %q", id)
	}
	return b
}

func TestHealth(t *testing.T) {
	rec := do(t, New(nil, nil), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestSolve(t *testing.T) {
	srv := New(nil, nil)
	body := `{"scene": ` + sidebarScene + `}`

	rec := do(t, srv, http.MethodPost, "/v1/solve", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	res := decodeBody[solveResponse](t, rec)
	if res.Cached {
		t.Error("first solve should not be cached")
	}
	if res.SceneHash == "" {
		t.Error("missing scene hash")
	}
	if got := findBox(t, res.Frame, "content"); got.X != 224 || got.Y != 16 || got.Width != 560 || got.Height != 568 {
		t.Errorf("content = %+v", got)
	}
	if len(res.Artifacts) != 0 {
		t.Errorf("artifacts without formats: %v", res.Artifacts)
	}

	again := decodeBody[solveResponse](t, do(t, srv, http.MethodPost, "/v1/solve", body))
	if !again.Cached {
		t.Error("second solve should hit the cache")
	}
}

func TestSolveWindowAndFormats(t *testing.T) {
	body := map[string]any{
		"scene":   json.RawMessage(sidebarScene),
		"width":   400,
		"height":  300,
		"formats": []string{"svg", "txt"},
		"labels":  true,
	}
	rec := do(t, New(nil, nil), http.MethodPost, "/v1/solve", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	res := decodeBody[solveResponse](t, rec)
	if res.Frame.Window != (scene.Window{Width: 400, Height: 300}) {
		t.Errorf("window = %+v", res.Frame.Window)
	}
	if !strings.Contains(res.Artifacts["svg"], "<svg") {
		t.Errorf("svg artifact = %q", res.Artifacts["svg"])
	}
	if !strings.Contains(res.Artifacts["txt"], "Navig") {
		t.Errorf("txt artifact = %q", res.Artifacts["txt"])
	}
}

func TestSolveTOML(t *testing.T) {
	rec := do(t, New(nil, nil), http.MethodPost, "/v1/solve", map[string]string{"scene_toml": listScene})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	res := decodeBody[solveResponse](t, rec)
	diags := res.Frame.Diagnostics
	if len(diags) != 1 || diags[0].Kind != "overflow" || diags[0].Node != "list" {
		t.Errorf("diagnostics = %+v, want one overflow on list", diags)
	}
}

func TestSolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"empty body", ``, http.StatusBadRequest, "INVALID_INPUT"},
		{"no scene", `{}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"both scenes", `{"scene": ` + sidebarScene + `, "scene_toml": "x"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"scene": ` + sidebarScene + `, "colour": "red"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"invalid scene", `{"scene": {"root": {"kind": "grid"}}}`, http.StatusBadRequest, "INVALID_SCENE"},
		{"bad window", `{"scene": ` + sidebarScene + `, "width": -5}`, http.StatusBadRequest, "INVALID_WINDOW"},
		{"bad format", `{"scene": ` + sidebarScene + `, "formats": ["gif"]}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"missing scroll target", `{"scene": ` + sidebarScene + `, "scroll": {"ghost": -10}}`, http.StatusNotFound, "NOT_FOUND"},
	}
	srv := New(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/v1/solve", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			if got := errorCode(t, rec); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestSolveBodyLimit(t *testing.T) {
	srv := New(nil, nil, WithMaxBodyBytes(16))
	rec := do(t, srv, http.MethodPost, "/v1/solve", `{"scene": `+sidebarScene+`}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := New(nil, nil)

	rec := do(t, srv, http.MethodPost, "/v1/sessions", map[string]string{"scene_toml": listScene})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	created := decodeBody[sessionResponse](t, rec)
	if created.Window != (scene.Window{Width: 320, Height: 200}) {
		t.Errorf("window = %+v, want the scene's default", created.Window)
	}
	if got := findBox(t, created.Frame, "row-1"); got.Y != 8 {
		t.Errorf("row-1 y = %v, want 8", got.Y)
	}
	base := "/v1/sessions/" + created.ID

	rec = do(t, srv, http.MethodPost, base+"/scroll", scrollRequest{Node: "list", Delta: -30})
	if rec.Code != http.StatusOK {
		t.Fatalf("scroll status = %d: %s", rec.Code, rec.Body)
	}
	scrolled := decodeBody[sessionResponse](t, rec)
	if got := findBox(t, scrolled.Frame, "row-1"); got.Y != -22 {
		t.Errorf("row-1 y after scroll = %v, want -22", got.Y)
	}
	if scrolled.Scroll["list"] != -30 {
		t.Errorf("scroll = %v", scrolled.Scroll)
	}

	got := decodeBody[sessionResponse](t, do(t, srv, http.MethodGet, base, nil))
	if got.Scroll["list"] != -30 {
		t.Errorf("scroll not persisted: %v", got.Scroll)
	}

	rec = do(t, srv, http.MethodPost, base+"/resize", resizeRequest{Width: 640, Height: 480})
	if rec.Code != http.StatusOK {
		t.Fatalf("resize status = %d: %s", rec.Code, rec.Body)
	}
	resized := decodeBody[sessionResponse](t, rec)
	if resized.Frame.Window != (scene.Window{Width: 640, Height: 480}) {
		t.Errorf("frame window = %+v", resized.Frame.Window)
	}

	rec = do(t, srv, http.MethodGet, base+"?format=svg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("svg status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "<") {
		t.Errorf("body is not SVG: %q", rec.Body.String())
	}

	if rec := do(t, srv, http.MethodDelete, base, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = do(t, srv, http.MethodGet, base, nil)
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "SESSION_NOT_FOUND" {
		t.Errorf("get after delete = %d %s", rec.Code, rec.Body)
	}
}

func TestSessionErrors(t *testing.T) {
	srv := New(nil, nil)
	created := decodeBody[sessionResponse](t, do(t, srv, http.MethodPost, "/v1/sessions", map[string]string{"scene_toml": listScene}))
	base := "/v1/sessions/" + created.ID

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"bad id", http.MethodGet, "/v1/sessions/not-a-uuid", nil, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown id", http.MethodGet, "/v1/sessions/0b6f8a3c-2d1e-4f5a-9c7b-1e2d3c4b5a69", nil, http.StatusNotFound, "SESSION_NOT_FOUND"},
		{"scroll leaf", http.MethodPost, base + "/scroll", scrollRequest{Node: "row-1", Delta: -5}, http.StatusBadRequest, "INVALID_INPUT"},
		{"scroll missing", http.MethodPost, base + "/scroll", scrollRequest{Node: "ghost", Delta: -5}, http.StatusNotFound, "NOT_FOUND"},
		{"resize zero", http.MethodPost, base + "/resize", resizeRequest{}, http.StatusBadRequest, "INVALID_WINDOW"},
		{"bad format", http.MethodGet, base + "?format=gif", nil, http.StatusBadRequest, "INVALID_FORMAT"},
		{"create without scene", http.MethodPost, "/v1/sessions", `{}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown route", http.MethodGet, "/v2/nothing", nil, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			if got := errorCode(t, rec); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}

	// Failed scrolls leave the session untouched.
	got := decodeBody[sessionResponse](t, do(t, srv, http.MethodGet, base, nil))
	if len(got.Scroll) != 0 {
		t.Errorf("scroll = %v, want none", got.Scroll)
	}
}

func TestExpiredSession(t *testing.T) {
	store := session.NewMemoryStore()
	srv := New(nil, store)

	sc, err := scene.Parse([]byte(listScene), scene.FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	sess, err := session.New(sc, scene.Window{Width: 320, Height: 200}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	store.Set(context.Background(), sess)

	rec := do(t, srv, http.MethodGet, "/v1/sessions/"+sess.ID, nil)
	if rec.Code != http.StatusGone || errorCode(t, rec) != "SESSION_EXPIRED" {
		t.Errorf("expired session = %d %s", rec.Code, rec.Body)
	}
	if store.Len() != 0 {
		t.Error("expired session should be removed")
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
	errors int
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func (h *recordingHooks) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

func TestRequestLogging(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	srv := New(nil, nil, WithLogger(logger))

	do(t, srv, http.MethodGet, "/healthz", nil)
	do(t, srv, http.MethodGet, "/v1/sessions/0b6f8a3c-2d1e-4f5a-9c7b-1e2d3c4b5a69", nil)

	want := []string{"GET /healthz", "GET /v1/sessions/{id}"}
	if len(hooks.routes) != len(want) {
		t.Fatalf("routes = %v, want %v", hooks.routes, want)
	}
	for i := range want {
		if hooks.routes[i] != want[i] {
			t.Errorf("route[%d] = %q, want %q", i, hooks.routes[i], want[i])
		}
	}
	if hooks.errors != 1 {
		t.Errorf("errors = %d, want 1", hooks.errors)
	}

	out := buf.String()
	for _, s := range []string{"request", "/healthz", "status=200", "status=404"} {
		if !strings.Contains(out, s) {
			t.Errorf("log missing %q:\n%s", s, out)
		}
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(context.DeadlineExceeded); got != http.StatusInternalServerError {
		t.Errorf("plain error status = %d", got)
	}
}

func TestConcurrentSessionUpdates(t *testing.T) {
	const n = 16
	tests := []struct {
		name  string
		path  string
		body  string
		check func(t *testing.T, got sessionResponse)
	}{
		{
			name:  "scroll",
			path:  "/scroll",
			body:  `{"node": "list", "delta": -1}`,
			check: func(t *testing.T, got sessionResponse) {
				if got.Scroll["list"] != -n {
					t.Errorf("scroll = %v, want %d", got.Scroll["list"], -n)
				}
			},
		},
		{
			name:  "resize",
			path:  "/resize",
			body:  `{"width": 640, "height": 480}`,
			check: func(t *testing.T, got sessionResponse) {
				if got.Window != (scene.Window{Width: 640, Height: 480}) {
					t.Errorf("window = %+v", got.Window)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(nil, nil)
			created := decodeBody[sessionResponse](t, do(t, srv, http.MethodPost, "/v1/sessions", map[string]string{"scene_toml": listScene}))
			base := "/v1/sessions/" + created.ID

			codes := make([]int, n)
			var wg sync.WaitGroup
			for i := range n {
				wg.Add(1)
				go func() {
					defer wg.Done()
					req := httptest.NewRequest(http.MethodPost, base+tt.path, strings.NewReader(tt.body))
					req.Header.Set("Content-Type", "application/json")
					rec := httptest.NewRecorder()
					srv.ServeHTTP(rec, req)
					codes[i] = rec.Code
				}()
			}
			wg.Wait()

			for i, code := range codes {
				if code != http.StatusOK {
					t.Errorf("request %d status = %d", i, code)
				}
			}
			tt.check(t, decodeBody[sessionResponse](t, do(t, srv, http.MethodGet, base, nil)))
			if got := srv.locks.len(); got != 0 {
				t.Errorf("%d session locks left after all requests finished", got)
			}
		})
	}
}

func TestKeyedMutex(t *testing.T) {
	var k keyedMutex
	unlockA := k.lock("a")
	unlockB := k.lock("b")
	if got := k.len(); got != 2 {
		t.Fatalf("len = %d, want 2", got)
	}

	acquired := make(chan struct{})
	go func() {
		defer k.lock("a")()
		close(acquired)
	}()
	select {
	case <-acquired:
		t.Fatal("second lock of a held key did not block")
	case <-time.After(20 * time.Millisecond):
	}

	unlockB()
	unlockA()
	select {
	case <-acquired:
	case <-time.After(5 * time.Second):
		t.Fatal("waiter never acquired the released key")
	}
	// The waiter releases right after signalling.
	deadline := time.Now().Add(5 * time.Second)
	for k.len() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := k.len(); got != 0 {
		t.Errorf("len = %d after release, want 0", got)
	}
}

type countingStore struct {
	session.Store
	cleanups atomic.Int64
}

func (c *countingStore) Cleanup(ctx context.Context) error {
	c.cleanups.Add(1)
	return c.Store.Cleanup(ctx)
}

func TestListenAndServeStopsSweeper(t *testing.T) {
	tests := []struct {
		name    string
		occupy  bool
		wantErr bool
	}{
		{name: "address in use", occupy: true, wantErr: true},
		{name: "context canceled", occupy: false, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				t.Fatal(err)
			}
			addr := ln.Addr().String()
			if tt.occupy {
				defer ln.Close()
			} else {
				ln.Close()
			}

			store := &countingStore{Store: session.NewMemoryStore()}
			srv := New(nil, store)
			srv.sweepEvery = time.Millisecond

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe(ctx, addr) }()
			if !tt.occupy {
				time.Sleep(20 * time.Millisecond)
				cancel()
			}

			select {
			case err := <-errc:
				if (err != nil) != tt.wantErr {
					t.Fatalf("ListenAndServe() error = %v, wantErr %v", err, tt.wantErr)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("ListenAndServe did not return")
			}

			before := store.cleanups.Load()
			time.Sleep(20 * time.Millisecond)
			if after := store.cleanups.Load(); after != before {
				t.Errorf("sweeper kept running after return: %d cleanups, then %d", before, after)
			}
		})
	}
}
