package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/crystal/pkg/buildinfo"
	"github.com/matzehuels/crystal/pkg/errors"
	"github.com/matzehuels/crystal/pkg/pipeline"
	"github.com/matzehuels/crystal/pkg/scene"
	"github.com/matzehuels/crystal/pkg/session"
)

// sceneInput carries a scene either as a JSON object or as TOML text.
type sceneInput struct {
	Scene     json.RawMessage `json:"scene,omitempty"`
	SceneTOML string          `json:"scene_toml,omitempty"`
}

func (in sceneInput) parse() (*scene.Scene, error) {
	switch {
	case len(in.Scene) > 0 && in.SceneTOML != "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "set either scene or scene_toml, not both")
	case len(in.Scene) > 0:
		return scene.Parse(in.Scene, scene.FormatJSON)
	case in.SceneTOML != "":
		return scene.Parse([]byte(in.SceneTOML), scene.FormatTOML)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "scene is required")
	}
}

type solveRequest struct {
	sceneInput
	pipeline.Options
}

type createSessionRequest struct {
	sceneInput
	Window *scene.Window `json:"window,omitempty"`
}

type scrollRequest struct {
	Node  string  `json:"node"`
	Delta float64 `json:"delta"`
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return err
		}
		return errors.New(errors.ErrCodeInvalidInput, "invalid request body: %v", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sc, err := req.parse()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.run(r.Context(), sc, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, solveResponse{
		SceneHash: res.SceneHash,
		Frame:     res.Frame,
		Artifacts: encodeArtifacts(res.Artifacts),
		Cached:    res.CacheInfo.SolveHit,
	})
}

// run solves sc, rendering only when formats were requested.
func (s *Server) run(ctx context.Context, sc *scene.Scene, opts pipeline.Options) (*pipeline.Result, error) {
	if len(opts.Formats) > 0 {
		return s.runner.Execute(ctx, sc, opts)
	}
	f, hit, err := s.runner.SolveWithCacheInfo(ctx, sc, opts)
	if err != nil {
		return nil, err
	}
	res := &pipeline.Result{SceneHash: f.SceneHash, Frame: f}
	res.CacheInfo.SolveHit = hit
	return res, nil
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sc, err := req.parse()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	window := scene.Window{Width: pipeline.DefaultWidth, Height: pipeline.DefaultHeight}
	switch {
	case req.Window != nil:
		window = *req.Window
	case sc.Window != nil:
		window = *sc.Window
	}
	sess, err := session.New(sc, window, s.ttl)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondSession(w, r, sess, http.StatusCreated)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	defer s.locks.lock(chi.URLParam(r, "id"))()
	sess, err := s.loadSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondSession(w, r, sess, http.StatusOK)
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	var req scrollRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	// Load, update and store under the session's lock so that concurrent
	// requests for one session do not overwrite each other.
	defer s.locks.lock(chi.URLParam(r, "id"))()
	sess, err := s.loadSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Scroll(req.Node, req.Delta); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondSession(w, r, sess, http.StatusOK)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	defer s.locks.lock(chi.URLParam(r, "id"))()
	sess, err := s.loadSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Resize(req.Width, req.Height); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondSession(w, r, sess, http.StatusOK)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSessionID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadSession(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSessionID(id); err != nil {
		return nil, err
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, errors.ErrCodeSessionExpired) {
			_ = s.sessions.Delete(r.Context(), id)
		}
		return nil, err
	}
	return sess, nil
}

// respondSession extends the session, stores it and answers with its
// solved frame, or with one rendered artifact when ?format= is set.
func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, sess *session.Session, status int) {
	opts := pipeline.Options{
		Width:  sess.Window.Width,
		Height: sess.Window.Height,
		Scroll: sess.Offsets,
	}
	format := r.URL.Query().Get("format")
	if format != "" {
		if err := pipeline.ValidateFormat(format); err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Formats = []string{format}
		opts.Labels = true
		opts.Diagnostics = true
	}

	res, err := s.run(r.Context(), sess.Scene, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess.Touch(s.ttl)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}

	if format != "" {
		writeArtifact(w, format, res.Artifacts[format])
		return
	}
	writeJSON(w, status, newSessionResponse(sess, res.Frame))
}
