package server

import (
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/crystal/pkg/errors"
	"github.com/matzehuels/crystal/pkg/observability"
	"github.com/matzehuels/crystal/pkg/pipeline"
	"github.com/matzehuels/crystal/pkg/scene"
	"github.com/matzehuels/crystal/pkg/session"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// solveResponse is returned by /v1/solve.
type solveResponse struct {
	SceneHash string            `json:"scene_hash"`
	Frame     *scene.Frame      `json:"frame"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
	Cached    bool              `json:"cached"`
}

// sessionResponse is returned by every session route that solves.
type sessionResponse struct {
	ID        string             `json:"id"`
	Window    scene.Window       `json:"window"`
	Scroll    map[string]float64 `json:"scroll,omitempty"`
	ExpiresAt time.Time          `json:"expires_at"`
	Frame     *scene.Frame       `json:"frame"`
}

func newSessionResponse(sess *session.Session, f *scene.Frame) sessionResponse {
	return sessionResponse{
		ID:        sess.ID,
		Window:    sess.Window,
		Scroll:    sess.Offsets,
		ExpiresAt: sess.ExpiresAt,
		Frame:     f,
	}
}

// encodeArtifacts returns text formats as-is and binary formats base64
// encoded.
func encodeArtifacts(artifacts map[string][]byte) map[string]string {
	if len(artifacts) == 0 {
		return nil
	}
	out := make(map[string]string, len(artifacts))
	for format, data := range artifacts {
		if isBinary(format) {
			out[format] = base64.StdEncoding.EncodeToString(data)
		} else {
			out[format] = string(data)
		}
	}
	return out
}

func isBinary(format string) bool {
	return format == pipeline.FormatPNG || format == pipeline.FormatPDF
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatTXT:  "text/plain; charset=utf-8",
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidScene, errors.ErrCodeInvalidSizing,
		errors.ErrCodeInvalidPadding, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidWindow,
		errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSessionExpired:
		return http.StatusGone
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
		if status == http.StatusRequestEntityTooLarge {
			code = string(errors.ErrCodeInvalidInput)
		}
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "route", routePattern(r), "error", err)
		msg = "internal error"
	}
	observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
