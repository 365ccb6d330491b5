package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/OpenLiberty/open-liberty-sub391/pkg/buildinfo"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/errors"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/fragment"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/pipeline"
)

type healthResponse struct {
	Status        string         `json:"status"`
	Build         buildinfo.Info `json:"build"`
	UptimeSeconds int64          `json:"uptime_seconds"`
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code     errors.Code             `json:"code"`
	Message  string                  `json:"message"`
	Cycle    []string                `json:"cycle,omitempty"`
	Conflict *fragment.ConflictError `json:"conflict,omitempty"`
}

var graphContentTypes = map[string]string{
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Build:         buildinfo.Get(),
		UptimeSeconds: int64(time.Since(s.start).Seconds()),
	})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	res, ok := s.order(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("graph")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))

	res, ok := s.order(w, r)
	if !ok {
		return
	}
	data, hit, err := s.runner.RenderGraph(r.Context(), res, format, detailed)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", graphContentTypes[format])
	w.Header().Set("X-Cache", cacheHeader(hit))
	w.Write(data)
}

// order runs the pipeline on the request body. On failure it writes the
// error response and returns false.
func (s *Server) order(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Code: errors.ErrCodeInvalidInput, Message: "manifest exceeds size limit"})
			return nil, false
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return nil, false
	}
	if len(body) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "empty request body"))
		return nil, false
	}

	q := r.URL.Query()
	refresh, _ := strconv.ParseBool(q.Get("refresh"))
	res, err := s.runner.Order(r.Context(), pipeline.Options{
		Manifest:       body,
		ManifestFormat: q.Get("format"),
		Compat:         q.Get("compat"),
		Refresh:        refresh,
		Logger:         s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	w.Header().Set("X-Cache", cacheHeader(res.CacheHit))
	return res, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, newErrorResponse(err))
}

func newErrorResponse(err error) errorResponse {
	resp := errorResponse{Code: errors.GetCode(err), Message: message(err)}
	if resp.Code == "" {
		resp.Code = errors.ErrCodeInternal
	}
	var ce *fragment.CycleError
	if stderrors.As(err, &ce) {
		resp.Cycle = ce.Path
	}
	stderrors.As(err, &resp.Conflict)
	return resp
}

// message is the error text without the code prefix.
func message(err error) string {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func statusFor(err error) int {
	if errors.IsOrdering(err) {
		return http.StatusUnprocessableEntity
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidManifest, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
