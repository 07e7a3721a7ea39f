package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pathlinker/pkg/buildinfo"
	"github.com/matzehuels/pathlinker/pkg/errors"
	"github.com/matzehuels/pathlinker/pkg/export"
	"github.com/matzehuels/pathlinker/pkg/graph"
	"github.com/matzehuels/pathlinker/pkg/network"
)

// runRequest is the body of POST /pathlinker/v1/run.
type runRequest struct {
	Network           *network.Network `json:"network"`
	Sources           []string         `json:"sources"`
	Targets           []string         `json:"targets"`
	K                 int              `json:"k"`
	Weight            string           `json:"weight"`
	TreatAsUndirected bool             `json:"treat_as_undirected"`
	EdgePenalty       float64          `json:"edge_penalty"`
	AllowTrivialPaths bool             `json:"allow_trivial_paths"`
	Timeout           string           `json:"timeout"`
	Refresh           bool             `json:"refresh"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var req runRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "malformed request: "+err.Error())
		return
	}

	if req.Network == nil {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "network is required"))
		return
	}
	if err := req.Network.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}

	opts := s.opts.Defaults
	opts.Sources = req.Sources
	opts.Targets = req.Targets
	opts.TreatAsUndirected = req.TreatAsUndirected
	opts.AllowTrivialPaths = req.AllowTrivialPaths
	opts.Refresh = req.Refresh
	if req.K != 0 {
		opts.K = req.K
	}
	if req.Weight != "" {
		opts.Weight = graph.Weighting(req.Weight)
	}
	if req.EdgePenalty != 0 {
		opts.EdgePenalty = req.EdgePenalty
	}
	if req.Timeout != "" {
		d, err := time.ParseDuration(req.Timeout)
		if err != nil {
			s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "timeout %q", req.Timeout))
			return
		}
		if d < 0 {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "timeout must not be negative, got %s", d))
			return
		}
		opts.Timeout = d
	}
	if s.opts.MaxTimeout > 0 && (opts.Timeout <= 0 || opts.Timeout > s.opts.MaxTimeout) {
		opts.Timeout = s.opts.MaxTimeout
	}

	res, err := s.runner.Execute(r.Context(), req.Network, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, export.NewDocument(res, req.Network))
}

// fail writes err with the status for its code.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}

	msg := errors.Detail(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("run failed", "err", err, "request_id", middleware.GetReqID(r.Context()))
		msg = "internal error"
	}
	writeError(w, status, code, msg)
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeNegativeWeight:
		return http.StatusUnprocessableEntity
	case errors.ErrCodePathNotFound, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code errors.Code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
