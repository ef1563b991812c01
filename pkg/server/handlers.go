package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/chanroute/pkg/buildinfo"
	"github.com/matzehuels/chanroute/pkg/cache"
	"github.com/matzehuels/chanroute/pkg/channel"
	errs "github.com/matzehuels/chanroute/pkg/errors"
	"github.com/matzehuels/chanroute/pkg/graph"
	"github.com/matzehuels/chanroute/pkg/pipeline"
	"github.com/matzehuels/chanroute/pkg/store"
)

// RouteResponse is the body of a successful POST /v1/route.
type RouteResponse struct {
	ID        string        `json:"id,omitempty"`
	GraphHash string        `json:"graph_hash"`
	Cached    bool          `json:"cached"`
	Stats     channel.Stats `json:"stats"`
	Graph     graph.Graph   `json:"graph"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

var contentTypes = map[string]string{
	pipeline.FormatText: "text/plain; charset=utf-8",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	routed, hit, err := s.runner.RouteWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := graph.MarshalGraph(routed.Graph)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := RouteResponse{
		GraphHash: cache.Hash(data),
		Cached:    hit,
		Stats:     routed.Stats,
		Graph:     routed.Graph,
	}

	if s.store != nil {
		// ValidateForRoute on a copy resolves a named example into pins.
		resolved := opts
		if err := resolved.ValidateForRoute(); err != nil {
			s.writeError(w, r, err)
			return
		}
		rec := store.NewRecord(resolved.Pins, resolved.RouterConfig(), routed.Graph, routed.Stats)
		if err := s.store.Save(r.Context(), rec); err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.ID = rec.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if _, ok := contentTypes[format]; !ok {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidFormat, "unknown output format %q", format))
		return
	}
	opts, err := s.decodeOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	if opts.VizType == "" && format != pipeline.FormatText && format != pipeline.FormatJSON {
		opts.VizType = graph.VizTypeNodelink
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Graph-Hash", res.GraphHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetRoute(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRoute(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if s.store == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeUnsupported, "no record store configured"))
		return false
	}
	return true
}

// decodeOptions reads pipeline options from the request body. Unknown
// fields are rejected so that typos do not silently fall back to defaults.
func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return opts, errs.New(errs.ErrCodeInvalidInput, "request body larger than %d bytes", tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return opts, errs.New(errs.ErrCodeInvalidInput, "empty request body")
		}
		return opts, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request")
	}
	if opts.MaxTries > s.cfg.MaxTries {
		return opts, errs.New(errs.ErrCodeInvalidConfig, "max_tries %d exceeds the server limit of %d",
			opts.MaxTries, s.cfg.MaxTries)
	}
	if opts.LengthFactor > s.cfg.MaxLengthFactor {
		return opts, errs.New(errs.ErrCodeInvalidConfig, "length_factor %g exceeds the server limit of %g",
			opts.LengthFactor, s.cfg.MaxLengthFactor)
	}
	opts.Logger = s.logger
	return opts, nil
}
