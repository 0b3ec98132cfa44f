package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/tensorcubes/pkg/buildinfo"
	apperr "github.com/matzehuels/tensorcubes/pkg/errors"
	"github.com/matzehuels/tensorcubes/pkg/layout"
	"github.com/matzehuels/tensorcubes/pkg/pipeline"
	"github.com/matzehuels/tensorcubes/pkg/scene"
	"github.com/matzehuels/tensorcubes/pkg/tensor"
)

// CacheHeader reports HIT or MISS for layout responses.
const CacheHeader = "X-Cache"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge,
				apperr.New(apperr.ErrCodeTooLarge, "request body exceeds %d bytes", tooBig.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, badRequest("decode request: %v", err))
		return
	}
	if opts.MaxBoxes <= 0 || opts.MaxBoxes > s.maxBoxes {
		opts.MaxBoxes = s.maxBoxes
	}

	sc, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), opts)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("layout failed", "err", err, "request_id", RequestID(r.Context()))
		}
		writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if hit {
		w.Header().Set(CacheHeader, "HIT")
	} else {
		w.Header().Set(CacheHeader, "MISS")
	}
	if err := scene.Write(sc, w); err != nil {
		s.logger.Warn("write scene", "err", err)
	}
}

// shapeResponse describes a parsed shape under the default axes.
type shapeResponse struct {
	Shape       []int  `json:"shape"`
	Rank        int    `json:"rank"`
	Elements    int    `json:"elements"`
	SpatialDims [3]int `json:"spatial_dims"`
	OuterDims   []int  `json:"outer_dims"`
	Count       int    `json:"count"`
}

func (s *Server) handleShape(w http.ResponseWriter, r *http.Request) {
	shape := tensor.ParseShape(r.URL.Query().Get("text"))
	spatial := layout.DefaultSpatialDims(shape.Rank())
	outer := layout.OuterDims(shape.Rank(), spatial)
	writeJSON(w, http.StatusOK, shapeResponse{
		Shape:       shape,
		Rank:        shape.Rank(),
		Elements:    shape.NumElements(),
		SpatialDims: spatial,
		OuterDims:   outer,
		Count: layout.Count(layout.Config{
			Shape:          shape,
			Spatial:        spatial,
			Outer:          outer,
			MaxCellsPerDim: pipeline.DefaultMaxCells,
		}),
	})
}

type sampleResponse struct {
	Size    int   `json:"size"`
	Cap     int   `json:"cap"`
	Indices []int `json:"indices"`
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	size, err := intParam(q.Get("size"), -1)
	if err != nil || size < 0 {
		writeError(w, http.StatusBadRequest, badRequest("size must be a non-negative integer"))
		return
	}
	limit, err := intParam(q.Get("cap"), pipeline.DefaultMaxCells)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, badRequest("cap must be a non-negative integer"))
		return
	}
	if size > pipeline.DefaultMaxBoxes {
		writeError(w, http.StatusBadRequest, badRequest("size must be at most %d", pipeline.DefaultMaxBoxes))
		return
	}
	writeJSON(w, http.StatusOK, sampleResponse{Size: size, Cap: limit, Indices: layout.Sample(size, limit)})
}

// intParam parses v, returning def when v is empty.
func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
