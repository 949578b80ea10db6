package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/phylokit/mlstphylo/pkg/mlstphylo"
)

// DistanceRequest represents a distance computation request over an
// already-filtered allele matrix.
type DistanceRequest struct {
	Matrix MatrixJSON `json:"matrix"`
}

// DistanceResponse represents the pairwise distance matrix.
type DistanceResponse struct {
	RunID     string       `json:"run_id"`
	Distances DistanceJSON `json:"distances"`
}

// DistanceHandler computes pairwise allelic distances.
func DistanceHandler(w http.ResponseWriter, r *http.Request) {
	var req DistanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	m, err := matrixFromJSON(req.Matrix)
	if err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	d := mlstphylo.ComputeDistances(m)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DistanceResponse{
		RunID:     uuid.New().String(),
		Distances: distanceToJSON(d),
	})
}

// PipelineRequest represents a full pipeline request: assemble,
// filter, and compute distances in one call.
type PipelineRequest struct {
	Sources        []SourceJSON `json:"sources"`
	MinPercLoci    float64      `json:"min_perc_loci"`
	MinPercSamples float64      `json:"min_perc_samples"`
}

// PipelineResponse carries both pipeline artifacts.
type PipelineResponse struct {
	RunID     string       `json:"run_id"`
	Matrix    MatrixJSON   `json:"matrix"`
	Distances DistanceJSON `json:"distances"`
}

// PipelineHandler runs assembly, filtering and distance computation
// over raw typing sources.
func PipelineHandler(w http.ResponseWriter, r *http.Request) {
	var req PipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	m, err := mlstphylo.Assemble(sourcesFromJSON(req.Sources))
	if err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	filtered, err := mlstphylo.Filter(m, mlstphylo.Thresholds{
		MinPercLoci:    req.MinPercLoci,
		MinPercSamples: req.MinPercSamples,
	})
	if err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	d := mlstphylo.ComputeDistances(filtered)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PipelineResponse{
		RunID:     uuid.New().String(),
		Matrix:    matrixToJSON(filtered),
		Distances: distanceToJSON(d),
	})
}
