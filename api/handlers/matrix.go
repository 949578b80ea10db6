package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/phylokit/mlstphylo/pkg/mlstphylo"
)

// AssembleRequest represents a matrix assembly request.
type AssembleRequest struct {
	Sources []SourceJSON `json:"sources"`
}

// AssembleResponse represents the assembled allele matrix.
type AssembleResponse struct {
	RunID  string     `json:"run_id"`
	Matrix MatrixJSON `json:"matrix"`
}

// AssembleHandler merges per-sample typing sources into one allele
// matrix.
func AssembleHandler(w http.ResponseWriter, r *http.Request) {
	var req AssembleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	m, err := mlstphylo.Assemble(sourcesFromJSON(req.Sources))
	if err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AssembleResponse{
		RunID:  uuid.New().String(),
		Matrix: matrixToJSON(m),
	})
}

// FilterRequest represents a presence-filter request.
type FilterRequest struct {
	Matrix         MatrixJSON `json:"matrix"`
	MinPercLoci    float64    `json:"min_perc_loci"`
	MinPercSamples float64    `json:"min_perc_samples"`
}

// FilterResponse represents the filtered allele matrix.
type FilterResponse struct {
	RunID   string     `json:"run_id"`
	Matrix  MatrixJSON `json:"matrix"`
	Samples int        `json:"samples"`
	Loci    int        `json:"loci"`
}

// FilterHandler removes low-presence loci and samples from a matrix.
func FilterHandler(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	m, err := matrixFromJSON(req.Matrix)
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

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(FilterResponse{
		RunID:   uuid.New().String(),
		Matrix:  matrixToJSON(filtered),
		Samples: filtered.NumSamples(),
		Loci:    filtered.NumLoci(),
	})
}
