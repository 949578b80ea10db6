// Package mlstphylo provides a high-level API for turning per-sample
// molecular typing reports into the two artifacts a tree builder
// needs: a filtered allele matrix and a pairwise distance matrix.
//
// Example usage:
//
//	sources, err := mlstphylo.ReadTypingReports(paths)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m, err := mlstphylo.Assemble(sources)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	filtered, err := mlstphylo.Filter(m, mlstphylo.Thresholds{MinPercLoci: 90, MinPercSamples: 90})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dists := mlstphylo.ComputeDistances(filtered)
package mlstphylo

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/phylokit/mlstphylo/internal/allele"
	"github.com/phylokit/mlstphylo/internal/distance"
	"github.com/phylokit/mlstphylo/internal/export"
	"github.com/phylokit/mlstphylo/internal/matrix"
	"github.com/phylokit/mlstphylo/internal/typing"
)

// Re-export types for convenience
type (
	Call           = allele.Call
	Record         = matrix.Record
	Source         = matrix.Source
	Matrix         = matrix.Matrix
	Thresholds     = matrix.Thresholds
	DistanceMatrix = distance.Matrix

	DuplicateLocusError    = matrix.DuplicateLocusError
	InsufficientInputError = matrix.InsufficientInputError
	EmptyMatrixError       = matrix.EmptyMatrixError
)

// ParseCall decodes a raw allele token ("-", "?", or an allele id).
func ParseCall(token string) Call {
	return allele.ParseToken(token)
}

// Assemble merges per-sample sources into one allele matrix.
func Assemble(sources []Source) (*Matrix, error) {
	return matrix.Assemble(sources)
}

// NewMatrix builds an allele matrix directly from row data, with
// rows[i][j] holding the call for samples[i] at loci[j].
func NewMatrix(samples, loci []string, rows [][]Call) (*Matrix, error) {
	return matrix.FromRows(samples, loci, rows)
}

// Filter removes low-presence loci and samples from the matrix.
func Filter(m *Matrix, t Thresholds) (*Matrix, error) {
	return matrix.Filter(m, t)
}

// ComputeDistances derives the pairwise distance matrix.
func ComputeDistances(m *Matrix) *DistanceMatrix {
	return distance.Compute(m)
}

// ParseTypingReport parses one typing report from a reader.
func ParseTypingReport(r io.Reader, name string) (Source, error) {
	return typing.ParseReport(r, name)
}

// ReadTypingReports reads the ordered typing report files.
func ReadTypingReports(paths []string) ([]Source, error) {
	return typing.ReadReports(paths)
}

// ReadAlleleMatrix reads a previously written allele matrix file.
func ReadAlleleMatrix(path string) (*Matrix, error) {
	return export.ReadAlleleMatrixFile(path)
}

// WriteAlleleMatrix writes the allele matrix to a TSV file.
func WriteAlleleMatrix(path string, m *Matrix) error {
	return export.WriteAlleleMatrixFile(path, m)
}

// WriteDistanceMatrix writes the distance matrix to a TSV file.
func WriteDistanceMatrix(path string, d *DistanceMatrix) error {
	return export.WriteDistanceMatrixFile(path, d)
}

// WriteDistanceNpy writes the distance matrix as a numpy array.
func WriteDistanceNpy(path string, d *DistanceMatrix) error {
	return export.WriteDistanceNpy(path, d)
}

// Config drives a full pipeline run.
type Config struct {
	// Inputs are the typing report files, one per sample.
	Inputs []string
	// OutputMatrix is the filtered allele matrix TSV path.
	OutputMatrix string
	// OutputDists is the distance matrix TSV path.
	OutputDists string
	// OutputDistsNpy, when set, additionally writes the distance
	// matrix as a numpy array.
	OutputDistsNpy string
	// MinPercLoci and MinPercSamples are the presence thresholds,
	// percentages in [0,100]. Zero retains everything.
	MinPercLoci    float64
	MinPercSamples float64
}

// Run executes the whole pipeline: parse, assemble, filter, write the
// filtered matrix, compute distances, write the distance matrix. Any
// error aborts before the failing stage's outputs are written.
func Run(cfg Config) error {
	sources, err := typing.ReadReports(cfg.Inputs)
	if err != nil {
		return err
	}

	m, err := matrix.Assemble(sources)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"samples": m.NumSamples(),
		"loci":    m.NumLoci(),
	}).Info("assembled allele matrix")

	filtered, err := matrix.Filter(m, matrix.Thresholds{
		MinPercLoci:    cfg.MinPercLoci,
		MinPercSamples: cfg.MinPercSamples,
	})
	if err != nil {
		return err
	}

	if err := export.WriteAlleleMatrixFile(cfg.OutputMatrix, filtered); err != nil {
		return err
	}
	log.Infof("allele matrix exported to: %s", cfg.OutputMatrix)

	dists := distance.Compute(filtered)
	if dists.AllZero() {
		log.Warn("all pairwise distances are zero; check comparable loci before calling samples identical")
	}

	if err := export.WriteDistanceMatrixFile(cfg.OutputDists, dists); err != nil {
		return err
	}
	log.Infof("distance matrix exported to: %s", cfg.OutputDists)

	if cfg.OutputDistsNpy != "" {
		if err := export.WriteDistanceNpy(cfg.OutputDistsNpy, dists); err != nil {
			return err
		}
	}

	log.Infof("you can construct a phylogeny using: grapetree --profile %s --method MSTreeV2", cfg.OutputMatrix)
	return nil
}

// Version returns the mlstphylo version.
func Version() string {
	return "1.0.0"
}

// Info returns information about mlstphylo.
func Info() string {
	return fmt.Sprintf(`mlstphylo v%s - MLST Phylogeny Matrix Tool

Turns per-sample sequence typing reports into tree-builder inputs.

Features:
  - Allele matrix assembly from cgMLST/MLST typing reports
  - Perfect-hit calling (full-length, 100%% identity)
  - Presence filtering of low-coverage loci and samples
  - Pairwise allelic distance matrices with comparable-loci counts
  - TSV and numpy outputs, gzip-transparent I/O
`, Version())
}
