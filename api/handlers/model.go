// Package handlers implements the JSON request handlers of the
// mlstphylo REST API.
package handlers

import (
	"github.com/phylokit/mlstphylo/pkg/mlstphylo"
)

// SourceJSON is one typing source in a request body.
type SourceJSON struct {
	Name    string       `json:"name"`
	Records []RecordJSON `json:"records"`
}

// RecordJSON is one (locus, raw allele token) pair.
type RecordJSON struct {
	Locus  string `json:"locus"`
	Allele string `json:"allele"`
}

// MatrixJSON is the wire form of an allele matrix: loci as columns,
// one row of allele tokens per sample.
type MatrixJSON struct {
	Loci    []string  `json:"loci"`
	Samples []RowJSON `json:"samples"`
}

// RowJSON is one sample row, calls in column order.
type RowJSON struct {
	Name  string   `json:"name"`
	Calls []string `json:"calls"`
}

// DistanceJSON is the wire form of a distance matrix.
type DistanceJSON struct {
	Samples    []string `json:"samples"`
	Distances  [][]int  `json:"distances"`
	Comparable [][]int  `json:"comparable"`
	AllZero    bool     `json:"all_zero"`
}

func sourcesFromJSON(in []SourceJSON) []mlstphylo.Source {
	sources := make([]mlstphylo.Source, len(in))
	for i, src := range in {
		records := make([]mlstphylo.Record, len(src.Records))
		for j, rec := range src.Records {
			records[j] = mlstphylo.Record{
				Locus: rec.Locus,
				Call:  mlstphylo.ParseCall(rec.Allele),
			}
		}
		sources[i] = mlstphylo.Source{Name: src.Name, Records: records}
	}
	return sources
}

func matrixToJSON(m *mlstphylo.Matrix) MatrixJSON {
	out := MatrixJSON{
		Loci:    m.Loci,
		Samples: make([]RowJSON, 0, m.NumSamples()),
	}
	for _, sample := range m.Samples {
		row := RowJSON{Name: sample, Calls: make([]string, 0, m.NumLoci())}
		for _, call := range m.Row(sample) {
			row.Calls = append(row.Calls, call.Token())
		}
		out.Samples = append(out.Samples, row)
	}
	return out
}

func matrixFromJSON(in MatrixJSON) (*mlstphylo.Matrix, error) {
	samples := make([]string, len(in.Samples))
	rows := make([][]mlstphylo.Call, len(in.Samples))
	for i, row := range in.Samples {
		samples[i] = row.Name
		calls := make([]mlstphylo.Call, len(row.Calls))
		for j, token := range row.Calls {
			calls[j] = mlstphylo.ParseCall(token)
		}
		rows[i] = calls
	}
	return mlstphylo.NewMatrix(samples, in.Loci, rows)
}

func distanceToJSON(d *mlstphylo.DistanceMatrix) DistanceJSON {
	return DistanceJSON{
		Samples:    d.Samples,
		Distances:  d.Dist,
		Comparable: d.Comparable,
		AllZero:    d.AllZero(),
	}
}
