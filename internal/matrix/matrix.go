// Package matrix assembles per-sample allele calls into a rectangular
// sample-by-locus matrix and filters it by presence thresholds.
package matrix

import (
	"fmt"

	"github.com/phylokit/mlstphylo/internal/allele"
)

// Record is one (locus, call) pair from a typing source.
type Record struct {
	Locus string
	Call  allele.Call
}

// Source is the ordered sequence of records parsed from one input,
// named after the sample it types.
type Source struct {
	Name    string
	Records []Record
}

// Matrix is a rectangular allele-call table: rows are samples, columns
// are loci. Every sample has exactly one cell per locus; cells never
// seen in a sample's source are Missing. A Matrix is never mutated
// after construction; Filter derives a new one.
type Matrix struct {
	Samples []string
	Loci    []string

	calls map[string]map[string]allele.Call
}

// Call returns the call for the given sample at the given locus. Cells
// absent from the sample's source are Missing.
func (m *Matrix) Call(sample, locus string) allele.Call {
	return m.calls[sample][locus]
}

// Row returns the sample's calls in column order.
func (m *Matrix) Row(sample string) []allele.Call {
	row := make([]allele.Call, len(m.Loci))
	for i, locus := range m.Loci {
		row[i] = m.calls[sample][locus]
	}
	return row
}

// NumSamples returns the number of sample rows.
func (m *Matrix) NumSamples() int {
	return len(m.Samples)
}

// NumLoci returns the number of locus columns.
func (m *Matrix) NumLoci() int {
	return len(m.Loci)
}

// Assemble merges the ordered sources into one allele matrix. The
// column set is the union of all loci seen, in first-seen order across
// the source list; a locus absent from a source is Missing for that
// sample. Fewer than two sources fail with InsufficientInputError, a
// repeated locus within one source with DuplicateLocusError.
func Assemble(sources []Source) (*Matrix, error) {
	if len(sources) < 2 {
		return nil, &InsufficientInputError{Count: len(sources)}
	}

	m := &Matrix{
		Samples: make([]string, 0, len(sources)),
		calls:   make(map[string]map[string]allele.Call, len(sources)),
	}

	seen := make(map[string]bool)
	for _, src := range sources {
		if _, ok := m.calls[src.Name]; ok {
			return nil, fmt.Errorf("duplicate sample name %q", src.Name)
		}

		row := make(map[string]allele.Call, len(src.Records))
		for _, rec := range src.Records {
			if _, ok := row[rec.Locus]; ok {
				return nil, &DuplicateLocusError{Source: src.Name, Locus: rec.Locus}
			}
			row[rec.Locus] = rec.Call
			if !seen[rec.Locus] {
				seen[rec.Locus] = true
				m.Loci = append(m.Loci, rec.Locus)
			}
		}

		m.Samples = append(m.Samples, src.Name)
		m.calls[src.Name] = row
	}

	return m, nil
}

// FromRows builds a matrix directly from row data, with rows[i][j]
// holding the call for samples[i] at loci[j]. Used when a matrix
// arrives already assembled, e.g. from a saved allele matrix file.
func FromRows(samples, loci []string, rows [][]allele.Call) (*Matrix, error) {
	if len(rows) != len(samples) {
		return nil, fmt.Errorf("got %d rows for %d samples", len(rows), len(samples))
	}

	sources := make([]Source, len(samples))
	for i, sample := range samples {
		if len(rows[i]) != len(loci) {
			return nil, fmt.Errorf("sample %q: got %d calls for %d loci", sample, len(rows[i]), len(loci))
		}
		records := make([]Record, len(loci))
		for j, locus := range loci {
			records[j] = Record{Locus: locus, Call: rows[i][j]}
		}
		sources[i] = Source{Name: sample, Records: records}
	}

	return Assemble(sources)
}

// subset derives a new matrix restricted to the given samples and loci,
// copying the surviving cells.
func (m *Matrix) subset(samples, loci []string) *Matrix {
	out := &Matrix{
		Samples: samples,
		Loci:    loci,
		calls:   make(map[string]map[string]allele.Call, len(samples)),
	}
	for _, sample := range samples {
		row := make(map[string]allele.Call, len(loci))
		for _, locus := range loci {
			if c, ok := m.calls[sample][locus]; ok {
				row[locus] = c
			}
		}
		out.calls[sample] = row
	}
	return out
}
