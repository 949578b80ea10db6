// Package distance computes pairwise allelic distances between the
// samples of a filtered allele matrix.
package distance

import (
	"github.com/phylokit/mlstphylo/internal/matrix"
)

// Matrix holds the pairwise distances between samples. Dist[i][j] is
// the number of loci at which samples i and j carry different Present
// alleles, counted only over loci where both are Present. Comparable
// records that locus count per pair, so a zero distance backed by zero
// comparable loci can be told apart from true identity. Both tables
// are symmetric with a zero/self diagonal.
type Matrix struct {
	Samples    []string
	Dist       [][]int
	Comparable [][]int
}

// Compute derives the distance matrix from a filtered allele matrix.
// A locus contributes to a pair only when both cells are Present;
// Missing and Ambiguous cells are skipped entirely, shrinking that
// pair's comparable count rather than counting as mismatches. Pairs
// with no comparable locus get distance 0 by convention.
func Compute(m *matrix.Matrix) *Matrix {
	n := m.NumSamples()
	d := &Matrix{
		Samples:    append([]string(nil), m.Samples...),
		Dist:       make([][]int, n),
		Comparable: make([][]int, n),
	}

	for i := range d.Dist {
		d.Dist[i] = make([]int, n)
		d.Comparable[i] = make([]int, n)
	}

	for i := 0; i < n; i++ {
		rowI := m.Row(d.Samples[i])
		for _, c := range rowI {
			if c.IsPresent() {
				d.Comparable[i][i]++
			}
		}
		for j := i + 1; j < n; j++ {
			rowJ := m.Row(d.Samples[j])
			dist, comparable := 0, 0
			for k := range rowI {
				if !rowI[k].IsPresent() || !rowJ[k].IsPresent() {
					continue
				}
				comparable++
				if !rowI[k].Equal(rowJ[k]) {
					dist++
				}
			}
			d.Dist[i][j], d.Dist[j][i] = dist, dist
			d.Comparable[i][j], d.Comparable[j][i] = comparable, comparable
		}
	}

	return d
}

// At returns the distance between samples i and j by index.
func (d *Matrix) At(i, j int) int {
	return d.Dist[i][j]
}

// AllZero reports whether every off-diagonal distance is zero. An
// all-zero matrix is suspect; callers should check Comparable before
// reading anything into the zeros.
func (d *Matrix) AllZero() bool {
	for i := range d.Dist {
		for j := range d.Dist[i] {
			if d.Dist[i][j] != 0 {
				return false
			}
		}
	}
	return true
}
