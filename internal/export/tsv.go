// Package export serializes allele and distance matrices.
//
// Both matrices are written as tab-separated tables with an "ID"
// corner label, the layout expected by downstream tree tools such as
// GrapeTree. Files ending in .gz are compressed transparently.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"

	"github.com/phylokit/mlstphylo/internal/allele"
	"github.com/phylokit/mlstphylo/internal/distance"
	"github.com/phylokit/mlstphylo/internal/matrix"
)

// IndexLabel is the corner label of both output tables.
const IndexLabel = "ID"

// WriteAlleleMatrix writes the allele matrix as TSV: one header row of
// locus names and one row per sample with allele tokens.
func WriteAlleleMatrix(w io.Writer, m *matrix.Matrix) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(IndexLabel)
	for _, locus := range m.Loci {
		bw.WriteByte('\t')
		bw.WriteString(locus)
	}
	bw.WriteByte('\n')

	for _, sample := range m.Samples {
		bw.WriteString(sample)
		for _, call := range m.Row(sample) {
			bw.WriteByte('\t')
			bw.WriteString(call.Token())
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// WriteDistanceMatrix writes the square distance matrix as TSV with
// sample ids on both axes.
func WriteDistanceMatrix(w io.Writer, d *distance.Matrix) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(IndexLabel)
	for _, sample := range d.Samples {
		bw.WriteByte('\t')
		bw.WriteString(sample)
	}
	bw.WriteByte('\n')

	for i, sample := range d.Samples {
		bw.WriteString(sample)
		for j := range d.Samples {
			bw.WriteByte('\t')
			bw.WriteString(strconv.Itoa(d.Dist[i][j]))
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// ReadAlleleMatrix parses a TSV allele matrix written by
// WriteAlleleMatrix back into a Matrix.
func ReadAlleleMatrix(r io.Reader) (*matrix.Matrix, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading matrix: %w", err)
		}
		return nil, fmt.Errorf("empty matrix file")
	}

	header := strings.Split(scanner.Text(), "\t")
	if header[0] != IndexLabel {
		return nil, fmt.Errorf("expected %q header label, got %q", IndexLabel, header[0])
	}
	loci := header[1:]

	var samples []string
	var rows [][]allele.Call
	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != len(loci)+1 {
			return nil, fmt.Errorf("line %d: expected %d columns, got %d", lineNum, len(loci)+1, len(fields))
		}

		row := make([]allele.Call, len(loci))
		for i, token := range fields[1:] {
			row[i] = allele.ParseToken(token)
		}
		samples = append(samples, fields[0])
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading matrix: %w", err)
	}

	return matrix.FromRows(samples, loci, rows)
}

// WriteAlleleMatrixFile writes the allele matrix to a file.
func WriteAlleleMatrixFile(path string, m *matrix.Matrix) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteAlleleMatrix(w, m)
	})
}

// WriteDistanceMatrixFile writes the distance matrix to a file.
func WriteDistanceMatrixFile(path string, d *distance.Matrix) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteDistanceMatrix(w, d)
	})
}

// ReadAlleleMatrixFile reads an allele matrix file, decompressing .gz
// transparently.
func ReadAlleleMatrixFile(path string) (*matrix.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening matrix: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := pgzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	m, err := ReadAlleleMatrix(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".gz") {
		zw := pgzip.NewWriter(f)
		if err := write(zw); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	} else if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return f.Close()
}
