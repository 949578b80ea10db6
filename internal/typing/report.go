// Package typing parses per-sample molecular typing reports.
//
// A report is a tab-separated table with one row per locus and at
// least the columns "Locus", "Allele", "% Identity" and
// "HSP/Locus length". Missing alleles are written "-", multi-hit
// alleles "?". A called allele is only usable when the hit is perfect:
// 100% identity over the full locus length; imperfect hits degrade to
// Missing.
package typing

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"
	log "github.com/sirupsen/logrus"

	"github.com/phylokit/mlstphylo/internal/allele"
	"github.com/phylokit/mlstphylo/internal/matrix"
)

// Required report columns. Additional columns are ignored.
const (
	ColLocus    = "Locus"
	ColAllele   = "Allele"
	ColIdentity = "% Identity"
	ColLength   = "HSP/Locus length"
)

// ParseReport parses one typing report into a source named after the
// sample.
func ParseReport(r io.Reader, name string) (matrix.Source, error) {
	src := matrix.Source{Name: name}
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return src, fmt.Errorf("reading report: %w", err)
		}
		return src, fmt.Errorf("empty report")
	}

	cols, err := parseHeader(scanner.Text())
	if err != nil {
		return src, err
	}

	perfect := 0
	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		call, err := decodeRow(fields, cols)
		if err != nil {
			return src, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if call.IsPresent() {
			perfect++
		}

		src.Records = append(src.Records, matrix.Record{
			Locus: fields[cols.locus],
			Call:  call,
		})
	}
	if err := scanner.Err(); err != nil {
		return src, fmt.Errorf("reading report: %w", err)
	}

	log.WithFields(log.Fields{
		"sample":  name,
		"perfect": perfect,
		"loci":    len(src.Records),
	}).Debug("parsed typing report")

	return src, nil
}

// ReadReport reads a typing report file. Files ending in .gz are
// decompressed transparently. The sample is named after the file.
func ReadReport(path string) (matrix.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return matrix.Source{}, fmt.Errorf("opening report: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	name := filepath.Base(path)
	if strings.HasSuffix(path, ".gz") {
		zr, err := pgzip.NewReader(f)
		if err != nil {
			return matrix.Source{}, fmt.Errorf("%s: %w", path, err)
		}
		defer zr.Close()
		r = zr
		name = strings.TrimSuffix(name, ".gz")
	}

	src, err := ParseReport(r, name)
	if err != nil {
		return matrix.Source{}, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// ReadReports reads the ordered list of report files into sources.
func ReadReports(paths []string) ([]matrix.Source, error) {
	sources := make([]matrix.Source, 0, len(paths))
	for _, path := range paths {
		log.Debugf("parsing file: %s", path)
		src, err := ReadReport(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

type columns struct {
	locus    int
	alleleID int
	identity int
	length   int
	max      int
}

func parseHeader(line string) (columns, error) {
	cols := columns{locus: -1, alleleID: -1, identity: -1, length: -1}
	for i, name := range strings.Split(line, "\t") {
		switch strings.TrimSpace(name) {
		case ColLocus:
			cols.locus = i
		case ColAllele:
			cols.alleleID = i
		case ColIdentity:
			cols.identity = i
		case ColLength:
			cols.length = i
		}
	}

	for _, col := range []struct {
		name  string
		index int
	}{
		{ColLocus, cols.locus},
		{ColAllele, cols.alleleID},
		{ColIdentity, cols.identity},
		{ColLength, cols.length},
	} {
		if col.index < 0 {
			return cols, fmt.Errorf("missing column %q", col.name)
		}
		if col.index > cols.max {
			cols.max = col.index
		}
	}
	return cols, nil
}

// decodeRow turns one report row into a call. Explicit "-" and "?"
// tokens keep their meaning; any other allele is Present only when the
// hit is perfect, otherwise it degrades to Missing.
func decodeRow(fields []string, cols columns) (allele.Call, error) {
	if len(fields) <= cols.max {
		return allele.Call{}, fmt.Errorf("expected at least %d columns, got %d", cols.max+1, len(fields))
	}

	token := fields[cols.alleleID]
	switch token {
	case allele.MissingToken:
		return allele.MissingCall(), nil
	case allele.AmbiguousToken:
		return allele.AmbiguousCall(), nil
	}

	perfect, err := isPerfect(fields[cols.identity], fields[cols.length])
	if err != nil {
		return allele.Call{}, err
	}
	if !perfect {
		return allele.MissingCall(), nil
	}
	return allele.PresentCall(token), nil
}

// isPerfect reports whether a hit covers the whole locus at 100%
// identity. An identity that does not parse as a number demotes the
// hit rather than failing the run.
func isPerfect(identity, length string) (bool, error) {
	hsp, locus, ok := strings.Cut(length, "/")
	if !ok {
		return false, fmt.Errorf("malformed %s %q", ColLength, length)
	}

	id, err := strconv.ParseFloat(strings.TrimSpace(identity), 64)
	if err != nil {
		return false, nil
	}

	return id == 100.0 && hsp == locus, nil
}
