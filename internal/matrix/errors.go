package matrix

import "fmt"

// DuplicateLocusError reports a typing source that lists the same locus
// twice.
type DuplicateLocusError struct {
	Source string
	Locus  string
}

func (e *DuplicateLocusError) Error() string {
	return fmt.Sprintf("source %q lists locus %q more than once", e.Source, e.Locus)
}

// InsufficientInputError reports fewer than two input sources. A
// distance matrix over fewer than two samples is meaningless, so this
// is treated as a usage error.
type InsufficientInputError struct {
	Count int
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("need at least 2 input sources, got %d", e.Count)
}

// EmptyMatrixError reports that presence filtering left too little of
// the matrix for distance computation: fewer than two samples, or no
// loci at all.
type EmptyMatrixError struct {
	Samples int
	Loci    int
}

func (e *EmptyMatrixError) Error() string {
	return fmt.Sprintf("filtering left %d samples and %d loci; need at least 2 samples and 1 locus", e.Samples, e.Loci)
}
