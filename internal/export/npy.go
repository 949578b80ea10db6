package export

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/kshedden/gonpy"
	log "github.com/sirupsen/logrus"

	"github.com/phylokit/mlstphylo/internal/distance"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// WriteDistanceNpy writes the distance matrix as a row-major int32
// numpy array for scipy/scikit-bio consumers. Sample order matches
// the TSV output.
func WriteDistanceNpy(path string, d *distance.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	npw, err := gonpy.NewWriter(nopCloser{bw})
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	n := len(d.Samples)
	out := make([]int32, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out = append(out, int32(d.Dist[i][j]))
		}
	}

	log.WithFields(log.Fields{
		"filename": path,
		"samples":  n,
	}).Debug("writing numpy distance matrix")

	npw.Shape = []int{n, n}
	if err := npw.WriteInt32(out); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
