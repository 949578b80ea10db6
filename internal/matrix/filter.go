package matrix

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Thresholds holds the two presence thresholds, each a percentage in
// [0,100]. The zero value retains everything.
type Thresholds struct {
	// MinPercLoci is the minimum percentage of retained loci that must
	// be Present in a sample for the sample to be kept.
	MinPercLoci float64
	// MinPercSamples is the minimum percentage of samples in which a
	// locus must be Present for the locus to be kept.
	MinPercSamples float64
}

func (t Thresholds) validate() error {
	if t.MinPercLoci < 0 || t.MinPercLoci > 100 {
		return fmt.Errorf("min-perc-loci must be in [0,100], got %v", t.MinPercLoci)
	}
	if t.MinPercSamples < 0 || t.MinPercSamples > 100 {
		return fmt.Errorf("min-perc-samples must be in [0,100], got %v", t.MinPercSamples)
	}
	return nil
}

// Filter derives a new matrix with low-presence loci and samples
// removed. Loci are filtered first: a locus is kept when it is Present
// in at least MinPercSamples percent of all samples. Samples are then
// filtered against the surviving loci: a sample is kept when at least
// MinPercLoci percent of the remaining loci are Present in it. Both
// comparisons are inclusive. The pass is run once, not iterated to a
// fixed point.
//
// Filter fails with EmptyMatrixError when the result has fewer than
// two samples or no loci.
func Filter(m *Matrix, t Thresholds) (*Matrix, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	loci := make([]string, 0, len(m.Loci))
	for _, locus := range m.Loci {
		present := 0
		for _, sample := range m.Samples {
			if m.Call(sample, locus).IsPresent() {
				present++
			}
		}
		frac := float64(present) / float64(len(m.Samples)) * 100
		if frac >= t.MinPercSamples {
			loci = append(loci, locus)
		}
	}
	log.WithFields(log.Fields{
		"kept":    len(loci),
		"dropped": len(m.Loci) - len(loci),
	}).Infof("loci present in >= %v%% of samples kept", t.MinPercSamples)

	samples := make([]string, 0, len(m.Samples))
	for _, sample := range m.Samples {
		// With every locus filtered away a sample has nothing Present,
		// so its fraction is 0 rather than 0/0.
		frac := 0.0
		if len(loci) > 0 {
			present := 0
			for _, locus := range loci {
				if m.Call(sample, locus).IsPresent() {
					present++
				}
			}
			frac = float64(present) / float64(len(loci)) * 100
		}
		if frac >= t.MinPercLoci {
			samples = append(samples, sample)
		}
	}
	log.WithFields(log.Fields{
		"kept":    len(samples),
		"dropped": len(m.Samples) - len(samples),
	}).Infof("samples with >= %v%% of loci present kept", t.MinPercLoci)

	if len(samples) < 2 || len(loci) == 0 {
		return nil, &EmptyMatrixError{Samples: len(samples), Loci: len(loci)}
	}

	return m.subset(samples, loci), nil
}
