package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phylokit/mlstphylo/internal/allele"
)

func TestFilterZeroThresholdsPassThrough(t *testing.T) {
	m, err := Assemble([]Source{
		source("s1", "locusA", "1", "locusB", "1"),
		source("s2", "locusA", "1", "locusB", "2"),
		source("s3", "locusA", "-", "locusB", "1"),
	})
	require.NoError(t, err)

	filtered, err := Filter(m, Thresholds{})
	require.NoError(t, err)

	assert.Equal(t, m.Samples, filtered.Samples)
	assert.Equal(t, m.Loci, filtered.Loci)
	for _, sample := range m.Samples {
		assert.Equal(t, m.Row(sample), filtered.Row(sample))
	}
}

func TestFilterDropsAbsentLocus(t *testing.T) {
	// locusB is Present in 0 of 3 samples; with min-perc-samples=50 it
	// is dropped and no longer counts toward any sample's denominator.
	m, err := Assemble([]Source{
		source("s1", "locusA", "1", "locusB", "-"),
		source("s2", "locusA", "1", "locusB", "-"),
		source("s3", "locusA", "2", "locusB", "-"),
	})
	require.NoError(t, err)

	filtered, err := Filter(m, Thresholds{MinPercLoci: 100, MinPercSamples: 50})
	require.NoError(t, err)

	assert.Equal(t, []string{"locusA"}, filtered.Loci)
	// Every sample has its single remaining locus Present, so all pass
	// min-perc-loci=100 even though locusB was Missing everywhere.
	assert.Equal(t, []string{"s1", "s2", "s3"}, filtered.Samples)
}

func TestFilterDropsEmptySample(t *testing.T) {
	// s3 has no Present call at all; min-perc-loci=1 drops it.
	m, err := Assemble([]Source{
		source("s1", "locusA", "1", "locusB", "1"),
		source("s2", "locusA", "1", "locusB", "2"),
		source("s3", "locusA", "-", "locusB", "?"),
	})
	require.NoError(t, err)

	filtered, err := Filter(m, Thresholds{MinPercLoci: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"s1", "s2"}, filtered.Samples)
	assert.Equal(t, []string{"locusA", "locusB"}, filtered.Loci)
}

func TestFilterThresholdIsInclusive(t *testing.T) {
	// locusB is Present in 2 of 4 samples = exactly 50%; it must be
	// kept at min-perc-samples=50.
	m, err := Assemble([]Source{
		source("s1", "locusA", "1", "locusB", "1"),
		source("s2", "locusA", "1", "locusB", "2"),
		source("s3", "locusA", "1", "locusB", "-"),
		source("s4", "locusA", "1", "locusB", "-"),
	})
	require.NoError(t, err)

	filtered, err := Filter(m, Thresholds{MinPercSamples: 50})
	require.NoError(t, err)
	assert.Contains(t, filtered.Loci, "locusB")

	// Just above 50% it is dropped.
	filtered, err = Filter(m, Thresholds{MinPercSamples: 50.1})
	require.NoError(t, err)
	assert.NotContains(t, filtered.Loci, "locusB")
}

func TestFilterAmbiguousIsNotPresent(t *testing.T) {
	// Ambiguous calls count as absent for presence fractions.
	m, err := Assemble([]Source{
		source("s1", "locusA", "1", "locusB", "?"),
		source("s2", "locusA", "1", "locusB", "?"),
	})
	require.NoError(t, err)

	filtered, err := Filter(m, Thresholds{MinPercSamples: 50})
	require.NoError(t, err)
	assert.Equal(t, []string{"locusA"}, filtered.Loci)
}

func TestFilterIdempotent(t *testing.T) {
	m, err := Assemble([]Source{
		source("s1", "locusA", "1", "locusB", "1", "locusC", "-"),
		source("s2", "locusA", "1", "locusB", "-", "locusC", "-"),
		source("s3", "locusA", "2", "locusB", "1", "locusC", "-"),
	})
	require.NoError(t, err)

	th := Thresholds{MinPercLoci: 50, MinPercSamples: 60}
	once, err := Filter(m, th)
	require.NoError(t, err)
	twice, err := Filter(once, th)
	require.NoError(t, err)

	assert.Equal(t, once.Samples, twice.Samples)
	assert.Equal(t, once.Loci, twice.Loci)
	for _, sample := range once.Samples {
		assert.Equal(t, once.Row(sample), twice.Row(sample))
	}
}

func TestFilterNeverAltersCalls(t *testing.T) {
	m, err := Assemble([]Source{
		source("s1", "locusA", "1", "locusB", "?"),
		source("s2", "locusA", "2", "locusB", "1"),
		source("s3", "locusA", "-", "locusB", "1"),
	})
	require.NoError(t, err)

	filtered, err := Filter(m, Thresholds{MinPercLoci: 10, MinPercSamples: 10})
	require.NoError(t, err)

	for _, sample := range filtered.Samples {
		for _, locus := range filtered.Loci {
			assert.Equal(t, m.Call(sample, locus), filtered.Call(sample, locus))
		}
	}
}

func TestFilterAllLociDroppedDropsSamples(t *testing.T) {
	// Every locus fails the presence threshold, so every sample's
	// fraction is 0 against an empty locus set and everything goes.
	m, err := Assemble([]Source{
		source("s1", "locusA", "-"),
		source("s2", "locusA", "-"),
	})
	require.NoError(t, err)

	_, err = Filter(m, Thresholds{MinPercLoci: 1, MinPercSamples: 1})
	var empty *EmptyMatrixError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, 0, empty.Samples)
	assert.Equal(t, 0, empty.Loci)
}

func TestFilterNoLociIsEmptyEvenWithoutSampleThreshold(t *testing.T) {
	m, err := Assemble([]Source{
		source("s1", "locusA", "-"),
		source("s2", "locusA", "-"),
	})
	require.NoError(t, err)

	// min-perc-loci=0 keeps both samples, but a matrix with no loci is
	// still unusable downstream.
	_, err = Filter(m, Thresholds{MinPercSamples: 1})
	var empty *EmptyMatrixError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, 2, empty.Samples)
	assert.Equal(t, 0, empty.Loci)
}

func TestFilterTooFewSamples(t *testing.T) {
	m, err := Assemble([]Source{
		source("s1", "locusA", "1", "locusB", "1"),
		source("s2", "locusA", "-", "locusB", "-"),
		source("s3", "locusA", "-", "locusB", "-"),
	})
	require.NoError(t, err)

	_, err = Filter(m, Thresholds{MinPercLoci: 50})
	var empty *EmptyMatrixError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, 1, empty.Samples)
}

func TestFilterThresholdRange(t *testing.T) {
	m, err := Assemble([]Source{
		source("s1", "locusA", "1"),
		source("s2", "locusA", "1"),
	})
	require.NoError(t, err)

	_, err = Filter(m, Thresholds{MinPercLoci: -1})
	require.Error(t, err)
	_, err = Filter(m, Thresholds{MinPercSamples: 101})
	require.Error(t, err)
}

func TestFilterLociBeforeSamples(t *testing.T) {
	// s3 would fail min-perc-loci against the full locus set (1 of 3
	// Present = 33%), but locusB and locusC are dropped first, leaving
	// s3 with 1 of 1 Present = 100%.
	m, err := Assemble([]Source{
		source("s1", "locusA", "1", "locusB", "1", "locusC", "1"),
		source("s2", "locusA", "1", "locusB", "-", "locusC", "-"),
		source("s3", "locusA", "2", "locusB", "-", "locusC", "-"),
	})
	require.NoError(t, err)

	filtered, err := Filter(m, Thresholds{MinPercLoci: 50, MinPercSamples: 60})
	require.NoError(t, err)

	assert.Equal(t, []string{"locusA"}, filtered.Loci)
	assert.Equal(t, []string{"s1", "s2", "s3"}, filtered.Samples)
}

func BenchmarkFilter(b *testing.B) {
	sources := make([]Source, 50)
	for i := range sources {
		src := Source{Name: string(rune('A' + i%26)) + string(rune('a'+i/26))}
		for j := 0; j < 1000; j++ {
			token := "1"
			if (i+j)%7 == 0 {
				token = "-"
			}
			src.Records = append(src.Records, Record{
				Locus: "locus" + string(rune('a'+j%26)) + string(rune('a'+(j/26)%26)) + string(rune('a'+j/676)),
				Call:  allele.ParseToken(token),
			})
		}
		sources[i] = src
	}
	m, err := Assemble(sources)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Filter(m, Thresholds{MinPercLoci: 50, MinPercSamples: 50})
	}
}
