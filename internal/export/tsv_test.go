package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kshedden/gonpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phylokit/mlstphylo/internal/allele"
	"github.com/phylokit/mlstphylo/internal/distance"
	"github.com/phylokit/mlstphylo/internal/matrix"
)

func testMatrix(t *testing.T) *matrix.Matrix {
	t.Helper()
	m, err := matrix.FromRows(
		[]string{"s1", "s2", "s3"},
		[]string{"locusA", "locusB"},
		[][]allele.Call{
			{allele.PresentCall("1"), allele.PresentCall("1")},
			{allele.PresentCall("1"), allele.PresentCall("2")},
			{allele.MissingCall(), allele.AmbiguousCall()},
		},
	)
	require.NoError(t, err)
	return m
}

func TestWriteAlleleMatrix(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAlleleMatrix(&buf, testMatrix(t)))

	want := "ID\tlocusA\tlocusB\n" +
		"s1\t1\t1\n" +
		"s2\t1\t2\n" +
		"s3\t-\t?\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteDistanceMatrix(t *testing.T) {
	d := distance.Compute(testMatrix(t))

	var buf bytes.Buffer
	require.NoError(t, WriteDistanceMatrix(&buf, d))

	want := "ID\ts1\ts2\ts3\n" +
		"s1\t0\t1\t0\n" +
		"s2\t1\t0\t0\n" +
		"s3\t0\t0\t0\n"
	assert.Equal(t, want, buf.String())
}

func TestReadAlleleMatrixRoundTrip(t *testing.T) {
	m := testMatrix(t)

	var buf bytes.Buffer
	require.NoError(t, WriteAlleleMatrix(&buf, m))

	back, err := ReadAlleleMatrix(&buf)
	require.NoError(t, err)

	assert.Equal(t, m.Samples, back.Samples)
	assert.Equal(t, m.Loci, back.Loci)
	for _, sample := range m.Samples {
		assert.Equal(t, m.Row(sample), back.Row(sample))
	}
}

func TestReadAlleleMatrixBadHeader(t *testing.T) {
	_, err := ReadAlleleMatrix(strings.NewReader("Sample\tlocusA\ns1\t1\n"))
	require.Error(t, err)
}

func TestReadAlleleMatrixRaggedRow(t *testing.T) {
	_, err := ReadAlleleMatrix(strings.NewReader("ID\tlocusA\tlocusB\ns1\t1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestWriteAlleleMatrixFileGzip(t *testing.T) {
	m := testMatrix(t)
	path := filepath.Join(t.TempDir(), "matrix.tsv.gz")

	require.NoError(t, WriteAlleleMatrixFile(path, m))

	back, err := ReadAlleleMatrixFile(path)
	require.NoError(t, err)
	assert.Equal(t, m.Samples, back.Samples)
	assert.Equal(t, m.Loci, back.Loci)
}

func TestWriteDistanceNpy(t *testing.T) {
	d := distance.Compute(testMatrix(t))
	path := filepath.Join(t.TempDir(), "dists.npy")

	require.NoError(t, WriteDistanceNpy(path, d))

	_, err := os.Stat(path)
	require.NoError(t, err)

	npr, err := gonpy.NewFileReader(path)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3}, npr.Shape)

	data, err := npr.GetInt32()
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 0, 1, 0, 0, 0, 0, 0}, data)
}
