package bgtools

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPM(t *testing.T) {
	tr, err := ReadTrack(strings.NewReader("chr1\t0\t10\t1\nchr1\t10\t20\t1\nchr1\t20\t30\t2\n"))
	require.NoError(t, err)

	require.NoError(t, CPM(tr, Genome))
	assert.Equal(t, []float64{250000, 250000, 500000}, tr.Scores())
}

func TestCPMLargeScores(t *testing.T) {
	tr := NewTrack(10)
	require.NoError(t, tr.AppendBin("chr1", 0, 10, 1e303))
	require.NoError(t, tr.AppendBin("chr1", 10, 20, 1e303))
	require.NoError(t, tr.AppendBin("chr2", 0, 10, 2e303))

	require.NoError(t, CPM(tr, Genome))
	assert.Equal(t, []float64{250000, 250000, 500000}, tr.Scores())
	require.NoError(t, tr.Validate())

	require.NoError(t, CPM(tr, PerChrom))
	assert.Equal(t, []float64{500000, 500000, 1e6}, tr.Scores())

	var b bytes.Buffer
	require.NoError(t, WriteTrack(&b, tr))
	back, err := ReadTrack(&b)
	require.NoError(t, err)
	assert.Equal(t, tr.Scores(), back.Scores())
}

func TestCPMSumsToMillion(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tr := NewTrack(100)
	for _, name := range []string{"chr1", "chr2", "chrX"} {
		for i := 0; i < 50; i++ {
			require.NoError(t, tr.AppendBin(name, i*100, (i+1)*100, rng.Float64()*30))
		}
	}
	require.NoError(t, CPM(tr, Genome))
	assert.InDelta(t, 1e6, sum(tr.Scores()), 1e-6)

	require.NoError(t, CPM(tr, PerChrom))
	for _, c := range tr.Chroms {
		assert.InDelta(t, 1e6, sum(c.Scores), 1e-6, c.Name)
	}
}

func TestCPMZeroTotal(t *testing.T) {
	tr, err := ReadTrack(strings.NewReader("chr1\t0\t10\t1\nchr1\t10\t20\t-1\nchr2\t0\t10\t3\n"))
	require.NoError(t, err)

	err = CPM(tr, Genome)
	require.NoError(t, err)

	tr, err = ReadTrack(strings.NewReader("chr1\t0\t10\t1\nchr1\t10\t20\t-1\nchr2\t0\t10\t3\n"))
	require.NoError(t, err)
	err = CPM(tr, PerChrom)
	assert.ErrorIs(t, err, ErrZeroTotal)
	var ae *AggregateError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, 0.0, ae.Value)
	// no chromosome is touched when one of them cannot be scaled
	assert.Equal(t, []float64{1, -1, 3}, tr.Scores())

	err = CPM(NewTrack(10), Genome)
	assert.ErrorIs(t, err, ErrZeroTotal)
}
