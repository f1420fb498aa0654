package bgtools

import (
	"bytes"
	"math/rand"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTrack(t *testing.T) {
	tr, err := ReadTrack(strings.NewReader(twoChroms))
	require.NoError(t, err)
	require.NoError(t, CPM(tr, Genome))

	var b bytes.Buffer
	require.NoError(t, WriteTrack(&b, tr))

	want := `chr1	0	10	153846.15384615384
chr1	10	20	153846.15384615384
chr1	20	30	307692.3076923077
chr2	0	10	307692.3076923077
chr2	10	20	76923.07692307692
`
	assert.Equal(t, want, b.String())
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "250000", FormatScore(250000))
	assert.Equal(t, "-0.5", FormatScore(-0.5))
	assert.Equal(t, "0.1", FormatScore(0.1))
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	tr := NewTrack(25)
	for _, name := range []string{"chrA", "chrB", "plasmid"} {
		start := rng.Intn(4) * 25
		for i := 0; i < 40; i++ {
			score := rng.NormFloat64() * 1e3
			if i%7 == 0 {
				score = 1e-9 * score
			}
			require.NoError(t, tr.AppendBin(name, start, start+25, score))
			start += 25 * (1 + rng.Intn(2))
		}
	}

	var b bytes.Buffer
	require.NoError(t, WriteTrack(&b, tr))
	back, err := ReadTrack(&b)
	require.NoError(t, err)

	assert.Equal(t, tr.Resolution, back.Resolution)
	assert.Equal(t, tr.Names(), back.Names())
	for _, c := range tr.Chroms {
		bc, ok := back.Chrom(c.Name)
		require.True(t, ok)
		assert.Equal(t, c.Starts, bc.Starts)
		assert.Equal(t, c.Scores, bc.Scores)
	}
}

type failWriter struct {
	ok  int
	err error
}

func (w *failWriter) Write(p []byte) (int, error) {
	if w.ok <= 0 {
		return 0, w.err
	}
	w.ok--
	return len(p), nil
}

func TestWriteTrackFailure(t *testing.T) {
	tr := NewTrack(1)
	for i := 0; i < 100000; i++ {
		require.NoError(t, tr.AppendBin("chr1", i, i+1, float64(i)))
	}

	err := WriteTrack(&failWriter{ok: 1, err: syscall.EPIPE}, tr)
	assert.ErrorIs(t, err, ErrWriteFailure)
	assert.True(t, IsBrokenPipe(err))

	err = WriteTrack(&failWriter{err: syscall.ENOSPC}, tr)
	assert.ErrorIs(t, err, ErrWriteFailure)
	assert.False(t, IsBrokenPipe(err))
}
