package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgbaldwinbrown/bgtools/pkg"
)

const input = `chr1	0	10	5
chr1	10	20	7
chr1	20	30	9
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.bedgraph")
	require.NoError(t, os.WriteFile(path, []byte(input), 0644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append(args, "-i", path))
	cmd.SetOut(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"roll circular mean", []string{"roll", "-w", "25", "-c"}, "chr1\t0\t10\t7\nchr1\t10\t20\t7\nchr1\t20\t30\t7\n"},
		{"roll linear median", []string{"roll", "-w", "25", "-f", "median"}, "chr1\t0\t10\t6\nchr1\t10\t20\t7\nchr1\t20\t30\t8\n"},
		{"roll reflect", []string{"roll", "-w", "25", "-f", "median", "--edge", "reflect"}, "chr1\t0\t10\t7\nchr1\t10\t20\t7\nchr1\t20\t30\t7\n"},
		{"roll window narrower than a bin", []string{"roll", "-w", "5", "-c"}, "chr1\t0\t10\t5\nchr1\t10\t20\t7\nchr1\t20\t30\t9\n"},
		{"roll_mean", []string{"roll_mean", "-w", "25"}, "chr1\t0\t10\t6\nchr1\t10\t20\t7\nchr1\t20\t30\t8\n"},
		{"robust_z", []string{"robust_z"}, "chr1\t0\t10\t-0.6745\nchr1\t10\t20\t0\nchr1\t20\t30\t0.6745\n"},
		{"cpm", []string{"cpm", "--per-chrom"}, "chr1\t0\t10\t238095.23809523808\nchr1\t10\t20\t333333.3333333333\nchr1\t20\t30\t428571.4285714285\n"},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			got, err := run(t, test.args...)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestCommandErrors(t *testing.T) {
	_, err := run(t, "roll", "-w", "25", "-f", "mode")
	assert.Error(t, err)

	_, err = run(t, "roll", "-w", "0")
	assert.ErrorIs(t, err, bgtools.ErrWindowTooSmall)

	_, err = run(t, "roll")
	assert.Error(t, err)

	_, err = run(t, "roll", "-w", "25", "-c", "--edge", "reflect")
	assert.Error(t, err)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"cpm", "-i", filepath.Join(t.TempDir(), "missing")})
	cmd.SetOut(&bytes.Buffer{})
	assert.ErrorIs(t, cmd.Execute(), bgtools.ErrReadFailure)
}
