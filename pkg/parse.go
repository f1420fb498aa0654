package bgtools

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/jgbaldwinbrown/fasttsv"
	"github.com/klauspost/compress/gzip"
)

// errReader remembers the first non-EOF error from r, so a failed read is
// not mistaken for the end of the input.
type errReader struct {
	r   io.Reader
	err error
}

func (r *errReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if err != nil && err != io.EOF && r.err == nil {
		r.err = err
	}
	return n, err
}

// BedScanner reads bedgraph lines one at a time.
type BedScanner struct {
	Scanner *fasttsv.Scanner
	Line    []string
	LineNum int
	in      *errReader
}

func NewBedScanner(r io.Reader) *BedScanner {
	in := &errReader{r: r}
	return &BedScanner{Scanner: fasttsv.NewScanner(in), in: in}
}

func skipLine(line []string) bool {
	if len(line) == 0 {
		return true
	}
	first := strings.TrimSpace(line[0])
	if len(line) == 1 && first == "" {
		return true
	}
	return strings.HasPrefix(first, "#") || first == "track" || first == "browser" ||
		strings.HasPrefix(first, "track ") || strings.HasPrefix(first, "browser ")
}

// Scan advances to the next data line, skipping blanks, comments and
// track/browser headers.
func (s *BedScanner) Scan() bool {
	for s.Scanner.Scan() {
		s.LineNum++
		line := s.Scanner.Line()
		if skipLine(line) {
			continue
		}
		if len(line) < 4 {
			line = strings.Fields(strings.Join(line, " "))
		}
		for i := range line {
			line[i] = strings.TrimSpace(line[i])
		}
		s.Line = line
		return true
	}
	return false
}

func (s *BedScanner) Err() error {
	return s.in.err
}

// ParseBedLine splits a bedgraph line into its fields. lineNum is only used
// for error messages.
func ParseBedLine(line []string, lineNum int) (chrom string, start, end int, score float64, err error) {
	text := strings.Join(line, "\t")
	lineErr := func(field string, e error) error {
		return &LineError{Line: lineNum, Field: field, Text: text, Err: e}
	}

	if len(line) < 4 {
		return "", 0, 0, 0, lineErr("", fmt.Errorf("%w: %d fields, need 4", ErrMalformedLine, len(line)))
	}
	chrom = line[0]
	if chrom == "" {
		return "", 0, 0, 0, lineErr("chrom", ErrMalformedLine)
	}
	start, e := strconv.Atoi(line[1])
	if e != nil || start < 0 {
		return "", 0, 0, 0, lineErr("start", ErrMalformedLine)
	}
	end, e = strconv.Atoi(line[2])
	if e != nil || end <= start {
		return "", 0, 0, 0, lineErr("end", ErrMalformedLine)
	}
	score, e = strconv.ParseFloat(line[3], 64)
	if e != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		return "", 0, 0, 0, lineErr("score", ErrMalformedScore)
	}
	return chrom, start, end, score, nil
}

// appendField names the field an AppendBin failure is about.
func appendField(e error) string {
	switch {
	case errors.Is(e, ErrMalformedOrder):
		return "start"
	case errors.Is(e, ErrInconsistentResolution):
		return "end"
	case errors.Is(e, ErrMalformedScore):
		return "score"
	}
	return ""
}

// ReadTrack builds a Track from bedgraph text. It stops at the first bad
// line and returns no track in that case.
func ReadTrack(r io.Reader) (*Track, error) {
	h := handle("ReadTrack: %w")

	t := NewTrack(0)
	s := NewBedScanner(r)
	for s.Scan() {
		chrom, start, end, score, e := ParseBedLine(s.Line, s.LineNum)
		if e != nil {
			return nil, h(e)
		}
		if e := t.AppendBin(chrom, start, end, score); e != nil {
			return nil, h(&LineError{Line: s.LineNum, Field: appendField(e), Text: strings.Join(s.Line, "\t"), Err: errors.Unwrap(e)})
		}
	}
	if e := s.Err(); e != nil {
		return nil, h(fmt.Errorf("%w: %w", ErrReadFailure, e))
	}
	return t, nil
}

func isGzip(r *bufio.Reader) bool {
	magic, err := r.Peek(2)
	return err == nil && magic[0] == 0x1f && magic[1] == 0x8b
}

// OpenTrack reads a bedgraph file, or standard input when path is "-".
// Gzipped input is decompressed.
func OpenTrack(path string) (*Track, error) {
	h := handle("OpenTrack: %w")

	var in io.Reader = os.Stdin
	if path != "-" {
		f, e := os.Open(path)
		if e != nil {
			return nil, h(fmt.Errorf("%w: %w", ErrReadFailure, e))
		}
		defer f.Close()
		in = f
	}

	br := bufio.NewReader(in)
	if isGzip(br) {
		g, e := gzip.NewReader(br)
		if e != nil {
			return nil, h(fmt.Errorf("%w: %w", ErrReadFailure, e))
		}
		defer g.Close()
		return ReadTrack(g)
	}
	return ReadTrack(br)
}
