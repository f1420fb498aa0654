package bgtools

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

func handle(format string) func(...any) error {
	return func(args ...any) error {
		return fmt.Errorf(format, args...)
	}
}

var (
	ErrMalformedLine          = errors.New("malformed line")
	ErrMalformedScore         = errors.New("malformed score")
	ErrMalformedOrder         = errors.New("bins out of order")
	ErrInconsistentResolution = errors.New("inconsistent resolution")
	ErrWindowTooSmall         = errors.New("window too small")
	ErrEmptyChromosome        = errors.New("empty chromosome")
	ErrDegenerateDistribution = errors.New("degenerate distribution")
	ErrZeroTotal              = errors.New("zero total")
	ErrWriteFailure           = errors.New("write failure")
	ErrReadFailure            = errors.New("read failure")
)

// LineError locates a parse failure in the input.
type LineError struct {
	Line  int
	Field string
	Text  string
	Err   error
}

func (e *LineError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
	}
	return fmt.Sprintf("line %d: %v in field %s: %q", e.Line, e.Err, e.Field, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// AggregateError reports the computed value that made a transform undefined.
type AggregateError struct {
	Name  string
	Value float64
	Err   error
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("%v: %s = %v", e.Err, e.Name, e.Value)
}

func (e *AggregateError) Unwrap() error {
	return e.Err
}

// IsBrokenPipe reports whether err came from a reader on the other end of
// the output closing early, as `head` does.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
