package analyze

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrScanStarted is returned when a scanner is reconfigured or reused after Scan.
	ErrScanStarted = errors.New("scan already started")
	// ErrVisitorPanic wraps a panic raised by a visitor or an audit listener.
	ErrVisitorPanic = errors.New("visitor panic")
	// ErrUnsupportedEncoding is returned for a declared encoding that cannot be decoded.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	// ErrDuplicateInput is returned when a batch names the same path twice.
	ErrDuplicateInput = errors.New("duplicate input file")
)

// AnalysisError aborts a scan. It names the file being processed when the
// fatal failure happened.
type AnalysisError struct {
	Path string
	Err  error
}

func (e *AnalysisError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unable to analyze file '%s'", e.Path)
	}

	return fmt.Sprintf("unable to analyze file '%s': %v", e.Path, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
