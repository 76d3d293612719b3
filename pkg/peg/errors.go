package peg

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Frame is one rule invocation on the stack active at the deepest failure.
type Frame struct {
	Rule   string
	Offset int
	Line   int
	Column int
}

// RecognitionError reports input rejected by the grammar. Offset, Line and
// Column point at the deepest position any rule reached.
type RecognitionError struct {
	Path     string
	Offset   int
	Line     int
	Column   int
	Expected []string
	Found    string

	// Trace and Attempts are only filled by a diagnostic parser.
	Trace    []Frame
	Attempts int

	// Retryable is set when a diagnostic parser could produce a richer report.
	Retryable bool
}

// Error implements error.
func (e *RecognitionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "parse error at %s:%d:%d", e.Path, e.Line, e.Column)

	if len(e.Expected) > 0 {
		fmt.Fprintf(&buf, ": expected %s", strings.Join(e.Expected, " or "))
	}

	if e.Found != "" {
		fmt.Fprintf(&buf, " but found %s", e.Found)
	}

	return buf.String()
}

// ExtendedMessage returns the error followed by the rule stack, innermost last.
func (e *RecognitionError) ExtendedMessage() string {
	if len(e.Trace) == 0 {
		return e.Error()
	}

	var buf strings.Builder

	buf.WriteString(e.Error())
	fmt.Fprintf(&buf, "\nrule stack (%d attempts recorded):", e.Attempts)

	for i, frame := range e.Trace {
		fmt.Fprintf(&buf, "\n%s%s at %d:%d", strings.Repeat("  ", i+1), frame.Rule, frame.Line, frame.Column)
	}

	return buf.String()
}

func describeFound(src []byte, offset int) string {
	if offset >= len(src) {
		return "end of input"
	}

	ch, _ := utf8.DecodeRune(src[offset:])

	return strconv.QuoteRune(ch)
}
