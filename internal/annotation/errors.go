package annotation

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedBlock reports unbalanced markers, a broken header or a block
	// without expectations
	ErrMalformedBlock = errors.New("malformed block")
	// ErrMalformedExpectation reports an expectation that does not decompose
	// into a TL_FCT call and exactly one expected literal
	ErrMalformedExpectation = errors.New("malformed expectation")
	// ErrUnsupportedLiteral reports a token that is not an integer, float or
	// single-quoted string
	ErrUnsupportedLiteral = errors.New("unsupported literal")
	// ErrArgumentMismatch reports expectation arguments that differ from the
	// owning function's parameters
	ErrArgumentMismatch = errors.New("argument mismatch")
)

// ParseError locates a failure inside a documentation blob
type ParseError struct {
	CaseID string // empty when the header itself could not be read
	Line   int    // 1-based line within the documentation text
	Err    error  // one of the Err* sentinels
	Msg    string
}

func (e *ParseError) Error() string {
	where := fmt.Sprintf("line %d", e.Line)
	if e.CaseID != "" {
		where = e.CaseID + ", " + where
	}
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", where, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", where, e.Err, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

func newError(sentinel error, caseID string, line int, format string, args ...any) *ParseError {
	return &ParseError{
		CaseID: caseID,
		Line:   line,
		Err:    sentinel,
		Msg:    fmt.Sprintf(format, args...),
	}
}
