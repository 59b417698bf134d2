package arscrub

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a scrub failure
type ErrorKind int

const (
	KindFormat     ErrorKind = iota + 1 // header or entry magic mismatch
	KindTruncation                      // fewer bytes than a fixed-width field or record needs
	KindIO                              // short write or storage failure
	KindEncoding                        // unparsable numeric text or a value wider than its field
)

// String returns the kind name used in error messages
func (k ErrorKind) String() string {
	switch k {
	case KindFormat:
		return "format"
	case KindTruncation:
		return "truncation"
	case KindIO:
		return "io"
	case KindEncoding:
		return "encoding"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against a ScrubError's kind
var (
	ErrFormat     = &ScrubError{Kind: KindFormat, Msg: "format error"}
	ErrTruncation = &ScrubError{Kind: KindTruncation, Msg: "truncation error"}
	ErrIO         = &ScrubError{Kind: KindIO, Msg: "io error"}
	ErrEncoding   = &ScrubError{Kind: KindEncoding, Msg: "encoding error"}
)

// ScrubError is the single error type returned by every scrub operation.
// Err holds the low-level cause, if any.
type ScrubError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *ScrubError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scrub %s error: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("scrub %s error: %s", e.Kind, e.Msg)
}

func (e *ScrubError) Unwrap() error {
	return e.Err
}

// Is matches any ScrubError of the same kind, so the package sentinels work with errors.Is
func (e *ScrubError) Is(target error) bool {
	var other *ScrubError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

func newScrubError(kind ErrorKind, cause error, format string, args ...interface{}) *ScrubError {
	return &ScrubError{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
		Err:  cause,
	}
}

// checkArchive returns a ScrubError of the given kind when expression is false
func checkArchive(expression bool, kind ErrorKind, msg string) error {
	if !expression {
		return newScrubError(kind, nil, "%s", msg)
	}
	return nil
}

// KindOf reports the kind of a scrub failure, or 0 if err is not a ScrubError
func KindOf(err error) ErrorKind {
	var se *ScrubError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
