package core

import (
	"errors"
	"fmt"
)

// Kind classifies a failure of a paste, upload or conversion.
type Kind int

const (
	KindUnknown Kind = iota
	KindEmptyInput
	KindMalformedCSV
	KindRowLimitExceeded
	KindCSVParse
	KindFileRead
	KindConversion
	KindUnsupportedFormat
)

var kindNames = map[Kind]string{
	KindUnknown:           "unknown",
	KindEmptyInput:        "empty_input",
	KindMalformedCSV:      "malformed_csv",
	KindRowLimitExceeded:  "row_limit_exceeded",
	KindCSVParse:          "csv_parse_error",
	KindFileRead:          "file_read_error",
	KindConversion:        "conversion_error",
	KindUnsupportedFormat: "unsupported_format",
}

// String returns the snake_case name used in logs and metrics labels.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Operation names recorded on *Error.Op.
const (
	OpPaste = "paste"
	OpCSV   = "csv"
	OpXLS   = "xls"
	OpXLSX  = "xlsx"
	OpPDF   = "pdf"
)

// Error is the single error type produced by validation, dispatch and
// conversion. Err holds the underlying technical cause, if any.
type Error struct {
	Kind  Kind
	Limit int    // set for KindRowLimitExceeded
	Op    string // short operation name, e.g. "xlsx" or "paste"
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Kind == KindRowLimitExceeded {
		msg = fmt.Sprintf("%s (limit %d)", msg, e.Limit)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds an *Error of the given kind wrapping a formatted cause.
func Errorf(kind Kind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap builds an *Error of the given kind around err.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
