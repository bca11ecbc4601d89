package core

// validation.go holds the two checks shared by paste and upload handling:
//  1. Content validation: pasted text must look comma-separated
//  2. Row limit: a parsed table must not exceed the configured maximum

import "strings"

// ValidationResult is the outcome of Validate. Err is nil when OK is true.
type ValidationResult struct {
	OK  bool
	Err *Error
}

// Message returns the user-facing message for a failed result.
func (r ValidationResult) Message() string {
	if r.OK || r.Err == nil {
		return ""
	}
	return MapError(r.Err).Message
}

// Validate checks whether text plausibly holds comma-separated data.
// It fails with KindEmptyInput when the trimmed text is empty and with
// KindMalformedCSV when the first line contains no comma.
func Validate(text string) ValidationResult {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ValidationResult{Err: &Error{Kind: KindEmptyInput, Op: OpPaste}}
	}

	firstLine, _, _ := strings.Cut(trimmed, "\n")
	if !strings.Contains(firstLine, ",") {
		return ValidationResult{Err: &Error{Kind: KindMalformedCSV, Op: OpPaste}}
	}

	return ValidationResult{OK: true}
}

// CheckRowLimit returns a KindRowLimitExceeded error when t has more than
// maxRows rows. A maxRows of zero or less means unlimited.
func CheckRowLimit(t Table, maxRows int) error {
	if maxRows <= 0 || len(t) <= maxRows {
		return nil
	}
	return &Error{Kind: KindRowLimitExceeded, Limit: maxRows}
}
