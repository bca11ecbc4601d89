package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name: "nil error returns empty",
			err:  nil,
		},
		{
			name:        "empty input",
			err:         &Error{Kind: KindEmptyInput},
			wantCode:    "INP001",
			wantMessage: "Textarea is empty. Please paste valid CSV content.",
		},
		{
			name:        "malformed csv",
			err:         &Error{Kind: KindMalformedCSV},
			wantCode:    "INP002",
			wantMessage: "Invalid CSV format. Ensure content has comma-separated values.",
		},
		{
			name:        "row limit names the limit",
			err:         &Error{Kind: KindRowLimitExceeded, Limit: 500},
			wantCode:    "FILE004",
			wantMessage: "The file contains more than 500 rows. Please upload a smaller file.",
		},
		{
			name:        "csv parse",
			err:         Wrap(KindCSVParse, OpCSV, errors.New("bare quote")),
			wantCode:    "FILE001",
			wantMessage: "Error parsing CSV file. Please try again.",
		},
		{
			name:        "file read",
			err:         Wrap(KindFileRead, OpXLSX, errors.New("zip: not a valid zip file")),
			wantCode:    "FILE002",
			wantMessage: "Error reading Excel file. Please try again.",
		},
		{
			name:        "unsupported format",
			err:         &Error{Kind: KindUnsupportedFormat},
			wantCode:    "FILE003",
			wantMessage: "Unsupported file type. Please upload a CSV, XLS, XLSX, or PDF file.",
		},
		{
			name:        "conversion",
			err:         Wrap(KindConversion, OpPDF, errors.New("dial tcp: connection refused")),
			wantCode:    "CONV001",
			wantMessage: "Failed to process the PDF. Please try again.",
		},
		{
			name:        "wrapped typed error",
			err:         fmt.Errorf("upload: %w", &Error{Kind: KindUnsupportedFormat}),
			wantCode:    "FILE003",
			wantMessage: "Unsupported file type. Please upload a CSV, XLS, XLSX, or PDF file.",
		},
		{
			name:        "body too large pattern",
			err:         errors.New("http: request body too large"),
			wantCode:    "FILE005",
			wantMessage: "The file is too large. Please upload a smaller file.",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(&Error{Kind: KindMalformedCSV})

	expected := "Invalid CSV format. Ensure content has comma-separated values. (Code: INP002). Separate the values on each line with commas"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if FormatUserError(nil) != "" {
		t.Errorf("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil error should not be user facing")
	}
	if !IsUserFacing(&Error{Kind: KindConversion}) {
		t.Error("typed error should be user facing")
	}
	if IsUserFacing(errors.New("random internal error xyz")) {
		t.Error("unknown error should not be user facing")
	}
}

func TestErrorString(t *testing.T) {
	err := &Error{Kind: KindRowLimitExceeded, Limit: 5, Op: OpCSV}
	if got, want := err.Error(), "csv: row_limit_exceeded (limit 5)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("boom")
	wrapped := Wrap(KindFileRead, OpXLS, cause)
	if !errors.Is(wrapped, cause) {
		t.Error("Unwrap() should expose the cause")
	}
	if KindOf(cause) != KindUnknown {
		t.Error("KindOf(untyped) should be KindUnknown")
	}
	if got := Kind(99).String(); got != "unknown" {
		t.Errorf("unknown Kind String() = %q", got)
	}
}
