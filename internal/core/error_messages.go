package core

// error_messages.go maps errors to the messages shown next to the input
// that triggered them. Users can quote the code to support.
//
// # Input Errors (INP001-INP099)
//
//	INP001 - Empty input: the paste textarea is empty
//	INP002 - Malformed CSV: first line holds no comma
//	INP003 - Paste decode: pasted text could not be decoded as CSV
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - CSV parse: uploaded .csv could not be decoded
//	FILE002 - Read error: spreadsheet could not be read or decoded
//	FILE003 - Unsupported: extension is not csv, xls, xlsx or pdf
//	FILE004 - Row limit: the parsed table has more rows than allowed
//	FILE005 - Too large: upload exceeds the configured byte limit
//
// # Conversion Errors (CONV001-CONV099)
//
//	CONV001 - Conversion failed: the PDF service was unreachable or refused
//
// # Default Error (ERR000)
//
// Fallback when an error is neither a typed *Error nor matches a pattern.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var kindMessages = map[Kind]UserMessage{
	KindEmptyInput: {
		Message: "Textarea is empty. Please paste valid CSV content.",
		Action:  "Paste comma-separated rows into the textarea",
		Code:    "INP001",
	},
	KindMalformedCSV: {
		Message: "Invalid CSV format. Ensure content has comma-separated values.",
		Action:  "Separate the values on each line with commas",
		Code:    "INP002",
	},
	KindCSVParse: {
		Message: "Error parsing CSV file. Please try again.",
		Action:  "Check the file for unbalanced quotes",
		Code:    "FILE001",
	},
	KindFileRead: {
		Message: "Error reading Excel file. Please try again.",
		Action:  "Re-save the workbook and upload it again",
		Code:    "FILE002",
	},
	KindUnsupportedFormat: {
		Message: "Unsupported file type. Please upload a CSV, XLS, XLSX, or PDF file.",
		Action:  "Convert the file to one of the supported formats",
		Code:    "FILE003",
	},
	KindConversion: {
		Message: "Failed to process the PDF. Please try again.",
		Action:  "Try again in a few moments",
		Code:    "CONV001",
	},
}

// pasteDecodeMessage is used when pasted text passes validation but the
// decoder still rejects it.
var pasteDecodeMessage = UserMessage{
	Message: "Error parsing CSV from textarea. Please check your input.",
	Action:  "Check the pasted text for unbalanced quotes",
	Code:    "INP003",
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catch untyped errors, mostly from the HTTP layer.
// Patterns are matched case-insensitively; the first match wins.
var errorPatterns = []errorPattern{
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The file is too large. Please upload a smaller file.",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE005",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected.",
			Action:  "Choose a CSV, XLS, XLSX or PDF file",
			Code:    "FILE006",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out.",
			Action:  "Try a smaller file or try again later",
			Code:    "REQ001",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests.",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error into a user-friendly message.
// Returns an empty UserMessage when err is nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindRowLimitExceeded {
			return UserMessage{
				Message: fmt.Sprintf("The file contains more than %d rows. Please upload a smaller file.", e.Limit),
				Action:  "Remove rows or split the file",
				Code:    "FILE004",
			}
		}
		if e.Kind == KindCSVParse && e.Op == OpPaste {
			return pasteDecodeMessage
		}
		if msg, ok := kindMessages[e.Kind]; ok {
			return msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
