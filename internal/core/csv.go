package core

// csv.go is the one CSV decoder used for pasted text, uploaded .csv files
// and text returned by the PDF conversion service.
//
// Decoding is lenient in the same places spreadsheet exports are sloppy:
//   - a UTF-8 BOM at the start is dropped
//   - rows may have different field counts
//   - bare quotes inside unquoted fields are kept
//   - invalid UTF-8 is replaced with U+FFFD
//
// Quoted fields with embedded commas and newlines are honoured.

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeCSV reads every record from r into a Table.
// Blank lines are skipped. A decode failure returns a KindCSVParse error
// tagged with op so callers can tell paste from upload.
func DecodeCSV(r io.Reader, op string) (Table, error) {
	reader := csv.NewReader(skipBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var table Table
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, Wrap(KindCSVParse, op, err)
		}
		for i, cell := range record {
			if !utf8.ValidString(cell) {
				record[i] = strings.ToValidUTF8(cell, "\uFFFD")
			}
		}
		table = append(table, record)
	}

	if table == nil {
		table = Table{}
	}
	return table, nil
}

// DecodeCSVString is DecodeCSV over an in-memory string.
func DecodeCSVString(text, op string) (Table, error) {
	return DecodeCSV(strings.NewReader(text), op)
}

// skipBOM drops a leading UTF-8 byte order mark, common in Windows exports.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && string(head) == string(utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}
