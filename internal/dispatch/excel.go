package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetview/internal/core"
)

var errNoSheets = errors.New("workbook has no sheets")

// readAll buffers the whole upload; both workbook decoders need random access.
func readAll(f File, op string) ([]byte, error) {
	var buf bytes.Buffer
	if f.Size > 0 {
		buf.Grow(int(f.Size))
	}
	if _, err := io.Copy(&buf, f.Body); err != nil {
		return nil, core.Wrap(core.KindFileRead, op, err)
	}
	return buf.Bytes(), nil
}

// parseXLSX returns the first sheet of an OOXML workbook, rows as-is.
func parseXLSX(_ context.Context, f File) (core.Table, error) {
	data, err := readAll(f, core.OpXLSX)
	if err != nil {
		return nil, err
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, core.Wrap(core.KindFileRead, core.OpXLSX, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.Wrap(core.KindFileRead, core.OpXLSX, errNoSheets)
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, core.Wrap(core.KindFileRead, core.OpXLSX, fmt.Errorf("sheet %q: %w", sheets[0], err))
	}
	if rows == nil {
		rows = [][]string{}
	}
	return core.Table(rows), nil
}

// parseXLS returns the first sheet of a legacy BIFF workbook.
// Missing cells inside a row become empty strings.
func parseXLS(_ context.Context, f File) (table core.Table, err error) {
	data, err := readAll(f, core.OpXLS)
	if err != nil {
		return nil, err
	}

	// The BIFF decoder panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			table = nil
			err = core.Errorf(core.KindFileRead, core.OpXLS, "decode panic: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, core.Wrap(core.KindFileRead, core.OpXLS, err)
	}
	if wb.NumSheets() == 0 {
		return nil, core.Wrap(core.KindFileRead, core.OpXLS, errNoSheets)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, core.Wrap(core.KindFileRead, core.OpXLS, errNoSheets)
	}

	table = core.Table{}
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			table = append(table, []string{})
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		table = append(table, cells)
	}

	// MaxRow is an index, so a sheet with no rows still yields one empty row.
	for len(table) > 0 && len(table[len(table)-1]) == 0 {
		table = table[:len(table)-1]
	}
	return table, nil
}
