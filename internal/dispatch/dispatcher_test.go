package dispatch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetview/internal/convert"
	"github.com/JonMunkholm/sheetview/internal/core"
)

type fakeConverter struct {
	csv   string
	err   error
	calls atomic.Int32
	name  string
}

func (f *fakeConverter) ConvertToCSV(_ context.Context, filename string, body io.Reader) (string, error) {
	f.calls.Add(1)
	f.name = filename
	_, _ = io.Copy(io.Discard, body)
	return f.csv, f.err
}

type recordingObserver struct {
	format, outcome string
	rows            int
}

func (o *recordingObserver) ObserveDispatch(format, outcome string, _ time.Duration, rows int) {
	o.format, o.outcome, o.rows = format, outcome, rows
}

func csvFile(name, body string) File {
	return File{Name: name, Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"data.csv":         "csv",
		"data.CSV":         "csv",
		"Report.Final.PDF": "pdf",
		"book.xlsx":        "xlsx",
		"noext":            "",
		"trailing.":        "",
		".hidden":          "hidden",
	}
	for name, want := range tests {
		assert.Equal(t, want, Extension(name), name)
	}
}

func TestDispatch_CSV(t *testing.T) {
	d := New(Config{})
	table, err := d.Dispatch(context.Background(), csvFile("data.csv", "a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, core.Table{{"a", "b"}, {"1", "2"}}, table)
}

func TestDispatch_CaseInsensitiveExtension(t *testing.T) {
	d := New(Config{})
	body := "h1,h2\n\"x, y\",z\n"

	lower, errLower := d.Dispatch(context.Background(), csvFile("data.csv", body))
	upper, errUpper := d.Dispatch(context.Background(), csvFile("data.CSV", body))

	require.NoError(t, errLower)
	require.NoError(t, errUpper)
	assert.Equal(t, lower, upper)
}

func TestDispatch_UnsupportedDoesNotParse(t *testing.T) {
	conv := &fakeConverter{csv: "a,b"}
	obs := &recordingObserver{}
	d := New(Config{Converter: conv, Observer: obs})

	var called atomic.Int32
	spy := StrategyFunc(func(context.Context, File) (core.Table, error) {
		called.Add(1)
		return core.Table{}, nil
	})
	for _, ext := range []string{"csv", "xls", "xlsx"} {
		d.Register(ext, spy)
	}

	body := &countingReader{r: strings.NewReader("PK...")}
	_, err := d.Dispatch(context.Background(), File{Name: "report.docx", Body: body})

	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindUnsupportedFormat))
	assert.Zero(t, called.Load())
	assert.Zero(t, conv.calls.Load())
	assert.Zero(t, body.n, "body must not be read")
	assert.Equal(t, "other", obs.format)
	assert.Equal(t, "unsupported_format", obs.outcome)
}

func TestDispatch_NoExtension(t *testing.T) {
	_, err := New(Config{}).Dispatch(context.Background(), csvFile("csv", "a,b"))
	assert.True(t, core.IsKind(err, core.KindUnsupportedFormat))
}

func TestDispatch_RowLimit(t *testing.T) {
	obs := &recordingObserver{}
	d := New(Config{MaxRows: 5, Observer: obs})
	body := "h\n1\n2\n3\n4\n5\n"

	table, err := d.Dispatch(context.Background(), csvFile("six.csv", body))
	require.Error(t, err)
	assert.Nil(t, table)
	assert.True(t, core.IsKind(err, core.KindRowLimitExceeded))
	assert.Equal(t, "The file contains more than 5 rows. Please upload a smaller file.", core.MapError(err).Message)
	assert.Equal(t, "row_limit_exceeded", obs.outcome)

	table, err = d.Dispatch(context.Background(), csvFile("five.csv", "h\n1\n2\n3\n4\n"))
	require.NoError(t, err)
	assert.Len(t, table, 5)
	assert.Equal(t, "ok", obs.outcome)
	assert.Equal(t, 5, obs.rows)
}

func TestDispatch_CSVReadFailure(t *testing.T) {
	d := New(Config{})
	_, err := d.Dispatch(context.Background(), File{Name: "bad.csv", Body: failingReader{}})
	assert.True(t, core.IsKind(err, core.KindCSVParse))
}

func TestDispatch_XLSXFirstSheetNoHeaderPromotion(t *testing.T) {
	wb := excelize.NewFile()
	require.NoError(t, wb.SetCellValue("Sheet1", "A1", "name"))
	require.NoError(t, wb.SetCellValue("Sheet1", "B1", "qty"))
	require.NoError(t, wb.SetCellValue("Sheet1", "A2", "bolt"))
	require.NoError(t, wb.SetCellValue("Sheet1", "B2", 12))
	_, err := wb.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, wb.SetCellValue("Other", "A1", "ignored"))

	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	d := New(Config{})
	table, err := d.Dispatch(context.Background(), File{Name: "stock.XLSX", Size: int64(buf.Len()), Body: buf})
	require.NoError(t, err)
	assert.Equal(t, core.Table{{"name", "qty"}, {"bolt", "12"}}, table)
}

func TestDispatch_XLSXRowLimit(t *testing.T) {
	wb := excelize.NewFile()
	for i := 1; i <= 4; i++ {
		cell, _ := excelize.CoordinatesToCellName(1, i)
		require.NoError(t, wb.SetCellValue("Sheet1", cell, i))
	}
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)

	_, err = New(Config{MaxRows: 3}).Dispatch(context.Background(), File{Name: "big.xlsx", Body: buf})
	assert.True(t, core.IsKind(err, core.KindRowLimitExceeded))
}

func xlsFixture(t *testing.T) File {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "table.xls"))
	require.NoError(t, err)
	return File{Name: "Table.XLS", Size: int64(len(data)), Body: bytes.NewReader(data)}
}

func TestDispatch_XLS(t *testing.T) {
	obs := &recordingObserver{}
	table, err := New(Config{Observer: obs}).Dispatch(context.Background(), xlsFixture(t))
	require.NoError(t, err)

	require.Len(t, table, 12)
	assert.Equal(t, []string{"Code", "Name", "Description"}, table[0])
	assert.Equal(t, []string{"code1", "name1", "description1"}, table[1])
	assert.Equal(t, []string{"code11", "name11", "description11"}, table[11])
	assert.Equal(t, "xls", obs.format)
	assert.Equal(t, 12, obs.rows)
}

func TestDispatch_XLSRowLimit(t *testing.T) {
	_, err := New(Config{MaxRows: 5}).Dispatch(context.Background(), xlsFixture(t))
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindRowLimitExceeded), "got %v", err)
	assert.Equal(t, "The file contains more than 5 rows. Please upload a smaller file.", core.MapError(err).Message)

	table, err := New(Config{MaxRows: 12}).Dispatch(context.Background(), xlsFixture(t))
	require.NoError(t, err)
	assert.Len(t, table, 12)
}

func TestDispatch_CorruptWorkbooks(t *testing.T) {
	d := New(Config{})
	for _, name := range []string{"broken.xlsx", "broken.xls"} {
		t.Run(name, func(t *testing.T) {
			_, err := d.Dispatch(context.Background(), csvFile(name, "this is not a workbook"))
			require.Error(t, err)
			assert.True(t, core.IsKind(err, core.KindFileRead), "got %v", err)
			assert.Equal(t, "Error reading Excel file. Please try again.", core.MapError(err).Message)
		})
	}
}

func TestDispatch_WorkbookReadFailure(t *testing.T) {
	_, err := New(Config{}).Dispatch(context.Background(), File{Name: "x.xlsx", Body: failingReader{}})
	assert.True(t, core.IsKind(err, core.KindFileRead))
}

func TestDispatch_PDFDecodesQuotedFields(t *testing.T) {
	conv := &fakeConverter{csv: "Name,Amount\n\"Smith, J\",10\n\n"}
	d := New(Config{Converter: conv})

	table, err := d.Dispatch(context.Background(), csvFile("Statement.pdf", "%PDF"))
	require.NoError(t, err)
	assert.Equal(t, core.Table{{"Name", "Amount"}, {"Smith, J", "10"}}, table)
	assert.Equal(t, "Statement.pdf", conv.name)
}

func TestDispatch_PDFConversionFailure(t *testing.T) {
	conv := &fakeConverter{err: errors.New("service said no")}
	_, err := New(Config{Converter: conv}).Dispatch(context.Background(), csvFile("x.pdf", "%PDF"))
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindConversion))
	assert.Equal(t, "Failed to process the PDF. Please try again.", core.MapError(err).Message)
}

func TestDispatch_PDFEndpointUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	d := New(Config{Converter: convert.New(base)})
	table, err := d.Dispatch(context.Background(), csvFile("x.pdf", "%PDF"))
	assert.Nil(t, table)
	assert.True(t, core.IsKind(err, core.KindConversion))
}

func TestDispatch_PDFWithoutConverter(t *testing.T) {
	_, err := New(Config{}).Dispatch(context.Background(), csvFile("x.pdf", "%PDF"))
	assert.True(t, core.IsKind(err, core.KindConversion))
}

func TestDispatch_PDFRowLimit(t *testing.T) {
	conv := &fakeConverter{csv: "a\n1\n2\n"}
	_, err := New(Config{MaxRows: 2, Converter: conv}).Dispatch(context.Background(), csvFile("x.pdf", "%PDF"))
	assert.True(t, core.IsKind(err, core.KindRowLimitExceeded))
}

func TestDispatch_PDFLimiterBusy(t *testing.T) {
	limiter := core.NewLimiter(1, 20*time.Millisecond)
	require.NoError(t, limiter.Acquire(context.Background()))
	defer limiter.Release()

	conv := &fakeConverter{csv: "a,b"}
	_, err := New(Config{Converter: conv, Limiter: limiter}).Dispatch(context.Background(), csvFile("x.pdf", "%PDF"))
	assert.True(t, core.IsKind(err, core.KindConversion))
	assert.ErrorIs(t, err, core.ErrBusy)
	assert.Zero(t, conv.calls.Load())
}

func TestFormats(t *testing.T) {
	d := New(Config{MaxRows: 10})
	assert.Equal(t, []string{"csv", "pdf", "xls", "xlsx"}, d.Formats())
	assert.Equal(t, 10, d.MaxRows())

	d.Register(".TSV", StrategyFunc(parseCSV))
	assert.Contains(t, d.Formats(), "tsv")
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}
