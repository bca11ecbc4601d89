// Package dispatch selects a parsing strategy for an uploaded file from its
// extension and runs it.
//
// Four strategies are registered by default:
//
//	csv   decoded with core.DecodeCSV
//	xls   BIFF workbook, first sheet, via github.com/extrame/xls
//	xlsx  OOXML workbook, first sheet, via github.com/xuri/excelize/v2
//	pdf   sent to the remote conversion service, reply decoded as CSV
//
// Any other extension fails with core.KindUnsupportedFormat before anything
// reads the file. Every successful parse passes the row-limit guard.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/sheetview/internal/core"
	"github.com/JonMunkholm/sheetview/internal/logging"
)

// File is an uploaded file. Body is read at most once.
type File struct {
	Name string
	Size int64
	Body io.Reader
}

// Strategy parses one file format into a Table.
type Strategy interface {
	Parse(ctx context.Context, f File) (core.Table, error)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(ctx context.Context, f File) (core.Table, error)

// Parse calls fn.
func (fn StrategyFunc) Parse(ctx context.Context, f File) (core.Table, error) {
	return fn(ctx, f)
}

// Converter turns a PDF into CSV text. *convert.Client implements it.
type Converter interface {
	ConvertToCSV(ctx context.Context, filename string, body io.Reader) (string, error)
}

// Observer is told about every dispatch. *metrics.Recorder implements it.
type Observer interface {
	ObserveDispatch(format, outcome string, elapsed time.Duration, rows int)
}

// Config wires a Dispatcher.
type Config struct {
	// MaxRows is the row limit; zero or less means unlimited.
	MaxRows int

	// Converter handles pdf files. If nil, pdf uploads fail with KindConversion.
	Converter Converter

	// Limiter bounds concurrent conversions. If nil, conversions are not limited.
	Limiter *core.Limiter

	// Observer receives dispatch outcomes. May be nil.
	Observer Observer
}

// Dispatcher routes files to strategies by extension.
type Dispatcher struct {
	maxRows  int
	observer Observer

	mu         sync.RWMutex
	strategies map[string]Strategy
}

// New creates a Dispatcher with the csv, xls, xlsx and pdf strategies registered.
func New(cfg Config) *Dispatcher {
	d := &Dispatcher{
		maxRows:    cfg.MaxRows,
		observer:   cfg.Observer,
		strategies: make(map[string]Strategy),
	}

	d.Register("csv", StrategyFunc(parseCSV))
	d.Register("xls", StrategyFunc(parseXLS))
	d.Register("xlsx", StrategyFunc(parseXLSX))
	d.Register("pdf", &pdfStrategy{converter: cfg.Converter, limiter: cfg.Limiter})

	return d
}

// Register adds or replaces the strategy for ext (without the dot, any case).
func (d *Dispatcher) Register(ext string, s Strategy) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.strategies[strings.ToLower(strings.TrimPrefix(ext, "."))] = s
}

// Formats returns the registered extensions, sorted.
func (d *Dispatcher) Formats() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, 0, len(d.strategies))
	for ext := range d.strategies {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// MaxRows returns the configured row limit.
func (d *Dispatcher) MaxRows() int {
	return d.maxRows
}

// Extension returns the lowercased text after the last dot in name, or ""
// when name has no dot.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// Dispatch parses f with the strategy for its extension and applies the row limit.
func (d *Dispatcher) Dispatch(ctx context.Context, f File) (core.Table, error) {
	ext := Extension(f.Name)
	logger := logging.WithFields(ctx, "file", f.Name, "format", ext)

	d.mu.RLock()
	strategy, ok := d.strategies[ext]
	d.mu.RUnlock()

	if !ok {
		err := core.Errorf(core.KindUnsupportedFormat, ext, "no strategy for %q", f.Name)
		d.observe(formatLabel(ext), err, 0, nil)
		logger.Info("unsupported file type")
		return nil, err
	}

	start := time.Now()
	table, err := strategy.Parse(ctx, f)
	if err == nil {
		if limitErr := core.CheckRowLimit(table, d.maxRows); limitErr != nil {
			err = fmt.Errorf("%s: %w", ext, limitErr)
		}
	}
	elapsed := time.Since(start)
	d.observe(ext, err, elapsed, table)

	if err != nil {
		logger.Warn("dispatch failed",
			"kind", core.KindOf(err).String(),
			"error", err,
			"duration_ms", elapsed.Milliseconds(),
		)
		return nil, err
	}

	logger.Info("file parsed",
		"rows", len(table),
		"columns", table.Width(),
		"duration_ms", elapsed.Milliseconds(),
	)
	return table, nil
}

func (d *Dispatcher) observe(format string, err error, elapsed time.Duration, table core.Table) {
	if d.observer == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = core.KindOf(err).String()
	}
	d.observer.ObserveDispatch(format, outcome, elapsed, len(table))
}

// formatLabel keeps metric cardinality bounded for arbitrary extensions.
func formatLabel(ext string) string {
	if ext == "" {
		return "none"
	}
	return "other"
}
