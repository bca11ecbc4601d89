package dispatch

import (
	"context"
	"errors"
	"strings"

	"github.com/JonMunkholm/sheetview/internal/core"
)

var errNoConverter = errors.New("pdf conversion is not configured")

type pdfStrategy struct {
	converter Converter
	limiter   *core.Limiter
}

// Parse converts the PDF remotely and decodes the reply with the shared CSV
// decoder, so quoted fields with commas survive.
func (p *pdfStrategy) Parse(ctx context.Context, f File) (core.Table, error) {
	if p.converter == nil {
		return nil, core.Wrap(core.KindConversion, core.OpPDF, errNoConverter)
	}

	var text string
	convert := func(ctx context.Context) error {
		var err error
		text, err = p.converter.ConvertToCSV(ctx, f.Name, f.Body)
		return err
	}

	var err error
	if p.limiter != nil {
		err = p.limiter.Do(ctx, convert)
	} else {
		err = convert(ctx)
	}
	if err != nil {
		return nil, core.Wrap(core.KindConversion, core.OpPDF, err)
	}

	table, err := core.DecodeCSV(strings.NewReader(text), core.OpPDF)
	if err != nil {
		return nil, core.Wrap(core.KindConversion, core.OpPDF, err)
	}
	return table, nil
}
