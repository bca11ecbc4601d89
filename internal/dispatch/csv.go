package dispatch

import (
	"context"

	"github.com/JonMunkholm/sheetview/internal/core"
)

func parseCSV(_ context.Context, f File) (core.Table, error) {
	return core.DecodeCSV(f.Body, core.OpCSV)
}
