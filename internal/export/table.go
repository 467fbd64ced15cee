// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package export extracts tabular results from an ALV grid on the
// attached session and writes them out, either as CSV or into a
// PostgreSQL table. Grid reads go cell by cell through the scripting
// surface; everything arrives as text, so the output schema is text too.
package export

import (
	"context"

	apperrors "sapdrive/cli/internal/errors"
	"sapdrive/cli/internal/scripting"
)

// DefaultGridPath is where the ALV grid control usually sits after a
// report executes.
const DefaultGridPath = "wnd[0]/usr/cntlGRID1/shellcont/shell"

// GridFinder resolves a control with the grid operations available.
type GridFinder interface {
	FindGrid(ctx context.Context, id string) (scripting.Grid, error)
}

// Table is an extracted result set. Rows are positional against Columns.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Extract reads the full contents of the grid at gridPath. The grid is
// read row-major so the host only scrolls forward once.
func Extract(ctx context.Context, finder GridFinder, gridPath string) (Table, error) {
	grid, err := finder.FindGrid(ctx, gridPath)
	if err != nil {
		return Table{}, apperrors.Wrap(apperrors.ExportFailed, "result grid not found at "+gridPath, err)
	}

	columns, err := grid.Columns(ctx)
	if err != nil {
		return Table{}, apperrors.Wrap(apperrors.ExportFailed, "reading grid columns", err)
	}
	count, err := grid.RowCount(ctx)
	if err != nil {
		return Table{}, apperrors.Wrap(apperrors.ExportFailed, "reading grid row count", err)
	}

	t := Table{Columns: columns, Rows: make([][]string, 0, count)}
	for row := 0; row < count; row++ {
		values := make([]string, len(columns))
		for i, col := range columns {
			v, err := grid.Cell(ctx, row, col)
			if err != nil {
				return Table{}, apperrors.Wrap(apperrors.ExportFailed,
					"reading grid cell", err)
			}
			values[i] = v
		}
		t.Rows = append(t.Rows, values)
	}
	return t, nil
}
