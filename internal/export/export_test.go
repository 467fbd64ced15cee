// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	apperrors "sapdrive/cli/internal/errors"
	"sapdrive/cli/internal/scripting"
)

// fakeGrid serves a fixed result set.
type fakeGrid struct {
	path    string
	columns []string
	rows    [][]string
	cellErr error
}

func (g *fakeGrid) ID() string                                    { return g.path }
func (g *fakeGrid) Type() string                                  { return "GuiShell" }
func (g *fakeGrid) Text(ctx context.Context) (string, error)      { return "", nil }
func (g *fakeGrid) SetText(ctx context.Context, v string) error   { return nil }
func (g *fakeGrid) Press(ctx context.Context) error               { return nil }
func (g *fakeGrid) Select(ctx context.Context) error              { return nil }
func (g *fakeGrid) Changeable(ctx context.Context) (bool, error)  { return false, nil }
func (g *fakeGrid) RowCount(ctx context.Context) (int, error)     { return len(g.rows), nil }
func (g *fakeGrid) Columns(ctx context.Context) ([]string, error) { return g.columns, nil }

func (g *fakeGrid) Cell(ctx context.Context, row int, column string) (string, error) {
	if g.cellErr != nil {
		return "", g.cellErr
	}
	for i, c := range g.columns {
		if c == column {
			return g.rows[row][i], nil
		}
	}
	return "", fmt.Errorf("no column %q", column)
}

type fakeFinder struct {
	grid *fakeGrid
}

func (f *fakeFinder) FindGrid(ctx context.Context, id string) (scripting.Grid, error) {
	if f.grid == nil || f.grid.path != id {
		return nil, fmt.Errorf("%s: %w", id, scripting.ErrControlNotFound)
	}
	return f.grid, nil
}

func TestExtract(t *testing.T) {
	finder := &fakeFinder{grid: &fakeGrid{
		path:    DefaultGridPath,
		columns: []string{"BUKRS", "BELNR", "WRBTR"},
		rows: [][]string{
			{"1000", "4900000001", "125.00"},
			{"1000", "4900000002", "80.50"},
		},
	}}

	table, err := Extract(context.Background(), finder, DefaultGridPath)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(table.Columns) != 3 || len(table.Rows) != 2 {
		t.Fatalf("table = %dx%d, want 2x3", len(table.Rows), len(table.Columns))
	}
	if table.Rows[1][2] != "80.50" {
		t.Errorf("cell [1][2] = %q, want 80.50", table.Rows[1][2])
	}
}

func TestExtractGridMissing(t *testing.T) {
	finder := &fakeFinder{}
	_, err := Extract(context.Background(), finder, DefaultGridPath)
	if err == nil {
		t.Fatal("expected error for missing grid")
	}
	if !apperrors.IsKind(err, apperrors.ExportFailed) {
		t.Errorf("error kind = %v, want export_failed", err)
	}
}

func TestExtractCellError(t *testing.T) {
	cellErr := errors.New("rfc error")
	finder := &fakeFinder{grid: &fakeGrid{
		path:    DefaultGridPath,
		columns: []string{"A"},
		rows:    [][]string{{"x"}},
		cellErr: cellErr,
	}}
	_, err := Extract(context.Background(), finder, DefaultGridPath)
	if !errors.Is(err, cellErr) {
		t.Errorf("cell error not propagated: %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	table := Table{
		Columns: []string{"BUKRS", "Text"},
		Rows: [][]string{
			{"1000", "plain"},
			{"2000", "with, comma"},
		},
	}
	var buf strings.Builder
	if err := WriteCSV(&buf, table); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3 (header + 2 rows)", len(lines))
	}
	if lines[0] != "BUKRS,Text" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != `2000,"with, comma"` {
		t.Errorf("quoted row = %q", lines[2])
	}
}

func TestBuildInsert(t *testing.T) {
	got := buildInsert("fbl3n_items", []string{"bukrs", "wrbtr"})
	want := `INSERT INTO "fbl3n_items" ("bukrs", "wrbtr") VALUES ($1, $2)`
	if got != want {
		t.Errorf("buildInsert = %q, want %q", got, want)
	}
}
