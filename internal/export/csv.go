// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package export

import (
	"encoding/csv"
	"io"
	"os"

	apperrors "sapdrive/cli/internal/errors"
)

// WriteCSV writes a table with a header row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return apperrors.Wrap(apperrors.ExportFailed, "writing CSV header", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return apperrors.Wrap(apperrors.ExportFailed, "writing CSV row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperrors.Wrap(apperrors.ExportFailed, "flushing CSV output", err)
	}
	return nil
}

// WriteCSVFile writes a table to path, creating or truncating it.
func WriteCSVFile(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.ExportFailed, "creating "+path, err)
	}
	if err := WriteCSV(f, t); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return apperrors.Wrap(apperrors.ExportFailed, "closing "+path, err)
	}
	return nil
}
