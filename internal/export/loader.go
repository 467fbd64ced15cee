// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "sapdrive/cli/internal/errors"
)

// insertBatchSize bounds how many rows go into one pgx batch round trip.
const insertBatchSize = 500

// Loader writes extracted tables into PostgreSQL.
type Loader struct {
	Pool *pgxpool.Pool
}

// NewLoader creates a Loader from an existing pgx pool.
func NewLoader(pool *pgxpool.Pool) *Loader {
	return &Loader{Pool: pool}
}

// Connect opens a pool against the given DSN and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	info, err := ParseDSN(dsn)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ExportFailed, "parsing database DSN", err)
	}
	pool, err := pgxpool.New(ctx, NormalizeDSN(info))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ExportFailed, "opening database pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.Wrap(apperrors.ExportFailed, "database did not answer ping", err)
	}
	return pool, nil
}

// Load creates the target table if needed and inserts all rows. Grid
// values are untyped text on the wire, so every column is text. Returns
// the number of rows inserted.
func (l *Loader) Load(ctx context.Context, tableName string, t Table) (int64, error) {
	if len(t.Columns) == 0 {
		return 0, apperrors.New(apperrors.ExportFailed, "table has no columns")
	}

	name := NormalizeIdentifier(tableName)
	cols := UniqueIdentifiers(t.Columns)

	var ddl strings.Builder
	fmt.Fprintf(&ddl, "CREATE TABLE IF NOT EXISTS %q (", name)
	for i, c := range cols {
		if i > 0 {
			ddl.WriteString(", ")
		}
		fmt.Fprintf(&ddl, "%q text", c)
	}
	ddl.WriteString(")")

	if _, err := l.Pool.Exec(ctx, ddl.String()); err != nil {
		return 0, apperrors.Wrap(apperrors.ExportFailed, "creating table "+name, err)
	}

	insert := buildInsert(name, cols)

	var total int64
	for start := 0; start < len(t.Rows); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(t.Rows) {
			end = len(t.Rows)
		}

		batch := &pgx.Batch{}
		for _, row := range t.Rows[start:end] {
			args := make([]any, len(cols))
			for i := range cols {
				if i < len(row) {
					args[i] = row[i]
				}
			}
			batch.Queue(insert, args...)
		}

		br := l.Pool.SendBatch(ctx, batch)
		for range t.Rows[start:end] {
			tag, err := br.Exec()
			if err != nil {
				_ = br.Close()
				return total, apperrors.Wrap(apperrors.ExportFailed, "inserting into "+name, err)
			}
			total += tag.RowsAffected()
		}
		if err := br.Close(); err != nil {
			return total, apperrors.Wrap(apperrors.ExportFailed, "closing insert batch", err)
		}
	}
	return total, nil
}

func buildInsert(name string, cols []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %q (", name)
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q", c)
	}
	b.WriteString(") VALUES (")
	for i := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%d", i+1)
	}
	b.WriteString(")")
	return b.String()
}
