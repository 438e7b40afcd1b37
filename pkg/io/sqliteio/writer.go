// Package sqliteio writes frames into a SQLite table.
package sqliteio

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wdm0006/covidbench/pkg/frame"
	iox "github.com/wdm0006/covidbench/pkg/io/ioutils"
)

type WriterOptions struct {
	// Table defaults to "results". An existing table of that name is replaced.
	Table string
	// TimeLayout formats time cells stored as TEXT; default time.DateOnly.
	TimeLayout string
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func sqlType(k frame.Kind) string {
	switch k {
	case frame.KindBool, frame.KindInt:
		return "INTEGER"
	case frame.KindFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

// WriteAll writes f into path, inside one transaction.
func WriteAll(ctx context.Context, path string, f *frame.Frame, opt WriterOptions) (err error) {
	if opt.Table == "" {
		opt.Table = "results"
	}
	if opt.TimeLayout == "" {
		opt.TimeLayout = time.DateOnly
	}
	if err := iox.EnsureDir(path); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("sqlite open %s: %w", path, err)
	}
	defer func() {
		if cerr := db.Close(); err == nil {
			err = cerr
		}
	}()

	names := f.Names()
	defs := make([]string, len(names))
	quoted := make([]string, len(names))
	marks := make([]string, len(names))
	for i, cs := range f.Schema().Columns {
		quoted[i] = quote(cs.Name)
		defs[i] = quoted[i] + " " + sqlType(cs.Type)
		marks[i] = "?"
	}
	table := quote(opt.Table)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// rolled back unless Commit was reached
	finished := false
	defer func() {
		if !finished {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("sqlite drop %s: %w", opt.Table, err)
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("sqlite create %s: %w", opt.Table, err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(quoted, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	cols, err := f.Columns(names...)
	if err != nil {
		return err
	}
	args := make([]any, len(cols))
	for r := 0; r < f.Rows(); r++ {
		for i, col := range cols {
			v := frame.Value(col, r)
			if t, ok := v.(time.Time); ok {
				v = t.Format(opt.TimeLayout)
			}
			args[i] = v
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("sqlite insert row %d: %w", r, err)
		}
	}
	finished = true
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlite commit %s: %w", opt.Table, err)
	}
	return nil
}
