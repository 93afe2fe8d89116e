package output

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// SQLiteWriter stores rows in a SQLite table whose columns mirror the header. Identifying fields are stored as
// text and values as reals. Rows are written in one transaction that is committed on Close.
type SQLiteWriter struct {
	db     *sql.DB
	table  string
	header []string
	tx     *sql.Tx
	stmt   *sql.Stmt
}

// OpenSQLiteWriter opens or creates a SQLite database.
func OpenSQLiteWriter(path, table string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "enabling write-ahead logging")
	}
	return &SQLiteWriter{db: db, table: table}, nil
}

func quote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}

// WriteHeader records the column names. The table is created on the first row, once the column types are known.
func (s *SQLiteWriter) WriteHeader(header []string) error {
	if s.header != nil {
		return errors.New("header already written")
	}
	s.header = append([]string(nil), header...)
	return nil
}

func (s *SQLiteWriter) create(row Row) error {
	ctx := context.Background()
	columns := make([]string, len(s.header))
	for i, name := range s.header {
		kind := "REAL"
		if i < len(row.Fields) {
			kind = "TEXT"
		}
		columns[i] = quote(name) + " " + kind
	}
	if _, err := s.db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS "+quote(s.table)+" ("+strings.Join(columns, ", ")+")"); err != nil {
		return errors.Wrapf(err, "creating table %s", s.table)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	names := make([]string, len(s.header))
	params := make([]string, len(s.header))
	for i, name := range s.header {
		names[i] = quote(name)
		params[i] = "?"
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO "+quote(s.table)+" ("+strings.Join(names, ", ")+") VALUES ("+strings.Join(params, ", ")+")")
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "preparing insert")
	}
	s.tx, s.stmt = tx, stmt
	return nil
}

// Write inserts one row. Every row must have one field or value per header column.
func (s *SQLiteWriter) Write(row Row) error {
	if s.header == nil {
		return errors.New("no header written")
	}
	if n := len(row.Fields) + len(row.Values); n != len(s.header) {
		return errors.Errorf("row has %d columns, header has %d", n, len(s.header))
	}
	if s.stmt == nil {
		if err := s.create(row); err != nil {
			return err
		}
	}
	args := make([]interface{}, 0, len(s.header))
	for _, f := range row.Fields {
		args = append(args, f)
	}
	for _, v := range row.Values {
		args = append(args, v)
	}
	_, err := s.stmt.ExecContext(context.Background(), args...)
	return errors.Wrap(err, "inserting row")
}

// Close commits the written rows and closes the database.
func (s *SQLiteWriter) Close() error {
	if s.tx != nil {
		s.stmt.Close()
		if err := s.tx.Commit(); err != nil {
			s.db.Close()
			return errors.Wrap(err, "committing rows")
		}
	}
	return s.db.Close()
}
