package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jask/rowmark/internal/document"
)

// OpenSQLite opens sqlite with sensible defaults.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	return db, nil
}

// LoadQuery runs query and turns every result row into a document row. The
// column names become the header. A column named "id" holding a UUID is used
// as the row identity.
func LoadQuery(ctx context.Context, db *sql.DB, query string, args ...any) (*document.Container, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	idCol := -1
	for i, name := range cols {
		if strings.EqualFold(name, "id") {
			idCol = i
			break
		}
	}

	c := document.NewContainer(cols)
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		cells := make([]string, len(cols))
		for i, v := range values {
			cells[i] = v.String
		}
		row := document.NewRow(cells...)
		if idCol >= 0 {
			if id, err := uuid.Parse(cells[idCol]); err == nil {
				row.ID = id
			}
		}
		c.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return c, nil
}
