package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// LoaderSqlite reads the first user table of a SQLite file.
type LoaderSqlite struct{}

func (l *LoaderSqlite) Format() Format { return FormatRelational }
func (l *LoaderSqlite) Load(ctx context.Context, path string) (*Dataset, error) {
	// sqlite silently creates missing files, so check before opening
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_query_only=true")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	defer db.Close()

	tables, err := ListTables(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list tables of %v: %w", ErrUnreadableFile, path, err)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoTableFound, path)
	}
	Logger.Debugf("loading table %v of %v (tables: %v)", tables[0], path, tables)

	dataset, err := ReadTable(ctx, db, tables[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read table %v of %v: %w", ErrUnreadableFile, tables[0], path, err)
	}
	if len(dataset.Rows) == 0 {
		return dataset, fmt.Errorf("failed to load %v: %w: table %v has no rows", path, ErrEmptyFile, tables[0])
	}
	return dataset, nil
}

// ListTables returns user tables in creation order.
func ListTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tables := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func ReadTable(ctx context.Context, db *sql.DB, table string) (*Dataset, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %v", quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	dataset := &Dataset{Columns: columns}
	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, value := range values {
			row[i] = sqlCell(value)
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	return dataset, rows.Err()
}

func sqlCell(value any) Cell {
	switch v := value.(type) {
	case nil:
		return Null()
	case string:
		return Text(v)
	case []byte:
		return Text(string(v))
	case int64:
		return Text(strconv.FormatInt(v, 10))
	case float64:
		return Text(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		return Text(strconv.FormatBool(v))
	case time.Time:
		return Text(v.Format(time.RFC3339Nano))
	}
	return Text(fmt.Sprintf("%v", value))
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
