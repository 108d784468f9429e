package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
)

var (
	ErrUnreadableFile    = errors.New("unreadable file")
	ErrMalformedRecord   = errors.New("malformed record")
	ErrNoTableFound      = errors.New("no table found")
	ErrEmptyFile         = errors.New("empty file")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// DisplayCap is the number of rows rendered for a dataset. Search ignores it.
const DisplayCap = 1000

// Cell is a nullable textual value.
type Cell = sql.NullString

type Row []Cell

// Dataset is a header plus rows; every row has exactly len(Columns) cells.
type Dataset struct {
	Columns []string
	Rows    []Row
}

func Text(value string) Cell { return Cell{String: value, Valid: true} }

func Null() Cell { return Cell{} }

func (d *Dataset) Len() int { return len(d.Rows) }

func (d *Dataset) ColumnIndex(name string) int {
	for i, column := range d.Columns {
		if column == name {
			return i
		}
	}
	return -1
}

// Value returns the cell of the given row under the named column.
func (d *Dataset) Value(row int, column string) (Cell, bool) {
	i := d.ColumnIndex(column)
	if i < 0 || row < 0 || row >= len(d.Rows) {
		return Cell{}, false
	}
	return d.Rows[row][i], true
}

type Loader interface {
	Format() Format
	Load(ctx context.Context, path string) (*Dataset, error)
}

type Writer interface {
	Format() Format
	Write(ctx context.Context, path string, dataset *Dataset) error
}

type MemoryProbe interface {
	Name() string
	Usage() (uint64, error)
}

// streamDecoder is shared by the text loaders which parse an already opened file.
// Decoders check ctx every cancelCheckInterval records.
type streamDecoder func(ctx context.Context, r io.Reader) (*Dataset, error)

const cancelCheckInterval = 1024
