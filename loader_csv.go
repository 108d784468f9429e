package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

type LoaderCSV struct{}

func (l *LoaderCSV) Format() Format { return FormatCSV }
func (l *LoaderCSV) Load(ctx context.Context, path string) (*Dataset, error) {
	return loadFile(ctx, path, DecodeCSV)
}

// DecodeCSV reads a header record followed by data records. Empty fields are nulls.
func DecodeCSV(ctx context.Context, r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return &Dataset{}, fmt.Errorf("%w: missing header", ErrEmptyFile)
	}
	if err != nil {
		return nil, csvError(err)
	}
	dataset := &Dataset{Columns: append([]string(nil), header...)}

	for number := 1; ; number++ {
		if number%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("interrupted at record %v: %w", number, err)
			}
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		row := make(Row, len(record))
		for i, field := range record {
			if field != "" {
				row[i] = Text(field)
			}
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	if len(dataset.Rows) == 0 {
		return dataset, fmt.Errorf("%w: header without records", ErrEmptyFile)
	}
	return dataset, nil
}

func csvError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	return fmt.Errorf("%w: %w", ErrUnreadableFile, err)
}

// EncodeCSV writes nulls as empty fields. A null in a single column dataset is
// written as "" since the reader skips empty lines.
func EncodeCSV(w io.Writer, dataset *Dataset) error {
	out := bufio.NewWriter(w)
	writer := csv.NewWriter(out)
	if err := writer.Write(dataset.Columns); err != nil {
		return err
	}
	record := make([]string, len(dataset.Columns))
	for _, row := range dataset.Rows {
		if len(row) == 1 && !row[0].Valid {
			writer.Flush()
			if _, err := out.WriteString("\"\"\n"); err != nil {
				return err
			}
			continue
		}
		for i, cell := range row {
			record[i] = cell.String
			if !cell.Valid {
				record[i] = ""
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return out.Flush()
}
