package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/buger/jsonparser"
)

type LoaderJSON struct{}

func (l *LoaderJSON) Format() Format { return FormatStructuredText }
func (l *LoaderJSON) Load(ctx context.Context, path string) (*Dataset, error) {
	return loadFile(ctx, path, DecodeJSON)
}

// DecodeJSON accepts a JSON array of objects or JSON Lines. The header is the
// union of object keys in first-seen order, missing keys become nulls.
func DecodeJSON(ctx context.Context, r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &Dataset{}, fmt.Errorf("%w: no content", ErrEmptyFile)
	}

	builder := newJSONBuilder(ctx)
	if data[0] == '[' {
		err = builder.addArray(data)
	} else {
		err = builder.addLines(data)
	}
	if err != nil {
		return nil, err
	}

	dataset := builder.dataset()
	if len(dataset.Rows) == 0 {
		return dataset, fmt.Errorf("%w: no objects", ErrEmptyFile)
	}
	return dataset, nil
}

type jsonBuilder struct {
	ctx     context.Context
	columns []string
	index   map[string]int
	rows    []Row
}

func newJSONBuilder(ctx context.Context) *jsonBuilder {
	return &jsonBuilder{ctx: ctx, index: make(map[string]int)}
}

func (b *jsonBuilder) addArray(data []byte) error {
	var failure error
	position := 0
	end, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		position++
		if failure != nil {
			return
		}
		if position%cancelCheckInterval == 0 {
			if err := b.ctx.Err(); err != nil {
				failure = fmt.Errorf("interrupted at element %v: %w", position, err)
				return
			}
		}
		if err != nil {
			failure = fmt.Errorf("%w: element %v: %w", ErrMalformedRecord, position, err)
			return
		}
		if dataType != jsonparser.Object {
			failure = fmt.Errorf("%w: element %v is %v, expected object", ErrMalformedRecord, position, dataType)
			return
		}
		if err := b.addObject(value); err != nil {
			failure = fmt.Errorf("%w: element %v: %w", ErrMalformedRecord, position, err)
		}
	})
	if failure != nil {
		return failure
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	// end points at the closing bracket
	if end+1 < len(data) {
		return fmt.Errorf("%w: unexpected content after the array", ErrMalformedRecord)
	}
	return nil
}

func (b *jsonBuilder) addLines(data []byte) error {
	lines := bufio.NewScanner(bytes.NewReader(data))
	lines.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for number := 1; lines.Scan(); number++ {
		line := bytes.TrimSpace(lines.Bytes())
		if len(line) == 0 {
			continue
		}
		if number%cancelCheckInterval == 0 {
			if err := b.ctx.Err(); err != nil {
				return fmt.Errorf("interrupted at line %v: %w", number, err)
			}
		}
		object, dataType, end, err := jsonparser.Get(line)
		if err != nil {
			return fmt.Errorf("%w: line %v: %w", ErrMalformedRecord, number, err)
		}
		if dataType != jsonparser.Object {
			return fmt.Errorf("%w: line %v is %v, expected object", ErrMalformedRecord, number, dataType)
		}
		if end != len(line) {
			return fmt.Errorf("%w: line %v: unexpected content after the object", ErrMalformedRecord, number)
		}
		if err := b.addObject(object); err != nil {
			return fmt.Errorf("%w: line %v: %w", ErrMalformedRecord, number, err)
		}
	}
	return lines.Err()
}

func (b *jsonBuilder) addObject(object []byte) error {
	row := make(Row, len(b.columns))
	err := jsonparser.ObjectEach(object, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		i, ok := b.index[string(key)]
		if !ok {
			i = len(b.columns)
			b.columns = append(b.columns, string(key))
			b.index[string(key)] = i
		}
		for len(row) <= i {
			row = append(row, Null())
		}
		cell, err := jsonCell(value, dataType)
		if err != nil {
			return err
		}
		row[i] = cell
		return nil
	})
	if err != nil {
		return err
	}
	b.rows = append(b.rows, row)
	return nil
}

func (b *jsonBuilder) dataset() *Dataset {
	for i, row := range b.rows {
		for len(row) < len(b.columns) {
			row = append(row, Null())
		}
		b.rows[i] = row
	}
	return &Dataset{Columns: b.columns, Rows: b.rows}
}

func jsonCell(value []byte, dataType jsonparser.ValueType) (Cell, error) {
	switch dataType {
	case jsonparser.Null:
		return Null(), nil
	case jsonparser.String:
		text, err := jsonparser.ParseString(value)
		if err != nil {
			return Cell{}, err
		}
		return Text(text), nil
	case jsonparser.Number, jsonparser.Boolean, jsonparser.Object, jsonparser.Array:
		return Text(string(value)), nil
	}
	return Cell{}, fmt.Errorf("unexpected value %q", value)
}
