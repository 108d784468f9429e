package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/brianvoe/gofakeit/v6"
)

type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInteger
)

type Column struct {
	Name string
	Kind ColumnKind
}

type Schema []Column

func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, column := range s {
		names[i] = column.Name
	}
	return names
}

func (s Schema) Kind(i int) ColumnKind {
	if i < 0 || i >= len(s) {
		return KindText
	}
	return s[i].Kind
}

var PeopleTable = "people"

var PeopleSchema = Schema{
	{Name: "id", Kind: KindInteger},
	{Name: "name", Kind: KindText},
	{Name: "email", Kind: KindText},
	{Name: "age", Kind: KindInteger},
	{Name: "city", Kind: KindText},
}

// Generate fabricates rows of PeopleSchema. The same seed gives the same rows.
func Generate(rows int, seed int64, progress func(done, total int)) *Dataset {
	faker := gofakeit.New(seed)
	dataset := &Dataset{Columns: PeopleSchema.Names(), Rows: make([]Row, 0, rows)}
	for i := 0; i < rows; i++ {
		dataset.Rows = append(dataset.Rows, Row{
			Text(strconv.Itoa(i + 1)),
			Text(faker.Name()),
			Text(faker.Email()),
			Text(strconv.Itoa(faker.Number(18, 70))),
			Text(faker.City()),
		})
		if progress != nil {
			progress(i+1, rows)
		}
	}
	return dataset
}

// ExportAll writes the dataset next to each other as <dir>/<stem>.<ext> in
// every format and returns the resulting file sizes.
func ExportAll(ctx context.Context, dataset *Dataset, schema Schema, dir string, stem string) (map[Format]int64, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	sizes := make(map[Format]int64, len(Formats))
	for i, format := range Formats {
		writer, err := WriterFor(format, schema)
		if err != nil {
			return nil, err
		}
		path := PathFor(dir, stem, format)
		Logger.Infof("export step %v/%v: %v to %v", i+1, len(Formats), format, path)
		if err := writer.Write(ctx, path, dataset); err != nil {
			return nil, fmt.Errorf("failed to export %v to %v: %w", format, path, err)
		}
		stat, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		sizes[format] = stat.Size()
	}
	return sizes, nil
}
