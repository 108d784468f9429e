package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

const nullMarker = "NULL"

// RenderDataset prints the header and at most limit rows.
func RenderDataset(w io.Writer, dataset *Dataset, limit int) error {
	table := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, strings.Join(dataset.Columns, "\t"))
	shown := min(limit, len(dataset.Rows))
	values := make([]string, len(dataset.Columns))
	for _, row := range dataset.Rows[:shown] {
		for i, cell := range row {
			values[i] = shortify(cell)
		}
		fmt.Fprintln(table, strings.Join(values, "\t"))
	}
	if err := table.Flush(); err != nil {
		return err
	}
	if shown < len(dataset.Rows) {
		_, err := fmt.Fprintf(w, "... showing %v of %v rows\n", shown, len(dataset.Rows))
		return err
	}
	return nil
}

func shortify(cell Cell) string {
	if !cell.Valid {
		return nullMarker
	}
	runes := []rune(cell.String)
	if len(runes) > 120 {
		return string(runes[:117]) + "..."
	}
	return cell.String
}

// RenderMatches prints every match with the matching value.
func RenderMatches(w io.Writer, format Format, dataset *Dataset, result SearchResult) error {
	_, err := fmt.Fprintf(
		w, "%v: %v matches in %v rows (%v, %.0f cells/s)\n",
		format, len(result.Matches), len(dataset.Rows), result.Elapsed, result.Throughput(),
	)
	if err != nil {
		return err
	}
	table := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, match := range result.Matches {
		cell, _ := dataset.Value(match.Row, match.Column)
		fmt.Fprintf(table, "  row %v\t%v\t%v\n", match.Row, match.Column, shortify(cell))
	}
	return table.Flush()
}
