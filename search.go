package main

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

type Match struct {
	Row    int    `json:"row" yaml:"row"`
	Column string `json:"column" yaml:"column"`
}

// SearchResult lists every matching cell of the dataset. Truncated reports
// that the dataset is larger than DisplayCap, so some matches may fall
// outside the rendered rows.
type SearchResult struct {
	Matches   []Match       `json:"matches" yaml:"matches"`
	Truncated bool          `json:"truncated" yaml:"truncated"`
	Scanned   int           `json:"scanned" yaml:"scanned"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Throughput returns scanned cells per second.
func (r SearchResult) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Scanned) / r.Elapsed.Seconds()
}

// Search finds cells containing query, ignoring case. An empty query matches
// nothing and nulls never match.
func Search(dataset *Dataset, query string) SearchResult {
	result := SearchResult{Truncated: len(dataset.Rows) > DisplayCap}
	if query == "" {
		return result
	}
	start := time.Now()
	fold := cases.Fold()
	needle := fold.String(query)
	for i, row := range dataset.Rows {
		for j, cell := range row {
			result.Scanned++
			if !cell.Valid {
				continue
			}
			if strings.Contains(fold.String(cell.String), needle) {
				result.Matches = append(result.Matches, Match{Row: i, Column: dataset.Columns[j]})
			}
		}
	}
	result.Elapsed = time.Since(start)
	return result
}

// SearchAll runs the query over every loaded dataset.
func SearchAll(datasets map[Format]*Dataset, query string) map[Format]SearchResult {
	results := make(map[Format]SearchResult, len(datasets))
	for format, dataset := range datasets {
		results[format] = Search(dataset, query)
	}
	return results
}
