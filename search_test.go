package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func numberedDataset(rows int) *Dataset {
	dataset := &Dataset{Columns: []string{"id", "name", "note"}}
	for i := 0; i < rows; i++ {
		dataset.Rows = append(dataset.Rows, Row{Text(fmt.Sprint(i)), Text(fmt.Sprintf("person %v", i)), Null()})
	}
	return dataset
}

func TestSearchBeyondDisplayCap(t *testing.T) {
	dataset := numberedDataset(1500)
	dataset.Rows[1200][2] = Text("a needle here")

	result := Search(dataset, "needle")
	require.True(t, result.Truncated)
	require.Equal(t, []Match{{Row: 1200, Column: "note"}}, result.Matches)
	require.Equal(t, 1500*3, result.Scanned)
}

func TestSearchEmptyQuery(t *testing.T) {
	result := Search(numberedDataset(10), "")
	require.Empty(t, result.Matches)
	require.Equal(t, 0, result.Scanned)
	require.False(t, result.Truncated)
}

func TestSearchCaseInsensitive(t *testing.T) {
	dataset := &Dataset{
		Columns: []string{"name", "city"},
		Rows: []Row{
			{Text("alice"), Text("Paris")},
			{Text("Bob"), Text("ÄRGERSTADT")},
			{Null(), Text("Alicetown")},
		},
	}
	require.Equal(t,
		[]Match{{Row: 0, Column: "name"}, {Row: 2, Column: "city"}},
		Search(dataset, "ALICE").Matches,
	)
	require.Equal(t, []Match{{Row: 1, Column: "city"}}, Search(dataset, "ärger").Matches)
}

func TestSearchNullNeverMatches(t *testing.T) {
	dataset := &Dataset{Columns: []string{"a"}, Rows: []Row{{Null()}}}
	require.Empty(t, Search(dataset, "null").Matches)
	require.Empty(t, Search(dataset, "NULL").Matches)
}

func TestSearchNumbers(t *testing.T) {
	dataset := numberedDataset(30)
	result := Search(dataset, "2")
	// ids 2, 12, 20..29 match in both id and name columns
	require.Len(t, result.Matches, 2*12)
}

func TestSearchAll(t *testing.T) {
	results := SearchAll(map[Format]*Dataset{
		FormatCSV:  numberedDataset(5),
		FormatToon: numberedDataset(0),
	}, "person 4")
	require.Len(t, results, 2)
	require.Equal(t, []Match{{Row: 4, Column: "name"}}, results[FormatCSV].Matches)
	require.Empty(t, results[FormatToon].Matches)
}
