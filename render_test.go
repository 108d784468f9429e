package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderDataset(t *testing.T) {
	dataset := &Dataset{
		Columns: []string{"id", "name"},
		Rows: []Row{
			{Text("1"), Null()},
			{Text("2"), Text(strings.Repeat("x", 200))},
			{Text("3"), Text("carol")},
		},
	}
	var out strings.Builder
	require.Nil(t, RenderDataset(&out, dataset, 2))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[1], nullMarker)
	require.Contains(t, lines[2], strings.Repeat("x", 117)+"...")
	require.NotContains(t, out.String(), "carol")
	require.Equal(t, "... showing 2 of 3 rows", lines[3])

	out.Reset()
	require.Nil(t, RenderDataset(&out, dataset, DisplayCap))
	require.NotContains(t, out.String(), "showing")
}

func TestRenderMatches(t *testing.T) {
	dataset := &Dataset{
		Columns: []string{"id", "city"},
		Rows:    []Row{{Text("1"), Text("Lisbon")}, {Text("2"), Text("Porto")}},
	}
	var out strings.Builder
	require.Nil(t, RenderMatches(&out, FormatCSV, dataset, Search(dataset, "PORTO")))
	require.True(t, strings.HasPrefix(out.String(), "csv: 1 matches in 2 rows"))
	require.Contains(t, out.String(), "row 1")
	require.Contains(t, out.String(), "Porto")
}
