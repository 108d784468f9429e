package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	config := Config{Stem: "data", Rows: 100, Seed: 1, Attempts: 1, Probe: "heap", LogLevel: "ERROR"}
	root := NewRootCmd(&config)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "generate", "--dir", dir, "--stem", "people", "--rows", "1200", "--seed", "4")
	require.Nil(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 4)

	out, err = execute(t, "bench", "--dir", dir, "--stem", "people", "-o", "yaml")
	require.Nil(t, err)
	require.Contains(t, out, "label: fastest")
	require.Contains(t, out, "label: slowest")

	name := Generate(1200, 4, nil).Rows[1100][1].String
	out, err = execute(t, "search", "--dir", dir, "--stem", "people", strings.ToUpper(name))
	require.Nil(t, err)
	for _, format := range Formats {
		require.Contains(t, out, format.String()+": ")
	}
	require.Contains(t, out, "row 1100")

	out, err = execute(t, "show", "--dir", dir, "--limit", "5", PathFor(dir, "people", FormatToon))
	require.Nil(t, err)
	require.Contains(t, out, "toon: 1200 rows")
	require.Contains(t, out, "showing 5 of 1200 rows")

	_, err = execute(t, "show", dir+"/people.xml")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = execute(t, "generate", "--dir", dir, "--rows", "0")
	require.NotNil(t, err)
}
