package main

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func exportPeople(t *testing.T, rows int) (string, *Dataset) {
	dir := t.TempDir()
	dataset := Generate(rows, 11, nil)
	_, err := ExportAll(context.Background(), dataset, PeopleSchema, dir, "people")
	require.Nil(t, err)
	return dir, dataset
}

func testConfig(dir string) Config {
	return Config{Dir: dir, Stem: "people", Attempts: 1, Probe: "heap"}
}

func TestLoadAllSurvivesBrokenFormat(t *testing.T) {
	for name, breakFile := range map[string]func(path string) error{
		"deleted":   os.Remove,
		"corrupted": func(path string) error { return os.WriteFile(path, []byte(strings.Repeat("not a database ", 300)), 0o644) },
	} {
		t.Run(name, func(t *testing.T) {
			dir, dataset := exportPeople(t, 50)
			require.Nil(t, breakFile(PathFor(dir, "people", FormatRelational)))

			comparison := NewComparison()
			system := NewSystem(testConfig(dir), comparison)
			loaded := system.LoadAll(context.Background())

			require.Len(t, loaded.Errors, 1)
			require.ErrorIs(t, loaded.Errors[FormatRelational], ErrUnreadableFile)
			require.Len(t, loaded.Datasets, 3)
			for _, format := range []Format{FormatCSV, FormatStructuredText, FormatToon} {
				require.Equal(t, dataset, loaded.Datasets[format])
			}

			ranking := comparison.Ranking()
			require.Len(t, ranking, 3)
			_, ok := comparison.Get(FormatRelational)
			require.False(t, ok)

			name := dataset.Rows[7][1].String
			for _, result := range SearchAll(loaded.Datasets, name) {
				require.Contains(t, result.Matches, Match{Row: 7, Column: "name"})
			}
		})
	}
}

func TestLoadFormatRemovesStaleMeasurement(t *testing.T) {
	dir, _ := exportPeople(t, 10)
	comparison := NewComparison()
	system := NewSystem(testConfig(dir), comparison)

	path := PathFor(dir, "people", FormatToon)
	_, measurement, err := system.LoadFormat(context.Background(), FormatToon, path)
	require.Nil(t, err)
	require.Equal(t, 10, measurement.Rows)
	_, ok := comparison.Get(FormatToon)
	require.True(t, ok)

	require.Nil(t, os.WriteFile(path, []byte("a|b\n1\n"), 0o644))
	_, measurement, err = system.LoadFormat(context.Background(), FormatToon, path)
	require.ErrorIs(t, err, ErrMalformedRecord)
	require.Nil(t, measurement)
	_, ok = comparison.Get(FormatToon)
	require.False(t, ok)
}

func TestRunStoresResults(t *testing.T) {
	dir, _ := exportPeople(t, 30)
	config := testConfig(dir)
	config.Attempts = 2
	config.ResultsUrl = dir + "/results.db"

	report, loaded, err := NewSystem(config, NewComparison()).Run(context.Background())
	require.Nil(t, err)
	require.Empty(t, loaded.Errors)
	require.Len(t, report.Entries, 4)
	require.Equal(t, "fastest", report.Entries[0].Label)
	require.Equal(t, "slowest", report.Entries[3].Label)

	storage := &Storage{Url: config.ResultsUrl}
	db, err := storage.ConnectDb()
	require.Nil(t, err)
	defer db.Close()
	parameters, err := storage.Parameters(db)
	require.Nil(t, err)
	require.Equal(t, "people", parameters["stem"])
	require.Equal(t, "heap", parameters["probe"])

	stored, err := storage.StoredMeasurements(db, parameters["run"])
	require.Nil(t, err)
	require.Len(t, stored, 2*4*5)
}

func TestLockIsExclusive(t *testing.T) {
	dir := t.TempDir()
	unlock, err := Lock(dir, "people")
	require.Nil(t, err)

	_, err = Lock(dir, "people")
	require.ErrorIs(t, err, ErrLocked)

	_, _, err = NewSystem(testConfig(dir), NewComparison()).Run(context.Background())
	require.ErrorIs(t, err, ErrLocked)

	unlock()
	again, err := Lock(dir, "people")
	require.Nil(t, err)
	again()
}
