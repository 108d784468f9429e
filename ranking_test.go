package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func formatsOf(measurements []Measurement) []Format {
	formats := make([]Format, len(measurements))
	for i, m := range measurements {
		formats[i] = m.Format
	}
	return formats
}

func TestRankDeterministicTies(t *testing.T) {
	input := []Measurement{
		{Format: FormatToon, Elapsed: 2 * time.Second},
		{Format: FormatCSV, Elapsed: 2 * time.Second},
		{Format: FormatStructuredText, Elapsed: time.Second},
	}
	expected := []Format{FormatStructuredText, FormatCSV, FormatToon}
	for i := 0; i < 10; i++ {
		require.Equal(t, expected, formatsOf(Rank(input)))
	}
	reversed := []Measurement{input[2], input[1], input[0]}
	require.Equal(t, expected, formatsOf(Rank(reversed)))
	require.Equal(t, FormatToon, input[0].Format)
}

func TestRankTieBreakers(t *testing.T) {
	input := []Measurement{
		{Format: FormatRelational, Elapsed: time.Second, Memory: 10, FileSize: 5},
		{Format: FormatCSV, Elapsed: time.Second, Memory: 10, FileSize: 1},
		{Format: FormatStructuredText, Elapsed: time.Second, Memory: 1, FileSize: 100},
		{Format: FormatToon, Elapsed: 3 * time.Second},
	}
	require.Equal(t,
		[]Format{FormatStructuredText, FormatCSV, FormatRelational, FormatToon},
		formatsOf(Rank(input)),
	)

	fastest, ok := Fastest(input)
	require.True(t, ok)
	require.Equal(t, FormatStructuredText, fastest.Format)
	slowest, ok := Slowest(input)
	require.True(t, ok)
	require.Equal(t, FormatToon, slowest.Format)

	_, ok = Fastest(nil)
	require.False(t, ok)
	_, ok = Slowest(nil)
	require.False(t, ok)
	require.Empty(t, Rank(nil))
}

func TestComparison(t *testing.T) {
	comparison := NewComparison()
	comparison.Put(Measurement{Format: FormatCSV, Elapsed: 3 * time.Second})
	comparison.Put(Measurement{Format: FormatToon, Elapsed: 2 * time.Second})
	require.Equal(t, []Format{FormatToon, FormatCSV}, formatsOf(comparison.Ranking()))

	comparison.Put(Measurement{Format: FormatCSV, Elapsed: time.Second})
	require.Equal(t, []Format{FormatCSV, FormatToon}, formatsOf(comparison.Ranking()))
	m, ok := comparison.Get(FormatCSV)
	require.True(t, ok)
	require.Equal(t, time.Second, m.Elapsed)

	comparison.Remove(FormatCSV)
	require.Equal(t, []Format{FormatToon}, formatsOf(comparison.Ranking()))
	_, ok = comparison.Get(FormatCSV)
	require.False(t, ok)
}
