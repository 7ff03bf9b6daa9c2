package seatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelsPartialLastRow(t *testing.T) {
	labels := Labels(12)
	require.Len(t, labels, 12)
	assert.Equal(t, []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9", "A10", "B1", "B2"}, labels)
}

func TestLabelsFullRows(t *testing.T) {
	labels := Labels(20)
	require.Len(t, labels, 20)
	assert.Equal(t, "A1", labels[0])
	assert.Equal(t, "A10", labels[9])
	assert.Equal(t, "B1", labels[10])
	assert.Equal(t, "B10", labels[19])
}

func TestLabelsNonPositive(t *testing.T) {
	assert.Empty(t, Labels(0))
	assert.Empty(t, Labels(-3))
}

func TestLabelsAreUnique(t *testing.T) {
	for _, n := range []int{1, 10, 11, 137, 260, 300} {
		labels := Labels(n)
		require.Len(t, labels, n)
		seen := make(map[string]struct{}, n)
		for _, l := range labels {
			_, dup := seen[l]
			require.False(t, dup, "capacity %d produced duplicate label %s", n, l)
			seen[l] = struct{}{}
		}
	}
}

func TestRowLettersWrapPastZ(t *testing.T) {
	labels := Labels(261)
	// Row index 26 is the first two-letter row.
	assert.Equal(t, "AA1", labels[260])
}

func TestAvailableSubtractsBooked(t *testing.T) {
	avail := Available(12, []string{"A2", "B1"})
	require.Len(t, avail, 10)
	assert.NotContains(t, avail, "A2")
	assert.NotContains(t, avail, "B1")
	assert.Equal(t, "A1", avail[0], "order of remaining labels is preserved")
}

func TestAvailableIgnoresForeignLabels(t *testing.T) {
	// Labels outside the universe must not affect the result.
	avail := Available(2, []string{"Z99"})
	assert.Equal(t, []string{"A1", "A2"}, avail)
}

func TestLabelSetMatchesLabels(t *testing.T) {
	set := LabelSet(12)
	require.Len(t, set, 12)
	for _, l := range Labels(12) {
		_, ok := set[l]
		assert.True(t, ok, "label %s missing from set", l)
	}
}
