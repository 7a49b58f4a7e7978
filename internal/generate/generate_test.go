package generate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roommates/internal/ir"
	"github.com/roach88/roommates/internal/roommates"
)

func TestCount(t *testing.T) {
	assert.Equal(t, "1", Count(2).String())
	assert.Equal(t, "1296", Count(4).String())
	assert.Equal(t, "2985984000000", Count(6).String())
	assert.Equal(t, "0", Count(0).String())
}

func TestPermutationsOrder(t *testing.T) {
	got := slices.Collect(Permutations([]string{"a", "b", "c"}))
	assert.Equal(t, [][]string{
		{"a", "b", "c"},
		{"a", "c", "b"},
		{"b", "a", "c"},
		{"b", "c", "a"},
		{"c", "a", "b"},
		{"c", "b", "a"},
	}, got)

	assert.Equal(t, [][]string{{}}, slices.Collect(Permutations(nil)))
}

func TestExhaustiveSmall(t *testing.T) {
	all := slices.Collect(Exhaustive(2))
	require.Len(t, all, 1)
	assert.Equal(t, []string{"1", "2"}, all[0].Participants)
	assert.Equal(t, []string{"2"}, all[0].Preferences["1"])
	assert.Equal(t, []string{"1"}, all[0].Preferences["2"])
}

func TestExhaustiveFourIsCompleteAndDistinct(t *testing.T) {
	seen := make(map[string]bool)
	first := true
	for inst := range Exhaustive(4) {
		require.NoError(t, roommates.Validate(inst))
		if first {
			assert.Equal(t, []string{"2", "3", "4"}, inst.Preferences["1"])
			assert.Equal(t, []string{"1", "3", "4"}, inst.Preferences["2"])
			first = false
		}

		id, err := ir.InstanceID(inst)
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate instance")
		seen[id] = true
	}
	assert.Len(t, seen, 1296)
}

func TestExhaustiveStopsEarly(t *testing.T) {
	got := slices.Collect(Limit(Exhaustive(6), 5))
	require.Len(t, got, 5)

	// The last participant's list varies fastest.
	assert.Equal(t, got[0].Preferences["1"], got[4].Preferences["1"])
	assert.NotEqual(t, got[0].Preferences["6"], got[1].Preferences["6"])
}

func TestRandomIsSeeded(t *testing.T) {
	a := slices.Collect(Limit(Random(8, 42), 10))
	b := slices.Collect(Limit(Random(8, 42), 10))
	c := slices.Collect(Limit(Random(8, 43), 10))

	require.Len(t, a, 10)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	for _, inst := range a {
		assert.NoError(t, roommates.Validate(inst))
	}
}

func TestLimitZeroIsUnbounded(t *testing.T) {
	count := 0
	for range Limit(Exhaustive(4), 0) {
		count++
	}
	assert.Equal(t, 1296, count)
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	n, err := WriteFiles(dir, Limit(Random(4, 1), 3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, name := range []string{"1.test.json", "2.test.json", "3.test.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)

		var inst ir.Instance
		require.NoError(t, json.Unmarshal(data, &inst))
		assert.Equal(t, []string{"1", "2", "3", "4"}, inst.Participants)
		assert.NoError(t, roommates.Validate(inst))
	}
}
