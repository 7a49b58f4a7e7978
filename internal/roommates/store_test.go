package roommates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roommates/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(testutil.Parse(
		"A: B C D",
		"B: C A D",
		"C: A B D",
		"D: A B C",
	))
	require.NoError(t, err)
	return s
}

func TestNewStoreRejectsMalformed(t *testing.T) {
	_, err := NewStore(testutil.Parse("A: B", "B: A", "C: A"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputMalformed)
}

func TestStoreIDsInInstanceOrder(t *testing.T) {
	s, err := NewStore(testutil.Parse("D: C", "C: D"))
	require.NoError(t, err)

	assert.Equal(t, []string{"D", "C"}, s.IDs())
	assert.Equal(t, 2, s.Len())
}

func TestRank(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, 3, s.Rank("A", "B"))
	assert.Equal(t, 2, s.Rank("A", "C"))
	assert.Equal(t, 1, s.Rank("A", "D"))
	assert.Equal(t, Absent, s.Rank("A", "A"), "self is never ranked")
	assert.Equal(t, Absent, s.Rank("A", "Z"))
	assert.Equal(t, Absent, s.Rank("Z", "A"))
}

func TestRankStableAfterRemoval(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.RemoveMutual("A", "B"))

	// Ranks are positional in the original list; removal does not shift them.
	assert.Equal(t, Absent, s.Rank("A", "B"))
	assert.Equal(t, 2, s.Rank("A", "C"))
	assert.Equal(t, 1, s.Rank("A", "D"))
}

func TestNthRemaining(t *testing.T) {
	s := newTestStore(t)

	first, err := s.NthRemaining("B", 1)
	require.NoError(t, err)
	assert.Equal(t, "C", first)

	third, err := s.NthRemaining("B", 3)
	require.NoError(t, err)
	assert.Equal(t, "D", third)

	last, err := s.NthRemaining("B", Last)
	require.NoError(t, err)
	assert.Equal(t, "D", last)

	require.NoError(t, s.RemoveMutual("B", "C"))
	first, err = s.NthRemaining("B", 1)
	require.NoError(t, err)
	assert.Equal(t, "A", first, "skips removed entries")

	_, err = s.NthRemaining("B", 3)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = s.NthRemaining("B", 0)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = s.NthRemaining("Z", 1)
	assert.ErrorIs(t, err, ErrUnknownParticipant)
}

func TestNthRemainingLastOnEmptyList(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.RemoveMutual("D", "A"))
	require.NoError(t, s.RemoveMutual("D", "B"))
	require.NoError(t, s.RemoveMutual("D", "C"))

	_, err := s.NthRemaining("D", Last)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 0, s.RemainingCount("D"))
}

func TestRemoveMutualIsSymmetric(t *testing.T) {
	s := newTestStore(t)
	before := s.TotalRemaining()

	require.NoError(t, s.RemoveMutual("A", "C"))

	assert.Equal(t, []string{"B", "D"}, s.Remaining("A"))
	assert.Equal(t, []string{"B", "D"}, s.Remaining("C"))
	assert.Equal(t, 2, s.RemainingCount("A"))
	assert.Equal(t, 2, s.RemainingCount("C"))
	assert.Equal(t, before-2, s.TotalRemaining())
}

func TestRemoveMutualTwiceFailsWithoutChange(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.RemoveMutual("A", "C"))
	total := s.TotalRemaining()

	err := s.RemoveMutual("C", "A")
	assert.ErrorIs(t, err, ErrNotPresent)
	assert.Equal(t, total, s.TotalRemaining())

	err = s.RemoveMutual("A", "Z")
	assert.ErrorIs(t, err, ErrUnknownParticipant)
	assert.Equal(t, total, s.TotalRemaining())
}

func TestEntriesMarksRemoved(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.RemoveMutual("A", "C"))

	assert.Equal(t, []Entry{
		{ID: "B"},
		{ID: "C", Removed: true},
		{ID: "D"},
	}, s.Entries("A"))
	assert.Nil(t, s.Entries("Z"))
	assert.Nil(t, s.Remaining("Z"))
	assert.Equal(t, 0, s.RemainingCount("Z"))
}

func TestHeldAndProposed(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.Held("A")
	assert.False(t, ok)
	assert.False(t, s.Proposed("B"))

	s.setHeld("A", "B")
	s.setProposed("B", true)

	held, ok := s.Held("A")
	assert.True(t, ok)
	assert.Equal(t, "B", held)
	assert.True(t, s.Proposed("B"))

	s.clearHeld("A")
	_, ok = s.Held("A")
	assert.False(t, ok)
}

func TestNewStoreCopiesInput(t *testing.T) {
	inst := testutil.Parse("A: B", "B: A")
	s, err := NewStore(inst)
	require.NoError(t, err)

	inst.Preferences["A"][0] = "X"
	inst.Participants[0] = "Y"

	assert.Equal(t, []string{"B"}, s.Remaining("A"))
	assert.Equal(t, []string{"A", "B"}, s.IDs())
}
