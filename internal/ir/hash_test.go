package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairInstance(order ...string) Instance {
	return NewInstance(order, map[string][]string{"A": {"B"}, "B": {"A"}})
}

func TestInstanceIDDeterminism(t *testing.T) {
	id1, err := InstanceID(pairInstance("A", "B"))
	require.NoError(t, err)

	id2, err := InstanceID(pairInstance("A", "B"))
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "InstanceID must be deterministic")
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestInstanceIDIncludesOrder(t *testing.T) {
	id1, err := InstanceID(pairInstance("A", "B"))
	require.NoError(t, err)
	id2, err := InstanceID(pairInstance("B", "A"))
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2, "participant order is part of the identity")
}

func TestInstanceIDChangesWithPreferences(t *testing.T) {
	a := NewInstance([]string{"A", "B", "C", "D"}, map[string][]string{
		"A": {"B", "C", "D"}, "B": {"A", "C", "D"}, "C": {"D", "A", "B"}, "D": {"C", "A", "B"},
	})
	b := a.Clone()
	b.Preferences["A"] = []string{"C", "B", "D"}

	idA, err := InstanceID(a)
	require.NoError(t, err)
	idB, err := InstanceID(b)
	require.NoError(t, err)

	assert.NotEqual(t, idA, idB)
}

func TestMatchingHashIgnoresKeyOrder(t *testing.T) {
	h1, err := MatchingHash(map[string]string{"A": "B", "B": "A", "C": "D", "D": "C"})
	require.NoError(t, err)
	h2, err := MatchingHash(map[string]string{"D": "C", "C": "D", "B": "A", "A": "B"})
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
}

func TestMatchingHashDomainSeparation(t *testing.T) {
	empty, err := MatchingHash(nil)
	require.NoError(t, err)

	// Same canonical bytes under a different domain must not collide.
	assert.NotEqual(t, hashWithDomain(DomainInstance, []byte("{}")), empty)
	assert.Equal(t, hashWithDomain(DomainMatching, []byte("{}")), empty)
}
