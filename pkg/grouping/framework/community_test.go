package framework

import (
	"strings"
	"testing"

	"github.com/k8stopologyawareschedwg/podfingerprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sizes(c *Community) []int {
	out := make([]int, c.Len())
	for i, g := range c.Groups() {
		out[i] = g.Len()
	}
	return out
}

func assertPartition(t *testing.T, c *Community, universe []*Individual) {
	t.Helper()
	seen := make(map[*Individual]int)
	for _, ind := range c.AllIndividuals() {
		seen[ind]++
	}
	assert.Len(t, seen, len(universe))
	for _, ind := range universe {
		assert.Equal(t, 1, seen[ind], "individual %s", ind.ID)
	}
}

func fullCommunity() (*Community, []*Individual) {
	ind := makeIndividuals(6)
	return NewCommunity(
		groupOf("g0", 2, 2, ind[0], ind[1]),
		groupOf("g1", 2, 2, ind[2], ind[3]),
		groupOf("g2", 2, 2, ind[4], ind[5]),
	), ind
}

func TestAllIndividualsOrder(t *testing.T) {
	c, ind := fullCommunity()
	assert.Equal(t, ind, c.AllIndividuals())
	assert.Equal(t, 6, c.Size())
	assert.Equal(t, 3, c.Len())

	f := c.Features()
	require.Len(t, f, 3)
	assert.Equal(t, [][]float64{{2, 4}, {3, 6}}, f[1])
}

func TestLocateGroup(t *testing.T) {
	c, ind := fullCommunity()
	g, idx, ok := c.LocateGroup(ind[3])
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "g1", g.ID)

	_, idx, ok = c.LocateGroup(NewIndividual("3", ind[3].Features))
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}

func TestRelocateWithSwapBackKeepsSizes(t *testing.T) {
	rng := NewRand(5)
	c, ind := fullCommunity()
	for i := 0; i < 50; i++ {
		x := ind[rng.IntN(len(ind))]
		_, before, _ := c.LocateGroup(x)

		displaced, err := c.Relocate(rng, x, true)
		require.NoError(t, err)
		assert.Nil(t, displaced)

		_, after, ok := c.LocateGroup(x)
		require.True(t, ok)
		assert.NotEqual(t, before, after)
		assert.Equal(t, []int{2, 2, 2}, sizes(c))
		assertPartition(t, c, ind)
	}
}

func TestRelocateBetweenTwoFullGroupsSwaps(t *testing.T) {
	rng := NewRand(8)
	ind := makeIndividuals(4)
	c := NewCommunity(
		groupOf("left", 2, 2, ind[0], ind[1]),
		groupOf("right", 2, 2, ind[2], ind[3]),
	)
	for i := 0; i < 30; i++ {
		x := ind[rng.IntN(len(ind))]
		_, before, _ := c.LocateGroup(x)

		displaced, err := c.Relocate(rng, x, true)
		require.NoError(t, err)
		assert.Nil(t, displaced)

		_, after, ok := c.LocateGroup(x)
		require.True(t, ok)
		assert.Equal(t, 1-before, after)
		assert.Equal(t, []int{2, 2}, sizes(c))
		assertPartition(t, c, ind)
	}
}

func TestRelocateWithoutSwapBackReturnsDisplaced(t *testing.T) {
	c, ind := fullCommunity()
	displaced, err := c.Relocate(NewRand(9), ind[0], false)
	require.NoError(t, err)
	require.NotNil(t, displaced)

	_, _, ok := c.LocateGroup(displaced)
	assert.False(t, ok)
	assert.Equal(t, 5, c.Size())
	_, _, ok = c.LocateGroup(ind[0])
	assert.True(t, ok)
}

func TestRelocateIntoOpenGroup(t *testing.T) {
	ind := makeIndividuals(3)
	c := NewCommunity(groupOf("a", 0, 3, ind...), groupOf("b", 0, 3))

	displaced, err := c.Relocate(NewRand(1), ind[1], false)
	require.NoError(t, err)
	assert.Nil(t, displaced)
	assert.Equal(t, []int{2, 1}, sizes(c))
	assert.True(t, c.Group(1).Contains(ind[1]))
}

func TestRelocateErrors(t *testing.T) {
	ind := makeIndividuals(2)
	single := NewCommunity(groupOf("only", 0, 5, ind...))
	_, err := single.Relocate(NewRand(1), ind[0], true)
	assert.ErrorIs(t, err, ErrTooFewGroups)

	c, _ := fullCommunity()
	_, err = c.Relocate(NewRand(1), NewIndividual("stranger", nil), true)
	assert.ErrorIs(t, err, ErrIndividualNotFound)

	// a target that can hold nobody leaves the community unchanged
	closed := NewCommunity(groupOf("a", 0, 5, ind...), NewGroup("b", 2, 0, 0))
	_, err = closed.Relocate(NewRand(1), ind[0], true)
	assert.ErrorIs(t, err, ErrSizeConstraint)
	assert.Equal(t, []int{2, 0}, sizes(closed))
}

func TestRandomRelocationBetweenTwoGroups(t *testing.T) {
	rng := NewRand(21)
	c, ind := fullCommunity()
	for i := 0; i < 100; i++ {
		require.NoError(t, c.RandomRelocationBetweenTwoGroups(rng))
		assert.Equal(t, []int{2, 2, 2}, sizes(c))
		assertPartition(t, c, ind)
	}

	loose := NewCommunity(groupOf("a", 0, 6, ind[:3]...), groupOf("b", 0, 6, ind[3:]...))
	for i := 0; i < 100; i++ {
		require.NoError(t, loose.RandomRelocationBetweenTwoGroups(rng))
		assert.Equal(t, 6, loose.Size())
	}
	assertPartition(t, loose, ind)

	single := NewCommunity(groupOf("a", 0, 6, ind...))
	require.NoError(t, single.RandomRelocationBetweenTwoGroups(rng))
	assert.Equal(t, 6, single.Size())
}

func TestRandomRelocationIntoFullGroupKeepsBounds(t *testing.T) {
	rng := NewRand(13)
	ind := makeIndividuals(4)
	roomy := groupOf("roomy", 0, 4, ind[0], ind[1])
	full := groupOf("full", 0, 2, ind[2], ind[3])
	c := NewCommunity(roomy, full)
	for i := 0; i < 100; i++ {
		require.NoError(t, c.RandomRelocationBetweenTwoGroups(rng))
		assert.LessOrEqual(t, full.Len(), full.MaxSize)
		assert.LessOrEqual(t, roomy.Len(), roomy.MaxSize)
		assertPartition(t, c, ind)
	}
}

func TestShuffleIndividualsAcrossGroups(t *testing.T) {
	rng := NewRand(2)
	ind := makeIndividuals(10)
	c := NewCommunity(
		groupOf("a", 2, 4, ind[:5]...),
		groupOf("b", 3, 6, ind[5:]...),
		groupOf("c", 1, 2),
	)
	for i := 0; i < 20; i++ {
		require.NoError(t, c.ShuffleIndividualsAcrossGroups(rng))
		for _, g := range c.Groups() {
			assert.GreaterOrEqual(t, g.Len(), g.MinSize, g.ID)
			assert.LessOrEqual(t, g.Len(), g.MaxSize, g.ID)
		}
		assertPartition(t, c, ind)
	}

	tight := NewCommunity(groupOf("a", 0, 1, ind[:3]...), groupOf("b", 0, 1))
	err := tight.ShuffleIndividualsAcrossGroups(rng)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, []*Individual{ind[0], ind[1], ind[2]}, tight.AllIndividuals())
}

func TestDealIndividualsReturnsOverflow(t *testing.T) {
	ind := makeIndividuals(5)
	groups := []*Group{NewGroup("a", 2, 1, 2), NewGroup("b", 2, 0, 1)}
	rest := DealIndividuals(NewRand(4), ind, groups)
	assert.Len(t, rest, 2)
	assert.Equal(t, 2, groups[0].Len())
	assert.Equal(t, 1, groups[1].Len())
}

func TestCloneIsIndependent(t *testing.T) {
	c, ind := fullCommunity()
	clone := c.Clone()
	require.NoError(t, clone.Group(0).RemoveIndividual(ind[0], Override))
	assert.Equal(t, 6, c.Size())
	assert.Equal(t, 5, clone.Size())
	assert.Same(t, ind[1], clone.Group(0).Individuals()[0])
}

func TestFingerprint(t *testing.T) {
	c, ind := fullCommunity()
	reordered := NewCommunity(
		groupOf("g0", 2, 2, ind[1], ind[0]),
		groupOf("g1", 2, 2, ind[3], ind[2]),
		groupOf("g2", 2, 2, ind[5], ind[4]),
	)
	assert.Equal(t, c.Fingerprint(), reordered.Fingerprint())
	assert.Equal(t, c.Fingerprint(), c.Clone().Fingerprint())

	moved := NewCommunity(
		groupOf("g0", 2, 2, ind[2], ind[0]),
		groupOf("g1", 2, 2, ind[1], ind[3]),
		groupOf("g2", 2, 2, ind[4], ind[5]),
	)
	assert.NotEqual(t, c.Fingerprint(), moved.Fingerprint())
	assert.True(t, strings.HasPrefix(c.Fingerprint(), podfingerprint.Prefix+podfingerprint.Version))
}
