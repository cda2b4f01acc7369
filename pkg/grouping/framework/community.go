package framework

import (
	"fmt"
	"slices"

	"github.com/k8stopologyawareschedwg/podfingerprint"
)

// Community is an ordered list of groups that partitions a universe of
// individuals: every individual of the universe sits in exactly one group.
//
// The constructor does not check the partition; operators that return a new
// Community are responsible for keeping it. A Community handed to a driver is
// a snapshot and is never mutated afterwards.
type Community struct {
	groups []*Group
}

func NewCommunity(groups ...*Group) *Community {
	return &Community{
		groups: slices.Clone(groups),
	}
}

// Groups returns the group list. The groups themselves are not copied.
func (c *Community) Groups() []*Group {
	return slices.Clone(c.groups)
}

func (c *Community) Group(i int) *Group {
	return c.groups[i]
}

// Len is the number of groups.
func (c *Community) Len() int {
	return len(c.groups)
}

func (c *Community) AddGroup(g *Group) {
	c.groups = append(c.groups, g)
}

// Clone returns a snapshot with fresh groups sharing the same individuals.
func (c *Community) Clone() *Community {
	groups := make([]*Group, len(c.groups))
	for i, g := range c.groups {
		groups[i] = g.Clone()
	}
	return &Community{groups: groups}
}

// AllIndividuals flattens the groups in group order, then member order.
func (c *Community) AllIndividuals() []*Individual {
	all := make([]*Individual, 0, c.Size())
	for _, g := range c.groups {
		all = append(all, g.individuals...)
	}
	return all
}

// Size is the total number of placed individuals.
func (c *Community) Size() int {
	n := 0
	for _, g := range c.groups {
		n += g.Len()
	}
	return n
}

// Features returns the members' feature vectors grouped by group.
func (c *Community) Features() [][][]float64 {
	out := make([][][]float64, len(c.groups))
	for i, g := range c.groups {
		out[i] = make([][]float64, 0, g.Len())
		for _, ind := range g.individuals {
			out[i] = append(out[i], ind.Features)
		}
	}
	return out
}

// LocateGroup returns the group holding ind and its position.
func (c *Community) LocateGroup(ind *Individual) (*Group, int, bool) {
	for i, g := range c.groups {
		if g.Contains(ind) {
			return g, i, true
		}
	}
	return nil, -1, false
}

// Relocate moves ind out of its group, ignoring that group's MinSize, and into
// a uniformly random other group via AddOrSwap.
//
// If the target was full, one resident is displaced. With allowSwapBack the
// displaced resident goes into the source group (ignoring MaxSize), so group
// sizes are unchanged, and nil is returned. Without it the displaced resident
// is returned and belongs to no group: the caller must place or drop it.
func (c *Community) Relocate(rng Rand, ind *Individual, allowSwapBack bool) (*Individual, error) {
	if len(c.groups) < 2 {
		return nil, ErrTooFewGroups
	}
	from, idx, ok := c.LocateGroup(ind)
	if !ok {
		return nil, ErrIndividualNotFound
	}
	if err := from.RemoveIndividual(ind, Override); err != nil {
		return nil, err
	}

	j := rng.IntN(len(c.groups) - 1)
	if j >= idx {
		j++
	}
	to := c.groups[j]

	displaced, err := to.AddOrSwap(rng, ind)
	if err != nil {
		// target cannot hold anyone; put ind back where it was
		if rerr := from.AddIndividual(ind, Override); rerr != nil {
			return nil, rerr
		}
		return nil, err
	}
	if displaced == nil {
		return nil, nil
	}
	if !allowSwapBack {
		return displaced, nil
	}
	return nil, from.AddIndividual(displaced, Override)
}

// RelocateRandom calls Relocate on a uniformly random member of the community.
func (c *Community) RelocateRandom(rng Rand, allowSwapBack bool) (*Individual, error) {
	if len(c.groups) < 2 {
		return nil, ErrTooFewGroups
	}
	ind, ok := Sample(rng, c.AllIndividuals())
	if !ok {
		return nil, ErrIndividualNotFound
	}
	return c.Relocate(rng, ind, allowSwapBack)
}

// RandomRelocationBetweenTwoGroups moves one random member between two
// distinct random groups. When the source is at its minimum or the destination
// at its maximum, a random destination member is pulled out first and put into
// the source afterwards, so the move becomes a swap and both sizes hold.
// Communities with fewer than two groups are left alone.
func (c *Community) RandomRelocationBetweenTwoGroups(rng Rand) error {
	n := len(c.groups)
	if n < 2 {
		return nil
	}
	i := rng.IntN(n)
	j := rng.IntN(n - 1)
	if j >= i {
		j++
	}
	from, to := c.groups[i], c.groups[j]
	if from.Len() == 0 {
		return nil
	}

	var (
		pulled *Individual
		err    error
	)
	if (!from.CanRemove() || !to.CanAdd()) && to.Len() > 0 {
		if pulled, err = to.RemoveRandomIndividual(rng, Override); err != nil {
			return err
		}
	}

	moved, err := from.RemoveRandomIndividual(rng, Override)
	if err != nil {
		return err
	}
	if err = to.AddIndividual(moved, Override); err != nil {
		return err
	}
	if pulled != nil {
		return from.AddIndividual(pulled, Override)
	}
	return nil
}

// ShuffleIndividualsAcrossGroups empties every group and deals all members
// out again at random: each group is filled to MinSize first, then the rest go
// to random groups that still have room. The community is left untouched when
// the members cannot satisfy the bounds.
func (c *Community) ShuffleIndividualsAcrossGroups(rng Rand) error {
	all := c.AllIndividuals()
	if err := checkCapacity(len(all), c.groups); err != nil {
		return err
	}
	for _, g := range c.groups {
		g.individuals = nil
	}
	if rest := DealIndividuals(rng, all, c.groups); len(rest) > 0 {
		return fmt.Errorf("%w: %d individuals left over", ErrCapacityExceeded, len(rest))
	}
	return nil
}

func checkCapacity(n int, groups []*Group) error {
	minTotal, maxTotal := 0, 0
	for _, g := range groups {
		minTotal += g.MinSize
		maxTotal += g.MaxSize
	}
	if n < minTotal || n > maxTotal {
		return fmt.Errorf("%w: %d individuals, bounds allow [%d, %d]", ErrCapacityExceeded, n, minTotal, maxTotal)
	}
	return nil
}

// DealIndividuals places individuals into groups the way
// ShuffleIndividualsAcrossGroups does, without emptying the groups first.
// It returns the individuals that did not fit.
func DealIndividuals(rng Rand, individuals []*Individual, groups []*Group) []*Individual {
	pending := slices.Clone(individuals)
	rng.Shuffle(len(pending), func(i, j int) { pending[i], pending[j] = pending[j], pending[i] })

	var (
		rest []*Individual
		open []*Group
	)
	next := 0
	for _, g := range groups {
		for g.Len() < g.MinSize && g.CanAdd() && next < len(pending) {
			g.individuals = append(g.individuals, pending[next])
			next++
		}
	}
	for ; next < len(pending); next++ {
		open = open[:0]
		for _, g := range groups {
			if g.CanAdd() {
				open = append(open, g)
			}
		}
		g, ok := Sample(rng, open)
		if !ok {
			rest = append(rest, pending[next:]...)
			break
		}
		g.individuals = append(g.individuals, pending[next])
	}
	return rest
}

// Fingerprint identifies the partition independent of member order: two
// communities placing the same member ids under the same group ids share it.
func (c *Community) Fingerprint() string {
	fp := podfingerprint.NewFingerprint(c.Size())
	for _, g := range c.groups {
		for _, ind := range g.individuals {
			_ = fp.Add(g.ID, ind.ID) // never fails
		}
	}
	return fp.Sign()
}
