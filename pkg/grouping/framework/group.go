package framework

import (
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Group is an ordered, duplicate-free, size-bounded collection of individuals.
//
// The bound MinSize <= Len() <= MaxSize is soft: every mutator takes a
// SizePolicy and only Strict calls enforce it. Membership is by identity.
type Group struct {
	ID           string
	FeatureCount int
	MinSize      int
	MaxSize      int

	individuals []*Individual
}

func NewGroup(id string, featureCount, minSize, maxSize int) *Group {
	return &Group{
		ID:           id,
		FeatureCount: featureCount,
		MinSize:      minSize,
		MaxSize:      maxSize,
	}
}

// CloneEmpty returns a group with the same id and bounds and no members.
func (g *Group) CloneEmpty() *Group {
	return NewGroup(g.ID, g.FeatureCount, g.MinSize, g.MaxSize)
}

// Clone returns a group with the same bounds and members. Individuals are shared.
func (g *Group) Clone() *Group {
	c := g.CloneEmpty()
	c.individuals = slices.Clone(g.individuals)
	return c
}

func (g *Group) Len() int {
	return len(g.individuals)
}

// Individuals returns a copy of the member list.
func (g *Group) Individuals() []*Individual {
	return slices.Clone(g.individuals)
}

func (g *Group) Contains(ind *Individual) bool {
	return slices.Contains(g.individuals, ind)
}

func (g *Group) CanAdd() bool {
	return len(g.individuals) < g.MaxSize
}

func (g *Group) CanRemove() bool {
	return len(g.individuals) > g.MinSize
}

// AddableCount is how many members can be added before MaxSize is reached.
func (g *Group) AddableCount() int {
	if !g.CanAdd() {
		return 0
	}
	return g.MaxSize - len(g.individuals)
}

// RemovableCount is how many members can be removed before MinSize is reached.
func (g *Group) RemovableCount() int {
	if !g.CanRemove() {
		return 0
	}
	return len(g.individuals) - g.MinSize
}

func (g *Group) membership() map[*Individual]struct{} {
	set := make(map[*Individual]struct{}, len(g.individuals))
	for _, ind := range g.individuals {
		set[ind] = struct{}{}
	}
	return set
}

// IntersectionGroup returns the members of other that also belong to g, in
// other's order. The result carries other's id and bounds.
func (g *Group) IntersectionGroup(other *Group) *Group {
	return g.filter(other, true)
}

// DifferenceGroup returns the members of other that do not belong to g, in
// other's order. The result carries other's id and bounds.
func (g *Group) DifferenceGroup(other *Group) *Group {
	return g.filter(other, false)
}

func (g *Group) filter(other *Group, keepShared bool) *Group {
	members := g.membership()
	out := other.CloneEmpty()
	for _, ind := range other.individuals {
		if _, shared := members[ind]; shared == keepShared {
			out.individuals = append(out.individuals, ind)
		}
	}
	return out
}

// RandomSubgroup samples n members without replacement into a new group with
// g's bounds. g is not modified. n is clamped to Len().
func (g *Group) RandomSubgroup(rng Rand, n int) *Group {
	sub := g.CloneEmpty()
	sub.individuals = SampleN(rng, g.individuals, n)
	return sub
}

// ExtractRandomSubgroup is RandomSubgroup followed by removal of the sampled
// members from g. Under Strict it fails when n exceeds RemovableCount.
func (g *Group) ExtractRandomSubgroup(rng Rand, n int, policy SizePolicy) (*Group, error) {
	if policy == Strict && n > g.RemovableCount() {
		return nil, ErrSizeConstraint
	}
	sub := g.RandomSubgroup(rng, n)
	g.individuals = sub.DifferenceGroup(g).individuals
	return sub, nil
}

func (g *Group) AddIndividual(ind *Individual, policy SizePolicy) error {
	if ind == nil {
		return ErrNilIndividual
	}
	if g.Contains(ind) {
		return ErrDuplicateIndividual
	}
	if policy == Strict && !g.CanAdd() {
		return ErrSizeConstraint
	}
	g.individuals = append(g.individuals, ind)
	return nil
}

// AddIndividuals adds the whole batch or nothing.
func (g *Group) AddIndividuals(batch []*Individual, policy SizePolicy) error {
	if policy == Strict && len(batch) > g.AddableCount() {
		return ErrSizeConstraint
	}
	seen := g.membership()
	for _, ind := range batch {
		if ind == nil {
			return ErrNilIndividual
		}
		if _, dup := seen[ind]; dup {
			return ErrDuplicateIndividual
		}
		seen[ind] = struct{}{}
	}
	g.individuals = append(g.individuals, batch...)
	return nil
}

// AddGroup adds all members of other. A nil or empty group is a no-op.
func (g *Group) AddGroup(other *Group, policy SizePolicy) error {
	if other == nil || other.Len() == 0 {
		return nil
	}
	return g.AddIndividuals(other.individuals, policy)
}

func (g *Group) RemoveIndividual(ind *Individual, policy SizePolicy) error {
	idx := slices.Index(g.individuals, ind)
	if idx < 0 {
		return ErrIndividualNotFound
	}
	if policy == Strict && !g.CanRemove() {
		return ErrSizeConstraint
	}
	g.individuals = slices.Delete(g.individuals, idx, idx+1)
	return nil
}

// RemoveRandomIndividual removes and returns a uniformly random member.
func (g *Group) RemoveRandomIndividual(rng Rand, policy SizePolicy) (*Individual, error) {
	ind, ok := Sample(rng, g.individuals)
	if !ok {
		return nil, ErrEmptyGroup
	}
	if err := g.RemoveIndividual(ind, policy); err != nil {
		return nil, err
	}
	return ind, nil
}

// AddOrSwap adds ind when capacity remains and returns nil. When the group is
// full, a uniformly random resident is replaced by ind and returned.
// A full group with no residents (MaxSize == 0) cannot take ind.
func (g *Group) AddOrSwap(rng Rand, ind *Individual) (*Individual, error) {
	if g.CanAdd() {
		return nil, g.AddIndividual(ind, Strict)
	}
	if ind == nil {
		return nil, ErrNilIndividual
	}
	if g.Contains(ind) {
		return nil, ErrDuplicateIndividual
	}
	displaced, err := g.RemoveRandomIndividual(rng, Override)
	if err != nil {
		return nil, ErrSizeConstraint
	}
	g.individuals = append(g.individuals, ind)
	return displaced, nil
}

// Sum is the component-wise sum of the members' features. An empty group
// yields a zero vector of FeatureCount.
func (g *Group) Sum() []float64 {
	if len(g.individuals) == 0 {
		return make([]float64, g.FeatureCount)
	}
	sum := make([]float64, len(g.individuals[0].Features))
	for _, ind := range g.individuals {
		floats.Add(sum, ind.Features)
	}
	return sum
}

// Centroid is the component-wise mean of the members' features.
func (g *Group) Centroid() []float64 {
	sum := g.Sum()
	if n := len(g.individuals); n > 0 {
		floats.Scale(1/float64(n), sum)
	}
	return sum
}
