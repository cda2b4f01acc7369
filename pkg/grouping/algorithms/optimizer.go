package algorithms

import (
	"github.com/go-logr/logr"
	"k8s.io/klog/v2"

	"github.com/willynilly/diverse-groups/pkg/grouping/framework"
)

const (
	// OptimizerName identifies the partition operators.
	OptimizerName = "PartitionOptimizer"

	// LeftoverGroupID is the id of the bucket holding individuals that no
	// real group takes. It is excluded from scoring by default.
	LeftoverGroupID = "leftover"
)

// LeftoverPolicy decides what happens to individuals still in the crossover
// leftover pool once every group position has been processed.
type LeftoverPolicy string

const (
	// LeftoverFold deals the remaining pool members back into the offspring,
	// preferring groups below MinSize, then groups with room, then the group
	// with the most headroom. The offspring always holds the full universe.
	LeftoverFold LeftoverPolicy = "Fold"

	// LeftoverDiscard drops the pool. Population is only preserved when the
	// group bounds of the second parent add up to the universe size exactly.
	LeftoverDiscard LeftoverPolicy = "Discard"
)

// MutationStrategy selects the neighbourhood move used by Mutate.
type MutationStrategy string

const (
	// MutationRelocate moves one random individual to a random other group,
	// swapping back any displaced resident.
	MutationRelocate MutationStrategy = "Relocate"

	// MutationTransfer moves one individual between two random groups,
	// turning the move into a swap when a bound would break.
	MutationTransfer MutationStrategy = "Transfer"
)

// PartitionOptimizer supplies the mutation, crossover and fitness callbacks
// for an evolutionary driver. Each call is a pure transformation of its input
// snapshots; the only state is the random source, so an optimizer must not be
// shared between goroutines.
type PartitionOptimizer struct {
	rng       framework.Rand
	distance  framework.DistanceFunc
	notScored map[string]struct{}
	leftover  LeftoverPolicy
	mutation  MutationStrategy
	logger    logr.Logger
}

var _ framework.Operators = &PartitionOptimizer{}
var _ framework.Algorithm = &PartitionOptimizer{}

type Option func(*PartitionOptimizer)

// WithRand injects the random source.
func WithRand(rng framework.Rand) Option {
	return func(o *PartitionOptimizer) { o.rng = rng }
}

// WithSeed uses a deterministic source seeded with seed.
func WithSeed(seed uint64) Option {
	return func(o *PartitionOptimizer) { o.rng = framework.NewRand(seed) }
}

func WithDistance(d framework.DistanceFunc) Option {
	return func(o *PartitionOptimizer) { o.distance = d }
}

// WithGroupIDsToNotScore replaces the set of group ids excluded from Fitness.
func WithGroupIDsToNotScore(ids ...string) Option {
	return func(o *PartitionOptimizer) {
		o.notScored = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			o.notScored[id] = struct{}{}
		}
	}
}

func WithLeftoverPolicy(p LeftoverPolicy) Option {
	return func(o *PartitionOptimizer) { o.leftover = p }
}

func WithMutationStrategy(s MutationStrategy) Option {
	return func(o *PartitionOptimizer) { o.mutation = s }
}

func WithLogger(logger logr.Logger) Option {
	return func(o *PartitionOptimizer) { o.logger = logger }
}

// NewPartitionOptimizer creates an optimizer with Euclidean distance, the
// leftover group unscored, LeftoverFold and MutationRelocate.
func NewPartitionOptimizer(opts ...Option) *PartitionOptimizer {
	o := &PartitionOptimizer{
		distance:  framework.Euclidean,
		notScored: map[string]struct{}{LeftoverGroupID: {}},
		leftover:  LeftoverFold,
		mutation:  MutationRelocate,
		logger:    klog.Background(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		o.rng = framework.NewRand(0)
	}
	return o
}

func (o *PartitionOptimizer) Name() string {
	return OptimizerName
}

// Mutate returns a copy of c with one random individual moved to another group.
// The input is not modified and the population is always preserved.
func (o *PartitionOptimizer) Mutate(c *framework.Community) *framework.Community {
	mutated := c.Clone()
	if mutated.Len() < 2 || mutated.Size() == 0 {
		return mutated
	}

	var err error
	switch o.mutation {
	case MutationTransfer:
		err = mutated.RandomRelocationBetweenTwoGroups(o.rng)
	default:
		_, err = mutated.RelocateRandom(o.rng, true)
	}
	if err != nil {
		o.logger.V(4).Info("mutation skipped", "strategy", o.mutation, "err", err)
	}
	return mutated
}

// Fitness is the sum of GroupScore over every scored group. Lower is better.
func (o *PartitionOptimizer) Fitness(c *framework.Community) float64 {
	total := 0.0
	for _, g := range c.Groups() {
		if _, skip := o.notScored[g.ID]; skip {
			continue
		}
		total += o.GroupScore(g)
	}
	return total
}

// GroupScore sums the distances from the group centroid to every member.
// An empty group scores 0.
func (o *PartitionOptimizer) GroupScore(g *framework.Group) float64 {
	if g.Len() == 0 {
		return 0
	}
	centroid := g.Centroid()
	score := 0.0
	for _, ind := range g.Individuals() {
		score += o.distance(centroid, ind.Features)
	}
	return score
}

// Crossover recombines a and b group position by group position.
//
// Parents with different group counts are returned unchanged. Otherwise the
// positions are visited in random order, each producing one offspring group
// via CrossoverGroup, with a leftover pool shared across positions. A single
// offspring is produced and returned twice.
func (o *PartitionOptimizer) Crossover(a, b *framework.Community) (*framework.Community, *framework.Community) {
	if a.Len() != b.Len() {
		return a, b
	}

	universe := a.AllIndividuals()
	featureCount := 0
	if len(universe) > 0 {
		featureCount = universe[0].FeatureCount()
	}
	leftover := framework.NewGroup(LeftoverGroupID, featureCount, 0, len(universe))

	groupsA, groupsB := a.Groups(), b.Groups()
	groupsC := make([]*framework.Group, len(groupsA))
	for _, i := range o.rng.Perm(len(groupsA)) {
		groupsC[i] = o.CrossoverGroup(groupsA[i], groupsB[i], leftover)
	}

	if leftover.Len() > 0 {
		switch o.leftover {
		case LeftoverDiscard:
			o.logger.V(4).Info("discarding crossover leftovers", "count", leftover.Len())
		default:
			o.foldLeftover(groupsC, leftover)
		}
	}

	c := framework.NewCommunity(groupsC...)
	return c, c
}

// CrossoverGroup builds the offspring group for one position.
//
// Members shared by groupA and groupB are kept first. Free slots are filled
// at random from groupB's own members, then from the shared leftover pool.
// groupB's members that did not fit are added to the pool for the positions
// processed later. The offspring carries groupB's id and bounds.
func (o *PartitionOptimizer) CrossoverGroup(groupA, groupB, leftover *framework.Group) *framework.Group {
	iGroup := groupA.IntersectionGroup(groupB)
	dGroup := groupA.DifferenceGroup(groupB)

	if n := iGroup.AddableCount(); n > 0 {
		sub, _ := dGroup.ExtractRandomSubgroup(o.rng, n, framework.Override)
		o.mustAdd(iGroup, sub)

		if n = iGroup.AddableCount(); n > 0 {
			sub, _ = leftover.ExtractRandomSubgroup(o.rng, n, framework.Override)
			o.mustAdd(iGroup, sub)
		}
	}

	o.mustAdd(leftover, dGroup)
	return iGroup
}

// mustAdd merges src into dst with Override. The sources are disjoint from dst
// by construction, so a failure means the parents were not partitions of the
// same universe.
func (o *PartitionOptimizer) mustAdd(dst, src *framework.Group) {
	if err := dst.AddGroup(src, framework.Override); err != nil {
		o.logger.Error(err, "crossover parents overlap", "group", dst.ID)
	}
}

func (o *PartitionOptimizer) foldLeftover(groups []*framework.Group, leftover *framework.Group) {
	for _, ind := range framework.SampleN(o.rng, leftover.Individuals(), leftover.Len()) {
		target := o.foldTarget(groups)
		if target == nil {
			return
		}
		if err := target.AddIndividual(ind, framework.Override); err != nil {
			o.logger.Error(err, "folding leftover individual", "individual", ind.ID)
		}
	}
}

// foldTarget prefers a random group below MinSize, then a random group with
// room, then the group with the most headroom.
func (o *PartitionOptimizer) foldTarget(groups []*framework.Group) *framework.Group {
	var under, open []*framework.Group
	for _, g := range groups {
		if g.Len() < g.MinSize {
			under = append(under, g)
		}
		if g.CanAdd() {
			open = append(open, g)
		}
	}
	if g, ok := framework.Sample(o.rng, under); ok {
		return g
	}
	if g, ok := framework.Sample(o.rng, open); ok {
		return g
	}

	var best *framework.Group
	for _, g := range groups {
		if best == nil || g.MaxSize-g.Len() > best.MaxSize-best.Len() {
			best = g
		}
	}
	return best
}
