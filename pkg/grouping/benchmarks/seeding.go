package benchmarks

import (
	"fmt"
	"strconv"

	"github.com/willynilly/diverse-groups/pkg/grouping/algorithms"
	"github.com/willynilly/diverse-groups/pkg/grouping/framework"
)

// CreateRandomIndividuals creates count individuals with ids "0".."count-1"
// and featureCount random features in [minValue, maxValue], drawn as
// Randomize does.
func CreateRandomIndividuals(rng framework.Rand, count, featureCount int, minValue, maxValue float64) []*framework.Individual {
	individuals := make([]*framework.Individual, count)
	for i := range count {
		individuals[i] = framework.NewRandomIndividual(rng, strconv.Itoa(i), featureCount, minValue, maxValue)
	}
	return individuals
}

// IndividualsByRange creates one individual per index in [start, end] whose
// features all equal the index. Handy for readable fixtures.
func IndividualsByRange(featureCount, start, end int) []*framework.Individual {
	if end < start {
		return nil
	}
	individuals := make([]*framework.Individual, 0, end-start+1)
	for num := start; num <= end; num++ {
		features := make([]float64, featureCount)
		for j := range features {
			features[j] = float64(num)
		}
		individuals = append(individuals, framework.NewIndividual(strconv.Itoa(num), features))
	}
	return individuals
}

// CreateRandomEmptyGroups creates count empty groups whose bounds are drawn
// from [minGroupSize, maxGroupSize] with MinSize <= MaxSize.
func CreateRandomEmptyGroups(rng framework.Rand, count, featureCount, minGroupSize, maxGroupSize int) []*framework.Group {
	if minGroupSize > maxGroupSize {
		minGroupSize, maxGroupSize = maxGroupSize, minGroupSize
	}
	span := maxGroupSize - minGroupSize + 1
	groups := make([]*framework.Group, count)
	for i := range count {
		lo := minGroupSize + rng.IntN(span)
		hi := minGroupSize + rng.IntN(span)
		if lo > hi {
			lo, hi = hi, lo
		}
		groups[i] = framework.NewGroup(fmt.Sprintf("group-%d", i), featureCount, lo, hi)
	}
	return groups
}

// RandomlyAssignIndividualsToGroups deals individuals into groups at random,
// filling every group to its MinSize first. Whoever does not fit goes into
// the returned leftover group, bounded by [0, members already in groups +
// len(individuals)] so it can hold anyone. Nil or repeated individuals are
// rejected.
func RandomlyAssignIndividualsToGroups(rng framework.Rand, individuals []*framework.Individual, groups []*framework.Group) (*framework.Group, error) {
	existing := 0
	featureCount := 0
	for _, g := range groups {
		existing += g.Len()
		featureCount = max(featureCount, g.FeatureCount)
	}
	if featureCount == 0 && len(individuals) > 0 && individuals[0] != nil {
		featureCount = individuals[0].FeatureCount()
	}

	leftover := framework.NewGroup(algorithms.LeftoverGroupID, featureCount, 0, existing+len(individuals))
	if err := leftover.AddIndividuals(individuals, framework.Override); err != nil {
		return nil, fmt.Errorf("assigning individuals: %w", err)
	}
	leftover = leftover.CloneEmpty()

	rest := framework.DealIndividuals(rng, individuals, groups)
	if err := leftover.AddIndividuals(rest, framework.Override); err != nil {
		return nil, err
	}
	return leftover, nil
}

// CreateRandomCommunities creates count communities over the same groups and
// individuals, each with the individuals reshuffled across the groups.
func CreateRandomCommunities(rng framework.Rand, count int, groups []*framework.Group) ([]*framework.Community, error) {
	base := framework.NewCommunity(groups...)
	communities := make([]*framework.Community, count)
	for i := range count {
		c := base.Clone()
		if err := c.ShuffleIndividualsAcrossGroups(rng); err != nil {
			return nil, fmt.Errorf("community %d: %w", i, err)
		}
		communities[i] = c
	}
	return communities, nil
}
