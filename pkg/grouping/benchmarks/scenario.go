package benchmarks

import (
	"fmt"

	"github.com/willynilly/diverse-groups/pkg/grouping/framework"
)

const (
	DormProblemName = "Dorms"
)

// GroupSpec names a group and its size bounds.
type GroupSpec struct {
	ID      string
	MinSize int
	MaxSize int
}

// Scenario is a grouping problem over a fixed set of individuals and groups.
// Every community it initialises shares the same *Individual values, which is
// what lets crossover recognise shared members.
type Scenario struct {
	name         string
	rng          framework.Rand
	featureCount int
	individuals  []*framework.Individual
	groups       []*framework.Group
}

var _ framework.Problem = &Scenario{}

// NewScenario deals individuals into empty groups built from specs and appends
// the leftover group holding whoever did not fit.
func NewScenario(name string, rng framework.Rand, individuals []*framework.Individual, featureCount int, specs []GroupSpec) (*Scenario, error) {
	groups := make([]*framework.Group, 0, len(specs)+1)
	for _, s := range specs {
		groups = append(groups, framework.NewGroup(s.ID, featureCount, s.MinSize, s.MaxSize))
	}
	leftover, err := RandomlyAssignIndividualsToGroups(rng, individuals, groups)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", name, err)
	}
	groups = append(groups, leftover)

	return &Scenario{
		name:         name,
		rng:          rng,
		featureCount: featureCount,
		individuals:  individuals,
		groups:       groups,
	}, nil
}

// NewDormProblem is the reference scenario: fifty students with two features
// in [0, 5] spread over three dorms.
func NewDormProblem(seed uint64) (*Scenario, error) {
	rng := framework.NewRand(seed)
	const featureCount = 2
	individuals := CreateRandomIndividuals(rng, 50, featureCount, 0, 5)
	return NewScenario(DormProblemName, rng, individuals, featureCount, []GroupSpec{
		{ID: "dorm1", MinSize: 10, MaxSize: 15},
		{ID: "dorm2", MinSize: 20, MaxSize: 30},
		{ID: "dorm3", MinSize: 15, MaxSize: 20},
	})
}

func (s *Scenario) Name() string {
	return s.name
}

// Initialize creates popSize random communities over the scenario's groups.
func (s *Scenario) Initialize(popSize int) ([]*framework.Community, error) {
	return CreateRandomCommunities(s.rng, popSize, s.groups)
}

func (s *Scenario) Individuals() []*framework.Individual {
	return append([]*framework.Individual(nil), s.individuals...)
}

// Groups returns the seed groups, leftover last.
func (s *Scenario) Groups() []*framework.Group {
	return append([]*framework.Group(nil), s.groups...)
}

func (s *Scenario) FeatureCount() int {
	return s.featureCount
}
