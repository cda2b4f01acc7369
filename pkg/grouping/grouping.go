package grouping

import (
	"context"
	"errors"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/klog/v2"

	"github.com/willynilly/diverse-groups/apis/grouping/v1alpha1"
	"github.com/willynilly/diverse-groups/pkg/grouping/algorithms"
	"github.com/willynilly/diverse-groups/pkg/grouping/benchmarks"
	"github.com/willynilly/diverse-groups/pkg/grouping/framework"
)

const (
	Name = "DiverseGroups"
)

// Grouping wires a GroupingRun to a problem, the partition operators and the
// evolver.
type Grouping struct {
	run       v1alpha1.GroupingRun
	problem   *benchmarks.Scenario
	optimizer *algorithms.PartitionOptimizer
	evolver   *algorithms.Evolver
	seeds     seeds
}

// seeds holds one random stream seed per component of a run.
type seeds struct {
	problem, optimizer, evolver uint64
}

func deriveSeeds(seed int64) seeds {
	base := framework.ResolveSeed(uint64(seed))
	return seeds{problem: base, optimizer: base + 1, evolver: base + 2}
}

// New defaults and validates a copy of run and builds its problem.
func New(ctx context.Context, run *v1alpha1.GroupingRun) (*Grouping, error) {
	logger := klog.FromContext(ctx)
	if run == nil {
		return nil, errors.New("grouping: nil GroupingRun")
	}

	g := &Grouping{run: *run}
	v1alpha1.SetDefaults_GroupingRun(&g.run)
	if err := v1alpha1.ValidateGroupingRun(&g.run); err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", v1alpha1.Kind, g.run.Name, err)
	}
	spec := &g.run.Spec
	g.seeds = deriveSeeds(*spec.Seed)

	name := g.run.Name
	if name == "" {
		name = Name
	}
	rng := framework.NewRand(g.seeds.problem)
	individuals := benchmarks.CreateRandomIndividuals(rng, spec.Individuals.Count, spec.Individuals.FeatureCount,
		spec.Individuals.MinFeatureValue, spec.Individuals.MaxFeatureValue)
	specs := make([]benchmarks.GroupSpec, len(spec.Groups))
	for i, gs := range spec.Groups {
		specs[i] = benchmarks.GroupSpec{ID: gs.Name, MinSize: gs.MinSize, MaxSize: gs.MaxSize}
	}
	problem, err := benchmarks.NewScenario(name, rng, individuals, spec.Individuals.FeatureCount, specs)
	if err != nil {
		return nil, err
	}
	g.problem = problem

	g.optimizer = algorithms.NewPartitionOptimizer(
		algorithms.WithSeed(g.seeds.optimizer),
		algorithms.WithGroupIDsToNotScore(spec.GroupIDsToNotScore...),
		algorithms.WithLeftoverPolicy(algorithms.LeftoverPolicy(spec.LeftoverPolicy)),
		algorithms.WithMutationStrategy(algorithms.MutationStrategy(spec.MutationStrategy)),
		algorithms.WithLogger(logger),
	)

	logger.V(5).Info("created grouping", "name", name, "individuals", len(individuals), "groups", len(spec.Groups))
	return g, nil
}

func (g *Grouping) Name() string {
	return g.problem.Name()
}

// Problem returns the scenario the run searches over.
func (g *Grouping) Problem() *benchmarks.Scenario {
	return g.problem
}

func (g *Grouping) Optimizer() *algorithms.PartitionOptimizer {
	return g.optimizer
}

// Best returns the best community of the last Run, or nil before Run.
func (g *Grouping) Best() *framework.Community {
	if g.evolver == nil {
		return nil
	}
	return g.evolver.Best()
}

// History returns the best score per generation of the last Run.
func (g *Grouping) History() []float64 {
	if g.evolver == nil {
		return nil
	}
	return g.evolver.History()
}

// Run seeds the population, evolves it and returns the run with its status
// filled in. A cancelled context yields the partial result and the error.
func (g *Grouping) Run(ctx context.Context) (*v1alpha1.GroupingRun, error) {
	logger := klog.FromContext(ctx)
	spec := &g.run.Spec

	initial, err := g.problem.Initialize(spec.Population.Communities)
	if err != nil {
		return nil, fmt.Errorf("initializing population for %s: %w", g.Name(), err)
	}
	g.evolver, err = algorithms.NewEvolver(g.optimizer, initial, algorithms.Config{
		PopulationSize: spec.Population.MaxCommunities,
		Generations:    spec.Generations,
		CrossoverRate:  *spec.CrossoverRate,
		MutationRate:   *spec.MutationRate,
		TournamentSize: spec.TournamentSize,
		Seed:           g.seeds.evolver,
	})
	if err != nil {
		return nil, err
	}

	runErr := g.evolver.Run(ctx)

	out := g.run
	out.Status = g.status()
	if runErr != nil {
		out.Status.Phase = v1alpha1.GroupingRunPhaseCancelled
		logger.Info("grouping run cancelled", "name", g.Name(), "generations", out.Status.Generations)
		return &out, runErr
	}
	logger.V(2).Info("grouping run finished", "name", g.Name(), "bestScore", out.Status.BestScore)
	return &out, nil
}

func (g *Grouping) status() v1alpha1.GroupingRunStatus {
	best := g.evolver.Best()
	now := metav1.Now()
	status := v1alpha1.GroupingRunStatus{
		Phase:       v1alpha1.GroupingRunPhaseSucceeded,
		BestScore:   g.evolver.BestScore(),
		Generations: g.evolver.Generation(),
		History:     g.evolver.History(),
		CompletedAt: &now,
	}
	for _, grp := range best.Groups() {
		members := make([]string, 0, grp.Len())
		for _, ind := range grp.Individuals() {
			members = append(members, ind.ID)
		}
		status.Assignments = append(status.Assignments, v1alpha1.GroupAssignment{
			Name:    grp.ID,
			Members: members,
			Score:   g.optimizer.GroupScore(grp),
		})
	}
	return status
}
