package algorithms

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"k8s.io/klog/v2"

	"github.com/willynilly/diverse-groups/pkg/grouping/framework"
)

const (
	Name = "GenerationalGA"
)

// ErrEmptyPopulation is returned when the evolver is created without communities.
var ErrEmptyPopulation = errors.New("algorithms: empty initial population")

// Config holds the evolver parameters.
type Config struct {
	// PopulationSize caps the population kept between generations.
	PopulationSize int
	Generations    int
	CrossoverRate  float64
	MutationRate   float64
	TournamentSize int
	Seed           uint64

	// ScoreTTL bounds how long fitness results are memoised.
	ScoreTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		PopulationSize: 100,
		Generations:    200,
		CrossoverRate:  0.8,
		MutationRate:   0.1,
		TournamentSize: 2,
		ScoreTTL:       5 * time.Minute,
	}
}

// Evolver runs a generational, elitist genetic algorithm over communities
// using the callbacks of a framework.Operators.
type Evolver struct {
	ops framework.Operators
	cfg Config
	rng framework.Rand

	population []framework.Candidate
	generation int
	history    []float64
	scores     *gocache.Cache
}

var _ framework.Algorithm = &Evolver{}

// NewEvolver scores the initial population and keeps its best PopulationSize members.
func NewEvolver(ops framework.Operators, initial []*framework.Community, cfg Config) (*Evolver, error) {
	if len(initial) == 0 {
		return nil, ErrEmptyPopulation
	}
	def := DefaultConfig()
	if cfg.PopulationSize <= 0 {
		cfg.PopulationSize = len(initial)
	}
	if cfg.TournamentSize < 1 {
		cfg.TournamentSize = def.TournamentSize
	}
	if cfg.ScoreTTL <= 0 {
		cfg.ScoreTTL = def.ScoreTTL
	}

	e := &Evolver{
		ops:    ops,
		cfg:    cfg,
		rng:    framework.NewRand(cfg.Seed),
		scores: gocache.New(cfg.ScoreTTL, 2*cfg.ScoreTTL),
	}
	e.population = make([]framework.Candidate, 0, len(initial))
	for _, c := range initial {
		e.population = append(e.population, e.evaluate(c))
	}
	e.truncate()
	return e, nil
}

func (e *Evolver) Name() string {
	return Name
}

// evaluate scores c, reusing the score of an identical partition when cached.
func (e *Evolver) evaluate(c *framework.Community) framework.Candidate {
	key := c.Fingerprint()
	if v, ok := e.scores.Get(key); ok {
		return framework.Candidate{Community: c, Score: v.(float64)}
	}
	score := e.ops.Fitness(c)
	e.scores.Set(key, score, gocache.DefaultExpiration)
	return framework.Candidate{Community: c, Score: score}
}

func (e *Evolver) truncate() {
	framework.RankByScore(e.population)
	if len(e.population) > e.cfg.PopulationSize {
		e.population = e.population[:e.cfg.PopulationSize]
	}
	e.history = append(e.history, e.population[0].Score)
}

// tournamentSelect returns the best of TournamentSize random members.
func (e *Evolver) tournamentSelect() framework.Candidate {
	best := e.population[e.rng.IntN(len(e.population))]
	for i := 1; i < e.cfg.TournamentSize; i++ {
		contestant := e.population[e.rng.IntN(len(e.population))]
		if framework.Beats(contestant, best) {
			best = contestant
		}
	}
	return best
}

// Step runs one generation.
func (e *Evolver) Step(ctx context.Context) {
	logger := klog.FromContext(ctx)
	size := len(e.population)
	offspring := make([]framework.Candidate, 0, size)

	for len(offspring) < size {
		child1 := e.tournamentSelect().Community
		child2 := e.tournamentSelect().Community

		if e.rng.Float64() < e.cfg.CrossoverRate {
			child1, child2 = e.ops.Crossover(child1, child2)
		}
		if e.rng.Float64() < e.cfg.MutationRate {
			child1 = e.ops.Mutate(child1)
		}
		if e.rng.Float64() < e.cfg.MutationRate {
			child2 = e.ops.Mutate(child2)
		}

		offspring = append(offspring, e.evaluate(child1))
		if len(offspring) < size {
			offspring = append(offspring, e.evaluate(child2))
		}
	}

	// Combine populations and keep the best
	e.population = append(e.population, offspring...)
	e.generation++
	e.truncate()

	logger.V(4).Info("generation complete", "algorithm", Name, "generation", e.generation, "bestScore", e.BestScore())
}

// Run executes Config.Generations generations, stopping early when ctx is done.
func (e *Evolver) Run(ctx context.Context) error {
	logger := klog.FromContext(ctx)
	logger.V(2).Info("starting evolution", "algorithm", Name,
		"population", len(e.population), "generations", e.cfg.Generations)

	for gen := 0; gen < e.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("evolution stopped after %d generations: %w", e.generation, err)
		}
		e.Step(ctx)
	}

	logger.V(2).Info("evolution finished", "algorithm", Name, "generations", e.generation, "bestScore", e.BestScore())
	return nil
}

// Best returns the best community found so far.
func (e *Evolver) Best() *framework.Community {
	return e.population[0].Community
}

func (e *Evolver) BestScore() float64 {
	return e.population[0].Score
}

// Generation is the number of completed generations.
func (e *Evolver) Generation() int {
	return e.generation
}

// History returns the best score after initialisation and after every generation.
func (e *Evolver) History() []float64 {
	return append([]float64(nil), e.history...)
}

// Population returns the current population, best first.
func (e *Evolver) Population() []framework.Candidate {
	return append([]framework.Candidate(nil), e.population...)
}
