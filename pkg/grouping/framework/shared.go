package framework

import "sort"

// Candidate is a community together with its fitness score.
type Candidate struct {
	Community *Community
	Score     float64
}

// Beats checks if candidate a is strictly better than b. Scores are
// dispersions, so lower wins.
func Beats(a, b Candidate) bool {
	return a.Score < b.Score
}

// RankByScore sorts the population best first. Equal scores keep their order.
func RankByScore(population []Candidate) {
	sort.SliceStable(population, func(i, j int) bool {
		return Beats(population[i], population[j])
	})
}

// Best returns the best candidate of a non-empty population.
func Best(population []Candidate) (Candidate, bool) {
	if len(population) == 0 {
		return Candidate{}, false
	}
	best := population[0]
	for _, c := range population[1:] {
		if Beats(c, best) {
			best = c
		}
	}
	return best, true
}
