/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// GroupVersion is the apiVersion accepted in configuration files.
	GroupVersion = "grouping.diverse-groups.io/v1alpha1"

	// Kind is the kind accepted in configuration files.
	Kind = "GroupingRun"
)

// GroupingRun describes one evolutionary search for a partition of randomly
// generated individuals into size-bounded groups, and records its outcome.
type GroupingRun struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   GroupingRunSpec   `json:"spec,omitempty"`
	Status GroupingRunStatus `json:"status,omitempty"`
}

// GroupingRunSpec defines the problem and the search parameters
type GroupingRunSpec struct {
	// Individuals describes the universe to partition
	Individuals IndividualsSpec `json:"individuals"`

	// Groups lists the real groups. A leftover group is appended automatically.
	Groups []GroupSpec `json:"groups"`

	// Population controls the initial and retained population sizes
	Population PopulationSpec `json:"population,omitempty"`

	// Generations is the number of generations to run
	Generations int `json:"generations,omitempty"`

	// CrossoverRate is the probability that two selected parents are recombined
	CrossoverRate *float64 `json:"crossoverRate,omitempty"`

	// MutationRate is the probability that each offspring is mutated
	MutationRate *float64 `json:"mutationRate,omitempty"`

	// TournamentSize is the number of contestants per selection tournament
	TournamentSize int `json:"tournamentSize,omitempty"`

	// Seed makes the run reproducible. Zero selects the fixed default seed.
	Seed *int64 `json:"seed,omitempty"`

	// GroupIDsToNotScore lists groups excluded from the fitness score
	GroupIDsToNotScore []string `json:"groupIdsToNotScore,omitempty"`

	// LeftoverPolicy decides what crossover does with individuals left in its pool
	// +kubebuilder:validation:Enum=Fold;Discard
	LeftoverPolicy LeftoverPolicy `json:"leftoverPolicy,omitempty"`

	// MutationStrategy selects the mutation move
	// +kubebuilder:validation:Enum=Relocate;Transfer
	MutationStrategy MutationStrategy `json:"mutationStrategy,omitempty"`
}

// IndividualsSpec describes randomly generated individuals
type IndividualsSpec struct {
	Count           int     `json:"count"`
	FeatureCount    int     `json:"featureCount"`
	MinFeatureValue float64 `json:"minFeatureValue"`
	MaxFeatureValue float64 `json:"maxFeatureValue"`
}

// GroupSpec names a group and its size bounds
type GroupSpec struct {
	Name    string `json:"name"`
	MinSize int    `json:"minSize"`
	MaxSize int    `json:"maxSize"`
}

// PopulationSpec controls population sizes
type PopulationSpec struct {
	// Communities is the number of random communities generated initially
	Communities int `json:"communities,omitempty"`

	// MaxCommunities caps the population kept between generations
	MaxCommunities int `json:"maxCommunities,omitempty"`
}

// LeftoverPolicy mirrors the crossover leftover handling
type LeftoverPolicy string

const (
	LeftoverPolicyFold    LeftoverPolicy = "Fold"
	LeftoverPolicyDiscard LeftoverPolicy = "Discard"
)

// MutationStrategy mirrors the mutation move
type MutationStrategy string

const (
	MutationStrategyRelocate MutationStrategy = "Relocate"
	MutationStrategyTransfer MutationStrategy = "Transfer"
)

// GroupingRunStatus records the outcome of a run
type GroupingRunStatus struct {
	// Phase represents the current phase of the run
	Phase GroupingRunPhase `json:"phase,omitempty"`

	// BestScore is the fitness of the best community (lower is better)
	BestScore float64 `json:"bestScore"`

	// Generations is the number of completed generations
	Generations int `json:"generations"`

	// History holds the best score after every generation
	History []float64 `json:"history,omitempty"`

	// Assignments lists the members of every group in the best community
	Assignments []GroupAssignment `json:"assignments,omitempty"`

	// CompletedAt is when the run finished
	CompletedAt *metav1.Time `json:"completedAt,omitempty"`
}

// GroupAssignment lists the individuals placed in a group
type GroupAssignment struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
	Score   float64  `json:"score"`
}

// GroupingRunPhase represents the phase of a run
type GroupingRunPhase string

const (
	GroupingRunPhasePending   GroupingRunPhase = "Pending"
	GroupingRunPhaseSucceeded GroupingRunPhase = "Succeeded"
	GroupingRunPhaseCancelled GroupingRunPhase = "Cancelled"
)
