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
	"k8s.io/utils/ptr"
)

var (
	DefaultCommunities        = 100
	DefaultGenerations        = 200
	DefaultCrossoverRate      = 0.8
	DefaultMutationRate       = 0.1
	DefaultTournamentSize     = 2
	DefaultGroupIDsToNotScore = []string{"leftover"}
)

// SetDefaults_GroupingRun fills unset fields of the run
func SetDefaults_GroupingRun(obj *GroupingRun) {
	if obj.APIVersion == "" {
		obj.APIVersion = GroupVersion
	}
	if obj.Kind == "" {
		obj.Kind = Kind
	}
	SetDefaults_GroupingRunSpec(&obj.Spec)
	if obj.Status.Phase == "" {
		obj.Status.Phase = GroupingRunPhasePending
	}
}

// SetDefaults_GroupingRunSpec fills unset fields of the spec
func SetDefaults_GroupingRunSpec(obj *GroupingRunSpec) {
	if obj.Population.Communities == 0 {
		obj.Population.Communities = DefaultCommunities
	}
	if obj.Population.MaxCommunities == 0 {
		obj.Population.MaxCommunities = obj.Population.Communities
	}
	if obj.Generations == 0 {
		obj.Generations = DefaultGenerations
	}
	if obj.CrossoverRate == nil {
		obj.CrossoverRate = ptr.To(DefaultCrossoverRate)
	}
	if obj.MutationRate == nil {
		obj.MutationRate = ptr.To(DefaultMutationRate)
	}
	if obj.TournamentSize == 0 {
		obj.TournamentSize = DefaultTournamentSize
	}
	if obj.Seed == nil {
		obj.Seed = ptr.To[int64](0)
	}
	if obj.GroupIDsToNotScore == nil {
		obj.GroupIDsToNotScore = append([]string(nil), DefaultGroupIDsToNotScore...)
	}
	if obj.LeftoverPolicy == "" {
		obj.LeftoverPolicy = LeftoverPolicyFold
	}
	if obj.MutationStrategy == "" {
		obj.MutationStrategy = MutationStrategyRelocate
	}
}
