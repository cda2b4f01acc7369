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
	"fmt"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// ValidateGroupingRun validates a defaulted run and returns an aggregate error
func ValidateGroupingRun(obj *GroupingRun) error {
	var errs field.ErrorList
	if obj.APIVersion != GroupVersion {
		errs = append(errs, field.NotSupported(field.NewPath("apiVersion"), obj.APIVersion, []string{GroupVersion}))
	}
	if obj.Kind != Kind {
		errs = append(errs, field.NotSupported(field.NewPath("kind"), obj.Kind, []string{Kind}))
	}
	errs = append(errs, ValidateGroupingRunSpec(&obj.Spec, field.NewPath("spec"))...)
	return errs.ToAggregate()
}

// ValidateGroupingRunSpec validates a defaulted spec
func ValidateGroupingRunSpec(spec *GroupingRunSpec, path *field.Path) field.ErrorList {
	var errs field.ErrorList

	ip := path.Child("individuals")
	if spec.Individuals.Count < 0 {
		errs = append(errs, field.Invalid(ip.Child("count"), spec.Individuals.Count, "must be non-negative"))
	}
	if spec.Individuals.FeatureCount < 1 {
		errs = append(errs, field.Invalid(ip.Child("featureCount"), spec.Individuals.FeatureCount, "must be at least 1"))
	}
	if spec.Individuals.MinFeatureValue > spec.Individuals.MaxFeatureValue {
		errs = append(errs, field.Invalid(ip.Child("minFeatureValue"), spec.Individuals.MinFeatureValue,
			fmt.Sprintf("must not exceed maxFeatureValue %v", spec.Individuals.MaxFeatureValue)))
	}

	gp := path.Child("groups")
	if len(spec.Groups) == 0 {
		errs = append(errs, field.Required(gp, "at least one group is required"))
	}
	names := sets.New[string]()
	minTotal := 0
	for i, g := range spec.Groups {
		p := gp.Index(i)
		switch {
		case g.Name == "":
			errs = append(errs, field.Required(p.Child("name"), ""))
		case g.Name == "leftover":
			errs = append(errs, field.Invalid(p.Child("name"), g.Name, "is reserved for the leftover group"))
		case names.Has(g.Name):
			errs = append(errs, field.Duplicate(p.Child("name"), g.Name))
		}
		names.Insert(g.Name)
		if g.MinSize < 0 {
			errs = append(errs, field.Invalid(p.Child("minSize"), g.MinSize, "must be non-negative"))
		}
		if g.MaxSize < g.MinSize {
			errs = append(errs, field.Invalid(p.Child("maxSize"), g.MaxSize, "must not be less than minSize"))
		}
		minTotal += g.MinSize
	}
	if spec.Individuals.Count < minTotal {
		errs = append(errs, field.Invalid(ip.Child("count"), spec.Individuals.Count,
			fmt.Sprintf("must be at least the sum of group minimum sizes (%d)", minTotal)))
	}

	pp := path.Child("population")
	if spec.Population.Communities < 1 {
		errs = append(errs, field.Invalid(pp.Child("communities"), spec.Population.Communities, "must be at least 1"))
	}
	if spec.Population.MaxCommunities < 1 {
		errs = append(errs, field.Invalid(pp.Child("maxCommunities"), spec.Population.MaxCommunities, "must be at least 1"))
	}
	if spec.Generations < 0 {
		errs = append(errs, field.Invalid(path.Child("generations"), spec.Generations, "must be non-negative"))
	}
	errs = append(errs, validateRate(spec.CrossoverRate, path.Child("crossoverRate"))...)
	errs = append(errs, validateRate(spec.MutationRate, path.Child("mutationRate"))...)
	if spec.TournamentSize < 1 {
		errs = append(errs, field.Invalid(path.Child("tournamentSize"), spec.TournamentSize, "must be at least 1"))
	}
	if spec.Seed != nil && *spec.Seed < 0 {
		errs = append(errs, field.Invalid(path.Child("seed"), *spec.Seed, "must be non-negative"))
	}
	switch spec.LeftoverPolicy {
	case LeftoverPolicyFold, LeftoverPolicyDiscard:
	default:
		errs = append(errs, field.NotSupported(path.Child("leftoverPolicy"), spec.LeftoverPolicy,
			[]string{string(LeftoverPolicyFold), string(LeftoverPolicyDiscard)}))
	}
	switch spec.MutationStrategy {
	case MutationStrategyRelocate, MutationStrategyTransfer:
	default:
		errs = append(errs, field.NotSupported(path.Child("mutationStrategy"), spec.MutationStrategy,
			[]string{string(MutationStrategyRelocate), string(MutationStrategyTransfer)}))
	}
	return errs
}

func validateRate(rate *float64, path *field.Path) field.ErrorList {
	if rate == nil {
		return field.ErrorList{field.Required(path, "")}
	}
	if *rate < 0 || *rate > 1 {
		return field.ErrorList{field.Invalid(path, *rate, "must be between 0 and 1")}
	}
	return nil
}
