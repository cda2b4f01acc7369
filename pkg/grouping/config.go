package grouping

import (
	"fmt"
	"os"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	"github.com/willynilly/diverse-groups/apis/grouping/v1alpha1"
)

// LoadGroupingRun decodes a GroupingRun from YAML or JSON. Unknown fields are
// rejected.
func LoadGroupingRun(data []byte) (*v1alpha1.GroupingRun, error) {
	run := &v1alpha1.GroupingRun{}
	if err := yaml.UnmarshalStrict(data, run); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", v1alpha1.Kind, err)
	}
	return run, nil
}

func LoadGroupingRunFile(path string) (*v1alpha1.GroupingRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadGroupingRun(data)
}

// DormRun returns the fifty-students-in-three-dorms run used when no config
// file is given.
func DormRun() *v1alpha1.GroupingRun {
	return &v1alpha1.GroupingRun{
		TypeMeta: metav1.TypeMeta{
			APIVersion: v1alpha1.GroupVersion,
			Kind:       v1alpha1.Kind,
		},
		ObjectMeta: metav1.ObjectMeta{Name: "dorms"},
		Spec: v1alpha1.GroupingRunSpec{
			Individuals: v1alpha1.IndividualsSpec{
				Count:           50,
				FeatureCount:    2,
				MinFeatureValue: 0,
				MaxFeatureValue: 5,
			},
			Groups: []v1alpha1.GroupSpec{
				{Name: "dorm1", MinSize: 10, MaxSize: 15},
				{Name: "dorm2", MinSize: 20, MaxSize: 30},
				{Name: "dorm3", MinSize: 15, MaxSize: 20},
			},
			Population:  v1alpha1.PopulationSpec{Communities: 100},
			Generations: 100,
			Seed:        ptr.To[int64](1),
		},
	}
}
