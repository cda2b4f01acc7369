package grouping

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2/ktesting"
	"k8s.io/utils/ptr"

	"github.com/willynilly/diverse-groups/apis/grouping/v1alpha1"
)

func smallRun() *v1alpha1.GroupingRun {
	run := DormRun()
	run.Spec.Population = v1alpha1.PopulationSpec{Communities: 20}
	run.Spec.Generations = 10
	return run
}

func TestRun(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	g, err := New(ctx, smallRun())
	require.NoError(t, err)
	assert.Equal(t, "dorms", g.Name())
	assert.Nil(t, g.Best())

	out, err := g.Run(ctx)
	require.NoError(t, err)

	status := out.Status
	assert.Equal(t, v1alpha1.GroupingRunPhaseSucceeded, status.Phase)
	assert.Equal(t, 10, status.Generations)
	assert.Len(t, status.History, 11)
	assert.Equal(t, status.History[len(status.History)-1], status.BestScore)
	require.NotNil(t, status.CompletedAt)

	require.Len(t, status.Assignments, 4)
	names := make([]string, 0, 4)
	members := make(map[string]bool)
	sum := 0.0
	for _, a := range status.Assignments {
		names = append(names, a.Name)
		for _, id := range a.Members {
			assert.False(t, members[id], "member %s assigned twice", id)
			members[id] = true
		}
		if a.Name != "leftover" {
			sum += a.Score
		}
	}
	assert.Equal(t, []string{"dorm1", "dorm2", "dorm3", "leftover"}, names)
	assert.Len(t, members, 50)
	assert.InDelta(t, status.BestScore, sum, 1e-9)
	assert.Equal(t, 50, g.Best().Size())
}

func TestRunIsReproducible(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	run := func() *v1alpha1.GroupingRun {
		g, err := New(ctx, smallRun())
		require.NoError(t, err)
		out, err := g.Run(ctx)
		require.NoError(t, err)
		return out
	}
	a, b := run(), run()
	if diff := cmp.Diff(a.Status.Assignments, b.Status.Assignments); diff != "" {
		t.Errorf("assignments differ for the same seed (-a +b):\n%s", diff)
	}
	assert.Equal(t, a.Status.History, b.Status.History)
}

func TestRunDefaultSeedMatchesSeedOne(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	run := func(seed int64) *v1alpha1.GroupingRun {
		cfg := smallRun()
		cfg.Spec.Seed = ptr.To(seed)
		g, err := New(ctx, cfg)
		require.NoError(t, err)
		out, err := g.Run(ctx)
		require.NoError(t, err)
		return out
	}
	zero, one := run(0), run(1)
	if diff := cmp.Diff(zero.Status.Assignments, one.Status.Assignments); diff != "" {
		t.Errorf("seed 0 should run as seed 1 (-0 +1):\n%s", diff)
	}
	assert.Equal(t, zero.Status.History, one.Status.History)
}

func TestDeriveSeeds(t *testing.T) {
	for _, seed := range []int64{0, 1, 41} {
		s := deriveSeeds(seed)
		assert.NotZero(t, s.problem, "seed %d", seed)
		assert.NotEqual(t, s.problem, s.optimizer, "seed %d", seed)
		assert.NotEqual(t, s.optimizer, s.evolver, "seed %d", seed)
		assert.NotEqual(t, s.problem, s.evolver, "seed %d", seed)
	}
	assert.Equal(t, deriveSeeds(1), deriveSeeds(0))
}

func TestNewRejectsInvalidRun(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	_, err := New(ctx, nil)
	assert.Error(t, err)

	run := smallRun()
	run.Spec.Groups[0].MaxSize = 1
	_, err = New(ctx, run)
	assert.ErrorContains(t, err, "spec.groups[0].maxSize")
}

func TestNewDoesNotModifyInput(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	run := smallRun()
	run.Spec.CrossoverRate = nil
	_, err := New(ctx, run)
	require.NoError(t, err)
	assert.Nil(t, run.Spec.CrossoverRate)
	assert.Empty(t, run.Status.Phase)
}

func TestRunCancelled(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	g, err := New(ctx, smallRun())
	require.NoError(t, err)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	out, err := g.Run(cctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, out)
	assert.Equal(t, v1alpha1.GroupingRunPhaseCancelled, out.Status.Phase)
	assert.Equal(t, 0, out.Status.Generations)
	assert.Len(t, out.Status.Assignments, 4)
}

func TestLoadGroupingRun(t *testing.T) {
	run, err := LoadGroupingRun([]byte(`
apiVersion: grouping.diverse-groups.io/v1alpha1
kind: GroupingRun
metadata:
  name: teams
spec:
  individuals:
    count: 12
    featureCount: 3
    minFeatureValue: 1
    maxFeatureValue: 9
  groups:
  - name: red
    minSize: 4
    maxSize: 6
  - name: blue
    minSize: 4
    maxSize: 6
  seed: 7
  leftoverPolicy: Discard
`))
	require.NoError(t, err)
	assert.Equal(t, "teams", run.Name)
	assert.Equal(t, ptr.To[int64](7), run.Spec.Seed)
	assert.Equal(t, v1alpha1.LeftoverPolicyDiscard, run.Spec.LeftoverPolicy)
	require.Len(t, run.Spec.Groups, 2)

	_, ctx := ktesting.NewTestContext(t)
	g, err := New(ctx, run)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Problem().FeatureCount())

	_, err = LoadGroupingRun([]byte("spec:\n  unknownField: 1\n"))
	assert.Error(t, err)
}
