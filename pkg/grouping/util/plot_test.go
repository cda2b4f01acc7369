package util

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willynilly/diverse-groups/pkg/grouping/benchmarks"
	"github.com/willynilly/diverse-groups/pkg/grouping/framework"
)

func TestRenderConvergence(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderConvergence(&buf, []float64{10, 8, 8, 7.5}, "Dorms", "GenerationalGA"))
	assert.True(t, strings.Contains(buf.String(), "GenerationalGA convergence for Dorms"))

	assert.Error(t, RenderConvergence(&buf, nil, "Dorms", "GenerationalGA"))
}

func TestRenderCommunity(t *testing.T) {
	p, err := benchmarks.NewDormProblem(1)
	require.NoError(t, err)
	pop, err := p.Initialize(1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderCommunity(&buf, pop[0], p.Name()))
	out := buf.String()
	for _, id := range []string{"dorm1", "dorm2", "dorm3"} {
		assert.Contains(t, out, id)
	}

	g := framework.NewGroup("flat", 1, 0, 2)
	require.NoError(t, g.AddIndividual(framework.NewIndividual("x", []float64{1}), framework.Strict))
	assert.Error(t, RenderCommunity(&buf, framework.NewCommunity(g), "flat"))
}

func TestWriteHTML(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteHTML(dir, "Dorms", "convergence", func(w io.Writer) error {
		return RenderConvergence(w, []float64{1}, "Dorms", "GenerationalGA")
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Dorms_convergence.html"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
