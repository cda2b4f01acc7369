package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/willynilly/diverse-groups/pkg/grouping/framework"
)

// RenderConvergence writes a line chart of the best score per generation.
func RenderConvergence(w io.Writer, history []float64, problemName, algorithmName string) error {
	if len(history) == 0 {
		return fmt.Errorf("history is empty for %s problem", problemName)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s convergence for %s", algorithmName, problemName),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "generation"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "best fitness",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	generations := make([]int, len(history))
	points := make([]opts.LineData, len(history))
	for i, score := range history {
		generations[i] = i
		points[i] = opts.LineData{Value: score}
	}
	line.SetXAxis(generations).AddSeries("best", points)

	return line.Render(w)
}

// RenderCommunity writes a scatter chart of the first two features of every
// member, one series per group.
func RenderCommunity(w io.Writer, c *framework.Community, problemName string) error {
	series := c.Features()
	for _, members := range series {
		for _, f := range members {
			if len(f) < 2 {
				return fmt.Errorf("can only plot individuals with at least 2 features for %s problem", problemName)
			}
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Best partition for %s", problemName),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "feature 0",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "feature 1",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	for i, g := range c.Groups() {
		data := make([]opts.ScatterData, len(series[i]))
		for j, f := range series[i] {
			data[j] = opts.ScatterData{
				Value:      []float64{f[0], f[1]},
				Symbol:     "circle",
				SymbolSize: 10,
			}
		}
		scatter.AddSeries(g.ID, data)
	}
	scatter.SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{
			Show: opts.Bool(false),
		}),
	)

	return scatter.Render(w)
}

// WriteHTML creates dir/<problem>_<kind>.html and renders into it.
func WriteHTML(dir, problemName, kind string, render func(io.Writer) error) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.html", problemName, kind))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := render(f); err != nil {
		return "", err
	}
	return path, nil
}
