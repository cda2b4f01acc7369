package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	"github.com/willynilly/diverse-groups/pkg/grouping"
	"github.com/willynilly/diverse-groups/pkg/grouping/algorithms"
	"github.com/willynilly/diverse-groups/pkg/grouping/util"
)

type options struct {
	config      string
	generations int
	seed        int64
	plotDir     string
	printBest   bool
}

func (o *options) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.config, "config", "", "Path to a GroupingRun YAML file. The dorm example is used when empty.")
	fs.IntVar(&o.generations, "generations", 0, "Override spec.generations when positive.")
	fs.Int64Var(&o.seed, "seed", -1, "Override spec.seed when non-negative.")
	fs.StringVar(&o.plotDir, "plot-dir", "", "Write convergence and partition charts into this directory.")
	fs.BoolVar(&o.printBest, "print-best", true, "Print the finished GroupingRun as YAML.")
}

func main() {
	klog.InitFlags(nil)
	o := &options{}
	o.addFlags(pflag.CommandLine)
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()
	defer klog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = klog.NewContext(ctx, klog.Background().WithName(grouping.Name))

	if err := run(ctx, o, os.Stdout); err != nil {
		klog.ErrorS(err, "grouping run failed")
		klog.Flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, o *options, out io.Writer) error {
	logger := klog.FromContext(ctx)

	cfg := grouping.DormRun()
	if o.config != "" {
		var err error
		if cfg, err = grouping.LoadGroupingRunFile(o.config); err != nil {
			return err
		}
	}
	if o.generations > 0 {
		cfg.Spec.Generations = o.generations
	}
	if o.seed >= 0 {
		cfg.Spec.Seed = ptr.To(o.seed)
	}

	g, err := grouping.New(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("starting grouping run", "name", g.Name(),
		"individuals", humanize.Comma(int64(len(g.Problem().Individuals()))),
		"groups", len(g.Problem().Groups()))

	result, err := g.Run(ctx)
	if result == nil {
		return err
	}
	logger.Info("grouping run done", "phase", result.Status.Phase,
		"generations", humanize.Comma(int64(result.Status.Generations)),
		"bestScore", humanize.FtoaWithDigits(result.Status.BestScore, 4))

	if o.plotDir != "" {
		if perr := writePlots(logger, g, o.plotDir); perr != nil {
			logger.Error(perr, "writing plots", "dir", o.plotDir)
		}
	}
	if o.printBest {
		data, merr := yaml.Marshal(result)
		if merr != nil {
			return merr
		}
		fmt.Fprint(out, string(data))
	}
	return err
}

func writePlots(logger klog.Logger, g *grouping.Grouping, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path, err := util.WriteHTML(dir, g.Name(), "convergence", func(w io.Writer) error {
		return util.RenderConvergence(w, g.History(), g.Name(), algorithms.Name)
	})
	if err != nil {
		return err
	}
	logger.V(2).Info("wrote chart", "path", path)

	if g.Problem().FeatureCount() < 2 {
		return nil
	}
	path, err = util.WriteHTML(dir, g.Name(), "partition", func(w io.Writer) error {
		return util.RenderCommunity(w, g.Best(), g.Name())
	})
	if err != nil {
		return err
	}
	logger.V(2).Info("wrote chart", "path", path)
	return nil
}
