package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jgbaldwinbrown/bgtools/pkg"
)

type options struct {
	Infile   string
	WinSize  int
	Circular bool
	Func     string
	Edge     string
	EdgeSet  bool
	PerChrom bool
	Verbose  bool
}

func scope(o *options) bgtools.Scope {
	if o.PerChrom {
		return bgtools.PerChrom
	}
	return bgtools.Genome
}

func boundary(o *options) (bgtools.Boundary, error) {
	if o.Circular {
		if o.EdgeSet {
			return 0, fmt.Errorf("--circular and --edge %s cannot be combined", o.Edge)
		}
		return bgtools.Circular, nil
	}
	return bgtools.ParseBoundary(o.Edge)
}

func load(o *options) (*bgtools.Track, error) {
	t, e := bgtools.OpenTrack(o.Infile)
	if e != nil {
		return nil, e
	}
	logrus.WithFields(logrus.Fields{
		"infile":      o.Infile,
		"chromosomes": len(t.Chroms),
		"bins":        t.Len(),
		"resolution":  t.Resolution,
	}).Debug("loaded track")
	return t, nil
}

func runRoll(o *options, out io.Writer) error {
	s, e := bgtools.ParseStat(o.Func)
	if e != nil {
		return e
	}
	b, e := boundary(o)
	if e != nil {
		return e
	}
	t, e := load(o)
	if e != nil {
		return e
	}
	if len(t.Chroms) == 0 {
		return bgtools.WriteTrack(out, t)
	}
	w, e := bgtools.ResolveWindow(o.WinSize, t.Resolution)
	if e != nil {
		return e
	}
	logrus.WithFields(logrus.Fields{
		"window_bp":   o.WinSize,
		"window_bins": w,
		"boundary":    b,
		"function":    s,
	}).Debug("rolling")
	rolled, e := bgtools.RollBins(t, w, b, s)
	if e != nil {
		return e
	}
	return bgtools.WriteTrack(out, rolled)
}

func runRobustZ(o *options, out io.Writer) error {
	t, e := load(o)
	if e != nil {
		return e
	}
	z, e := bgtools.RobustZ(t, scope(o))
	if e != nil {
		return e
	}
	return bgtools.WriteTrack(out, z)
}

func runCPM(o *options, out io.Writer) error {
	t, e := load(o)
	if e != nil {
		return e
	}
	if e := bgtools.CPM(t, scope(o)); e != nil {
		return e
	}
	return bgtools.WriteTrack(out, t)
}

func newRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:           "bgtools",
		Short:         "A tool for doing simple math on the data in a bedgraph file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if o.Verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVar(&o.Verbose, "verbose", false, "Log progress to stderr")

	inputFlag := func(cmd *cobra.Command) {
		cmd.Flags().StringVarP(&o.Infile, "infile", "i", "-", "The input file, - for stdin")
	}
	windowFlags := func(cmd *cobra.Command) {
		cmd.Flags().IntVarP(&o.WinSize, "winsize", "w", 0, "The size of the window in base pairs")
		cmd.Flags().BoolVarP(&o.Circular, "circular", "c", false, "Include if the chromosomes are all circular")
		cmd.MarkFlagRequired("winsize")
	}
	scopeFlag := func(cmd *cobra.Command) {
		cmd.Flags().BoolVar(&o.PerChrom, "per-chrom", false, "Compute statistics separately for each chromosome")
	}

	roll := &cobra.Command{
		Use:   "roll",
		Short: "Applies a windowed rolling mean or median to the data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.EdgeSet = cmd.Flags().Changed("edge")
			return runRoll(o, cmd.OutOrStdout())
		},
	}
	inputFlag(roll)
	windowFlags(roll)
	roll.Flags().StringVarP(&o.Func, "function", "f", "mean", "The function to apply: mean or median")
	roll.Flags().StringVar(&o.Edge, "edge", "truncate", "Window policy at linear chromosome ends: truncate or reflect; not allowed with -c")

	rollMean := &cobra.Command{
		Use:   "roll_mean",
		Short: "Applies a windowed rolling mean to the data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.Func = "mean"
			o.Edge = "truncate"
			return runRoll(o, cmd.OutOrStdout())
		},
	}
	inputFlag(rollMean)
	windowFlags(rollMean)

	robustZ := &cobra.Command{
		Use:   "robust_z",
		Short: "Converts the data to robust z-scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRobustZ(o, cmd.OutOrStdout())
		},
	}
	inputFlag(robustZ)
	scopeFlag(robustZ)

	cpm := &cobra.Command{
		Use:   "cpm",
		Short: "Normalizes the data to counts per million",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCPM(o, cmd.OutOrStdout())
		},
	}
	inputFlag(cpm)
	scopeFlag(cpm)

	root.AddCommand(roll, rollMean, robustZ, cpm)
	return root
}

func main() {
	logrus.SetOutput(os.Stderr)

	err := newRootCmd().Execute()
	if bgtools.IsBrokenPipe(err) {
		logrus.WithError(err).Warn("output closed early")
		os.Exit(1)
	}
	if err != nil {
		logrus.WithError(err).Error("bgtools failed")
		os.Exit(1)
	}
}
