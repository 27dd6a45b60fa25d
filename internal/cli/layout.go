package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphdrift/graphdrift/pkg/pipeline"
	"github.com/graphdrift/graphdrift/pkg/sink"
	"github.com/graphdrift/graphdrift/pkg/solver"
)

// layoutCommand creates the layout command for running the solver.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		framesPath string
		socketAddr string
		socketProt string
		listen     bool
		tui        bool
		configPath string
		flags      cacheFlags
	)
	opts := pipeline.Options{Config: solver.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "layout [graph.dot]",
		Short: "Relax a graph into a 3D layout, streaming animation frames",
		Long: `Relax a graph into a 3D layout, streaming animation frames.

The layout command runs the dimension-annealed force solver over the input
graph. Frames can be appended to a JSON Lines file (--frames), pushed over a
nanomsg socket (--socket), or watched live in the terminal (--tui); the final
frame is always written as layout JSON.

Seeded runs (--seed) are reproducible and their final layout is cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			if configPath != "" {
				cfg, err := solver.LoadConfigFile(configPath)
				if err != nil {
					return err
				}
				applyConfigFlags(cmd, &cfg, opts.Config)
				opts.Config = cfg
			}
			return c.runLayout(cmd, opts, layoutOutputs{
				output:     output,
				framesPath: framesPath,
				socketAddr: socketAddr,
				socketProt: socketProt,
				listen:     listen,
				tui:        tui,
			}, flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&opts.Format, "format", pipeline.FormatDOT, "source format: dot (default), json")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the parse cache")
	cmd.Flags().StringVar(&configPath, "config", "", "solver tuning file (TOML)")

	// Sink flags
	cmd.Flags().StringVar(&framesPath, "frames", "", "append every frame to a JSON Lines file")
	cmd.Flags().StringVar(&socketAddr, "socket", "", "stream frames to a nanomsg address, e.g. tcp://127.0.0.1:7210")
	cmd.Flags().StringVar(&socketProt, "socket-protocol", "push", "socket protocol: push (default), pub")
	cmd.Flags().BoolVar(&listen, "listen", false, "bind the socket instead of dialing")
	cmd.Flags().BoolVar(&tui, "tui", false, "watch the relaxation live in the terminal")

	// Solver flags
	cmd.Flags().Uint64Var(&opts.Config.Seed, "seed", opts.Config.Seed, "random seed (0: fresh layout per run, not cached)")
	cmd.Flags().IntVar(&opts.Config.MaxDims, "max-dims", opts.Config.MaxDims, "dimensionality ceiling for annealing")
	cmd.Flags().IntVar(&opts.Config.OuterIters, "outer-iters", opts.Config.OuterIters, "frames per annealing phase")
	cmd.Flags().IntVar(&opts.Config.InnerIters, "inner-iters", opts.Config.InnerIters, "relaxation steps per frame")
	cmd.Flags().IntVar(&opts.Config.Workers, "workers", opts.Config.Workers, "workers for the repulsion pass (0/1: serial)")
	flags.register(cmd)

	return cmd
}

// layoutOutputs collects the frame delivery choices for one layout run.
type layoutOutputs struct {
	output     string
	framesPath string
	socketAddr string
	socketProt string
	listen     bool
	tui        bool
}

// applyConfigFlags reapplies explicitly set solver flags on top of a
// loaded config file, so flags win over file values.
func applyConfigFlags(cmd *cobra.Command, cfg *solver.Config, flagCfg solver.Config) {
	if cmd.Flags().Changed("seed") {
		cfg.Seed = flagCfg.Seed
	}
	if cmd.Flags().Changed("max-dims") {
		cfg.MaxDims = flagCfg.MaxDims
	}
	if cmd.Flags().Changed("outer-iters") {
		cfg.OuterIters = flagCfg.OuterIters
	}
	if cmd.Flags().Changed("inner-iters") {
		cfg.InnerIters = flagCfg.InnerIters
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = flagCfg.Workers
	}
}

func (c *CLI) runLayout(cmd *cobra.Command, opts pipeline.Options, outs layoutOutputs, flags cacheFlags) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	runner, err := c.newRunner(cmd, flags)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	sinks, closeSinks, err := buildSinks(outs)
	if err != nil {
		return err
	}
	defer closeSinks()

	var result *pipeline.Result
	if outs.tui {
		result, err = c.runLayoutTUI(ctx, runner, opts, sinks)
	} else {
		spinner := newSpinnerWithContext(ctx, "Relaxing layout...")
		spinner.Start()
		result, err = runner.Execute(ctx, opts, sinks)
		if err != nil {
			spinner.StopWithError("Layout failed")
			return err
		}
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := outs.output
	if outputPath == "" {
		base := strings.TrimSuffix(opts.Path, filepath.Ext(opts.Path))
		outputPath = base + ".layout.json"
	}
	if err := writeFinalFrame(result.Final, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.FrameCount, result.CacheInfo.LayoutHit)
	if n := len(result.Warnings); n > 0 {
		printWarning("%d label(s) fell back to node ids", n)
	}
	printNewline()
	printNextStep("Serve", "graphdrift serve")

	return nil
}

// buildSinks assembles the frame fan-out from the output flags. The
// returned cleanup closes file and socket sinks.
func buildSinks(outs layoutOutputs) (solver.Sink, func(), error) {
	var (
		sinks   sink.Multi
		closers []func()
	)
	cleanup := func() {
		for _, fn := range closers {
			fn()
		}
	}

	if outs.framesPath != "" {
		j, err := sink.OpenJSONLFile(outs.framesPath)
		if err != nil {
			return nil, func() {}, err
		}
		sinks = append(sinks, j)
		closers = append(closers, func() { _ = j.Close() })
	}
	if outs.socketAddr != "" {
		s, err := sink.DialSocket(sink.SocketOptions{
			Addr:     outs.socketAddr,
			Protocol: outs.socketProt,
			Listen:   outs.listen,
		})
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		sinks = append(sinks, s)
		closers = append(closers, func() { _ = s.Close() })
	}

	if len(sinks) == 0 {
		return sink.Discard, cleanup, nil
	}
	return sinks, cleanup, nil
}

// writeFinalFrame writes the final frame as indented layout JSON.
func writeFinalFrame(f *solver.Frame, path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
