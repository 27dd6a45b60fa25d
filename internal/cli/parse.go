package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphdrift/graphdrift/pkg/graph"
	"github.com/graphdrift/graphdrift/pkg/pipeline"
)

// parseCommand creates the parse command for reading graph sources.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		output string
		flags  cacheFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "parse [graph.dot]",
		Short: "Parse a graph source into an indexed document",
		Long: `Parse a graph source into an indexed document.

The parse command reads a DOT file (or a previously serialized document with
--format json), validates it, and writes a graph.json document that the
'layout' command consumes. Parsing is cached locally, keyed by the source
content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			return c.runParse(cmd, opts, output, flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.json)")
	cmd.Flags().StringVar(&opts.Format, "format", pipeline.FormatDOT, "source format: dot (default), json")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the parse cache")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runParse(cmd *cobra.Command, opts pipeline.Options, output string, flags cacheFlags) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	runner, err := c.newRunner(cmd, flags)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Parsing graph...")
	spinner.Start()

	doc, cacheHit, err := runner.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Parse failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	// Validate edge endpoints before writing anything out.
	m, err := graph.Build(doc)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(opts.Path, filepath.Ext(opts.Path))
		outputPath = base + ".json"
	}
	if err := graph.WriteDocumentFile(doc, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Parse complete")
	printFile(outputPath)
	printStats(m.NodeCount(), m.EdgeCount(), 0, cacheHit)
	printNewline()
	printNextStep("Layout", "graphdrift layout "+outputPath+" --format json")

	return nil
}
