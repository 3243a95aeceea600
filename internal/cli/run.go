package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/passview/pkg/config"
	"github.com/matzehuels/passview/pkg/io"
	"github.com/matzehuels/passview/pkg/observer"
	"github.com/matzehuels/passview/pkg/pipeline"
)

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	passes    string        // comma-separated pass names
	emit      string        // write the transformed graph to this JSON file
	keepGoing bool          // continue after a failing pass
	noCache   bool          // always render through Graphviz
	flags     config.Config // observation overrides (--out, --format, --attributes, --parameters)

	attributes bool
	parameters bool
}

// applyBoolFlags copies --attributes and --parameters into opts.flags when
// they were given, so an explicit false overrides the file and environment.
func (o *runOpts) applyBoolFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("attributes") {
		o.flags.IncludeAttributes = config.Bool(o.attributes)
	}
	if cmd.Flags().Changed("parameters") {
		o.flags.IncludeParameters = config.Bool(o.parameters)
	}
}

// runCommand creates the run command that executes passes over a graph.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run [graph.json]",
		Short: "Run transformation passes over a graph and record diagrams",
		Long: `Run transformation passes over a JSON graph.

When an output destination is configured (--out, PASSVIEW_OUTPUT or a config
file), every pass that creates or erases nodes writes two diagrams:

  pass_{n}_{pass}_input_graph.{format}    erased nodes highlighted
  pass_{n}_{pass}_output_graph.{format}   created nodes highlighted

The destination is a directory or a URL: file://, redis://, mongodb://,
memory://.`,
		Example: `  passview run model.json --out ./diagrams
  passview run model.json --passes fuse_ops,dce --format png --out ./diagrams
  passview run model.json --out redis://localhost:6379/0 --emit optimized.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyBoolFlags(cmd)
			return c.runPipeline(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.passes, "passes", "p", "", fmt.Sprintf("comma-separated passes (default %v)", pipeline.DefaultPasses))
	cmd.Flags().StringVarP(&opts.flags.OutputDestination, "out", "o", "", "diagram destination: directory or sink URL")
	cmd.Flags().StringVarP(&opts.flags.ImageFormat, "format", "f", "", "diagram format: svg (default), png, dot")
	cmd.Flags().BoolVar(&opts.attributes, "attributes", false, "include get_attr nodes in diagrams")
	cmd.Flags().BoolVar(&opts.parameters, "parameters", false, "include parameter nodes in diagrams")
	cmd.Flags().StringVar(&opts.emit, "emit", "", "write the transformed graph to a JSON file")
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "continue with the next pass after a failure")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not reuse previously rendered diagrams")

	return cmd
}

// runPipeline loads the graph, installs the resolved config process-wide so
// every observer sees it, and runs the passes.
func (c *CLI) runPipeline(ctx context.Context, input string, opts runOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig(opts.flags)
	if err != nil {
		return err
	}
	config.Set(cfg)

	g, err := io.ImportJSON(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded graph: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())

	rc := openCache(ctx, opts.noCache || !cfg.Enabled())
	defer rc.Close()
	observe := []observer.Option{observer.WithCache(rc)}

	prog := newProgress(logger)
	runner := pipeline.NewRunner(logger, observe...)
	res, runErr := runner.Execute(ctx, g, pipeline.Options{
		Passes:    pipeline.ParsePasses(opts.passes),
		KeepGoing: opts.keepGoing,
	})
	if res == nil {
		return runErr
	}
	prog.done(fmt.Sprintf("Ran %d passes", len(res.Passes)))

	fmt.Println(passTable(res.Passes))
	printGraphStats(res.Stats)
	for _, p := range res.Passes {
		if p.Err != nil {
			printWarning("%s failed: %v", p.Name, p.Err)
		}
	}

	if opts.emit != "" {
		if err := io.ExportJSON(g, opts.emit); err != nil {
			return err
		}
		printSuccess("Wrote transformed graph")
		printFile(opts.emit)
	}

	if !cfg.Enabled() {
		printInfo("Observation disabled")
		printNextStep("Record diagrams with", fmt.Sprintf("passview run %s --out ./diagrams", input))
		return runErr
	}

	if artifacts := res.Artifacts(); len(artifacts) > 0 {
		printSuccess("Recorded %d diagrams", len(artifacts))
		printKeyValue("Destination", cfg.OutputDestination)
		printNextStep("Browse them with", "passview inspect "+cfg.OutputDestination)
	} else {
		printInfo("No pass changed the graph; nothing recorded")
	}
	return runErr
}
