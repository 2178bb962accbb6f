package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenticinfraops/infraviz/pkg/catalog"
	"github.com/agenticinfraops/infraviz/pkg/errors"
	"github.com/agenticinfraops/infraviz/pkg/observability"
	"github.com/agenticinfraops/infraviz/pkg/pipeline"
)

// renderFlags holds flags for the render command.
type renderFlags struct {
	all         bool
	family      string
	output      string
	formats     string
	noCache     bool
	refresh     bool
	parallel    int
	interactive bool
}

// renderCommand creates the render command for writing diagrams to disk.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [name...]",
		Short: "Render diagrams to PNG, SVG, PDF or DOT files",
		Long: `Render catalog diagrams into the output directory.

Each diagram writes the files it was published as, for example the ROI
calculator writes roi-calculator.png at print resolution and
roi-calculator-web.png at web resolution. Use --format to keep only some
formats. A manifest.json listing every written file is stored next to them.`,
		Example: `  # Render everything into ./generated
  infraviz render --all

  # Render the workflow graphs as SVG only
  infraviz render --family workflow -f svg

  # Render two diagrams into docs/images
  infraviz render roi-calculator waf-scorecard -o docs/images

  # Pick diagrams interactively
  infraviz render -i`,
		ValidArgsFunction: completeDiagramNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := c.selectEntries(args, flags)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("Nothing selected")
				return nil
			}
			opts, err := c.renderOptions(cmd, flags)
			if err != nil {
				return err
			}
			return c.runRender(cmd, entries, opts, flags.noCache)
		},
	}

	cmd.Flags().BoolVar(&flags.all, "all", false, "render every diagram")
	cmd.Flags().StringVar(&flags.family, "family", "", "render one family: architecture, workflow or infographic")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output directory (default: generated)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "comma-separated formats to write: png, svg, pdf, dot (default: all)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().IntVarP(&flags.parallel, "parallel", "p", 0, "diagrams rendered at once (default: 4)")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "pick diagrams interactively")

	cmd.MarkFlagsMutuallyExclusive("all", "family", "interactive")

	return cmd
}

// selectEntries resolves the diagrams named on the command line or by flags.
func (c *CLI) selectEntries(args []string, flags renderFlags) ([]catalog.Entry, error) {
	switch {
	case flags.interactive:
		if len(args) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--interactive does not take diagram names")
		}
		return runPicker(catalog.Entries())
	case flags.all:
		if len(args) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--all does not take diagram names")
		}
		return catalog.Entries(), nil
	case flags.family != "":
		if len(args) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--family does not take diagram names")
		}
		return catalog.Filter(flags.family)
	}

	if len(args) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "name a diagram, or use --all, --family or --interactive")
	}
	return lookupEntries(args)
}

// lookupEntries resolves names in order, ignoring repeats.
func lookupEntries(names []string) ([]catalog.Entry, error) {
	var entries []catalog.Entry
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if err := errors.ValidateDiagramName(name); err != nil {
			return nil, err
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		e, err := catalog.Lookup(name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// renderOptions merges the config file with the flags that were set.
func (c *CLI) renderOptions(cmd *cobra.Command, flags renderFlags) (pipeline.Options, error) {
	opts := c.config.PipelineOptions()
	opts.Logger = c.Logger
	opts.Refresh = flags.refresh

	if flags.output != "" {
		opts.OutputDir = flags.output
	}
	if cmd.Flags().Changed("format") {
		opts.Formats = pipeline.ParseFormats(flags.formats)
	}
	if flags.parallel > 0 {
		opts.Parallel = flags.parallel
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// runRender renders entries with a spinner and prints what was written.
func (c *CLI) runRender(cmd *cobra.Command, entries []catalog.Entry, opts pipeline.Options, noCache bool) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	counters := &observability.Counters{}
	observability.SetPipelineHooks(counters)
	observability.SetCacheHooks(counters)

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, os.Stderr, fmt.Sprintf("Rendering %d diagrams...", len(entries)))
	spinner.Start()

	results, err := runner.Render(ctx, entries, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	logger.Debug("cache", "hits", counters.CacheHits.Load(), "misses", counters.CacheMisses.Load(),
		"bytes_written", counters.CacheBytes.Load())

	files := 0
	for _, res := range results {
		files += len(res.Files)
	}
	if files == 0 {
		printWarning("No outputs match --format %s", strings.Join(opts.Formats, ","))
		return nil
	}

	printSuccess("Rendered %s diagrams into %s", StyleNumber.Render(fmt.Sprint(len(results))), StyleHighlight.Render(opts.OutputDir))
	for _, res := range results {
		if len(res.Files) == 0 {
			continue
		}
		printResult(res.Entry, len(res.Files), res.Duration, res.CacheHit)
		for _, f := range res.Files {
			printFile(f.Path)
		}
	}
	prog.done(fmt.Sprintf("Wrote %d files", files))
	printNextStep("Preview", appName+" serve")
	return nil
}
