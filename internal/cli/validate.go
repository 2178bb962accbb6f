package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agenticinfraops/infraviz/pkg/artifacts"
	"github.com/agenticinfraops/infraviz/pkg/errors"
)

// validateFlags holds flags for the validate command.
type validateFlags struct {
	root       string
	strictness string
	github     bool
}

// validateCommand creates the validate command for the Wave 1 artifacts.
func (c *CLI) validateCommand() *cobra.Command {
	var flags validateFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check Wave 1 artifacts against their templates",
		Long: `Check the Wave 1 planning documents and the files that produce them.

The templates under .github/templates must carry the required H2 headings in
order, every agent must link its template without embedding a copy, and the
artifacts under agent-output/ must keep the headings in order.

In relaxed mode missing artifact headings are warnings; in standard mode they
fail the run and extra headings are reported. The mode defaults to the
STRICTNESS environment variable, then relaxed.`,
		Example: `  # Validate the current repository
  infraviz validate

  # Fail on missing headings and print GitHub Actions annotations
  infraviz validate --strictness standard --github`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := flags.strictness
			if !cmd.Flags().Changed("strictness") {
				mode = os.Getenv("STRICTNESS")
			}
			strictness, err := artifacts.ParseStrictness(mode)
			if err != nil {
				return err
			}

			info, err := os.Stat(flags.root)
			if err != nil || !info.IsDir() {
				return errors.New(errors.ErrCodeFileNotFound, "repository root %s is not a directory", flags.root)
			}

			c.Logger.Debug("validating artifacts", "root", flags.root, "strictness", strictness)
			report, err := artifacts.Validate(os.DirFS(flags.root), strictness)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "validate artifacts")
			}
			return c.printReport(report, flags.github)
		},
	}

	cmd.Flags().StringVar(&flags.root, "root", ".", "repository root")
	cmd.Flags().StringVar(&flags.strictness, "strictness", "", "relaxed or standard (default: $STRICTNESS or relaxed)")
	cmd.Flags().BoolVar(&flags.github, "github", false, "print findings as GitHub Actions annotations")

	return cmd
}

// printReport writes the findings and a summary line. It returns an error
// when any finding is an error.
func (c *CLI) printReport(r *artifacts.Report, github bool) error {
	for _, f := range r.Findings {
		if github {
			fmt.Fprintln(c.Out, f.Annotation())
			continue
		}
		printFinding(c.Out, f)
	}

	checked := fmt.Sprintf("%d artifacts, strictness %s", len(r.Artifacts), r.Strictness)
	switch {
	case r.Failed():
		return errors.New(errors.ErrCodeInvalidInput, "artifact validation failed: %d errors, %d warnings (%s)",
			r.Errors(), r.Warnings(), checked)
	case r.Warnings() > 0:
		fmt.Fprintln(c.Out, styleIconWarning.Render(iconWarning)+" "+
			StyleWarning.Render(fmt.Sprintf("Validation passed with %d warnings", r.Warnings()))+" "+
			StyleDim.Render("("+checked+")"))
	default:
		fmt.Fprintln(c.Out, styleIconSuccess.Render(iconSuccess)+" Validation passed "+
			StyleDim.Render("("+checked+")"))
	}
	return nil
}

// printFinding writes one finding with its location.
func printFinding(w io.Writer, f artifacts.Finding) {
	icon := styleIconWarning.Render(iconWarning)
	if f.Level == artifacts.LevelError {
		icon = styleIconError.Render(iconError)
	}
	line := icon + " " + f.Message
	if f.File != "" {
		line += "\n  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(fmt.Sprintf("%s:%d", f.File, f.Line))
	}
	fmt.Fprintln(w, line)
}
