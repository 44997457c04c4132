package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deconflict/pkg/pipeline"
	"github.com/matzehuels/deconflict/pkg/resolve"
)

// resolveCommand creates the resolve command for repairing layout conflicts.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		output    string
		noCache   bool
		redisAddr string
		quiet     bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "resolve [layout.json]",
		Short: "Detect and repair conflicts in a diagram layout",
		Long: `Detect and repair conflicts in a diagram layout.

The resolve command scans the layout for overlapping text labels, crossing
arrows, and arrows running through labels, then repairs them by shifting
element groups horizontally. One group shift is applied per iteration until
the layout is clean or the iteration cap is reached.

The resolved layout is written next to the input (or to --output), and the
resolution transcript is printed to stdout.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), args[0], opts, output, noCache, redisAddr, quiet)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.resolved.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the cache and recompute")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "use a Redis cache backend at host:port")
	cmd.Flags().StringVar(&opts.Scope, "scope", "", "cache namespace for shared backends")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "TOML tuning file")
	cmd.Flags().IntVar(&opts.MaxIterations, "max-iterations", 0, "override the iteration cap")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the resolution transcript")

	return cmd
}

// runResolve executes the pipeline and reports the outcome.
func (c *CLI) runResolve(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool, redisAddr string, quiet bool) error {
	runner, err := c.newRunner(ctx, noCache, redisAddr)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Input = input
	opts.Logger = c.Logger
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		output = base + ".resolved.json"
	}
	opts.Output = output

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Resolving conflicts...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Resolution failed")
		return fmt.Errorf("resolve %s: %w", input, err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if !quiet {
		fmt.Print(result.Report.Text())
		printNewline()
	}

	report := result.Report
	switch report.Status {
	case resolve.StatusConverged:
		prog.done(fmt.Sprintf("Resolved %d conflicts", report.Initial().Total()))
		printSuccess("Layout is conflict free")
	case resolve.StatusStuck:
		printWarning("Conflicts remain: no shiftable group found")
	case resolve.StatusExhausted:
		printWarning("Conflicts remain: iteration cap reached with %d unresolved", report.Remaining.Total())
	}

	printFile(output)
	printStats(len(result.Layout.Elements), report.ShiftCount(), result.CacheInfo.ResolveHit)
	printNewline()
	printNextStep("Verify", "deconflict check "+output)

	return nil
}
