package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deconflict/pkg/conflict"
	"github.com/matzehuels/deconflict/pkg/layout"
	"github.com/matzehuels/deconflict/pkg/pipeline"
)

// checkCommand creates the check command for conflict scanning.
func (c *CLI) checkCommand() *cobra.Command {
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "check [layout.json]",
		Short: "Scan a layout for conflicts without modifying it",
		Long: `Scan a layout for conflicts without modifying it.

The check command runs a single detection pass over the layout and reports
per-category conflict counts. It never shifts anything. The command exits
non-zero when conflicts are present, which makes it usable as a quality
gate in build pipelines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "TOML tuning file")

	return cmd
}

// runCheck scans the layout once and reports the counts.
func (c *CLI) runCheck(input string, opts pipeline.Options) error {
	l, err := layout.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	cfg, err := opts.ResolveConfig()
	if err != nil {
		return err
	}

	set := conflict.Detect(l, cfg.Metrics())

	printInfo("Scanned %d elements, %d groups, %d links", len(l.Elements), len(l.Groups), len(l.Links))
	printKeyValue("Text overlaps", fmt.Sprintf("%d", len(set.TextOverlaps)))
	printKeyValue("Arrow crossings", fmt.Sprintf("%d", len(set.ArrowCrossings)))
	printKeyValue("Arrow through text", fmt.Sprintf("%d", len(set.ArrowsThroughText)))
	printKeyValue("Max x coordinate", fmt.Sprintf("%.2f", l.MaxX()))
	printNewline()

	if total := set.Total(); total > 0 {
		printWarning("%d conflicts found", total)
		printNextStep("Repair", "deconflict resolve "+input)
		return fmt.Errorf("%d conflicts found", total)
	}

	printSuccess("Layout is conflict free")
	return nil
}
