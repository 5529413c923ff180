package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/habitmosaic/pkg/chain"
	"github.com/matzehuels/habitmosaic/pkg/pipeline"
)

// mosaicCommand renders a blank month without touching the chain store.
func (c *CLI) mosaicCommand() *cobra.Command {
	var flags renderFlags
	var days, year, month int
	var color string

	cmd := &cobra.Command{
		Use:   "mosaic",
		Short: "Render a blank month to preview the layout",
		Long: `Render a blank month with no completed days.

The month label cell takes one of the days, so --days 31 yields 30
toggleable cells plus the label.`,
		Example: `  habitmosaic mosaic --days 28 --year 2025 --month 2 -f svg,json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			now := time.Now()
			if !cmd.Flags().Changed("year") {
				year = now.Year()
			}
			if !cmd.Flags().Changed("month") {
				month = int(now.Month())
			}
			if !cmd.Flags().Changed("days") {
				days = chain.DaysIn(year, time.Month(month))
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			dayList := pipeline.BlankDays(year, time.Month(month), days)
			opts := flags.options(c, logger)
			opts.Year = year
			opts.Month = time.Month(month)
			opts.Color = color

			result, err := runner.Execute(ctx, dayList, opts)
			if err != nil {
				return err
			}
			paths, err := writeArtifacts(flags.output, result)
			if err != nil {
				return err
			}

			printSuccess("Mosaic of %d days", result.Stats.DayCount)
			printStats(result.Stats.CellCount, result.Stats.Completed, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
			printKeyValue("Label", fmt.Sprintf("day %d", result.LabelIndex()+1))
			printKeyValue("Generate", result.Stats.GenerateTime.Round(time.Microsecond).String())
			printKeyValue("Render", result.Stats.RenderTime.Round(time.Microsecond).String())
			for _, p := range paths {
				printFile(p)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&days, "days", 0, "number of day cells (default: days in the month)")
	cmd.Flags().IntVar(&year, "year", 0, "year of the month (default: current)")
	cmd.Flags().IntVar(&month, "month", 0, "month, 1-12 (default: current)")
	cmd.Flags().StringVar(&color, "color", "", "completed cell colour as #RRGGBB")

	return cmd
}
