package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/habitmosaic/pkg/chain"
	"github.com/matzehuels/habitmosaic/pkg/errors"
	"github.com/matzehuels/habitmosaic/pkg/pipeline"
	"github.com/matzehuels/habitmosaic/pkg/render"
	"github.com/matzehuels/habitmosaic/pkg/voronoi"
)

// renderFlags holds the flags shared by render and mosaic. Zero values
// fall back to the [render] section of the config.
type renderFlags struct {
	output     string  // output directory
	formats    string  // comma-separated formats
	width      float64 // canvas width in pixels
	height     float64 // canvas height in pixels
	minSize    float64 // minimum cell size as % of average
	maxSize    float64 // maximum cell size as % of average
	dayNumbers bool    // draw day numbers inside cells
	title      string  // document title
	noCache    bool    // bypass the cache entirely
	refresh    bool    // recompute and overwrite cached entries
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output formats: svg, png, json (comma-separated)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "canvas width in pixels")
	cmd.Flags().Float64Var(&f.height, "height", 0, "canvas height in pixels")
	cmd.Flags().Float64Var(&f.minSize, "min-size", 0, "minimum cell size as % of the average")
	cmd.Flags().Float64Var(&f.maxSize, "max-size", 0, "maximum cell size as % of the average")
	cmd.Flags().BoolVar(&f.dayNumbers, "day-numbers", false, "draw the day of month inside each cell")
	cmd.Flags().StringVar(&f.title, "title", "", "document title (default: month and year)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute cached layouts and artifacts")
}

// options merges the flags over the config defaults.
func (f *renderFlags) options(c *CLI, logger *log.Logger) pipeline.Options {
	opts := c.renderDefaults()
	if f.formats != "" {
		opts.Formats = pipeline.ParseFormats(f.formats)
	}
	if f.width > 0 {
		opts.Width = f.width
	}
	if f.height > 0 {
		opts.Height = f.height
	}
	if f.minSize > 0 {
		opts.MinSizePercent = f.minSize
	}
	if f.maxSize > 0 {
		opts.MaxSizePercent = f.maxSize
	}
	opts.DayNumbers = opts.DayNumbers || f.dayNumbers
	opts.Title = f.title
	opts.Refresh = f.refresh
	opts.Logger = logger
	logger.Debug("render options", "formats", opts.Formats, "width", opts.Width, "height", opts.Height)
	return opts
}

// renderCommand renders one month or a whole year of a chain.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	var year, month int

	cmd := &cobra.Command{
		Use:   "render <chain-id>",
		Short: "Render a chain's month as a mosaic",
		Long: `Render a chain's month as a mosaic of one cell per day.

Files are written to the output directory as YYYY-MM.<format>. Use
--month 0 to render all twelve months of --year.`,
		Example: `  habitmosaic render 3f2a --month 2 --year 2024 -f svg,png
  habitmosaic render 3f2a --year 2024 --month 0 -o mosaics/`,
		Args: cobra.ExactArgs(1),
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
			if month != 0 {
				if err := errors.ValidateMonth(year, time.Month(month)); err != nil {
					return err
				}
			}

			svc, closeSvc, err := c.openService(ctx)
			if err != nil {
				return err
			}
			defer closeSvc()
			ch, err := resolveChain(ctx, svc, args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := flags.options(c, logger)
			opts.Color = ch.Color
			opts.Year = year

			if month == 0 {
				return c.renderYear(ctx, runner, ch, flags, opts)
			}
			return c.renderMonth(ctx, runner, ch, flags, time.Month(month), opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&year, "year", 0, "year to render (default: current)")
	cmd.Flags().IntVar(&month, "month", 0, "month to render, 1-12, or 0 for the whole year (default: current)")

	return cmd
}

func (c *CLI) renderMonth(ctx context.Context, runner *pipeline.Runner, ch *chain.Chain, flags renderFlags, month time.Month, opts pipeline.Options) error {
	days := ch.MonthDays(opts.Year, month)
	opts.Month = month
	if opts.Title == "" {
		opts.Title = monthTitle(ch.Name, opts.Year, month)
	}
	if err := opts.ValidateAndSetDefaults(days); err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s %d...", chain.MonthName(month), opts.Year))
	spinner.Start()
	result, err := runner.Execute(ctx, days, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done("Rendered mosaic", "month", fmt.Sprintf("%d-%02d", opts.Year, month))

	paths, err := writeArtifacts(flags.output, result)
	if err != nil {
		return err
	}
	printSuccess("%s %s", ch.Name, StyleDim.Render(fmt.Sprintf("%s %d", chain.MonthName(month), opts.Year)))
	printStats(result.Stats.CellCount, result.Stats.Completed, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

func (c *CLI) renderYear(ctx context.Context, runner *pipeline.Runner, ch *chain.Chain, flags renderFlags, opts pipeline.Options) error {
	opts.Month = time.January
	opts.SetDefaults(nil)
	if err := opts.Validate(); err != nil {
		return err
	}
	monthDays := func(m time.Month) []voronoi.Day { return ch.MonthDays(opts.Year, m) }

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d...", opts.Year))
	spinner.Start()
	results, err := runner.ExecuteYear(ctx, monthDays, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}

	spinner.SetMessage(fmt.Sprintf("Writing %d months...", len(results)))
	completed := 0
	var paths []string
	for _, res := range results {
		completed += res.Stats.Completed
		written, err := writeArtifacts(flags.output, res)
		if err != nil {
			spinner.StopWithError("Write failed")
			return err
		}
		paths = append(paths, written...)
	}
	spinner.Stop()
	prog.done("Rendered year", "months", len(results), "year", opts.Year)

	printSuccess("%s %s", ch.Name, StyleDim.Render(fmt.Sprint(opts.Year)))
	for _, p := range paths {
		printFile(p)
	}
	printDetail("%d days completed", completed)
	return nil
}

// writeArtifacts writes every artifact of res to dir and returns the paths
// in format order.
func writeArtifacts(dir string, res *pipeline.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	formats := make([]string, 0, len(res.Artifacts))
	for f := range res.Artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := filepath.Join(dir, render.Filename(res.Year, res.Month, f))
		if err := os.WriteFile(path, res.Artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// monthTitle is the document title of a chain's month.
func monthTitle(name string, year int, month time.Month) string {
	return fmt.Sprintf("%s · %s %d", name, chain.MonthName(month), year)
}
