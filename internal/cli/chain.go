package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/habitmosaic/pkg/chain"
	"github.com/matzehuels/habitmosaic/pkg/errors"
)

// chainCommand groups the chain management subcommands.
func (c *CLI) chainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chain",
		Aliases: []string{"chains"},
		Short:   "Manage habit chains",
		Long: `Manage habit chains.

Chains are addressed by ID. Any unique prefix of an ID is accepted, so the
first few characters shown by "chain list" are usually enough.`,
	}

	cmd.AddCommand(c.chainCreateCommand())
	cmd.AddCommand(c.chainListCommand())
	cmd.AddCommand(c.chainShowCommand())
	cmd.AddCommand(c.chainUpdateCommand())
	cmd.AddCommand(c.chainDeleteCommand())
	cmd.AddCommand(c.chainToggleCommand())
	cmd.AddCommand(c.chainExportCommand())
	cmd.AddCommand(c.chainImportCommand())

	return cmd
}

// withService opens the chain service for the duration of fn.
func (c *CLI) withService(ctx context.Context, fn func(*chain.Service) error) error {
	svc, closeFn, err := c.openService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(svc)
}

func (c *CLI) chainCreateCommand() *cobra.Command {
	var p chain.CreateParams
	var start string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Name = args[0]
			if start != "" {
				t, err := errors.ParseDayKey(start)
				if err != nil {
					return err
				}
				p.StartDate = t
			}
			return c.withService(cmd.Context(), func(svc *chain.Service) error {
				ch, err := svc.Create(cmd.Context(), p)
				if err != nil {
					return err
				}
				printSuccess("Created %s", StyleHighlight.Render(ch.Name))
				printKeyValue("ID", ch.ID)
				printKeyValue("Color", lipgloss.NewStyle().Foreground(lipgloss.Color(ch.Color)).Render("■ "+ch.Color))
				printKeyValue("Start", chain.DayKey(ch.StartDate))
				printNewline()
				printNextStep("Mark today done", fmt.Sprintf("%s chain toggle %s", appName, shortID(ch.ID)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&p.Description, "description", "d", "", "what the habit is about")
	cmd.Flags().StringVarP(&p.Goal, "goal", "g", "", "what you want to achieve")
	cmd.Flags().StringVar(&p.Color, "color", "", "completed cell colour as #RRGGBB (default: from palette)")
	cmd.Flags().StringVar(&start, "start", "", "start date YYYY-MM-DD (default: today)")

	return cmd
}

func (c *CLI) chainListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all chains",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd.Context(), func(svc *chain.Service) error {
				chains, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(chains) == 0 {
					printInfo("No chains yet")
					printNextStep("Create one", appName+" chain create \"Read 20 pages\"")
					return nil
				}
				fmt.Println(chainTable(chains, time.Now()))
				return nil
			})
		},
	}
}

// chainTable renders chains with their streaks as a bordered table.
func chainTable(chains []*chain.Chain, now time.Time) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(chains))
	for _, ch := range chains {
		st := ch.Stats(now)
		rows = append(rows, []string{
			shortID(ch.ID),
			ch.Name,
			fmt.Sprintf("%d/%d", st.Completed, st.Total),
			fmt.Sprint(st.CurrentStreak),
			humanize.Time(ch.UpdatedAt),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Done", "Streak", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 0, 4:
				return lipgloss.NewStyle().Foreground(colorDim)
			case 1:
				if row < len(chains) {
					return lipgloss.NewStyle().Foreground(lipgloss.Color(chains[row].Color))
				}
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

func (c *CLI) chainShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a chain and its progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd.Context(), func(svc *chain.Service) error {
				ch, err := resolveChain(cmd.Context(), svc, args[0])
				if err != nil {
					return err
				}
				st, err := svc.Stats(cmd.Context(), ch.ID)
				if err != nil {
					return err
				}

				fmt.Println(StyleTitle.Render(ch.Name))
				if ch.Description != "" {
					printDetail("%s", ch.Description)
				}
				printNewline()
				printKeyValue("ID", ch.ID)
				if ch.Goal != "" {
					printKeyValue("Goal", ch.Goal)
				}
				printKeyValue("Start", chain.DayKey(ch.StartDate))
				if ch.EndDate != nil {
					printKeyValue("End", chain.DayKey(*ch.EndDate))
				}
				printKeyValue("Created", humanize.Time(ch.CreatedAt))
				printChainStats(st)
				return nil
			})
		},
	}
}

func (c *CLI) chainUpdateCommand() *cobra.Command {
	var name, description, goal, color, start, end string
	var clearEnd bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a chain's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u chain.Update
			flags := cmd.Flags()
			if flags.Changed("name") {
				u.Name = &name
			}
			if flags.Changed("description") {
				u.Description = &description
			}
			if flags.Changed("goal") {
				u.Goal = &goal
			}
			if flags.Changed("color") {
				u.Color = &color
			}
			if flags.Changed("start") {
				t, err := errors.ParseDayKey(start)
				if err != nil {
					return err
				}
				u.StartDate = &t
			}
			if flags.Changed("end") {
				t, err := errors.ParseDayKey(end)
				if err != nil {
					return err
				}
				u.EndDate = &t
			}
			u.ClearEndDate = clearEnd

			return c.withService(cmd.Context(), func(svc *chain.Service) error {
				ch, err := resolveChain(cmd.Context(), svc, args[0])
				if err != nil {
					return err
				}
				ch, err = svc.Update(cmd.Context(), ch.ID, u)
				if err != nil {
					return err
				}
				printSuccess("Updated %s", StyleHighlight.Render(ch.Name))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&goal, "goal", "g", "", "new goal")
	cmd.Flags().StringVar(&color, "color", "", "new colour as #RRGGBB")
	cmd.Flags().StringVar(&start, "start", "", "new start date YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "end date YYYY-MM-DD")
	cmd.Flags().BoolVar(&clearEnd, "clear-end", false, "remove the end date")
	cmd.MarkFlagsMutuallyExclusive("end", "clear-end")

	return cmd
}

func (c *CLI) chainDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a chain and its history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd.Context(), func(svc *chain.Service) error {
				ch, err := resolveChain(cmd.Context(), svc, args[0])
				if err != nil {
					return err
				}
				if err := svc.Delete(cmd.Context(), ch.ID); err != nil {
					return err
				}
				printSuccess("Deleted %s", ch.Name)
				return nil
			})
		},
	}
}

func (c *CLI) chainToggleCommand() *cobra.Command {
	var set, unset bool

	cmd := &cobra.Command{
		Use:   "toggle <id> [date]",
		Short: "Toggle a day's completion (default: today)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := chain.Midnight(time.Now())
			if len(args) == 2 {
				t, err := errors.ParseDayKey(args[1])
				if err != nil {
					return err
				}
				day = t
			}

			return c.withService(cmd.Context(), func(svc *chain.Service) error {
				ch, err := resolveChain(cmd.Context(), svc, args[0])
				if err != nil {
					return err
				}

				var done bool
				switch {
				case set || unset:
					done = set
					err = svc.SetDay(cmd.Context(), ch.ID, day, done)
				default:
					done, err = svc.ToggleDay(cmd.Context(), ch.ID, day)
				}
				if err != nil {
					return err
				}

				state := StyleDim.Render("pending")
				if done {
					state = StyleSuccess.Render("done")
				}
				printSuccess("%s %s %s %s", ch.Name, StyleDim.Render("·"), chain.DayKey(day), state)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&set, "done", false, "mark the day done instead of toggling")
	cmd.Flags().BoolVar(&unset, "undone", false, "mark the day not done instead of toggling")
	cmd.MarkFlagsMutuallyExclusive("done", "undone")

	return cmd
}

func (c *CLI) chainExportCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all chains as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = chain.FormatFromPath(output)
			}
			return c.withService(cmd.Context(), func(svc *chain.Service) error {
				chains, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}

				var w io.Writer = cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("create %s: %w", output, err)
					}
					defer f.Close()
					w = f
				}
				if err := chain.Export(w, chains, format); err != nil {
					return err
				}
				if output != "" {
					printSuccess("Exported %d chains", len(chains))
					printFile(output)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default: from file extension)")

	return cmd
}

func (c *CLI) chainImportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import chains from a JSON or YAML export",
		Long:  `Import chains from a JSON or YAML export. Chains with an existing ID are replaced.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				format = chain.FormatFromPath(path)
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			chains, err := chain.Import(f, format)
			if err != nil {
				return err
			}
			if len(chains) == 0 {
				printWarning("%s contains no chains", path)
				return nil
			}
			return c.withService(cmd.Context(), func(svc *chain.Service) error {
				n, err := svc.Import(cmd.Context(), chains)
				if err != nil {
					return err
				}
				printSuccess("Imported %d chains", n)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default: from file extension)")

	return cmd
}

// resolveChain looks up a chain by full ID, falling back to a unique ID
// prefix.
func resolveChain(ctx context.Context, svc *chain.Service, arg string) (*chain.Chain, error) {
	ch, err := svc.Get(ctx, arg)
	if err == nil {
		return ch, nil
	}
	if !errors.Is(err, errors.ErrCodeChainNotFound) {
		return nil, err
	}

	chains, listErr := svc.List(ctx)
	if listErr != nil {
		return nil, listErr
	}
	var match *chain.Chain
	for _, cand := range chains {
		if !strings.HasPrefix(cand.ID, arg) {
			continue
		}
		if match != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "chain id prefix %q is ambiguous", arg)
		}
		match = cand
	}
	if match == nil {
		return nil, err
	}
	return match, nil
}

// shortID is the prefix shown in listings.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
