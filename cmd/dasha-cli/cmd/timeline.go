package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"dasha/internal/application/commands"
	"dasha/internal/domain"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print the Dasha timeline from birth",
	Long: `Generate the Vimshottari Dasha timeline from birth down to --depth levels.
The first period at each level is marked * when it was already running at
birth.

Examples:
  dasha-cli timeline --moon 6.6667 --birth 1990-05-17
  dasha-cli timeline --profile alice --depth 2 --years 80`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		in, err := readBirth(ctx, cmd)
		if err != nil {
			return err
		}
		years, _ := cmd.Flags().GetFloat64("years")
		if !cmd.Flags().Changed("years") {
			years = cfg.TimelineYears
		}

		result, err := commands.NewBuildTimelineCommand(cache, logger, in.MoonLongitude, in.BirthJD, years, cfg.Depth, cfg.DaysPerYear).Execute(ctx)
		if err != nil {
			return err
		}

		tl := result.Timeline
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Birth %s: %s Maha Dasha, %.4f years left (Moon in %s)\n\n",
			formatJD(tl.BirthJD), tl.Balance.Lord, tl.Balance.BalanceYears, tl.Balance.Position.Nakshatra.Name)
		printPeriods(out, tl.Periods, "")
		if tl.Truncated {
			fmt.Fprintln(out, "(truncated)")
		}
		return nil
	},
}

func printPeriods(w io.Writer, periods []domain.Period, indent string) {
	for _, p := range periods {
		mark := " "
		if p.Partial {
			mark = "*"
		}
		fmt.Fprintf(w, "%s%s%-8s %s  %s  %8.4fy\n", indent, mark, p.Lord, formatJD(p.Start), formatJD(p.End), p.Years)
		printPeriods(w, p.Children, indent+strings.Repeat(" ", 2))
	}
}

func init() {
	addBirthFlags(timelineCmd)
	timelineCmd.Flags().Float64("years", 120, "years of life to cover")
	rootCmd.AddCommand(timelineCmd)
}
