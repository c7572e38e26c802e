package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dasha/internal/application/commands"
)

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the Dasha periods running at a moment",
	Long: `Report the period running at every level from Maha down to --depth at
the --at moment (default now), with the time left in each.

Examples:
  dasha-cli current --moon 6.6667 --birth 1990-05-17
  dasha-cli current --profile alice --at 2030-01-01 --depth 5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		in, err := readBirth(ctx, cmd)
		if err != nil {
			return err
		}
		at, err := readMoment(cmd, "at")
		if err != nil {
			return err
		}

		result, err := commands.NewCurrentStateCommand(in.MoonLongitude, in.BirthJD, at, cfg.Depth, cfg.DaysPerYear).Execute(ctx)
		if err != nil {
			return err
		}
		printState(cmd.OutOrStdout(), result)
		return nil
	},
}

func printState(w io.Writer, res *commands.CurrentResult) {
	fmt.Fprintf(w, "At %s\n", formatJD(res.State.TargetJD))
	for _, a := range res.State.Levels {
		if !a.Determined {
			fmt.Fprintf(w, "  %-10s undetermined\n", a.Level)
			continue
		}
		fmt.Fprintf(w, "  %-10s %-8s %s  %s  %10.4f years left\n",
			a.Level, a.Lord, formatJD(a.Start), formatJD(a.End), a.RemainingYears(cfg.DaysPerYear))
	}
	if res.Unresolved != nil {
		fmt.Fprintf(w, "  (%v)\n", res.Unresolved)
	}
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the birth, Maha and Antar Dasha",
	Long: `Print the birth Dasha and the Maha and Antar Dasha running at the --at
moment (default now), each with its balance in years.

Examples:
  dasha-cli summary --profile alice`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		in, err := readBirth(ctx, cmd)
		if err != nil {
			return err
		}
		at, err := readMoment(cmd, "at")
		if err != nil {
			return err
		}

		s, err := commands.NewSummarizeCommand(in.MoonLongitude, in.BirthJD, at, cfg.DaysPerYear).Execute(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Birth  %-8s %8.4f of %4.1f years left, ends %s\n", s.Birth.Lord, s.Birth.BalanceYears, s.Birth.TotalYears, formatJD(s.Birth.EndJD))
		fmt.Fprintf(out, "Maha   %-8s %8.4f of %4.1f years left, ends %s\n", s.Maha.Lord, s.Maha.BalanceYears, s.Maha.TotalYears, formatJD(s.Maha.EndJD))
		fmt.Fprintf(out, "Antar  %-8s %8.4f of %4.1f years left, ends %s\n", s.Antar.Lord, s.Antar.BalanceYears, s.Antar.TotalYears, formatJD(s.Antar.EndJD))
		return nil
	},
}

func init() {
	addBirthFlags(currentCmd)
	currentCmd.Flags().String("at", "", "moment to inspect (default now)")
	rootCmd.AddCommand(currentCmd)

	addBirthFlags(summaryCmd)
	summaryCmd.Flags().String("at", "", "current moment (default now)")
	rootCmd.AddCommand(summaryCmd)
}
