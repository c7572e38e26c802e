package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dasha/internal/application/commands"
	"dasha/internal/domain"
)

var kpCmd = &cobra.Command{
	Use:   "kp",
	Short: "Krishnamurti Paddhati star, sub and sub-sub lords",
}

var kpLordsCmd = &cobra.Command{
	Use:   "lords <name=longitude>...",
	Short: "Resolve KP lords for one or more longitudes",
	Long: `Resolve the KP star lord, sub lord and (with --kp-depth 3) sub-sub lord
of sidereal longitudes. Points are name=longitude pairs, separated by
commas or spaces, resolved concurrently.

Examples:
  dasha-cli kp lords 123.45
  dasha-cli kp lords Sun=123.45 Moon=6.6667 Asc=201.5 --kp-depth 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		points, err := commands.ParsePoints(strings.Join(args, ","))
		if err != nil {
			return err
		}

		entries, err := commands.NewBatchSubLordsCommand(logger, cfg.Workers, cfg.KPDepth, points).Execute(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range entries {
			if e.Err != nil {
				fmt.Fprintf(out, "%-10s error: %v\n", e.Name, e.Err)
				continue
			}
			fmt.Fprintf(out, "%-10s %9.4f  %-18s %s\n", e.Name, e.SubLords.Position.Longitude,
				e.SubLords.Position.Nakshatra.Name, lordChain(e.SubLords))
		}
		return nil
	},
}

func lordChain(s domain.SubLords) string {
	chain := []string{s.StarLord.String()}
	for _, l := range []domain.Lord{s.SubLord, s.SubSubLord} {
		if l == domain.NoLord {
			break
		}
		chain = append(chain, l.String())
	}
	return strings.Join(chain, "/")
}

var kpTableCmd = &cobra.Command{
	Use:   "table [nakshatra]",
	Short: "Print the KP sub table",
	Long: `Print the 243 KP sub divisions of the zodiac, or the nine of one
nakshatra (1=Ashwini .. 27=Revati).

Examples:
  dasha-cli kp table
  dasha-cli kp table 4`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 0
		if len(args) == 1 {
			var err error
			if n, err = strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("invalid nakshatra number: %q", args[0])
			}
		}

		rows, err := commands.NewSubTableCommand(n).Execute(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-3s %-18s %-8s %-8s %9s %9s\n", "#", "Nakshatra", "Star", "Sub", "From", "To")
		for _, d := range rows {
			fmt.Fprintf(out, "%-3d %-18s %-8s %-8s %9.4f %9.4f\n",
				d.Nakshatra.Index+1, d.Nakshatra.Name, d.StarLord, d.SubLord, d.Start, d.End)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kpCmd)
	kpCmd.AddCommand(kpLordsCmd)
	kpCmd.AddCommand(kpTableCmd)
}
