package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dasha/internal/application/commands"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <moon-longitude>",
	Short: "Show the Maha Dasha running at birth and its balance",
	Long: `Compute the birth Maha Dasha from the Moon's sidereal longitude: the
nakshatra the Moon occupies, its lord, and the years of that lord's period
still to run at birth.

Examples:
  dasha-cli balance 6.6667
  dasha-cli balance 123.45`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lon, err := parseLongitude(args[0])
		if err != nil {
			return err
		}

		result, err := commands.NewComputeBalanceCommand(lon).Execute(context.Background())
		if err != nil {
			return err
		}

		b := result.Balance
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, result.Message)
		fmt.Fprintf(out, "Nakshatra: %d %s (%.4f° traversed, %.2f%%)\n",
			b.Position.Nakshatra.Index+1, b.Position.Nakshatra.Name, b.Position.Degrees, b.Position.Fraction()*100)
		fmt.Fprintf(out, "Elapsed:   %.4f years\n", b.ElapsedYears())
		fmt.Fprintf(out, "Balance:   %.4f years (%.2f days)\n", b.BalanceYears, b.BalanceDays(cfg.DaysPerYear))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
