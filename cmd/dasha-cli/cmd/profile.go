package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dasha/internal/application"
	"dasha/internal/application/commands"
	"dasha/internal/domain"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage stored birth profiles",
	Long: `Store named births so other commands can use --profile instead of
--moon and --birth. Profiles are kept in a SQLite database (see --db).`,
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Store a birth profile",
	Long: `Store a birth profile under a unique name.

Examples:
  dasha-cli profile add alice --moon 6.6667 --birth 1990-05-17T04:30:00Z`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lon, _ := cmd.Flags().GetFloat64("moon")
		raw, _ := cmd.Flags().GetString("birth")
		birth, err := application.ParseDate(raw)
		if err != nil {
			return err
		}

		s, err := GetStore()
		if err != nil {
			return err
		}
		result, err := commands.NewAddProfileCommand(s, logger, args[0], lon, birth).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetStore()
		if err != nil {
			return err
		}
		profiles, err := commands.NewListProfilesCommand(s).Execute(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, p := range profiles {
			fmt.Fprintf(out, "%s  %-20s moon %9.4f  born %s\n", p.ID, p.Name, p.MoonLongitude, formatJD(p.BirthJD))
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <id-or-name>",
	Short: "Show a profile and its birth balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetStore()
		if err != nil {
			return err
		}
		res, err := commands.NewShowProfileCommand(s, args[0]).Execute(context.Background())
		if err != nil {
			return err
		}

		p, b := res.Profile, res.Balance
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:        %s\n", p.ID)
		fmt.Fprintf(out, "Name:      %s\n", p.Name)
		fmt.Fprintf(out, "Moon:      %.4f° in %s\n", p.MoonLongitude, b.Position.Nakshatra.Name)
		fmt.Fprintf(out, "Birth:     %s (JD %.5f)\n", formatJD(p.BirthJD), p.BirthJD)
		fmt.Fprintf(out, "Dasha:     %s, %.4f years left at birth\n", b.Lord, b.BalanceYears)
		fmt.Fprintf(out, "Periods:   %d materialized\n", res.Periods)
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <id-or-name>",
	Short: "Delete a profile and its materialized periods",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetStore()
		if err != nil {
			return err
		}
		p, err := commands.NewDeleteProfileCommand(s, logger, args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile: %s (%s)\n", p.Name, p.ID)
		return nil
	},
}

var profileMaterializeCmd = &cobra.Command{
	Use:   "materialize <id-or-name>",
	Short: "Store a profile's timeline for date-range queries",
	Long: `Generate the profile's timeline down to --depth levels and store every
period, replacing an earlier run, so "profile periods" can query it.

Examples:
  dasha-cli profile materialize alice --depth 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		years, _ := cmd.Flags().GetFloat64("years")
		if !cmd.Flags().Changed("years") {
			years = cfg.TimelineYears
		}

		s, err := GetStore()
		if err != nil {
			return err
		}
		result, err := commands.NewMaterializeCommand(s, cache, logger, args[0], years, cfg.Depth, cfg.DaysPerYear).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (replaced %d) in %s\n", result.Message, result.Stats.PeriodsDeleted, result.Stats.Duration)
		return nil
	},
}

var profilePeriodsCmd = &cobra.Command{
	Use:   "periods <id-or-name>",
	Short: "List materialized periods in a date window",
	Long: `List the stored periods of one level that overlap [--from, --to).

Examples:
  dasha-cli profile periods alice --level antar --from 2024-01-01 --to 2030-01-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawLevel, _ := cmd.Flags().GetString("level")
		level, err := domain.ParseLevel(rawLevel)
		if err != nil {
			return err
		}
		from, err := readMoment(cmd, "from")
		if err != nil {
			return err
		}
		rawTo, _ := cmd.Flags().GetString("to")
		to, err := application.ParseDate(rawTo)
		if err != nil {
			return err
		}

		s, err := GetStore()
		if err != nil {
			return err
		}
		recs, err := commands.NewPeriodsCommand(s, args[0], level, from, to).Execute(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "No periods stored for this window; run \"profile materialize\" first.")
			return nil
		}
		for _, r := range recs {
			mark := " "
			if r.Partial {
				mark = "*"
			}
			fmt.Fprintf(out, "%s%-40s %s  %s\n", mark, r.Path, formatJD(r.Start), formatJD(r.End))
		}
		return nil
	},
}

var profileNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Show the running Dasha of every stored profile",
	Long: `Resolve the periods running at --at (default now) for every stored
profile, concurrently.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := readMoment(cmd, "at")
		if err != nil {
			return err
		}
		s, err := GetStore()
		if err != nil {
			return err
		}
		states, err := commands.NewBatchCurrentStateCommand(s, logger, cfg.Workers, at, cfg.Depth, cfg.DaysPerYear).Execute(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, ps := range states {
			if ps.Err != nil {
				fmt.Fprintf(out, "%-20s error: %v\n", ps.Profile.Name, ps.Err)
				continue
			}
			fmt.Fprintf(out, "%-20s %s\n", ps.Profile.Name, chainOf(ps.Result))
		}
		return nil
	},
}

func chainOf(res *commands.CurrentResult) string {
	chain := ""
	for i, a := range res.State.Levels {
		if i > 0 {
			chain += "/"
		}
		chain += a.Lord.String()
	}
	return chain
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileAddCmd.Flags().Float64P("moon", "m", 0, "sidereal Moon longitude in degrees")
	profileAddCmd.Flags().StringP("birth", "b", "", "birth moment (Julian Day, RFC 3339 or YYYY-MM-DD)")
	_ = profileAddCmd.MarkFlagRequired("moon")
	_ = profileAddCmd.MarkFlagRequired("birth")

	profileMaterializeCmd.Flags().Float64("years", 120, "years of life to cover")

	profilePeriodsCmd.Flags().StringP("level", "l", "maha", "maha, antar, pratyantar, sookshma, prana or 1-5")
	profilePeriodsCmd.Flags().String("from", "", "window start (default now)")
	profilePeriodsCmd.Flags().String("to", "", "window end")
	_ = profilePeriodsCmd.MarkFlagRequired("to")

	profileNowCmd.Flags().String("at", "", "moment to inspect (default now)")

	profileCmd.AddCommand(profileAddCmd, profileListCmd, profileShowCmd, profileDeleteCmd,
		profileMaterializeCmd, profilePeriodsCmd, profileNowCmd)
}
