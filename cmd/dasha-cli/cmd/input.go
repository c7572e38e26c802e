package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dasha/internal/application"
	"dasha/internal/application/commands"
)

// now is replaced in tests
var now = time.Now

// addBirthFlags registers the flags naming a birth: a stored profile, or a
// Moon longitude and birth moment
func addBirthFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("profile", "p", "", "stored profile ID or name")
	cmd.Flags().Float64P("moon", "m", 0, "sidereal Moon longitude in degrees")
	cmd.Flags().StringP("birth", "b", "", "birth moment (Julian Day, RFC 3339 or YYYY-MM-DD)")
	cmd.MarkFlagsMutuallyExclusive("profile", "moon")
	cmd.MarkFlagsMutuallyExclusive("profile", "birth")
	cmd.MarkFlagsRequiredTogether("moon", "birth")
}

type birthInput struct {
	Name          string
	MoonLongitude float64
	BirthJD       float64
}

func readBirth(ctx context.Context, cmd *cobra.Command) (birthInput, error) {
	if ref, _ := cmd.Flags().GetString("profile"); ref != "" {
		s, err := GetStore()
		if err != nil {
			return birthInput{}, err
		}
		res, err := commands.NewShowProfileCommand(s, ref).Execute(ctx)
		if err != nil {
			return birthInput{}, err
		}
		return birthInput{Name: res.Profile.Name, MoonLongitude: res.Profile.MoonLongitude, BirthJD: res.Profile.BirthJD}, nil
	}

	if !cmd.Flags().Changed("moon") {
		return birthInput{}, fmt.Errorf("either --profile or --moon and --birth are required")
	}
	lon, _ := cmd.Flags().GetFloat64("moon")
	raw, _ := cmd.Flags().GetString("birth")
	birth, err := application.ParseDate(raw)
	if err != nil {
		return birthInput{}, err
	}
	return birthInput{MoonLongitude: lon, BirthJD: birth}, nil
}

// readMoment parses the named date flag, defaulting to now
func readMoment(cmd *cobra.Command, name string) (float64, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return application.JDFromTime(now()), nil
	}
	return application.ParseDate(raw)
}

func formatJD(jd float64) string {
	return application.FormatJD(jd)
}

func parseLongitude(s string) (float64, error) {
	lon, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &application.ValidationError{Field: "moonLongitude", Message: fmt.Sprintf("invalid longitude: %q", s)}
	}
	return lon, nil
}
