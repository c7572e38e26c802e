package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"dasha/internal/application"
	"dasha/internal/application/commands"
	"dasha/internal/domain"
	"dasha/internal/ports"
)

// Env holds what the tools need: the profile store, the timeline cache and
// the defaults applied when a caller omits an argument.
type Env struct {
	Store         ports.ProfileStore
	Cache         ports.TimelineCache
	Logger        *zap.Logger
	DaysPerYear   float64
	TimelineYears float64
	Depth         int
	KPDepth       int
	Workers       int

	// Now returns the current time; nil means time.Now
	Now func() time.Time
}

func (e Env) now() float64 {
	if e.Now != nil {
		return application.JDFromTime(e.Now())
	}
	return application.JDFromTime(time.Now())
}

// RegisterReadTools adds all computation and read-only profile tools to the
// MCP server.
func RegisterReadTools(s *server.MCPServer, env Env) {
	s.AddTool(balanceTool(), balanceHandler())
	s.AddTool(timelineTool(), timelineHandler(env))
	s.AddTool(currentTool(), currentHandler(env))
	s.AddTool(summaryTool(), summaryHandler(env))
	s.AddTool(subLordsTool(), subLordsHandler(env))
	s.AddTool(subTableTool(), subTableHandler())
	s.AddTool(listProfilesTool(), listProfilesHandler(env))
	s.AddTool(showProfileTool(), showProfileHandler(env))
	s.AddTool(periodsTool(), periodsHandler(env))
}

// --- birth_balance ---

func balanceTool() mcp.Tool {
	return mcp.NewTool("birth_balance",
		mcp.WithDescription("Compute the Maha Dasha running at birth and its remaining balance from the Moon's sidereal longitude."),
		mcp.WithNumber("moon_longitude",
			mcp.Description("Sidereal Moon longitude in degrees"),
			mcp.Required(),
		),
	)
}

func balanceHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lon, err := req.RequireFloat("moon_longitude")
		if err != nil {
			return toolError(err)
		}
		res, err := commands.NewComputeBalanceCommand(lon).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(res.Message), nil
	}
}

// --- dasha_timeline ---

func timelineTool() mcp.Tool {
	return mcp.NewTool("dasha_timeline",
		mcp.WithDescription("Generate the Vimshottari Dasha timeline from birth. Periods marked * are partial (running at birth)."),
		mcp.WithNumber("moon_longitude",
			mcp.Description("Sidereal Moon longitude in degrees"),
			mcp.Required(),
		),
		mcp.WithString("birth",
			mcp.Description("Birth moment: Julian Day, RFC 3339 time or YYYY-MM-DD"),
			mcp.Required(),
		),
		mcp.WithNumber("years",
			mcp.Description("Years of life to cover (default from config)"),
		),
		mcp.WithNumber("depth",
			mcp.Description("Levels to generate: 1=Maha .. 5=Prana (default from config)"),
		),
	)
}

func timelineHandler(env Env) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lon, err := req.RequireFloat("moon_longitude")
		if err != nil {
			return toolError(err)
		}
		birth, err := dateArg(req, "birth", 0)
		if err != nil {
			return toolError(err)
		}

		cmd := commands.NewBuildTimelineCommand(env.Cache, env.Logger, lon, birth,
			req.GetFloat("years", env.TimelineYears), req.GetInt("depth", env.Depth), env.DaysPerYear)
		res, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Birth: %s in %s, balance %.4f years\n",
			res.Timeline.Balance.Lord, res.Timeline.Balance.Position.Nakshatra.Name, res.Timeline.Balance.BalanceYears)
		renderPeriods(&sb, res.Timeline.Periods, "", "")
		if res.Timeline.Truncated {
			sb.WriteString("(truncated)\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderPeriods(sb *strings.Builder, periods []domain.Period, path, indent string) {
	for _, p := range periods {
		name := p.Lord.String()
		if path != "" {
			name = path + "/" + name
		}
		fmt.Fprintf(sb, "%s%s  %s -> %s%s\n", indent, name,
			application.FormatJD(p.Start), application.FormatJD(p.End), partialMark(p.Partial))
		renderPeriods(sb, p.Children, name, indent+"  ")
	}
}

// --- current_dasha ---

func currentTool() mcp.Tool {
	return mcp.NewTool("current_dasha",
		mcp.WithDescription("Report the Dasha periods running at a moment, Maha first, with the time left in each. Give either a stored profile or a Moon longitude and birth."),
		mcp.WithString("profile",
			mcp.Description("Stored profile ID or name"),
		),
		mcp.WithNumber("moon_longitude",
			mcp.Description("Sidereal Moon longitude in degrees"),
		),
		mcp.WithString("birth",
			mcp.Description("Birth moment: Julian Day, RFC 3339 time or YYYY-MM-DD"),
		),
		mcp.WithString("target",
			mcp.Description("Moment to inspect (default now)"),
		),
		mcp.WithNumber("depth",
			mcp.Description("Levels to resolve: 1=Maha .. 5=Prana (default from config)"),
		),
	)
}

func currentHandler(env Env) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lon, birth, err := birthArgs(ctx, env, req)
		if err != nil {
			return toolError(err)
		}
		target, err := dateArg(req, "target", env.now())
		if err != nil {
			return toolError(err)
		}

		res, err := commands.NewCurrentStateCommand(lon, birth, target, req.GetInt("depth", env.Depth), env.DaysPerYear).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(formatState(res, env.daysPerYear())), nil
	}
}

func formatState(res *commands.CurrentResult, dpy float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "At %s\n", application.FormatJD(res.State.TargetJD))
	for _, a := range res.State.Levels {
		if !a.Determined {
			fmt.Fprintf(&sb, "%-10s undetermined\n", a.Level)
			continue
		}
		fmt.Fprintf(&sb, "%-10s %-8s %s -> %s  %.4f years left%s\n", a.Level, a.Lord,
			application.FormatJD(a.Start), application.FormatJD(a.End), a.RemainingYears(dpy), partialMark(a.Partial))
	}
	if res.Unresolved != nil {
		fmt.Fprintf(&sb, "note: %v\n", res.Unresolved)
	}
	return sb.String()
}

// --- dasha_summary ---

func summaryTool() mcp.Tool {
	return mcp.NewTool("dasha_summary",
		mcp.WithDescription("Summarize the birth Dasha and the Maha and Antar Dasha running now, with balances."),
		mcp.WithString("profile",
			mcp.Description("Stored profile ID or name"),
		),
		mcp.WithNumber("moon_longitude",
			mcp.Description("Sidereal Moon longitude in degrees"),
		),
		mcp.WithString("birth",
			mcp.Description("Birth moment: Julian Day, RFC 3339 time or YYYY-MM-DD"),
		),
		mcp.WithString("current",
			mcp.Description("Current moment (default now)"),
		),
	)
}

func summaryHandler(env Env) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lon, birth, err := birthArgs(ctx, env, req)
		if err != nil {
			return toolError(err)
		}
		current, err := dateArg(req, "current", env.now())
		if err != nil {
			return toolError(err)
		}

		s, err := commands.NewSummarizeCommand(lon, birth, current, env.DaysPerYear).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		for _, row := range []struct {
			label string
			b     domain.PeriodBalance
		}{{"Birth", s.Birth}, {"Maha", s.Maha}, {"Antar", s.Antar}} {
			fmt.Fprintf(&sb, "%-6s %-8s %.4f of %.4f years left, ends %s\n",
				row.label, row.b.Lord, row.b.BalanceYears, row.b.TotalYears, application.FormatJD(row.b.EndJD))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- kp_sub_lords ---

func subLordsTool() mcp.Tool {
	return mcp.NewTool("kp_sub_lords",
		mcp.WithDescription("Resolve KP star, sub and sub-sub lords for one or more sidereal longitudes."),
		mcp.WithString("points",
			mcp.Description("Comma separated name=longitude pairs, e.g. Sun=123.4,Moon=45.6"),
			mcp.Required(),
		),
		mcp.WithNumber("depth",
			mcp.Description("1=star, 2=sub, 3=sub-sub (default from config)"),
		),
	)
}

func subLordsHandler(env Env) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		points, err := commands.ParsePoints(req.GetString("points", ""))
		if err != nil {
			return toolError(err)
		}

		entries, err := commands.NewBatchSubLordsCommand(env.Logger, env.Workers, req.GetInt("depth", env.KPDepth), points).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		for _, e := range entries {
			if e.Err != nil {
				fmt.Fprintf(&sb, "%s  error: %v\n", e.Name, e.Err)
				continue
			}
			fmt.Fprintf(&sb, "%s  %.4f  %s  %s\n", e.Name, e.SubLords.Position.Longitude,
				e.SubLords.Position.Nakshatra.Name, formatLordChain(e.SubLords))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func formatLordChain(s domain.SubLords) string {
	chain := []string{s.StarLord.String()}
	for _, l := range []domain.Lord{s.SubLord, s.SubSubLord} {
		if l == domain.NoLord {
			break
		}
		chain = append(chain, l.String())
	}
	return strings.Join(chain, "/")
}

// --- kp_sub_table ---

func subTableTool() mcp.Tool {
	return mcp.NewTool("kp_sub_table",
		mcp.WithDescription("List the KP sub divisions of the zodiac. Without a nakshatra lists all 243."),
		mcp.WithNumber("nakshatra",
			mcp.Description("Nakshatra number 1-27 (1=Ashwini)"),
		),
	)
}

func subTableHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rows, err := commands.NewSubTableCommand(req.GetInt("nakshatra", 0)).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(rows, func(d domain.SubDivision) string {
			return fmt.Sprintf("%-18s %-8s %-8s %9.4f %9.4f", d.Nakshatra.Name, d.StarLord, d.SubLord, d.Start, d.End)
		})
	}
}

// --- list_profiles ---

func listProfilesTool() mcp.Tool {
	return mcp.NewTool("list_profiles",
		mcp.WithDescription("List stored birth profiles."),
	)
}

func listProfilesHandler(env Env) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		profiles, err := commands.NewListProfilesCommand(env.Store).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(profiles, formatProfile)
	}
}

// --- show_profile ---

func showProfileTool() mcp.Tool {
	return mcp.NewTool("show_profile",
		mcp.WithDescription("Show a stored profile with its birth balance."),
		mcp.WithString("profile",
			mcp.Description("Profile ID or name"),
			mcp.Required(),
		),
	)
}

func showProfileHandler(env Env) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := commands.NewShowProfileCommand(env.Store, req.GetString("profile", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		text := fmt.Sprintf("%s\nBirth dasha: %s in %s, balance %.4f years\nMaterialized periods: %d",
			formatProfile(*res.Profile), res.Balance.Lord, res.Balance.Position.Nakshatra.Name, res.Balance.BalanceYears, res.Periods)
		return mcp.NewToolResultText(text), nil
	}
}

// --- profile_periods ---

func periodsTool() mcp.Tool {
	return mcp.NewTool("profile_periods",
		mcp.WithDescription("List materialized periods of a profile at one level that overlap a date window."),
		mcp.WithString("profile",
			mcp.Description("Profile ID or name"),
			mcp.Required(),
		),
		mcp.WithString("level",
			mcp.Description("maha, antar, pratyantar, sookshma, prana or 1-5"),
			mcp.Required(),
		),
		mcp.WithString("from",
			mcp.Description("Window start: Julian Day, RFC 3339 time or YYYY-MM-DD"),
			mcp.Required(),
		),
		mcp.WithString("to",
			mcp.Description("Window end: Julian Day, RFC 3339 time or YYYY-MM-DD"),
			mcp.Required(),
		),
	)
}

func periodsHandler(env Env) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		level, err := domain.ParseLevel(req.GetString("level", ""))
		if err != nil {
			return toolError(err)
		}
		from, err := dateArg(req, "from", 0)
		if err != nil {
			return toolError(err)
		}
		to, err := dateArg(req, "to", 0)
		if err != nil {
			return toolError(err)
		}

		recs, err := commands.NewPeriodsCommand(env.Store, req.GetString("profile", ""), level, from, to).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(recs, func(r domain.PeriodRecord) string {
			return fmt.Sprintf("%s  %s -> %s%s", r.Path, application.FormatJD(r.Start), application.FormatJD(r.End), partialMark(r.Partial))
		})
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatProfile(p domain.Profile) string {
	return fmt.Sprintf("%s  %s  moon %.4f  born %s", p.ID, p.Name, p.MoonLongitude, application.FormatJD(p.BirthJD))
}

func partialMark(partial bool) string {
	if partial {
		return " *"
	}
	return ""
}

func (e Env) daysPerYear() float64 {
	if e.DaysPerYear > 0 {
		return e.DaysPerYear
	}
	return domain.DefaultDaysPerYear
}

// dateArg reads a moment given either as a JSON number (Julian Day) or as a
// string accepted by application.ParseDate. A missing argument yields def,
// or an error when def is zero.
func dateArg(req mcp.CallToolRequest, key string, def float64) (float64, error) {
	switch v := req.GetArguments()[key].(type) {
	case float64:
		return v, nil
	case string:
		if strings.TrimSpace(v) != "" {
			return application.ParseDate(v)
		}
	}
	if def == 0 {
		return 0, fmt.Errorf("%s is required", key)
	}
	return def, nil
}

// birthArgs resolves the Moon longitude and birth moment from a stored
// profile or from explicit arguments.
func birthArgs(ctx context.Context, env Env, req mcp.CallToolRequest) (float64, float64, error) {
	if ref := req.GetString("profile", ""); ref != "" {
		res, err := commands.NewShowProfileCommand(env.Store, ref).Execute(ctx)
		if err != nil {
			return 0, 0, err
		}
		return res.Profile.MoonLongitude, res.Profile.BirthJD, nil
	}
	lon, err := req.RequireFloat("moon_longitude")
	if err != nil {
		return 0, 0, err
	}
	birth, err := dateArg(req, "birth", 0)
	if err != nil {
		return 0, 0, err
	}
	return lon, birth, nil
}
