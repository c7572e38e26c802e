package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"dasha/internal/application/commands"
)

// RegisterWriteTools adds the tools that change stored profiles to the MCP
// server.
func RegisterWriteTools(s *server.MCPServer, env Env) {
	s.AddTool(saveProfileTool(), saveProfileHandler(env))
	s.AddTool(deleteProfileTool(), deleteProfileHandler(env))
	s.AddTool(materializeTool(), materializeHandler(env))
}

// --- save_profile ---

func saveProfileTool() mcp.Tool {
	return mcp.NewTool("save_profile",
		mcp.WithDescription("Store a named birth (Moon longitude and birth moment) for later queries."),
		mcp.WithString("name",
			mcp.Description("Unique profile name"),
			mcp.Required(),
		),
		mcp.WithNumber("moon_longitude",
			mcp.Description("Sidereal Moon longitude in degrees"),
			mcp.Required(),
		),
		mcp.WithString("birth",
			mcp.Description("Birth moment: Julian Day, RFC 3339 time or YYYY-MM-DD"),
			mcp.Required(),
		),
	)
}

func saveProfileHandler(env Env) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lon, err := req.RequireFloat("moon_longitude")
		if err != nil {
			return toolError(err)
		}
		birth, err := dateArg(req, "birth", 0)
		if err != nil {
			return toolError(err)
		}

		cmd := commands.NewAddProfileCommand(env.Store, env.Logger, req.GetString("name", ""), lon, birth)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete_profile ---

func deleteProfileTool() mcp.Tool {
	return mcp.NewTool("delete_profile",
		mcp.WithDescription("Delete a stored profile and its materialized periods."),
		mcp.WithString("profile",
			mcp.Description("Profile ID or name"),
			mcp.Required(),
		),
	)
}

func deleteProfileHandler(env Env) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p, err := commands.NewDeleteProfileCommand(env.Store, env.Logger, req.GetString("profile", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(fmt.Sprintf("Deleted profile: %s (%s)", p.Name, p.ID)), nil
	}
}

// --- materialize_profile ---

func materializeTool() mcp.Tool {
	return mcp.NewTool("materialize_profile",
		mcp.WithDescription("Generate a profile's timeline and store every period so profile_periods can query it."),
		mcp.WithString("profile",
			mcp.Description("Profile ID or name"),
			mcp.Required(),
		),
		mcp.WithNumber("years",
			mcp.Description("Years of life to cover (default from config)"),
		),
		mcp.WithNumber("depth",
			mcp.Description("Levels to store: 1=Maha .. 5=Prana (default from config)"),
		),
	)
}

func materializeHandler(env Env) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewMaterializeCommand(env.Store, env.Cache, env.Logger, req.GetString("profile", ""),
			req.GetFloat("years", env.TimelineYears), req.GetInt("depth", env.Depth), env.DaysPerYear)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message), nil
	}
}
