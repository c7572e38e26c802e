package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"dasha/internal/adapters/memcache"
	mcpadapter "dasha/internal/adapters/mcp"
	"dasha/internal/adapters/sqlite"
	"dasha/internal/config"
	"dasha/internal/logging"
)

func main() {
	cfgFlag := flag.String("config", "", "config file (default ~/.dasha/config.yaml)")
	dbFlag := flag.String("db", "", "profile database path (overrides config)")
	flag.Parse()

	if err := config.Init(*cfgFlag); err != nil {
		log.Fatalf("dasha-mcp: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("dasha-mcp: %v", err)
	}
	if *dbFlag != "" {
		cfg.DBPath = *dbFlag
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		log.Fatalf("dasha-mcp: %v", err)
	}
	defer logger.Sync()

	store := sqlite.NewStore(logger)
	if err := store.Open(cfg.DBPath); err != nil {
		logger.Fatal("failed to open profile store", zap.Error(err))
	}
	defer store.Close()

	mcpServer := server.NewMCPServer(
		"dasha-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	env := mcpadapter.Env{
		Store:         store,
		Cache:         memcache.New(cfg.Cache.TTL, cfg.Cache.Cleanup),
		Logger:        logger,
		DaysPerYear:   cfg.DaysPerYear,
		TimelineYears: cfg.TimelineYears,
		Depth:         cfg.Depth,
		KPDepth:       cfg.KPDepth,
		Workers:       cfg.Workers,
	}
	mcpadapter.RegisterReadTools(mcpServer, env)
	mcpadapter.RegisterWriteTools(mcpServer, env)

	logger.Info("serving MCP over stdio", zap.String("db_path", store.Path()))
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}
