package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"dasha/internal/adapters/memcache"
	"dasha/internal/adapters/sqlite"
	"dasha/internal/adapters/tui"
	"dasha/internal/adapters/tui/views"
	"dasha/internal/application"
	"dasha/internal/config"
	"dasha/internal/domain"
)

func main() {
	cfgFlag := flag.String("config", "", "config file (default ~/.dasha/config.yaml)")
	moonFlag := flag.Float64("moon", -1, "browse an unsaved birth: sidereal Moon longitude")
	birthFlag := flag.String("birth", "", "browse an unsaved birth: Julian Day, RFC 3339 or YYYY-MM-DD")
	flag.Parse()

	if err := run(*cfgFlag, *moonFlag, *birthFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgFile string, moon float64, birth string) error {
	if err := config.Init(cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The alt screen owns the terminal
	logger := zap.NewNop()

	var start *domain.Profile
	if birth != "" {
		if moon < 0 {
			return fmt.Errorf("--birth needs --moon")
		}
		jd, err := application.ParseDate(birth)
		if err != nil {
			return err
		}
		start = &domain.Profile{Name: "unsaved birth", MoonLongitude: moon, BirthJD: jd}
	}

	store := sqlite.NewStore(logger)
	if err := store.Open(cfg.DBPath); err != nil {
		return err
	}
	defer store.Close()

	settings := views.BrowserSettings{
		Years:       cfg.TimelineYears,
		Depth:       cfg.Depth,
		DaysPerYear: cfg.DaysPerYear,
	}
	app := tui.NewApp(store, memcache.New(cfg.Cache.TTL, cfg.Cache.Cleanup), logger, settings, start)

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
