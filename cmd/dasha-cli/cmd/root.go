package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"dasha/internal/adapters/memcache"
	"dasha/internal/adapters/sqlite"
	"dasha/internal/config"
	"dasha/internal/logging"
)

var (
	cfgFile string
	cfg     config.Config
	logger  = zap.NewNop()
	cache   *memcache.TimelineCache
	store   *sqlite.Store
)

var rootCmd = &cobra.Command{
	Use:   "dasha-cli",
	Short: "Vimshottari Dasha and KP sub-lord calculator",
	Long: `dasha-cli computes Vimshottari Dasha periods and KP sub lords from a
sidereal Moon longitude and a birth moment.

It reports the birth balance, generates the period timeline down to Prana
level, finds the periods running at any moment, resolves KP star, sub and
sub-sub lords, and keeps named birth profiles in a local database.

Dates are accepted as Julian Days, RFC 3339 times or YYYY-MM-DD (UTC).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}
		if err := config.Init(cfgFile); err != nil {
			return err
		}
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if logger, err = logging.New(cfg.Verbose); err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		cache = memcache.New(cfg.Cache.TTL, cfg.Cache.Cleanup)
		logger.Debug("config loaded", zap.String("file", viper.ConfigFileUsed()), zap.String("db_path", cfg.DBPath))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		_ = logger.Sync()
		if store != nil {
			err := store.Close()
			store = nil
			return err
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ~/.dasha/config.yaml)")
	pf.BoolP("verbose", "v", false, "debug logging to stderr")
	pf.String("db", "", "profile database path")
	pf.Float64("days-per-year", 365.25, "days in a Dasha year")
	pf.Int("depth", 3, "Dasha levels to compute: 1=Maha .. 5=Prana")
	pf.Int("kp-depth", 2, "KP levels to resolve: 1=star, 2=sub, 3=sub-sub")
	pf.Int("workers", 0, "concurrent workers for batch commands (default: CPU count)")

	bindFlags()
}

// bindFlags lets viper read the persistent flags, which take precedence
// over env vars and the config file
func bindFlags() {
	pf := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = viper.BindPFlag("db_path", pf.Lookup("db"))
	_ = viper.BindPFlag("days_per_year", pf.Lookup("days-per-year"))
	_ = viper.BindPFlag("depth", pf.Lookup("depth"))
	_ = viper.BindPFlag("kp_depth", pf.Lookup("kp-depth"))
	_ = viper.BindPFlag("workers", pf.Lookup("workers"))
}

// GetStore opens the profile database on first use
func GetStore() (*sqlite.Store, error) {
	if store != nil {
		return store, nil
	}
	s := sqlite.NewStore(logger)
	if err := s.Open(cfg.DBPath); err != nil {
		return nil, err
	}
	store = s
	return store, nil
}
