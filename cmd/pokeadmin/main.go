// Command pokeadmin runs migrations, seeds reference data and manages test
// accounts.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pokeidle/server/config"
	"pokeidle/server/logging"
	"pokeidle/server/store"
)

var (
	logger  *zap.Logger
	cfg     config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "pokeadmin",
	Short:         "Administration tasks for the Poke-Idle server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		level := cfg.LogLevel
		if verbose {
			level = zapcore.DebugLevel
		}
		logger, err = logging.New(level, cfg.LogDev)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()
		logger.Info("schema up to date", zap.String("driver", cfg.DBDriver))
		return nil
	},
}

// openStore opens the configured database. Open runs the migrations.
func openStore(ctx context.Context) (*store.SQLStore, error) {
	if cfg.DBDriver == store.DriverSQLite {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("data dir: %w", err)
		}
	}
	return store.Open(ctx, cfg.DBDriver, cfg.DBDSN, logger)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(userCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "pokeadmin:", err)
		os.Exit(1)
	}
}
