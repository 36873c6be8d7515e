package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbaille/biomixer/internal/api"
	"github.com/pbaille/biomixer/internal/app"
	"github.com/pbaille/biomixer/internal/config"
	"github.com/pbaille/biomixer/internal/gateway"
	"github.com/pbaille/biomixer/internal/logging"
	"github.com/pbaille/biomixer/internal/store"
	"github.com/pbaille/biomixer/internal/synth"
)

var (
	configPath string
	dbPath     string
	serverURL  string
	logFormat  string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "biomixer",
		Short:         "Mix biological mechanisms into speculative hybrid species",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = dbPath
			}
			if cmd.Flags().Changed("server") {
				cfg.Client.ServerURL = serverURL
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Logging.Format = logFormat
			}

			logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format, verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", filepath.Join(config.DefaultDir(), "config.yaml"), "config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "state database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "synthesis server URL; empty calls the model API directly")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log encoding: console or json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(entriesCmd())
	rootCmd.AddCommand(mixerCmd())
	rootCmd.AddCommand(synthesizeCmd())
	rootCmd.AddCommand(regenerateCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(settingsCmd())
	rootCmd.AddCommand(themeCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(resetCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openSession opens the state database and builds a client session.
// The returned close function must be called when done.
func openSession() (*app.Session, func() error, error) {
	db, err := openDB()
	if err != nil {
		return nil, nil, err
	}

	var syn synth.Synthesizer
	if cfg.Client.ServerURL != "" {
		syn = api.NewClient(cfg.Client.ServerURL, cfg.ClientTimeout())
	} else {
		syn = synth.Direct{Gateway: gateway.New(cfg.Gateway(), logger.Named("gateway"))}
	}

	return app.New(store.NewState(db), syn, logger), db.Close, nil
}

func openDB() (*store.SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.NewSQLite(cfg.DBPath)
}

// withSession runs fn against an open session
func withSession(fn func(s *app.Session) error) error {
	s, closeFn, err := openSession()
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(s)
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
