package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bakamcp/internal/bakalari"
	"bakamcp/internal/config"
	"bakamcp/internal/logging"
	"bakamcp/internal/mcp"
	"bakamcp/internal/tools"
)

const version = "1.0.0"

var (
	// Global flags
	flagUser     string
	flagPassword string
	flagURL      string
	verbose      bool
	timeout      time.Duration

	// Logger
	logger *zap.Logger

	cfg *config.Config
)

// rootCmd serves MCP over stdio; stdout is the protocol channel, so
// all logging goes to stderr and the category log files.
var rootCmd = &cobra.Command{
	Use:   "bakamcp",
	Short: "MCP bridge for the Bakalari v3 school API",
	Long: `bakamcp exposes a Bakalari school server over the Model Context
Protocol: day schedule with change reconciliation, permanent
timetable, absence summary and grades, served as MCP tools on stdio.

Credentials come from flags, BAKALARI_* environment variables, a .env
file, or ~/.bakamcp/config.yaml (in that precedence).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		zapCfg.OutputPaths = []string{"stderr"}
		zapCfg.ErrorOutputPaths = []string{"stderr"}
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if flagUser != "" {
			cfg.Username = flagUser
		}
		if flagPassword != "" {
			cfg.Password = flagPassword
		}
		if flagURL != "" {
			cfg.ServerURL = flagURL
		}
		if verbose {
			cfg.Debug = true
		}
		cfg.ServerURL = config.NormalizeServerURL(cfg.ServerURL)

		if dir, err := config.HomeDir(); err == nil {
			if err := logging.Initialize(dir, cfg.Debug); err != nil {
				logger.Warn("file logging disabled", zap.Error(err))
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: serve,
}

// checkCmd performs a login round-trip and exits, for verifying
// credentials and server reachability before wiring the bridge into
// an MCP client.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify credentials with a login round-trip",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		session := newSession()
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		if _, err := session.EnsureToken(ctx); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		logger.Info("login ok", zap.String("server", cfg.ServerURL))
		fmt.Fprintf(os.Stderr, "login ok: %s\n", cfg.ServerURL)
		return nil
	},
}

func newSession() *bakalari.Session {
	httpClient := &http.Client{Timeout: timeout}
	return bakalari.NewSession(cfg.ServerURL, cfg.Username, cfg.Password, httpClient)
}

func serve(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	session := newSession()
	client := bakalari.NewClient(session, &http.Client{Timeout: timeout})

	server := mcp.NewServer("bakamcp", version, os.Stdin, os.Stdout)
	for _, tool := range tools.All(client) {
		server.Register(tool)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("serving MCP over stdio",
		zap.String("server", cfg.ServerURL),
		zap.String("version", version))
	logging.Boot("serving for %s", cfg.ServerURL)

	if err := server.Serve(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "Bakalari username")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "Bakalari password")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "Bakalari server URL (https:// assumed when missing)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr and log files")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "HTTP request timeout")

	rootCmd.AddCommand(checkCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
