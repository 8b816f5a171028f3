package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/schwepps/skills-store/pkg/logger"
	"github.com/schwepps/skills-store/pkg/presenter"
	"github.com/schwepps/skills-store/pkg/sync"
	"github.com/schwepps/skills-store/pkg/webapi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ServeConfig holds configuration for the serve command
type ServeConfig struct {
	Host       string
	Port       int
	SyncSecret string
}

// NewServeConfig creates a new ServeConfig with default values
func NewServeConfig() *ServeConfig {
	return &ServeConfig{
		Host: "localhost",
		Port: 8080,
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog API server",
	Long: `Start the HTTP server that serves the skills catalog: skill listings with
search and category filters, repository status, and an authenticated sync
trigger.

The server will be available at http://localhost:8080 by default. Set
SKILLS_STORE_SYNC_SECRET (or --sync-secret) to enable POST /api/sync.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getServeConfigFromFlags(cmd)
		runServeCommand(ctx, config)
	},
}

func init() {
	defaults := NewServeConfig()
	serveCmd.Flags().String("host", defaults.Host, "Host to bind the API server to")
	serveCmd.Flags().Int("port", defaults.Port, "Port to bind the API server to")
	serveCmd.Flags().String("sync-secret", "", "Secret authorizing POST /api/sync")
	viper.BindPFlag("sync_secret", serveCmd.Flags().Lookup("sync-secret"))
}

// getServeConfigFromFlags extracts serve configuration from command flags
func getServeConfigFromFlags(cmd *cobra.Command) *ServeConfig {
	config := NewServeConfig()

	if host, err := cmd.Flags().GetString("host"); err == nil {
		config.Host = host
	}
	if port, err := cmd.Flags().GetInt("port"); err == nil {
		config.Port = port
	}
	config.SyncSecret = viper.GetString("sync_secret")

	return config
}

// validateServeConfig validates the serve configuration
func validateServeConfig(config *ServeConfig) error {
	if config.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}

	if config.Host != "localhost" && config.Host != "0.0.0.0" {
		if ip := net.ParseIP(config.Host); ip == nil {
			if strings.Contains(config.Host, " ") || strings.Contains(config.Host, ":") {
				return fmt.Errorf("invalid host: %s", config.Host)
			}
		}
	}

	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", config.Port)
	}

	if config.Port < 1024 {
		logger.G(context.Background()).WithField("port", config.Port).Warn("using privileged port (< 1024) may require elevated permissions")
	}

	return nil
}

// runServeCommand starts the catalog API server
func runServeCommand(ctx context.Context, config *ServeConfig) {
	if err := validateServeConfig(config); err != nil {
		presenter.Error(err, "invalid server configuration")
		os.Exit(1)
	}

	shutdownTracing, err := initTracing(ctx)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("failed to initialize tracing")
	} else {
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logger.G(ctx).WithError(err).Warn("failed to shut down tracing")
			}
		}()
	}

	st, closeStore, err := openStore(ctx)
	if err != nil {
		presenter.Error(err, "failed to open store")
		os.Exit(1)
	}
	defer closeStore()

	syncer := sync.NewService(st, newGitHubClient(ctx))

	serverConfig := &webapi.ServerConfig{
		Host:       config.Host,
		Port:       config.Port,
		SyncSecret: config.SyncSecret,
	}

	server, err := webapi.NewServer(st, syncer, serverConfig)
	if err != nil {
		presenter.Error(err, "failed to create API server")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	presenter.Success(fmt.Sprintf("API server starting on http://%s:%d", config.Host, config.Port))
	if config.SyncSecret == "" {
		presenter.Warning("No sync secret configured; POST /api/sync is disabled")
	}
	presenter.Info("Press Ctrl+C to stop the server")

	if err := server.Start(ctx); err != nil {
		logger.G(ctx).WithError(err).Error("API server error")
		presenter.Error(err, "API server failed")
		os.Exit(1)
	}

	presenter.Info("API server stopped")
}
