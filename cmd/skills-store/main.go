package main

import (
	"context"
	"fmt"
	"os"

	"github.com/schwepps/skills-store/pkg/db"
	"github.com/schwepps/skills-store/pkg/db/migrations"
	"github.com/schwepps/skills-store/pkg/github"
	"github.com/schwepps/skills-store/pkg/logger"
	"github.com/schwepps/skills-store/pkg/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLS_STORE")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skills-store")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skills-store",
	Short: "Catalog of agent skills published on GitHub",
	Long: `skills-store maintains a searchable catalog of agent skills. It syncs
SKILL.md files from registered GitHub repositories, extracts their metadata,
and serves the catalog over a REST API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

// openStore opens the default database, applies pending migrations, and
// returns a store over it. The returned closer must be called when done.
func openStore(ctx context.Context) (*store.Store, func(), error) {
	if err := db.RunMigrations(ctx, migrations.All()); err != nil {
		return nil, nil, err
	}

	path, err := db.DefaultDBPath()
	if err != nil {
		return nil, nil, err
	}

	conn, err := db.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	closer := func() {
		if err := conn.Close(); err != nil {
			logger.G(ctx).WithError(err).Warn("failed to close database")
		}
	}
	return store.New(conn), closer, nil
}

// newGitHubClient builds a GitHub client from the configured token.
// SKILLS_STORE_GITHUB_TOKEN takes precedence over GITHUB_TOKEN.
func newGitHubClient(ctx context.Context) *github.Client {
	token := viper.GetString("github_token")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	return github.NewClient(ctx, token)
}

func main() {
	// Add global flags
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().String("github-token", "", "GitHub API token (overrides config)")

	// Bind flags to viper
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("github_token", rootCmd.PersistentFlags().Lookup("github-token"))

	// Add subcommands
	rootCmd.AddCommand(withTracing(serveCmd))
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(versionCmd)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
