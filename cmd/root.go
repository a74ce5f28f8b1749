package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/docdrill/internal/api"
	"github.com/abhisek/docdrill/internal/app"
	"github.com/abhisek/docdrill/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "docdrill",
	Short: "Timed engineering document practice",
	Long: "docdrill — terminal client for timed practice at reading engineering documents,\n" +
		"taking notes against the clock and getting them reviewed.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, app.EntryHome, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides DOCDRILL_CONFIG env var)")
	rootCmd.PersistentFlags().String("server", "", "Practice service URL (overrides config and DOCDRILL_SERVER_URL)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(quickCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the config using --config (highest priority), then
// DOCDRILL_CONFIG, then the default XDG path. --server overrides the URL.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		cfg.ServerURL = server
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// newClient builds the API client for cfg.
func newClient(cfg config.Config, logger *zap.Logger) (*api.Client, error) {
	client, err := api.New(cfg.ServerURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logger.Named("api")),
	)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}
