package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ngx-tools/ngxcache/pkg/api"
	"github.com/ngx-tools/ngxcache/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the cache inspection API over HTTP",
	Long: `Start an HTTP server exposing cache file inspection, expiry patching
and directory scanning, with Prometheus metrics on /metrics. Requests
are authenticated with the X-API-Key header from the configuration
file; a config with a generated key is created on first run.

Example:
  ngxcache serve --config ~/.config/ngxcache/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cacheRoot, _ := cmd.Flags().GetString("cache-root")

		var cfg *config.Config
		var err error
		if config.ConfigExists(configPath) {
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cacheRoot != "" {
				cfg.CacheRoot = cacheRoot
			}
		} else {
			cfg, err = config.BootstrapConfig(configPath, cacheRoot)
			if err != nil {
				return fmt.Errorf("failed to bootstrap config: %w", err)
			}
			logrus.Infof("wrote new config with generated API key to %s", configPath)
		}

		if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
			logrus.SetLevel(level)
		}

		return api.StartServer(api.ServerConfig{
			Bind:      cfg.Bind,
			Port:      cfg.Port,
			APIKey:    cfg.Security.APIKey,
			CacheRoot: cfg.CacheRoot,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("config", config.GetDefaultConfigPath(), "Path to the configuration file")
	serveCmd.Flags().String("cache-root", "", "Cache directory served by the API (overrides config)")
}
