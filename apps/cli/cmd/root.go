package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/abdul-hamid-achik/hitrelay/packages/core/config"
	hitlog "github.com/abdul-hamid-achik/hitrelay/packages/log"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag   string
	envFileFlag  string
	logLevelFlag string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "hitrelay",
	Short: "Execute HTTP requests on behalf of callers and keep an audit trail.",
	Long: `hitrelay accepts a declarative description of an HTTP request, performs it,
classifies the outcome into a stable response contract and records an
execution log entry for every completed exchange.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitUsageError)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", getEnvString("HITRELAY_CONFIG", ""), "Path to config file (env: HITRELAY_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", getEnvString("HITRELAY_ENV_FILE", ".env"), "Path to .env file (env: HITRELAY_ENV_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if _, err := config.LoadDotEnv(envFileFlag); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	var (
		loaded *config.Config
		err    error
	)
	if configFlag != "" {
		loaded, err = config.LoadConfig(configFlag)
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return wdErr
		}
		loaded, err = config.FindAndLoadConfig(wd)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loaded, err = loaded.ApplyEnv()
	if err != nil {
		return err
	}
	if logLevelFlag != "" {
		loaded.LogLevel = logLevelFlag
	}

	hitlog.Configure(loaded.LogLevel, loaded.LogFormat)
	cfg = loaded
	return nil
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
