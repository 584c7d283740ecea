package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/visitbill/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "visitbill",
	Short: "Home-healthcare visit billing pipeline",
	Long:  "Cleans scheduling-tool visit exports, aggregates verified visits per client, employee, and service, and prices them against configured service rates.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("VISITBILL_DB_URL"), "Postgres connection string (or set VISITBILL_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}
