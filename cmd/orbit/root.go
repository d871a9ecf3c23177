package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orbithealth/orbitscore/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "orbit",
	Short: "ORbit surgeon performance scoring",
	Long:  "Computes peer-relative ORbit scorecards from surgical case records in Postgres.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("ORBIT_DB_URL"), "Postgres connection string (or set ORBIT_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
}
