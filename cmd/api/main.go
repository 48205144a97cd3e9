package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "hellosrv",
	Short: "Deferred greeting HTTP server",
	Long: `hellosrv answers every request on its greeting path after a fixed delay,
without blocking other requests while it waits. It keeps a journal of every
response and exposes health, metrics and API docs endpoints.`,
	Version:      version,
	SilenceUsage: true,
}

// @title Hello Server API
// @version 1.0
// @BasePath /
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
