package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "site_pusher",
	Short: "Build a static site and push it to a web server",
	Long: `site_pusher builds a static site locally, uploads it as a single archive over SSH
and swaps it into place under /var/www/<domain>/<subdomain>.

The push stops at the first failing step. Nothing is retried or rolled back.`,
	Version:       version,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	addConfigFlags(rootCmd)

	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(versionCmd)
}
