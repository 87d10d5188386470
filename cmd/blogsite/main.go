package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "blogsite",
	Short:         "DankServices blog front end and API proxy",
	Long:          `Serves the blog pages and the /api proxy in front of the content API, plus tooling for the static post tree.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ blogsite: %v\n", err)
		os.Exit(1)
	}
}
