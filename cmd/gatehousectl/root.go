package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gatehousectl",
	Short: "Gatehouse authentication gateway",
	Long: `Gatehouse is an HTTP authentication gateway with pluggable
authentication strategies backed by a principal directory.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
