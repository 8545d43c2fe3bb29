package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cartctl",
		Short:         "Inspect and clear persisted carts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		sessionsCmd(),
		showCmd(),
		clearCmd(),
	)
	return root
}
