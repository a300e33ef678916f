package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "relocato",
	Short: "Entity dependency graph and relocation engine",
	Long: `relocato analyzes the foreign-key graph of an entity catalog and derives
everything a relocation (backup import/export) driver needs: which entity
types are reachable from the relocation roots, the order records must be
written in, and a deterministic audit dump of the whole graph.

Examples:

  relocato init
  relocato graph
  relocato sort
  relocato dangling
`,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

// Register subcommands
func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(danglingCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(healthCmd)
}
