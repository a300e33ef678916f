package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	graphFile      string
	graphFromDB    bool
	graphNamespace string
	graphOutput    string
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Dump the entity dependency graph as deterministic JSON",
	Long: `Build the dependency graph from the entity catalog and print its audit
dump: every entity type with its relations, unique constraints, scopes, and
dangling classification, all sorted so two runs over the same schema are
byte-identical.

Examples:
  relocato graph                          # From registry.yaml
  relocato graph --output graph.json      # Write to a file
  relocato graph --from-db                # Introspect the connected database
`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := loadEngine(graphFile, graphFromDB, graphNamespace)
		if err != nil {
			fmt.Printf("❌ Error loading registry: %v\n", err)
			os.Exit(1)
		}

		dump, err := engine.Dump()
		if err != nil {
			fmt.Printf("❌ Error building graph: %v\n", err)
			os.Exit(1)
		}

		if graphOutput == "" {
			os.Stdout.Write(dump)
			return
		}
		if err := os.WriteFile(graphOutput, dump, 0644); err != nil {
			fmt.Printf("❌ Error writing graph dump: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Graph dump saved to: %s\n", graphOutput)
	},
}

func init() {
	graphCmd.Flags().StringVarP(&graphFile, "registry", "r", "registry.yaml", "Registry file to use")
	graphCmd.Flags().BoolVar(&graphFromDB, "from-db", false, "Introspect the connected database instead of the registry file")
	graphCmd.Flags().StringVarP(&graphNamespace, "namespace", "n", "app", "Entity namespace for introspected tables")
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "Output file (default: stdout)")
}
