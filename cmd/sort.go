package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	sortFile      string
	sortFromDB    bool
	sortNamespace string
)

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Print the topological import order of entity types",
	Long: `Print every entity type in dependency order: each type appears after all
types it references, so an import driver walking the list never writes a
record before the records it points at.

Examples:
  relocato sort                  # Order from registry.yaml
  relocato sort --from-db        # Order from the connected database
`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := loadEngine(sortFile, sortFromDB, sortNamespace)
		if err != nil {
			fmt.Printf("❌ Error loading registry: %v\n", err)
			os.Exit(1)
		}

		ordered, err := engine.SortedEntityTypes()
		if err != nil {
			fmt.Printf("❌ Error sorting entity types: %v\n", err)
			os.Exit(1)
		}

		for i, name := range ordered {
			fmt.Printf("%3d. %s\n", i+1, name)
		}
	},
}

func init() {
	sortCmd.Flags().StringVarP(&sortFile, "registry", "r", "registry.yaml", "Registry file to use")
	sortCmd.Flags().BoolVar(&sortFromDB, "from-db", false, "Introspect the connected database instead of the registry file")
	sortCmd.Flags().StringVarP(&sortNamespace, "namespace", "n", "app", "Entity namespace for introspected tables")
}
