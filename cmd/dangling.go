package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	danglingFile      string
	danglingFromDB    bool
	danglingNamespace string
	danglingFormat    string
)

var danglingCmd = &cobra.Command{
	Use:   "dangling",
	Short: "Classify entity types as dangling or anchored",
	Long: `List every entity type with its dangling classification. A dangling type
has no chain of non-nullable relations leading to any relocation root, so its
records cannot be justified by reachability from something the operator asked
to move.

Examples:
  relocato dangling                  # Text report from registry.yaml
  relocato dangling --format json    # JSON report
`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := loadEngine(danglingFile, danglingFromDB, danglingNamespace)
		if err != nil {
			fmt.Printf("❌ Error loading registry: %v\n", err)
			os.Exit(1)
		}

		graph, err := engine.Graph()
		if err != nil {
			fmt.Printf("❌ Error building graph: %v\n", err)
			os.Exit(1)
		}

		type classification struct {
			Entity   string `json:"entity"`
			Dangling bool   `json:"dangling"`
			Root     bool   `json:"root"`
		}

		var report []classification
		for _, name := range graph.Names() {
			node, _ := graph.Node(name)
			report = append(report, classification{
				Entity:   name.String(),
				Dangling: node.Dangling(),
				Root:     graph.Root(name),
			})
		}

		if danglingFormat == "json" {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				fmt.Printf("❌ Error encoding report: %v\n", err)
				os.Exit(1)
			}
			return
		}

		danglingCount := 0
		for _, entry := range report {
			switch {
			case entry.Root:
				color.Green("⚓ %s (root)", entry.Entity)
			case entry.Dangling:
				color.Yellow("🔗 %s (dangling)", entry.Entity)
				danglingCount++
			default:
				fmt.Printf("   %s\n", entry.Entity)
			}
		}
		fmt.Printf("\n📊 %d entity types, %d dangling\n", len(report), danglingCount)
	},
}

func init() {
	danglingCmd.Flags().StringVarP(&danglingFile, "registry", "r", "registry.yaml", "Registry file to use")
	danglingCmd.Flags().BoolVar(&danglingFromDB, "from-db", false, "Introspect the connected database instead of the registry file")
	danglingCmd.Flags().StringVarP(&danglingNamespace, "namespace", "n", "app", "Entity namespace for introspected tables")
	danglingCmd.Flags().StringVarP(&danglingFormat, "format", "f", "text", "Output format (text, json)")
}
