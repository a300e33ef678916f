package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sam16vis/relocato/dependencies"
	"github.com/sam16vis/relocato/diff"
	"github.com/spf13/cobra"
)

var diffFormat string

var diffCmd = &cobra.Command{
	Use:   "diff <old-dump.json> <new-dump.json>",
	Short: "Show structural drift between two graph dumps",
	Long: `Compare two serialized graph dumps and report what changed: entities
added or removed, relations retargeted, nullability or kind flips, unique
constraint and scope changes, and dangling reclassifications.

Examples:
  relocato diff snapshots/old.json snapshots/new.json
  relocato diff old.json new.json --format json
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		oldDump, err := readDump(args[0])
		if err != nil {
			fmt.Printf("❌ Error reading %s: %v\n", args[0], err)
			os.Exit(1)
		}
		newDump, err := readDump(args[1])
		if err != nil {
			fmt.Printf("❌ Error reading %s: %v\n", args[1], err)
			os.Exit(1)
		}

		changes := diff.DiffDumps(oldDump, newDump)

		if diffFormat == "json" {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(changes); err != nil {
				fmt.Printf("❌ Error encoding changes: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if len(changes) == 0 {
			color.Green("✅ No drift between the two dumps")
			return
		}

		for _, change := range changes {
			target := change.Entity
			if change.Field != "" {
				target += "." + change.Field
			}
			switch change.Type {
			case diff.EntityAdded, diff.RelationAdded:
				color.Green("+ %s %s %s", change.Type, target, change.Detail)
			case diff.EntityRemoved, diff.RelationRemoved:
				color.Red("- %s %s %s", change.Type, target, change.Detail)
			default:
				color.Yellow("~ %s %s %s", change.Type, target, change.Detail)
			}
		}
		fmt.Printf("\n📊 %d change(s)\n", len(changes))
	},
}

func readDump(path string) (dependencies.GraphDump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return dependencies.ParseDump(data)
}

func init() {
	diffCmd.Flags().StringVarP(&diffFormat, "format", "f", "text", "Output format (text, json)")
}
