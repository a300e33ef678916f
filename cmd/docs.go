package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sam16vis/relocato/dependencies"
	"github.com/spf13/cobra"
)

var (
	docsFile      string
	docsFromDB    bool
	docsNamespace string
	docsFormat    string
	docsOutput    string
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Render the dependency graph as a diagram",
	Long: `Render the entity dependency graph for documentation.

Supported formats:
  - mermaid: Mermaid flowchart
  - graphviz: Graphviz DOT format

Examples:
  relocato docs --format mermaid --output graph.md
  relocato docs --format graphviz --output graph.dot
`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := loadEngine(docsFile, docsFromDB, docsNamespace)
		if err != nil {
			fmt.Printf("❌ Error loading registry: %v\n", err)
			os.Exit(1)
		}

		graph, err := engine.Graph()
		if err != nil {
			fmt.Printf("❌ Error building graph: %v\n", err)
			os.Exit(1)
		}
		dump := dependencies.DumpGraph(graph)

		var content, defaultName string
		switch docsFormat {
		case "mermaid":
			content = generateMermaidContent(dump)
			defaultName = "graph.md"
		case "graphviz":
			content = generateGraphvizContent(dump)
			defaultName = "graph.dot"
		default:
			fmt.Printf("❌ Unsupported format: %s\n", docsFormat)
			fmt.Println("Supported formats: mermaid, graphviz")
			os.Exit(1)
		}

		output := docsOutput
		if output == "" {
			output = defaultName
		}
		if err := os.WriteFile(output, []byte(content), 0644); err != nil {
			fmt.Printf("❌ Error writing diagram: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Dependency diagram saved to: %s\n", output)
	},
}

func generateMermaidContent(dump dependencies.GraphDump) string {
	var content strings.Builder

	content.WriteString("# Entity Dependency Graph\n\n")
	content.WriteString("```mermaid\nflowchart LR\n")

	for _, name := range dumpNames(dump) {
		entity := dump[name]
		label := name
		if entity.Dangling {
			label += " (dangling)"
		}
		content.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", mermaidID(name), label))
	}
	for _, name := range dumpNames(dump) {
		for _, rel := range dump[name].Relations {
			arrow := "-->"
			if rel.Nullable {
				arrow = "-.->"
			}
			content.WriteString(fmt.Sprintf("    %s %s|%s| %s\n",
				mermaidID(name), arrow, rel.Field, mermaidID(rel.To)))
		}
	}

	content.WriteString("```\n")
	return content.String()
}

func generateGraphvizContent(dump dependencies.GraphDump) string {
	var content strings.Builder

	content.WriteString("digraph dependencies {\n")
	content.WriteString("  rankdir=LR;\n")
	content.WriteString("  node [shape=box];\n\n")

	for _, name := range dumpNames(dump) {
		entity := dump[name]
		attrs := ""
		if entity.Dangling {
			attrs = " style=dashed"
		}
		content.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\\n%s\"%s];\n", name, name, entity.Table, attrs))
	}
	content.WriteString("\n")
	for _, name := range dumpNames(dump) {
		for _, rel := range dump[name].Relations {
			style := ""
			if rel.Nullable {
				style = " style=dotted"
			}
			content.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [label=\"%s\"%s];\n", name, rel.To, rel.Field, style))
		}
	}

	content.WriteString("}\n")
	return content.String()
}

func mermaidID(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}

func dumpNames(dump dependencies.GraphDump) []string {
	names := make([]string, 0, len(dump))
	for name := range dump {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	docsCmd.Flags().StringVarP(&docsFile, "registry", "r", "registry.yaml", "Registry file to use")
	docsCmd.Flags().BoolVar(&docsFromDB, "from-db", false, "Introspect the connected database instead of the registry file")
	docsCmd.Flags().StringVarP(&docsNamespace, "namespace", "n", "app", "Entity namespace for introspected tables")
	docsCmd.Flags().StringVarP(&docsFormat, "format", "f", "mermaid", "Output format (mermaid, graphviz)")
	docsCmd.Flags().StringVarP(&docsOutput, "output", "o", "", "Output file (default: format-specific filename)")
}
