package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sam16vis/relocato/introspect"
	"github.com/sam16vis/relocato/snapshot"
	"github.com/spf13/cobra"
)

var (
	snapshotFile      string
	snapshotFromDB    bool
	snapshotNamespace string
	snapshotDir       string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record an audited graph dump snapshot",
	Long: `Build the dependency graph, write its deterministic dump to the snapshot
directory, and record the file with a sha256 checksum in the database. A
checksum change against the latest recorded snapshot means the schema drifted
since the last relocation audit.

Examples:
  relocato snapshot                      # Snapshot registry.yaml
  relocato snapshot --from-db            # Snapshot the live database schema
  relocato snapshot --dir audits/        # Custom snapshot directory
`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := loadEngine(snapshotFile, snapshotFromDB, snapshotNamespace)
		if err != nil {
			fmt.Printf("❌ Error loading registry: %v\n", err)
			os.Exit(1)
		}

		dump, err := engine.Dump()
		if err != nil {
			fmt.Printf("❌ Error building graph: %v\n", err)
			os.Exit(1)
		}
		graph, err := engine.Graph()
		if err != nil {
			fmt.Printf("❌ Error building graph: %v\n", err)
			os.Exit(1)
		}

		conn, err := introspect.Connect()
		if err != nil {
			fmt.Printf("❌ Error connecting to database: %v\n", err)
			os.Exit(1)
		}
		ctx := context.Background()
		defer conn.Close(ctx)

		drifted, latest, err := snapshot.Drifted(conn, ctx, dump)
		if err != nil {
			fmt.Printf("❌ Error checking drift: %v\n", err)
			os.Exit(1)
		}

		record, err := snapshot.Save(conn, ctx, snapshotDir, dump, graph.Len())
		if err != nil {
			fmt.Printf("❌ Error saving snapshot: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("✅ Snapshot %s recorded (%d entity types)\n", record.ID, record.EntityCount)
		fmt.Printf("📁 File: %s/%s\n", snapshotDir, record.Filename)
		if latest != nil {
			if drifted {
				color.Yellow("⚠️  Schema drifted since snapshot %s (%s)", latest.ID, latest.CreatedAt.Format("2006-01-02 15:04:05"))
			} else {
				color.Green("✅ No drift since snapshot %s", latest.ID)
			}
		}
	},
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotFile, "registry", "r", "registry.yaml", "Registry file to use")
	snapshotCmd.Flags().BoolVar(&snapshotFromDB, "from-db", false, "Introspect the connected database instead of the registry file")
	snapshotCmd.Flags().StringVarP(&snapshotNamespace, "namespace", "n", "app", "Entity namespace for introspected tables")
	snapshotCmd.Flags().StringVarP(&snapshotDir, "dir", "d", "snapshots", "Snapshot directory")
}
