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

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded snapshot history",
	Long: `Show the recorded graph-dump snapshots, newest first, with checksums and
who recorded them. Consecutive records with differing checksums mark where the
schema drifted.

Examples:
  relocato history                # Show all snapshots
  relocato history --limit 10     # Show the last 10
`,
	Run: func(cmd *cobra.Command, args []string) {
		conn, err := introspect.Connect()
		if err != nil {
			fmt.Printf("❌ Error connecting to database: %v\n", err)
			os.Exit(1)
		}
		ctx := context.Background()
		defer conn.Close(ctx)

		records, err := snapshot.History(conn, ctx, historyLimit)
		if err != nil {
			fmt.Printf("❌ Error getting snapshot history: %v\n", err)
			os.Exit(1)
		}

		if len(records) == 0 {
			fmt.Println("📋 No snapshots recorded")
			return
		}

		for i, record := range records {
			fmt.Printf("%s  %s  %d entities  by %s\n",
				record.CreatedAt.Format("2006-01-02 15:04:05"),
				record.ID,
				record.EntityCount,
				record.CreatedBy,
			)
			fmt.Printf("    checksum %s\n", record.Checksum[:16])
			if i+1 < len(records) && records[i+1].Checksum != record.Checksum {
				color.Yellow("    ⚠️  drifted from previous snapshot")
			}
		}
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 0, "Limit number of snapshots shown (0 = all)")
}
