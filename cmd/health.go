package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sam16vis/relocato/database"
	"github.com/spf13/cobra"
)

var healthTimeout time.Duration

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database connectivity",
	Long: `Check if the database is accessible and whether snapshot history has been
set up.

Examples:
  relocato health                    # Check default database connection
  relocato health --timeout 10s      # Set custom timeout
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := checkDatabaseHealth(); err != nil {
			fmt.Printf("❌ Database health check failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Database is healthy and accessible")
	},
}

func init() {
	healthCmd.Flags().DurationVarP(&healthTimeout, "timeout", "t", 5*time.Second, "Timeout for health check")
}

func checkDatabaseHealth() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	pool, err := database.GetPool()
	if err != nil {
		return fmt.Errorf("failed to get database pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %v", err)
	}

	var tableExists bool
	query := `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_name = 'relocation_snapshots'
	)`

	if err := pool.QueryRow(ctx, query).Scan(&tableExists); err != nil {
		return fmt.Errorf("failed to check snapshot table: %v", err)
	}

	if !tableExists {
		fmt.Println("ℹ️  No relocation_snapshots table yet; run 'relocato snapshot' to create it")
	}

	return nil
}
