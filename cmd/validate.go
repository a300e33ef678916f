package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sam16vis/relocato/loader"
	"github.com/sam16vis/relocato/registry"
	"github.com/sam16vis/relocato/validator"
	"github.com/spf13/cobra"
)

var (
	validateFile   string
	validateFormat string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the entity registry before relocation analysis",
	Long: `Validate the registry file against the constraints the dependency engine
enforces, plus advisory checks:
- Entity name normalization (namespace separator required)
- Duplicate entities, unknown scope tags, unknown relation kinds
- Relation targets resolving to known entity types
- Scope roots present in the catalog
- Non-nullable reference cycles and unresolvable ordering cycles
- Dangling entity types (warnings)

The validator works in two modes:
- Offline: Validates the catalog and its graph (no database required)
- Online: Also checks each entity's table exists (requires DATABASE_URL)

Examples:
  relocato validate                      # Validate registry.yaml (offline)
  relocato validate --registry custom.yaml
  relocato validate --format json        # Output results as JSON
  DATABASE_URL=postgres://... relocato validate  # Online validation
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateRegistry(); err != nil {
			fmt.Printf("❌ Registry validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "registry", "r", "registry.yaml", "Registry file to validate")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
}

func validateRegistry() error {
	reg, err := loader.LoadRegistryFromYAML(validateFile)
	if err != nil {
		return fmt.Errorf("failed to load registry: %v", err)
	}

	if os.Getenv("DATABASE_URL") == "" {
		return validateRegistryOffline(reg)
	}

	dbValidator, err := validator.NewRegistryValidator()
	if err != nil {
		return fmt.Errorf("failed to create registry validator: %v", err)
	}

	result, err := dbValidator.ValidateRegistry(reg)
	if err != nil {
		return fmt.Errorf("failed to validate registry: %v", err)
	}

	if validateFormat == "json" {
		return outputJSON(result)
	}
	return outputText(result)
}

func validateRegistryOffline(reg *registry.Registry) error {
	offline := &validator.RegistryValidator{}
	result, err := offline.ValidateRegistryWithoutDB(reg)
	if err != nil {
		return fmt.Errorf("failed to validate registry: %v", err)
	}
	if validateFormat == "json" {
		return outputJSON(result)
	}
	return outputText(result)
}

func outputJSON(result *validator.ValidationResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(result *validator.ValidationResult) error {
	if result.Valid {
		color.Green("✅ Registry validation passed!")
	} else {
		color.Red("❌ Registry validation failed!")
	}

	printFindings := func(header string, findings []validator.ValidationError) {
		if len(findings) == 0 {
			return
		}
		fmt.Printf("\n%s (%d):\n", header, len(findings))
		for i, finding := range findings {
			fmt.Printf("  %d. ", i+1)
			if finding.Entity != "" {
				fmt.Printf("[%s]", finding.Entity)
			}
			if finding.Field != "" {
				fmt.Printf(".%s", finding.Field)
			}
			fmt.Printf(": %s\n", finding.Message)
		}
	}

	printFindings("🔴 Errors", result.Errors)
	printFindings("🟡 Warnings", result.Warnings)
	printFindings("🔵 Info", result.Info)

	fmt.Printf("\n📊 Summary:\n")
	fmt.Printf("  • Errors: %d\n", len(result.Errors))
	fmt.Printf("  • Warnings: %d\n", len(result.Warnings))
	fmt.Printf("  • Info: %d\n", len(result.Info))

	if result.Valid {
		fmt.Printf("\n🎉 Your registry is ready for relocation analysis!\n")
	} else {
		fmt.Printf("\n💡 Fix the errors above before building the dependency graph.\n")
	}

	return nil
}
