package validator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sam16vis/relocato/database"
	"github.com/sam16vis/relocato/dependencies"
	"github.com/sam16vis/relocato/registry"
)

// ValidationError represents a validation finding with details
type ValidationError struct {
	Type     string `json:"type"`
	Entity   string `json:"entity,omitempty"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error", "warning", "info"
}

// ValidationResult contains all validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings"`
	Info     []ValidationError `json:"info"`
}

// RegistryValidator validates entity catalogs before the dependency engine
// consumes them, surfacing the same defects graph construction would abort on,
// plus advisory findings construction tolerates.
type RegistryValidator struct {
	pool *pgxpool.Pool
}

// NewRegistryValidator creates a validator with a database connection for
// online checks.
func NewRegistryValidator() (*RegistryValidator, error) {
	pool, err := database.GetPool()
	if err != nil {
		return nil, fmt.Errorf("failed to get database pool: %v", err)
	}

	return &RegistryValidator{pool: pool}, nil
}

// ValidateRegistry validates a catalog and additionally verifies each
// non-excluded entity's table exists in the connected database.
func (v *RegistryValidator) ValidateRegistry(reg *registry.Registry) (*ValidationResult, error) {
	result, err := v.ValidateRegistryWithoutDB(reg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	for _, entity := range reg.Entities {
		if entity.Excluded() || entity.Table == "" {
			continue
		}
		exists, err := v.tableExists(ctx, entity.Table)
		if err != nil {
			return nil, fmt.Errorf("checking table %s: %v", entity.Table, err)
		}
		if !exists {
			addError(result, ValidationError{
				Type:     "missing_table",
				Entity:   entity.Name,
				Message:  fmt.Sprintf("table %q does not exist in the connected database", entity.Table),
				Severity: "error",
			})
		}
	}

	return result, nil
}

// ValidateRegistryWithoutDB runs every check that needs no database
// connection.
func (v *RegistryValidator) ValidateRegistryWithoutDB(reg *registry.Registry) (*ValidationResult, error) {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
		Info:     []ValidationError{},
	}

	known := map[string]bool{}
	for _, entity := range reg.Entities {
		lower := strings.ToLower(entity.Name)
		if !strings.Contains(entity.Name, ".") {
			addError(result, ValidationError{
				Type:     "malformed_name",
				Entity:   entity.Name,
				Message:  "entity name is missing the namespace separator",
				Severity: "error",
			})
			continue
		}
		if known[lower] {
			addError(result, ValidationError{
				Type:     "duplicate_entity",
				Entity:   entity.Name,
				Message:  "entity is declared more than once",
				Severity: "error",
			})
		}
		known[lower] = true
	}

	for _, entity := range reg.Entities {
		for _, scope := range entity.Scopes {
			if !scope.Valid() {
				addError(result, ValidationError{
					Type:     "unknown_scope",
					Entity:   entity.Name,
					Message:  fmt.Sprintf("unknown relocation scope %q", scope),
					Severity: "error",
				})
			}
		}
		if len(entity.Fields) == 0 {
			result.Info = append(result.Info, ValidationError{
				Type:     "empty_entity",
				Entity:   entity.Name,
				Message:  "entity declares no fields",
				Severity: "info",
			})
		}
		for _, field := range entity.Fields {
			if field.Relation == nil {
				continue
			}
			if !field.Relation.Kind.Valid() {
				addError(result, ValidationError{
					Type:     "unknown_relation_kind",
					Entity:   entity.Name,
					Field:    field.Name,
					Message:  fmt.Sprintf("unknown relation kind %q", field.Relation.Kind),
					Severity: "error",
				})
			}
			if !known[strings.ToLower(field.Relation.To)] {
				addError(result, ValidationError{
					Type:     "unresolved_relation",
					Entity:   entity.Name,
					Field:    field.Name,
					Message:  fmt.Sprintf("relation target %q is not a known entity type", field.Relation.To),
					Severity: "error",
				})
			}
		}
	}

	for _, scope := range reg.Scopes {
		if !scope.Tag.Valid() {
			addError(result, ValidationError{
				Type:     "unknown_scope",
				Message:  fmt.Sprintf("scope declaration uses unknown tag %q", scope.Tag),
				Severity: "error",
			})
		}
		for _, root := range scope.Roots {
			if !known[strings.ToLower(root)] {
				addError(result, ValidationError{
					Type:     "unknown_root",
					Entity:   root,
					Message:  fmt.Sprintf("scope %s declares a root that is not in the catalog", scope.Tag),
					Severity: "error",
				})
			}
		}
	}

	// Only attempt the graph-level checks on a catalog that already resolves;
	// otherwise construction fails on the defects reported above.
	if len(result.Errors) == 0 {
		validateGraph(result, reg)
	}

	return result, nil
}

// validateGraph surfaces the engine's fatal construction errors as findings
// and warns about dangling entity types.
func validateGraph(result *ValidationResult, reg *registry.Registry) {
	graph, err := dependencies.BuildGraph(reg)
	if err != nil {
		var cycleErr *dependencies.DanglingCycleError
		if errors.As(err, &cycleErr) {
			addError(result, ValidationError{
				Type:     "dangling_cycle",
				Message:  err.Error(),
				Severity: "error",
			})
			return
		}
		addError(result, ValidationError{
			Type:     "graph_construction",
			Message:  err.Error(),
			Severity: "error",
		})
		return
	}

	if _, err := graph.SortedEntityTypes(); err != nil {
		addError(result, ValidationError{
			Type:     "sort_cycle",
			Message:  err.Error(),
			Severity: "error",
		})
	}

	for _, name := range graph.Names() {
		node, _ := graph.Node(name)
		if node.Dangling() {
			result.Warnings = append(result.Warnings, ValidationError{
				Type:     "dangling_entity",
				Entity:   name.String(),
				Message:  "no non-nullable relation chain reaches a relocation root; the import driver will skip it",
				Severity: "warning",
			})
		}
	}
}

func (v *RegistryValidator) tableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_name = $1
	)`
	if err := v.pool.QueryRow(ctx, query, table).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func addError(result *ValidationResult, err ValidationError) {
	result.Errors = append(result.Errors, err)
	result.Valid = false
}
