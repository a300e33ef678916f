package introspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sam16vis/relocato/database"
	"github.com/sam16vis/relocato/registry"
)

// existingColumn is one column as reported by information_schema.
type existingColumn struct {
	ColumnName   string
	DataType     string
	IsNullable   bool
	IsPrimaryKey bool
	IsUnique     bool
}

type existingForeignKey struct {
	ColumnName      string
	ReferencesTable string
	IsNullable      bool
}

// IntrospectRegistry builds an entity catalog snapshot from the connected
// database. Every base table becomes an entity named
// "<namespace>.<table-without-underscores>"; foreign key constraints become
// direct relation fields. Scope and root declarations cannot live in the
// database, so they come from the overlay registry (usually registry.yaml):
// its scope list is carried over, and entities found in the overlay keep their
// declared scopes. Tables absent from the overlay stay excluded from
// relocation accounting.
func IntrospectRegistry(namespace string, overlay *registry.Registry) (*registry.Registry, error) {
	ctx := context.Background()
	pool, err := database.GetPool()
	if err != nil {
		return nil, fmt.Errorf("unable to get connection pool: %v", err)
	}

	tablesQuery := `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_schema = 'public' AND table_type='BASE TABLE'
	ORDER BY table_name;
	`

	rows, err := pool.Query(ctx, tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %v", err)
	}
	defer rows.Close()

	var tableNames []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, fmt.Errorf("scanning table name: %v", err)
		}
		tableNames = append(tableNames, tableName)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating table rows: %v", rows.Err())
	}

	overlayByName := map[string]registry.Entity{}
	if overlay != nil {
		for _, e := range overlay.Entities {
			overlayByName[strings.ToLower(e.Name)] = e
		}
	}

	reg := &registry.Registry{}
	if overlay != nil {
		reg.Scopes = overlay.Scopes
	}

	for _, tableName := range tableNames {
		columns, err := getColumns(ctx, pool, tableName)
		if err != nil {
			return nil, fmt.Errorf("getting columns for table %s: %v", tableName, err)
		}

		foreignKeys, err := getForeignKeys(ctx, pool, tableName)
		if err != nil {
			return nil, fmt.Errorf("getting foreign keys for table %s: %v", tableName, err)
		}

		uniqueTogether, err := getUniqueTogether(ctx, pool, tableName)
		if err != nil {
			return nil, fmt.Errorf("getting unique constraints for table %s: %v", tableName, err)
		}

		entity := registry.Entity{
			Name:           entityName(namespace, tableName),
			Table:          tableName,
			UniqueTogether: uniqueTogether,
		}

		fksByColumn := map[string]existingForeignKey{}
		for _, fk := range foreignKeys {
			fksByColumn[fk.ColumnName] = fk
		}

		for _, col := range columns {
			field := registry.Field{
				Name:     col.ColumnName,
				Type:     normalizeDataType(col.DataType),
				Nullable: col.IsNullable,
				Unique:   col.IsUnique,
			}
			if fk, ok := fksByColumn[col.ColumnName]; ok {
				field.Relation = &registry.Relation{
					To:   entityName(namespace, fk.ReferencesTable),
					Kind: registry.KindForeignKey,
				}
			}
			entity.Fields = append(entity.Fields, field)
		}

		if declared, ok := overlayByName[strings.ToLower(entity.Name)]; ok {
			entity.Scopes = declared.Scopes
		}

		reg.Entities = append(reg.Entities, entity)
	}

	return reg, nil
}

// Connect returns a database connection for use by other packages
func Connect() (*pgx.Conn, error) {
	ctx := context.Background()
	return database.GetConnection(ctx)
}

// entityName collapses a physical table name into the normalized
// "<namespace>.<type>" form, mirroring how exported backups name entity types.
func entityName(namespace, tableName string) string {
	return namespace + "." + strings.ReplaceAll(strings.ToLower(tableName), "_", "")
}

// normalizeDataType maps information_schema type spellings onto the names the
// registry model uses.
func normalizeDataType(dataType string) string {
	switch dataType {
	case "character varying", "character":
		return "text"
	case "timestamp without time zone", "timestamp with time zone":
		return "timestamp"
	default:
		return dataType
	}
}

func getColumns(ctx context.Context, pool *pgxpool.Pool, tableName string) ([]existingColumn, error) {
	columnsQuery := `
	SELECT
		c.column_name,
		c.data_type,
		(c.is_nullable = 'YES') as is_nullable,
		(CASE WHEN tc.constraint_type = 'PRIMARY KEY' THEN true ELSE false END) as is_primary,
		(CASE WHEN tc.constraint_type = 'UNIQUE' THEN true ELSE false END) as is_unique
	FROM information_schema.columns c
	LEFT JOIN information_schema.key_column_usage kcu
		ON c.table_name = kcu.table_name AND c.column_name = kcu.column_name
	LEFT JOIN information_schema.table_constraints tc
		ON kcu.constraint_name = tc.constraint_name AND kcu.table_name = tc.table_name
	WHERE c.table_schema = 'public' AND c.table_name = $1
	ORDER BY c.ordinal_position;
	`

	rows, err := pool.Query(ctx, columnsQuery, tableName)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %v", err)
	}
	defer rows.Close()

	var columns []existingColumn
	for rows.Next() {
		var col existingColumn
		if err := rows.Scan(
			&col.ColumnName,
			&col.DataType,
			&col.IsNullable,
			&col.IsPrimaryKey,
			&col.IsUnique,
		); err != nil {
			return nil, fmt.Errorf("scanning column: %v", err)
		}
		columns = append(columns, col)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating column rows: %v", rows.Err())
	}

	return columns, nil
}

func getForeignKeys(ctx context.Context, pool *pgxpool.Pool, tableName string) ([]existingForeignKey, error) {
	foreignKeysQuery := `
	SELECT
		kcu.column_name,
		ccu.table_name AS foreign_table_name,
		(c.is_nullable = 'YES') as is_nullable
	FROM information_schema.table_constraints AS tc
	JOIN information_schema.key_column_usage AS kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
	JOIN information_schema.constraint_column_usage AS ccu
		ON ccu.constraint_name = tc.constraint_name
		AND ccu.table_schema = tc.table_schema
	JOIN information_schema.columns AS c
		ON c.table_name = tc.table_name AND c.column_name = kcu.column_name
	WHERE tc.constraint_type = 'FOREIGN KEY'
		AND tc.table_schema = 'public'
		AND tc.table_name = $1;
	`

	rows, err := pool.Query(ctx, foreignKeysQuery, tableName)
	if err != nil {
		return nil, fmt.Errorf("querying foreign keys: %v", err)
	}
	defer rows.Close()

	var foreignKeys []existingForeignKey
	for rows.Next() {
		var fk existingForeignKey
		if err := rows.Scan(
			&fk.ColumnName,
			&fk.ReferencesTable,
			&fk.IsNullable,
		); err != nil {
			return nil, fmt.Errorf("scanning foreign key: %v", err)
		}
		foreignKeys = append(foreignKeys, fk)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating foreign key rows: %v", rows.Err())
	}

	return foreignKeys, nil
}

// getUniqueTogether collects multi-column unique indexes; single-column
// uniqueness is already carried on the columns themselves.
func getUniqueTogether(ctx context.Context, pool *pgxpool.Pool, tableName string) ([][]string, error) {
	indexesQuery := `
	SELECT
		array_to_string(array_agg(a.attname ORDER BY a.attnum), ',') as column_names
	FROM pg_indexes i
	JOIN pg_class c ON c.relname = i.indexname
	JOIN pg_index idx ON idx.indexrelid = c.oid
	JOIN pg_attribute a ON a.attrelid = idx.indrelid AND a.attnum = ANY(idx.indkey)
	WHERE i.tablename = $1 AND i.schemaname = 'public' AND idx.indisunique
	GROUP BY i.indexname
	HAVING count(a.attname) > 1
	ORDER BY i.indexname;
	`

	rows, err := pool.Query(ctx, indexesQuery, tableName)
	if err != nil {
		return nil, fmt.Errorf("querying unique indexes: %v", err)
	}
	defer rows.Close()

	var uniques [][]string
	for rows.Next() {
		var columnNames string
		if err := rows.Scan(&columnNames); err != nil {
			return nil, fmt.Errorf("scanning unique index: %v", err)
		}
		columns := strings.Split(columnNames, ",")
		for i, col := range columns {
			columns[i] = strings.TrimSpace(col)
		}
		uniques = append(uniques, columns)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating unique index rows: %v", rows.Err())
	}

	return uniques, nil
}
