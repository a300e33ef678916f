package loader

import (
	"fmt"
	"os"

	"github.com/sam16vis/relocato/registry"
	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	Scopes   []yamlScope  `yaml:"scopes"`
	Entities []yamlEntity `yaml:"entities"`
}

type yamlScope struct {
	Name  string   `yaml:"name"`
	Roots []string `yaml:"roots"`
}

type yamlEntity struct {
	Name           string      `yaml:"name"`
	Table          string      `yaml:"table"`
	Scope          string      `yaml:"scope"`
	Scopes         []string    `yaml:"scopes"`
	Fields         []yamlField `yaml:"fields"`
	UniqueTogether [][]string  `yaml:"unique_together"`
}

type yamlField struct {
	Name     string        `yaml:"name"`
	Type     string        `yaml:"type"`
	Nullable bool          `yaml:"nullable"`
	Unique   bool          `yaml:"unique"`
	Relation *yamlRelation `yaml:"relation"`
}

type yamlRelation struct {
	To   string `yaml:"to"`
	Kind string `yaml:"kind"`
}

// LoadRegistryFromYAML reads an entity catalog from a registry file. An entity
// may declare a single scope or a set of scopes; declaring both forms at once
// is rejected.
func LoadRegistryFromYAML(filename string) (*registry.Registry, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading registry file: %w", err)
	}

	var yf yamlFile
	if err := yaml.Unmarshal(data, &yf); err != nil {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}

	reg := &registry.Registry{}
	for _, s := range yf.Scopes {
		reg.Scopes = append(reg.Scopes, registry.Scope{
			Tag:   registry.ScopeTag(s.Name),
			Roots: s.Roots,
		})
	}

	for _, e := range yf.Entities {
		scopes, err := entityScopes(e)
		if err != nil {
			return nil, err
		}

		entity := registry.Entity{
			Name:           e.Name,
			Table:          e.Table,
			Scopes:         scopes,
			UniqueTogether: e.UniqueTogether,
		}
		for _, f := range e.Fields {
			field := registry.Field{
				Name:     f.Name,
				Type:     f.Type,
				Nullable: f.Nullable,
				Unique:   f.Unique,
			}
			if f.Relation != nil {
				field.Relation = &registry.Relation{
					To:   f.Relation.To,
					Kind: registry.RelationKindName(f.Relation.Kind),
				}
			}
			entity.Fields = append(entity.Fields, field)
		}
		reg.Entities = append(reg.Entities, entity)
	}

	return reg, nil
}

func entityScopes(e yamlEntity) ([]registry.ScopeTag, error) {
	if e.Scope != "" && len(e.Scopes) > 0 {
		return nil, fmt.Errorf("entity %s declares both scope and scopes", e.Name)
	}
	if e.Scope != "" {
		return []registry.ScopeTag{registry.ScopeTag(e.Scope)}, nil
	}
	if len(e.Scopes) > 0 {
		tags := make([]registry.ScopeTag, 0, len(e.Scopes))
		for _, s := range e.Scopes {
			tags = append(tags, registry.ScopeTag(s))
		}
		return tags, nil
	}
	// No declared scope means the entity is excluded from relocation
	// accounting but stays known for relation resolution.
	return []registry.ScopeTag{registry.ScopeExcluded}, nil
}
