package cmd

import (
	"fmt"
	"os"

	"github.com/sam16vis/relocato/dependencies"
	"github.com/sam16vis/relocato/introspect"
	"github.com/sam16vis/relocato/loader"
	"github.com/sam16vis/relocato/registry"
)

// loadRegistry resolves the entity catalog for a command: either straight from
// the registry file, or introspected from the connected database with the file
// acting as the scope/root overlay.
func loadRegistry(file string, fromDB bool, namespace string) (*registry.Registry, error) {
	if !fromDB {
		return loader.LoadRegistryFromYAML(file)
	}

	var overlay *registry.Registry
	if _, err := os.Stat(file); err == nil {
		overlay, err = loader.LoadRegistryFromYAML(file)
		if err != nil {
			return nil, fmt.Errorf("loading overlay registry: %v", err)
		}
	}
	return introspect.IntrospectRegistry(namespace, overlay)
}

// loadEngine is the common front half of the analysis commands.
func loadEngine(file string, fromDB bool, namespace string) (*dependencies.Engine, error) {
	reg, err := loadRegistry(file, fromDB, namespace)
	if err != nil {
		return nil, err
	}
	return dependencies.NewEngine(reg), nil
}
