package tree

import (
	"embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed assets/tree.schema.json assets/wallpaper.json assets/frieze.json
var assets embed.FS

// SchemaJSON returns the raw embedded tree schema.
func SchemaJSON() []byte {
	data, err := assets.ReadFile("assets/tree.schema.json")
	if err != nil {
		panic(err) // embedded file, cannot fail
	}
	return data
}

var (
	schemaOnce sync.Once
	schemaVal  *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schemaVal, schemaErr = compileSchema("tree.schema.json", SchemaJSON())
	})
	return schemaVal, schemaErr
}

// BuiltinIDs lists the embedded trees in display order.
func BuiltinIDs() []string {
	return []string{"wallpaper", "frieze"}
}

// Builtin loads one of the embedded decision trees by id.
func Builtin(id string) (*Tree, error) {
	data, err := assets.ReadFile("assets/" + id + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown builtin tree %q", id)
	}
	t, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("builtin tree %s: %w", id, err)
	}
	return t, nil
}
