package utils

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GetSchemaFromConfig reflects the JSON schema of a YAML configuration struct.
// Property names follow the yaml tags.
func GetSchemaFromConfig(config any, title string) (string, error) {
	reflector := jsonschema.Reflector{
		FieldNameTag:   "yaml",
		ExpandedStruct: true,
	}

	schema := reflector.Reflect(config)
	schema.Title = title

	jsonSchemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}
