package strategy

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/dionysus/pkg/errors"
)

// GenerateSchema reflects the JSON schema of an agent record.
func GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
	}

	schema := reflector.Reflect(&Record{})
	schema.Title = "dionysus-agent-record"
	schema.Description = "Token and strategy of a trading agent"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON returns the indented JSON form of GenerateSchema.
func GenerateSchemaJSON() (string, error) {
	data, err := json.MarshalIndent(GenerateSchema(), "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to marshal record schema", err)
	}

	return string(data), nil
}
