package registry

import "github.com/google/jsonschema-go/jsonschema"

// SimpleSchema creates a jsonschema.Schema from a property-name-to-Go-type
// map. Convenience for tool registrations that don't need the full schema API.
//
// Input format: {"file": "string", "line": "int"}
func SimpleSchema(props map[string]string) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(props))
	for name, goType := range props {
		properties[name] = goTypeToJSONSchema(goType)
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
	}
}

// RequiredSchema is SimpleSchema with the given property names marked required.
func RequiredSchema(props map[string]string, required ...string) *jsonschema.Schema {
	schema := SimpleSchema(props)
	schema.Required = required

	return schema
}

func goTypeToJSONSchema(goType string) *jsonschema.Schema {
	switch goType {
	case "string":
		return &jsonschema.Schema{Type: "string"}
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
		return &jsonschema.Schema{Type: "integer"}
	case "float32", "float64", "float", "number":
		return &jsonschema.Schema{Type: "number"}
	case "bool", "boolean":
		return &jsonschema.Schema{Type: "boolean"}
	case "any", "object", "map[string]any":
		return &jsonschema.Schema{Type: "object"}
	default:
		if len(goType) > 2 && goType[:2] == "[]" {
			return &jsonschema.Schema{
				Type:  "array",
				Items: goTypeToJSONSchema(goType[2:]),
			}
		}

		return &jsonschema.Schema{Type: "string"}
	}
}
