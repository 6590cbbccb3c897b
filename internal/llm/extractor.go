package llm

import (
	"fmt"
	"strings"
)

// ResponseSchema describes the JSON document a prompt asks the model to return.
type ResponseSchema struct {
	Name   string        // Schema name (e.g., "Hero", "Features")
	Array  bool          // Whether the response is an array of objects with Fields
	Count  int           // Expected array length, zero when unconstrained
	Fields []SchemaField // Expected output fields
}

// SchemaField defines a single field in the response.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[\"string\"]", "number"
	Description string // Description for the model
	Required    bool
}

// BuildJSONPrompt appends the output contract for schema to instructions.
func BuildJSONPrompt(instructions string, schema ResponseSchema) string {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(instructions))
	sb.WriteString("\n\n")

	if schema.Array {
		if schema.Count > 0 {
			sb.WriteString(fmt.Sprintf("Return ONLY a valid JSON array of exactly %d objects, each with this structure:\n{\n", schema.Count))
		} else {
			sb.WriteString("Return ONLY a valid JSON array of objects, each with this structure:\n{\n")
		}
	} else {
		sb.WriteString("Return ONLY a valid JSON object with this exact structure:\n{\n")
	}

	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  %q: %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Return ONLY the JSON, no markdown, no explanation, no code blocks.\n")

	return sb.String()
}
