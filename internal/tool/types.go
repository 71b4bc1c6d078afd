package tool

import (
	"encoding/json"
)

// Type represents JSON Schema types.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Schema represents a JSON Schema for tool parameters.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Declaration declares a tool's name, description and input shape.
type Declaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// InputSchema renders the parameters as a generic JSON Schema object.
// A declaration without parameters accepts an empty object.
func (d Declaration) InputSchema() map[string]any {
	if d.Parameters == nil {
		return map[string]any{"type": string(TypeObject)}
	}
	out := schemaToMap(d.Parameters)
	if _, ok := out["type"]; !ok {
		out["type"] = string(TypeObject)
	}
	return out
}

// Properties returns the top-level properties as generic maps.
func (d Declaration) Properties() map[string]any {
	if d.Parameters == nil || len(d.Parameters.Properties) == 0 {
		return nil
	}
	props := make(map[string]any, len(d.Parameters.Properties))
	for name, prop := range d.Parameters.Properties {
		props[name] = schemaToMap(prop)
	}
	return props
}

// Required returns the names of the required top-level properties.
func (d Declaration) Required() []string {
	if d.Parameters == nil {
		return nil
	}
	return d.Parameters.Required
}

// SchemaFromMap converts a generic JSON Schema object into a Schema.
// Unknown keywords are dropped.
func SchemaFromMap(raw any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Type == "" {
		s.Type = TypeObject
	}
	return &s, nil
}

func schemaToMap(s *Schema) map[string]any {
	out := map[string]any{}
	if s == nil {
		return out
	}
	if s.Type != "" {
		out["type"] = string(s.Type)
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = schemaToMap(prop)
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = append([]string(nil), s.Required...)
	}
	if s.Items != nil {
		out["items"] = schemaToMap(s.Items)
	}
	if len(s.Enum) > 0 {
		out["enum"] = append([]string(nil), s.Enum...)
	}
	return out
}
