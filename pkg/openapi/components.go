package openapi

import (
	"encoding/json"
	"maps"
)

// Components holds reusable schema and response definitions.
type Components struct {
	Schemas   map[string]*Schema   `json:"schemas,omitempty"`
	Responses map[string]*Response `json:"responses,omitempty"`
}

// NewComponents creates Components pre-populated with the shared error responses.
func NewComponents() *Components {
	errorBody := map[string]*MediaType{
		"application/json": {Schema: SchemaRef("Error")},
	}

	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":  {Description: "Invalid request", Content: errorBody},
			"NotFound":    {Description: "Resource not found", Content: errorBody},
			"Conflict":    {Description: "Resource not in a usable state", Content: errorBody},
			"Gone":        {Description: "Resource closed", Content: errorBody},
			"BadGateway":  {Description: "Upstream failure", Content: errorBody},
			"ServerError": {Description: "Internal error", Content: errorBody},
		},
	}
}

// AddSchemas merges schemas into the component set, replacing duplicates.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// MarshalJSON renders spec as indented JSON.
func MarshalJSON(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}
