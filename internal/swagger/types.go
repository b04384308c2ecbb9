package swagger

import (
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Version is the value of the top-level "swagger" key.
const Version = "2.0"

// Swagger is the root of a generated Swagger 2.0 document. Paths and
// Definitions keep insertion order under both JSON and YAML encoding.
type Swagger struct {
	Swagger     string                                     `json:"swagger" yaml:"swagger"`
	Info        Info                                       `json:"info" yaml:"info"`
	Host        string                                     `json:"host,omitempty" yaml:"host,omitempty"`
	Schemes     []string                                   `json:"schemes,omitempty" yaml:"schemes,omitempty"`
	Definitions *orderedmap.OrderedMap[string, *Schema]    `json:"definitions" yaml:"definitions"`
	Paths       *orderedmap.OrderedMap[string, *PathItem] `json:"paths" yaml:"paths"`
}

type Info struct {
	Title   string `json:"title" yaml:"title"`
	Version string `json:"version" yaml:"version"`
}

// PathItem maps lower-case HTTP methods to operations.
type PathItem = orderedmap.OrderedMap[string, *Operation]

type Operation struct {
	OperationID string               `json:"operationId" yaml:"operationId"`
	Summary     string               `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string             `json:"tags,omitempty" yaml:"tags,omitempty"`
	Consumes    []string             `json:"consumes,omitempty" yaml:"consumes,omitempty"`
	Parameters  []*Parameter         `json:"parameters" yaml:"parameters"`
	Responses   map[string]*Response `json:"responses" yaml:"responses"`
}

type Response struct {
	Description string `json:"description" yaml:"description"`
}

// Parameter is a Swagger parameter object. Required and Description are
// pointers because regular parameters always carry them, even when false or
// empty, while the synthetic form body parameter carries neither.
type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	In          string  `json:"in" yaml:"in"`
	Required    *bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string  `json:"type,omitempty" yaml:"type,omitempty"`
	Items       *Schema `json:"items,omitempty" yaml:"items,omitempty"`
	Schema      *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Schema is the subset of the Swagger schema object the encoder emits. A nil
// Description is omitted; a pointer to "" is emitted as an empty string.
type Schema struct {
	Ref         string                                  `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type        string                                  `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string                                  `json:"format,omitempty" yaml:"format,omitempty"`
	Description *string                                 `json:"description,omitempty" yaml:"description,omitempty"`
	Items       *Schema                                 `json:"items,omitempty" yaml:"items,omitempty"`
	Properties  *orderedmap.OrderedMap[string, *Schema] `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required    []string                                `json:"required,omitempty" yaml:"required,omitempty"`
}

// Equal reports structural equality. Property order is not significant.
func (s *Schema) Equal(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Ref != o.Ref || s.Type != o.Type || s.Format != o.Format {
		return false
	}
	if (s.Description == nil) != (o.Description == nil) {
		return false
	}
	if s.Description != nil && *s.Description != *o.Description {
		return false
	}
	if !s.Items.Equal(o.Items) || !slices.Equal(s.Required, o.Required) {
		return false
	}
	if propLen(s) != propLen(o) {
		return false
	}
	if s.Properties == nil {
		return true
	}
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		other, ok := o.Properties.Get(pair.Key)
		if !ok || !pair.Value.Equal(other) {
			return false
		}
	}
	return true
}

func propLen(s *Schema) int {
	if s.Properties == nil {
		return 0
	}
	return s.Properties.Len()
}

// Operation returns the operation registered for path and method, or nil.
func (s *Swagger) Operation(path, method string) *Operation {
	if s == nil || s.Paths == nil {
		return nil
	}
	item, ok := s.Paths.Get(path)
	if !ok {
		return nil
	}
	op, _ := item.Get(method)
	return op
}

// DefinitionRef is the JSON reference to a named definition.
func DefinitionRef(name string) string { return "#/definitions/" + name }

func refTo(name string) *Schema { return &Schema{Ref: DefinitionRef(name)} }

func text(s string) *string { return &s }

func flag(b bool) *bool { return &b }
