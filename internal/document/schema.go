package document

import (
    orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind is the primitive tag of a value schema.
type Kind string

const (
    KindString  Kind = "string"
    KindInteger Kind = "integer"
    KindNumber  Kind = "number"
    KindBoolean Kind = "boolean"
    KindArray   Kind = "array"
    KindObject  Kind = "object"
)

// Schema is the value schema of a field. The set of implementations is closed:
// String, Integer, Number, Boolean, Array, Object and Anything.
type Schema interface {
    // Kind is empty for shapes that carry no type information.
    Kind() Kind
    Describe() string
    isSchema()
}

type String struct{ Description string }
type Integer struct{ Description string }
type Number struct{ Description string }
type Boolean struct{ Description string }

type Array struct {
    Description string
    Items       Schema // nil when items are unconstrained
}

type Object struct {
    Title       string
    Description string
    Properties  *orderedmap.OrderedMap[string, Schema]
}

// Anything is a schema with no recognised type.
type Anything struct{ Description string }

func (String) Kind() Kind   { return KindString }
func (Integer) Kind() Kind  { return KindInteger }
func (Number) Kind() Kind   { return KindNumber }
func (Boolean) Kind() Kind  { return KindBoolean }
func (Array) Kind() Kind    { return KindArray }
func (Object) Kind() Kind   { return KindObject }
func (Anything) Kind() Kind { return "" }

func (s String) Describe() string   { return s.Description }
func (s Integer) Describe() string  { return s.Description }
func (s Number) Describe() string   { return s.Description }
func (s Boolean) Describe() string  { return s.Description }
func (s Array) Describe() string    { return s.Description }
func (s Object) Describe() string   { return s.Description }
func (s Anything) Describe() string { return s.Description }

func (String) isSchema()   {}
func (Integer) isSchema()  {}
func (Number) isSchema()   {}
func (Boolean) isSchema()  {}
func (Array) isSchema()    {}
func (Object) isSchema()   {}
func (Anything) isSchema() {}

// NewObject builds an Object from name/schema pairs, keeping their order.
func NewObject(pairs ...Property) Object {
    props := orderedmap.New[string, Schema](len(pairs))
    for _, p := range pairs {
        props.Set(p.Name, p.Schema)
    }
    return Object{Properties: props}
}

type Property struct {
    Name   string
    Schema Schema
}

// ParseKind maps a type name to its Kind; unknown names map to the empty Kind.
func ParseKind(s string) Kind {
    switch Kind(s) {
    case KindString, KindInteger, KindNumber, KindBoolean, KindArray, KindObject:
        return Kind(s)
    }
    return ""
}
