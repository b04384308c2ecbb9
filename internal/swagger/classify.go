package swagger

import (
	"reflect"
	"strings"

	"github.com/mark3labs/swaggercodec/internal/document"
)

// Classify resolves the Swagger primitive type of a field. A field without a
// schema falls back to its legacy type attribute; anything unrecognised is a
// string.
func Classify(f document.Field) document.Kind {
	if isNilSchema(f.Schema) {
		if k := document.ParseKind(strings.ToLower(strings.TrimSpace(f.Type))); k != "" {
			return k
		}
		return document.KindString
	}
	return ClassifySchema(f.Schema)
}

// ClassifySchema resolves the primitive type of a value schema.
func ClassifySchema(s document.Schema) document.Kind {
	if isNilSchema(s) {
		return document.KindString
	}
	if k := s.Kind(); k != "" {
		return k
	}
	return document.KindString
}

// Describe returns the legacy field description when set, else the schema's
// own description, else "".
func Describe(f document.Field) string {
	if f.Description != "" {
		return f.Description
	}
	if !isNilSchema(f.Schema) {
		return f.Schema.Describe()
	}
	return ""
}

// isNilSchema reports a nil interface or a nil pointer variant such as
// (*document.Array)(nil).
func isNilSchema(s document.Schema) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func arrayOf(s document.Schema) (document.Array, bool) {
	switch v := s.(type) {
	case document.Array:
		return v, true
	case *document.Array:
		if v != nil {
			return *v, true
		}
	}
	return document.Array{}, false
}

func objectOf(s document.Schema) (document.Object, bool) {
	switch v := s.(type) {
	case document.Object:
		return v, true
	case *document.Object:
		if v != nil {
			return *v, true
		}
	}
	return document.Object{}, false
}
