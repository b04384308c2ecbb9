package swagger

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mark3labs/swaggercodec/internal/document"
)

// itemSuffix is appended to the base name of array item definitions.
const itemSuffix = "_def_item"

// extractDefinitions registers the object shapes reachable from every field
// of every link. It must run before any operation is built.
func extractDefinitions(entries []linkEntry, reg *Registry) {
	for _, e := range entries {
		for _, f := range e.Link.Fields {
			extractField(f, reg)
		}
	}
}

func extractField(f document.Field, reg *Registry) {
	switch Classify(f) {
	case document.KindArray:
		if arr, ok := arrayOf(f.Schema); ok {
			extractItems(arr.Items, f.Name, reg)
		}
	case document.KindObject:
		if obj, ok := objectOf(f.Schema); ok {
			reg.Register(objectShape(obj), f.Name)
		}
	}
}

func extractItems(items document.Schema, fieldName string, reg *Registry) {
	if arr, ok := arrayOf(items); ok {
		extractItems(arr.Items, fieldName, reg)
		return
	}
	if obj, ok := objectOf(items); ok {
		reg.Register(objectShape(obj), itemDefinitionName(obj, fieldName))
	}
}

func itemDefinitionName(obj document.Object, fieldName string) string {
	if obj.Title != "" {
		return obj.Title + itemSuffix
	}
	return fieldName + itemSuffix
}

// objectShape flattens an object schema into a definition shape whose
// properties carry only their classified type and an empty description.
// The first nested object property replaces the whole shape: its own shape is
// returned and the remaining siblings are dropped.
func objectShape(obj document.Object) *Schema {
	props := orderedmap.New[string, *Schema]()
	if obj.Properties != nil {
		for pair := obj.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if nested, ok := objectOf(pair.Value); ok {
				return objectShape(nested)
			}
			props.Set(pair.Key, &Schema{
				Type:        string(ClassifySchema(pair.Value)),
				Description: text(""),
			})
		}
	}
	return &Schema{Type: string(document.KindObject), Properties: props}
}
