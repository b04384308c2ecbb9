package swagger

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mark3labs/swaggercodec/internal/document"
)

const (
	encodingMultipart  = "multipart/form-data"
	encodingURLEncoded = "application/x-www-form-urlencoded"
	encodingOctet      = "application/octet-stream"

	// formBodyName names the body parameter that collects form fields sent
	// with a non-form encoding.
	formBodyName = "data"
)

// buildParameters maps the link's fields to parameters in field order. Form
// fields that cannot travel as formData are collected into one body
// parameter appended last.
func buildParameters(link *document.Link, encoding string, reg *Registry) []*Parameter {
	params := make([]*Parameter, 0, len(link.Fields))
	var form *Schema

	for _, f := range link.Fields {
		typ := Classify(f)
		desc := Describe(f)

		switch loc := link.ResolveLocation(f); loc {
		case document.LocationForm:
			if encoding == encodingMultipart || encoding == encodingURLEncoded {
				// formData is only valid with these two media types.
				params = append(params, simpleParameter(f, "formData", typ, desc))
				continue
			}
			if form == nil {
				form = &Schema{
					Type:       string(document.KindObject),
					Properties: orderedmap.New[string, *Schema](),
				}
			}
			form.Properties.Set(f.Name, formProperty(f, typ, desc, reg))
			if f.Required {
				form.Required = append(form.Required, f.Name)
			}
		case document.LocationBody:
			schema := &Schema{}
			if encoding == encodingOctet {
				schema = &Schema{Type: string(document.KindString), Format: "binary"}
			}
			params = append(params, &Parameter{
				Name:        f.Name,
				In:          string(document.LocationBody),
				Required:    flag(f.Required),
				Description: text(desc),
				Schema:      schema,
			})
		default:
			params = append(params, simpleParameter(f, string(loc), typ, desc))
		}
	}

	if form != nil {
		params = append(params, &Parameter{
			Name:   formBodyName,
			In:     string(document.LocationBody),
			Schema: form,
		})
	}
	return params
}

// simpleParameter builds a non-body parameter. Array item types are not
// carried over; items are always strings.
func simpleParameter(f document.Field, in string, typ document.Kind, desc string) *Parameter {
	p := &Parameter{
		Name:        f.Name,
		In:          in,
		Required:    flag(f.Required),
		Description: text(desc),
		Type:        string(typ),
	}
	if typ == document.KindArray {
		p.Items = &Schema{Type: string(document.KindString)}
	}
	return p
}

func formProperty(f document.Field, typ document.Kind, desc string, reg *Registry) *Schema {
	switch typ {
	case document.KindObject:
		if obj, ok := objectOf(f.Schema); ok {
			if name, found := reg.Lookup(objectShape(obj)); found {
				return refTo(name)
			}
		}
	case document.KindArray:
		var items document.Schema
		if arr, ok := arrayOf(f.Schema); ok {
			items = arr.Items
		}
		return &Schema{
			Type:        string(document.KindArray),
			Description: text(desc),
			Items:       itemSchema(items, reg),
		}
	}
	return &Schema{Type: string(typ), Description: text(desc)}
}

// itemSchema renders the items of a form array property. Object items refer
// to the definition registered for their shape.
func itemSchema(s document.Schema, reg *Registry) *Schema {
	if isNilSchema(s) || s.Kind() == "" {
		return &Schema{}
	}
	if arr, ok := arrayOf(s); ok {
		return &Schema{Type: string(document.KindArray), Items: itemSchema(arr.Items, reg)}
	}
	if obj, ok := objectOf(s); ok {
		if name, found := reg.Lookup(objectShape(obj)); found {
			return refTo(name)
		}
		return &Schema{Type: string(document.KindObject)}
	}
	return &Schema{Type: string(s.Kind())}
}
