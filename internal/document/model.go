package document

import (
    "strings"

    orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Source document model consumed by the swagger encoder.

type Location string

const (
    LocationPath   Location = "path"
    LocationQuery  Location = "query"
    LocationForm   Location = "form"
    LocationBody   Location = "body"
    LocationHeader Location = "header"
)

type Document struct {
    Title   string
    URL     string
    Content *Section
}

// Node is either a *Link or a nested *Section.
type Node interface {
    isNode()
}

// Section is one level of the link namespace. Entries keep insertion order.
type Section struct {
    Content *orderedmap.OrderedMap[string, Node]
}

func (*Section) isNode() {}

func NewSection() *Section {
    return &Section{Content: orderedmap.New[string, Node]()}
}

// Add appends a child under name and returns the section for chaining.
func (s *Section) Add(name string, n Node) *Section {
    s.Content.Set(name, n)
    return s
}

type Link struct {
    URL         string
    Action      string
    Encoding    string
    Description string
    Fields      []Field
}

func (*Link) isNode() {}

// Method is the lower-cased action; an empty action means GET.
func (l *Link) Method() string {
    m := strings.ToLower(strings.TrimSpace(l.Action))
    if m == "" {
        return "get"
    }
    return m
}

// ResolveLocation returns the field's declared location, or the implied one
// when the field leaves it empty: query for get/delete links, form otherwise.
func (l *Link) ResolveLocation(f Field) Location {
    if f.Location != "" {
        return f.Location
    }
    switch l.Method() {
    case "get", "delete":
        return LocationQuery
    }
    return LocationForm
}

// ResolveEncoding returns the media type the link's payload is sent with.
// Links carrying form/body fields default to application/json; an encoding
// declared on a link without any payload field is dropped.
func (l *Link) ResolveEncoding() string {
    hasBody := false
    for _, f := range l.Fields {
        switch l.ResolveLocation(f) {
        case LocationForm, LocationBody:
            hasBody = true
        }
    }
    enc := strings.TrimSpace(l.Encoding)
    if enc == "" && hasBody {
        return "application/json"
    }
    if enc != "" && !hasBody {
        return ""
    }
    return enc
}

// Field is one parameter of a link. Description and Type are the legacy flat
// attributes some producers still emit instead of a Schema.
type Field struct {
    Name        string
    Required    bool
    Location    Location
    Schema      Schema
    Description string
    Type        string
}
