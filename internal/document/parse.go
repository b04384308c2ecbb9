package document

import (
    "fmt"
    "strings"

    orderedmap "github.com/wk8/go-ordered-map/v2"
    "gopkg.in/yaml.v3"
)

// Parse decodes a coreapi-style document. JSON is accepted as a subset of YAML.
// The document is walked as a yaml.Node tree so that section, link and
// property order is the order written in the source.
//
//  _type: document
//  _meta: {title: Example API, url: https://api.example.com/}
//  users:
//    list:
//      _type: link
//      url: /users/
//      action: get
//      fields:
//        - {name: page, location: query, schema: {_type: integer}}
func Parse(data []byte) (*Document, error) {
    var root yaml.Node
    if err := yaml.Unmarshal(data, &root); err != nil {
        return nil, &LoadError{Code: ParseError, Message: fmt.Sprintf("parse document: %v", err), Cause: err}
    }
    if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
        return nil, &LoadError{Code: ParseError, Message: "parse document: input is empty"}
    }
    top := resolve(root.Content[0])
    if top.Kind != yaml.MappingNode {
        return nil, parseErr("", "top level must be a mapping")
    }

    doc := &Document{Content: NewSection()}
    err := eachPair(top, func(key string, value *yaml.Node) error {
        switch key {
        case "_type":
            if t := scalar(value); t != "" && t != "document" {
                return parseErr("_type", fmt.Sprintf("expected document, got %q", t))
            }
        case "_meta":
            return parseMeta(doc, value)
        default:
            child, err := parseNode(value, key)
            if err != nil {
                return err
            }
            doc.Content.Add(key, child)
        }
        return nil
    })
    if err != nil {
        return nil, err
    }
    return doc, nil
}

func parseMeta(doc *Document, n *yaml.Node) error {
    if n.Kind != yaml.MappingNode {
        return parseErr("_meta", "must be a mapping")
    }
    return eachPair(n, func(key string, value *yaml.Node) error {
        switch key {
        case "title":
            doc.Title = scalar(value)
        case "url":
            doc.URL = scalar(value)
        }
        return nil
    })
}

func parseNode(n *yaml.Node, path string) (Node, error) {
    if n.Kind != yaml.MappingNode {
        return nil, parseErr(path, "expected a link or a section mapping")
    }
    if typeOf(n) == "link" {
        return parseLink(n, path)
    }
    section := NewSection()
    err := eachPair(n, func(key string, value *yaml.Node) error {
        if key == "_type" || key == "_meta" {
            return nil
        }
        child, err := parseNode(value, path+"."+key)
        if err != nil {
            return err
        }
        section.Add(key, child)
        return nil
    })
    if err != nil {
        return nil, err
    }
    return section, nil
}

func parseLink(n *yaml.Node, path string) (*Link, error) {
    link := &Link{}
    err := eachPair(n, func(key string, value *yaml.Node) error {
        switch key {
        case "url":
            link.URL = scalar(value)
        case "action":
            link.Action = scalar(value)
        case "encoding":
            link.Encoding = scalar(value)
        case "description":
            link.Description = scalar(value)
        case "fields":
            if value.Kind != yaml.SequenceNode {
                return parseErr(path+".fields", "must be a list")
            }
            for i, item := range value.Content {
                f, err := parseField(resolve(item), fmt.Sprintf("%s.fields[%d]", path, i))
                if err != nil {
                    return err
                }
                link.Fields = append(link.Fields, f)
            }
        }
        return nil
    })
    if err != nil {
        return nil, err
    }
    return link, nil
}

func parseField(n *yaml.Node, path string) (Field, error) {
    var f Field
    if n.Kind != yaml.MappingNode {
        return f, parseErr(path, "field must be a mapping")
    }
    err := eachPair(n, func(key string, value *yaml.Node) error {
        switch key {
        case "name":
            f.Name = scalar(value)
        case "required":
            var b bool
            if err := value.Decode(&b); err != nil {
                return parseErr(path+".required", err.Error())
            }
            f.Required = b
        case "location":
            f.Location = Location(strings.ToLower(scalar(value)))
        case "description":
            f.Description = scalar(value)
        case "type":
            f.Type = scalar(value)
        case "schema":
            s, err := parseSchema(value, path+".schema")
            if err != nil {
                return err
            }
            f.Schema = s
        }
        return nil
    })
    return f, err
}

func parseSchema(n *yaml.Node, path string) (Schema, error) {
    if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
        return nil, nil
    }
    if n.Kind != yaml.MappingNode {
        return nil, parseErr(path, "schema must be a mapping")
    }
    var (
        title, desc string
        items       Schema
        props       *orderedmap.OrderedMap[string, Schema]
    )
    err := eachPair(n, func(key string, value *yaml.Node) error {
        switch key {
        case "title":
            title = scalar(value)
        case "description":
            desc = scalar(value)
        case "items":
            s, err := parseSchema(value, path+".items")
            if err != nil {
                return err
            }
            items = s
        case "properties":
            if value.Kind != yaml.MappingNode {
                return parseErr(path+".properties", "must be a mapping")
            }
            props = orderedmap.New[string, Schema]()
            return eachPair(value, func(name string, pv *yaml.Node) error {
                s, err := parseSchema(pv, path+".properties."+name)
                if err != nil {
                    return err
                }
                props.Set(name, s)
                return nil
            })
        }
        return nil
    })
    if err != nil {
        return nil, err
    }

    switch typeOf(n) {
    case "string", "enum":
        return String{Description: desc}, nil
    case "integer":
        return Integer{Description: desc}, nil
    case "number":
        return Number{Description: desc}, nil
    case "boolean":
        return Boolean{Description: desc}, nil
    case "array":
        return Array{Description: desc, Items: items}, nil
    case "object":
        if props == nil {
            props = orderedmap.New[string, Schema]()
        }
        return Object{Title: title, Description: desc, Properties: props}, nil
    default:
        return Anything{Description: desc}, nil
    }
}

// typeOf reads the "_type" discriminator, falling back to "type".
func typeOf(n *yaml.Node) string {
    var fallback string
    for i := 0; i+1 < len(n.Content); i += 2 {
        switch n.Content[i].Value {
        case "_type":
            return strings.ToLower(scalar(n.Content[i+1]))
        case "type":
            fallback = strings.ToLower(scalar(n.Content[i+1]))
        }
    }
    return fallback
}

func eachPair(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
    for i := 0; i+1 < len(n.Content); i += 2 {
        if err := fn(n.Content[i].Value, resolve(n.Content[i+1])); err != nil {
            return err
        }
    }
    return nil
}

func resolve(n *yaml.Node) *yaml.Node {
    for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
        n = n.Alias
    }
    return n
}

func scalar(n *yaml.Node) string {
    if n == nil || n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
        return ""
    }
    return n.Value
}

func parseErr(path, msg string) error {
    m := "parse document: " + msg
    if path != "" {
        m = fmt.Sprintf("parse document: %s: %s", path, msg)
    }
    return &LoadError{Code: ParseError, Message: m, Path: path}
}
