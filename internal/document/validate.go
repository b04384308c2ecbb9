package document

import (
    "errors"
    "fmt"

    validation "github.com/go-ozzo/ozzo-validation/v4"
    "github.com/go-ozzo/ozzo-validation/v4/is"
)

// FieldPathError locates a validation failure inside the link namespace.
type FieldPathError struct {
    Path string
    Err  error
}

func (e *FieldPathError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *FieldPathError) Unwrap() error { return e.Err }

// Validate checks the structural rules the encoder relies on: every link has
// a URL, every field has a name that is unique within its link and a known
// location, and the base URL is URL-shaped when present. Schemas are not
// checked; the encoder degrades unknown shapes to strings.
func Validate(doc *Document) error {
    if doc == nil {
        return errors.New("nil document")
    }
    err := validation.ValidateStruct(doc,
        validation.Field(&doc.URL, is.URL),
    )
    if err != nil {
        return &FieldPathError{Path: "_meta", Err: err}
    }
    if doc.Content == nil {
        return nil
    }
    return validateSection(doc.Content, "")
}

func validateSection(s *Section, prefix string) error {
    for pair := s.Content.Oldest(); pair != nil; pair = pair.Next() {
        path := pair.Key
        if prefix != "" {
            path = prefix + "." + pair.Key
        }
        switch n := pair.Value.(type) {
        case *Link:
            if err := n.Validate(); err != nil {
                return &FieldPathError{Path: path, Err: err}
            }
        case *Section:
            if err := validateSection(n, path); err != nil {
                return err
            }
        case nil:
            return &FieldPathError{Path: path, Err: errors.New("empty entry")}
        }
    }
    return nil
}

// Validate implements validation.Validatable.
func (l *Link) Validate() error {
    return validation.ValidateStruct(l,
        validation.Field(&l.URL, validation.Required),
        validation.Field(&l.Fields, validation.By(uniqueFieldNames)),
    )
}

// Validate implements validation.Validatable.
func (f Field) Validate() error {
    return validation.ValidateStruct(&f,
        validation.Field(&f.Name, validation.Required),
        validation.Field(&f.Location, validation.In(
            LocationPath, LocationQuery, LocationForm, LocationBody, LocationHeader,
        ).Error("must be one of path, query, form, body, header")),
    )
}

func uniqueFieldNames(value interface{}) error {
    fields, _ := value.([]Field)
    seen := make(map[string]struct{}, len(fields))
    for _, f := range fields {
        if f.Name == "" {
            continue
        }
        if _, dup := seen[f.Name]; dup {
            return fmt.Errorf("duplicate field name %q", f.Name)
        }
        seen[f.Name] = struct{}{}
    }
    return nil
}
