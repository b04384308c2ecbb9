package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	openapi2 "github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swaggercodec/internal/swagger"
)

// ErrDanglingRef is returned by Check when a $ref names a missing definition.
var ErrDanglingRef = errors.New("reference to undefined definition")

// Summary describes a rendered document as read back by kin-openapi.
type Summary struct {
	Title       string
	Paths       int
	Operations  int
	Definitions int
}

// Check decodes rendered output (JSON or YAML) as a Swagger 2.0 document and
// verifies that every definition reference resolves.
func Check(data []byte) (*Summary, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("check: parse: %w", err)
	}
	js, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	var doc openapi2.T
	if err := json.Unmarshal(js, &doc); err != nil {
		return nil, fmt.Errorf("check: decode swagger: %w", err)
	}
	if doc.Swagger != swagger.Version {
		return nil, fmt.Errorf("check: unexpected swagger version %q", doc.Swagger)
	}

	sum := &Summary{Title: doc.Info.Title, Paths: len(doc.Paths), Definitions: len(doc.Definitions)}
	var dangling []string
	seen := map[string]bool{}
	visit := func(ref string) {
		name := strings.TrimPrefix(ref, "#/definitions/")
		if _, ok := doc.Definitions[name]; !ok && !seen[ref] {
			seen[ref] = true
			dangling = append(dangling, ref)
		}
	}
	for _, def := range doc.Definitions {
		walkRefs(def, visit)
	}
	for _, item := range doc.Paths {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			sum.Operations++
			for _, p := range op.Parameters {
				if p == nil {
					continue
				}
				walkRefs(p.Schema, visit)
				walkRefs(p.Items, visit)
			}
		}
	}
	if len(dangling) > 0 {
		sort.Strings(dangling)
		return sum, fmt.Errorf("check: %w: %s", ErrDanglingRef, strings.Join(dangling, ", "))
	}
	return sum, nil
}

func walkRefs(s *openapi3.SchemaRef, visit func(string)) {
	if s == nil {
		return
	}
	if s.Ref != "" {
		visit(s.Ref)
		return
	}
	if s.Value == nil {
		return
	}
	walkRefs(s.Value.Items, visit)
	for _, p := range s.Value.Properties {
		walkRefs(p, visit)
	}
}
