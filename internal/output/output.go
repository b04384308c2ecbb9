// Package output renders a generated Swagger document and writes it to disk.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swaggercodec/internal/swagger"
)

// Format selects the serialization of the rendered document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultIndent is used when Render is given a non-positive indent for YAML.
const DefaultIndent = 2

// ResolveFormat returns the explicit format when set, otherwise infers it
// from the output path's extension. JSON is the fallback.
func ResolveFormat(explicit, path string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(explicit)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "":
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", explicit)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return FormatJSON, nil
}

// Render serializes doc. For JSON an indent of 0 produces compact output.
// The result always ends with a newline.
func Render(doc *swagger.Swagger, format Format, indent int) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("output: nil document")
	}
	switch format {
	case FormatJSON, "":
		var (
			data []byte
			err  error
		)
		if indent > 0 {
			data, err = json.MarshalIndent(doc, "", strings.Repeat(" ", indent))
		} else {
			data, err = json.Marshal(doc)
		}
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		if indent <= 0 {
			indent = DefaultIndent
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(indent)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("output: unknown format %q", format)
}

// WriteOptions controls how Write touches the filesystem.
type WriteOptions struct {
	Force  bool // overwrite an existing file
	DryRun bool // don't write, only plan
}

// PlannedFile describes the file Write produced or would produce.
type PlannedFile struct {
	Path    string
	Size    int
	Mode    os.FileMode
	Exists  bool
	Written bool
}

// Write stores data at path atomically via a temp file and rename. An
// existing file is only replaced with Force; a dry run performs the same
// checks but leaves the filesystem untouched.
func Write(path string, data []byte, opts WriteOptions) (*PlannedFile, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("output: path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve output path: %w", err)
	}
	plan := &PlannedFile{Path: abs, Size: len(data), Mode: 0o644}

	if st, err := os.Stat(abs); err == nil {
		if st.IsDir() {
			return nil, fmt.Errorf("output: %q is a directory", abs)
		}
		plan.Exists = true
		if !opts.Force {
			return nil, fmt.Errorf("output: file %q already exists (use --force to overwrite)", abs)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}
	if opts.DryRun {
		return plan, nil
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	tmp := abs + ".tmp-" + time.Now().Format("20060102150405")
	if err := os.WriteFile(tmp, data, plan.Mode); err != nil {
		return nil, fmt.Errorf("write temp %s: %w", filepath.Base(abs), err)
	}
	if err := os.Rename(tmp, abs); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("rename %s: %w", filepath.Base(abs), err)
	}
	plan.Written = true
	return plan, nil
}
