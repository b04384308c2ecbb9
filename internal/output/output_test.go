package output

import (
    "encoding/json"
    "errors"
    "os"
    "path/filepath"
    "strings"
    "testing"

    orderedmap "github.com/wk8/go-ordered-map/v2"

    "github.com/mark3labs/swaggercodec/internal/document"
    "github.com/mark3labs/swaggercodec/internal/swagger"
)

func sampleSwagger(t *testing.T) *swagger.Swagger {
    t.Helper()
    content := document.NewSection().
        Add("users", document.NewSection().
            Add("list", &document.Link{URL: "/users/", Fields: []document.Field{
                {Name: "page", Location: document.LocationQuery, Schema: document.Integer{}},
            }}).
            Add("create", &document.Link{URL: "/users/", Action: "post", Fields: []document.Field{
                {Name: "profile", Required: true, Schema: document.NewObject(
                    document.Property{Name: "age", Schema: document.Integer{}},
                )},
            }}))
    doc := &document.Document{Title: "Users", URL: "https://api.example.com/", Content: content}
    out, err := swagger.Generate(doc, swagger.WithSuffixFunc(swagger.CounterSuffix()))
    if err != nil {
        t.Fatalf("generate: %v", err)
    }
    return out
}

func TestResolveFormat(t *testing.T) {
    t.Parallel()
    cases := []struct {
        explicit, path string
        want           Format
    }{
        {"", "", FormatJSON},
        {"", "api.yaml", FormatYAML},
        {"", "API.YML", FormatYAML},
        {"", "api.json", FormatJSON},
        {"JSON", "api.yaml", FormatJSON},
        {"yml", "", FormatYAML},
    }
    for _, tc := range cases {
        got, err := ResolveFormat(tc.explicit, tc.path)
        if err != nil {
            t.Fatalf("ResolveFormat(%q, %q): %v", tc.explicit, tc.path, err)
        }
        if got != tc.want {
            t.Fatalf("ResolveFormat(%q, %q) = %q, want %q", tc.explicit, tc.path, got, tc.want)
        }
    }
    if _, err := ResolveFormat("xml", ""); err == nil {
        t.Fatalf("expected error for unknown format")
    }
}

func TestRender_JSONKeepsOrder(t *testing.T) {
    t.Parallel()
    data, err := Render(sampleSwagger(t), FormatJSON, 2)
    if err != nil {
        t.Fatalf("render: %v", err)
    }
    s := string(data)
    if !strings.HasSuffix(s, "}\n") {
        t.Fatalf("expected trailing newline")
    }
    var v map[string]any
    if err := json.Unmarshal(data, &v); err != nil {
        t.Fatalf("invalid json: %v", err)
    }
    // Top-level keys follow the struct order; definitions precede paths.
    order := []string{`"swagger"`, `"info"`, `"host"`, `"schemes"`, `"definitions"`, `"paths"`}
    last := -1
    for _, k := range order {
        i := strings.Index(s, k)
        if i < 0 || i < last {
            t.Fatalf("key %s missing or out of order in:\n%s", k, s)
        }
        last = i
    }
    if !strings.Contains(s, "\n  \"info\"") {
        t.Fatalf("expected two-space indent:\n%s", s)
    }
    if strings.Index(s, `"get"`) > strings.Index(s, `"post"`) {
        t.Fatalf("expected get before post")
    }
}

func TestRender_CompactJSON(t *testing.T) {
    t.Parallel()
    data, err := Render(sampleSwagger(t), FormatJSON, 0)
    if err != nil {
        t.Fatalf("render: %v", err)
    }
    if strings.Count(string(data), "\n") != 1 {
        t.Fatalf("expected single line output, got:\n%s", data)
    }
}

func TestRender_YAML(t *testing.T) {
    t.Parallel()
    data, err := Render(sampleSwagger(t), FormatYAML, 0)
    if err != nil {
        t.Fatalf("render: %v", err)
    }
    s := string(data)
    if !strings.HasPrefix(s, "swagger: \"2.0\"\n") {
        t.Fatalf("unexpected yaml head:\n%s", s)
    }
    if !strings.Contains(s, "$ref: '#/definitions/profile'") {
        t.Fatalf("expected definition ref in yaml:\n%s", s)
    }
    if _, err := Check(data); err != nil {
        t.Fatalf("check yaml: %v", err)
    }
}

func TestRender_Errors(t *testing.T) {
    t.Parallel()
    if _, err := Render(nil, FormatJSON, 2); err == nil {
        t.Fatalf("expected error for nil document")
    }
    if _, err := Render(sampleSwagger(t), Format("toml"), 2); err == nil {
        t.Fatalf("expected error for unknown format")
    }
}

func TestCheck_Summary(t *testing.T) {
    t.Parallel()
    data, err := Render(sampleSwagger(t), FormatJSON, 2)
    if err != nil {
        t.Fatalf("render: %v", err)
    }
    sum, err := Check(data)
    if err != nil {
        t.Fatalf("check: %v", err)
    }
    if sum.Title != "Users" || sum.Paths != 1 || sum.Operations != 2 || sum.Definitions != 1 {
        t.Fatalf("unexpected summary: %+v", sum)
    }
}

func TestCheck_DanglingRef(t *testing.T) {
    t.Parallel()
    doc := sampleSwagger(t)
    doc.Definitions = orderedmap.New[string, *swagger.Schema]()
    data, err := Render(doc, FormatJSON, 0)
    if err != nil {
        t.Fatalf("render: %v", err)
    }
    _, err = Check(data)
    if !errors.Is(err, ErrDanglingRef) {
        t.Fatalf("expected ErrDanglingRef, got %v", err)
    }
    if !strings.Contains(err.Error(), "#/definitions/profile") {
        t.Fatalf("expected ref in message, got %v", err)
    }
}

func TestCheck_WrongVersion(t *testing.T) {
    t.Parallel()
    if _, err := Check([]byte(`{"swagger": "3.0", "info": {"title": "x", "version": ""}, "paths": {}}`)); err == nil {
        t.Fatalf("expected version error")
    }
    if _, err := Check([]byte("swagger: [")); err == nil {
        t.Fatalf("expected parse error")
    }
}

func TestWrite_DryRun(t *testing.T) {
    t.Parallel()
    path := filepath.Join(t.TempDir(), "out", "swagger.json")
    plan, err := Write(path, []byte("{}\n"), WriteOptions{DryRun: true})
    if err != nil {
        t.Fatalf("write: %v", err)
    }
    if plan.Written || plan.Size != 3 || plan.Path != path {
        t.Fatalf("unexpected plan: %+v", plan)
    }
    if _, err := os.Stat(filepath.Dir(path)); !os.IsNotExist(err) {
        t.Fatalf("dry run must not create directories")
    }
}

func TestWrite_CreatesAndRefusesOverwrite(t *testing.T) {
    t.Parallel()
    dir := t.TempDir()
    path := filepath.Join(dir, "nested", "swagger.yaml")
    if _, err := Write(path, []byte("a: 1\n"), WriteOptions{}); err != nil {
        t.Fatalf("write: %v", err)
    }
    got, err := os.ReadFile(path)
    if err != nil || string(got) != "a: 1\n" {
        t.Fatalf("read back: %q %v", got, err)
    }

    if _, err := Write(path, []byte("a: 2\n"), WriteOptions{}); err == nil {
        t.Fatalf("expected error without force")
    }
    plan, err := Write(path, []byte("a: 2\n"), WriteOptions{Force: true})
    if err != nil {
        t.Fatalf("force write: %v", err)
    }
    if !plan.Exists || !plan.Written {
        t.Fatalf("unexpected plan: %+v", plan)
    }
    got, _ = os.ReadFile(path)
    if string(got) != "a: 2\n" {
        t.Fatalf("expected overwritten content, got %q", got)
    }

    entries, _ := os.ReadDir(filepath.Dir(path))
    if len(entries) != 1 {
        t.Fatalf("expected temp files to be cleaned up, found %d entries", len(entries))
    }
}

func TestWrite_RejectsDirectory(t *testing.T) {
    t.Parallel()
    if _, err := Write(t.TempDir(), []byte("x"), WriteOptions{Force: true}); err == nil {
        t.Fatalf("expected error when target is a directory")
    }
    if _, err := Write(" ", []byte("x"), WriteOptions{}); err == nil {
        t.Fatalf("expected error for empty path")
    }
}
