// Package swagger encodes a link document into a Swagger 2.0 document.
//
// Generation runs in three passes over the flattened link namespace: operation
// ids and tags are resolved first, then every object schema reachable from a
// field is hoisted into the definitions registry, and finally each link is
// turned into an operation whose parameters refer to those definitions.
package swagger

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mark3labs/swaggercodec/internal/document"
)

// ErrDuplicateOperationID is returned in strict mode when operation ids still
// collide after tag prefixing.
var ErrDuplicateOperationID = errors.New("duplicate operation id")

// Option configures Generate.
type Option func(*config)

type config struct {
	suffix      SuffixFunc
	logger      *slog.Logger
	strict      bool
	includeTags map[string]struct{}
	excludeTags map[string]struct{}
}

// WithSuffixFunc replaces the random suffix used to rename clashing
// definitions, e.g. with CounterSuffix for stable output.
func WithSuffixFunc(fn SuffixFunc) Option {
	return func(c *config) { c.suffix = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithStrictOperationIDs makes Generate fail instead of emitting duplicate
// operation ids between untagged links.
func WithStrictOperationIDs(strict bool) Option {
	return func(c *config) { c.strict = strict }
}

// WithIncludeTags keeps only links whose top-level section is one of tags.
// Untagged links are dropped when an include list is set.
func WithIncludeTags(tags []string) Option {
	return func(c *config) { c.includeTags = addTags(c.includeTags, tags) }
}

// WithExcludeTags drops links whose top-level section is one of tags.
func WithExcludeTags(tags []string) Option {
	return func(c *config) { c.excludeTags = addTags(c.excludeTags, tags) }
}

func addTags(set map[string]struct{}, tags []string) map[string]struct{} {
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if set == nil {
			set = make(map[string]struct{}, len(tags))
		}
		set[t] = struct{}{}
	}
	return set
}

// Generate builds the Swagger document for doc. Each call owns a fresh
// definitions registry. The only error is ErrDuplicateOperationID in strict
// mode; otherwise generation is total over any loaded document.
func Generate(doc *document.Document, opts ...Option) (*Swagger, error) {
	if doc == nil {
		return nil, errors.New("swagger: nil document")
	}
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	out := &Swagger{
		Swagger: Version,
		Info:    Info{Title: doc.Title, Version: ""},
		Paths:   orderedmap.New[string, *PathItem](),
	}
	out.Host, out.Schemes = hostAndSchemes(doc.URL)

	entries := filterByTags(flattenLinks(doc.Content, nil), cfg)
	entries, prefixed := resolveOperationIDs(entries)
	if prefixed {
		logger.Debug("operation ids collide, prefixing with tags", "links", len(entries))
	}
	if dups := duplicateOperationIDs(entries); len(dups) > 0 {
		if cfg.strict {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateOperationID, strings.Join(dups, ", "))
		}
		logger.Warn("duplicate operation ids between untagged links", "ids", dups)
	}

	reg := NewRegistry(cfg.suffix, logger)
	extractDefinitions(entries, reg)
	out.Definitions = reg.Definitions()

	for _, e := range entries {
		item, ok := out.Paths.Get(e.Link.URL)
		if !ok {
			item = orderedmap.New[string, *Operation]()
			out.Paths.Set(e.Link.URL, item)
		}
		item.Set(e.Link.Method(), buildOperation(e, reg))
	}

	logger.Debug("generated swagger document",
		"paths", out.Paths.Len(),
		"operations", len(entries),
		"definitions", reg.Len(),
	)
	return out, nil
}

// hostAndSchemes splits the base URL into Swagger host and schemes. A URL
// with neither part is used verbatim as the host.
func hostAndSchemes(raw string) (string, []string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw, nil
	}
	var schemes []string
	if u.Scheme != "" {
		schemes = []string{u.Scheme}
	}
	if u.Host == "" && schemes == nil {
		return raw, nil
	}
	return u.Host, schemes
}
