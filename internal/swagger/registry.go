package swagger

import (
	"encoding/hex"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SuffixFunc supplies the suffix appended to a definition name whose base
// name is already taken by a different shape.
type SuffixFunc func() string

// RandomSuffix returns six random lowercase hex characters.
func RandomSuffix() string {
	id := uuid.New()
	return hex.EncodeToString(id[:3])
}

// CounterSuffix returns a SuffixFunc yielding "1", "2", "3", ...
func CounterSuffix() SuffixFunc {
	n := 0
	return func() string {
		n++
		return strconv.Itoa(n)
	}
}

// maxRenameAttempts bounds retries when a suffix produces a taken name.
const maxRenameAttempts = 16

// Registry stores the definitions of one generated document, keyed by name
// in registration order. It is not safe for concurrent use.
type Registry struct {
	defs   *orderedmap.OrderedMap[string, *Schema]
	suffix SuffixFunc
	logger *slog.Logger
}

func NewRegistry(suffix SuffixFunc, logger *slog.Logger) *Registry {
	if suffix == nil {
		suffix = RandomSuffix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		defs:   orderedmap.New[string, *Schema](),
		suffix: suffix,
		logger: logger,
	}
}

// Register inserts shape under proposed, or reuses an existing entry.
//
// Candidates are entries whose name starts with proposed or whose shape equals
// shape. A candidate with an equal shape is returned as is. If only name
// clashes remain, shape is stored under proposed plus "_" and a suffix.
// Without candidates, shape is stored under proposed.
func (r *Registry) Register(shape *Schema, proposed string) (string, *Schema) {
	clash := false
	for pair := r.defs.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Equal(shape) {
			return pair.Key, pair.Value
		}
		if strings.HasPrefix(pair.Key, proposed) {
			clash = true
		}
	}

	name := proposed
	if clash {
		name = r.rename(proposed)
		r.logger.Debug("definition name clash", "proposed", proposed, "name", name)
	}
	r.defs.Set(name, shape)
	return name, shape
}

func (r *Registry) rename(proposed string) string {
	for i := 0; i < maxRenameAttempts; i++ {
		name := proposed + "_" + r.suffix()
		if _, taken := r.defs.Get(name); !taken {
			return name
		}
	}
	for n := r.defs.Len(); ; n++ {
		name := proposed + "_" + strconv.Itoa(n)
		if _, taken := r.defs.Get(name); !taken {
			return name
		}
	}
}

// Lookup returns the name of the first definition structurally equal to shape.
func (r *Registry) Lookup(shape *Schema) (string, bool) {
	for pair := r.defs.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Equal(shape) {
			return pair.Key, true
		}
	}
	return "", false
}

// Get returns the definition stored under name.
func (r *Registry) Get(name string) (*Schema, bool) {
	return r.defs.Get(name)
}

func (r *Registry) Len() int { return r.defs.Len() }

// Definitions exposes the backing ordered map for the document's
// "definitions" key.
func (r *Registry) Definitions() *orderedmap.OrderedMap[string, *Schema] {
	return r.defs
}
