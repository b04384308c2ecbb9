package swagger

import (
	"strings"

	"github.com/mark3labs/swaggercodec/internal/document"
)

// linkEntry is one link of the flattened namespace.
type linkEntry struct {
	OperationID string
	Link        *document.Link
	Tags        []string
	Keys        []string
}

// flattenLinks walks the section tree depth-first in document order.
func flattenLinks(s *document.Section, prefix []string) []linkEntry {
	if s == nil || s.Content == nil {
		return nil
	}
	var out []linkEntry
	for pair := s.Content.Oldest(); pair != nil; pair = pair.Next() {
		keys := append(append([]string(nil), prefix...), pair.Key)
		switch n := pair.Value.(type) {
		case *document.Link:
			out = append(out, newLinkEntry(keys, n))
		case *document.Section:
			out = append(out, flattenLinks(n, keys)...)
		}
	}
	return out
}

// newLinkEntry derives the operation id and tag from the link's keys. Links
// below the top level are tagged with their top-level section.
func newLinkEntry(keys []string, link *document.Link) linkEntry {
	e := linkEntry{Link: link, Keys: keys}
	if len(keys) > 1 {
		e.OperationID = strings.Join(keys[1:], "_")
		e.Tags = []string{keys[0]}
	} else {
		e.OperationID = keys[0]
	}
	return e
}

// resolveOperationIDs prefixes every tagged operation id with its tag when any
// two ids collide. Untagged ids are left untouched, so collisions between
// untagged links survive; see duplicateOperationIDs.
func resolveOperationIDs(entries []linkEntry) ([]linkEntry, bool) {
	if len(duplicateOperationIDs(entries)) == 0 {
		return entries, false
	}
	out := make([]linkEntry, len(entries))
	for i, e := range entries {
		if len(e.Tags) > 0 {
			e.OperationID = e.Tags[0] + "_" + e.OperationID
		}
		out[i] = e
	}
	return out, true
}

// duplicateOperationIDs lists ids used more than once, in first-seen order.
func duplicateOperationIDs(entries []linkEntry) []string {
	counts := make(map[string]int, len(entries))
	var order []string
	for _, e := range entries {
		if counts[e.OperationID] == 0 {
			order = append(order, e.OperationID)
		}
		counts[e.OperationID]++
	}
	var dups []string
	for _, id := range order {
		if counts[id] > 1 {
			dups = append(dups, id)
		}
	}
	return dups
}

func filterByTags(entries []linkEntry, cfg *config) []linkEntry {
	if len(cfg.includeTags) == 0 && len(cfg.excludeTags) == 0 {
		return entries
	}
	out := entries[:0:0]
	for _, e := range entries {
		if allowByTags(e.Tags, cfg) {
			out = append(out, e)
		}
	}
	return out
}

func allowByTags(tags []string, cfg *config) bool {
	if len(cfg.includeTags) > 0 {
		ok := false
		for _, t := range tags {
			if _, yes := cfg.includeTags[t]; yes {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, t := range tags {
		if _, blocked := cfg.excludeTags[t]; blocked {
			return false
		}
	}
	return true
}
