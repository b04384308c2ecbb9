package swagger

import (
	"strings"

	"github.com/mark3labs/swaggercodec/internal/document"
)

func buildOperation(e linkEntry, reg *Registry) *Operation {
	link := e.Link
	encoding := link.ResolveEncoding()
	desc := strings.TrimSpace(link.Description)

	op := &Operation{
		OperationID: e.OperationID,
		Responses:   responsesFor(link),
		Parameters:  buildParameters(link, encoding, reg),
	}
	if desc != "" {
		op.Description = desc
		op.Summary = firstLine(desc)
	}
	if encoding != "" {
		op.Consumes = []string{encoding}
	}
	if len(e.Tags) > 0 {
		op.Tags = append([]string(nil), e.Tags...)
	}
	return op
}

// responsesFor returns the minimal responses object for the link's method.
func responsesFor(link *document.Link) map[string]*Response {
	status := "200"
	switch link.Method() {
	case "post":
		status = "201"
	case "delete":
		status = "204"
	}
	return map[string]*Response{status: {Description: ""}}
}

// firstLine cuts s at the first line boundary: \n, \r, \v, \f, the
// file/group/record separators, NEL, or the Unicode line and paragraph
// separators.
func firstLine(s string) string {
	if i := strings.IndexFunc(s, isLineBreak); i >= 0 {
		return s[:i]
	}
	return s
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
