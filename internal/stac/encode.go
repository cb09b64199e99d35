package stac

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode renders a document as two-space indented JSON with a trailing
// newline. Output is deterministic: struct fields keep declaration order and
// map keys are sorted by encoding/json.
func Encode(doc any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode stac document: %w", err)
	}
	return buf.Bytes(), nil
}

// SetSelfLink replaces any self link with href.
func SetSelfLink(links []Link, href, mediaType string) []Link {
	out := make([]Link, 0, len(links)+1)
	for _, l := range links {
		if l.Rel != RelSelf {
			out = append(out, l)
		}
	}
	return append(out, Link{Href: href, Rel: RelSelf, Type: mediaType})
}

// Media types for links to STAC documents.
const (
	MediaTypeJSON    = "application/json"
	MediaTypeGeoJSON = "application/geo+json"
	MediaTypeHTML    = "text/html"
)
