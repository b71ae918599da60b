package sqlite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/boardctl/internal/mirror"
)

// marshalCanonical converts a document body to JSON TEXT for storage.
// HTML escaping is disabled so names like "R&D" are stored verbatim;
// Go's encoder sorts map keys, which keeps bodies byte-stable across writes.
func marshalCanonical(fields mirror.Fields) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fields); err != nil {
		return "", fmt.Errorf("marshal body: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}
