package mirror

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/boardctl/internal/model"
)

// Reserved field names stripped from document bodies. The identifier and
// parent live in dedicated columns so that every backend can index them.
const (
	fieldID = "id"
)

// Encode converts an entity into a document. The entity's own identifier and
// parent identifier become the document's ID and Parent; everything else is
// carried in Fields.
func Encode(e model.Entity) (Document, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return Document{}, fmt.Errorf("encode %T: %w", e, err)
	}
	var fields Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return Document{}, fmt.Errorf("encode %T: %w", e, err)
	}
	delete(fields, fieldID)

	doc := Document{ID: *e.Ident(), Fields: fields}
	if p := e.ParentIdent(); p != nil {
		doc.Parent = *p
	}
	return doc, nil
}

// Decode fills dst from a document. The document's ID and Parent take
// precedence over whatever the body carries.
func Decode(doc Document, dst model.Entity) error {
	data, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("decode %T: %w", dst, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %T: %w", dst, err)
	}
	*dst.Ident() = doc.ID
	if p := dst.ParentIdent(); p != nil && !doc.Parent.IsZero() {
		*p = doc.Parent
	}
	return nil
}

// DecodeAll decodes a slice of documents into entities of type T.
// P is the pointer type implementing model.Entity.
func DecodeAll[T any, P interface {
	*T
	model.Entity
}](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := Decode(doc, P(&v)); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// MergeFields overlays patch onto base and returns the result, following
// JSON merge patch for the flat documents used here: a nil value in patch
// removes the key, and nested objects are replaced wholesale. base is not
// modified.
func MergeFields(base, patch Fields) Fields {
	out := make(Fields, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}
