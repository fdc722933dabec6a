package schema

import (
	"bytes"
	"errors"
)

// ErrEmptyDocument is returned for payloads that hold nothing but whitespace.
var ErrEmptyDocument = errors.New("schema: empty document")

// Document is a field-definition payload as loaded, before parsing, together
// with where it came from. The zero value has no source and no bytes.
type Document struct {
	source Source
	raw    []byte
}

func NewDocument(src Source, raw []byte) (Document, error) {
	switch {
	case src == nil:
		return Document{}, errors.New("schema: document has no source")
	case len(bytes.TrimSpace(raw)) == 0:
		return Document{}, ErrEmptyDocument
	}
	owned := make([]byte, len(raw))
	copy(owned, raw)
	return Document{source: src, raw: owned}, nil
}

// MustNewDocument is NewDocument for fixtures and inline payloads.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

func (d Document) Source() Source { return d.source }

// Raw returns the payload. Callers may modify the returned slice.
func (d Document) Raw() []byte {
	return bytes.Clone(d.raw)
}

// Location names the origin for error messages. It is empty for the zero
// Document.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
