package model

import (
	"bytes"
	"encoding/json"
)

// DType identifies the language of an extracted artifact.
type DType string

const (
	// DTypeArgdown marks Argdown argument maps and reconstructions.
	DTypeArgdown DType = "argdown"
	// DTypeXML marks XML-like annotations of a source text.
	DTypeXML DType = "xml"
)

// ParseDType maps a fenced-block language tag to a DType. The second return
// value reports whether the tag names a known type.
func ParseDType(tag string) (DType, bool) {
	switch DType(tag) {
	case DTypeArgdown:
		return DTypeArgdown, true
	case DTypeXML:
		return DTypeXML, true
	default:
		return "", false
	}
}

// Valid reports whether the DType is one of the known types.
func (d DType) Valid() bool {
	return d == DTypeArgdown || d == DTypeXML
}

// Metadata is an insertion-ordered string-to-string mapping parsed from a
// fenced block header. Order is preserved so that serialized responses
// reproduce the header verbatim.
type Metadata struct {
	keys   []string
	values map[string]string
}

// NewMetadata returns an empty Metadata.
func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]string)}
}

// Set stores a value under key, appending the key on first use. Setting an
// existing key overwrites the value but keeps the original position.
func (m *Metadata) Set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Metadata) Get(key string) (string, bool) {
	if m == nil || m.values == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of stored keys.
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Metadata) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// MarshalJSON writes the mapping as a JSON object in insertion order.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	if m == nil || len(m.keys) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, preserving key order as it appears in
// the document.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return &json.UnmarshalTypeError{Value: "non-object", Type: nil}
	}
	m.keys = nil
	m.values = make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}
		m.Set(key, value)
	}
	_, err = dec.Token()
	return err
}

// PrimaryData is one extracted artifact: a fenced code block (or the whole
// input when no block exists) plus its parsed form.
//
// Lifecycle: created by the extractor handler; Data is populated by the
// matching parser handler and never mutated afterwards. Data remains nil when
// parsing fails.
type PrimaryData struct {
	ID          string
	DType       DType
	CodeSnippet string
	Metadata    *Metadata
	Data        any
}
