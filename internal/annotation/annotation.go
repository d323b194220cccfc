// Package annotation parses XML-like text annotations into a queryable
// element tree. The dialect is forgiving: elements are embedded in free
// prose, casing is preserved, unknown entities pass through, and missing end
// tags are tolerated.
package annotation

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ElementProposition is the one element name the annotation dialect defines.
const ElementProposition = "proposition"

// Attribute names understood on proposition elements.
const (
	AttrID            = "id"
	AttrSupports      = "supports"
	AttrAttacks       = "attacks"
	AttrArgumentLabel = "argument_label"
	AttrRefRecoLabel  = "ref_reco_label"
)

// KnownAttrs lists every attribute the dialect defines, in canonical order.
var KnownAttrs = []string{AttrID, AttrSupports, AttrAttacks, AttrArgumentLabel, AttrRefRecoLabel}

// Attr is a single element attribute, order-preserving.
type Attr struct {
	Name  string
	Value string
}

// Element is one parsed annotation element.
type Element struct {
	Name  string
	Attrs []Attr
	// Text is the element's inner text with nested tags stripped.
	Text string
	// Depth counts enclosing annotation elements; 0 for top level.
	Depth int
	// ParentIndex points into Document.Elements, -1 for top level.
	ParentIndex int
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// ID returns the element's id attribute, empty when absent.
func (e *Element) ID() string {
	v, _ := e.Attr(AttrID)
	return strings.TrimSpace(v)
}

// Supports returns the ids listed in the supports attribute.
func (e *Element) Supports() []string {
	v, _ := e.Attr(AttrSupports)
	return splitIDList(v)
}

// Attacks returns the ids listed in the attacks attribute.
func (e *Element) Attacks() []string {
	v, _ := e.Attr(AttrAttacks)
	return splitIDList(v)
}

// ArgumentLabel returns the argument_label attribute, empty when absent.
func (e *Element) ArgumentLabel() string {
	v, _ := e.Attr(AttrArgumentLabel)
	return strings.TrimSpace(v)
}

// RefRecoLabel returns the ref_reco_label attribute, empty when absent.
func (e *Element) RefRecoLabel() string {
	v, _ := e.Attr(AttrRefRecoLabel)
	return strings.TrimSpace(v)
}

// splitIDList reads a comma or whitespace separated id list.
func splitIDList(v string) []string {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Document is a parsed annotation.
type Document struct {
	// Elements in document order, nested elements after their parents.
	Elements []*Element
	// TextContent is the annotated text with all tags stripped.
	TextContent string
}

// Propositions returns the elements named "proposition".
func (d *Document) Propositions() []*Element {
	var out []*Element
	for _, el := range d.Elements {
		if el.Name == ElementProposition {
			out = append(out, el)
		}
	}
	return out
}

// ByID returns the first proposition element carrying the given id. An
// empty id never resolves.
func (d *Document) ByID(id string) *Element {
	if id == "" {
		return nil
	}
	for _, el := range d.Elements {
		if el.Name == ElementProposition && el.ID() == id {
			return el
		}
	}
	return nil
}

// syntheticRoot wraps the fragment so multiple top-level elements and bare
// prose tokenize as one document.
const syntheticRoot = "__annotation__"

// Parse reads an annotated text fragment into a Document.
func Parse(src string) (*Document, error) {
	wrapped := fmt.Sprintf("<%s>%s</%s>", syntheticRoot, src, syntheticRoot)
	dec := xml.NewDecoder(strings.NewReader(wrapped))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	doc := &Document{}
	var text strings.Builder
	var open []*Element
	var openIdx []int
	rootSeen := false

	for {
		tok, err := dec.Token()
		if tok == nil {
			if err == nil || errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid annotation: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if !rootSeen && t.Name.Local == syntheticRoot {
				rootSeen = true
				continue
			}
			el := &Element{
				Name:        t.Name.Local,
				Depth:       len(open),
				ParentIndex: -1,
			}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(openIdx) > 0 {
				el.ParentIndex = openIdx[len(openIdx)-1]
			}
			doc.Elements = append(doc.Elements, el)
			open = append(open, el)
			openIdx = append(openIdx, len(doc.Elements)-1)
		case xml.EndElement:
			if len(open) > 0 {
				open = open[:len(open)-1]
				openIdx = openIdx[:len(openIdx)-1]
			}
		case xml.CharData:
			chunk := string(t)
			text.WriteString(chunk)
			for _, el := range open {
				el.Text += chunk
			}
		}
	}

	doc.TextContent = text.String()
	return doc, nil
}
