// Package xmltree decodes XML into a small generic element tree: tag name,
// attributes and ordered children. Callers validate the shape they expect.
package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/atpproof/pkg/atpproof/internalerr"
)

// Element is one XML element. Text holds the element's own character data
// with surrounding whitespace trimmed.
type Element struct {
	Tag      string
	Attrs    map[string]string
	Children []*Element
	Text     string
}

// Attr returns the named attribute and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// ChildrenByTag returns the direct children with the given tag, in order.
func (e *Element) ChildrenByTag(tag string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// First returns the first direct child with the given tag.
func (e *Element) First(tag string) (*Element, bool) {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c, true
		}
	}
	return nil, false
}

// Decode reads one document and returns its root element.
func Decode(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)

	var (
		root  *Element
		stack []*Element
		text  []*strings.Builder
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", internalerr.ErrMalformedResponse, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Tag: t.Name.Local, Attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				el.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements", internalerr.ErrMalformedResponse)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
			text = append(text, &strings.Builder{})
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unexpected </%s>", internalerr.ErrMalformedResponse, t.Name.Local)
			}
			el := stack[len(stack)-1]
			el.Text = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: empty document", internalerr.ErrMalformedResponse)
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: unclosed <%s>", internalerr.ErrMalformedResponse, stack[len(stack)-1].Tag)
	}
	return root, nil
}

// DecodeString is Decode over an in-memory document.
func DecodeString(s string) (*Element, error) {
	return Decode(strings.NewReader(s))
}
