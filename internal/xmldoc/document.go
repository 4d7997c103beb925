// Package xmldoc parses XML attachment payloads into a flat view of
// element tag names and their ordered text values. Tags are matched by
// local name so that namespaced invoice formats and plain documents
// behave the same way.
package xmldoc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html/charset"
)

// MalformedXMLError reports an attachment whose bytes are not
// well-formed XML. Processing skips the attachment and continues.
type MalformedXMLError struct {
	Name string
	Err  error
}

func (e *MalformedXMLError) Error() string {
	return fmt.Sprintf("malformed xml in %q: %v", e.Name, e.Err)
}

func (e *MalformedXMLError) Unwrap() error {
	return e.Err
}

// Document is the parsed, flattened form of one XML attachment.
//
// For every element the local tag name is recorded. For every element
// below the root that carries leading character data (text between its
// start tag and its first child node), the trimmed text is recorded as
// an occurrence of that tag, in document order. The root element names
// a tag but never contributes a value.
type Document struct {
	name   string
	root   string
	tags   []string
	seen   map[string]bool
	values map[string][]string
}

// frame tracks one open element during the token walk. Leading text is
// only collected until the first child node shows up.
type frame struct {
	tag      string
	text     strings.Builder
	sawText  bool
	sawChild bool
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Parse parses data as a standalone XML document. The name is the
// attachment name and is used for error context only. Any well-formedness
// violation (no root element, unbalanced tags, a second root, content
// outside the root) is returned as *MalformedXMLError.
func Parse(name string, data []byte) (*Document, error) {
	// encoding/xml surfaces a leading byte order mark as character data.
	data = bytes.TrimPrefix(data, utf8BOM)

	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	doc := &Document{
		name:   name,
		seen:   make(map[string]bool),
		values: make(map[string][]string),
	}

	var stack []*frame
	rootClosed := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &MalformedXMLError{Name: name, Err: err}
		}

		switch t := token.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				if doc.root != "" {
					return nil, &MalformedXMLError{Name: name, Err: fmt.Errorf("multiple root elements")}
				}
				doc.root = t.Name.Local
			} else {
				stack[len(stack)-1].sawChild = true
			}
			doc.recordTag(t.Name.Local)
			stack = append(stack, &frame{tag: t.Name.Local})

		case xml.EndElement:
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				rootClosed = true
				continue
			}
			if top.sawText {
				value := strings.TrimSpace(top.text.String())
				doc.values[top.tag] = append(doc.values[top.tag], value)
			}

		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, &MalformedXMLError{Name: name, Err: fmt.Errorf("text outside root element")}
				}
				continue
			}
			top := stack[len(stack)-1]
			if !top.sawChild {
				top.text.Write(t)
				top.sawText = true
			}

		case xml.Comment, xml.ProcInst, xml.Directive:
			// Counts as a child node: leading text ends here.
			if len(stack) > 0 {
				stack[len(stack)-1].sawChild = true
			}
		}
	}

	if doc.root == "" {
		return nil, &MalformedXMLError{Name: name, Err: fmt.Errorf("no root element")}
	}
	if !rootClosed {
		return nil, &MalformedXMLError{Name: name, Err: fmt.Errorf("unclosed root element")}
	}
	return doc, nil
}

func (d *Document) recordTag(tag string) {
	if !d.seen[tag] {
		d.seen[tag] = true
		d.tags = append(d.tags, tag)
	}
}

// Name returns the attachment name the document was parsed from.
func (d *Document) Name() string {
	return d.name
}

// Root returns the local name of the root element.
func (d *Document) Root() string {
	return d.root
}

// Tags returns the distinct element tag names, root included, sorted.
func (d *Document) Tags() []string {
	tags := make([]string, len(d.tags))
	copy(tags, d.tags)
	sort.Strings(tags)
	return tags
}

// Occurrences returns the ordered values recorded for tag. The slice is
// empty when the tag is absent or none of its elements carry leading
// text.
func (d *Document) Occurrences(tag string) []string {
	return d.values[tag]
}

// UnionTags merges the tag sets of several documents into one sorted,
// duplicate-free list.
func UnionTags(docs []*Document) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, doc := range docs {
		for _, tag := range doc.tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

// HasXMLName reports whether an attachment name claims to be XML by
// extension, case-insensitively.
func HasXMLName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".xml")
}

// IsXML reports whether an attachment counts as XML for this tool:
// either its name carries a .xml extension or its bytes parse as a
// well-formed document.
func IsXML(name string, data []byte) bool {
	if HasXMLName(name) {
		return true
	}
	_, err := Parse(name, data)
	return err == nil
}
