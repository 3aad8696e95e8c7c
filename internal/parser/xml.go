package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/spec-kit/support-tickets/internal/domain"
)

var (
	errXMLRoot    = errors.New("XML must have a root <tickets> element")
	errXMLTickets = errors.New("no <ticket> elements found in XML")
	errXMLTrailer = errors.New("unexpected content after the root element")
)

// xmlNode is a generic element tree; ticket documents carry no attributes we use.
type xmlNode struct {
	XMLName  xml.Name
	Text     string    `xml:",chardata"`
	Children []xmlNode `xml:",any"`
}

func (n *xmlNode) child(name string) *xmlNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return &n.Children[i]
		}
	}
	return nil
}

func (n *xmlNode) childrenNamed(name string) []xmlNode {
	var out []xmlNode
	for _, c := range n.Children {
		if c.XMLName.Local == name {
			out = append(out, c)
		}
	}
	return out
}

func (n *xmlNode) text() string {
	return strings.TrimSpace(n.Text)
}

// XMLParser reads <tickets><ticket>...</ticket></tickets> documents.
type XMLParser struct{}

// Parse implements Parser. The first <ticket> is row 1.
func (XMLParser) Parse(content []byte) ([]domain.RawRecord, error) {
	var root xmlNode
	decoder := xml.NewDecoder(bytes.NewReader(content))
	if err := decoder.Decode(&root); err != nil {
		return nil, structural(domain.FormatXML, err)
	}
	if err := drainTrailer(decoder); err != nil {
		return nil, structural(domain.FormatXML, err)
	}
	if root.XMLName.Local != "tickets" {
		return nil, structural(domain.FormatXML, errXMLRoot)
	}
	tickets := root.childrenNamed("ticket")
	if len(tickets) == 0 {
		return nil, structural(domain.FormatXML, errXMLTickets)
	}

	records := make([]domain.RawRecord, 0, len(tickets))
	for i := range tickets {
		records = append(records, domain.RawRecord{
			Data: xmlRecord(&tickets[i]),
			Row:  i + 1,
		})
	}
	return records, nil
}

// drainTrailer allows only whitespace, comments and processing instructions
// after the root element.
func drainTrailer(decoder *xml.Decoder) error {
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement, xml.EndElement:
			return errXMLTrailer
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return errXMLTrailer
			}
		}
	}
}

func xmlRecord(ticket *xmlNode) map[string]any {
	data := map[string]any{}
	for _, name := range textFields {
		if node := ticket.child(name); node != nil {
			data[name] = node.text()
		}
	}
	for _, name := range optionalEnums {
		if node := ticket.child(name); node != nil && node.text() != "" {
			data[name] = node.text()
		}
	}
	if node := ticket.child(fieldAssignedTo); node != nil && node.text() != "" {
		data[fieldAssignedTo] = node.text()
	} else {
		data[fieldAssignedTo] = nil
	}
	data[fieldTags] = xmlTags(ticket.child(fieldTags))

	metadata := defaultMetadata()
	if meta := ticket.child(fieldMetadata); meta != nil {
		if node := meta.child(fieldSource); node != nil && node.text() != "" {
			metadata[fieldSource] = node.text()
		}
		for _, name := range metadataFields {
			if node := meta.child(name); node != nil && node.text() != "" {
				metadata[name] = node.text()
			}
		}
	}
	data[fieldMetadata] = metadata
	return data
}

// xmlTags accepts "a, b" text or nested <tag> elements.
func xmlTags(node *xmlNode) []any {
	if node == nil {
		return []any{}
	}
	nested := node.childrenNamed("tag")
	if len(nested) == 0 {
		return splitTags(node.text())
	}
	tags := make([]any, 0, len(nested))
	for i := range nested {
		if tag := nested[i].text(); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
