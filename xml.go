package composer

import (
	"fmt"
	"strconv"

	"github.com/subchen/go-xmldom"
)

// .diatony project files are XML: a Piece root element whose children
// alternate Section (with one Progression child holding Chord elements) and
// Modulation, all data in attributes. The element and attribute names are
// the node type names and property keys of the document tree, so the format
// round-trips the tree exactly.

// ToXML serializes the piece.
func (p *Piece) ToXML() string {
	doc := xmldom.NewDocument(TypePiece)
	for _, key := range p.root.PropertyKeys() {
		v, _ := p.root.Property(key)
		doc.Root.SetAttributeValue(key, propertyToString(v))
	}
	for i := 0; i < p.root.NumChildren(); i++ {
		writeElement(doc.Root, p.root.Child(i))
	}
	return doc.XMLPretty()
}

func writeElement(parent *xmldom.Node, node *Node) {
	el := parent.CreateNode(node.Name())
	for _, key := range node.PropertyKeys() {
		v, _ := node.Property(key)
		el.SetAttributeValue(key, propertyToString(v))
	}
	for i := 0; i < node.NumChildren(); i++ {
		writeElement(el, node.Child(i))
	}
}

func propertyToString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// ParsePieceXML parses a .diatony document into a detached node tree. The
// root element must be exactly "Piece"; anything else is rejected and the
// caller's live document stays untouched.
func ParsePieceXML(data string) (*Node, error) {
	doc, err := xmldom.ParseXML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing project file: %w", err)
	}
	if doc.Root == nil || doc.Root.Name != TypePiece {
		return nil, fmt.Errorf("not a piece document: root element %q", rootName(doc))
	}
	return readElement(doc.Root), nil
}

func rootName(doc *xmldom.Document) string {
	if doc.Root == nil {
		return ""
	}
	return doc.Root.Name
}

func readElement(el *xmldom.Node) *Node {
	node := NewNode(el.Name)
	for _, attr := range el.Attributes {
		node.SetProperty(attr.Name, propertyFromString(attr.Name, attr.Value), nil)
	}
	for _, child := range el.Children {
		node.AddChild(readElement(child), -1, nil)
	}
	return node
}

// propertyFromString restores the property's Go type from its attribute
// text. Unknown attributes are kept as strings so foreign data survives a
// round-trip.
func propertyFromString(key, value string) any {
	switch key {
	case propTitle, propName:
		return value
	case propIsMajor:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return true
		}
		return b
	case propID, propDegree, propQuality, propState,
		propTonalityNote, propTonalityAlteration, propModulationType,
		propFromSection, propToSection, propFromChord, propToChord:
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0
		}
		return n
	}
	return value
}

// LoadFrom replaces the live piece's properties and children with copies of
// root's, in place and without recording an undo transaction.
func (p *Piece) LoadFrom(root *Node) {
	p.root.CopyFrom(root)
	if p.Title() == "" {
		p.root.SetProperty(propTitle, defaultTitle, nil)
	}
}
