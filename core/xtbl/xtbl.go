package xtbl

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// ErrNoTable is returned when a document has no Table element.
var ErrNoTable = errors.New("xtbl: document has no Table element")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is a parsed table document.
type Document struct {
	doc *etree.Document
}

// Read parses a table document. A leading UTF-8 byte order mark is ignored.
func Read(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("xtbl: read: %w", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(bytes.TrimPrefix(raw, utf8BOM)); err != nil {
		return nil, fmt.Errorf("xtbl: parse: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("xtbl: parse: empty document")
	}
	return &Document{doc: doc}, nil
}

// Root returns the document element.
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// Table returns the first Table element anywhere in the document.
func (d *Document) Table() (*etree.Element, error) {
	t := d.doc.FindElement("//Table")
	if t == nil {
		return nil, ErrNoTable
	}
	return t, nil
}

// Tables returns every Table element in document order.
func (d *Document) Tables() []*etree.Element {
	return d.doc.FindElements("//Table")
}

// WriteTo serializes the document with tab indentation and CRLF line endings,
// as UTF-8 without a byte order mark and without an XML declaration.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	// Only the root element is carried over, which drops the declaration
	// and any other top-level tokens.
	out := etree.NewDocument()
	if root := d.doc.Root(); root != nil {
		out.SetRoot(root.Copy())
	}

	settings := etree.NewIndentSettings()
	settings.UseTabs = true
	settings.UseCRLF = true
	out.IndentWithSettings(settings)

	n, err := out.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("xtbl: write: %w", err)
	}
	return n, nil
}
