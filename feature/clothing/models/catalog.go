package models

import (
	"io"
	"sync"

	"clothing-importer/core/xtbl"

	"github.com/beevik/etree"
)

// Catalog is the destination customization item table.
type Catalog struct {
	doc   *xtbl.Document
	table *etree.Element

	mu       sync.Mutex
	appended int
}

// NewCatalog returns a catalog appending to the first Table of doc.
func NewCatalog(doc *xtbl.Document) (*Catalog, error) {
	table, err := doc.Table()
	if err != nil {
		return nil, err
	}
	return &Catalog{doc: doc, table: table}, nil
}

// Append adds a copy of the item's element to the table.
func (c *Catalog) Append(item *Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table.AddChild(item.Element().Copy())
	c.appended++
}

// Appended returns the number of items added since the catalog was created.
func (c *Catalog) Appended() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appended
}

// Names returns the names of every item in the catalog.
func (c *Catalog) Names() []string {
	return ItemNames(c.doc)
}

// WriteTo serializes the catalog.
func (c *Catalog) WriteTo(w io.Writer) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.WriteTo(w)
}
