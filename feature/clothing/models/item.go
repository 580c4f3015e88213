package models

import (
	"errors"
	"fmt"
	"strings"

	"clothing-importer/core/utils"
	"clothing-importer/core/xtbl"

	"github.com/beevik/etree"
)

// ErrMalformedItem is returned when an item lacks a field the migration depends on.
var ErrMalformedItem = errors.New("models: malformed customization item")

const itemTag = "Customization_Item"

// WearOption names the files one wear option is built from.
// FemaleMesh and ClothSim are empty when the item does not declare them.
type WearOption struct {
	MaleMesh   string
	FemaleMesh string
	ClothSim   string
}

// Variant is one numbered appearance of an item.
type Variant struct {
	ID uint32
}

// Item is one customization item row.
type Item struct {
	el          *etree.Element
	name        string
	displayName string
}

// NewItem wraps el. Name and DisplayName must be present.
func NewItem(el *etree.Element) (*Item, error) {
	name, ok := childText(el, "Name")
	if !ok {
		return nil, fmt.Errorf("%w: missing Name", ErrMalformedItem)
	}
	display, ok := childText(el, "DisplayName")
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing DisplayName", ErrMalformedItem, name)
	}
	return &Item{el: el, name: name, displayName: display}, nil
}

// Element returns the underlying element.
func (i *Item) Element() *etree.Element {
	return i.el
}

// Name returns the item's identity.
func (i *Item) Name() string {
	return i.name
}

// DisplayName returns the item's display-name string reference.
func (i *Item) DisplayName() string {
	return i.displayName
}

// SetDisplayName rewrites the display-name reference.
func (i *Item) SetDisplayName(name string) {
	i.el.SelectElement("DisplayName").SetText(name)
	i.displayName = name
}

// IsDLC reports whether the item carries a true Is_DLC flag.
func (i *Item) IsDLC() bool {
	text, ok := childText(i.el, "Is_DLC")
	return ok && utils.ToBool(text)
}

// StripDLC removes the Is_DLC flag and reports whether it was present.
func (i *Item) StripDLC() bool {
	removed := false
	for el := i.el.SelectElement("Is_DLC"); el != nil; el = i.el.SelectElement("Is_DLC") {
		i.el.RemoveChild(el)
		removed = true
	}
	return removed
}

// WearOptions returns the item's wear options in document order.
// An item without a Wear_Options element has none.
func (i *Item) WearOptions() ([]WearOption, error) {
	parent := i.el.SelectElement("Wear_Options")
	if parent == nil {
		return nil, nil
	}

	var out []WearOption
	for n, opt := range parent.FindElements(".//Wear_Option") {
		info := opt.SelectElement("Mesh_Information")
		if info == nil {
			return nil, fmt.Errorf("%w: %s: wear option %d: missing Mesh_Information", ErrMalformedItem, i.name, n)
		}
		male, ok := filename(info, "Male_Mesh_Filename")
		if !ok {
			return nil, fmt.Errorf("%w: %s: wear option %d: missing Male_Mesh_Filename", ErrMalformedItem, i.name, n)
		}
		female, _ := filename(info, "Female_Mesh_Filename")
		sim, _ := filename(info, "Cloth_Sim_Filename")
		out = append(out, WearOption{MaleMesh: male, FemaleMesh: female, ClothSim: sim})
	}
	return out, nil
}

// Variants returns the item's variants in document order.
func (i *Item) Variants() ([]Variant, error) {
	parent := i.el.SelectElement("Variants")
	if parent == nil {
		return nil, nil
	}

	var out []Variant
	for n, v := range parent.FindElements(".//Variant") {
		info := v.SelectElement("Mesh_Variant_Info")
		if info == nil {
			return nil, fmt.Errorf("%w: %s: variant %d: missing Mesh_Variant_Info", ErrMalformedItem, i.name, n)
		}
		text, ok := childText(info, "VariantID")
		if !ok {
			return nil, fmt.Errorf("%w: %s: variant %d: missing VariantID", ErrMalformedItem, i.name, n)
		}
		id, err := utils.ParseUint32(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: variant %d: %v", ErrMalformedItem, i.name, n, err)
		}
		out = append(out, Variant{ID: id})
	}
	return out, nil
}

// LoadItems returns every customization item below the document's tables.
func LoadItems(doc *xtbl.Document) ([]*Item, error) {
	var items []*Item
	for _, table := range doc.Tables() {
		for _, el := range table.FindElements(".//" + itemTag) {
			item, err := NewItem(el)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}
	return items, nil
}

// ItemNames returns the names of every item in doc. Rows without a Name are skipped.
func ItemNames(doc *xtbl.Document) []string {
	var names []string
	for _, table := range doc.Tables() {
		for _, el := range table.FindElements(".//" + itemTag) {
			if name, ok := childText(el, "Name"); ok {
				names = append(names, name)
			}
		}
	}
	return names
}

func childText(el *etree.Element, tag string) (string, bool) {
	child := el.SelectElement(tag)
	if child == nil {
		return "", false
	}
	return strings.TrimSpace(child.Text()), true
}

func filename(info *etree.Element, tag string) (string, bool) {
	el := info.SelectElement(tag)
	if el == nil {
		return "", false
	}
	return childText(el, "Filename")
}
