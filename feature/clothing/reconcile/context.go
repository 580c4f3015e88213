package reconcile

import (
	"clothing-importer/core/asm"
	"clothing-importer/core/reconcile"
	"clothing-importer/feature/clothing/clone"
	"clothing-importer/feature/clothing/localize"
	"clothing-importer/feature/clothing/models"
)

// MigrationContext is the destination state shared by every adapter of a run.
type MigrationContext struct {
	// Containers is the destination container table.
	Containers *asm.File
	// Catalog is the destination customization item table.
	Catalog *models.Catalog
	// Strings collects merged display texts per destination language.
	Strings *localize.MergeSet
	// Languages are the destination languages texts are merged for.
	Languages []localize.Language
	// Existing holds the item names present at the destination.
	Existing *reconcile.Index
	// Cloner writes rebuilt archives and remembers which were written.
	Cloner *clone.Cloner
}
