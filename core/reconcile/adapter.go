package reconcile

import "context"

// Adapter defines the interface for catalog-specific migration logic.
// Each adapter implements how to load one source catalog, identify its items,
// and migrate a single item into the destination.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "dlc1_customization_items.xtbl").
	Name() string

	// LoadDestinationIndex returns the set of item keys already present at the
	// destination. Adapters migrating into the same destination should return
	// the same Index so that items included by one are seen by the next.
	LoadDestinationIndex(ctx context.Context) (*Index, error)

	// LoadSourceItems loads the items of the source catalog in catalog order.
	LoadSourceItems(ctx context.Context) ([]SourceItem, error)

	// ExtractKey returns the item's identity before key policy normalization.
	ExtractKey(item SourceItem) string

	// IsDLC reports whether the item is flagged as downloadable content.
	IsDLC(item SourceItem) bool

	// Migrate performs the per-item work and reports whether the item resolved.
	// An error aborts the whole run; an unresolved item is not an error.
	Migrate(ctx context.Context, item SourceItem) (Outcome, error)
}
