package reconcile

import (
	"bytes"
	"context"
	"fmt"

	"clothing-importer/core/asm"
	"clothing-importer/core/reconcile"
	"clothing-importer/core/xtbl"
	"clothing-importer/feature/clothing/clone"
	"clothing-importer/feature/clothing/localize"
	"clothing-importer/feature/clothing/models"
	"clothing-importer/feature/clothing/naming"

	"go.uber.org/zap"
)

// Store opens files of the source install.
type Store interface {
	Open(ctx context.Context, name string) ([]byte, error)
}

// ClothingAdapter implements the reconcile.Adapter interface for one source catalog.
type ClothingAdapter struct {
	profile  Profile
	source   CatalogSource
	store    Store
	resolver *localize.Resolver
	mctx     *MigrationContext
	logger   *zap.Logger

	// containers is the source container table, loaded with the items.
	containers *asm.File
}

// NewAdapter creates an adapter migrating source into mctx.
func NewAdapter(profile Profile, source CatalogSource, store Store, resolver *localize.Resolver, mctx *MigrationContext, logger *zap.Logger) *ClothingAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClothingAdapter{
		profile:  profile,
		source:   source,
		store:    store,
		resolver: resolver,
		mctx:     mctx,
		logger:   logger,
	}
}

// Name returns the source catalog name.
func (a *ClothingAdapter) Name() string {
	return a.source.Catalog
}

// LoadDestinationIndex returns the shared destination index.
func (a *ClothingAdapter) LoadDestinationIndex(ctx context.Context) (*reconcile.Index, error) {
	if a.mctx.Existing == nil {
		return nil, fmt.Errorf("migration context has no destination index")
	}
	return a.mctx.Existing, nil
}

// LoadSourceItems reads the source catalog and its container table.
func (a *ClothingAdapter) LoadSourceItems(ctx context.Context) ([]reconcile.SourceItem, error) {
	data, err := a.store.Open(ctx, a.source.Containers)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", a.source.Containers, err)
	}
	containers, err := asm.Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.source.Containers, err)
	}

	data, err = a.store.Open(ctx, a.source.Catalog)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", a.source.Catalog, err)
	}
	doc, err := xtbl.Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.source.Catalog, err)
	}
	items, err := models.LoadItems(doc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.source.Catalog, err)
	}

	a.containers = containers
	a.logger.Debug("Loaded source catalog",
		zap.String("catalog", a.source.Catalog),
		zap.Int("items", len(items)),
		zap.Int("containers", containers.Len()))

	out := make([]reconcile.SourceItem, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out, nil
}

// ExtractKey returns the item name.
func (a *ClothingAdapter) ExtractKey(item reconcile.SourceItem) string {
	return item.(*models.Item).Name()
}

// IsDLC reports the item's Is_DLC flag.
func (a *ClothingAdapter) IsDLC(item reconcile.SourceItem) bool {
	return item.(*models.Item).IsDLC()
}

// Migrate rewrites the item's display name, merges its texts, strips its DLC
// flag and clones the archives of every wear option and variant. The item is
// appended to the destination catalog when at least one archive resolved.
func (a *ClothingAdapter) Migrate(ctx context.Context, src reconcile.SourceItem) (reconcile.Outcome, error) {
	item := src.(*models.Item)

	displayKey := a.mergeDisplayText(item)
	item.StripDLC()

	opts, err := item.WearOptions()
	if err != nil {
		return reconcile.Outcome{}, err
	}
	variants, err := item.Variants()
	if err != nil {
		return reconcile.Outcome{}, err
	}

	var archives []string
	for _, opt := range opts {
		maleSim, femaleSim := a.profile.ClothSims(opt)
		for _, v := range variants {
			// Both archives are named after the male mesh.
			male, female := naming.ArchiveNames(item.Name(), opt.MaleMesh, v.ID)

			for _, req := range []clone.Request{
				{Archive: male, ClothSim: maleSim},
				{Archive: female, ClothSim: femaleSim},
			} {
				req.Source = a.containers
				req.Destination = a.mctx.Containers
				ok, err := a.mctx.Cloner.Clone(ctx, req)
				if err != nil {
					return reconcile.Outcome{}, err
				}
				if ok {
					archives = append(archives, req.Archive)
				}
			}
		}
	}

	outcome := reconcile.Outcome{
		Resolved: len(archives) > 0,
		Archives: archives,
		Metadata: map[string]string{
			"display_key": displayKey,
			"catalog":     a.source.Catalog,
		},
	}
	if outcome.Resolved {
		a.mctx.Catalog.Append(item)
	}
	return outcome, nil
}

// mergeDisplayText rewrites the item's display name and merges its text for
// every destination language. It returns the new display name.
func (a *ClothingAdapter) mergeDisplayText(item *models.Item) string {
	ref := localize.DisplayRef{
		ItemName:    item.Name(),
		DisplayName: item.DisplayName(),
		Key:         naming.StringKey(item.DisplayName()),
	}
	texts := a.resolver.ResolveDisplayText(ref, a.mctx.Languages)

	displayKey := a.profile.DisplayKey(item)
	item.SetDisplayName(displayKey)

	key := naming.StringKey(displayKey)
	for _, lang := range a.mctx.Languages {
		a.mctx.Strings.Insert(lang, key, texts[lang])
	}
	return displayKey
}
