package reconcile

import (
	"fmt"
	"strings"

	"clothing-importer/core/reconcile"
	"clothing-importer/feature/clothing/container"
	"clothing-importer/feature/clothing/localize"
	"clothing-importer/feature/clothing/models"
)

// CatalogSource pairs a source catalog with the container table of its archives.
type CatalogSource struct {
	// Catalog is the customization item table.
	Catalog string
	// Containers is the container table describing the catalog's archives.
	Containers string
	// Optional sources are skipped when the source install lacks them.
	Optional bool
}

// Profile defines the naming and text conventions of one source game.
type Profile struct {
	// Name is the profile name, also used in output file names.
	Name string

	// KeyPolicy decides how item names are compared with the destination.
	KeyPolicy reconcile.KeyPolicy

	// DisplayKeyPrefix starts every rewritten display name.
	DisplayKeyPrefix string

	// DisplayKeyFromItemName builds display names from the upper-cased item
	// name instead of the old display name.
	DisplayKeyFromItemName bool

	// TextPrefix starts every merged display text.
	TextPrefix string

	// TextSource selects where display texts come from.
	TextSource localize.TextSource

	// FallbackFormat wraps display texts without a translation.
	FallbackFormat string

	// ClothSimFromMesh names cloth simulation files after the archive's mesh
	// instead of the declared cloth sim file.
	ClothSimFromMesh bool

	// FemaleMeshFallback uses the male mesh when no female mesh is declared.
	FemaleMeshFallback bool

	// MorphExtension marks archive entries extracted to the staging directory.
	// Empty disables extraction.
	MorphExtension string

	// Sources are migrated in order.
	Sources []CatalogSource

	// DestinationCatalogs hold the names already present at the destination.
	// The first one is required.
	DestinationCatalogs []string

	// StringPattern matches string files in both installs.
	StringPattern string

	// StringsFileFormat names the output string file of a language.
	StringsFileFormat string
}

// SRTTProfile returns the profile for Saints Row: The Third installs.
func SRTTProfile() Profile {
	return Profile{
		Name:               "srtt",
		KeyPolicy:          reconcile.KeyPolicyExact,
		DisplayKeyPrefix:   "SRTT_",
		TextPrefix:         "SRTT: ",
		TextSource:         localize.TextFromStrings,
		FallbackFormat:     localize.DefaultFallbackFormat,
		ClothSimFromMesh:   false,
		FemaleMeshFallback: false,
		Sources: []CatalogSource{
			{Catalog: "customization_items.xtbl", Containers: "customize_item.asm_pc"},
			{Catalog: "dlc1_customization_items.xtbl", Containers: "dlc1_customize_item.asm_pc", Optional: true},
			{Catalog: "dlc2_customization_items.xtbl", Containers: "dlc2_customize_item.asm_pc", Optional: true},
			{Catalog: "dlc3_customization_items.xtbl", Containers: "dlc3_customize_item.asm_pc", Optional: true},
		},
		DestinationCatalogs: destinationCatalogs(),
		StringPattern:       localize.DefaultPattern,
		StringsFileFormat:   "srtt_clothing_%s.le_strings",
	}
}

// SRGProfile returns the profile for Gat out of Hell installs.
func SRGProfile() Profile {
	return Profile{
		Name:                   "srg",
		KeyPolicy:              reconcile.KeyPolicyLowercase,
		DisplayKeyPrefix:       "SRG_",
		DisplayKeyFromItemName: true,
		TextPrefix:             "SRG: ",
		TextSource:             localize.TextFromItemName,
		FallbackFormat:         localize.DefaultFallbackFormat,
		ClothSimFromMesh:       true,
		FemaleMeshFallback:     true,
		MorphExtension:         ".cmorph_pc",
		Sources: []CatalogSource{
			{Catalog: "customization_items.xtbl", Containers: "customize_item.asm_pc"},
		},
		DestinationCatalogs: destinationCatalogs(),
		StringPattern:       localize.DefaultPattern,
		StringsFileFormat:   "srg_clothing_%s.le_strings",
	}
}

func destinationCatalogs() []string {
	out := []string{"customization_items.xtbl"}
	for i := 1; i <= 6; i++ {
		out = append(out, fmt.Sprintf("dlc%d_customization_items.xtbl", i))
	}
	return out
}

// GetProfileByName returns the profile for a source game name.
func GetProfileByName(name string) Profile {
	switch strings.ToLower(name) {
	case "srg":
		return SRGProfile()
	case "srtt":
		return SRTTProfile()
	default:
		// Default to SRTT
		return SRTTProfile()
	}
}

// DisplayKey returns the rewritten display name of item.
func (p Profile) DisplayKey(item *models.Item) string {
	if p.DisplayKeyFromItemName {
		return p.DisplayKeyPrefix + strings.ToUpper(item.Name())
	}
	return p.DisplayKeyPrefix + item.DisplayName()
}

// StringsFilename returns the output string file name for lang.
func (p Profile) StringsFilename(lang localize.Language) string {
	return fmt.Sprintf(p.StringsFileFormat, strings.ToLower(string(lang)))
}

// ClothSims returns the cloth simulation file for the male and female archive
// of a wear option. Both are empty when the option declares no cloth sim.
func (p Profile) ClothSims(opt models.WearOption) (male, female string) {
	if opt.ClothSim == "" {
		return "", ""
	}
	if !p.ClothSimFromMesh {
		sim := container.SimFilename(opt.ClothSim)
		return sim, sim
	}

	femaleMesh := opt.FemaleMesh
	if femaleMesh == "" && p.FemaleMeshFallback {
		femaleMesh = opt.MaleMesh
	}
	return container.SimFilename(opt.MaleMesh), container.SimFilename(femaleMesh)
}

// Resolver returns a display text resolver over source strings.
func (p Profile) Resolver(source *localize.MergeSet) *localize.Resolver {
	return &localize.Resolver{
		Source:         source,
		Reference:      localize.Reference,
		Prefix:         p.TextPrefix,
		FallbackFormat: p.FallbackFormat,
		TextSource:     p.TextSource,
	}
}
