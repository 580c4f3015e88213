// Package naming derives the archive names and string keys the destination
// asset loader looks items up by.
package naming

import (
	"strconv"

	"clothing-importer/core/hashes"
)

const (
	// ArchivePrefix starts every customization mesh archive name.
	ArchivePrefix = "custmesh_"
	// ArchiveExtension ends every customization mesh archive name.
	ArchiveExtension = ".str2_pc"
	// FemaleSuffix follows the hash in female archive names.
	FemaleSuffix = "f"
)

// ArchiveNames returns the male and female archive names for one mesh variant.
// The hash is the signed decimal of hashes.CustomizationItemCrc.
func ArchiveNames(itemName, meshFilename string, variantID uint32) (male, female string) {
	crc := strconv.FormatInt(int64(hashes.CustomizationItemCrc(itemName, meshFilename, variantID)), 10)
	return ArchivePrefix + crc + ArchiveExtension, ArchivePrefix + crc + FemaleSuffix + ArchiveExtension
}

// StringKey returns the string table key of text.
func StringKey(text string) uint32 {
	return hashes.CrcText(text)
}
