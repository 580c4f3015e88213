// Package container converts source container metadata into the form the
// destination asset loader expects.
package container

import (
	"path"
	"strings"

	"clothing-importer/core/asm"
)

const (
	// DestinationCompression is the compression type every rebuilt archive is written with.
	DestinationCompression uint8 = 9
	// ClothSimPrimitiveType is the primitive type of cloth simulation data.
	ClothSimPrimitiveType uint8 = 47
	// SimExtension is the platform extension of cloth simulation files.
	SimExtension = ".sim_pc"
)

// SimFilename returns name with its extension replaced by SimExtension.
func SimFilename(name string) string {
	if name == "" {
		return ""
	}
	base := name[strings.LastIndexAny(name, `/\`)+1:]
	return strings.TrimSuffix(name, path.Ext(base)) + SimExtension
}

// Convert returns a new container for the destination table.
//
// Identity and packing fields are copied from src, the compression type is
// forced to DestinationCompression and every primitive is copied into a fresh
// value. When clothSim is set, a cloth simulation primitive named after it is
// appended and counted.
func Convert(src *asm.Container, clothSim string) *asm.Container {
	dst := &asm.Container{
		Name:                    src.Name,
		Type:                    src.Type,
		Flags:                   src.Flags,
		PrimitiveCount:          src.PrimitiveCount,
		BaseOffset:              src.BaseOffset,
		CompressionType:         DestinationCompression,
		StubParentName:          src.StubParentName,
		AuxData:                 append([]byte(nil), src.AuxData...),
		TotalCompressedReadSize: src.TotalCompressedReadSize,
		Primitives:              make([]*asm.Primitive, 0, len(src.Primitives)+1),
	}

	for _, p := range src.Primitives {
		cp := *p
		dst.Primitives = append(dst.Primitives, &cp)
	}

	if clothSim != "" {
		dst.Primitives = append(dst.Primitives, &asm.Primitive{
			Name: SimFilename(clothSim),
			Type: ClothSimPrimitiveType,
		})
		dst.PrimitiveCount++
	}

	return dst
}
