package packfile

import (
	"path"
	"strings"

	"clothing-importer/core/asm"
)

// Layout is the physical shape of a packfile as it was written.
type Layout struct {
	// DataOffset is where the data block starts in the file.
	DataOffset uint32
	// DataSize is the uncompressed size of all entry payloads.
	DataSize uint32
	// StoredDataSize is the number of bytes the data block occupies on disk.
	StoredDataSize uint32
	// FileSize is the total number of bytes written.
	FileSize   uint32
	Compressed bool

	entrySizes map[string]uint32
}

// EntrySize returns the uncompressed size of the named entry.
func (l *Layout) EntrySize(name string) (uint32, bool) {
	size, ok := l.entrySizes[name]
	return size, ok
}

// Update rewrites the size fields of c from the written archive.
//
// BaseOffset points at the data block and TotalCompressedReadSize covers it,
// so BaseOffset+TotalCompressedReadSize equals the file size. Primitive CPU
// sizes come from the entry of the same name; GPU sizes from the companion
// entry whose extension starts with "g" instead of "c" (cmesh_pc -> gmesh_pc).
// Primitives with no matching entry keep their sizes.
func (l *Layout) Update(c *asm.Container) {
	c.BaseOffset = l.DataOffset
	c.TotalCompressedReadSize = l.StoredDataSize

	for _, p := range c.Primitives {
		if size, ok := l.entrySizes[p.Name]; ok {
			p.CPUSize = size
		}
		if companion, ok := gpuCompanion(p.Name); ok {
			if size, ok := l.entrySizes[companion]; ok {
				p.GPUSize = size
			}
		}
	}
}

func gpuCompanion(name string) (string, bool) {
	ext := path.Ext(name)
	if !strings.HasPrefix(ext, ".c") {
		return "", false
	}
	return strings.TrimSuffix(name, ext) + ".g" + ext[2:], true
}
