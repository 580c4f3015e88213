package asm

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"clothing-importer/core/utils"
)

const (
	// Magic identifies a container table file.
	Magic uint32 = 0xBEEFFEED

	// Version is the only container table version this package reads and writes.
	Version uint16 = 11
)

var (
	// ErrBadMagic indicates the stream is not a container table.
	ErrBadMagic = errors.New("asm: bad magic")

	// ErrUnsupportedVersion indicates a container table of another version.
	ErrUnsupportedVersion = errors.New("asm: unsupported version")

	// ErrPrimitiveCount indicates a container whose primitive count disagrees with its primitive list.
	ErrPrimitiveCount = errors.New("asm: primitive count mismatch")

	// ErrTooManyContainers indicates a table that does not fit the on-disk count field.
	ErrTooManyContainers = errors.New("asm: too many containers")
)

// Primitive is one named sub-resource of a container.
type Primitive struct {
	Name            string
	Type            uint8
	Allocator       uint8
	Flags           uint8
	ExtensionIndex  uint8
	AllocationGroup uint16
	CPUSize         uint32
	GPUSize         uint32
}

// Container describes one archive: its packing parameters and primitive list.
type Container struct {
	Name                    string
	Type                    uint8
	Flags                   uint16
	PrimitiveCount          uint16
	BaseOffset              uint32
	CompressionType         uint8
	StubParentName          string
	AuxData                 []byte
	TotalCompressedReadSize uint32
	Primitives              []*Primitive
}

// File is an in-memory container table.
type File struct {
	Version    uint16
	Containers []*Container

	mu sync.Mutex
}

// New returns an empty container table.
func New() *File {
	return &File{Version: Version}
}

// FindContainer returns the container named after the archive, or nil.
// The archive name is compared without its extension.
func (f *File) FindContainer(archiveName string) *Container {
	name := strings.TrimSuffix(archiveName, path.Ext(archiveName))

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Containers {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AddContainer appends c to the table. Safe for concurrent use.
func (f *File) AddContainer(c *Container) {
	f.mu.Lock()
	f.Containers = append(f.Containers, c)
	f.mu.Unlock()
}

// Len returns the number of containers.
func (f *File) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Containers)
}

// Read parses a container table.
func Read(r io.Reader) (*File, error) {
	br := utils.NewBinaryReader(r)

	magic := br.U32()
	version := br.U16()
	count := br.U16()
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("asm: read header: %w", err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: 0x%08X", ErrBadMagic, magic)
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	f := &File{Version: version, Containers: make([]*Container, 0, count)}
	for i := 0; i < int(count); i++ {
		c := &Container{
			Name:                    br.String16(),
			Type:                    br.U8(),
			Flags:                   br.U16(),
			PrimitiveCount:          br.U16(),
			BaseOffset:              br.U32(),
			CompressionType:         br.U8(),
			StubParentName:          br.String16(),
			AuxData:                 br.Blob32(),
			TotalCompressedReadSize: br.U32(),
		}
		c.Primitives = make([]*Primitive, 0, c.PrimitiveCount)
		for j := 0; j < int(c.PrimitiveCount); j++ {
			c.Primitives = append(c.Primitives, &Primitive{
				Name:            br.String16(),
				Type:            br.U8(),
				Allocator:       br.U8(),
				Flags:           br.U8(),
				ExtensionIndex:  br.U8(),
				AllocationGroup: br.U16(),
				CPUSize:         br.U32(),
				GPUSize:         br.U32(),
			})
		}
		if err := br.Err(); err != nil {
			return nil, fmt.Errorf("asm: read container %d: %w", i, err)
		}
		f.Containers = append(f.Containers, c)
	}

	return f, nil
}

// WriteTo serializes the table. Every container must carry a primitive count
// equal to the length of its primitive list.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.Containers) > 0xFFFF {
		return 0, ErrTooManyContainers
	}
	for _, c := range f.Containers {
		if int(c.PrimitiveCount) != len(c.Primitives) {
			return 0, fmt.Errorf("%w: container %s declares %d, has %d",
				ErrPrimitiveCount, c.Name, c.PrimitiveCount, len(c.Primitives))
		}
	}

	bw := utils.NewBinaryWriter(w)
	bw.U32(Magic)
	bw.U16(Version)
	bw.U16(uint16(len(f.Containers)))

	for _, c := range f.Containers {
		bw.String16(c.Name)
		bw.U8(c.Type)
		bw.U16(c.Flags)
		bw.U16(c.PrimitiveCount)
		bw.U32(c.BaseOffset)
		bw.U8(c.CompressionType)
		bw.String16(c.StubParentName)
		bw.Blob32(c.AuxData)
		bw.U32(c.TotalCompressedReadSize)
		for _, p := range c.Primitives {
			bw.String16(p.Name)
			bw.U8(p.Type)
			bw.U8(p.Allocator)
			bw.U8(p.Flags)
			bw.U8(p.ExtensionIndex)
			bw.U16(p.AllocationGroup)
			bw.U32(p.CPUSize)
			bw.U32(p.GPUSize)
		}
	}

	return bw.Written(), bw.Err()
}
