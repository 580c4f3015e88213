package packfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"clothing-importer/core/utils"

	"github.com/klauspost/compress/zlib"
)

const (
	// Magic identifies a packfile.
	Magic uint32 = 0x51890ACE

	// Version10 is the packfile version written for the destination game.
	Version10 uint32 = 0x0A

	headerSize = 32
	recordSize = 16
	alignment  = 16

	// maxInflated caps the declared size of one inflated stream.
	maxInflated = 1<<31 - 1
)

const (
	flagCompressed uint32 = 1 << 0
	flagCondensed  uint32 = 1 << 1
)

var (
	ErrBadMagic           = errors.New("packfile: bad magic")
	ErrUnsupportedVersion = errors.New("packfile: unsupported version")
	ErrDuplicateEntry     = errors.New("packfile: duplicate entry")
	ErrCorrupt            = errors.New("packfile: corrupt archive")
)

// Options controls how entry data is stored.
type Options struct {
	// Compressed stores entry data as zlib streams.
	Compressed bool
	// Condensed packs entries back to back without alignment padding. Combined
	// with Compressed the whole data block becomes a single zlib stream.
	Condensed bool
}

func (o Options) flags() uint32 {
	var f uint32
	if o.Compressed {
		f |= flagCompressed
	}
	if o.Condensed {
		f |= flagCondensed
	}
	return f
}

// Entry is a named payload inside an archive.
type Entry struct {
	Name string
	Data []byte
}

// Archive is an in-memory packfile. Entries keep insertion order.
type Archive struct {
	Version uint32
	Options Options

	entries []*Entry
	index   map[string]int
}

// New returns an empty archive.
func New(version uint32, opts Options) *Archive {
	return &Archive{Version: version, Options: opts, index: make(map[string]int)}
}

// Entries returns the entries in archive order.
func (a *Archive) Entries() []*Entry {
	return a.entries
}

// Len returns the number of entries.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Get returns the entry with exactly this name.
func (a *Archive) Get(name string) (*Entry, bool) {
	i, ok := a.index[name]
	if !ok {
		return nil, false
	}
	return a.entries[i], true
}

// Contains reports whether an entry with exactly this name exists.
func (a *Archive) Contains(name string) bool {
	_, ok := a.index[name]
	return ok
}

// Add appends a named entry.
func (a *Archive) Add(name string, data []byte) error {
	if a.Contains(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, name)
	}
	a.index[name] = len(a.entries)
	a.entries = append(a.entries, &Entry{Name: name, Data: data})
	return nil
}

// AddFrom appends an entry whose bytes are read from r.
func (a *Archive) AddFrom(name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("packfile: read entry %s: %w", name, err)
	}
	return a.Add(name, data)
}

type record struct {
	nameOffset uint32
	dataOffset uint32
	size       uint32
	storedSize uint32
}

// Read parses a whole packfile from r.
func Read(r io.Reader) (*Archive, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("packfile: read: %w", err)
	}

	br := utils.NewBinaryReader(bytes.NewReader(raw))
	magic := br.U32()
	version := br.U32()
	flags := br.U32()
	count := br.U32()
	namesSize := br.U32()
	dataOffset := br.U32()
	dataSize := br.U32()
	storedSize := br.U32()
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("packfile: read header: %w", err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: 0x%08X", ErrBadMagic, magic)
	}
	if version != Version10 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	directory := uint64(count)*recordSize + uint64(namesSize)
	if directory > uint64(len(raw)-headerSize) {
		return nil, fmt.Errorf("%w: directory of %d entries exceeds file", ErrCorrupt, count)
	}

	records := make([]record, count)
	for i := range records {
		records[i] = record{
			nameOffset: br.U32(),
			dataOffset: br.U32(),
			size:       br.U32(),
			storedSize: br.U32(),
		}
	}
	names := br.Bytes(int(namesSize))
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("packfile: read directory: %w", err)
	}
	if uint64(dataOffset)+uint64(storedSize) > uint64(len(raw)) {
		return nil, fmt.Errorf("%w: data block exceeds file", ErrCorrupt)
	}

	a := New(version, Options{
		Compressed: flags&flagCompressed != 0,
		Condensed:  flags&flagCondensed != 0,
	})
	block := raw[dataOffset : dataOffset+storedSize]

	if a.Options.Compressed && a.Options.Condensed {
		block, err = inflate(block, int(dataSize))
		if err != nil {
			return nil, err
		}
	}

	for i, rec := range records {
		name, err := cString(names, rec.nameOffset)
		if err != nil {
			return nil, fmt.Errorf("packfile: entry %d: %w", i, err)
		}

		var data []byte
		switch {
		case a.Options.Compressed && !a.Options.Condensed:
			stored, err := slice(block, rec.dataOffset, rec.storedSize)
			if err != nil {
				return nil, fmt.Errorf("packfile: entry %s: %w", name, err)
			}
			if data, err = inflate(stored, int(rec.size)); err != nil {
				return nil, err
			}
		default:
			stored, err := slice(block, rec.dataOffset, rec.size)
			if err != nil {
				return nil, fmt.Errorf("packfile: entry %s: %w", name, err)
			}
			data = bytes.Clone(stored)
		}

		if err := a.Add(name, data); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Save writes the archive to w and returns the physical layout of what was written.
func (a *Archive) Save(w io.Writer) (*Layout, error) {
	var names bytes.Buffer
	records := make([]record, len(a.entries))
	for i, e := range a.entries {
		records[i].nameOffset = uint32(names.Len())
		names.WriteString(e.Name)
		names.WriteByte(0)
	}

	block, dataSize, err := a.buildData(records)
	if err != nil {
		return nil, err
	}

	dataOffset := align(headerSize + recordSize*len(records) + names.Len())

	bw := utils.NewBinaryWriter(w)
	bw.U32(Magic)
	bw.U32(a.Version)
	bw.U32(a.Options.flags())
	bw.U32(uint32(len(records)))
	bw.U32(uint32(names.Len()))
	bw.U32(uint32(dataOffset))
	bw.U32(uint32(dataSize))
	bw.U32(uint32(len(block)))
	for _, rec := range records {
		bw.U32(rec.nameOffset)
		bw.U32(rec.dataOffset)
		bw.U32(rec.size)
		bw.U32(rec.storedSize)
	}
	bw.Bytes(names.Bytes())
	bw.Pad(alignment)
	bw.Bytes(block)
	if err := bw.Err(); err != nil {
		return nil, fmt.Errorf("packfile: write: %w", err)
	}

	layout := &Layout{
		DataOffset:     uint32(dataOffset),
		DataSize:       uint32(dataSize),
		StoredDataSize: uint32(len(block)),
		FileSize:       uint32(bw.Written()),
		Compressed:     a.Options.Compressed,
		entrySizes:     make(map[string]uint32, len(a.entries)),
	}
	for _, e := range a.entries {
		layout.entrySizes[e.Name] = uint32(len(e.Data))
	}
	return layout, nil
}

// buildData lays out entry payloads and fills in the data fields of records.
// It returns the stored block and the uncompressed data size.
func (a *Archive) buildData(records []record) ([]byte, int, error) {
	var block bytes.Buffer
	offset := 0

	for i, e := range a.entries {
		records[i].size = uint32(len(e.Data))

		switch {
		case a.Options.Compressed && a.Options.Condensed:
			records[i].dataOffset = uint32(offset)
			records[i].storedSize = uint32(len(e.Data))
			block.Write(e.Data)
			offset += len(e.Data)

		case a.Options.Compressed:
			packed, err := deflate(e.Data)
			if err != nil {
				return nil, 0, err
			}
			records[i].dataOffset = uint32(block.Len())
			records[i].storedSize = uint32(len(packed))
			block.Write(packed)
			offset += len(e.Data)
			block.Write(make([]byte, align(block.Len())-block.Len()))

		default:
			records[i].dataOffset = uint32(block.Len())
			records[i].storedSize = uint32(len(e.Data))
			block.Write(e.Data)
			offset += len(e.Data)
			if !a.Options.Condensed {
				block.Write(make([]byte, align(block.Len())-block.Len()))
			}
		}
	}

	if a.Options.Compressed && a.Options.Condensed {
		packed, err := deflate(block.Bytes())
		if err != nil {
			return nil, 0, err
		}
		return packed, offset, nil
	}
	return block.Bytes(), offset, nil
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("packfile: compress: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("packfile: compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("packfile: compress: %w", err)
	}
	return buf.Bytes(), nil
}

func inflate(data []byte, size int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer zr.Close()

	if size < 0 || size > maxInflated {
		return nil, fmt.Errorf("%w: inflated size %d out of range", ErrCorrupt, size)
	}

	var out bytes.Buffer
	out.Grow(min(size, 4*len(data)+alignment))
	if _, err := io.CopyN(&out, zr, int64(size)); err != nil {
		return nil, fmt.Errorf("%w: inflate: %v", ErrCorrupt, err)
	}
	return out.Bytes(), nil
}

func cString(names []byte, offset uint32) (string, error) {
	if int(offset) >= len(names) {
		return "", fmt.Errorf("%w: name offset out of range", ErrCorrupt)
	}
	end := bytes.IndexByte(names[offset:], 0)
	if end < 0 {
		return "", fmt.Errorf("%w: unterminated name", ErrCorrupt)
	}
	return string(names[offset : int(offset)+end]), nil
}

func slice(block []byte, offset, size uint32) ([]byte, error) {
	if uint64(offset)+uint64(size) > uint64(len(block)) {
		return nil, fmt.Errorf("%w: entry exceeds data block", ErrCorrupt)
	}
	return block[offset : offset+size], nil
}

func align(n int) int {
	return (n + alignment - 1) &^ (alignment - 1)
}
