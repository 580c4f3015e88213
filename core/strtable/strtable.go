package strtable

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/bits"

	"clothing-importer/core/utils"

	"golang.org/x/text/encoding/unicode"
)

const (
	// Magic identifies a localized string file.
	Magic uint32 = 0xA84C7F73

	// Version is the string file version read and written by this package.
	Version uint16 = 1

	// MaxBucketCount is the largest hash table a string file may declare.
	MaxBucketCount = 1024
)

var (
	ErrBadMagic           = errors.New("strtable: bad magic")
	ErrUnsupportedVersion = errors.New("strtable: unsupported version")
	ErrBucketCount        = errors.New("strtable: bucket count must be a power of two between 1 and 1024")
	ErrCorrupt            = errors.New("strtable: corrupt string file")
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

type entry struct {
	hash uint32
	text string
}

// File is a hash-keyed string file for a single language.
type File struct {
	Language    string
	BucketCount uint16

	entries []entry
	index   map[uint32]int
}

// New returns an empty string file with the given hash table size.
func New(bucketCount uint16, language string) (*File, error) {
	if !validBucketCount(bucketCount) {
		return nil, fmt.Errorf("%w: %d", ErrBucketCount, bucketCount)
	}
	return &File{
		Language:    language,
		BucketCount: bucketCount,
		index:       make(map[uint32]int),
	}, nil
}

func validBucketCount(n uint16) bool {
	return n > 0 && n <= MaxBucketCount && bits.OnesCount16(n) == 1
}

// Add stores text under hash. An existing hash is kept and Add reports false.
func (f *File) Add(hash uint32, text string) bool {
	if _, ok := f.index[hash]; ok {
		return false
	}
	f.index[hash] = len(f.entries)
	f.entries = append(f.entries, entry{hash: hash, text: text})
	return true
}

// Get returns the text stored under hash.
func (f *File) Get(hash uint32) (string, bool) {
	i, ok := f.index[hash]
	if !ok {
		return "", false
	}
	return f.entries[i].text, true
}

// Hashes returns all keys in file order.
func (f *File) Hashes() []uint32 {
	out := make([]uint32, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.hash
	}
	return out
}

// Len returns the number of strings.
func (f *File) Len() int {
	return len(f.entries)
}

// Read parses a string file. language labels the result; it is not stored on disk.
func Read(r io.Reader, language string) (*File, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("strtable: read: %w", err)
	}

	br := utils.NewBinaryReader(bytes.NewReader(raw))
	magic := br.U32()
	version := br.U16()
	bucketCount := br.U16()
	count := br.U32()
	textSize := br.U32()
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("strtable: read header: %w", err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: 0x%08X", ErrBadMagic, magic)
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	f, err := New(bucketCount, language)
	if err != nil {
		return nil, err
	}

	body := uint64(bucketCount)*8 + uint64(count)*8 + uint64(textSize)
	if remaining := uint64(len(raw)) - uint64(br.Offset()); body > remaining {
		return nil, fmt.Errorf("%w: %d entries and %d text bytes exceed file", ErrCorrupt, count, textSize)
	}

	// Bucket records are derivable from the entries, so they are only skipped.
	br.Bytes(int(bucketCount) * 8)

	type ref struct{ hash, offset uint32 }
	refs := make([]ref, count)
	for i := range refs {
		refs[i] = ref{hash: br.U32(), offset: br.U32()}
	}
	text := br.Bytes(int(textSize))
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("strtable: read entries: %w", err)
	}

	for _, rf := range refs {
		s, err := decodeAt(text, rf.offset)
		if err != nil {
			return nil, fmt.Errorf("strtable: entry 0x%08X: %w", rf.hash, err)
		}
		f.Add(rf.hash, s)
	}
	return f, nil
}

func decodeAt(text []byte, offset uint32) (string, error) {
	if offset%2 != 0 || int(offset) >= len(text) {
		return "", fmt.Errorf("%w: text offset %d", ErrCorrupt, offset)
	}
	end := -1
	for i := int(offset); i+1 < len(text); i += 2 {
		if text[i] == 0 && text[i+1] == 0 {
			end = i
			break
		}
	}
	if end < 0 {
		return "", fmt.Errorf("%w: unterminated text", ErrCorrupt)
	}
	out, err := utf16le.NewDecoder().Bytes(text[offset:end])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return string(out), nil
}

// WriteTo serializes the file. Entries are grouped by bucket (hash masked by
// the bucket count) and keep insertion order within a bucket.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	mask := uint32(f.BucketCount) - 1

	buckets := make([][]entry, f.BucketCount)
	for _, e := range f.entries {
		b := e.hash & mask
		buckets[b] = append(buckets[b], e)
	}

	var text bytes.Buffer
	enc := utf16le.NewEncoder()
	offsets := make(map[uint32]uint32, len(f.entries))
	for _, bucket := range buckets {
		for _, e := range bucket {
			encoded, err := enc.Bytes([]byte(e.text))
			if err != nil {
				return 0, fmt.Errorf("strtable: encode 0x%08X: %w", e.hash, err)
			}
			offsets[e.hash] = uint32(text.Len())
			text.Write(encoded)
			text.Write([]byte{0, 0})
		}
	}

	bw := utils.NewBinaryWriter(w)
	bw.U32(Magic)
	bw.U16(Version)
	bw.U16(f.BucketCount)
	bw.U32(uint32(len(f.entries)))
	bw.U32(uint32(text.Len()))

	first := uint32(0)
	for _, bucket := range buckets {
		bw.U32(uint32(len(bucket)))
		bw.U32(first)
		first += uint32(len(bucket))
	}
	for _, bucket := range buckets {
		for _, e := range bucket {
			bw.U32(e.hash)
			bw.U32(offsets[e.hash])
		}
	}
	bw.Bytes(text.Bytes())

	return bw.Written(), bw.Err()
}
