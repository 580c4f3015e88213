package utils

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// ErrStringTooLong is returned when a length-prefixed string does not fit its prefix.
var ErrStringTooLong = errors.New("utils: string too long for length prefix")

// BinaryReader reads little-endian fields and keeps the first error.
// Once an error occurs every further read returns zero values.
type BinaryReader struct {
	r   io.Reader
	n   int64
	err error
}

// NewBinaryReader wraps r.
func NewBinaryReader(r io.Reader) *BinaryReader {
	return &BinaryReader{r: r}
}

// Err returns the first error encountered.
func (br *BinaryReader) Err() error {
	if errors.Is(br.err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return br.err
}

// Offset returns the number of bytes consumed so far.
func (br *BinaryReader) Offset() int64 {
	return br.n
}

// chunkSize bounds the up-front allocation of a read. Longer reads grow with
// the data actually received, so a corrupt length cannot exhaust memory.
const chunkSize = 64 << 10

// Bytes reads exactly n bytes.
func (br *BinaryReader) Bytes(n int) []byte {
	if br.err != nil || n < 0 {
		return nil
	}
	if n <= chunkSize {
		buf := make([]byte, n)
		read, err := io.ReadFull(br.r, buf)
		br.n += int64(read)
		if err != nil {
			br.err = err
			return nil
		}
		return buf
	}

	var buf bytes.Buffer
	buf.Grow(chunkSize)
	read, err := io.CopyN(&buf, br.r, int64(n))
	br.n += read
	if err != nil {
		br.err = io.ErrUnexpectedEOF
		return nil
	}
	return buf.Bytes()
}

func (br *BinaryReader) U8() uint8 {
	b := br.Bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (br *BinaryReader) U16() uint16 {
	b := br.Bytes(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (br *BinaryReader) U32() uint32 {
	b := br.Bytes(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// String16 reads a string prefixed with its uint16 byte length.
func (br *BinaryReader) String16() string {
	n := br.U16()
	return string(br.Bytes(int(n)))
}

// Blob32 reads a byte slice prefixed with its uint32 length.
func (br *BinaryReader) Blob32() []byte {
	n := br.U32()
	if n == 0 {
		return nil
	}
	return br.Bytes(int(n))
}

// BinaryWriter writes little-endian fields and keeps the first error.
type BinaryWriter struct {
	w   io.Writer
	n   int64
	err error
}

// NewBinaryWriter wraps w.
func NewBinaryWriter(w io.Writer) *BinaryWriter {
	return &BinaryWriter{w: w}
}

// Err returns the first error encountered.
func (bw *BinaryWriter) Err() error {
	return bw.err
}

// Written returns the number of bytes written so far.
func (bw *BinaryWriter) Written() int64 {
	return bw.n
}

func (bw *BinaryWriter) Bytes(b []byte) {
	if bw.err != nil {
		return
	}
	n, err := bw.w.Write(b)
	bw.n += int64(n)
	bw.err = err
}

func (bw *BinaryWriter) U8(v uint8) {
	bw.Bytes([]byte{v})
}

func (bw *BinaryWriter) U16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	bw.Bytes(b[:])
}

func (bw *BinaryWriter) U32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	bw.Bytes(b[:])
}

// String16 writes s prefixed with its uint16 byte length.
func (bw *BinaryWriter) String16(s string) {
	if len(s) > 0xFFFF {
		if bw.err == nil {
			bw.err = ErrStringTooLong
		}
		return
	}
	bw.U16(uint16(len(s)))
	bw.Bytes([]byte(s))
}

// Blob32 writes b prefixed with its uint32 length.
func (bw *BinaryWriter) Blob32(b []byte) {
	bw.U32(uint32(len(b)))
	bw.Bytes(b)
}

// Pad writes zero bytes until the written count is a multiple of align.
func (bw *BinaryWriter) Pad(align int64) {
	if align <= 1 {
		return
	}
	if rem := bw.n % align; rem != 0 {
		bw.Bytes(make([]byte, align-rem))
	}
}
