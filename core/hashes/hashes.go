package hashes

import (
	"strconv"

	"github.com/klauspost/crc32"
)

// CrcText returns the Volition CRC of text.
// ASCII upper-case letters are folded to lower-case before hashing, the
// register starts at zero and the result is not inverted.
func CrcText(text string) uint32 {
	return update(0, text)
}

// CustomizationItemCrc returns the content hash the asset loader uses to
// name the archives of one customization item mesh variant.
// The value is signed because the loader formats it as a signed decimal.
func CustomizationItemCrc(itemName, meshFilename string, variantID uint32) int32 {
	crc := update(0, itemName)
	crc = update(crc, meshFilename)
	crc = update(crc, strconv.FormatUint(uint64(variantID), 10))
	return int32(crc)
}

// update continues a raw (non-inverted) CRC register over the folded text.
func update(register uint32, text string) uint32 {
	buf := []byte(text)
	for i, b := range buf {
		if b >= 'A' && b <= 'Z' {
			buf[i] = b + ('a' - 'A')
		}
	}
	// crc32.Update inverts on the way in and out; undo both.
	return ^crc32.Update(^register, crc32.IEEETable, buf)
}
