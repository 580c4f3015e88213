// Package asm reads and writes container tables (asm_pc files).
//
// A container table lists, for every streamed archive, the packing parameters
// the engine needs before it opens the archive: compression codec, base offset,
// the total number of compressed bytes to read, and the primitives the archive
// provides.
//
// # Layout
//
// All integers are little-endian. Strings are prefixed with a uint16 byte length,
// the aux blob with a uint32 length.
//
//	header     magic u32, version u16, container count u16
//	container  name, type u8, flags u16, primitive count u16, base offset u32,
//	           compression u8, stub parent name, aux blob, total compressed read size u32
//	primitive  name, type u8, allocator u8, flags u8, extension index u8,
//	           allocation group u16, cpu size u32, gpu size u32
//
// # Invariants
//
// WriteTo refuses a table where a container's PrimitiveCount differs from the
// length of its primitive list, so a table on disk is always self-consistent.
package asm
