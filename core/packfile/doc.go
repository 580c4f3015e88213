// Package packfile reads and writes version 10 packfiles (vpp_pc, str2_pc).
//
// # Layout
//
// A packfile is a fixed 32 byte header, one 16 byte record per entry, a block
// of null-terminated entry names, padding to a 16 byte boundary and the data
// block. All integers are little-endian.
//
//	header  magic, version, flags, entry count, names size,
//	        data offset, data size, stored data size
//	record  name offset, data offset, size, stored size
//
// # Storage modes
//
//   - plain: payloads padded to 16 bytes.
//   - condensed: payloads back to back.
//   - compressed: every payload is its own zlib stream, padded to 16 bytes.
//   - compressed and condensed: the concatenated payloads form one zlib stream.
//     This is the mode used for rebuilt custmesh archives.
//
// Save returns a Layout describing the bytes it wrote; Layout.Update copies
// those offsets and sizes into the archive's container table record.
package packfile
