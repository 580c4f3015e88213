// Package hashes provides the hash primitives shared by the destination
// asset loader and the migration pipeline.
//
// # Functions
//
//   - CrcText: the 32-bit Volition CRC used for string-table keys.
//   - CustomizationItemCrc: the composite hash over (item name, mesh filename,
//     variant id) used to name custmesh archives.
//
// Both are pure functions. Any deviation from the loader's hash silently breaks
// asset resolution in the game, so the reference vectors in hashes_test.go
// must never be changed without a matching change in the loader.
package hashes
