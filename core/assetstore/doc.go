// Package assetstore locates files inside a game install.
//
// A game install is a tree of loose files and packfile archives (vpp_pc) whose
// entries are themselves files. The Store indexes both once, then answers
// lookups by base name the way the game's own loader does: case-insensitive,
// loose files first, archives in listing order after that.
//
// # Sources
//
//   - DirSource: a local directory, listed with doublestar.
//   - BucketSource: a bucket prefix reached through storage.Client.
//
// # Operations
//
//   - Open: the bytes of a named file, or ErrNotFound.
//   - OpenIn: the same, restricted to one archive.
//   - Search: all locations whose base name matches a glob.
package assetstore
