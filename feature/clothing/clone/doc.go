// Package clone rebuilds source mesh archives for the destination install.
//
// A clone succeeds only when the source store has both the archive bytes and a
// container record for it. The rebuilt archive holds every source entry in
// source order, plus the cloth simulation file when one applies, and is
// written compressed and condensed. The destination container is then sized
// from the written bytes, never from the source record.
//
// # Hooks
//
// An EntryHook sees the source entries after they were copied. MorphExtractor
// is the hook that writes morph targets to a staging directory.
package clone
