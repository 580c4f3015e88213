// Package strtable reads and writes localized string files (le_strings).
//
// A string file maps 32-bit text hashes to UTF-16LE strings for one language
// and stores them in an open hash table whose size (the bucket count) is a
// power of two. Entries of one bucket are contiguous on disk:
//
//	header   magic u32, version u16, bucket count u16, entry count u32, text size u32
//	buckets  entry count u32, first entry index u32 (one per bucket)
//	entries  hash u32, text offset u32
//	text     null-terminated UTF-16LE strings
//
// Choosing the bucket count is the caller's job.
package strtable
