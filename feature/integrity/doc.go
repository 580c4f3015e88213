// Package integrity verifies the output of a migration run.
//
// Unlike the clothing package, which produces the output, this package only
// reads it back and reports what does not hold.
//
// # Checks Provided
//
//   - Output: the catalog, the container table and the string files exist.
//   - Strings: every string file decodes and its bucket count fits its size.
//   - Archives: every cloned archive has a container record whose offsets
//     add up to the file size and whose primitives are entries of the archive.
//   - Ledger: the connected database schema matches the outcome model.
//   - Published: every output file has an object below the publish prefix.
package integrity
