// Package localize merges the localized display strings of migrated items.
//
// # Languages
//
// String files are named <prefix>_<code>.le_strings; the code after the last
// underscore selects the Language. Codes without a known language are ignored.
//
// # Merging
//
// A MergeSet holds one Table per language. Inserting a key that is already
// present is a no-op, so the first text written for a key wins no matter how
// many source files or items later provide one. MergeSet is safe for
// concurrent use.
//
// # Resolution
//
// Resolver turns an item's old display-name reference into the text written
// under its new key, for every destination language. Missing translations fall
// back to the reference language wrapped in a visible marker.
//
// # Output
//
// ChooseBucketCount sizes a string file's hash table from its entry count;
// BuildTable encodes a Table with core/strtable.
package localize
