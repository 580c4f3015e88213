// Package xtbl reads and writes xtbl table documents.
//
// An xtbl file is an XML document whose records live under one or more Table
// elements. The package keeps the parsed tree as an etree document so that
// callers can move record elements between documents without losing unknown
// fields. Output always uses tab indentation, CRLF line endings, UTF-8 without
// a BOM and no XML declaration, which is what the game's own tables look like.
package xtbl
