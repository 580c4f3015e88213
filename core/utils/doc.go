// Package utils provides small helpers shared by the codecs and the clothing
// feature: table field conversion and a sticky-error little-endian reader and
// writer used by every binary format in core.
package utils
