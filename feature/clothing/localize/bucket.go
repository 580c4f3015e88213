package localize

import (
	"clothing-importer/core/strtable"
)

// bucketSteps are the hash table sizes string files are written with.
var bucketSteps = []uint16{32, 64, 128, 256, 512}

// ChooseBucketCount returns the hash table size for n strings: the first step
// greater than n/5, or 1024.
func ChooseBucketCount(n int) uint16 {
	q := n / 5
	for _, step := range bucketSteps {
		if q < int(step) {
			return step
		}
	}
	return strtable.MaxBucketCount
}

// BuildTable encodes the strings of t as a string file for lang.
func BuildTable(lang Language, bucketCount uint16, t *Table) (*strtable.File, error) {
	f, err := strtable.New(bucketCount, string(lang))
	if err != nil {
		return nil, err
	}
	for _, k := range t.keys {
		f.Add(k, t.texts[k])
	}
	return f, nil
}
