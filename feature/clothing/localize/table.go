package localize

import (
	"sync"

	"clothing-importer/core/strtable"
)

// Table maps string keys to text for one language.
// The first text inserted for a key is kept.
type Table struct {
	keys  []uint32
	texts map[uint32]string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{texts: make(map[uint32]string)}
}

// Insert stores text under key unless key is present. It reports whether it stored.
func (t *Table) Insert(key uint32, text string) bool {
	if _, ok := t.texts[key]; ok {
		return false
	}
	t.texts[key] = text
	t.keys = append(t.keys, key)
	return true
}

// Get returns the text stored under key.
func (t *Table) Get(key uint32) (string, bool) {
	text, ok := t.texts[key]
	return text, ok
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []uint32 {
	return append([]uint32(nil), t.keys...)
}

// Len returns the number of keys.
func (t *Table) Len() int {
	return len(t.keys)
}

// MergeSet holds one Table per language.
type MergeSet struct {
	mu     sync.Mutex
	tables map[Language]*Table
	order  []Language
}

// NewMergeSet returns a set with an empty table for each language.
func NewMergeSet(languages ...Language) *MergeSet {
	s := &MergeSet{tables: make(map[Language]*Table)}
	for _, l := range languages {
		s.table(l)
	}
	return s
}

// table returns the table for lang, creating it. Callers hold mu.
func (s *MergeSet) table(lang Language) *Table {
	t, ok := s.tables[lang]
	if !ok {
		t = NewTable()
		s.tables[lang] = t
		s.order = append(s.order, lang)
	}
	return t
}

// Insert stores text under key for lang unless the key is present.
func (s *MergeSet) Insert(lang Language, key uint32, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table(lang).Insert(key, text)
}

// MergeFile inserts every string of f under lang in file order and returns
// the number of new keys.
func (s *MergeSet) MergeFile(lang Language, f *strtable.File) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(lang)
	added := 0
	for _, h := range f.Hashes() {
		text, _ := f.Get(h)
		if t.Insert(h, text) {
			added++
		}
	}
	return added
}

// Get returns the text stored under key for lang.
func (s *MergeSet) Get(lang Language, key uint32) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[lang]
	if !ok {
		return "", false
	}
	return t.Get(key)
}

// Table returns a snapshot of the table for lang.
func (s *MergeSet) Table(lang Language) (*Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[lang]
	if !ok {
		return nil, false
	}
	snap := NewTable()
	for _, k := range t.keys {
		snap.Insert(k, t.texts[k])
	}
	return snap, true
}

// Languages returns the languages in the order they were first seen.
func (s *MergeSet) Languages() []Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Language(nil), s.order...)
}

// Lookup returns the text for key in lang, or false when either is unknown.
func Lookup(source *MergeSet, lang Language, key uint32) (string, bool) {
	if source == nil {
		return "", false
	}
	return source.Get(lang, key)
}
