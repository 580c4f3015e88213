package localize

import (
	"bytes"
	"context"
	"testing"
	"testing/fstest"

	"clothing-importer/core/assetstore"
	"clothing-importer/core/strtable"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func encodeStrings(t *testing.T, lang string, pairs map[uint32]string, order ...uint32) []byte {
	t.Helper()
	f, err := strtable.New(32, lang)
	require.NoError(t, err)
	for _, k := range order {
		f.Add(k, pairs[k])
	}
	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func stringsStore(t *testing.T) *assetstore.Store {
	fsys := fstest.MapFS{
		"a/static_us.le_strings": {Data: encodeStrings(t, "us", map[uint32]string{1: "first", 2: "two"}, 1, 2)},
		"a/static_de.le_strings": {Data: encodeStrings(t, "de", map[uint32]string{1: "erste"}, 1)},
		"b/extra_us.le_strings":  {Data: encodeStrings(t, "us", map[uint32]string{1: "second", 3: "three"}, 1, 3)},
		"c/static_xx.le_strings": {Data: []byte("unknown language, never decoded")},
	}
	return assetstore.New(assetstore.NewFSSource(fsys), ".vpp_pc", nil)
}

func TestLoadLanguageFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	set, err := LoadLanguageFiles(context.Background(), stringsStore(t), DefaultPattern, nil)
	require.NoError(t, err)

	text, ok := Lookup(set, "us", 1)
	require.True(t, ok)
	assert.Equal(t, "first", text, "earlier file wins")

	text, _ = Lookup(set, "us", 3)
	assert.Equal(t, "three", text)
	text, _ = Lookup(set, "de", 1)
	assert.Equal(t, "erste", text)

	assert.ElementsMatch(t, []Language{"us", "de"}, set.Languages())
}

func TestLoadLanguageFiles_Corrupt(t *testing.T) {
	defer goleak.VerifyNone(t)

	fsys := fstest.MapFS{
		"static_us.le_strings": {Data: []byte("garbage")},
		"static_de.le_strings": {Data: encodeStrings(t, "de", map[uint32]string{1: "erste"}, 1)},
	}
	store := assetstore.New(assetstore.NewFSSource(fsys), ".vpp_pc", nil)

	_, err := LoadLanguageFiles(context.Background(), store, DefaultPattern, nil)
	assert.ErrorContains(t, err, "static_us.le_strings")
}

func TestLanguages(t *testing.T) {
	langs, err := Languages(context.Background(), stringsStore(t), DefaultPattern, nil)
	require.NoError(t, err)
	assert.Equal(t, []Language{"de", "us"}, langs)
}
