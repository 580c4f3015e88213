package localize

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLanguageFromFilename(t *testing.T) {
	tests := []struct {
		file   string
		want   Language
		wantOK bool
	}{
		{"static_us.le_strings", "us", true},
		{"packfiles/pc/cache/dlc1_static_DE.le_strings", "de", true},
		{`data\strings\ui_jp.le_strings`, "jp", true},
		{"us.le_strings", "us", true},
		{"static_xx.le_strings", "xx", false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, ok := LanguageFromFilename(tt.file)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLanguage_Tag(t *testing.T) {
	assert.Equal(t, language.AmericanEnglish, Language("us").Tag())
	assert.Equal(t, language.Japanese, Language("jp").Tag())
	assert.Equal(t, language.Und, Language("xx").Tag())
}

func TestMergeSet_FirstWriterWins(t *testing.T) {
	s := NewMergeSet("us")

	assert.True(t, s.Insert("us", 7, "A"))
	assert.False(t, s.Insert("us", 7, "B"))
	assert.True(t, s.Insert("de", 7, "C"))

	text, ok := Lookup(s, "us", 7)
	require.True(t, ok)
	assert.Equal(t, "A", text)

	text, ok = Lookup(s, "de", 7)
	require.True(t, ok)
	assert.Equal(t, "C", text)

	_, ok = Lookup(s, "fr", 7)
	assert.False(t, ok)
	_, ok = Lookup(nil, "us", 7)
	assert.False(t, ok)

	assert.Equal(t, []Language{"us", "de"}, s.Languages())
}

func TestMergeSet_ConcurrentInsert(t *testing.T) {
	s := NewMergeSet()

	var wg sync.WaitGroup
	wins := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text := string(rune('a' + i))
			if s.Insert("us", 1, text) {
				wins <- text
			}
		}()
	}
	wg.Wait()
	close(wins)

	var winners []string
	for w := range wins {
		winners = append(winners, w)
	}
	require.Len(t, winners, 1)

	text, _ := s.Get("us", 1)
	assert.Equal(t, winners[0], text)
}

func TestMergeSet_TableSnapshot(t *testing.T) {
	s := NewMergeSet()
	s.Insert("us", 3, "three")
	s.Insert("us", 1, "one")

	snap, ok := s.Table("us")
	require.True(t, ok)
	s.Insert("us", 2, "two")

	assert.Equal(t, []uint32{3, 1}, snap.Keys())
	_, ok = s.Table("de")
	assert.False(t, ok)
}

func TestResolveDisplayText(t *testing.T) {
	source := NewMergeSet()
	source.Insert("us", 10, "Riot Gear")
	source.Insert("de", 10, "Schutzausrüstung")

	ref := DisplayRef{ItemName: "riot_gear", DisplayName: "CUST_RIOT_GEAR", Key: 10}
	languages := []Language{"us", "de", "fr"}

	t.Run("Strings", func(t *testing.T) {
		r := &Resolver{Source: source, Prefix: "SRTT: "}
		got := r.ResolveDisplayText(ref, languages)
		assert.Equal(t, map[Language]string{
			"us": "SRTT: Riot Gear",
			"de": "SRTT: Schutzausrüstung",
			"fr": "SRTT: [format][color:red]Riot Gear[/format]",
		}, got)
	})

	t.Run("MissingReference", func(t *testing.T) {
		r := &Resolver{Source: source, Prefix: "SRTT: "}
		got := r.ResolveDisplayText(DisplayRef{ItemName: "hat", DisplayName: "CUST_HAT", Key: 99}, []Language{"us"})
		assert.Equal(t, "SRTT: [format][color:red]CUST_HAT[/format]", got["us"])
	})

	t.Run("CustomFallback", func(t *testing.T) {
		r := &Resolver{Source: source, FallbackFormat: "<%s?>"}
		got := r.ResolveDisplayText(ref, []Language{"fr"})
		assert.Equal(t, "<Riot Gear?>", got["fr"])
	})

	t.Run("ItemName", func(t *testing.T) {
		r := &Resolver{Source: source, Prefix: "SRG: ", TextSource: TextFromItemName}
		got := r.ResolveDisplayText(ref, languages)
		for _, l := range languages {
			assert.Equal(t, "SRG: riot_gear", got[l])
		}
	})
}

func TestChooseBucketCount(t *testing.T) {
	tests := []struct {
		n    int
		want uint16
	}{
		{0, 32},
		{159, 32},
		{160, 64},
		{319, 64},
		{320, 128},
		{639, 128},
		{640, 256},
		{1279, 256},
		{1280, 512},
		{2559, 512},
		{2560, 1024},
		{100000, 1024},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ChooseBucketCount(tt.n), "n=%d", tt.n)
	}
}

func TestBuildTable(t *testing.T) {
	table := NewTable()
	table.Insert(5, "five")
	table.Insert(2, "two")

	f, err := BuildTable("de", ChooseBucketCount(table.Len()), table)
	require.NoError(t, err)
	assert.Equal(t, "de", f.Language)
	assert.Equal(t, uint16(32), f.BucketCount)
	assert.Equal(t, []uint32{5, 2}, f.Hashes())

	_, err = BuildTable("de", 33, table)
	assert.Error(t, err)
}
