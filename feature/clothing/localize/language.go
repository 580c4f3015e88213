package localize

import (
	"path"
	"strings"

	"golang.org/x/text/language"
)

// Language is a lower-case game language code such as "us" or "de".
type Language string

// Reference is the language fallback texts are taken from.
const Reference Language = "us"

var languageTags = map[Language]language.Tag{
	"us": language.AmericanEnglish,
	"es": language.Spanish,
	"it": language.Italian,
	"jp": language.Japanese,
	"de": language.German,
	"fr": language.French,
	"nl": language.Dutch,
	"se": language.Swedish,
	"dk": language.Danish,
	"cz": language.Czech,
	"pl": language.Polish,
	"sk": language.Korean,
	"ru": language.Russian,
	"ch": language.Chinese,
	"br": language.BrazilianPortuguese,
}

// ParseLanguage returns the language for a game language code.
func ParseLanguage(code string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(code)))
	_, ok := languageTags[l]
	return l, ok
}

// LanguageFromFilename returns the language encoded in a string file name,
// e.g. "static_us.le_strings" is "us".
func LanguageFromFilename(name string) (Language, bool) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	code := base
	if i := strings.LastIndex(base, "_"); i >= 0 {
		code = base[i+1:]
	}
	return ParseLanguage(code)
}

// Tag returns the BCP 47 tag of the language, or language.Und.
func (l Language) Tag() language.Tag {
	if tag, ok := languageTags[l]; ok {
		return tag
	}
	return language.Und
}

func (l Language) String() string {
	return string(l)
}
