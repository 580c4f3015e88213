package localize

import (
	"fmt"
)

// DefaultFallbackFormat marks a text that has no translation.
const DefaultFallbackFormat = "[format][color:red]%s[/format]"

// TextSource selects where display texts come from.
type TextSource string

const (
	// TextFromStrings looks the old display key up in the source strings.
	TextFromStrings TextSource = "strings"
	// TextFromItemName uses the item name in every language.
	TextFromItemName TextSource = "item_name"
)

// DisplayRef identifies the text an item displays before migration.
type DisplayRef struct {
	ItemName    string
	DisplayName string
	// Key is the string key of DisplayName.
	Key uint32
}

// Resolver builds the display texts of migrated items.
type Resolver struct {
	// Source holds the source install's strings.
	Source *MergeSet
	// Reference is the language fallbacks are taken from. Empty means Reference.
	Reference Language
	// Prefix is prepended to every resolved text.
	Prefix string
	// FallbackFormat wraps untranslated text. Empty means DefaultFallbackFormat.
	FallbackFormat string
	// TextSource defaults to TextFromStrings.
	TextSource TextSource
}

// ResolveDisplayText returns the text for ref in each language.
//
// Localized text is used when the source has it. Otherwise the reference
// language text is wrapped with FallbackFormat; when that is missing too the
// display name itself is wrapped.
func (r *Resolver) ResolveDisplayText(ref DisplayRef, languages []Language) map[Language]string {
	out := make(map[Language]string, len(languages))

	if r.TextSource == TextFromItemName {
		for _, l := range languages {
			out[l] = r.Prefix + ref.ItemName
		}
		return out
	}

	reference := r.Reference
	if reference == "" {
		reference = Reference
	}
	format := r.FallbackFormat
	if format == "" {
		format = DefaultFallbackFormat
	}

	fallback, ok := Lookup(r.Source, reference, ref.Key)
	if !ok {
		fallback = ref.DisplayName
	}
	fallback = fmt.Sprintf(format, fallback)

	for _, l := range languages {
		text, ok := Lookup(r.Source, l, ref.Key)
		if !ok {
			text = fallback
		}
		out[l] = r.Prefix + text
	}
	return out
}
