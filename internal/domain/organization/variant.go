package organization

import (
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
)

const (
	// VariantMaxLength bounds the stored variant value.
	VariantMaxLength = 50
	// VariantHelpText is shown next to the variant field in editing forms.
	VariantHelpText = "Optional glimpse form factor for custom look."
)

// Choice is one selectable glimpse variant. The default choice has an empty Value.
type Choice struct {
	Value string
	Label string
}

// Variants holds the glimpse variants editors may pick from.
type Variants struct {
	choices []Choice
}

// NewVariants returns the default choice followed by the configured extras.
func NewVariants(extra ...string) (Variants, error) {
	choices := []Choice{{Value: "", Label: "Default"}}
	seen := map[string]struct{}{}

	for _, raw := range extra {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		if utf8.RuneCountInString(value) > VariantMaxLength {
			return Variants{}, eris.Errorf("glimpse variant %q exceeds %d characters", value, VariantMaxLength)
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		choices = append(choices, Choice{Value: value, Label: labelFor(value)})
	}

	return Variants{choices: choices}, nil
}

// Choices returns the available variants, default first.
func (v Variants) Choices() []Choice {
	out := make([]Choice, len(v.choices))
	copy(out, v.choices)
	return out
}

// Normalise validates variant and maps blank values to nil.
func (v Variants) Normalise(variant *string) (*string, error) {
	if variant == nil {
		return nil, nil
	}

	value := strings.TrimSpace(*variant)
	if value == "" {
		return nil, nil
	}

	if utf8.RuneCountInString(value) > VariantMaxLength {
		return nil, eris.Wrapf(ErrInvalidVariant, "variant %q exceeds %d characters", value, VariantMaxLength)
	}

	for _, choice := range v.choices {
		if choice.Value != "" && choice.Value == value {
			return &value, nil
		}
	}

	return nil, eris.Wrapf(ErrInvalidVariant, "variant %q is not one of the configured choices", value)
}

func labelFor(value string) string {
	words := strings.FieldsFunc(value, func(r rune) bool { return r == '-' || r == '_' })
	for i, word := range words {
		first, size := utf8.DecodeRuneInString(word)
		words[i] = strings.ToUpper(string(first)) + word[size:]
	}
	return strings.Join(words, " ")
}
