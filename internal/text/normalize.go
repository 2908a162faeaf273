// Package text normalizes raw input text before grapheme-to-phoneme resolution.
package text

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	numberRegexPattern      = `\d+`
	punctuationRegexPattern = `([;:,.!?¡¿—…"«»“”()])`
	whitespaceRegexPattern  = `\s+`

	ellipsis     = "..."
	ellipsisChar = "…"
	enDash       = "–"
	emDash       = "—"
)

// Normalizer expands abbreviations, spells out integers and detaches
// punctuation so every mark reaches the tokenizer as its own word.
// A Normalizer is safe for concurrent use.
type Normalizer struct {
	numberPattern        *regexp.Regexp
	punctuationPattern   *regexp.Regexp
	whitespacePattern    *regexp.Regexp
	abbreviationReplacer *strings.Replacer
	symbolReplacer       *strings.Replacer
}

// NewNormalizer compiles the normalization patterns.
func NewNormalizer() *Normalizer {
	abbreviations := []string{
		"Mr.", "Mister",
		"Mrs.", "Misses",
		"Ms.", "Miss",
		"Dr.", "Doctor",
		"St.", "Saint",
		"Co.", "Company",
		"Ltd.", "Limited",
		"Corp.", "Corporation",
		"Inc.", "Incorporated",
	}

	return &Normalizer{
		numberPattern:        regexp.MustCompile(numberRegexPattern),
		punctuationPattern:   regexp.MustCompile(punctuationRegexPattern),
		whitespacePattern:    regexp.MustCompile(whitespaceRegexPattern),
		abbreviationReplacer: strings.NewReplacer(abbreviations...),
		symbolReplacer:       strings.NewReplacer(ellipsis, ellipsisChar, enDash, emDash),
	}
}

// Normalize returns text ready to be split on whitespace.
func (n *Normalizer) Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	normalized := n.abbreviationReplacer.Replace(text)
	normalized = n.symbolReplacer.Replace(normalized)
	normalized = n.numberPattern.ReplaceAllStringFunc(normalized, func(s string) string {
		num, err := strconv.Atoi(s)
		if err != nil {
			return s
		}

		return " " + IntegerToWords(num) + " "
	})
	normalized = n.punctuationPattern.ReplaceAllString(normalized, " $1 ")
	normalized = n.whitespacePattern.ReplaceAllString(normalized, " ")

	return strings.TrimSpace(normalized)
}
