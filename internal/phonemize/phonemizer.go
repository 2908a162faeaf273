package phonemize

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// FallbackPolicy decides what happens to a word that is neither in the
// dictionary nor parsable as an ad-hoc entry.
type FallbackPolicy int

const (
	// FallbackSpellOut emits the uppercased word unchanged.
	FallbackSpellOut FallbackPolicy = iota
	// FallbackDrop omits the word from the utterance.
	FallbackDrop
)

// Fallback policy names accepted in configuration.
const (
	fallbackSpellOutName = "spell_out"
	fallbackDropName     = "drop"
)

// ErrUnknownFallbackPolicy is returned by ParseFallbackPolicy.
var ErrUnknownFallbackPolicy = errors.New("unknown fallback policy")

const wordSeparator = " "

// Option configures a Phonemizer.
type Option func(*Phonemizer)

// WithFallback sets the policy for unresolvable words.
func WithFallback(policy FallbackPolicy) Option {
	return func(p *Phonemizer) {
		p.fallback = policy
	}
}

// WithStress sets the stress folding policy.
func WithStress(policy StressPolicy) Option {
	return func(p *Phonemizer) {
		p.stress = policy
	}
}

// Phonemizer resolves words to IPA strings.
//
// A dictionary word yields the IPA of its first pronunciation. Any other word
// is uppercased and parsed as a dictionary entry with no phones, which spells
// it out ("xyzzy" -> "XYZZY"). When that parse fails, for example "(xyzzy)",
// the FallbackPolicy decides between the uppercased word and no output.
// Phonemizer holds no mutable state and may be shared between goroutines.
type Phonemizer struct {
	dict     *Dictionary
	fallback FallbackPolicy
	stress   StressPolicy
}

// New creates a Phonemizer backed by dict.
func New(dict *Dictionary, opts ...Option) *Phonemizer {
	p := &Phonemizer{
		dict:     dict,
		fallback: FallbackSpellOut,
		stress:   StressKeepPrimary,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Fallback returns the configured fallback policy.
func (p *Phonemizer) Fallback() FallbackPolicy {
	return p.fallback
}

// Stress returns the configured stress policy.
func (p *Phonemizer) Stress() StressPolicy {
	return p.stress
}

// Outcome records how a word was resolved.
type Outcome int

const (
	// OutcomeDictionary means the word was found in the dictionary.
	OutcomeDictionary Outcome = iota
	// OutcomeSpelledOut means the word was emitted as its uppercase spelling.
	OutcomeSpelledOut
	// OutcomeDropped means the word contributed nothing.
	OutcomeDropped
)

// WordObserver is called once per word by PhonemizeText.
type WordObserver func(word string, outcome Outcome)

// Phonemize returns the IPA string for one word. The boolean is false when
// the word contributes nothing to the utterance.
func (p *Phonemizer) Phonemize(word string) (string, bool) {
	phonemes, outcome := p.Resolve(word)

	return phonemes, outcome != OutcomeDropped
}

// Resolve returns the IPA string for one word and how it was obtained.
func (p *Phonemizer) Resolve(word string) (string, Outcome) {
	if word == "" {
		return "", OutcomeDropped
	}

	normalized := norm.NFC.String(word)
	lower := cases.Lower(language.Und).String(normalized)
	upper := cases.Upper(language.Und).String(normalized)

	phones, found := p.dict.Lookup(lower)
	if !found {
		_, parsed, err := parseEntry(upper)
		if err != nil {
			if p.fallback == FallbackDrop {
				return "", OutcomeDropped
			}

			return upper, OutcomeSpelledOut
		}

		phones = parsed
	}

	if len(phones) == 0 {
		return upper, OutcomeSpelledOut
	}

	var builder strings.Builder

	for _, phone := range phones {
		glyphs, ok := ipaTable[phone.Key(p.stress)]
		if !ok {
			// ParsePhone only admits symbols present in ipaTable.
			panic(fmt.Sprintf("phonemize: no IPA glyph for %s", phone))
		}

		builder.WriteString(glyphs)
	}

	return builder.String(), OutcomeDictionary
}

// PhonemizeText splits text on whitespace, phonemizes every word and joins
// the results with a single space. Dropped words add no separator. observe
// may be nil.
func (p *Phonemizer) PhonemizeText(text string, observe WordObserver) string {
	words := strings.Fields(text)
	resolved := make([]string, 0, len(words))

	for _, word := range words {
		phonemes, outcome := p.Resolve(word)
		if observe != nil {
			observe(word, outcome)
		}

		if outcome == OutcomeDropped {
			continue
		}

		resolved = append(resolved, phonemes)
	}

	return strings.Join(resolved, wordSeparator)
}

// ParseFallbackPolicy maps a configuration name to a FallbackPolicy.
// The empty string selects FallbackSpellOut.
func ParseFallbackPolicy(name string) (FallbackPolicy, error) {
	switch name {
	case "", fallbackSpellOutName:
		return FallbackSpellOut, nil
	case fallbackDropName:
		return FallbackDrop, nil
	default:
		return FallbackSpellOut, fmt.Errorf("%w: %q", ErrUnknownFallbackPolicy, name)
	}
}

func (f FallbackPolicy) String() string {
	if f == FallbackDrop {
		return fallbackDropName
	}

	return fallbackSpellOutName
}
