package phonemize_test

import (
	"strings"
	"testing"

	"github.com/book-expert/kitten-tts/internal/phonemize"
	"github.com/book-expert/kitten-tts/internal/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuiltinPhonemizer(t *testing.T, opts ...phonemize.Option) *phonemize.Phonemizer {
	t.Helper()

	dict, err := phonemize.BuiltinDictionary()
	require.NoError(t, err)

	return phonemize.New(dict, opts...)
}

func TestPhonemize_DictionaryHits(t *testing.T) {
	t.Parallel()

	p := newBuiltinPhonemizer(t)

	tests := []struct {
		word     string
		expected string
	}{
		{word: "the", expected: "ðə"},
		{word: "cat", expected: "kæt"},
		{word: "The", expected: "ðə"},
		{word: "CAT", expected: "kæt"},
		{word: "hello", expected: "həloʊ"},
		{word: "quality", expected: "kwɑːləti"},
		{word: "measure", expected: "mɛʒɝ"},
		{word: "speech", expected: "spiːtʃ"},
	}

	for _, testCase := range tests {
		t.Run(testCase.word, func(t *testing.T) {
			t.Parallel()

			got, ok := p.Phonemize(testCase.word)
			require.True(t, ok)
			assert.Equal(t, testCase.expected, got)
		})
	}
}

func TestPhonemize_StressPolicies(t *testing.T) {
	t.Parallel()

	keep := newBuiltinPhonemizer(t, phonemize.WithStress(phonemize.StressKeepPrimary))
	strip := newBuiltinPhonemizer(t, phonemize.WithStress(phonemize.StressStripAll))

	got, ok := keep.Phonemize("corporation")
	require.True(t, ok)
	assert.Equal(t, "kɔːɹpɝeɪʃən", got)

	got, ok = strip.Phonemize("corporation")
	require.True(t, ok)
	assert.Equal(t, "kɔɹpɝeɪʃən", got)

	got, ok = strip.Phonemize("cat")
	require.True(t, ok)
	assert.Equal(t, "kæt", got)
}

func TestPhonemize_SpellOutFallback(t *testing.T) {
	t.Parallel()

	p := newBuiltinPhonemizer(t)

	got, ok := p.Phonemize("xyzzy")
	require.True(t, ok)
	assert.Equal(t, "XYZZY", got)

	got, ok = p.Phonemize("(xyzzy)")
	require.True(t, ok, "spell-out keeps words the fallback parser rejects")
	assert.Equal(t, "(XYZZY)", got)
}

func TestPhonemize_DropFallback(t *testing.T) {
	t.Parallel()

	p := newBuiltinPhonemizer(t, phonemize.WithFallback(phonemize.FallbackDrop))

	got, ok := p.Phonemize("xyzzy")
	require.True(t, ok, "a parsable unknown word is still spelled out")
	assert.Equal(t, "XYZZY", got)

	got, ok = p.Phonemize("(xyzzy)")
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestPhonemize_EmptyPronunciationSpellsOut(t *testing.T) {
	t.Parallel()

	dict, err := phonemize.LoadDictionary(strings.NewReader("tts\ncat K AE1 T\n"))
	require.NoError(t, err)

	p := phonemize.New(dict)

	got, ok := p.Phonemize("tts")
	require.True(t, ok)
	assert.Equal(t, "TTS", got)
}

func TestPhonemize_EmptyWord(t *testing.T) {
	t.Parallel()

	p := newBuiltinPhonemizer(t)

	_, ok := p.Phonemize("")
	assert.False(t, ok)
}

func TestPhonemize_Idempotent(t *testing.T) {
	t.Parallel()

	p := newBuiltinPhonemizer(t)

	for _, word := range []string{"the", "corporation", "xyzzy", "(xyzzy)"} {
		first, firstOK := p.Phonemize(word)
		second, secondOK := p.Phonemize(word)

		assert.Equal(t, firstOK, secondOK, word)
		assert.Equal(t, first, second, word)
	}
}

func TestPhonemize_DictionaryOutputStaysInIPAAlphabet(t *testing.T) {
	t.Parallel()

	alphabet := make(map[rune]struct{})
	for _, r := range phonemize.IPAAlphabet() {
		alphabet[r] = struct{}{}
	}

	for _, policy := range []phonemize.StressPolicy{phonemize.StressKeepPrimary, phonemize.StressStripAll} {
		p := newBuiltinPhonemizer(t, phonemize.WithStress(policy))

		dict, err := phonemize.BuiltinDictionary()
		require.NoError(t, err)

		for _, word := range dict.Words() {
			got, ok := p.Phonemize(word)
			require.True(t, ok, word)
			require.NotEmpty(t, got, word)

			for _, r := range got {
				_, member := alphabet[r]
				assert.True(t, member, "word %q produced %q outside the IPA alphabet", word, string(r))
			}
		}
	}
}

func TestIPAAlphabet_IsTokenizable(t *testing.T) {
	t.Parallel()

	for _, r := range phonemize.IPAAlphabet() {
		_, ok := tokenizer.ID(r)
		assert.True(t, ok, "IPA glyph %q has no token id", string(r))
	}
}

func TestPhonemizeText(t *testing.T) {
	t.Parallel()

	spell := newBuiltinPhonemizer(t)
	drop := newBuiltinPhonemizer(t, phonemize.WithFallback(phonemize.FallbackDrop))

	assert.Equal(t, "ðə kæt", spell.PhonemizeText("  the\tcat \n", nil))
	assert.Equal(t, "ðə (XYZZY) kæt", spell.PhonemizeText("the (xyzzy) cat", nil))
	assert.Equal(t, "ðə kæt", drop.PhonemizeText("the (xyzzy) cat", nil))
	assert.Equal(t, "kæt", drop.PhonemizeText("(xyzzy) cat", nil))
	assert.Empty(t, drop.PhonemizeText("(xyzzy)", nil))
	assert.Empty(t, spell.PhonemizeText("", nil))
}

func TestPhonemizeText_ObservesEveryWord(t *testing.T) {
	t.Parallel()

	type observed struct {
		word    string
		outcome phonemize.Outcome
	}

	tests := []struct {
		name     string
		fallback phonemize.FallbackPolicy
		expected string
	}{
		{name: "spell out", fallback: phonemize.FallbackSpellOut, expected: "ðə XYZZY (XYZZY) kæt"},
		{name: "drop", fallback: phonemize.FallbackDrop, expected: "ðə XYZZY kæt"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			p := newBuiltinPhonemizer(t, phonemize.WithFallback(testCase.fallback))

			var got []observed

			result := p.PhonemizeText("the xyzzy (xyzzy) cat", func(word string, outcome phonemize.Outcome) {
				got = append(got, observed{word: word, outcome: outcome})
			})
			assert.Equal(t, testCase.expected, result)

			lastOutcome := phonemize.OutcomeSpelledOut
			if testCase.fallback == phonemize.FallbackDrop {
				lastOutcome = phonemize.OutcomeDropped
			}

			assert.Equal(t, []observed{
				{word: "the", outcome: phonemize.OutcomeDictionary},
				{word: "xyzzy", outcome: phonemize.OutcomeSpelledOut},
				{word: "(xyzzy)", outcome: lastOutcome},
				{word: "cat", outcome: phonemize.OutcomeDictionary},
			}, got)
		})
	}
}

func TestNew_Policies(t *testing.T) {
	t.Parallel()

	defaults := newBuiltinPhonemizer(t)
	assert.Equal(t, phonemize.FallbackSpellOut, defaults.Fallback())
	assert.Equal(t, phonemize.StressKeepPrimary, defaults.Stress())

	configured := newBuiltinPhonemizer(t,
		phonemize.WithFallback(phonemize.FallbackDrop),
		phonemize.WithStress(phonemize.StressStripAll))
	assert.Equal(t, phonemize.FallbackDrop, configured.Fallback())
	assert.Equal(t, phonemize.StressStripAll, configured.Stress())
	assert.Equal(t, "drop", configured.Fallback().String())
}

func TestParsePolicies(t *testing.T) {
	t.Parallel()

	fallback, err := phonemize.ParseFallbackPolicy("drop")
	require.NoError(t, err)
	assert.Equal(t, phonemize.FallbackDrop, fallback)

	fallback, err = phonemize.ParseFallbackPolicy("")
	require.NoError(t, err)
	assert.Equal(t, phonemize.FallbackSpellOut, fallback)

	_, err = phonemize.ParseFallbackPolicy("guess")
	require.ErrorIs(t, err, phonemize.ErrUnknownFallbackPolicy)

	stress, err := phonemize.ParseStressPolicy("strip_all")
	require.NoError(t, err)
	assert.Equal(t, phonemize.StressStripAll, stress)
	assert.Equal(t, "strip_all", stress.String())

	_, err = phonemize.ParseStressPolicy("loud")
	require.ErrorIs(t, err, phonemize.ErrUnknownStressPolicy)
}
