package tokenizer_test

import (
	"testing"

	"github.com/book-expert/kitten-tts/internal/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_KnownSymbols(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int64{53, 72, 62}, tokenizer.Encode("kæt"))
	assert.Equal(t, []int64{81, 83, 16, 53, 72, 62}, tokenizer.Encode("ðə kæt"))
	assert.Equal(t, []int64{0, 4, 16}, tokenizer.Encode("$. "))
	assert.Equal(t, []int64{158, 177, 175}, tokenizer.Encode("ːᵻ̩"))
}

func TestEncode_DuplicateSlotsResolveToLater(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int64{15}, tokenizer.Encode(`"`))
	assert.Equal(t, []int64{176}, tokenizer.Encode("'"))
}

func TestEncode_DropsUnknown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int64{53, 62}, tokenizer.Encode("k€t"))
	assert.Empty(t, tokenizer.Encode("€#%&"))
	assert.Empty(t, tokenizer.Encode(""))
	assert.NotNil(t, tokenizer.Encode(""))
}

func TestEncode_LengthMatchesRecognizedRunes(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"ðɪs haɪ kwɔlᵻɾi tiːtiːɛs mɑːdəl wɜːks wɪðaʊt ɐ dʒiːpiːjuː ",
		"HELLO, world!",
		"«ʔa↗»",
	}

	for _, input := range inputs {
		recognized := 0

		for _, r := range input {
			if _, ok := tokenizer.ID(r); ok {
				recognized++
			}
		}

		assert.Len(t, tokenizer.Encode(input), recognized, input)
		assert.Equal(t, len([]rune(input)), recognized, "all runes of %q are in the vocabulary", input)
	}
}

func TestVocabulary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 178, tokenizer.Size())

	symbols := tokenizer.Symbols()
	require.Len(t, symbols, 178)
	assert.Equal(t, '$', symbols[0])
	assert.Equal(t, 'ᵻ', symbols[177])

	for i, r := range symbols {
		id, ok := tokenizer.ID(r)
		require.True(t, ok)

		if r == '"' || r == '\'' {
			continue
		}

		assert.Equal(t, int64(i), id, "symbol %q", string(r))
	}

	symbols[0] = 'x'
	assert.Equal(t, '$', tokenizer.Symbols()[0], "Symbols returns a copy")
}
