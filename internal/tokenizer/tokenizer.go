// Package tokenizer maps phoneme strings to the integer vocabulary of the
// synthesis network.
package tokenizer

// Symbol inventory in vocabulary order. A symbol's id is its rune index in
// the concatenation pad + punctuation + letters + ipaLetters.
const (
	pad         = "$"
	punctuation = `;:,.!?¡¿—…"«»"" `
	letters     = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	ipaLetters  = "ɑɐɒæɓʙβɔɕçɗɖðʤəɘɚɛɜɝɞɟʄɡɠɢʛɦɧħɥʜɨɪʝɭɬɫɮʟɱɯɰŋɳɲɴøɵɸθœɶʘɹɺɾɻʀʁɽʂʃʈʧʉʊʋⱱʌɣɤʍχʎʏʑʐʒʔʡʕʢǀǁǂǃˈˌːˑʼʴʰʱʲʷˠˤ˞↓↑→↗↘'̩'ᵻ"
)

var (
	symbols = []rune(pad + punctuation + letters + ipaLetters)
	table   = buildTable(symbols)
)

// buildTable assigns each rune its index. The inventory repeats '"' and '\''
// and the later slot wins, as in the vocabulary the network was trained on.
func buildTable(inventory []rune) map[rune]int64 {
	ids := make(map[rune]int64, len(inventory))
	for i, r := range inventory {
		ids[r] = int64(i)
	}

	return ids
}

// Encode returns one token id per recognized rune of phonemes. Runes outside
// the vocabulary are skipped.
func Encode(phonemes string) []int64 {
	tokens := make([]int64, 0, len(phonemes))

	for _, r := range phonemes {
		if id, ok := table[r]; ok {
			tokens = append(tokens, id)
		}
	}

	return tokens
}

// ID returns the token id of a single rune.
func ID(r rune) (int64, bool) {
	id, ok := table[r]

	return id, ok
}

// Size returns the number of vocabulary slots, including shadowed duplicates.
func Size() int {
	return len(symbols)
}

// Symbols returns a copy of the vocabulary in id order.
func Symbols() []rune {
	out := make([]rune, len(symbols))
	copy(out, symbols)

	return out
}
