package phonemize

import "sort"

// ipaTable maps stress keys to IPA glyphs. Keys without a digit cover
// consonants and unstressed vowels; "1" and "2" keys cover stressed vowels.
var ipaTable = map[string]string{
	"AA":  "ɑ",
	"AA1": "ɑː",
	"AA2": "ɑː",
	"AE":  "æ",
	"AE1": "æ",
	"AE2": "æ",
	"AH":  "ə",
	"AH1": "ʌ",
	"AH2": "ə",
	"AO":  "ɔ",
	"AO1": "ɔː",
	"AO2": "ɔː",
	"AW":  "aʊ",
	"AW1": "aʊ",
	"AW2": "aʊ",
	"AY":  "aɪ",
	"AY1": "aɪ",
	"AY2": "aɪ",
	"EH":  "ɛ",
	"EH1": "ɛ",
	"EH2": "ɛ",
	"ER":  "ɝ",
	"ER1": "ɝː",
	"ER2": "ɝː",
	"EY":  "eɪ",
	"EY1": "eɪ",
	"EY2": "eɪ",
	"IH":  "ᵻ",
	"IH1": "ɪ",
	"IH2": "ɪ",
	"IY":  "i",
	"IY1": "iː",
	"IY2": "iː",
	"OW":  "oʊ",
	"OW1": "oʊ",
	"OW2": "oʊ",
	"OY":  "ɔɪ",
	"OY1": "ɔɪ",
	"OY2": "ɔɪ",
	"UH":  "ʊ",
	"UH1": "ʊ",
	"UH2": "ʊ",
	"UW":  "u",
	"UW1": "uː",
	"UW2": "uː",
	"B":   "b",
	"CH":  "tʃ",
	"D":   "d",
	"DH":  "ð",
	"F":   "f",
	"G":   "ɡ",
	"HH":  "h",
	"JH":  "dʒ",
	"K":   "k",
	"L":   "l",
	"M":   "m",
	"N":   "n",
	"NG":  "ŋ",
	"P":   "p",
	"R":   "ɹ",
	"S":   "s",
	"SH":  "ʃ",
	"T":   "t",
	"TH":  "θ",
	"V":   "v",
	"W":   "w",
	"Y":   "j",
	"Z":   "z",
	"ZH":  "ʒ",
}

// IPA returns the glyphs for a stress key such as "AA1" or "CH".
func IPA(key string) (string, bool) {
	glyphs, ok := ipaTable[key]

	return glyphs, ok
}

// IPAAlphabet returns every rune used by the IPA table, sorted.
func IPAAlphabet() []rune {
	seen := make(map[rune]struct{})

	for _, glyphs := range ipaTable {
		for _, r := range glyphs {
			seen[r] = struct{}{}
		}
	}

	alphabet := make([]rune, 0, len(seen))
	for r := range seen {
		alphabet = append(alphabet, r)
	}

	sort.Slice(alphabet, func(i, j int) bool { return alphabet[i] < alphabet[j] })

	return alphabet
}
