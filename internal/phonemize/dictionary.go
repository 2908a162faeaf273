// Package phonemize converts English words into IPA phoneme strings using a
// CMU-style pronunciation dictionary and a fixed letter-to-sound table.
package phonemize

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/book-expert/kitten-tts/internal/phonemize/dict"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Dictionary file conventions.
const (
	commentPrefix   = ";;;"
	trailingComment = "#"
	extGzip         = ".gz"
	extZstd         = ".zst"
)

// Error format strings.
const (
	errFmtLine         = "%w: line %d: %w"
	errFmtOpen         = "%w: open %s: %w"
	errFmtDecompress   = "%w: decompress %s: %w"
	errFmtRead         = "%w: read: %w"
	errFmtVariant      = "%w: %q"
	errFmtBuiltinParse = "builtin dictionary: %w"
)

var (
	// ErrDictionaryLoad wraps every failure to load a pronunciation dictionary.
	ErrDictionaryLoad = errors.New("failed to load dictionary")
	// ErrMalformedEntry is returned for an entry that cannot be parsed.
	ErrMalformedEntry = errors.New("malformed dictionary entry")
)

// Dictionary maps lowercase words to their pronunciations in file order.
// It is read-only after load and safe for concurrent lookups.
type Dictionary struct {
	entries map[string][][]Phone
}

// LoadDictionary parses a line-oriented CMU-style dictionary.
func LoadDictionary(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{entries: make(map[string][][]Phone)}
	lower := cases.Lower(language.Und)

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}

		label, phones, err := parseEntry(line)
		if err != nil {
			return nil, fmt.Errorf(errFmtLine, ErrDictionaryLoad, lineNum, err)
		}

		word := lower.String(label)
		d.entries[word] = append(d.entries[word], phones)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf(errFmtRead, ErrDictionaryLoad, err)
	}

	return d, nil
}

// LoadDictionaryFile loads a dictionary from disk. Files ending in ".gz" or
// ".zst" are decompressed on the fly.
func LoadDictionaryFile(path string) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf(errFmtOpen, ErrDictionaryLoad, path, err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case extGzip:
		reader, gzErr := gzip.NewReader(file)
		if gzErr != nil {
			return nil, fmt.Errorf(errFmtDecompress, ErrDictionaryLoad, path, gzErr)
		}
		defer reader.Close()

		return LoadDictionary(reader)
	case extZstd:
		decoder, zstdErr := zstd.NewReader(file)
		if zstdErr != nil {
			return nil, fmt.Errorf(errFmtDecompress, ErrDictionaryLoad, path, zstdErr)
		}
		defer decoder.Close()

		return LoadDictionary(decoder)
	default:
		return LoadDictionary(file)
	}
}

var (
	builtinOnce sync.Once
	builtinDict *Dictionary
	builtinErr  error
)

// BuiltinDictionary returns the shared dictionary bundled with the binary.
func BuiltinDictionary() (*Dictionary, error) {
	builtinOnce.Do(func() {
		builtinDict, builtinErr = LoadDictionary(strings.NewReader(dict.CMU))
		if builtinErr != nil {
			builtinErr = fmt.Errorf(errFmtBuiltinParse, builtinErr)
		}
	})

	return builtinDict, builtinErr
}

// Lookup returns the preferred pronunciation of an already lowercased word.
func (d *Dictionary) Lookup(word string) ([]Phone, bool) {
	pronunciations := d.entries[word]
	if len(pronunciations) == 0 {
		return nil, false
	}

	return pronunciations[0], true
}

// Pronunciations returns every pronunciation of a word in file order.
func (d *Dictionary) Pronunciations(word string) [][]Phone {
	return d.entries[word]
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Words returns every word in the dictionary in no particular order.
func (d *Dictionary) Words() []string {
	words := make([]string, 0, len(d.entries))
	for w := range d.entries {
		words = append(words, w)
	}

	return words
}

// parseEntry parses "LABEL PH1 PH2 ..." where LABEL may end in a "(N)"
// variant marker. A label without phones is an empty pronunciation.
func parseEntry(line string) (string, []Phone, error) {
	if idx := strings.Index(line, trailingComment); idx >= 0 {
		line = line[:idx]
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("%w: empty entry", ErrMalformedEntry)
	}

	label, err := parseLabel(fields[0])
	if err != nil {
		return "", nil, err
	}

	phones := make([]Phone, 0, len(fields)-1)

	for _, raw := range fields[1:] {
		phone, phoneErr := ParsePhone(raw)
		if phoneErr != nil {
			return "", nil, phoneErr
		}

		phones = append(phones, phone)
	}

	return label, phones, nil
}

// parseLabel strips a trailing "(N)" variant marker.
func parseLabel(raw string) (string, error) {
	if !strings.HasSuffix(raw, ")") {
		return raw, nil
	}

	open := strings.LastIndex(raw, "(")
	if open <= 0 {
		return "", fmt.Errorf(errFmtVariant, ErrMalformedEntry, raw)
	}

	variant := raw[open+1 : len(raw)-1]
	if variant == "" {
		return "", fmt.Errorf(errFmtVariant, ErrMalformedEntry, raw)
	}

	for _, r := range variant {
		if r < '0' || r > '9' {
			return "", fmt.Errorf(errFmtVariant, ErrMalformedEntry, raw)
		}
	}

	return raw[:open], nil
}
