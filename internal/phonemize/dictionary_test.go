package phonemize_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/book-expert/kitten-tts/internal/phonemize"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDictionary = `;;; test dictionary
THE  DH AH0
THE(2)  DH AH1
cat K AE1 T # trailing comment

Read R EH1 D
`

func TestLoadDictionary(t *testing.T) {
	t.Parallel()

	dict, err := phonemize.LoadDictionary(strings.NewReader(sampleDictionary))
	require.NoError(t, err)

	assert.Equal(t, 3, dict.Len())

	phones, ok := dict.Lookup("the")
	require.True(t, ok)
	assert.Equal(t, []phonemize.Phone{
		{Symbol: "DH", Stress: phonemize.NoStress},
		{Symbol: "AH", Stress: phonemize.StressUnstressed},
	}, phones)

	assert.Len(t, dict.Pronunciations("the"), 2)

	phones, ok = dict.Lookup("cat")
	require.True(t, ok)
	assert.Len(t, phones, 3)

	_, ok = dict.Lookup("read")
	assert.True(t, ok, "labels are stored lowercase")

	_, ok = dict.Lookup("THE")
	assert.False(t, ok, "lookup expects lowercase input")
}

func TestLoadDictionary_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "unknown phone", input: "cat K QQ1 T\n"},
		{name: "stress out of range", input: "cat K AE3 T\n"},
		{name: "stressed consonant", input: "cat K1 AE1 T\n"},
		{name: "non numeric variant", input: "cat(b) K AE1 T\n"},
		{name: "empty variant", input: "cat() K AE1 T\n"},
		{name: "variant without word", input: "(2) K AE1 T\n"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := phonemize.LoadDictionary(strings.NewReader(testCase.input))
			require.Error(t, err)
			require.ErrorIs(t, err, phonemize.ErrDictionaryLoad)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestLoadDictionaryFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	plainPath := filepath.Join(dir, "plain.dict")
	require.NoError(t, os.WriteFile(plainPath, []byte(sampleDictionary), 0o600))

	var gzipped bytes.Buffer

	gzWriter := gzip.NewWriter(&gzipped)
	_, err := gzWriter.Write([]byte(sampleDictionary))
	require.NoError(t, err)
	require.NoError(t, gzWriter.Close())

	gzipPath := filepath.Join(dir, "dict.gz")
	require.NoError(t, os.WriteFile(gzipPath, gzipped.Bytes(), 0o600))

	encoder, err := zstd.NewWriter(nil)
	require.NoError(t, err)

	zstdPath := filepath.Join(dir, "dict.zst")
	require.NoError(t, os.WriteFile(zstdPath, encoder.EncodeAll([]byte(sampleDictionary), nil), 0o600))
	require.NoError(t, encoder.Close())

	for _, path := range []string{plainPath, gzipPath, zstdPath} {
		dict, loadErr := phonemize.LoadDictionaryFile(path)
		require.NoError(t, loadErr, path)
		assert.Equal(t, 3, dict.Len(), path)
	}
}

func TestLoadDictionaryFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := phonemize.LoadDictionaryFile(filepath.Join(t.TempDir(), "absent.dict"))
	require.ErrorIs(t, err, phonemize.ErrDictionaryLoad)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDictionaryFile_CorruptGzip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0o600))

	_, err := phonemize.LoadDictionaryFile(path)
	require.ErrorIs(t, err, phonemize.ErrDictionaryLoad)
}

func TestBuiltinDictionary(t *testing.T) {
	t.Parallel()

	first, err := phonemize.BuiltinDictionary()
	require.NoError(t, err)

	second, err := phonemize.BuiltinDictionary()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Greater(t, first.Len(), 200)

	phones, ok := first.Lookup("the")
	require.True(t, ok)
	assert.Equal(t, "DH", phones[0].String())
	assert.Equal(t, "AH0", phones[1].String())
}

func TestParsePhone(t *testing.T) {
	t.Parallel()

	phone, err := phonemize.ParsePhone("EY1")
	require.NoError(t, err)
	assert.Equal(t, "EY", phone.Symbol)
	assert.Equal(t, phonemize.StressPrimary, phone.Stress)
	assert.Equal(t, "EY1", phone.Key(phonemize.StressKeepPrimary))
	assert.Equal(t, "EY", phone.Key(phonemize.StressStripAll))

	phone, err = phonemize.ParsePhone("AH0")
	require.NoError(t, err)
	assert.Equal(t, "AH", phone.Key(phonemize.StressKeepPrimary))

	_, err = phonemize.ParsePhone("")
	require.ErrorIs(t, err, phonemize.ErrUnknownPhone)

	_, err = phonemize.ParsePhone("SH2")
	require.ErrorIs(t, err, phonemize.ErrInvalidStress)
}
