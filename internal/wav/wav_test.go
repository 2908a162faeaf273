package wav_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/book-expert/kitten-tts/internal/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_ThreeSamples(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := wav.Encode(&buf, []float32{0.5, -0.5, 0.25}, 22000)
	require.NoError(t, err)

	data := buf.Bytes()
	require.Len(t, data, wav.HeaderSize+12)

	le := binary.LittleEndian
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, uint32(48), le.Uint32(data[4:8]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "fmt ", string(data[12:16]))
	assert.Equal(t, uint32(16), le.Uint32(data[16:20]))
	assert.Equal(t, uint16(3), le.Uint16(data[20:22]))
	assert.Equal(t, uint16(1), le.Uint16(data[22:24]))
	assert.Equal(t, uint32(22000), le.Uint32(data[24:28]))
	assert.Equal(t, uint32(88000), le.Uint32(data[28:32]))
	assert.Equal(t, uint16(4), le.Uint16(data[32:34]))
	assert.Equal(t, uint16(32), le.Uint16(data[34:36]))
	assert.Equal(t, "data", string(data[36:40]))
	assert.Equal(t, uint32(12), le.Uint32(data[40:44]))

	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x3f}, data[44:48])
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0xbf}, data[48:52])
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3e}, data[52:56])
}

func TestEncode_DefaultSampleRate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, wav.Encode(&buf, nil, 0))

	header, err := wav.ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(wav.DefaultSampleRate), header.SampleRate)
	assert.Equal(t, 0, header.NumSamples)
	assert.Equal(t, uint32(36), header.FileSize)
}

func TestEncode_InvalidSampleRate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := wav.Encode(&buf, []float32{0}, wav.MaxSampleRate+1)
	require.ErrorIs(t, err, wav.ErrInvalidSampleRate)
	assert.Zero(t, buf.Len())
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	samples := make([]float32, 1000)
	for i := range samples {
		samples[i] = float32(i%7) / 7
	}

	for _, rate := range []uint32{8000, 22000, 24000, 48000} {
		var buf bytes.Buffer
		require.NoError(t, wav.Encode(&buf, samples, rate))

		header, err := wav.ReadHeader(&buf)
		require.NoError(t, err)

		assert.Equal(t, len(samples), header.NumSamples)
		assert.Equal(t, rate, header.SampleRate)
		assert.Equal(t, uint16(wav.Channels), header.Channels)
		assert.Equal(t, uint16(wav.BitsPerSample), header.BitsPerSample)
		assert.Equal(t, uint16(wav.FormatIEEEFloat), header.Format)
		assert.Equal(t, rate*4, header.ByteRate)

		decoded := make([]float32, header.NumSamples)
		require.NoError(t, binary.Read(&buf, binary.LittleEndian, decoded))
		assert.Equal(t, samples, decoded)
	}
}

func TestReadHeader_Invalid(t *testing.T) {
	t.Parallel()

	_, err := wav.ReadHeader(bytes.NewReader([]byte("RIFF")))
	require.Error(t, err)

	bogus := bytes.Repeat([]byte{'x'}, wav.HeaderSize)
	_, err = wav.ReadHeader(bytes.NewReader(bogus))
	require.ErrorIs(t, err, wav.ErrInvalidHeader)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.wav")
	require.NoError(t, wav.WriteFile(path, []float32{0.5, -0.5, 0.25}, 0))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(56), info.Size())

	file, err := os.Open(path)
	require.NoError(t, err)

	defer file.Close()

	header, err := wav.ReadHeader(file)
	require.NoError(t, err)
	assert.Equal(t, 3, header.NumSamples)
	assert.Equal(t, uint32(12), header.DataSize)
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "out.wav")

	err := wav.WriteFile(path, []float32{0}, 0)
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}
