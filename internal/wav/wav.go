// Package wav serializes mono float32 waveforms into IEEE-float WAV files and
// reads their headers back.
package wav

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Container constants.
const (
	DefaultSampleRate = 22000
	MaxSampleRate     = 192000

	HeaderSize      = 44
	FormatIEEEFloat = 3
	Channels        = 1
	BitsPerSample   = 32

	bytesPerSample = BitsPerSample / 8
	fmtChunkSize   = 16
	riffOverhead   = HeaderSize - 8
	filePerm       = 0o644
)

// Chunk tags.
const (
	tagRIFF = "RIFF"
	tagWAVE = "WAVE"
	tagFmt  = "fmt "
	tagData = "data"
)

// Error format strings.
const (
	errFmtSampleRate = "%w: sample rate must be between 1 and %d Hz, got %d"
	errFmtTooLong    = "%w: %d samples exceed the container size limit"
	errFmtTag        = "%w: expected %q, got %q"
	errFmtCreate     = "failed to create wav file %s: %w"
	errFmtWrite      = "failed to write wav data: %w"
	errFmtReadHeader = "failed to read wav header: %w"
)

var (
	// ErrInvalidSampleRate is returned for a zero or out-of-range sample rate.
	ErrInvalidSampleRate = errors.New("invalid sample rate")
	// ErrTooManySamples is returned when the data chunk would overflow 32 bits.
	ErrTooManySamples = errors.New("waveform too long")
	// ErrInvalidHeader is returned by ReadHeader for a non-conforming file.
	ErrInvalidHeader = errors.New("invalid wav header")
)

// Header holds the fields of a canonical 44-byte WAV header.
type Header struct {
	FileSize      uint32
	Format        uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataSize      uint32
	NumSamples    int
}

// ValidateSampleRate checks that rate is usable in a container.
func ValidateSampleRate(rate uint32) error {
	if rate == 0 || rate > MaxSampleRate {
		return fmt.Errorf(errFmtSampleRate, ErrInvalidSampleRate, MaxSampleRate, rate)
	}

	return nil
}

// Encode writes samples as a mono 32-bit IEEE-float WAV stream. A zero
// sampleRate selects DefaultSampleRate.
func Encode(w io.Writer, samples []float32, sampleRate uint32) error {
	if sampleRate == 0 {
		sampleRate = DefaultSampleRate
	}

	if err := ValidateSampleRate(sampleRate); err != nil {
		return err
	}

	dataSize := uint64(len(samples)) * bytesPerSample
	if dataSize > math.MaxUint32-riffOverhead {
		return fmt.Errorf(errFmtTooLong, ErrTooManySamples, len(samples))
	}

	header := headerBytes(uint32(dataSize), sampleRate)

	buffered := bufio.NewWriter(w)
	if _, err := buffered.Write(header[:]); err != nil {
		return fmt.Errorf(errFmtWrite, err)
	}

	var sample [bytesPerSample]byte

	for _, s := range samples {
		binary.LittleEndian.PutUint32(sample[:], math.Float32bits(s))

		if _, err := buffered.Write(sample[:]); err != nil {
			return fmt.Errorf(errFmtWrite, err)
		}
	}

	if err := buffered.Flush(); err != nil {
		return fmt.Errorf(errFmtWrite, err)
	}

	return nil
}

// WriteFile creates path and encodes samples into it.
func WriteFile(path string, samples []float32, sampleRate uint32) (err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf(errFmtCreate, path, err)
	}

	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf(errFmtWrite, closeErr)
		}
	}()

	return Encode(file, samples, sampleRate)
}

func headerBytes(dataSize, sampleRate uint32) [HeaderSize]byte {
	var h [HeaderSize]byte

	le := binary.LittleEndian

	copy(h[0:4], tagRIFF)
	le.PutUint32(h[4:8], riffOverhead+dataSize)
	copy(h[8:12], tagWAVE)

	copy(h[12:16], tagFmt)
	le.PutUint32(h[16:20], fmtChunkSize)
	le.PutUint16(h[20:22], FormatIEEEFloat)
	le.PutUint16(h[22:24], Channels)
	le.PutUint32(h[24:28], sampleRate)
	le.PutUint32(h[28:32], sampleRate*Channels*bytesPerSample)
	le.PutUint16(h[32:34], Channels*bytesPerSample)
	le.PutUint16(h[34:36], BitsPerSample)

	copy(h[36:40], tagData)
	le.PutUint32(h[40:44], dataSize)

	return h
}

// ReadHeader parses the canonical 44-byte header written by Encode.
func ReadHeader(r io.Reader) (Header, error) {
	var raw [HeaderSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return Header{}, fmt.Errorf(errFmtReadHeader, err)
	}

	for _, tag := range []struct {
		offset int
		want   string
	}{
		{offset: 0, want: tagRIFF},
		{offset: 8, want: tagWAVE},
		{offset: 12, want: tagFmt},
		{offset: 36, want: tagData},
	} {
		got := string(raw[tag.offset : tag.offset+4])
		if got != tag.want {
			return Header{}, fmt.Errorf(errFmtTag, ErrInvalidHeader, tag.want, got)
		}
	}

	le := binary.LittleEndian
	header := Header{
		FileSize:      le.Uint32(raw[4:8]),
		Format:        le.Uint16(raw[20:22]),
		Channels:      le.Uint16(raw[22:24]),
		SampleRate:    le.Uint32(raw[24:28]),
		ByteRate:      le.Uint32(raw[28:32]),
		BlockAlign:    le.Uint16(raw[32:34]),
		BitsPerSample: le.Uint16(raw[34:36]),
		DataSize:      le.Uint32(raw[40:44]),
	}

	if header.BlockAlign != 0 {
		header.NumSamples = int(header.DataSize) / int(header.BlockAlign)
	}

	return header, nil
}
