package voice

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
)

const npyExt = ".npy"

var (
	// ErrArchiveLoad wraps failures to open or decode a voice archive.
	ErrArchiveLoad = errors.New("failed to load voice archive")
	// ErrVoiceNotFound is returned when the archive lacks a requested voice.
	ErrVoiceNotFound = errors.New("voice not found in archive")
)

// Archive holds the speaker embeddings of an .npz file, keyed by entry name
// without the ".npy" suffix. It is immutable after load.
type Archive struct {
	embeddings map[string][]float32
}

// NewArchive builds an in-memory archive.
func NewArchive(embeddings map[string][]float32) *Archive {
	copied := make(map[string][]float32, len(embeddings))
	for name, vector := range embeddings {
		copied[name] = append([]float32(nil), vector...)
	}

	return &Archive{embeddings: copied}
}

// LoadArchive reads an .npz archive from disk.
func LoadArchive(path string) (*Archive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchiveLoad, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchiveLoad, err)
	}

	return ReadArchive(file, info.Size())
}

// ReadArchive decodes every .npy entry of an .npz archive.
func ReadArchive(r io.ReaderAt, size int64) (*Archive, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchiveLoad, err)
	}

	embeddings := make(map[string][]float32, len(zipReader.File))

	for _, entry := range zipReader.File {
		if !strings.HasSuffix(entry.Name, npyExt) {
			continue
		}

		vector, readErr := readEntry(entry)
		if readErr != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrArchiveLoad, entry.Name, readErr)
		}

		embeddings[strings.TrimSuffix(entry.Name, npyExt)] = vector
	}

	return &Archive{embeddings: embeddings}, nil
}

func readEntry(entry *zip.File) ([]float32, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return decodeNPY(rc, entry.UncompressedSize64)
}

// Embedding returns a copy of the vector stored for v.
func (a *Archive) Embedding(v Voice) ([]float32, error) {
	vector, ok := a.embeddings[v.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVoiceNotFound, v.Key())
	}

	return append([]float32(nil), vector...), nil
}

// Names returns the sorted entry names present in the archive.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.embeddings))
	for name := range a.embeddings {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
