// Package voice names the bundled speaker embeddings and loads them from
// NumPy .npz archives.
package voice

import (
	"errors"
	"fmt"
	"strings"
)

// Voice identifies a precomputed speaker embedding by age band and gender.
type Voice string

// Voices shipped with the model archive.
const (
	TwoM   Voice = "2-m"
	TwoF   Voice = "2-f"
	ThreeM Voice = "3-m"
	ThreeF Voice = "3-f"
	FourM  Voice = "4-m"
	FourF  Voice = "4-f"
	FiveM  Voice = "5-m"
	FiveF  Voice = "5-f"

	Default = FiveM
)

const keyPrefix = "expr-voice-"

// ErrUnknownVoice is returned by Parse for a name outside All.
var ErrUnknownVoice = errors.New("unknown voice")

// All lists every known voice in archive order.
func All() []Voice {
	return []Voice{TwoM, TwoF, ThreeM, ThreeF, FourM, FourF, FiveM, FiveF}
}

// Key returns the archive entry name, e.g. "expr-voice-5-m".
func (v Voice) Key() string {
	return keyPrefix + string(v)
}

func (v Voice) String() string {
	return v.Key()
}

// Parse accepts "5-m", "expr-voice-5-m" or an empty string for Default.
func Parse(name string) (Voice, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), keyPrefix)
	if trimmed == "" {
		return Default, nil
	}

	for _, v := range All() {
		if string(v) == trimmed {
			return v, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownVoice, name)
}
