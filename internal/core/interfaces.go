// Package core defines the capability interfaces shared by the speech pipeline,
// its synthesis backends and the NATS service.
package core

import "context"

// ObjectStore defines the interface for interacting with a key-value blob store.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte, metadata map[string]string) error
}

// Synthesizer is the neural synthesis network. It maps a token sequence and a
// speaker embedding to a waveform and one duration per token. Implementations
// may be stateful; callers serialize access.
type Synthesizer interface {
	Synthesize(ctx context.Context, tokens []int64, style []float32, speed float32) ([]float32, []int64, error)
}

// SpeechRequest holds the per-job options for turning text into audio.
type SpeechRequest struct {
	// Voice is a voice name such as "5-m"; empty selects the default voice.
	Voice string
	// SampleRate of the produced container; zero selects the default.
	SampleRate uint32
	// Phonemes marks the text as an IPA string that skips G2P resolution.
	Phonemes bool
}

// SpeechProcessor turns text into a complete WAV container.
type SpeechProcessor interface {
	Process(ctx context.Context, text []byte, req SpeechRequest) ([]byte, error)
}
