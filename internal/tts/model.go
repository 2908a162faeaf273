// Package tts turns text into speech: it resolves words to IPA, encodes the
// phonemes into model tokens, runs a Synthesizer and serializes the result.
package tts

import (
	"context"
	"fmt"
	"sync"

	"github.com/book-expert/kitten-tts/internal/core"
	"github.com/book-expert/kitten-tts/internal/phonemize"
	"github.com/book-expert/kitten-tts/internal/text"
	"github.com/book-expert/kitten-tts/internal/tokenizer"
	"github.com/book-expert/kitten-tts/internal/voice"
	"github.com/book-expert/kitten-tts/internal/wav"
	"github.com/book-expert/logger"
)

// Speed is the fixed speaking rate passed to the Synthesizer.
const Speed float32 = 1.0

// Log messages.
const (
	logWordDropped    = "Dropped unresolvable word %q"
	logWordSpelledOut = "No pronunciation for %q, spelling it out"
	logSynthesized    = "Synthesized %d tokens into %d samples with voice %s"
)

// Result is the output of one synthesis call.
type Result struct {
	Waveform  []float32
	Durations []int64
	Phonemes  string
	Tokens    []int64
}

// ModelOption configures a Model.
type ModelOption func(*modelOptions)

type modelOptions struct {
	voice      voice.Voice
	pad        bool
	normalizer *text.Normalizer
	log        *logger.Logger
}

// WithVoice selects the speaker embedding. The default is voice.Default.
func WithVoice(v voice.Voice) ModelOption {
	return func(o *modelOptions) {
		o.voice = v
	}
}

// WithPadding toggles the silent sample added at both ends of the waveform.
func WithPadding(pad bool) ModelOption {
	return func(o *modelOptions) {
		o.pad = pad
	}
}

// WithNormalizer runs n over the input text before word splitting.
func WithNormalizer(n *text.Normalizer) ModelOption {
	return func(o *modelOptions) {
		o.normalizer = n
	}
}

// WithLogger sets the logger for per-word degradations and synthesis events.
func WithLogger(log *logger.Logger) ModelOption {
	return func(o *modelOptions) {
		o.log = log
	}
}

// Model is the text-to-speech pipeline. Models derived with WithVoice share
// the phonemizer, the Synthesizer and the lock that serializes it.
type Model struct {
	phonemizer *phonemize.Phonemizer
	synth      core.Synthesizer
	archive    *voice.Archive
	voice      voice.Voice
	style      []float32
	pad        bool
	normalizer *text.Normalizer
	log        *logger.Logger
	engineMu   *sync.Mutex
}

// NewModel builds a Model. The archive must contain the selected voice.
func NewModel(
	phonemizer *phonemize.Phonemizer,
	synth core.Synthesizer,
	archive *voice.Archive,
	opts ...ModelOption,
) (*Model, error) {
	options := modelOptions{
		voice:      voice.Default,
		pad:        true,
		normalizer: nil,
		log:        nil,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if phonemizer == nil || synth == nil || archive == nil {
		return nil, fmt.Errorf("%w: phonemizer, synthesizer and voice archive are required", ErrModelLoad)
	}

	style, err := archive.Embedding(options.voice)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelLoad, err)
	}

	return &Model{
		phonemizer: phonemizer,
		synth:      synth,
		archive:    archive,
		voice:      options.voice,
		style:      style,
		pad:        options.pad,
		normalizer: options.normalizer,
		log:        options.log,
		engineMu:   &sync.Mutex{},
	}, nil
}

// Voice returns the selected voice.
func (m *Model) Voice() voice.Voice {
	return m.voice
}

// WithVoice returns a Model that speaks with v and shares everything else
// with m.
func (m *Model) WithVoice(v voice.Voice) (*Model, error) {
	if v == m.voice {
		return m, nil
	}

	style, err := m.archive.Embedding(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelLoad, err)
	}

	derived := *m
	derived.voice = v
	derived.style = style

	return &derived, nil
}

// Phonemize returns the phoneme string the Model would synthesize for input.
func (m *Model) Phonemize(input string) string {
	if m.normalizer != nil {
		input = m.normalizer.Normalize(input)
	}

	return m.phonemizer.PhonemizeText(input, m.observeWord)
}

func (m *Model) observeWord(word string, outcome phonemize.Outcome) {
	switch outcome {
	case phonemize.OutcomeDropped:
		m.warn(logWordDropped, word)
	case phonemize.OutcomeSpelledOut:
		m.warn(logWordSpelledOut, word)
	case phonemize.OutcomeDictionary:
	}
}

// Generate synthesizes text.
func (m *Model) Generate(ctx context.Context, input string) (*Result, error) {
	return m.GenerateFromPhonemes(ctx, m.Phonemize(input))
}

// GenerateFromPhonemes synthesizes an IPA string, skipping word resolution.
func (m *Model) GenerateFromPhonemes(ctx context.Context, phonemes string) (*Result, error) {
	tokens := tokenizer.Encode(phonemes)

	waveform, durations, err := m.synthesize(ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelExecute, err)
	}

	if m.pad {
		waveform = padWaveform(waveform)
	}

	if m.log != nil {
		m.log.Info(logSynthesized, len(tokens), len(waveform), m.voice)
	}

	return &Result{
		Waveform:  waveform,
		Durations: durations,
		Phonemes:  phonemes,
		Tokens:    tokens,
	}, nil
}

func (m *Model) synthesize(ctx context.Context, tokens []int64) ([]float32, []int64, error) {
	m.engineMu.Lock()
	defer m.engineMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	return m.synth.Synthesize(ctx, tokens, m.style, Speed)
}

// SaveWAV writes the waveform of result as a WAV file. A zero sampleRate
// selects wav.DefaultSampleRate.
func SaveWAV(path string, result *Result, sampleRate uint32) error {
	err := wav.WriteFile(path, result.Waveform, sampleRate)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrModelResultSave, err)
	}

	return nil
}

func (m *Model) warn(format string, args ...any) {
	if m.log != nil {
		m.log.Warn(format, args...)
	}
}

func padWaveform(samples []float32) []float32 {
	padded := make([]float32, len(samples)+2)
	copy(padded[1:], samples)

	return padded
}
