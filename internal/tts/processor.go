package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/book-expert/kitten-tts/internal/core"
	"github.com/book-expert/kitten-tts/internal/voice"
	"github.com/book-expert/kitten-tts/internal/wav"
	"github.com/book-expert/logger"
	"github.com/dustin/go-humanize"
)

// ErrEmptyText is returned by Process for a job without text.
var ErrEmptyText = errors.New("text cannot be empty")

// Processor implements core.SpeechProcessor on top of a Model.
type Processor struct {
	model      *Model
	sampleRate uint32
	log        *logger.Logger
}

var _ core.SpeechProcessor = (*Processor)(nil)

// NewProcessor creates a Processor. sampleRate applies to jobs that do not
// request one; zero selects wav.DefaultSampleRate.
func NewProcessor(model *Model, sampleRate uint32, log *logger.Logger) (*Processor, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: model is required", ErrModelLoad)
	}

	if sampleRate == 0 {
		sampleRate = wav.DefaultSampleRate
	}

	err := wav.ValidateSampleRate(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelLoad, err)
	}

	return &Processor{
		model:      model,
		sampleRate: sampleRate,
		log:        log,
	}, nil
}

// Process synthesizes text and returns a complete WAV file.
func (p *Processor) Process(ctx context.Context, text []byte, req core.SpeechRequest) ([]byte, error) {
	if len(bytes.TrimSpace(text)) == 0 {
		return nil, ErrEmptyText
	}

	model, err := p.modelFor(req.Voice)
	if err != nil {
		return nil, err
	}

	sampleRate := req.SampleRate
	if sampleRate == 0 {
		sampleRate = p.sampleRate
	}

	err = wav.ValidateSampleRate(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelExecute, err)
	}

	var result *Result
	if req.Phonemes {
		result, err = model.GenerateFromPhonemes(ctx, string(text))
	} else {
		result, err = model.Generate(ctx, string(text))
	}

	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	err = wav.Encode(&buf, result.Waveform, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelResultSave, err)
	}

	if p.log != nil {
		p.log.Info("Encoded %s of audio (%d samples at %d Hz) with voice %s",
			humanize.Bytes(uint64(buf.Len())), len(result.Waveform), sampleRate, model.Voice())
	}

	return buf.Bytes(), nil
}

func (p *Processor) modelFor(name string) (*Model, error) {
	if name == "" {
		return p.model, nil
	}

	selected, err := voice.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelLoad, err)
	}

	return p.model.WithVoice(selected)
}
