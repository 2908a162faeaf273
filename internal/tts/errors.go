package tts

import "errors"

var (
	// ErrModelLoad is returned when a voice, dictionary, archive or engine
	// cannot be prepared.
	ErrModelLoad = errors.New("failed to load model")
	// ErrModelExecute is returned when the synthesis pipeline fails.
	ErrModelExecute = errors.New("failed to execute model")
	// ErrModelResultSave is returned when a waveform cannot be written out.
	ErrModelResultSave = errors.New("failed to save model result")
)
