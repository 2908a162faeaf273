// Package worker provides a NATS worker that turns text jobs into WAV audio.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/kitten-tts/internal/core"
	"github.com/book-expert/kitten-tts/internal/voice"
	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	handleMessageTimeout = 2 * time.Minute
	audioKeyExt          = ".wav"
	contentTypeWAV       = "audio/wav"
)

// Metadata keys stored with every uploaded WAV object.
const (
	MetaContentType = "content_type"
	MetaVoice       = "voice"
	MetaWorkflowID  = "workflow_id"
	MetaTextKey     = "text_key"
	MetaPageNumber  = "page_number"
)

var (
	// ErrTextKeyEmpty indicates that the event does not reference any text.
	ErrTextKeyEmpty = errors.New("text key cannot be empty")
	// ErrUnsupportedVoice indicates that the requested voice is not supported.
	ErrUnsupportedVoice = errors.New("unsupported voice")
)

// NatsWorker listens for text jobs on a NATS subject, synthesizes them and
// replies with the key of the uploaded audio.
type NatsWorker struct {
	natsConnection *nats.Conn
	subject        string
	audioSubject   string
	store          core.ObjectStore
	processor      core.SpeechProcessor
	log            *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker. When audioSubject is
// not empty every AudioChunkCreatedEvent is also published there.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subject string,
	audioSubject string,
	store core.ObjectStore,
	processor core.SpeechProcessor,
	log *logger.Logger,
) (*NatsWorker, error) {
	return &NatsWorker{
		natsConnection: natsConnection,
		subject:        subject,
		audioSubject:   audioSubject,
		store:          store,
		processor:      processor,
		log:            log,
	}, nil
}

// Run starts the worker and blocks until ctx is done.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	w.log.Info("Listening for text jobs on subject: %s", w.subject)

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	event, err := w.parseAndValidateEvent(msg)
	if err != nil {
		w.log.Error("Failed to parse and validate event: %v", err)

		return
	}

	audioKey, processErr := w.processTTSJob(ctx, event)
	if processErr != nil {
		w.log.Error("Failed to process TTS job for event %s: %v", event.Header.WorkflowID, processErr)

		return
	}

	replyEvent := &events.AudioChunkCreatedEvent{
		Header:     event.Header,
		AudioKey:   audioKey,
		PageNumber: event.PageNumber,
		TotalPages: event.TotalPages,
	}

	err = w.publishReplyEvent(msg, replyEvent)
	if err != nil {
		w.log.Error("Failed to publish reply event for workflow %s: %v", event.Header.WorkflowID, err)
	}
}

// processTTSJob downloads the text, synthesizes it and uploads the WAV file.
func (w *NatsWorker) processTTSJob(ctx context.Context, event *events.TextProcessedEvent) (string, error) {
	selected, err := voice.Parse(event.Voice)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedVoice, err)
	}

	textData, err := w.store.Download(ctx, event.TextKey)
	if err != nil {
		return "", fmt.Errorf("failed to download text data for key '%s': %w", event.TextKey, err)
	}

	audioData, err := w.processor.Process(ctx, textData, core.SpeechRequest{
		Voice:      string(selected),
		SampleRate: 0,
		Phonemes:   false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to process text to speech: %w", err)
	}

	audioKey := uuid.NewString() + audioKeyExt
	metadata := map[string]string{
		MetaContentType: contentTypeWAV,
		MetaVoice:       selected.Key(),
		MetaWorkflowID:  event.Header.WorkflowID,
		MetaTextKey:     event.TextKey,
		MetaPageNumber:  fmt.Sprint(event.PageNumber),
	}

	err = w.store.Upload(ctx, audioKey, audioData, metadata)
	if err != nil {
		return "", fmt.Errorf("failed to upload audio data for key '%s': %w", audioKey, err)
	}

	return audioKey, nil
}

// publishReplyEvent responds with the AudioChunkCreatedEvent and announces it
// on the audio subject.
func (w *NatsWorker) publishReplyEvent(msg *nats.Msg, replyEvent *events.AudioChunkCreatedEvent) error {
	replyData, err := json.Marshal(replyEvent)
	if err != nil {
		return fmt.Errorf("failed to marshal reply event: %w", err)
	}

	if msg.Reply != "" {
		err = msg.Respond(replyData)
		if err != nil {
			return fmt.Errorf("failed to publish reply event: %w", err)
		}
	}

	if w.audioSubject != "" {
		err = w.natsConnection.Publish(w.audioSubject, replyData)
		if err != nil {
			return fmt.Errorf("failed to publish event to %s: %w", w.audioSubject, err)
		}
	}

	return nil
}

func (w *NatsWorker) parseAndValidateEvent(msg *nats.Msg) (*events.TextProcessedEvent, error) {
	var event events.TextProcessedEvent

	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if event.TextKey == "" {
		return nil, ErrTextKeyEmpty
	}

	return &event, nil
}
