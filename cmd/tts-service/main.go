// main package for the kitten-tts NATS service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/book-expert/kitten-tts/internal/assets"
	"github.com/book-expert/kitten-tts/internal/config"
	"github.com/book-expert/kitten-tts/internal/objectstore"
	"github.com/book-expert/kitten-tts/internal/phonemize"
	"github.com/book-expert/kitten-tts/internal/text"
	"github.com/book-expert/kitten-tts/internal/tts"
	"github.com/book-expert/kitten-tts/internal/voice"
	"github.com/book-expert/kitten-tts/internal/worker"
	"github.com/book-expert/logger"
	"github.com/dustin/go-humanize"
	"github.com/nats-io/nats.go"
)

func setupLogger(logPath, fileName string) (*logger.Logger, error) {
	err := assets.EnsureDir(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare log directory: %w", err)
	}

	log, err := logger.New(logPath, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger in %s: %w", logPath, err)
	}

	return log, nil
}

// buildProcessor loads the dictionary and voices and wires the pipeline.
func buildProcessor(cfg *config.Config, log *logger.Logger) (*tts.Processor, error) {
	dict, err := loadDictionary(cfg.TTS.DictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tts.ErrModelLoad, err)
	}

	log.Info("Pronunciation dictionary loaded with %s words.", humanize.Comma(int64(dict.Len())))

	voicesPath, err := assets.Resolve(cfg.TTS.VoicesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tts.ErrModelLoad, err)
	}

	archive, err := voice.LoadArchive(voicesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tts.ErrModelLoad, err)
	}

	log.Info("Voice archive %s loaded: %v", voicesPath, archive.Names())

	fallback, err := cfg.FallbackPolicy()
	if err != nil {
		return nil, err
	}

	stress, err := cfg.StressPolicy()
	if err != nil {
		return nil, err
	}

	selected, err := cfg.Voice()
	if err != nil {
		return nil, err
	}

	modelOpts := []tts.ModelOption{
		tts.WithVoice(selected),
		tts.WithPadding(cfg.Padding()),
		tts.WithLogger(log),
	}
	if cfg.TTS.NormalizeText {
		modelOpts = append(modelOpts, tts.WithNormalizer(text.NewNormalizer()))
	}

	phonemizer := phonemize.New(dict, phonemize.WithFallback(fallback), phonemize.WithStress(stress))
	log.Info("Phonemizer ready (fallback=%s, stress=%s).", phonemizer.Fallback(), phonemizer.Stress())

	model, err := tts.NewModel(
		phonemizer,
		tts.NewHTTPSynthesizer(cfg.TTS.EngineURL, cfg.Timeout()),
		archive,
		modelOpts...,
	)
	if err != nil {
		return nil, err
	}

	return tts.NewProcessor(model, cfg.TTS.SampleRate, log)
}

func loadDictionary(path string) (*phonemize.Dictionary, error) {
	if path == "" {
		return phonemize.BuiltinDictionary()
	}

	resolved, err := assets.Resolve(path)
	if err != nil {
		return nil, err
	}

	return phonemize.LoadDictionaryFile(resolved)
}

func run() error {
	// 1. Create a temporary logger for the bootstrap process
	bootstrapLog, err := setupLogger(os.TempDir(), "kitten-tts-bootstrap.log")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	bootstrapLog.Info("Bootstrap logger created.")

	// 2. Load configuration using the central configurator
	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		bootstrapLog.Error("Invalid configuration: %v", err)

		return fmt.Errorf("invalid configuration: %w", err)
	}

	bootstrapLog.Info("Configuration loaded successfully.")

	// 3. Initialize the final logger based on the loaded configuration
	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir, "kitten-tts.log")
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	// 4. Load the pipeline
	processor, err := buildProcessor(cfg, finalLog)
	if err != nil {
		finalLog.Error("Failed to build speech pipeline: %v", err)

		return err
	}

	// 5. Connect to NATS and the audio bucket
	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		finalLog.Error("Failed to connect to NATS at %s: %v", cfg.NATS.URL, err)

		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	store, err := objectstore.New(jetstreamContext, cfg.NATS.AudioObjectStoreBucket)
	if err != nil {
		finalLog.Error("Failed to open object store: %v", err)

		return err
	}

	ttsWorker, err := worker.NewNatsWorker(
		natsConnection,
		cfg.NATS.TextProcessedSubject,
		cfg.NATS.AudioChunkCreatedSubject,
		store,
		processor,
		finalLog,
	)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	// 6. Serve until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	finalLog.System("kitten-tts service initialized. Listening for jobs on subject: %s", cfg.NATS.TextProcessedSubject)

	err = ttsWorker.Run(ctx)
	if err != nil {
		finalLog.Error("Worker stopped with error: %v", err)

		return err
	}

	finalLog.System("kitten-tts service stopped.")

	return nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
