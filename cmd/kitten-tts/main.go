// Package main provides the kitten-tts command: text in, WAV file out.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/book-expert/kitten-tts/internal/assets"
	"github.com/book-expert/kitten-tts/internal/config"
	"github.com/book-expert/kitten-tts/internal/phonemize"
	"github.com/book-expert/kitten-tts/internal/text"
	"github.com/book-expert/kitten-tts/internal/tts"
	"github.com/book-expert/kitten-tts/internal/voice"
	"github.com/book-expert/kitten-tts/internal/wav"
	"github.com/book-expert/logger"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Flag names.
const (
	flagWAV        = "wav"
	flagPhonemes   = "phonemes"
	flagVoice      = "voice"
	flagDict       = "dict"
	flagVoices     = "voices"
	flagEngineURL  = "engine-url"
	flagTimeout    = "timeout"
	flagSampleRate = "sample-rate"
	flagNormalize  = "normalize"
	flagNoPad      = "no-pad"
	flagFallback   = "fallback"
	flagStress     = "stress"
	flagLogDir     = "log-dir"
	flagHealth     = "health"
)

// Defaults.
const (
	defaultOutputFile = "output.wav"
	defaultVoicesFile = "voices.npz"
	logFileName       = "kitten-tts.log"
	healthTimeout     = 10 * time.Second
)

// Messages.
const (
	msgWrote          = "Wrote %s (%s of audio, %d tokens) to %s\n"
	msgServiceHealthy = "Synthesis service is healthy"
	logPhonemes       = "Phonemes: %s"
	logWrote          = "Wrote %s to %s"
	logPhonemizer     = "Phonemizer ready (fallback=%s, stress=%s)"
)

var (
	errStdinIsTerminal = errors.New("no text given and stdin is a terminal")
	errEmptyInput      = errors.New("input text is empty")
)

// options holds the parsed command-line flag values.
type options struct {
	wav        string
	phonemes   bool
	voice      string
	dict       string
	voices     string
	engineURL  string
	timeout    time.Duration
	sampleRate uint32
	normalize  bool
	noPad      bool
	fallback   string
	stress     string
	logDir     string
	health     bool
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "kitten-tts [TEXT]",
		Short: "Synthesize speech from text into a WAV file",
		Long: "Synthesize speech from the TEXT argument, or from stdin when no argument is given.\n" +
			"Words are resolved to IPA with a pronunciation dictionary, encoded into model tokens\n" +
			"and sent to a synthesis server.",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.wav, flagWAV, defaultOutputFile, "output WAV file")
	flags.BoolVar(&opts.phonemes, flagPhonemes, false, "treat the input as an IPA phoneme string")
	flags.StringVar(&opts.voice, flagVoice, string(voice.Default), "voice, one of 2-m, 2-f, 3-m, 3-f, 4-m, 4-f, 5-m, 5-f")
	flags.StringVar(&opts.dict, flagDict, "", "CMU-format dictionary (.dict, .gz or .zst); empty uses the built-in one")
	flags.StringVar(&opts.voices, flagVoices, defaultVoicesFile, "voice embeddings archive (.npz)")
	flags.StringVar(&opts.engineURL, flagEngineURL, config.DefaultEngineURL, "synthesis server base URL")
	flags.DurationVar(&opts.timeout, flagTimeout, config.DefaultTimeoutSeconds*time.Second, "synthesis request timeout")
	flags.Uint32Var(&opts.sampleRate, flagSampleRate, 0, "sample rate written to the WAV header (0 for 22000)")
	flags.BoolVar(&opts.normalize, flagNormalize, false, "expand abbreviations and numbers before phonemizing")
	flags.BoolVar(&opts.noPad, flagNoPad, false, "do not add a silent sample at both ends")
	flags.StringVar(&opts.fallback, flagFallback, "spell_out", "policy for unknown words: spell_out or drop")
	flags.StringVar(&opts.stress, flagStress, "keep_primary", "stress policy: keep_primary or strip_all")
	flags.StringVar(&opts.logDir, flagLogDir, os.TempDir(), "directory for the log file")
	flags.BoolVar(&opts.health, flagHealth, false, "check the synthesis server and exit")

	return cmd
}

func run(ctx context.Context, stdin io.Reader, stdout io.Writer, args []string, opts options) error {
	err := assets.EnsureDir(opts.logDir)
	if err != nil {
		return err
	}

	log, err := logger.New(opts.logDir, logFileName)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	defer func() {
		_ = log.Close()
	}()

	synth := tts.NewHTTPSynthesizer(opts.engineURL, opts.timeout)

	if opts.health {
		healthCtx, cancel := context.WithTimeout(ctx, healthTimeout)
		defer cancel()

		err = synth.HealthCheck(healthCtx)
		if err != nil {
			log.Error("Health check failed: %v", err)

			return err
		}

		_, _ = fmt.Fprintln(stdout, msgServiceHealthy)

		return nil
	}

	input, err := readInput(stdin, args)
	if err != nil {
		return err
	}

	model, err := buildModel(synth, log, opts)
	if err != nil {
		log.Error("Failed to load model: %v", err)

		return err
	}

	var result *tts.Result
	if opts.phonemes {
		result, err = model.GenerateFromPhonemes(ctx, input)
	} else {
		result, err = model.Generate(ctx, input)
	}

	if err != nil {
		log.Error("Synthesis failed: %v", err)

		return err
	}

	log.Info(logPhonemes, result.Phonemes)

	err = assets.EnsureDir(filepath.Dir(opts.wav))
	if err != nil {
		log.Error("Failed to prepare output directory: %v", err)

		return err
	}

	err = tts.SaveWAV(opts.wav, result, opts.sampleRate)
	if err != nil {
		log.Error("Failed to save %s: %v", opts.wav, err)

		return err
	}

	info, err := os.Stat(opts.wav)
	if err != nil {
		return fmt.Errorf("%w: %w", tts.ErrModelResultSave, err)
	}

	size := humanize.Bytes(uint64(info.Size()))
	log.Info(logWrote, size, opts.wav)

	_, _ = fmt.Fprintf(stdout, msgWrote, size,
		assets.FormatDuration(audioSeconds(len(result.Waveform), opts.sampleRate)), len(result.Tokens), opts.wav)

	return nil
}

// readInput returns the text argument, or stdin when there is none.
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		if strings.TrimSpace(args[0]) == "" {
			return "", errEmptyInput
		}

		return args[0], nil
	}

	if file, ok := stdin.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return "", errStdinIsTerminal
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}

	input := strings.TrimSpace(string(data))
	if input == "" {
		return "", errEmptyInput
	}

	return input, nil
}

func buildModel(synth *tts.HTTPSynthesizer, log *logger.Logger, opts options) (*tts.Model, error) {
	dict, err := loadDictionary(opts.dict)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tts.ErrModelLoad, err)
	}

	fallback, err := phonemize.ParseFallbackPolicy(opts.fallback)
	if err != nil {
		return nil, err
	}

	stress, err := phonemize.ParseStressPolicy(opts.stress)
	if err != nil {
		return nil, err
	}

	selected, err := voice.Parse(opts.voice)
	if err != nil {
		return nil, err
	}

	voicesPath, err := assets.Resolve(opts.voices)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tts.ErrModelLoad, err)
	}

	archive, err := voice.LoadArchive(voicesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tts.ErrModelLoad, err)
	}

	modelOpts := []tts.ModelOption{
		tts.WithVoice(selected),
		tts.WithPadding(!opts.noPad),
		tts.WithLogger(log),
	}
	if opts.normalize {
		modelOpts = append(modelOpts, tts.WithNormalizer(text.NewNormalizer()))
	}

	phonemizer := phonemize.New(dict, phonemize.WithFallback(fallback), phonemize.WithStress(stress))
	log.Info(logPhonemizer, phonemizer.Fallback(), phonemizer.Stress())

	return tts.NewModel(
		phonemizer,
		synth,
		archive,
		modelOpts...,
	)
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

func audioSeconds(samples int, sampleRate uint32) float64 {
	if sampleRate == 0 {
		sampleRate = wav.DefaultSampleRate
	}

	return float64(samples) / float64(sampleRate)
}
