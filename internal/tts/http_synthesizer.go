package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// API endpoints and paths.
const (
	apiSynthesize = "/v1/synthesize"
	apiHealth     = "/health"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	contentTypeJSON   = "application/json"
)

// Named engine outputs.
const (
	outputWaveform = "waveform"
	outputDuration = "duration"
)

// Error messages.
const (
	errFmtServiceErrorWithCode = "synthesis service error (%s): %s (code: %s)"
	errFmtServiceNonOKStatus   = "synthesis service returned non-OK status: %s, body: %s"
	errFmtMissingOutput        = "response is missing the %q output"
	errFmtBadOutput            = "failed to decode %q output: %w"
	errFmtBatchSize            = "expected a batch of one, got %d"
)

// ErrEmptyStyle is returned when Synthesize is called without a voice vector.
var ErrEmptyStyle = errors.New("style vector cannot be empty")

// HTTPSynthesizer is a core.Synthesizer backed by an inference server that
// exposes the network's named inputs and outputs as JSON.
type HTTPSynthesizer struct {
	httpClient *http.Client
	baseURL    string
}

// SynthesizeRequest is the JSON payload of a synthesis call. Every input
// carries a leading batch dimension of one.
type SynthesizeRequest struct {
	InputIDs [][]int64   `json:"input_ids"`
	Style    [][]float32 `json:"style"`
	Speed    []float32   `json:"speed"`
}

// ErrorResponse is a structured error returned by the inference server.
type ErrorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
}

// NewHTTPSynthesizer creates a client for the inference server at baseURL,
// e.g. "http://localhost:8000". The timeout applies to every request.
func NewHTTPSynthesizer(baseURL string, timeout time.Duration) *HTTPSynthesizer {
	return &HTTPSynthesizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Synthesize sends one token sequence to the server and returns the waveform
// and the per-token durations it produced.
func (c *HTTPSynthesizer) Synthesize(
	ctx context.Context,
	tokens []int64,
	style []float32,
	speed float32,
) ([]float32, []int64, error) {
	if len(style) == 0 {
		return nil, nil, ErrEmptyStyle
	}

	requestBody, err := json.Marshal(SynthesizeRequest{
		InputIDs: [][]int64{tokens},
		Style:    [][]float32{style},
		Speed:    []float32{speed},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+apiSynthesize,
		bytes.NewReader(requestBody),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAccept, contentTypeJSON)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, nil, fmt.Errorf(
			"failed to send request to synthesis service at %s: %w",
			c.baseURL,
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, parseErrorResponse(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return decodeOutputs(body)
}

// HealthCheck verifies that the inference server is up.
func (c *HTTPSynthesizer) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiHealth, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf(
			"health check failed for service at %s: %w",
			c.baseURL,
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %s", resp.Status)
	}

	return nil
}

func decodeOutputs(body []byte) ([]float32, []int64, error) {
	var outputs map[string]json.RawMessage

	err := parseJSON(body, &outputs)
	if err != nil {
		return nil, nil, err
	}

	rawWaveform, ok := outputs[outputWaveform]
	if !ok {
		return nil, nil, fmt.Errorf(errFmtMissingOutput, outputWaveform)
	}

	rawDuration, ok := outputs[outputDuration]
	if !ok {
		return nil, nil, fmt.Errorf(errFmtMissingOutput, outputDuration)
	}

	waveform, err := parseTensor[float32](rawWaveform)
	if err != nil {
		return nil, nil, fmt.Errorf(errFmtBadOutput, outputWaveform, err)
	}

	durations, err := parseTensor[int64](rawDuration)
	if err != nil {
		return nil, nil, fmt.Errorf(errFmtBadOutput, outputDuration, err)
	}

	return waveform, durations, nil
}

// parseErrorResponse decodes a structured JSON error from the server and
// falls back to the raw body.
func parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errorResp ErrorResponse

	err := json.Unmarshal(body, &errorResp)
	if err == nil && errorResp.Detail != "" {
		return fmt.Errorf(errFmtServiceErrorWithCode,
			resp.Status, errorResp.Detail, errorResp.ErrorCode)
	}

	return fmt.Errorf(
		errFmtServiceNonOKStatus,
		resp.Status,
		string(body),
	)
}
