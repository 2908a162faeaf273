package tts

import (
	"encoding/json"
	"fmt"
)

// parseJSON parses JSON data into the target interface.
func parseJSON(data []byte, target any) error {
	err := json.Unmarshal(data, target)
	if err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}

// parseTensor decodes a named output that is either a flat array or an
// array with a leading batch dimension of one.
func parseTensor[T float32 | int64](data json.RawMessage) ([]T, error) {
	var flat []T

	flatErr := parseJSON(data, &flat)
	if flatErr == nil {
		return flat, nil
	}

	var batched [][]T

	err := parseJSON(data, &batched)
	if err != nil {
		return nil, flatErr
	}

	if len(batched) != 1 {
		return nil, fmt.Errorf(errFmtBatchSize, len(batched))
	}

	return batched[0], nil
}
