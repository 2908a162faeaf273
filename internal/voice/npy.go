package voice

import (
	"errors"
	"fmt"
	"io"

	"github.com/sbinet/npyio"
)

// Supported little-endian float dtypes.
const (
	descrFloat32 = "<f4"
	descrFloat64 = "<f8"

	widthFloat32 = 4
	widthFloat64 = 8
)

// ErrInvalidArray is returned for an .npy payload that cannot be decoded.
var ErrInvalidArray = errors.New("invalid npy array")

// decodeNPY reads a float .npy array of at most size payload bytes and
// flattens it in storage order.
func decodeNPY(r io.Reader, size uint64) ([]float32, error) {
	reader, err := npyio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArray, err)
	}

	descr := reader.Header.Descr

	var width uint64

	switch descr.Type {
	case descrFloat32:
		width = widthFloat32
	case descrFloat64:
		width = widthFloat64
	default:
		return nil, fmt.Errorf("%w: unsupported dtype %q", ErrInvalidArray, descr.Type)
	}

	if descr.Fortran && nonUnitDims(descr.Shape) > 1 {
		return nil, fmt.Errorf("%w: fortran-ordered matrix %v", ErrInvalidArray, descr.Shape)
	}

	err = checkShape(descr.Shape, size/width)
	if err != nil {
		return nil, err
	}

	if width == widthFloat32 {
		var values []float32

		err = reader.Read(&values)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArray, err)
		}

		return values, nil
	}

	var wide []float64

	err = reader.Read(&wide)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArray, err)
	}

	values := make([]float32, len(wide))
	for i, v := range wide {
		values[i] = float32(v)
	}

	return values, nil
}

// checkShape rejects a shape whose element count exceeds maxElems. The
// product is bounded at every step so it never overflows.
func checkShape(shape []int, maxElems uint64) error {
	for _, dim := range shape {
		if dim < 0 {
			return fmt.Errorf("%w: negative dimension %d", ErrInvalidArray, dim)
		}
	}

	count := uint64(1)

	for _, dim := range shape {
		if dim == 0 {
			return nil
		}

		if uint64(dim) > maxElems/count {
			return fmt.Errorf("%w: shape %v exceeds the %d elements present", ErrInvalidArray, shape, maxElems)
		}

		count *= uint64(dim)
	}

	return nil
}

func nonUnitDims(shape []int) int {
	n := 0

	for _, dim := range shape {
		if dim != 1 {
			n++
		}
	}

	return n
}
