package rowset

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Value converts a cell into an owned host value:
//
//	NULL           -> nil
//	BOOL_*         -> bool
//	INT32          -> int32
//	DOUBLE         -> float64
//	STRING         -> string (bytes copied, optionally deduplicated via cache)
//	INT64          -> float64 (the host numeric representation; exact up to
//	                  2^53, lossy beyond that by design)
//	FLOAT32_VECTOR -> []float32 (bytes copied into a fresh, aligned slice)
//
// colIdx selects the per-column slot of the string cache; pass a nil cache to
// skip value deduplication. An unrecognized tag or a malformed vector length
// is a protocol error and fails the conversion; it is never silently mapped
// to NULL, since that would mask a producer/consumer version mismatch.
func (c *Cell) Value(colIdx int, cache *StringCache) (any, error) {
	switch c.Tag {
	case TagNull:
		return nil, nil
	case TagBoolFalse:
		return false, nil
	case TagBoolTrue:
		return true, nil
	case TagInt32:
		return int32(c.Int), nil
	case TagDouble:
		return c.Float, nil
	case TagString:
		b := c.bytes()
		if len(b) == 0 {
			return "", nil
		}
		if cache != nil {
			return cache.GetFromBytes(colIdx, b), nil
		}
		return string(b), nil
	case TagInt64:
		// Outside the 32-bit range the host numeric type is a double.
		// Exact for magnitudes up to 2^53, lossy beyond that.
		return float64(c.Int), nil
	case TagFloat32Vector:
		return c.vectorValue()
	}
	return nil, NewError(ErrProtocol, fmt.Sprintf("unknown cell tag %d", uint8(c.Tag)))
}

// vectorValue copies packed little-endian float32 bytes into a fresh slice.
func (c *Cell) vectorValue() ([]float32, error) {
	if c.Len%4 != 0 {
		return nil, NewError(ErrProtocol,
			fmt.Sprintf("vector byte length %d is not a multiple of 4", c.Len))
	}
	b := c.bytes()
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, nil
}

// convertRow converts one pulled row of cells into host values, in column
// order. out must be sized to the column count.
func convertRow(cells []Cell, out []any, cache *StringCache) error {
	for i := range out {
		v, err := cells[i].Value(i, cache)
		if err != nil {
			return err
		}
		out[i] = v
	}
	return nil
}
