// Package rowset materializes engine result streams into host values with minimal per-field overhead.
package rowset

import (
	"math"
	"unsafe"
)

// Tag identifies the active representation of a Cell.
type Tag uint8

// Cell tags. The numeric values are part of the wire protocol shared with
// the engine and must never be reordered or reused.
const (
	// TagNull is a SQL NULL.
	TagNull Tag = 0
	// TagBoolFalse is boolean false. No value slot is used.
	TagBoolFalse Tag = 1
	// TagBoolTrue is boolean true. No value slot is used.
	TagBoolTrue Tag = 2
	// TagInt32 is an integer within the 32-bit range, carried in the Int slot.
	TagInt32 Tag = 3
	// TagDouble is a finite 64-bit float, carried in the Float slot.
	TagDouble Tag = 4
	// TagString is UTF-8 text, carried as borrowed Ptr/Len bytes.
	TagString Tag = 5
	// TagInt64 is an integer outside the 32-bit range, carried in the Int slot.
	TagInt64 Tag = 6
	// TagFloat32Vector is a packed little-endian array of 32-bit floats,
	// carried as borrowed Ptr/Len bytes.
	TagFloat32Vector Tag = 7
)

// String returns the tag name for diagnostics.
func (t Tag) String() string {
	switch t {
	case TagNull:
		return "NULL"
	case TagBoolFalse:
		return "BOOL_FALSE"
	case TagBoolTrue:
		return "BOOL_TRUE"
	case TagInt32:
		return "INT32"
	case TagDouble:
		return "DOUBLE"
	case TagString:
		return "STRING"
	case TagInt64:
		return "INT64"
	case TagFloat32Vector:
		return "FLOAT32_VECTOR"
	}
	return "UNKNOWN"
}

// Cell is one tagged field value crossing the engine boundary.
//
// The layout is fixed and shared with native producers: one tag byte, seven
// bytes of padding, then the 64-bit integer slot, the 64-bit float slot and a
// borrowed pointer/length pair (40 bytes total on 64-bit platforms). At most
// one value slot is meaningful for a given tag; the others are ignored.
//
// Ptr aliases producer-owned memory and is valid only until the producer
// advances to the next row. Consumers must copy the referenced bytes into
// owned host values before the next Pull; a Cell must never be stored in any
// structure that outlives one row.
type Cell struct {
	Tag Tag
	_   [7]byte
	// Int holds INT32 and INT64 values.
	Int int64
	// Float holds DOUBLE values.
	Float float64
	// Ptr and Len describe borrowed bytes for STRING and FLOAT32_VECTOR.
	Ptr unsafe.Pointer
	Len int32
	_   [4]byte
}

// NullCell returns a NULL cell.
func NullCell() Cell {
	return Cell{Tag: TagNull}
}

// BoolCell returns a BOOL_TRUE or BOOL_FALSE cell.
func BoolCell(v bool) Cell {
	if v {
		return Cell{Tag: TagBoolTrue}
	}
	return Cell{Tag: TagBoolFalse}
}

// IntCell returns an INT32 cell when v fits the 32-bit range, otherwise an
// INT64 cell. Producers always emit the narrowest integer tag.
func IntCell(v int64) Cell {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return Cell{Tag: TagInt32, Int: v}
	}
	return Cell{Tag: TagInt64, Int: v}
}

// FloatCell returns a DOUBLE cell. NaN and infinities have no host
// representation in the protocol and degrade to NULL.
func FloatCell(v float64) Cell {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Cell{Tag: TagNull}
	}
	return Cell{Tag: TagDouble, Float: v}
}

// StringCell returns a STRING cell borrowing the bytes of s. The caller must
// keep s alive until the cell has been converted.
func StringCell(s string) Cell {
	if len(s) == 0 {
		return Cell{Tag: TagString}
	}
	return Cell{
		Tag: TagString,
		Ptr: unsafe.Pointer(unsafe.StringData(s)),
		Len: int32(len(s)),
	}
}

// VectorCell returns a FLOAT32_VECTOR cell borrowing packed little-endian
// float32 bytes. The caller must keep b alive until the cell has been
// converted.
func VectorCell(b []byte) Cell {
	if len(b) == 0 {
		return Cell{Tag: TagFloat32Vector}
	}
	return Cell{
		Tag: TagFloat32Vector,
		Ptr: unsafe.Pointer(unsafe.SliceData(b)),
		Len: int32(len(b)),
	}
}

// bytes returns the borrowed byte view of a STRING or FLOAT32_VECTOR cell.
func (c *Cell) bytes() []byte {
	if c.Ptr == nil || c.Len <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(c.Ptr), int(c.Len))
}
