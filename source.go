package rowset

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// RowSource is the narrow row-iteration API the engine exposes to this layer.
//
// Pull advances the source's cursor and fills buf with the next row's cells
// in column order. It returns (true, nil) while a row was produced and
// (false, nil) once the source is exhausted. An engine failure mid-stream is
// reported as (false, err); exhaustion and error are distinct outcomes and a
// materialization must fail outright on error, never return a truncated
// result.
//
// Cell pointers written by Pull alias engine-owned memory valid only until
// the next Pull; the caller must convert the row into host values before
// advancing.
type RowSource interface {
	// Columns returns the ordered column list, stable for one execution.
	Columns() []Column

	// Pull fills buf with the next row. buf must hold at least Len(Columns())
	// cells.
	Pull(buf []Cell) (bool, error)

	// Changes returns the affected-row count for DML-only executions.
	Changes() int64
}

// MemorySource is a RowSource over pre-staged rows. It is the in-process
// counterpart of an engine cursor, intended for embedding tests, demos and
// benchmarks. Values are encoded into protocol cells once at construction;
// Pull then copies one row per call.
type MemorySource struct {
	columns []Column
	rows    [][]Cell
	next    int
	changes int64
}

// NewMemorySource stages rows under the given column names. Supported value
// types per field: nil, bool, int, int32, int64, float32, float64, string,
// time.Time (formatted as UTC RFC 3339 text at second precision), []float32
// (vector) and []byte (pre-packed little-endian vector bytes).
func NewMemorySource(names []string, rows [][]any) (*MemorySource, error) {
	columns := make([]Column, len(names))
	for i, n := range names {
		columns[i] = Column{Name: n}
	}

	staged := make([][]Cell, len(rows))
	for r, row := range rows {
		if len(row) != len(names) {
			return nil, NewError(ErrGeneric,
				fmt.Sprintf("row %d has %d values, want %d", r, len(row), len(names)))
		}
		cells := make([]Cell, len(row))
		for c, v := range row {
			cell, err := encodeValue(v)
			if err != nil {
				return nil, err
			}
			// Borrowed cell pointers reference the staged values, which stay
			// reachable through the cells for the source's lifetime.
			cells[c] = cell
		}
		staged[r] = cells
	}

	return &MemorySource{columns: columns, rows: staged}, nil
}

// SetChanges sets the affected-row count reported by Changes.
func (m *MemorySource) SetChanges(n int64) {
	m.changes = n
}

// Columns returns the ordered column list.
func (m *MemorySource) Columns() []Column {
	return m.columns
}

// Pull copies the next staged row into buf.
func (m *MemorySource) Pull(buf []Cell) (bool, error) {
	if m.next >= len(m.rows) {
		return false, nil
	}
	if len(buf) < len(m.columns) {
		return false, NewError(ErrResource,
			fmt.Sprintf("row buffer holds %d cells, need %d", len(buf), len(m.columns)))
	}
	copy(buf, m.rows[m.next])
	m.next++
	return true, nil
}

// Changes returns the affected-row count set with SetChanges.
func (m *MemorySource) Changes() int64 {
	return m.changes
}

// Reset rewinds the source to its first row.
func (m *MemorySource) Reset() {
	m.next = 0
}

// timestampLayout is the wire form of timestamp values: RFC 3339 at second
// precision, always UTC.
const timestampLayout = "2006-01-02T15:04:05Z"

// encodeValue converts one staged Go value into a protocol cell.
func encodeValue(v any) (Cell, error) {
	switch val := v.(type) {
	case nil:
		return NullCell(), nil
	case bool:
		return BoolCell(val), nil
	case int:
		return IntCell(int64(val)), nil
	case int32:
		return IntCell(int64(val)), nil
	case int64:
		return IntCell(val), nil
	case float32:
		return FloatCell(float64(val)), nil
	case float64:
		return FloatCell(val), nil
	case string:
		return StringCell(val), nil
	case time.Time:
		// Timestamps cross as formatted text, second precision, UTC.
		return StringCell(val.UTC().Format(timestampLayout)), nil
	case []float32:
		return VectorCell(packVector(val)), nil
	case []byte:
		return VectorCell(val), nil
	}
	return Cell{}, NewError(ErrGeneric, fmt.Sprintf("unsupported value type %T", v))
}

// packVector encodes float32 values as packed little-endian bytes, the wire
// form of FLOAT32_VECTOR.
func packVector(v []float32) []byte {
	b := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}
