package rowset

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/exp/constraints"
)

// BuildRowObject constructs one row object in a single call from the full
// value slice. Every row of an execution must be built against the same
// *Shape so the key layout is shared. values is copied; the caller may reuse
// its slice for the next row. Zero columns is valid and yields a well-formed
// empty object.
func BuildRowObject(shape *Shape, values []any) (*Object, error) {
	if len(values) != shape.Len() {
		return nil, NewError(ErrGeneric,
			fmt.Sprintf("row has %d values, shape has %d columns", len(values), shape.Len()))
	}
	owned := make([]any, len(values))
	copy(owned, values)
	return &Object{shape: shape, values: owned}, nil
}

// BuildRowArray constructs the positional (values-only) form of one row.
// values is copied.
func BuildRowArray(values []any) []any {
	owned := make([]any, len(values))
	copy(owned, values)
	return owned
}

// BuildBulkArray constructs the final result array from collected row
// objects in one call, sized exactly to the row count.
func BuildBulkArray(objects []*Object) []*Object {
	out := make([]*Object, len(objects))
	copy(out, objects)
	return out
}

// Two-key wrapper shapes are process-wide state resolved once per key pair
// rather than rebuilt on every call.
var pairShapes sync.Map // [2]string -> *Shape

// BuildPairObject constructs a two-field object, used for the columnar
// {columns, rows} result wrapper.
func BuildPairObject(keyA string, valueA any, keyB string, valueB any) *Object {
	k := [2]string{keyA, keyB}
	var shape *Shape
	if cached, ok := pairShapes.Load(k); ok {
		shape = cached.(*Shape)
	} else {
		shape = BuildShape([]Column{{Name: keyA}, {Name: keyB}})
		if existing, loaded := pairShapes.LoadOrStore(k, shape); loaded {
			shape = existing.(*Shape)
		}
	}
	return &Object{shape: shape, values: []any{valueA, valueB}}
}

// Shared shape for scalar run results, resolved once at package init.
var runShape = BuildShape([]Column{{Name: "changes"}})

// BuildScalarResult constructs the {changes} object for a data-modification
// statement, with the narrowest exact integer representation that fits.
func BuildScalarResult(changes int64) *Object {
	return &Object{shape: runShape, values: []any{narrowInt(changes)}}
}

// Null returns the host null value.
func Null() any {
	return nil
}

// narrowInt returns int32 when v fits the 32-bit range, otherwise the host's
// double representation.
func narrowInt[T constraints.Signed](v T) any {
	if int64(v) >= math.MinInt32 && int64(v) <= math.MaxInt32 {
		return int32(v)
	}
	return float64(v)
}
