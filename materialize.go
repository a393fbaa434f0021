package rowset

import "errors"

// One materializes at most one row. It returns (nil, nil) when the source is
// immediately exhausted — the host "no value" marker — and a well-formed
// object when a row exists. Remaining rows are not pulled.
func One(src RowSource) (*Object, error) {
	return OneShaped(src, BuildShape(src.Columns()))
}

// OneShaped is One with a caller-cached shape, for repeated executions of
// one prepared statement.
func OneShaped(src RowSource, shape *Shape) (*Object, error) {
	buf := AcquireRowBuffer(shape.Len())
	defer buf.Release()

	ok, err := src.Pull(buf.Cells())
	if err != nil {
		return nil, streamFailure(err)
	}
	if !ok {
		return nil, nil
	}

	values := make([]any, shape.Len())
	if err := convertRow(buf.Cells(), values, NewStringCache(shape.Len())); err != nil {
		return nil, err
	}
	return &Object{shape: shape, values: values}, nil
}

// All materializes every row into an array of row objects sharing one shape.
// A zero-row result yields an empty, non-nil array. Any mid-stream engine
// failure aborts the whole call; a partial result is never returned.
func All(src RowSource) ([]*Object, error) {
	return AllShaped(src, BuildShape(src.Columns()))
}

// AllShaped is All with a caller-cached shape.
func AllShaped(src RowSource, shape *Shape) ([]*Object, error) {
	buf := AcquireRowBuffer(shape.Len())
	defer buf.Release()

	cache := NewStringCache(shape.Len())
	values := make([]any, shape.Len())
	objects := make([]*Object, 0, 16)
	for {
		ok, err := src.Pull(buf.Cells())
		if err != nil {
			return nil, streamFailure(err)
		}
		if !ok {
			break
		}
		if err := convertRow(buf.Cells(), values, cache); err != nil {
			return nil, err
		}
		obj, err := BuildRowObject(shape, values)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return BuildBulkArray(objects), nil
}

// Raw materializes the columnar form: a {columns, rows} object holding the
// interned column names and one positional value array per row. A zero-row
// result yields {columns: [...], rows: []}.
func Raw(src RowSource) (*Object, error) {
	return RawShaped(src, BuildShape(src.Columns()))
}

// RawShaped is Raw with a caller-cached shape.
func RawShaped(src RowSource, shape *Shape) (*Object, error) {
	buf := AcquireRowBuffer(shape.Len())
	defer buf.Release()

	cache := NewStringCache(shape.Len())
	values := make([]any, shape.Len())
	rows := make([][]any, 0, 16)
	for {
		ok, err := src.Pull(buf.Cells())
		if err != nil {
			return nil, streamFailure(err)
		}
		if !ok {
			break
		}
		if err := convertRow(buf.Cells(), values, cache); err != nil {
			return nil, err
		}
		rows = append(rows, BuildRowArray(values))
	}
	return BuildPairObject("columns", shape.Columns(), "rows", rows), nil
}

// Run is the scalar fast path for data-modification statements: it bypasses
// row machinery entirely and constructs {changes} from the source's
// affected-row count.
func Run(src RowSource) *Object {
	return BuildScalarResult(src.Changes())
}

// streamFailure surfaces a mid-stream engine error as a single hard failure
// of the materialization call.
func streamFailure(err error) error {
	var rsErr *Error
	if errors.As(err, &rsErr) {
		return err
	}
	return WrapError(ErrStream, "engine reported failure mid-stream", err)
}
