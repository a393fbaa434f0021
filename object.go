package rowset

import (
	json "github.com/goccy/go-json"
)

// Object is one materialized row: a Shape shared with every other row of the
// same execution, plus this row's owned host values in column order. Keys
// live in the shape, so per-row cost is one value slice; lookups resolve
// through the shape's index.
//
// Objects built from one shape have identical key sets but fully independent
// values.
type Object struct {
	shape  *Shape
	values []any
}

// Shape returns the shared shape. Two rows of one execution return the
// identical *Shape.
func (o *Object) Shape() *Shape {
	return o.shape
}

// Len returns the field count.
func (o *Object) Len() int {
	return len(o.values)
}

// Keys returns the interned column names in result order. The returned slice
// is shared shape storage and must not be modified.
func (o *Object) Keys() []string {
	return o.shape.Columns()
}

// Get returns the value of the named field.
func (o *Object) Get(name string) (any, bool) {
	i, ok := o.shape.Index(name)
	if !ok {
		return nil, false
	}
	return o.values[i], true
}

// Index returns the value at ordinal i.
func (o *Object) Index(i int) any {
	return o.values[i]
}

// Set replaces the value of the named field. It reports false when the field
// does not exist; the key set of an object is fixed by its shape.
func (o *Object) Set(name string, v any) bool {
	i, ok := o.shape.Index(name)
	if !ok {
		return false
	}
	o.values[i] = v
	return true
}

// Values returns the object's value slice in column order. The slice is the
// object's own storage; mutating it mutates the object.
func (o *Object) Values() []any {
	return o.values
}

// MarshalJSON encodes the object as a JSON document preserving column order.
func (o *Object) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 16*len(o.values)+2)
	buf = append(buf, '{')
	for i, name := range o.shape.Columns() {
		if i > 0 {
			buf = append(buf, ',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf = append(buf, k...)
		buf = append(buf, ':')
		v, err := json.Marshal(o.values[i])
		if err != nil {
			return nil, err
		}
		buf = append(buf, v...)
	}
	buf = append(buf, '}')
	return buf, nil
}
