package rowset

import "unsafe"

// Column describes one result column: its name and ordinal position. The
// ordinal is implicit in slice order. Name may alias engine-owned bytes when
// produced by a native source; BuildShape interns every name into an owned
// canonical string, so a Shape never borrows.
type Column struct {
	Name string
}

// Shape is the ordered set of interned column names for one statement
// execution, shared by every row object built from that execution. Building
// all rows of a result against one *Shape is what lets the host side share a
// single key layout instead of re-deriving it per row.
//
// A Shape is immutable after construction.
type Shape struct {
	names []string
	index map[string]int
}

// BuildShape creates a Shape from an ordered column list. Names are interned:
// identical names, within the shape or across shapes, resolve to one
// canonical string handle. Callers may cache the returned Shape across
// repeated executions of the same prepared statement, provided the column
// list does not change between executions.
func BuildShape(cols []Column) *Shape {
	names := make([]string, len(cols))
	index := make(map[string]int, len(cols))
	ni := newNameInterner(len(cols))
	for i, c := range cols {
		var n string
		if len(c.Name) == 0 {
			n = ""
		} else {
			n = ni.intern(unsafe.Pointer(unsafe.StringData(c.Name)), int32(len(c.Name)))
		}
		names[i] = n
		// Duplicate names resolve to the last ordinal, the same way repeated
		// key assignment on a host object leaves the last value visible.
		// Positional access through Index(i)/Name(i) still reaches every
		// column.
		index[n] = i
	}
	return &Shape{names: names, index: index}
}

// Len returns the column count.
func (s *Shape) Len() int {
	return len(s.names)
}

// Columns returns the interned column names in result order. The returned
// slice is the shape's own storage and must not be modified.
func (s *Shape) Columns() []string {
	return s.names
}

// Name returns the interned name of the column at ordinal i.
func (s *Shape) Name(i int) string {
	return s.names[i]
}

// Index returns the ordinal of the named column. For duplicated names it
// returns the last occurrence.
func (s *Shape) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}
