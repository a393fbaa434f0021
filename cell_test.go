package rowset

import (
	"math"
	"testing"
	"unsafe"
)

func TestCellLayout(t *testing.T) {
	// The layout is the wire contract with native producers; any drift here
	// is a protocol break.
	if size := unsafe.Sizeof(Cell{}); size != 40 {
		t.Errorf("Expected Cell size 40, got %d", size)
	}

	var c Cell
	if off := unsafe.Offsetof(c.Int); off != 8 {
		t.Errorf("Expected Int at offset 8, got %d", off)
	}
	if off := unsafe.Offsetof(c.Float); off != 16 {
		t.Errorf("Expected Float at offset 16, got %d", off)
	}
	if off := unsafe.Offsetof(c.Ptr); off != 24 {
		t.Errorf("Expected Ptr at offset 24, got %d", off)
	}
	if off := unsafe.Offsetof(c.Len); off != 32 {
		t.Errorf("Expected Len at offset 32, got %d", off)
	}
}

func TestNullRoundTrip(t *testing.T) {
	c := NullCell()
	v, err := c.Value(0, nil)
	if err != nil {
		t.Fatalf("Failed to convert null cell: %v", err)
	}
	if v != nil {
		t.Errorf("Expected nil, got %v", v)
	}
}

func TestBoolRoundTrip(t *testing.T) {
	for _, want := range []bool{true, false} {
		c := BoolCell(want)
		v, err := c.Value(0, nil)
		if err != nil {
			t.Fatalf("Failed to convert bool cell: %v", err)
		}
		got, ok := v.(bool)
		if !ok || got != want {
			t.Errorf("Expected %v, got %v", want, v)
		}
	}
}

func TestInt32BoundaryRoundTrip(t *testing.T) {
	for _, want := range []int64{math.MinInt32, math.MaxInt32, 0, -1, 42} {
		c := IntCell(want)
		if c.Tag != TagInt32 {
			t.Fatalf("Expected INT32 tag for %d, got %s", want, c.Tag)
		}
		v, err := c.Value(0, nil)
		if err != nil {
			t.Fatalf("Failed to convert int cell: %v", err)
		}
		got, ok := v.(int32)
		if !ok || int64(got) != want {
			t.Errorf("Expected %d, got %v", want, v)
		}
	}
}

func TestInt64RoundTrip(t *testing.T) {
	// 2^53 - 1, the largest integer a double represents exactly.
	const exact = int64(9007199254740991)
	c := IntCell(exact)
	if c.Tag != TagInt64 {
		t.Fatalf("Expected INT64 tag, got %s", c.Tag)
	}
	v, err := c.Value(0, nil)
	if err != nil {
		t.Fatalf("Failed to convert int64 cell: %v", err)
	}
	got, ok := v.(float64)
	if !ok {
		t.Fatalf("Expected float64, got %T", v)
	}
	if int64(got) != exact {
		t.Errorf("Expected exact round trip of %d, got %v", exact, got)
	}

	// Beyond 2^53: precision may be lost but the result must be finite.
	huge := int64(1) << 62
	hugeCell := IntCell(huge)
	v, err = hugeCell.Value(0, nil)
	if err != nil {
		t.Fatalf("Failed to convert large int64 cell: %v", err)
	}
	f, ok := v.(float64)
	if !ok {
		t.Fatalf("Expected float64, got %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		t.Errorf("Expected finite result for %d, got %v", huge, f)
	}
}

func TestDoubleRoundTrip(t *testing.T) {
	for _, want := range []float64{0, math.Pi, -1.5, math.MaxFloat64, math.SmallestNonzeroFloat64} {
		c := FloatCell(want)
		v, err := c.Value(0, nil)
		if err != nil {
			t.Fatalf("Failed to convert double cell: %v", err)
		}
		got, ok := v.(float64)
		if !ok || got != want {
			t.Errorf("Expected %v preserved to full precision, got %v", want, v)
		}
	}
}

func TestNonFiniteDoubleDegradesToNull(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		c := FloatCell(f)
		if c.Tag != TagNull {
			t.Errorf("Expected NULL tag for %v, got %s", f, c.Tag)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, want := range []string{"", "Alice", "héllo, 世界 🚀", "line\nbreak\tand\x00nul"} {
		c := StringCell(want)
		v, err := c.Value(0, nil)
		if err != nil {
			t.Fatalf("Failed to convert string cell: %v", err)
		}
		got, ok := v.(string)
		if !ok || got != want {
			t.Errorf("Expected %q preserved byte-for-byte, got %v", want, v)
		}
	}
}

func TestStringConversionCopies(t *testing.T) {
	src := []byte("borrowed")
	c := Cell{Tag: TagString, Ptr: unsafe.Pointer(&src[0]), Len: int32(len(src))}
	v, err := c.Value(0, nil)
	if err != nil {
		t.Fatalf("Failed to convert string cell: %v", err)
	}
	// Mutating the source after conversion must not affect the host value.
	src[0] = 'X'
	if v.(string) != "borrowed" {
		t.Errorf("Expected owned copy, got aliased value %q", v)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	want := []float32{0.1, 0.2, 0.3}
	c := VectorCell(packVector(want))
	v, err := c.Value(0, nil)
	if err != nil {
		t.Fatalf("Failed to convert vector cell: %v", err)
	}
	got, ok := v.([]float32)
	if !ok {
		t.Fatalf("Expected []float32, got %T", v)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 elements, got %d", len(got))
	}
	for i := range want {
		if diff := math.Abs(float64(got[i]) - float64(want[i])); diff > 1e-6 {
			t.Errorf("Element %d: expected %v within 1e-6, got %v", i, want[i], got[i])
		}
	}
}

func TestEmptyVector(t *testing.T) {
	c := VectorCell(nil)
	v, err := c.Value(0, nil)
	if err != nil {
		t.Fatalf("Failed to convert empty vector cell: %v", err)
	}
	got, ok := v.([]float32)
	if !ok || len(got) != 0 {
		t.Errorf("Expected empty []float32, got %v", v)
	}
}

func TestMalformedVectorLength(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5}
	c := Cell{Tag: TagFloat32Vector, Ptr: unsafe.Pointer(&b[0]), Len: 5}
	_, err := c.Value(0, nil)
	if err == nil {
		t.Fatal("Expected protocol error for odd vector length")
	}
	if !IsError(err, ErrProtocol) {
		t.Errorf("Expected ErrProtocol, got %v", err)
	}
}

func TestUnknownTagFailsLoudly(t *testing.T) {
	c := Cell{Tag: Tag(250)}
	_, err := c.Value(0, nil)
	if err == nil {
		t.Fatal("Expected protocol error for unknown tag")
	}
	if !IsError(err, ErrProtocol) {
		t.Errorf("Expected ErrProtocol, got %v", err)
	}
}

func TestTagNames(t *testing.T) {
	cases := map[Tag]string{
		TagNull:          "NULL",
		TagBoolFalse:     "BOOL_FALSE",
		TagBoolTrue:      "BOOL_TRUE",
		TagInt32:         "INT32",
		TagDouble:        "DOUBLE",
		TagString:        "STRING",
		TagInt64:         "INT64",
		TagFloat32Vector: "FLOAT32_VECTOR",
		Tag(99):          "UNKNOWN",
	}
	for tag, want := range cases {
		if got := tag.String(); got != want {
			t.Errorf("Expected %s for tag %d, got %s", want, uint8(tag), got)
		}
	}
}
