package rowset

import (
	"sync"
	"unsafe"
)

// Shared string map for cross-result deduplication of small strings.
// Column names and low-cardinality values (status codes, enum-like text)
// repeat heavily across executions; sharing one canonical copy keeps every
// shape and row referencing identical string data.
var sharedStrings = struct {
	mu sync.Mutex
	m  map[string]string
}{m: make(map[string]string, 2048)}

// getSharedString returns the canonical copy of value from the shared map.
func getSharedString(value string) string {
	sharedStrings.mu.Lock()
	defer sharedStrings.mu.Unlock()
	if cached, ok := sharedStrings.m[value]; ok {
		return cached
	}
	// Bound the map; past the cap new strings pass through uncached.
	if len(sharedStrings.m) >= 1<<16 {
		return value
	}
	sharedStrings.m[value] = value
	return value
}

// StringCache deduplicates string values converted from borrowed cell bytes
// during one result materialization. It balances CPU cost with memory: small
// strings are interned through the shared map, medium strings through the
// local map only, and large strings are converted without interning to avoid
// memory bloat.
//
// A cache is exclusive to one materialization call and is not safe for
// concurrent use.
type StringCache struct {
	// Per-column slot of the most recent value, for quick repeat access.
	columnValues []string

	// Local intern map for strings under the large threshold.
	internMap map[string]string

	// Size thresholds for the different handling paths.
	smallStringThreshold int
	largeStringThreshold int

	// Statistics for monitoring
	hits   int
	misses int
}

// NewStringCache creates a string cache for a result with the given column count.
func NewStringCache(columns int) *StringCache {
	return &StringCache{
		columnValues:         make([]string, columns),
		internMap:            make(map[string]string, 64),
		smallStringThreshold: 64,
		largeStringThreshold: 1024,
	}
}

// GetFromBytes converts borrowed bytes to an owned string, deduplicating
// against previously seen values. The returned string never aliases b.
func (sc *StringCache) GetFromBytes(colIdx int, b []byte) string {
	if colIdx >= len(sc.columnValues) {
		newValues := make([]string, colIdx+1)
		copy(newValues, sc.columnValues)
		sc.columnValues = newValues
	}

	if len(b) == 0 {
		sc.columnValues[colIdx] = ""
		return ""
	}

	// Fast path: the previous value of this column is often repeated
	// (sorted results, grouped data). Compare before allocating.
	if prev := sc.columnValues[colIdx]; len(prev) == len(b) && prev == string(b) {
		sc.hits++
		return prev
	}

	s := string(b)

	if len(b) < sc.smallStringThreshold {
		if cached, ok := sc.internMap[s]; ok {
			sc.columnValues[colIdx] = cached
			sc.hits++
			return cached
		}
		result := getSharedString(s)
		sc.internMap[s] = result
		sc.columnValues[colIdx] = result
		sc.misses++
		return result
	}

	if len(b) < sc.largeStringThreshold {
		if cached, ok := sc.internMap[s]; ok {
			sc.columnValues[colIdx] = cached
			sc.hits++
			return cached
		}
		sc.internMap[s] = s
		sc.columnValues[colIdx] = s
		sc.misses++
		return s
	}

	// Large strings: convert without interning.
	sc.columnValues[colIdx] = s
	sc.misses++
	return s
}

// Get deduplicates an already-owned string value.
func (sc *StringCache) Get(colIdx int, value string) string {
	if colIdx >= len(sc.columnValues) {
		newValues := make([]string, colIdx+1)
		copy(newValues, sc.columnValues)
		sc.columnValues = newValues
	}

	if value == "" {
		sc.columnValues[colIdx] = ""
		return ""
	}

	if len(value) < sc.largeStringThreshold {
		if cached, ok := sc.internMap[value]; ok {
			sc.columnValues[colIdx] = cached
			sc.hits++
			return cached
		}
		result := value
		if len(value) < sc.smallStringThreshold {
			result = getSharedString(value)
		}
		sc.internMap[value] = result
		sc.columnValues[colIdx] = result
		sc.misses++
		return result
	}

	sc.columnValues[colIdx] = value
	sc.misses++
	return value
}

// Reset clears the intern map to prevent unbounded growth when a cache is
// reused across repeated executions of one prepared statement.
func (sc *StringCache) Reset() {
	if len(sc.internMap) > 10000 {
		sc.internMap = make(map[string]string, 64)
		sc.hits = 0
		sc.misses = 0
	}
}

// Stats returns cache hit/miss statistics.
func (sc *StringCache) Stats() (hits, misses int) {
	return sc.hits, sc.misses
}

// nameInterner turns borrowed column-name bytes into canonical owned strings.
// Column name pointers are stable for the lifetime of one statement
// execution, so repeated pointers can be resolved without re-reading the
// bytes. Used only by BuildShape; name handles produced here are shared by
// every row object of the execution.
type nameInterner struct {
	byPtr map[uintptr]string
}

func newNameInterner(capacity int) *nameInterner {
	return &nameInterner{byPtr: make(map[uintptr]string, capacity)}
}

// intern returns the canonical owned string for borrowed name bytes.
func (ni *nameInterner) intern(ptr unsafe.Pointer, length int32) string {
	if ptr == nil || length <= 0 {
		return ""
	}
	addr := uintptr(ptr)
	if cached, ok := ni.byPtr[addr]; ok && len(cached) == int(length) {
		return cached
	}
	b := unsafe.Slice((*byte)(ptr), int(length))
	s := getSharedString(string(b))
	ni.byPtr[addr] = s
	return s
}
