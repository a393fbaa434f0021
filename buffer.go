package rowset

import (
	"sync"
	"sync/atomic"
)

// InlineCells is the column-count threshold below which a row buffer uses its
// fixed inline cell array. Wider results get a heap slice sized exactly to
// the column count for the duration of one materialization.
const InlineCells = 64

// RowBuffer holds the cells of one in-flight row. It is filled in place on
// every Pull and reused across rows; its contents are only valid until the
// producer advances, so each row must be converted before the next Pull.
//
// A RowBuffer is exclusive to one materialization call. Acquire with
// AcquireRowBuffer and release with Release on every exit path.
type RowBuffer struct {
	inline   [InlineCells]Cell
	cells    []Cell
	released bool
}

// Cells returns the buffer's cell slice, sized to the column count it was
// acquired for.
func (b *RowBuffer) Cells() []Cell {
	return b.cells
}

// Release returns the buffer to the pool. Heap storage for wide rows is
// dropped rather than pooled, so wide materializations never pin oversized
// allocations. Release is idempotent.
func (b *RowBuffer) Release() {
	if b == nil || b.released {
		return
	}
	b.released = true
	if b.cells != nil && len(b.cells) > InlineCells {
		atomic.AddUint64(&rowBuffers.discards, 1)
	}
	b.cells = nil
	atomic.AddUint64(&rowBuffers.puts, 1)
	rowBuffers.buffers.Put(b)
}

// bufferPool recycles RowBuffer wrappers across materialization calls.
type bufferPool struct {
	buffers sync.Pool

	// Statistics for monitoring and tuning
	gets     uint64
	puts     uint64
	misses   uint64
	discards uint64
}

var rowBuffers = newBufferPool()

func newBufferPool() *bufferPool {
	p := &bufferPool{}
	p.buffers = sync.Pool{
		New: func() interface{} {
			atomic.AddUint64(&p.misses, 1)
			return &RowBuffer{released: true}
		},
	}
	return p
}

// AcquireRowBuffer returns a row buffer sized to colCount cells. Column
// counts at or below InlineCells use the buffer's inline array; wider rows
// allocate a heap slice sized exactly to the column count.
func AcquireRowBuffer(colCount int) *RowBuffer {
	if colCount < 0 {
		colCount = 0
	}
	atomic.AddUint64(&rowBuffers.gets, 1)

	b := rowBuffers.buffers.Get().(*RowBuffer)
	b.released = false
	if colCount <= InlineCells {
		b.cells = b.inline[:colCount]
		// Clear any cells left over from the previous materialization.
		for i := range b.cells {
			b.cells[i] = Cell{}
		}
	} else {
		b.cells = make([]Cell, colCount)
	}
	return b
}

// BufferPoolStats returns get/put/miss/discard counters for the row buffer
// pool.
func BufferPoolStats() map[string]uint64 {
	return map[string]uint64{
		"gets":     atomic.LoadUint64(&rowBuffers.gets),
		"puts":     atomic.LoadUint64(&rowBuffers.puts),
		"misses":   atomic.LoadUint64(&rowBuffers.misses),
		"discards": atomic.LoadUint64(&rowBuffers.discards),
	}
}
