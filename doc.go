/*
Package rowset materializes typed row streams produced by an embedded database
engine into native Go values with minimal per-field overhead.

# Overview

Rowset sits at the boundary between an engine's row cursor and the embedding
process. The engine produces rows as fixed-layout tagged cells (see Cell); this
package pulls them one row at a time into a pooled buffer, converts each cell
into an owned host value, and assembles one of four result forms:

 1. One — a single row object, or nil when the result is empty
 2. All — an array of row objects sharing one key layout
 3. Raw — the columnar form {columns, rows} with positional value arrays
 4. Run — the scalar {changes} outcome of a data-modification statement

The design goal is amortized allocation: one reused row buffer per call, column
names interned once per execution, string values deduplicated through a cache,
and every row object of an execution sharing a single Shape so per-row cost is
one value slice.

# Example

Materialize rows from an in-memory source:

	package main

	import (
		"fmt"
		"log"

		"github.com/semihalev/go-rowset"
	)

	func main() {
		src, err := rowset.NewMemorySource(
			[]string{"id", "name", "active"},
			[][]any{
				{1, "Alice", true},
				{2, "Bob", false},
			},
		)
		if err != nil {
			log.Fatalf("failed to stage rows: %v", err)
		}

		rows, err := rowset.All(src)
		if err != nil {
			log.Fatalf("failed to materialize: %v", err)
		}

		for _, row := range rows {
			name, _ := row.Get("name")
			fmt.Println(name)
		}
	}

The columnar form avoids per-row keyed objects:

	src.Reset()
	raw, err := rowset.Raw(src)
	// raw is {columns: ["id", "name", "active"], rows: [[1, "Alice", true], ...]}

# Engine integration

Engines integrate by implementing RowSource: an ordered column list, a pull
call filling a caller-supplied cell buffer, and an affected-row count for DML.
Exhaustion and mid-stream failure are distinct pull outcomes; any engine error
aborts the whole materialization rather than returning a truncated result.

Engines compiled as shared libraries can be bound without CGO through
NativeSource, which resolves the cursor ABI via purego at first use.

# Lifetime contract

Cell pointers written by a pull alias engine-owned memory and are valid only
until the next pull. All conversion to owned values happens inside the
materialization call; no borrowed pointer survives it.

# Concurrency

A materialization call runs synchronously on the calling goroutine and shares
no mutable state with other calls except the process-wide interning and buffer
pools, which are safe for concurrent use. A RowSource and its buffers must not
be shared between concurrent calls.
*/
package rowset
