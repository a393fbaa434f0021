package rowset

import (
	"fmt"
	"testing"

	"golang.org/x/sync/errgroup"
)

// Each materialization call owns its source and buffers; only the interning
// and buffer pools are shared. Concurrent calls over independent sources must
// not interfere.
func TestConcurrentMaterializations(t *testing.T) {
	const workers = 8
	const rowCount = 200

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			rows := make([][]any, rowCount)
			for i := range rows {
				rows[i] = []any{i, fmt.Sprintf("worker%d_row%d", w, i), i%2 == 0}
			}
			src, err := NewMemorySource([]string{"id", "label", "even"}, rows)
			if err != nil {
				return err
			}

			objs, err := All(src)
			if err != nil {
				return err
			}
			if len(objs) != rowCount {
				return fmt.Errorf("worker %d: expected %d rows, got %d", w, rowCount, len(objs))
			}
			for i, obj := range objs {
				label, ok := obj.Get("label")
				if !ok || label != fmt.Sprintf("worker%d_row%d", w, i) {
					return fmt.Errorf("worker %d: wrong label at row %d: %v", w, i, label)
				}
				id, _ := obj.Get("id")
				if id != int32(i) {
					return fmt.Errorf("worker %d: wrong id at row %d: %v", w, i, id)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestConcurrentShapeInterning(t *testing.T) {
	var g errgroup.Group
	for w := 0; w < 16; w++ {
		g.Go(func() error {
			for i := 0; i < 100; i++ {
				shape := BuildShape([]Column{{Name: "order_id"}, {Name: "total"}})
				if shape.Len() != 2 {
					return fmt.Errorf("expected 2 columns, got %d", shape.Len())
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}
