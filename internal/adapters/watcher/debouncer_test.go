package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nob/internal/adapters/watcher"
)

// recorder collects the batches delivered by a debouncer.
type recorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *recorder) record(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, paths)
}

func (r *recorder) get() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches
}

func TestDebouncer_Batches(t *testing.T) {
	tests := []struct {
		name string
		adds []string
		want [][]string
	}{
		{
			name: "single path",
			adds: []string{"src/main.c"},
			want: [][]string{{"src/main.c"}},
		},
		{
			name: "burst is coalesced and sorted",
			adds: []string{"src/util.c", "include/lib.h", "src/lib.c"},
			want: [][]string{{"include/lib.h", "src/lib.c", "src/util.c"}},
		},
		{
			name: "duplicates are merged",
			adds: []string{"src/main.c", "src/main.c", "src/main.c"},
			want: [][]string{{"src/main.c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				rec := &recorder{}
				d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

				for _, p := range tt.adds {
					d.Add(p)
				}
				time.Sleep(150 * time.Millisecond)
				synctest.Wait()

				assert.Equal(t, tt.want, rec.get())
			})
		})
	}
}

func TestDebouncer_WindowRestartsOnAdd(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &recorder{}
		d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("src/lib.c")
		time.Sleep(50 * time.Millisecond)
		d.Add("src/util.c")
		time.Sleep(50 * time.Millisecond)
		synctest.Wait()

		// 100ms after the first add the batch is still pending.
		assert.Empty(t, rec.get())

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		require.Len(t, rec.get(), 1)
		assert.Equal(t, []string{"src/lib.c", "src/util.c"}, rec.get()[0])
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &recorder{}
		d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

		// Nothing pending: no batch.
		d.Flush()
		assert.Empty(t, rec.get())

		d.Add("src/lib.c")
		d.Add("src/util.c")
		d.Flush()
		require.Len(t, rec.get(), 1, "flush delivers synchronously")

		// The stopped window does not deliver again.
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, rec.get(), 1)

		// Later additions start a new batch.
		d.Add("include/lib.h")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		require.Len(t, rec.get(), 2)
		assert.Equal(t, []string{"include/lib.h"}, rec.get()[1])

		// Flushing after the window expired does nothing.
		d.Flush()
		assert.Len(t, rec.get(), 2)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("src/lib.c")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Add("src/util.c")
		d.Flush()
	})
}

func TestDebouncer_Stop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &recorder{}
		d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("src/lib.c")
		d.Stop()
		d.Add("src/util.c")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		d.Flush()

		assert.Empty(t, rec.get())
	})
}
