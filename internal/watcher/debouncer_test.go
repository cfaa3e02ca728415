package watcher

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testInterval = 50 * time.Millisecond

func receiveBatch(t *testing.T, d *Debouncer, timeout time.Duration) []DebouncedEvent {
	t.Helper()
	select {
	case batch := <-d.Output():
		return batch
	case <-time.After(timeout):
		t.Fatal("timed out waiting for debouncer batch")
		return nil
	}
}

func TestDebouncer_SingleEvent(t *testing.T) {
	d := NewDebouncer(testInterval)
	d.Add("main.go", OpWrite)

	batch := receiveBatch(t, d, 500*time.Millisecond)
	require.Len(t, batch, 1)
	require.Equal(t, "main.go", batch[0].Path)
	require.Equal(t, OpWrite, batch[0].Op)
}

func TestDebouncer_EventCollapsing(t *testing.T) {
	d := NewDebouncer(testInterval)
	d.Add("main.go", OpCreate)
	d.Add("main.go", OpWrite)

	batch := receiveBatch(t, d, 500*time.Millisecond)
	require.Len(t, batch, 1, "repeated events for one path should collapse")
	require.Equal(t, OpWrite, batch[0].Op, "the latest op should win")
}

func TestDebouncer_MultiplePaths(t *testing.T) {
	d := NewDebouncer(testInterval)
	d.Add("main.go", OpWrite)
	d.Add("util.go", OpCreate)
	d.Add("README.md", OpRemove)

	batch := receiveBatch(t, d, 500*time.Millisecond)
	require.Len(t, batch, 3)

	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
	var paths []string
	for _, e := range batch {
		paths = append(paths, e.Path)
	}
	require.Equal(t, []string{"README.md", "main.go", "util.go"}, paths)
}

func TestDebouncer_TimerResetsOnNewEvent(t *testing.T) {
	d := NewDebouncer(testInterval)
	d.Add("main.go", OpWrite)

	time.Sleep(testInterval / 2)
	d.Add("util.go", OpWrite)

	batch := receiveBatch(t, d, 500*time.Millisecond)
	require.Len(t, batch, 2, "both events should coalesce into one batch since the timer reset")
}
