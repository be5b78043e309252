package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name string, d time.Duration) {
	mu.Lock()
	frameTotals[name] += d
	frameCounts[name]++
	mu.Unlock()
}

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	for range 3 {
		Track("test.op")()
	}

	entries := Snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, "test.op", entries[0].Name)
	assert.Equal(t, 3, entries[0].Calls)

	ResetFrame()
	assert.Empty(t, Snapshot())
}

func TestTopNOrdersSlowestFirst(t *testing.T) {
	ResetFrame()
	record("fast", 100*time.Microsecond)
	record("slow", 4200*time.Microsecond)
	record("mid", 2*time.Millisecond)

	assert.Equal(t, "slow:4.2ms, mid:2ms", TopN(2))
	assert.Equal(t, "slow:4.2ms, mid:2ms, fast:0.1ms", TopN(10))
	assert.Equal(t, "", TopN(0))
	ResetFrame()
}
