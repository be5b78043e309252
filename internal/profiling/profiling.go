package profiling

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Lightweight per-frame CPU profiler. Renderer phases record into it and the
// demo shows the heaviest entries in its title bar.

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
	frameCounts = make(map[string]int)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("renderer.Flush")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		frameCounts[name]++
		mu.Unlock()
	}
}

// ResetFrame clears current per-frame totals. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	clear(frameCounts)
	mu.Unlock()
}

// Entry is one named total for the current frame
type Entry struct {
	Name  string
	Total time.Duration
	Calls int
}

// Snapshot returns the current frame's entries, slowest first
func Snapshot() []Entry {
	mu.Lock()
	out := make([]Entry, 0, len(frameTotals))
	for k, v := range frameTotals {
		out = append(out, Entry{Name: k, Total: v, Calls: frameCounts[k]})
	}
	mu.Unlock()

	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// TopN formats the n slowest entries of the current frame.
// Example: "renderer.Flush:4.2ms, renderer.BeginScene:0.1ms"
func TopN(n int) string {
	entries := Snapshot()
	n = min(n, len(entries))
	parts := make([]string, 0, n)
	for _, e := range entries[:n] {
		parts = append(parts, e.Name+":"+formatMs(e.Total))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing ".0"
func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := strconv.FormatFloat(ms, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "ms"
}
