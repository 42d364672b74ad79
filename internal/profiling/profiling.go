package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Per-frame CPU timers for the streaming pipeline. Workers and the consumer
// thread record into the same table, so totals for a stage can exceed the
// frame time when several workers overlap.

type siteTotal struct {
	dur   time.Duration
	calls int
}

var (
	mu     sync.Mutex
	totals = make(map[string]siteTotal)
)

// Track records elapsed time under name when the returned stop function
// runs. Usage: defer profiling.Track("pipeline.update")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		t := totals[name]
		t.dur += d
		t.calls++
		totals[name] = t
		mu.Unlock()
	}
}

// ResetFrame clears the table. Call once at the top of each frame.
func ResetFrame() {
	mu.Lock()
	clear(totals)
	mu.Unlock()
}

// Snapshot copies the current totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(totals))
	for k, v := range totals {
		out[k] = v.dur
	}
	return out
}

// TopN formats the n largest totals for the frame, e.g.
// "meshing.build:4.2ms(x7), pipeline.upload:1.1ms(x1)".
func TopN(n int) string {
	mu.Lock()
	type entry struct {
		name  string
		dur   time.Duration
		calls int
	}
	list := make([]entry, 0, len(totals))
	for k, v := range totals {
		list = append(list, entry{k, v.dur, v.calls})
	}
	mu.Unlock()

	sort.Slice(list, func(i, j int) bool { return list[i].dur > list[j].dur })
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for _, e := range list[:n] {
		ms := strconv.FormatFloat(float64(e.dur.Microseconds())/1000.0, 'f', 1, 64)
		parts = append(parts, e.name+":"+ms+"ms(x"+strconv.Itoa(e.calls)+")")
	}
	return strings.Join(parts, ", ")
}
