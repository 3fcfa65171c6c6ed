package metrics

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

// for aggregating timers
var agg = struct {
	count, sum map[string]int
	taken      map[string][]int
	m          sync.Mutex
}{
	count: make(map[string]int),
	sum:   make(map[string]int),
	taken: make(map[string][]int),
}

// Timer is for timing pipeline stages.
type Timer struct {
	start   time.Time
	id      string
	taken   int
	stopped bool
}

type TimerStats struct {
	ID           string
	Count        int
	Average      int
	Percentile95 int
	Percentile50 int
	Total        int
}

func (s TimerStats) String() string {
	return fmt.Sprintf("%s: count %d total %d ms average %d ms 50%% %d ms 95%% %d ms", s.ID, s.Count, s.Total, s.Average, s.Percentile50, s.Percentile95)
}

// Start returns started Timer.
func Start() Timer {
	return Timer{
		start: time.Now().UTC(),
	}
}

// Stops the timer
func (t *Timer) Stop() {
	t.taken = int(time.Since(t.start) / time.Millisecond)
	t.stopped = true
}

// Stops the timer if it is not already stopped.  Tracks the time taken
// in milliseconds with identity id.
func (t *Timer) Track(id string) {
	if !t.stopped {
		t.Stop()
	}

	t.id = id

	agg.m.Lock()
	agg.count[t.id]++
	agg.sum[t.id] += t.taken
	agg.taken[t.id] = append(agg.taken[t.id], t.taken)
	agg.m.Unlock()
}

// Returns the time taken between start and stop in milliseconds.
func (t *Timer) Taken() int {
	return t.taken
}

// ReadTimers returns stats for the timers tracked since it was last called
// sorted by id.
func ReadTimers() []TimerStats {
	var s []TimerStats
	agg.m.Lock()
	for k, v := range agg.count {
		s = append(s, TimerStats{
			ID:           k,
			Count:        v,
			Total:        agg.sum[k],
			Average:      agg.sum[k] / v,
			Percentile50: percentile(0.5, agg.taken[k]),
			Percentile95: percentile(0.95, agg.taken[k]),
		})

		delete(agg.count, k)
		delete(agg.sum, k)
		delete(agg.taken, k)
	}
	agg.m.Unlock()

	sort.Slice(s, func(i, j int) bool { return s[i].ID < s[j].ID })

	return s
}

// calculates the kth percentile of v
func percentile(k float64, v []int) (value int) {
	if !sort.IntsAreSorted(v) {
		sort.Ints(v)
	}

	p := k * float64(len(v))

	if p != math.Trunc(p) {
		idx := int(math.Ceil(p))
		if idx <= len(v) {
			value = v[idx-1]
		}
	} else {
		idx := int(math.Trunc(p))
		if idx > 0 && idx < len(v) {
			value = (v[idx-1] + v[idx]) / 2
		} else if idx == len(v) && idx > 0 {
			value = v[idx-1]
		}
	}

	return
}
