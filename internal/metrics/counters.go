// package metrics is for gathering run metrics.
package metrics

import (
	"sync/atomic"
	"time"
)

const (
	lookup = iota
	request
	statusOK
	noData
	statusError
	frame
	numCounters
)

var counters [numCounters]uint64
var last [numCounters]uint64
var current [numCounters]uint64

// A Counters records run counters.
type Counters struct {
	// Lookup is the count of web service lookups including those served from cache.
	Lookup uint64

	// Request is the count of http requests sent.
	Request uint64

	// StatusOK is the count of http 200 responses.
	StatusOK uint64

	// NoData is the count of http 204 and 404 responses.
	NoData uint64

	// StatusError is the count of other http responses and transport errors.
	StatusError uint64

	// Frame is the count of frames written.
	Frame uint64

	// At is the time the counters were sampled at.
	At time.Time
}

// ReadCounters populates m with counter delta values
// since last time it was called.
func ReadCounters(m *Counters) {
	m.At = time.Now().UTC()

	for i := range counters {
		current[i] = atomic.LoadUint64(&counters[i])
	}

	m.Lookup = current[lookup] - last[lookup]
	m.Request = current[request] - last[request]
	m.StatusOK = current[statusOK] - last[statusOK]
	m.NoData = current[noData] - last[noData]
	m.StatusError = current[statusError] - last[statusError]
	m.Frame = current[frame] - last[frame]

	for i := range counters {
		last[i] = current[i]
	}
}

// Lookup increments the lookup counter. It is safe for concurrent access.
func Lookup() {
	atomic.AddUint64(&counters[lookup], 1)
}

// Request increments the http request counter. It is safe for concurrent access.
func Request() {
	atomic.AddUint64(&counters[request], 1)
}

// StatusOK increments the http response 200 counter. It is safe for concurrent access.
func StatusOK() {
	atomic.AddUint64(&counters[statusOK], 1)
}

// NoData increments the no data response counter. It is safe for concurrent access.
func NoData() {
	atomic.AddUint64(&counters[noData], 1)
}

// StatusError increments the failed request counter. It is safe for concurrent access.
func StatusError() {
	atomic.AddUint64(&counters[statusError], 1)
}

// Frame increments the frames written counter. It is safe for concurrent access.
func Frame() {
	atomic.AddUint64(&counters[frame], 1)
}
