package trace

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/GeoNet/kit/seis/ms"
)

// peekLength is enough of a record to decode the fixed header and blockettes.
const peekLength = 512

// Read decodes miniSEED from r.  Records may be any length but must carry a blockette 1000.
// Records are assembled into a Trace per stream in the order read.  A gap or overlap
// of more than half a sample starts a new Trace for the stream.
// Records with no samples or no sample rate (e.g., log channels) are skipped.
func Read(r io.Reader) ([]Trace, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var traces []Trace
	// index into traces of the segment currently being added to for each stream.
	current := make(map[string]int)

	for off := 0; off < len(buf); {
		rec, err := unpack(buf[off:])
		if err != nil {
			return nil, fmt.Errorf("record at byte %d: %w", off, err)
		}

		off += rec.BlockSize()

		if rec.SampleCount() == 0 || rec.SampleRate() <= 0 {
			continue
		}

		samples, err := rec.Float64s()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rec.String(), err)
		}

		t := Trace{
			Network:    rec.Network(),
			Station:    rec.Station(),
			Location:   rec.Location(),
			Channel:    rec.Channel(),
			Start:      rec.StartTime(),
			SampleRate: rec.SampleRate(),
		}

		id := t.ID()

		i, ok := current[id]
		if ok && continues(traces[i], t) {
			traces[i].Samples = append(traces[i].Samples, samples...)
			continue
		}

		t.Samples = samples
		traces = append(traces, t)
		current[id] = len(traces) - 1
	}

	return traces, nil
}

// ReadFile decodes the miniSEED file at path.
func ReadFile(path string) ([]Trace, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Read(bytes.NewReader(b))
}

func unpack(b []byte) (*ms.Record, error) {
	if len(b) < ms.RecordHeaderSize {
		return nil, fmt.Errorf("given %d bytes; not enough for a record header", len(b))
	}

	h := ms.DecodeRecordHeader(b[:ms.RecordHeaderSize])
	if !h.IsValid() {
		return nil, fmt.Errorf("not a valid miniSEED record")
	}

	n := peekLength
	if len(b) < n {
		n = len(b)
	}

	if int(h.BeginningOfData) > n || int(h.FirstBlockette) > n {
		return nil, fmt.Errorf("header points beyond the first %d bytes", n)
	}

	rec, err := ms.NewRecord(b[:n])
	if err != nil {
		return nil, err
	}

	size := rec.BlockSize()
	switch {
	case size == 0:
		return nil, fmt.Errorf("no blockette 1000, unknown record length")
	case size > len(b):
		return nil, fmt.Errorf("record length %d but only %d bytes remain", size, len(b))
	case int(h.BeginningOfData) > size:
		return nil, fmt.Errorf("data offset %d beyond record length %d", h.BeginningOfData, size)
	case size == n:
		return rec, nil
	}

	return ms.NewRecord(b[:size])
}

// continues is true if next starts one sample period after the end of t.
func continues(t, next Trace) bool {
	if t.SampleRate != next.SampleRate {
		return false
	}

	expected := t.Start.Add(t.offset(len(t.Samples)))

	return math.Abs(next.Start.Sub(expected).Seconds()) <= 0.5/t.SampleRate
}

// FileSource reads waveforms from miniSEED files in Dir named NET.STA.LOC.CHA.mseed
type FileSource struct {
	Dir string
}

// Fetch implements Source.  The first continuous segment for the channel is trimmed to the query window.
func (f FileSource) Fetch(ctx context.Context, q Query) (Trace, error) {
	name := filepath.Join(f.Dir, fmt.Sprintf("%s.%s.%s.%s.mseed", q.Network, q.Station, q.Location, q.Channel))

	traces, err := ReadFile(name)
	if err != nil {
		return Trace{}, err
	}

	t, err := Select(traces, q.Channel)
	if err != nil {
		return Trace{}, fmt.Errorf("%s: %w", name, err)
	}

	if !q.Start.IsZero() && !q.End.IsZero() {
		t = t.Trim(q.Start, q.End)
	}

	if len(t.Samples) == 0 {
		return Trace{}, fmt.Errorf("%s between %s and %s: %w", t.ID(), q.Start.Format(time.RFC3339), q.End.Format(time.RFC3339), ErrNoData)
	}

	return t, nil
}
