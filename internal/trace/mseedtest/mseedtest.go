// package mseedtest builds miniSEED records for tests.
package mseedtest

import (
	"encoding/binary"
	"time"

	"github.com/GeoNet/kit/seis/ms"
)

const (
	recordLength = 512
	dataOffset   = 64
	// SamplesPerRecord is the number of int32 samples that fit in one record.
	SamplesPerRecord = (recordLength - dataOffset) / 4
)

// Records encodes samples as 512 byte, big endian, int32 miniSEED records.
// rate is samples per second.
func Records(network, station, location, channel string, start time.Time, rate int, samples []int32) []byte {
	var b []byte

	for seq, i := 1, 0; i < len(samples); seq, i = seq+1, i+SamplesPerRecord {
		j := i + SamplesPerRecord
		if j > len(samples) {
			j = len(samples)
		}

		t := start.Add(time.Duration(float64(i) / float64(rate) * float64(time.Second)))
		b = append(b, record(seq, network, station, location, channel, t, rate, samples[i:j])...)
	}

	return b
}

func record(seq int, network, station, location, channel string, start time.Time, rate int, samples []int32) []byte {
	h := ms.RecordHeader{
		DataQualityIndicator: 'D',
		ReservedByte:         ' ',
		NumberOfSamples:      uint16(len(samples)),
		SampleRateFactor:     int16(rate),
		SampleRateMultiplier: 1,

		NumberOfBlockettesThatFollow: 1,
		BeginningOfData:              dataOffset,
		FirstBlockette:               ms.RecordHeaderSize,
	}

	h.SetSeqNumber(seq)
	h.SetNetwork(network)
	h.SetStation(station)
	h.SetLocation(location)
	h.SetChannel(channel)
	h.SetStartTime(start.UTC())
	h.SetCorrection(0, true)

	b := make([]byte, recordLength)

	copy(b, ms.EncodeRecordHeader(h))
	copy(b[ms.RecordHeaderSize:], ms.EncodeBlocketteHeader(ms.BlocketteHeader{BlocketteType: 1000}))
	copy(b[ms.RecordHeaderSize+ms.BlocketteHeaderSize:], ms.EncodeBlockette1000(ms.Blockette1000{
		Encoding:     uint8(ms.EncodingInt32),
		WordOrder:    1, // big endian
		RecordLength: 9, // 2^9 = 512
	}))

	for i, v := range samples {
		binary.BigEndian.PutUint32(b[dataOffset+i*4:], uint32(v))
	}

	return b
}
