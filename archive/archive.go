// Package archive stores an observed series together with its fitted trendline
// as a sequence of compact mebo numeric blobs.
//
// The series is cut into chunks of at most ChunkPoints points. Each chunk is
// one blob holding two metrics that share the same timestamps:
//
//	observed  the input values
//	trend     the fitted values
//
// Values are Gorilla-encoded and zstd-compressed, timestamps are delta-encoded.
// On disk every blob is preceded by its length as an unsigned varint.
package archive

import (
	"encoding/binary"
	"os"
	"slices"
	"time"

	"github.com/YuminosukeSato/trendline/pkg/errors"
	"github.com/YuminosukeSato/trendline/trend"
	"github.com/arloliu/mebo"
	"github.com/arloliu/mebo/blob"
	"github.com/arloliu/mebo/format"
)

const (
	// ObservedMetric は観測値のメトリクス名
	ObservedMetric = "observed"
	// TrendMetric はトレンドライン推定値のメトリクス名
	TrendMetric = "trend"

	// ChunkPoints is the number of points per blob. mebo addresses each
	// metric's encoded bytes with a uint16 offset; at the worst case of about
	// ten bytes per timestamp or value a chunk stays well under 64 KiB.
	ChunkPoints = 4096
)

// Series is a decoded archive.
type Series struct {
	Start      time.Time
	Timestamps []time.Time
	Observed   []float64
	Trend      []float64
}

// Len returns the number of points.
func (s *Series) Len() int {
	return len(s.Observed)
}

// Encode writes obs and the fitted values of r. Point i is stamped start + i*step.
// Series of any length are accepted.
func Encode(start time.Time, step time.Duration, obs []float64, r *trend.Result) ([]byte, error) {
	if r == nil {
		return nil, errors.NewValueError("archive.Encode", "trend result is nil")
	}
	if len(obs) == 0 {
		return nil, errors.NewEmptySeriesError("archive.Encode")
	}
	if len(obs) != len(r.FittedValues) {
		return nil, errors.NewDimensionError("archive.Encode", len(r.FittedValues), len(obs))
	}
	if step < time.Microsecond {
		return nil, errors.NewValidationError("step", "must be at least one microsecond", step)
	}

	timestamps := make([]int64, len(obs))
	for i := range timestamps {
		timestamps[i] = start.Add(time.Duration(i) * step).UnixMicro()
	}

	var out []byte
	for lo := 0; lo < len(obs); lo += ChunkPoints {
		hi := min(lo+ChunkPoints, len(obs))
		chunk, err := encodeChunk(start.Add(time.Duration(lo)*step),
			timestamps[lo:hi], obs[lo:hi], r.FittedValues[lo:hi])
		if err != nil {
			return nil, errors.Wrapf(err, "archive.Encode: chunk at %d", lo)
		}
		out = binary.AppendUvarint(out, uint64(len(chunk)))
		out = append(out, chunk...)
	}
	return out, nil
}

func encodeChunk(start time.Time, timestamps []int64, obs, fitted []float64) ([]byte, error) {
	enc, err := mebo.NewNumericEncoder(start,
		blob.WithTimestampEncoding(format.TypeDelta),
		blob.WithValueEncoding(format.TypeGorilla),
		blob.WithValueCompression(format.CompressionZstd),
	)
	if err != nil {
		return nil, err
	}

	for _, m := range []struct {
		name   string
		values []float64
	}{
		{ObservedMetric, obs},
		{TrendMetric, fitted},
	} {
		if err := enc.StartMetricName(m.name, len(m.values)); err != nil {
			return nil, errors.Wrapf(err, "start %s", m.name)
		}
		if err := enc.AddDataPoints(timestamps, m.values, nil); err != nil {
			return nil, errors.Wrapf(err, "add %s", m.name)
		}
		if err := enc.EndMetric(); err != nil {
			return nil, errors.Wrapf(err, "end %s", m.name)
		}
	}
	return enc.Finish()
}

// Decode reads data produced by Encode.
func Decode(data []byte) (*Series, error) {
	var blobs []blob.NumericBlob
	for len(data) > 0 {
		size, n := binary.Uvarint(data)
		if n <= 0 || size > uint64(len(data)-n) {
			return nil, errors.NewValueError("archive.Decode", "truncated or corrupt chunk header")
		}
		b, err := decodeChunk(data[n : n+int(size)])
		if err != nil {
			return nil, errors.Wrapf(err, "archive.Decode: chunk %d", len(blobs))
		}
		blobs = append(blobs, b)
		data = data[n+int(size):]
	}
	if len(blobs) == 0 {
		return nil, errors.NewEmptySeriesError("archive.Decode")
	}

	set, err := blob.NewNumericBlobSet(blobs)
	if err != nil {
		return nil, errors.Wrap(err, "archive.Decode")
	}

	observedID, trendID := mebo.MetricID(ObservedMetric), mebo.MetricID(TrendMetric)
	s := &Series{
		Start:    blobs[0].StartTime(),
		Observed: slices.Collect(set.AllValues(observedID)),
		Trend:    slices.Collect(set.AllValues(trendID)),
	}
	if len(s.Observed) != len(s.Trend) {
		return nil, errors.NewDimensionError("archive.Decode", len(s.Observed), len(s.Trend))
	}
	for ts := range set.AllTimestamps(observedID) {
		s.Timestamps = append(s.Timestamps, time.UnixMicro(ts).UTC())
	}
	return s, nil
}

func decodeChunk(data []byte) (blob.NumericBlob, error) {
	dec, err := mebo.NewNumericDecoder(data)
	if err != nil {
		return blob.NumericBlob{}, err
	}
	b, err := dec.Decode()
	if err != nil {
		return blob.NumericBlob{}, err
	}
	for _, name := range []string{ObservedMetric, TrendMetric} {
		if !b.HasMetricName(name) {
			return blob.NumericBlob{}, errors.NewValueError("archive.Decode", "blob has no "+name+" metric")
		}
	}
	return b, nil
}

// WriteFile encodes and writes the archive to path.
func WriteFile(path string, start time.Time, step time.Duration, obs []float64, r *trend.Result) error {
	data, err := Encode(start, step, obs, r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "archive: write %s", path)
	}
	return nil
}

// ReadFile reads and decodes the archive at path.
func ReadFile(path string) (*Series, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "archive: read %s", path)
	}
	return Decode(data)
}
