package archive

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/YuminosukeSato/trendline/pkg/errors"
	"github.com/YuminosukeSato/trendline/trend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	obs := []float64{10, 8, 9, 5, 6.25, 4.5}
	r, err := trend.Fit(obs)
	require.NoError(t, err)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	data, err := Encode(start, time.Hour, obs, r)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	s, err := Decode(data)
	require.NoError(t, err)

	assert.True(t, start.Equal(s.Start))
	assert.Equal(t, len(obs), s.Len())
	assert.Equal(t, obs, s.Observed)
	assert.Equal(t, r.FittedValues, s.Trend)
	require.Len(t, s.Timestamps, len(obs))
	for i, ts := range s.Timestamps {
		assert.True(t, start.Add(time.Duration(i)*time.Hour).Equal(ts), "timestamp %d", i)
	}
}

func TestWriteReadFile(t *testing.T) {
	obs := []float64{1, 2, 3, 5}
	r, err := trend.Fit(obs)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "series.mebo")
	start := time.Unix(1_700_000_000, 0).UTC()
	require.NoError(t, WriteFile(path, start, time.Minute, obs, r))

	s, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, obs, s.Observed)
	assert.Equal(t, r.FittedValues, s.Trend)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.mebo"))
	assert.Error(t, err)
}

func TestEncodeErrors(t *testing.T) {
	r, err := trend.Fit([]float64{1, 2, 3})
	require.NoError(t, err)
	start := time.Now()

	_, err = Encode(start, time.Second, []float64{1, 2}, r)
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	_, err = Encode(start, time.Second, nil, r)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = Encode(start, 0, []float64{1, 2, 3}, r)
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))

	_, err = Encode(start, time.Second, []float64{1}, nil)
	var vErr *errors.ValueError
	assert.True(t, errors.As(err, &vErr))
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte("not a blob"))
	assert.Error(t, err)

	_, err = Decode(nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestEncodeLargeNoisySeries(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))

	for _, n := range []int{ChunkPoints, ChunkPoints + 1, 10_000, 70_000} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			obs := make([]float64, n)
			for i := range obs {
				obs[i] = rng.NormFloat64()*100 + float64(i)
			}
			r, err := trend.Fit(obs)
			require.NoError(t, err)

			start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			data, err := Encode(start, time.Second, obs, r)
			require.NoError(t, err)

			s, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, obs, s.Observed)
			assert.Equal(t, r.FittedValues, s.Trend)
			require.Len(t, s.Timestamps, n)
			assert.True(t, start.Equal(s.Start))
			assert.True(t, start.Add(time.Duration(n-1)*time.Second).Equal(s.Timestamps[n-1]))

			// 最後のチャンクが欠けたデータは拒否する
			_, err = Decode(data[:len(data)-1])
			assert.Error(t, err)
		})
	}
}
