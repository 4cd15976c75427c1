package trend

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

func createBenchmarkSeries(n int) []float64 {
	rng := rand.New(rand.NewPCG(42, 42))
	values := make([]float64, n)
	for i := range values {
		values[i] = 0.5*float64(i) + (rng.Float64()-0.5)*10
	}
	return values
}

func BenchmarkFit(b *testing.B) {
	for _, n := range []int{10, 213, 10_000, 1_000_000} {
		values := createBenchmarkSeries(n)
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Fit(values); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkFitAll(b *testing.B) {
	series := make([][]float64, 512)
	for i := range series {
		series[i] = createBenchmarkSeries(1000)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := FitAll(series); err != nil {
			b.Fatal(err)
		}
	}
}
