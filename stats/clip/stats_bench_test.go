package clip

import (
	"math"
	"strconv"
	"testing"
)

func makeBenchImage(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 5*math.Sin(float64(i))
	}
	out[n/2] = 1e6
	return out
}

func BenchmarkCalculate(b *testing.B) {
	for _, n := range []int{1024, 16384, 262144} {
		data := makeBenchImage(n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(n * 8))

			for range b.N {
				Calculate(data, DefaultConfig())
			}
		})
	}
}
