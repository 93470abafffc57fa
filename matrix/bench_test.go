// Package matrix_test provides benchmarks for CSR assembly and the Hermitian
// check, using deterministic random fill.
package matrix_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/katalvlaran/cloudlap/matrix"
)

// benchSizes are the matrix orders to benchmark.
var benchSizes = []int{256, 1024}

// sinks to defeat dead-code elimination
var (
	sinkC *matrix.CSR[complex128]
	sinkR *matrix.CSR[float64]
	sinkB bool
)

// randomHermitian returns an n×n Hermitian matrix with about k entries per row.
func randomHermitian(b *testing.B, n, k int, seed int64) *matrix.CSR[complex128] {
	b.Helper()
	rng := rand.New(rand.NewSource(seed))
	t, err := matrix.NewTriplets[complex128](n, n, n*k)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < n; i++ {
		_ = t.Add(i, i, complex(rng.Float64(), 0))
		for e := 0; e < k/2; e++ {
			j := rng.Intn(n)
			if j == i {
				continue
			}
			z := complex(rng.NormFloat64(), rng.NormFloat64())
			_ = t.Add(i, j, z)
			_ = t.Add(j, i, complex(real(z), -imag(z)))
		}
	}

	return t.Build()
}

func BenchmarkTripletsBuild(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				sinkC = randomHermitian(b, n, 30, 1337)
			}
		})
	}
}

func BenchmarkRealEmbed(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			m := randomHermitian(b, n, 30, 4242)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				r, err := matrix.RealEmbed(m)
				if err != nil {
					b.Fatal(err)
				}
				sinkR = r
			}
		})
	}
}

func BenchmarkIsHermitianCSR(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			m := randomHermitian(b, n, 30, 7)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				c, err := matrix.IsHermitianCSR(m)
				if err != nil {
					b.Fatal(err)
				}
				sinkB = c.IsHermitian
			}
		})
	}
}
