package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/cloudlap/matrix"
)

// ExampleIsHermitianCSR assembles a small complex operator and runs the
// Hermitian diagnostic on it.
func ExampleIsHermitianCSR() {
	b, _ := matrix.NewTriplets[complex128](2, 2, 4)
	_ = b.Add(0, 0, 2)
	_ = b.Add(0, 1, -1i)
	_ = b.Add(1, 0, 1i)
	_ = b.Add(1, 1, 2)
	m := b.Build()

	check, _ := matrix.IsHermitianCSR(m)
	fmt.Println(check.IsHermitian, check.Distance)
	fmt.Print(m)
	// Output:
	// true 0
	//   (0, 0)	(2+0j)
	//   (0, 1)	-1j
	//   (1, 0)	1j
	//   (1, 1)	(2+0j)
}

// ExampleRealEmbed shows the 2×2 block produced for one complex entry.
func ExampleRealEmbed() {
	b, _ := matrix.NewTriplets[complex128](1, 1, 1)
	_ = b.Add(0, 0, 3+4i)
	r, _ := matrix.RealEmbed(b.Build())

	fmt.Println(r.Rows(), r.Cols(), r.NNZ())
	fmt.Print(r)
	// Output:
	// 2 2 4
	//   (0, 0)	3.0
	//   (0, 1)	-4.0
	//   (1, 0)	4.0
	//   (1, 1)	3.0
}
