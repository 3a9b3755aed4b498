package resample_test

import (
	"fmt"

	"github.com/cwbudde/algo-iv/iv/resample"
)

func ExampleNewGrid() {
	grid, err := resample.NewGrid(0.3, 2.01, 0.5)
	if err != nil {
		panic(err)
	}

	fmt.Println(grid)

	// Output:
	// [0.5 1 1.5 2]
}

func ExampleResample() {
	oldX := []float64{0, 1, 2, 3, 4}
	oldY := []float64{0, 1, 4, 9, 16}

	newX := []float64{0, 2, 4, 6}

	out, err := resample.Resample(oldX, newX, oldY)
	if err != nil {
		panic(err)
	}

	// x=6 lies outside the curve and stays NaN.
	fmt.Printf("%.0f %.0f %.0f %v\n", out[0], out[1], out[2], out[3])

	// Output:
	// 0 4 16 NaN
}
