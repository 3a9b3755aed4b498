package rfactor_test

import (
	"fmt"

	"github.com/cwbudde/algo-iv/measure/rfactor"
)

func ExampleCalculate() {
	c := []float64{1, 2, 3, 4, 5}

	res, err := rfactor.Calculate(c, c, 0, len(c), 0, 0.8)
	if err != nil {
		panic(err)
	}

	fmt.Printf("R=%.3f overlap=%d\n", res.R, res.OverlapPoints)

	// Output:
	// R=0.000 overlap=3
}
