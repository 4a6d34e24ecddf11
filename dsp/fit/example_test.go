package fit_test

import (
	"fmt"

	"github.com/cwbudde/algo-skysub/dsp/fit"
)

func ExampleFitIndexed() {
	res, _ := fit.FitIndexed([]float64{3, 5, 7, 9})
	fmt.Printf("slope=%.1f intercept=%.1f\n", res.Slope, res.Intercept)

	// Output:
	// slope=2.0 intercept=3.0
}
