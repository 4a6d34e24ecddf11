package cosmic_test

import (
	"fmt"

	"github.com/cwbudde/algo-skysub/dsp/cosmic"
	"github.com/cwbudde/algo-skysub/dsp/frame"
)

func ExampleClean() {
	f := frame.New(12, 12)
	for i := range f.Data() {
		f.Data()[i] = 50
	}
	f.Set(6, 4, 4000)

	cfg := cosmic.DefaultConfig()
	cfg.ReadNoise = 4
	res, _ := cosmic.Clean(f, cfg)
	fmt.Println(res.Count, res.Cleaned.At(6, 4))

	// Output:
	// 1 50
}
