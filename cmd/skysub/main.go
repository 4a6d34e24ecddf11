// Command skysub reduces 2D long-slit spectra: sky-line slant fit, sky
// subtraction and trace extraction.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-skysub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "skysub: %v\n", err)
		os.Exit(1)
	}
}
