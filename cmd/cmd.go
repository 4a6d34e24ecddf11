// Package cmd defines the command-line interface for skysub.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(fitCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file")
	pf.String("log-level", "", "Log level override (debug, info, warn, error)")
	pf.Int("precision", 4, "Decimal precision for numeric columns")
	pf.Int("skyline-spectral-min", 0, "First spectral pixel of the sky-line window")
	pf.Int("skyline-spectral-max", 0, "End (exclusive) of the sky-line spectral window")
	pf.Int("skyline-spatial-min", 0, "First row of the sky-line spatial window (default: whole frame)")
	pf.Int("skyline-spatial-max", 0, "End (exclusive) of the sky-line spatial window")
	pf.Int("trace-min", 0, "Trace window start row (exclusive)")
	pf.Int("trace-max", 0, "Trace window end row (exclusive)")
	pf.Int("near-trace-min", 0, "Near-trace guard window start row (exclusive)")
	pf.Int("near-trace-max", 0, "Near-trace guard window end row (exclusive)")
	pf.String("bounds", "clamp", "Out-of-range lookups in linearization: clamp or error")
	pf.String("source", "outside-guard", "Sky rows: outside-guard or guard-ring")
	pf.Bool("cosmic", false, "Clean cosmic rays before sky subtraction")
	pf.String("format", "csv", "Output format: csv or parquet")
	pf.String("output-dir", ".", "Directory for derived files")
	pf.Bool("color", true, "Enable coloured labels in output")
	pf.String("catalog", "", "SQLite run catalog path (empty disables)")

	bindings := map[string]string{
		"config":               "config",
		"log-level":            "log-level",
		"precision":            "precision",
		"skyline-spectral-min": "windows.skyline-spectral.min",
		"skyline-spectral-max": "windows.skyline-spectral.max",
		"trace-min":            "windows.trace.min",
		"trace-max":            "windows.trace.max",
		"near-trace-min":       "windows.near-trace.min",
		"near-trace-max":       "windows.near-trace.max",
		"bounds":               "sky.bounds",
		"source":               "sky.source",
		"cosmic":               "cosmic.enabled",
		"format":               "output.format",
		"output-dir":           "output.dir",
		"color":                "output.color",
		"catalog":              "catalog.path",
	}
	for flag, key := range bindings {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			fatal("Error binding root flags", err)
		}
	}

	extractCmd.Flags().StringP("out", "o", "", "Spectrum output file")
	extractCmd.Flags().String("subtracted", "", "Also write the sky-subtracted trace rows to this file")
	extractCmd.Flags().Int("show", 10, "Spectrum pixels to print (0 = all)")

	cleanCmd.Flags().StringP("out", "o", "", "Cleaned frame output file")

	plotCmd.Flags().StringP("out", "o", "", "PNG output file")
	plotCmd.Flags().Bool("trace", false, "Overlay the fitted sky-line slant")
	plotCmd.Flags().Float64("x0", -1, "Column offset of the overlay (negative = middle)")
	plotCmd.Flags().Float64("range", 3, "Display half-range in clipped standard deviations")
	plotCmd.Flags().Float64("width", 8, "Figure width in inches")
	plotCmd.Flags().Float64("height", 4, "Figure height in inches")
}

// fatal reports a setup error and exits.
func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "skysub: %s: %v\n", msg, err)
	os.Exit(1)
}
