package cmd

import (
	"image/color"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-skysub/internal/frameio"
	"github.com/cwbudde/algo-skysub/plot"
	"github.com/cwbudde/algo-skysub/reduce/skysub"
)

var traceColor = color.RGBA{R: 255, A: 255}

// plotCmd renders a frame as a grayscale PNG.
var plotCmd = &cobra.Command{
	Use:     "plot <frame>",
	Short:   "Render a frame as a PNG heat map with optional slant overlay.",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		f, err := frameio.ReadFrameFile(args[0])
		if err != nil {
			return err
		}

		opts := plot.Options{Clip: conf.Plot.ClipConfig(), Title: args[0]}
		opts.Range, _ = cmd.Flags().GetFloat64("range")
		fig := plot.Figure(f, opts)

		if overlay, _ := cmd.Flags().GetBool("trace"); overlay {
			if err := conf.ValidateWindows(); err != nil {
				return err
			}
			s, err := skysub.New(f, conf.SkysubConfig(), conf.SkysubOptions()...)
			if err != nil {
				return err
			}
			res, err := s.FitTrace()
			if err != nil {
				return err
			}
			x0, _ := cmd.Flags().GetFloat64("x0")
			if _, err := plot.AddTrace(fig, res.Line, f.Rows(), f.Cols(), x0, traceColor); err != nil {
				return err
			}
		}

		out, _ := cmd.Flags().GetString("out")
		out = outputPath(out, conf.Output.Dir, args[0], "", "png")
		file, err := os.Create(out)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}()
		width, _ := cmd.Flags().GetFloat64("width")
		height, _ := cmd.Flags().GetFloat64("height")
		if err := plot.WritePNG(file, fig, vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch); err != nil {
			return err
		}
		cmd.Printf("image written to %s\n", out)
		return nil
	},
}
