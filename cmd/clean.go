package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-skysub/dsp/cosmic"
	"github.com/cwbudde/algo-skysub/internal/frameio"
)

// cleanCmd removes cosmic rays from one frame.
var cleanCmd = &cobra.Command{
	Use:     "clean <frame>",
	Short:   "Detect and replace cosmic-ray pixels in one frame.",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := frameio.ReadFrameFile(args[0])
		if err != nil {
			return err
		}
		res, err := cosmic.Clean(f, conf.Cosmic.ToCosmic())
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		out = outputPath(out, conf.Output.Dir, args[0], "_clean", conf.Output.Format)
		if err := frameio.WriteFrameFile(out, res.Cleaned); err != nil {
			return err
		}
		logger.Info("cleaned frame written",
			zap.String("path", out),
			zap.Int("pixels", res.Count),
			zap.Int("iterations", res.Iterations))

		return printer().Cleaned(args[0], res.Count, res.Iterations)
	},
}
