package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-skysub/internal/frameio"
	"github.com/cwbudde/algo-skysub/reduce/pipeline"
)

// extractCmd reduces a single frame and writes its spectrum.
var extractCmd = &cobra.Command{
	Use:     "extract <frame>",
	Short:   "Subtract the sky from one frame and extract its 1D spectrum.",
	Args:    cobra.ExactArgs(1),
	PreRunE: windowSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := pipeline.New(pipelineConfig(), pipeline.WithLogger(logger))
		res, err := p.Process(rootCtx, fileExposure(args[0]))
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		out = outputPath(out, conf.Output.Dir, args[0], "_spectrum", conf.Output.Format)
		if err := frameio.WriteSpectrumFile(out, res.Spectrum); err != nil {
			return err
		}
		logger.Info("spectrum written", zap.String("path", out), zap.Int("pixels", res.Spectrum.Len()))

		if sub, _ := cmd.Flags().GetString("subtracted"); sub != "" {
			if err := frameio.WriteFrameFile(sub, res.Subtracted); err != nil {
				return err
			}
		}

		pr := printer()
		if err := pr.Fit(res.Fit); err != nil {
			return err
		}
		show, _ := cmd.Flags().GetInt("show")
		if err := pr.Spectrum(res.Spectrum, show); err != nil {
			return err
		}
		cmd.Printf("spectrum written to %s\n", out)
		if res.Cosmics > 0 {
			cmd.Printf("%d cosmic-ray pixels replaced\n", res.Cosmics)
		}
		return nil
	},
}
