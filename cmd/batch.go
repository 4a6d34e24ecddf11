package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-skysub/internal/catalog"
	"github.com/cwbudde/algo-skysub/internal/frameio"
	"github.com/cwbudde/algo-skysub/reduce/pipeline"
)

// batchCmd reduces many frames with one configuration.
var batchCmd = &cobra.Command{
	Use:     "batch <frame>...",
	Short:   "Reduce several frames and record every run.",
	Args:    cobra.MinimumNArgs(1),
	PreRunE: windowSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt)
		defer stop()

		opts := []pipeline.Option{
			pipeline.WithLogger(logger),
			pipeline.WithSink(func(res pipeline.Result) (string, error) {
				out := outputPath("", conf.Output.Dir, res.Exposure, "_spectrum", conf.Output.Format)
				return out, frameio.WriteSpectrumFile(out, res.Spectrum)
			}),
		}
		if conf.Catalog.Path != "" {
			cat, err := catalog.Open(conf.Catalog.Path)
			if err != nil {
				return err
			}
			defer func() { _ = cat.Close() }()
			opts = append(opts, pipeline.WithRecorder(cat))
		}

		exposures := make([]pipeline.Exposure, len(args))
		for i, path := range args {
			exposures[i] = fileExposure(path)
		}

		p := pipeline.New(pipelineConfig(), opts...)
		sum, err := p.Batch(ctx, exposures, batchParams())
		if err != nil {
			return err
		}
		if err := printer().Runs(sum.Runs()); err != nil {
			return err
		}
		if sum.Failed > 0 {
			return fmt.Errorf("%w: %d of %d", errFailedExposures, sum.Failed, len(sum.Outcomes))
		}
		return nil
	},
}

// batchParams is the configuration snapshot stored with a batch.
func batchParams() map[string]any {
	return map[string]any{
		"windows": conf.Windows,
		"sky":     conf.Sky,
		"cosmic":  conf.Cosmic,
		"format":  conf.Output.Format,
	}
}
