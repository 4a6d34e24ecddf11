package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-skysub/internal/frameio"
	"github.com/cwbudde/algo-skysub/reduce/skysub"
)

// fitCmd prints the sky-line slant of one frame.
var fitCmd = &cobra.Command{
	Use:     "fit <frame>",
	Short:   "Fit the slant of the sky line in one frame.",
	Args:    cobra.ExactArgs(1),
	PreRunE: windowSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := frameio.ReadFrameFile(args[0])
		if err != nil {
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
		if err := printer().Fit(res); err != nil {
			return err
		}
		cmd.Printf("trace rows: %v\n", s.TraceRows())
		return nil
	},
}
