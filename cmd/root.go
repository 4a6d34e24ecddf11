package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-skysub/dsp/frame"
	"github.com/cwbudde/algo-skysub/internal/config"
	"github.com/cwbudde/algo-skysub/internal/frameio"
	"github.com/cwbudde/algo-skysub/internal/logging"
	"github.com/cwbudde/algo-skysub/internal/output"
	"github.com/cwbudde/algo-skysub/reduce/pipeline"
)

// Linker flags set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// conf holds the validated configuration.
var conf = &config.Configuration{}

// logger is replaced by sharedSetup.
var logger = zap.NewNop()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "skysub",
	Short: "Subtract sky emission from 2D long-slit spectra and extract the trace.",
	Long: `skysub fits the slant of a bright sky line, straightens every spectral
column along it, interpolates the sky under the target trace from the rows
around it, subtracts it and sums the trace into a 1D spectrum.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig registers the config file search and the defaults.
func initConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(config.FileName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	config.SetDefaults(viper.GetViper())
}

// sharedSetup loads the configuration and builds the logger.
func sharedSetup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	*conf = *loaded

	spatial, err := skylineSpatialFlags(cmd)
	if err != nil {
		return err
	}
	if spatial != nil {
		conf.Windows.SkylineSpatial = spatial
	}

	l, err := logging.New(conf.Logging, viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l

	if !conf.Output.Color {
		color.NoColor = true
	}
	return nil
}

// skylineSpatialFlags returns the window given by --skyline-spatial-min and
// --skyline-spatial-max, or nil when neither is set. The window is optional,
// so the flags are not bound to viper: a bound default would always yield one.
func skylineSpatialFlags(cmd *cobra.Command) (*config.Range, error) {
	fs := cmd.Flags()
	minSet, maxSet := fs.Changed("skyline-spatial-min"), fs.Changed("skyline-spatial-max")
	if !minSet && !maxSet {
		return nil, nil
	}
	if minSet != maxSet {
		return nil, fmt.Errorf("%w: --skyline-spatial-min and --skyline-spatial-max must be given together", config.ErrInvalid)
	}

	lo, err := fs.GetInt("skyline-spatial-min")
	if err != nil {
		return nil, err
	}
	hi, err := fs.GetInt("skyline-spatial-max")
	if err != nil {
		return nil, err
	}
	return &config.Range{Min: lo, Max: hi}, nil
}

// windowSetup is sharedSetup for commands that need the pixel windows.
func windowSetup(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(cmd, args); err != nil {
		return err
	}
	return conf.ValidateWindows()
}

// Execute runs the root command.
func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

func printer() *output.Printer {
	return output.NewPrinter(os.Stdout, conf.Output.Color, viper.GetInt("precision"))
}

func pipelineConfig() pipeline.Config {
	pc := pipeline.Config{
		Sky:        conf.SkysubConfig(),
		SkyOptions: conf.SkysubOptions(),
	}
	if conf.Cosmic.Enabled {
		cc := conf.Cosmic.ToCosmic()
		pc.Cosmic = &cc
	}
	return pc
}

func fileExposure(path string) pipeline.Exposure {
	return pipeline.Exposure{
		Name: path,
		Load: func() (*frame.Frame, error) { return frameio.ReadFrameFile(path) },
	}
}

// outputPath returns explicit when set, otherwise dir/<input stem><suffix>.<format>.
func outputPath(explicit, dir, input, suffix, format string) string {
	if explicit != "" {
		return explicit
	}
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, stem+suffix+"."+format)
}

var errFailedExposures = errors.New("some exposures failed")
