// Package config loads the skysub configuration from a YAML file, SKYSUB_*
// environment variables and command-line flags through viper, and converts
// it into the option types of the reduction packages.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cwbudde/algo-skysub/dsp/cosmic"
	"github.com/cwbudde/algo-skysub/dsp/frame"
	"github.com/cwbudde/algo-skysub/reduce/skysub"
	"github.com/cwbudde/algo-skysub/stats/clip"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Names used for config discovery.
const (
	FileName  = ".skysub"
	EnvPrefix = "SKYSUB"
)

// Output formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// Configuration holds all configuration for skysub.
type Configuration struct {
	Windows WindowsConfig `mapstructure:"windows"`
	Sky     SkyConfig     `mapstructure:"sky"`
	Cosmic  CosmicConfig  `mapstructure:"cosmic"`
	Plot    PlotConfig    `mapstructure:"plot"`
	Output  OutputConfig  `mapstructure:"output"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Range is a half-open pixel range [Min, Max).
type Range struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// Window converts r to a frame window.
func (r Range) Window() frame.Window {
	return frame.Window{Min: r.Min, Max: r.Max}
}

// WindowsConfig holds the pixel windows. Spatial ranges are frame rows,
// spectral ranges frame columns.
type WindowsConfig struct {
	SkylineSpectral Range  `mapstructure:"skyline-spectral"`
	SkylineSpatial  *Range `mapstructure:"skyline-spatial"`
	Trace           Range  `mapstructure:"trace"`
	NearTrace       Range  `mapstructure:"near-trace"`
}

// SkyConfig holds sky subtraction behaviour.
type SkyConfig struct {
	Bounds        string `mapstructure:"bounds"` // clamp, error
	Source        string `mapstructure:"source"` // outside-guard, guard-ring
	StrictNesting bool   `mapstructure:"strict-nesting"`
}

// CosmicConfig holds the cosmic-ray cleaner parameters.
type CosmicConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	Contrast          float64 `mapstructure:"contrast"`
	Threshold         float64 `mapstructure:"threshold"`
	NeighborThreshold float64 `mapstructure:"neighbor-threshold"`
	Gain              float64 `mapstructure:"gain"`
	ReadNoise         float64 `mapstructure:"read-noise"`
	MaxIter           int     `mapstructure:"max-iter"`
}

// PlotConfig holds image rendering parameters.
type PlotConfig struct {
	Sigma    float64 `mapstructure:"sigma"`
	MaxIters int     `mapstructure:"max-iters"`
}

// OutputConfig holds output options.
type OutputConfig struct {
	Format string `mapstructure:"format"` // csv, parquet
	Dir    string `mapstructure:"dir"`
	Color  bool   `mapstructure:"color"`
}

// CatalogConfig holds the run catalog location. An empty Path disables it.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration options.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputFile string `mapstructure:"output-file"` // optional file output
}

// SetDefaults registers default values on v and prepares environment
// lookups with the SKYSUB_ prefix. Nested keys map to variables with
// separators replaced by underscores, e.g. SKYSUB_WINDOWS_TRACE_MIN.
func SetDefaults(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for _, key := range []string{
		"windows.skyline-spectral.min", "windows.skyline-spectral.max",
		"windows.trace.min", "windows.trace.max",
		"windows.near-trace.min", "windows.near-trace.max",
	} {
		v.SetDefault(key, 0)
	}

	v.SetDefault("sky.bounds", skysub.BoundsClamp.String())
	v.SetDefault("sky.source", skysub.SourceOutsideGuard.String())
	v.SetDefault("sky.strict-nesting", false)

	def := cosmic.DefaultConfig()
	v.SetDefault("cosmic.enabled", false)
	v.SetDefault("cosmic.contrast", def.Contrast)
	v.SetDefault("cosmic.threshold", def.CRThreshold)
	v.SetDefault("cosmic.neighbor-threshold", def.NeighborThreshold)
	v.SetDefault("cosmic.gain", def.EffectiveGain)
	v.SetDefault("cosmic.read-noise", def.ReadNoise)
	v.SetDefault("cosmic.max-iter", def.MaxIter)

	clipDef := clip.DefaultConfig()
	v.SetDefault("plot.sigma", clipDef.Sigma)
	v.SetDefault("plot.max-iters", clipDef.MaxIters)

	v.SetDefault("output.format", FormatCSV)
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.color", true)

	v.SetDefault("catalog.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output-file", "")
}

// Load reads the config file registered on v, if any, unmarshals every
// resolved value and validates the result. A missing config file is not an
// error when v searches for one by name.
func Load(v *viper.Viper) (*Configuration, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var conf Configuration
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

// LoadFile loads the YAML configuration at path on a fresh viper instance.
func LoadFile(path string) (*Configuration, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	return Load(v)
}

// Validate checks every section except the windows, which only the sky
// subtraction commands need. It reports the first problem found.
func (c *Configuration) Validate() error {
	if _, err := c.Sky.boundsPolicy(); err != nil {
		return err
	}
	if _, err := c.Sky.skySource(); err != nil {
		return err
	}

	if c.Cosmic.Enabled {
		if err := c.Cosmic.ToCosmic().Validate(); err != nil {
			return fmt.Errorf("%w: cosmic: %w", ErrInvalid, err)
		}
	}

	if c.Plot.Sigma <= 0 {
		return fmt.Errorf("%w: plot.sigma must be > 0, got %v", ErrInvalid, c.Plot.Sigma)
	}

	switch c.Output.Format {
	case FormatCSV, FormatParquet:
	default:
		return fmt.Errorf("%w: output.format must be csv or parquet, got %q", ErrInvalid, c.Output.Format)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: invalid log level: %s", ErrInvalid, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: invalid log format: %s", ErrInvalid, c.Logging.Format)
	}

	return nil
}

// ValidateWindows checks that every configured window is a non-empty,
// non-negative range.
func (c *Configuration) ValidateWindows() error {
	w := c.Windows
	for _, r := range []struct {
		name string
		r    Range
	}{
		{"windows.skyline-spectral", w.SkylineSpectral},
		{"windows.trace", w.Trace},
		{"windows.near-trace", w.NearTrace},
	} {
		if err := validateRange(r.name, r.r); err != nil {
			return err
		}
	}
	if w.SkylineSpatial != nil {
		return validateRange("windows.skyline-spatial", *w.SkylineSpatial)
	}
	return nil
}

// SkysubConfig returns the windows as a sky subtractor configuration.
func (c *Configuration) SkysubConfig() skysub.Config {
	cfg := skysub.Config{
		SkylineSpectral: c.Windows.SkylineSpectral.Window(),
		Trace:           c.Windows.Trace.Window(),
		NearTrace:       c.Windows.NearTrace.Window(),
	}
	if c.Windows.SkylineSpatial != nil {
		w := c.Windows.SkylineSpatial.Window()
		cfg.SkylineSpatial = &w
	}
	return cfg
}

// SkysubOptions returns the sky subtractor options. The configuration must
// have passed Validate.
func (c *Configuration) SkysubOptions() []skysub.Option {
	bounds, _ := c.Sky.boundsPolicy()
	source, _ := c.Sky.skySource()

	opts := []skysub.Option{
		skysub.WithBoundsPolicy(bounds),
		skysub.WithSkySource(source),
	}
	if c.Sky.StrictNesting {
		opts = append(opts, skysub.WithStrictNesting())
	}
	return opts
}

// ToCosmic converts the cleaner section into cosmic.Config.
func (c CosmicConfig) ToCosmic() cosmic.Config {
	return cosmic.Config{
		Contrast:          c.Contrast,
		CRThreshold:       c.Threshold,
		NeighborThreshold: c.NeighborThreshold,
		EffectiveGain:     c.Gain,
		ReadNoise:         c.ReadNoise,
		MaxIter:           c.MaxIter,
	}
}

// ClipConfig returns the sigma-clipping settings used for plot limits.
func (c PlotConfig) ClipConfig() clip.Config {
	return clip.Config{Sigma: c.Sigma, MaxIters: c.MaxIters}
}

func (s SkyConfig) boundsPolicy() (skysub.BoundsPolicy, error) {
	switch s.Bounds {
	case "", skysub.BoundsClamp.String():
		return skysub.BoundsClamp, nil
	case skysub.BoundsError.String():
		return skysub.BoundsError, nil
	default:
		return 0, fmt.Errorf("%w: sky.bounds must be clamp or error, got %q", ErrInvalid, s.Bounds)
	}
}

func (s SkyConfig) skySource() (skysub.SkySource, error) {
	switch s.Source {
	case "", skysub.SourceOutsideGuard.String():
		return skysub.SourceOutsideGuard, nil
	case skysub.SourceGuardRing.String():
		return skysub.SourceGuardRing, nil
	default:
		return 0, fmt.Errorf("%w: sky.source must be outside-guard or guard-ring, got %q", ErrInvalid, s.Source)
	}
}

func validateRange(name string, r Range) error {
	if r.Min < 0 || r.Max <= r.Min {
		return fmt.Errorf("%w: %s must satisfy 0 <= min < max, got [%d,%d)", ErrInvalid, name, r.Min, r.Max)
	}
	return nil
}
