package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-skysub/dsp/frame"
	"github.com/cwbudde/algo-skysub/reduce/skysub"
)

const sampleYAML = `
windows:
  skyline-spectral: {min: 10, max: 150}
  skyline-spatial: {min: 2, max: 38}
  trace: {min: 18, max: 22}
  near-trace: {min: 14, max: 26}
sky:
  bounds: error
  source: guard-ring
  strict-nesting: true
cosmic:
  enabled: true
  threshold: 6
output:
  format: parquet
catalog:
  path: runs.db
logging:
  level: debug
  format: json
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skysub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	conf, err := LoadFile(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	require.NoError(t, conf.ValidateWindows())

	assert.Equal(t, Range{Min: 10, Max: 150}, conf.Windows.SkylineSpectral)
	require.NotNil(t, conf.Windows.SkylineSpatial)
	assert.Equal(t, Range{Min: 2, Max: 38}, *conf.Windows.SkylineSpatial)
	assert.Equal(t, Range{Min: 18, Max: 22}, conf.Windows.Trace)
	assert.Equal(t, Range{Min: 14, Max: 26}, conf.Windows.NearTrace)

	assert.Equal(t, "error", conf.Sky.Bounds)
	assert.True(t, conf.Sky.StrictNesting)
	assert.True(t, conf.Cosmic.Enabled)
	assert.Equal(t, 6.0, conf.Cosmic.Threshold)
	assert.Equal(t, 3.0, conf.Cosmic.Contrast, "unset keys keep their defaults")
	assert.Equal(t, FormatParquet, conf.Output.Format)
	assert.Equal(t, "runs.db", conf.Catalog.Path)
	assert.Equal(t, "debug", conf.Logging.Level)
	assert.Equal(t, "json", conf.Logging.Format)
}

func TestLoadDefaults(t *testing.T) {
	conf, err := LoadFile(writeConfig(t, "windows:\n  trace: {min: 1, max: 4}\n"))
	require.NoError(t, err)

	assert.Nil(t, conf.Windows.SkylineSpatial)
	assert.Equal(t, "clamp", conf.Sky.Bounds)
	assert.Equal(t, "outside-guard", conf.Sky.Source)
	assert.False(t, conf.Cosmic.Enabled)
	assert.Equal(t, 0.3, conf.Cosmic.NeighborThreshold)
	assert.Equal(t, 4, conf.Cosmic.MaxIter)
	assert.Equal(t, 3.0, conf.Plot.Sigma)
	assert.Equal(t, FormatCSV, conf.Output.Format)
	assert.True(t, conf.Output.Color)
	assert.Equal(t, "info", conf.Logging.Level)

	assert.ErrorIs(t, conf.ValidateWindows(), ErrInvalid, "spectral window left at zero")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SKYSUB_WINDOWS_TRACE_MIN", "17")
	t.Setenv("SKYSUB_LOGGING_LEVEL", "warn")

	conf, err := LoadFile(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 17, conf.Windows.Trace.Min)
	assert.Equal(t, "warn", conf.Logging.Level)
}

func TestLoadMissingSearchedFileIsFine(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(t.TempDir())

	conf, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, conf.Output.Format)
}

func TestLoadMalformed(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "windows: [unclosed\n"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Configuration)
	}{
		{"bad bounds", func(c *Configuration) { c.Sky.Bounds = "wrap" }},
		{"bad source", func(c *Configuration) { c.Sky.Source = "everywhere" }},
		{"bad output", func(c *Configuration) { c.Output.Format = "fits" }},
		{"bad log level", func(c *Configuration) { c.Logging.Level = "loud" }},
		{"bad log format", func(c *Configuration) { c.Logging.Format = "xml" }},
		{"bad sigma", func(c *Configuration) { c.Plot.Sigma = 0 }},
		{"bad cosmic", func(c *Configuration) { c.Cosmic.Gain = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := LoadFile(writeConfig(t, sampleYAML))
			require.NoError(t, err)

			tt.mutate(conf)
			assert.ErrorIs(t, conf.Validate(), ErrInvalid)
		})
	}
}

func TestValidateWindows(t *testing.T) {
	conf, err := LoadFile(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	conf.Windows.Trace = Range{Min: 5, Max: 5}
	assert.ErrorIs(t, conf.ValidateWindows(), ErrInvalid)

	conf.Windows.Trace = Range{Min: 18, Max: 22}
	conf.Windows.SkylineSpatial = &Range{Min: -1, Max: 10}
	assert.ErrorIs(t, conf.ValidateWindows(), ErrInvalid)
}

func TestSkysubConversion(t *testing.T) {
	conf, err := LoadFile(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	cfg := conf.SkysubConfig()
	assert.Equal(t, frame.Window{Min: 10, Max: 150}, cfg.SkylineSpectral)
	require.NotNil(t, cfg.SkylineSpatial)
	assert.Equal(t, frame.Window{Min: 2, Max: 38}, *cfg.SkylineSpatial)
	assert.Len(t, conf.SkysubOptions(), 3)

	// Strict nesting is enforced through the options.
	f := frame.New(40, 200)
	cfg.NearTrace = frame.Window{Min: 20, Max: 26}
	_, err = skysub.New(f, cfg, conf.SkysubOptions()...)
	assert.ErrorIs(t, err, skysub.ErrWindowNesting)
}

func TestCosmicAndClipConversion(t *testing.T) {
	conf, err := LoadFile(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	cc := conf.Cosmic.ToCosmic()
	assert.Equal(t, 6.0, cc.CRThreshold)
	assert.Equal(t, 1.0, cc.EffectiveGain)
	require.NoError(t, cc.Validate())

	clipCfg := conf.Plot.ClipConfig()
	assert.Equal(t, 3.0, clipCfg.Sigma)
	assert.Equal(t, 5, clipCfg.MaxIters)
}
