package cosmic

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-skysub/dsp/frame"
	"github.com/cwbudde/algo-skysub/internal/testutil"
)

// gradientFrame returns a smooth frame 100 + 0.1*col.
func gradientFrame(rows, cols int) *frame.Frame {
	f := frame.New(rows, cols)
	for r := range rows {
		row := f.Row(r)
		for c := range row {
			row[c] = 100 + 0.1*float64(c)
		}
	}
	return f
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ReadNoise = 5
	return cfg
}

func TestCleanRemovesSingleHit(t *testing.T) {
	f := gradientFrame(20, 20)
	orig := f.Clone()
	f.Set(10, 10, 5000)

	res, err := Clean(f, testConfig())
	if err != nil {
		t.Fatal(err)
	}

	if !res.Mask[10*20+10] {
		t.Fatal("cosmic-ray pixel not flagged")
	}
	if res.Count != 1 {
		t.Fatalf("Count = %d, want 1", res.Count)
	}
	if got := res.Cleaned.At(10, 10); math.Abs(got-orig.At(10, 10)) > 0.5 {
		t.Fatalf("cleaned pixel = %v, want ~%v", got, orig.At(10, 10))
	}
	if res.Iterations != 2 {
		t.Fatalf("Iterations = %d, want 2", res.Iterations)
	}
	if f.At(10, 10) != 5000 {
		t.Fatal("Clean must not modify its input")
	}
}

func TestCleanLeavesSmoothFrame(t *testing.T) {
	f := gradientFrame(16, 24)

	res, err := Clean(f, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 0 {
		t.Fatalf("Count = %d, want 0", res.Count)
	}
	if res.Iterations != 1 {
		t.Fatalf("Iterations = %d, want 1", res.Iterations)
	}
	testutil.RequireFrameNearlyEqual(t, res.Cleaned, f, 0)
}

func TestCleanRespectsMask(t *testing.T) {
	f := gradientFrame(20, 20)
	f.Set(10, 10, 5000)

	mask := make([]bool, 400)
	mask[10*20+10] = true
	cfg := testConfig()
	cfg.Mask = mask

	res, err := Clean(f, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.Mask[10*20+10] {
		t.Fatal("masked pixel must not be flagged")
	}
	if res.Cleaned.At(10, 10) != 5000 {
		t.Fatal("masked pixel must keep its value")
	}
}

func TestCleanMaskShape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mask = make([]bool, 3)

	_, err := Clean(frame.New(2, 2), cfg)
	if !errors.Is(err, ErrMaskShape) {
		t.Fatalf("err = %v, want ErrMaskShape", err)
	}
}

func TestCleanInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "contrast", mutate: func(c *Config) { c.Contrast = 0 }},
		{name: "threshold", mutate: func(c *Config) { c.CRThreshold = -1 }},
		{name: "neighbor", mutate: func(c *Config) { c.NeighborThreshold = 0 }},
		{name: "gain", mutate: func(c *Config) { c.EffectiveGain = 0 }},
		{name: "readnoise", mutate: func(c *Config) { c.ReadNoise = -1 }},
		{name: "iterations", mutate: func(c *Config) { c.MaxIter = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := Clean(frame.New(4, 4), cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestCleanEmptyFrame(t *testing.T) {
	res, err := Clean(frame.New(0, 0), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 0 || res.Iterations != 0 {
		t.Fatalf("got %+v, want no work on empty frame", res)
	}
}

func TestNoiseModel(t *testing.T) {
	f := testutil.ConstantFrame(6, 6, 16)
	noise := noiseModel(f, 4, 8)
	// sqrt(4*16 + 64) / 4
	want := math.Sqrt(128) / 4
	for i, v := range noise.Data() {
		if math.Abs(v-want) > 1e-12 {
			t.Fatalf("noise[%d] = %v, want %v", i, v, want)
		}
	}
}
