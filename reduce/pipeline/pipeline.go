package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-skysub/dsp/cosmic"
	"github.com/cwbudde/algo-skysub/dsp/fit"
	"github.com/cwbudde/algo-skysub/dsp/frame"
	"github.com/cwbudde/algo-skysub/internal/catalog"
	"github.com/cwbudde/algo-skysub/reduce/extract"
	"github.com/cwbudde/algo-skysub/reduce/skysub"
)

// Config selects the reduction steps.
type Config struct {
	Sky        skysub.Config
	SkyOptions []skysub.Option
	// Cosmic enables cosmic-ray cleaning before sky subtraction.
	Cosmic *cosmic.Config
}

// Exposure is a named frame loaded on demand.
type Exposure struct {
	Name string
	Load func() (*frame.Frame, error)
}

// FromFrame wraps an in-memory frame.
func FromFrame(name string, f *frame.Frame) Exposure {
	return Exposure{
		Name: name,
		Load: func() (*frame.Frame, error) { return f, nil },
	}
}

// Result holds the products of one exposure.
type Result struct {
	Exposure   string
	Fit        fit.Result
	Cosmics    int
	TraceRows  []int
	Subtracted *frame.Frame
	Spectrum   extract.Spectrum
	Started    time.Time
	Duration   time.Duration
}

// Recorder stores batch outcomes. *catalog.Catalog implements it.
type Recorder interface {
	BeginBatch(ctx context.Context, started time.Time, params map[string]any) (int64, error)
	Record(ctx context.Context, run catalog.Run) (int64, error)
	EndBatch(ctx context.Context, batchID int64, ended time.Time, total, failed int) error
}

// Sink persists the products of a successful exposure and returns a
// description of where they went.
type Sink func(Result) (string, error)

// Pipeline runs the reduction. It holds no per-exposure state.
type Pipeline struct {
	cfg      Config
	logger   *zap.Logger
	recorder Recorder
	sink     Sink
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRecorder stores batch outcomes in r.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

// WithSink persists every successful exposure through s. A sink error
// fails the exposure.
func WithSink(s Sink) Option {
	return func(p *Pipeline) {
		p.sink = s
	}
}

// New returns a pipeline for cfg.
func New(cfg Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process reduces one exposure: load, optional cosmic-ray cleaning, slant
// fit, sky subtraction and extraction over every trace row.
func (p *Pipeline) Process(ctx context.Context, exp Exposure) (Result, error) {
	res := Result{Exposure: exp.Name, Started: p.now()}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if exp.Load == nil {
		return res, fmt.Errorf("pipeline: exposure %q has no loader", exp.Name)
	}

	f, err := exp.Load()
	if err != nil {
		return res, fmt.Errorf("load: %w", err)
	}

	if p.cfg.Cosmic != nil {
		cleaned, err := cosmic.Clean(f, *p.cfg.Cosmic)
		if err != nil {
			return res, fmt.Errorf("clean: %w", err)
		}
		f = cleaned.Cleaned
		res.Cosmics = cleaned.Count
		p.logger.Debug("cosmic rays cleaned",
			zap.String("op", "pipeline.Process"),
			zap.String("exposure", exp.Name),
			zap.Int("pixels", cleaned.Count),
			zap.Int("iterations", cleaned.Iterations),
		)
	}

	sub, err := skysub.New(f, p.cfg.Sky, p.cfg.SkyOptions...)
	if err != nil {
		return res, err
	}

	res.Fit, err = sub.FitTrace()
	if err != nil {
		return res, err
	}
	p.logger.Debug("slant fitted",
		zap.String("op", "pipeline.Process"),
		zap.String("exposure", exp.Name),
		zap.Float64("slope", res.Fit.Slope),
		zap.Float64("intercept", res.Fit.Intercept),
		zap.Float64("residual_rms", res.Fit.ResidualRMS),
	)

	res.Subtracted, err = sub.SubtractSky()
	if err != nil {
		return res, err
	}
	res.TraceRows = sub.TraceRows()

	res.Spectrum, err = extract.New(res.Subtracted, frame.Full(res.Subtracted.Rows())).ExtractTrace()
	if err != nil {
		return res, err
	}

	res.Duration = p.now().Sub(res.Started)
	return res, nil
}

// Outcome is the result of one exposure within a batch.
type Outcome struct {
	Result
	Output string
	Err    error
}

// Run converts the outcome into a catalog record.
func (o Outcome) Run(batchID int64) catalog.Run {
	run := catalog.Run{
		BatchID:     batchID,
		Exposure:    o.Exposure,
		Started:     o.Started,
		Duration:    o.Duration,
		Status:      catalog.StatusOK,
		Slope:       o.Fit.Slope,
		Intercept:   o.Fit.Intercept,
		ResidualRMS: o.Fit.ResidualRMS,
		TraceRows:   len(o.TraceRows),
		Cosmics:     o.Cosmics,
		Output:      o.Output,
	}
	if o.Err != nil {
		run.Status = catalog.StatusFailed
		run.Error = o.Err.Error()
	}
	return run
}

// Summary collects the outcomes of a batch in input order.
type Summary struct {
	BatchID  int64
	Outcomes []Outcome
	Failed   int
}

// Runs converts every outcome into a catalog record.
func (s Summary) Runs() []catalog.Run {
	runs := make([]catalog.Run, len(s.Outcomes))
	for i, o := range s.Outcomes {
		runs[i] = o.Run(s.BatchID)
	}
	return runs
}

// Batch processes exposures in order. Exposure failures are logged,
// recorded and counted but do not stop the batch. A cancelled context stops
// the batch before the next exposure and is returned with the partial
// summary.
func (p *Pipeline) Batch(ctx context.Context, exposures []Exposure, params map[string]any) (Summary, error) {
	var sum Summary

	if p.recorder != nil {
		id, err := p.recorder.BeginBatch(ctx, p.now(), params)
		if err != nil {
			return sum, fmt.Errorf("pipeline: begin batch: %w", err)
		}
		sum.BatchID = id
	}

	p.logger.Info("batch started",
		zap.String("op", "pipeline.Batch"),
		zap.Int64("batch", sum.BatchID),
		zap.Int("exposures", len(exposures)),
	)

	var stopErr error
	for _, exp := range exposures {
		if err := ctx.Err(); err != nil {
			stopErr = err
			break
		}

		out := p.runOne(ctx, exp)
		if out.Err != nil {
			sum.Failed++
		}
		sum.Outcomes = append(sum.Outcomes, out)

		if p.recorder != nil {
			if _, err := p.recorder.Record(ctx, out.Run(sum.BatchID)); err != nil {
				p.logger.Warn("failed to record exposure",
					zap.String("op", "pipeline.Batch"),
					zap.String("exposure", exp.Name),
					zap.Error(err),
				)
			}
		}
	}

	if p.recorder != nil {
		// The batch row is closed even when ctx was cancelled.
		if err := p.recorder.EndBatch(context.WithoutCancel(ctx), sum.BatchID, p.now(), len(sum.Outcomes), sum.Failed); err != nil {
			p.logger.Warn("failed to close batch",
				zap.String("op", "pipeline.Batch"),
				zap.Int64("batch", sum.BatchID),
				zap.Error(err),
			)
		}
	}

	p.logger.Info("batch finished",
		zap.String("op", "pipeline.Batch"),
		zap.Int64("batch", sum.BatchID),
		zap.Int("processed", len(sum.Outcomes)),
		zap.Int("failed", sum.Failed),
	)

	return sum, stopErr
}

func (p *Pipeline) runOne(ctx context.Context, exp Exposure) Outcome {
	res, err := p.Process(ctx, exp)
	out := Outcome{Result: res, Err: err}
	if err != nil {
		out.Duration = p.now().Sub(res.Started)
	}

	if err == nil && p.sink != nil {
		out.Output, out.Err = p.sink(res)
		if out.Err != nil {
			out.Err = fmt.Errorf("write: %w", out.Err)
		}
	}

	if out.Err != nil {
		p.logger.Error("exposure failed",
			zap.String("op", "pipeline.Batch"),
			zap.String("exposure", exp.Name),
			zap.Error(out.Err),
		)
		return out
	}

	p.logger.Info("exposure reduced",
		zap.String("op", "pipeline.Batch"),
		zap.String("exposure", exp.Name),
		zap.Float64("slope", res.Fit.Slope),
		zap.Int("trace_rows", len(res.TraceRows)),
		zap.Int("cosmics", res.Cosmics),
		zap.Duration("elapsed", res.Duration),
		zap.String("output", out.Output),
	)
	return out
}
