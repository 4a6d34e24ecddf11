package skysub

// BoundsPolicy selects what Linearize does with lookup columns that fall
// outside the frame.
type BoundsPolicy int

const (
	// BoundsClamp reads the nearest edge column.
	BoundsClamp BoundsPolicy = iota
	// BoundsError fails with frame.ErrOutOfBounds.
	BoundsError
)

func (p BoundsPolicy) String() string {
	switch p {
	case BoundsClamp:
		return "clamp"
	case BoundsError:
		return "error"
	default:
		return "unknown"
	}
}

// SkySource selects the rows used to estimate the sky under the trace.
type SkySource int

const (
	// SourceOutsideGuard samples every row outside the trace and the
	// near-trace guard band.
	SourceOutsideGuard SkySource = iota
	// SourceGuardRing samples the near-trace rows that are not trace rows.
	SourceGuardRing
)

func (s SkySource) String() string {
	switch s {
	case SourceOutsideGuard:
		return "outside-guard"
	case SourceGuardRing:
		return "guard-ring"
	default:
		return "unknown"
	}
}

type options struct {
	bounds        BoundsPolicy
	source        SkySource
	strictNesting bool
}

func defaultOptions() options {
	return options{bounds: BoundsClamp, source: SourceOutsideGuard}
}

// Option configures a Subtractor.
type Option func(*options)

// WithBoundsPolicy sets the out-of-range lookup policy. Default is BoundsClamp.
func WithBoundsPolicy(p BoundsPolicy) Option {
	return func(o *options) {
		o.bounds = p
	}
}

// WithSkySource sets which rows feed the sky interpolation. Default is
// SourceOutsideGuard.
func WithSkySource(s SkySource) Option {
	return func(o *options) {
		o.source = s
	}
}

// WithStrictNesting makes New reject configurations where the near-trace
// window does not enclose the trace window.
func WithStrictNesting() Option {
	return func(o *options) {
		o.strictNesting = true
	}
}
