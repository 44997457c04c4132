package resolve

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/deconflict/pkg/conflict"
)

// Default tuning values. The shift deltas are asymmetric on purpose:
// crossings and conflicts involving link-receiving groups get the larger
// push so that "target" groups stay predictable once other groups route
// around them.
const (
	DefaultMaxIterations          = 10
	DefaultTextOverlapShift       = 1.0
	DefaultArrowCrossingShift     = 1.5
	DefaultThroughTextShift       = 1.0
	DefaultThroughTextStableShift = 1.5
)

// Config tunes conflict detection and resolution. All values have
// working defaults; a TOML file can override any subset.
//
// Example tuning file:
//
//	within_group_spacing = 2.0
//	text_width = 0.64
//	text_height = 0.3
//	overlap_epsilon = 0.1
//	max_iterations = 10
//	text_overlap_shift = 1.0
//	arrow_crossing_shift = 1.5
//	through_text_shift = 1.0
//	through_text_stable_shift = 1.5
type Config struct {
	// WithinGroupSpacing is the fixed horizontal interval between
	// consecutive members of the same group. Shifting a group preserves
	// this spacing exactly.
	WithinGroupSpacing float64 `toml:"within_group_spacing"`

	// TextWidth is the estimated label width used by overlap and
	// through-text detection. Increase it if overlaps slip through;
	// decrease it for tighter layouts with short labels.
	TextWidth float64 `toml:"text_width"`

	// TextHeight is the estimated label height used by through-text
	// detection.
	TextHeight float64 `toml:"text_height"`

	// OverlapEpsilon is the tolerance for treating coordinates as equal.
	OverlapEpsilon float64 `toml:"overlap_epsilon"`

	// MaxIterations caps the repair loop. Reaching the cap is a reported
	// outcome, not an error.
	MaxIterations int `toml:"max_iterations"`

	// TextOverlapShift is the horizontal delta applied to fix a text
	// overlap.
	TextOverlapShift float64 `toml:"text_overlap_shift"`

	// ArrowCrossingShift is the horizontal delta applied to fix an arrow
	// crossing.
	ArrowCrossingShift float64 `toml:"arrow_crossing_shift"`

	// ThroughTextShift is the delta for an arrow-through-text conflict
	// when the pierced group receives no links.
	ThroughTextShift float64 `toml:"through_text_shift"`

	// ThroughTextStableShift is the delta when the pierced group receives
	// links and should move clear in one larger step.
	ThroughTextStableShift float64 `toml:"through_text_stable_shift"`
}

// DefaultConfig returns the compiled-in tuning values.
func DefaultConfig() Config {
	return Config{
		WithinGroupSpacing:     conflict.DefaultWithinGroupSpacing,
		TextWidth:              conflict.DefaultTextWidth,
		TextHeight:             conflict.DefaultTextHeight,
		OverlapEpsilon:         conflict.DefaultEpsilon,
		MaxIterations:          DefaultMaxIterations,
		TextOverlapShift:       DefaultTextOverlapShift,
		ArrowCrossingShift:     DefaultArrowCrossingShift,
		ThroughTextShift:       DefaultThroughTextShift,
		ThroughTextStableShift: DefaultThroughTextStableShift,
	}
}

// LoadConfig reads a TOML tuning file over the defaults. Keys absent from
// the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects tunings the resolver cannot run with.
func (c Config) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.WithinGroupSpacing <= 0 {
		return fmt.Errorf("within_group_spacing must be positive, got %v", c.WithinGroupSpacing)
	}
	if c.TextWidth <= 0 || c.TextHeight <= 0 {
		return fmt.Errorf("text dimensions must be positive, got %v x %v", c.TextWidth, c.TextHeight)
	}
	if c.OverlapEpsilon <= 0 {
		return fmt.Errorf("overlap_epsilon must be positive, got %v", c.OverlapEpsilon)
	}
	if c.TextOverlapShift < 0 || c.ArrowCrossingShift < 0 ||
		c.ThroughTextShift < 0 || c.ThroughTextStableShift < 0 {
		return fmt.Errorf("shift deltas must be non-negative")
	}
	return nil
}

// Metrics returns the detection metrics slice of the config.
func (c Config) Metrics() conflict.Metrics {
	return conflict.Metrics{
		TextWidth:          c.TextWidth,
		TextHeight:         c.TextHeight,
		Epsilon:            c.OverlapEpsilon,
		WithinGroupSpacing: c.WithinGroupSpacing,
	}
}
