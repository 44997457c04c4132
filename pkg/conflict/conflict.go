package conflict

import "github.com/matzehuels/deconflict/pkg/geom"

// =============================================================================
// Metrics - Detection Tuning
// =============================================================================

// Default detection metrics. TextWidth approximates an 8-character label at
// 0.08 units per character.
const (
	DefaultTextWidth          = 0.64
	DefaultTextHeight         = 0.3
	DefaultEpsilon            = 0.1
	DefaultWithinGroupSpacing = 2.0
)

// underlineSouthOffset shifts an underlined group's arrow origin below the
// label baseline, simulating the renderer's south anchor.
const underlineSouthOffset = 0.3

// Metrics holds the estimated label dimensions and tolerances the
// detectors compare positions against.
type Metrics struct {
	// TextWidth is the estimated label width in layout units.
	TextWidth float64
	// TextHeight is the estimated label height in layout units.
	TextHeight float64
	// Epsilon is the tolerance for treating two coordinates as equal.
	Epsilon float64
	// WithinGroupSpacing is the fixed interval between group members,
	// used to locate an underlined group's center arrow origin.
	WithinGroupSpacing float64
}

// DefaultMetrics returns the metrics matching the renderer's label size
// estimates.
func DefaultMetrics() Metrics {
	return Metrics{
		TextWidth:          DefaultTextWidth,
		TextHeight:         DefaultTextHeight,
		Epsilon:            DefaultEpsilon,
		WithinGroupSpacing: DefaultWithinGroupSpacing,
	}
}

// =============================================================================
// Arrow - Derived Segment
// =============================================================================

// Arrow is a directed segment between a source and target position,
// rebuilt from the link set on every detection pass. Arrows are derived
// state and never persist across iterations.
type Arrow struct {
	Source string
	Target string
	From   geom.Point
	To     geom.Point
}

// SharesEndpoint reports whether two arrows are topologically adjacent:
// they touch the same source or target name. Adjacent arrows are never
// reported as crossing even when their extensions meet at the shared point.
func (a Arrow) SharesEndpoint(b Arrow) bool {
	return a.Source == b.Source || a.Source == b.Target ||
		a.Target == b.Source || a.Target == b.Target
}

// =============================================================================
// Conflict Variants
// =============================================================================

// TextOverlap flags two element labels whose rendered positions would
// visually collide: exact collocation within epsilon, or same row with
// horizontal separation below the estimated label width.
type TextOverlap struct {
	A    string
	B    string
	APos geom.Point
	BPos geom.Point
}

// ArrowCrossing flags two non-adjacent arrows whose segments intersect.
// At holds the computed crossing point; Degenerate marks near-parallel
// pairs where no meaningful point could be solved (At is the zero point).
type ArrowCrossing struct {
	A          Arrow
	B          Arrow
	At         geom.Point
	Degenerate bool
}

// ArrowThroughText flags an arrow whose segment passes through the label
// bounding box of an element that is neither its source nor its target.
type ArrowThroughText struct {
	Arrow   Arrow
	Element string
	At      geom.Point
}

// Set is the outcome of one full detection pass: all three categories in
// their fixed priority order. A Set is recomputed from scratch every
// iteration and never mutated in place.
type Set struct {
	TextOverlaps      []TextOverlap
	ArrowCrossings    []ArrowCrossing
	ArrowsThroughText []ArrowThroughText
}

// Total returns the combined conflict count across all categories.
func (s *Set) Total() int {
	return len(s.TextOverlaps) + len(s.ArrowCrossings) + len(s.ArrowsThroughText)
}

// Empty reports whether the pass found no conflicts at all.
func (s *Set) Empty() bool { return s.Total() == 0 }
