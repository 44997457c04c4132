package conflict

import (
	"math"

	"github.com/matzehuels/deconflict/pkg/geom"
	"github.com/matzehuels/deconflict/pkg/layout"
)

// =============================================================================
// Snapshot - Frozen Detection Input
// =============================================================================

// Snapshot is a frozen view of the layout taken at the start of a
// detection pass: label positions in declaration order plus the derived
// arrow list. Detectors read the snapshot and never touch the layout, so
// re-running them on the same snapshot returns identical results.
type Snapshot struct {
	// Names lists element names in declaration order. Pair enumeration
	// follows this slice so conflict ordering is reproducible.
	Names []string
	// Pos maps element names to their label positions.
	Pos map[string]geom.Point
	// Arrows holds the derived segments in link declaration order.
	Arrows []Arrow
}

// TakeSnapshot freezes the current positions and derives the arrow list.
//
// Arrow origins normally sit on the source element. Underlined composite
// groups are the exception: their outgoing arrows leave from the group's
// horizontal center, offset below the baseline to match the renderer's
// south anchor. An endpoint naming a composite group with no same-named
// element resolves to the group's center slot. Links whose endpoints
// resolve to nothing are silently dropped - the arrow is simply not
// constructed.
func TakeSnapshot(l *layout.Layout, m Metrics) *Snapshot {
	s := &Snapshot{
		Names: make([]string, 0, len(l.Elements)),
		Pos:   make(map[string]geom.Point, len(l.Elements)),
	}
	for i := range l.Elements {
		e := &l.Elements[i]
		s.Names = append(s.Names, e.Name)
		s.Pos[e.Name] = geom.Point{X: e.X, Y: e.Y}
	}

	for _, link := range l.Links {
		from, ok := arrowOrigin(l, m, link.From)
		if !ok {
			continue
		}
		to, ok := arrowTarget(l, m, link.To)
		if !ok {
			continue
		}
		s.Arrows = append(s.Arrows, Arrow{
			Source: link.From,
			Target: link.To,
			From:   from,
			To:     to,
		})
	}
	return s
}

// arrowOrigin resolves the point an arrow from source leaves from.
func arrowOrigin(l *layout.Layout, m Metrics, source string) (geom.Point, bool) {
	if g := l.Group(source); g != nil && g.Underline && !g.IsSingleton() {
		p, ok := groupCenter(l, m, g)
		if !ok {
			return geom.Point{}, false
		}
		p.Y -= underlineSouthOffset
		return p, true
	}

	if e := l.Element(source); e != nil {
		return geom.Point{X: e.X, Y: e.Y}, true
	}
	if g := l.Group(source); g != nil && !g.IsSingleton() {
		return groupCenter(l, m, g)
	}
	return geom.Point{}, false
}

// arrowTarget resolves the point an arrow lands on: the named element,
// or the center slot of a same-named composite group.
func arrowTarget(l *layout.Layout, m Metrics, target string) (geom.Point, bool) {
	if e := l.Element(target); e != nil {
		return geom.Point{X: e.X, Y: e.Y}, true
	}
	if g := l.Group(target); g != nil && !g.IsSingleton() {
		return groupCenter(l, m, g)
	}
	return geom.Point{}, false
}

// groupCenter computes a composite group's center slot at the center
// member's baseline.
func groupCenter(l *layout.Layout, m Metrics, g *layout.Group) (geom.Point, bool) {
	center := l.Element(g.CenterMember())
	if center == nil {
		return geom.Point{}, false
	}
	middle := len(g.MemberNames()) / 2
	return geom.Point{
		X: g.StartX + float64(middle)*m.WithinGroupSpacing,
		Y: center.Y,
	}, true
}

// =============================================================================
// Detectors
// =============================================================================

// TextOverlaps scans every unordered element pair for label collisions.
// Two labels collide when both coordinates match within epsilon, or when
// they share a row (y within epsilon) and their horizontal separation is
// below the estimated label width. O(n²) over n elements.
func TextOverlaps(s *Snapshot, m Metrics) []TextOverlap {
	var overlaps []TextOverlap
	for i, a := range s.Names {
		pa := s.Pos[a]
		for _, b := range s.Names[i+1:] {
			pb := s.Pos[b]
			sameRow := math.Abs(pa.Y-pb.Y) < m.Epsilon
			switch {
			case sameRow && math.Abs(pa.X-pb.X) < m.Epsilon:
				overlaps = append(overlaps, TextOverlap{A: a, B: b, APos: pa, BPos: pb})
			case sameRow && math.Abs(pa.X-pb.X) < m.TextWidth:
				overlaps = append(overlaps, TextOverlap{A: a, B: b, APos: pa, BPos: pb})
			}
		}
	}
	return overlaps
}

// ArrowCrossings scans every unordered arrow pair for geometric
// intersections, skipping topologically adjacent pairs. On a hit the
// crossing point is solved parametrically; near-parallel pairs are still
// reported but flagged degenerate with a zero point. O(m²) over m arrows.
func ArrowCrossings(s *Snapshot) []ArrowCrossing {
	var crossings []ArrowCrossing
	for i, a := range s.Arrows {
		for _, b := range s.Arrows[i+1:] {
			if a.SharesEndpoint(b) {
				continue
			}
			if !geom.SegmentsIntersect(a.From, a.To, b.From, b.To) {
				continue
			}
			at, ok := geom.IntersectionPoint(a.From, a.To, b.From, b.To)
			crossings = append(crossings, ArrowCrossing{
				A:          a,
				B:          b,
				At:         at,
				Degenerate: !ok,
			})
		}
	}
	return crossings
}

// ArrowsThroughText scans every arrow against every element that is
// neither its source nor its target, testing the segment against the
// element's label bounding box. O(m·n).
func ArrowsThroughText(s *Snapshot, m Metrics) []ArrowThroughText {
	var hits []ArrowThroughText
	for _, a := range s.Arrows {
		for _, name := range s.Names {
			if name == a.Source || name == a.Target {
				continue
			}
			p := s.Pos[name]
			box := geom.RectAround(p, m.TextWidth, m.TextHeight)
			if geom.SegmentIntersectsRect(a.From, a.To, box) {
				hits = append(hits, ArrowThroughText{Arrow: a, Element: name, At: p})
			}
		}
	}
	return hits
}

// Detect runs all three detectors against a fresh snapshot of the layout,
// in the fixed sequence that also defines resolution priority: text
// overlaps, then arrow crossings, then arrows through text.
func Detect(l *layout.Layout, m Metrics) *Set {
	s := TakeSnapshot(l, m)
	return &Set{
		TextOverlaps:      TextOverlaps(s, m),
		ArrowCrossings:    ArrowCrossings(s),
		ArrowsThroughText: ArrowsThroughText(s, m),
	}
}
