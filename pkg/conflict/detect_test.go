package conflict

import (
	"reflect"
	"testing"

	"github.com/matzehuels/deconflict/pkg/layout"
)

func elems(points ...layout.Element) *layout.Layout {
	return &layout.Layout{Elements: points}
}

func TestTextOverlapCollocated(t *testing.T) {
	// Two elements on the exact same spot.
	l := elems(
		layout.Element{Name: "X", X: 0, Y: 0},
		layout.Element{Name: "Y", X: 0, Y: 0},
	)
	m := DefaultMetrics()

	got := TextOverlaps(TakeSnapshot(l, m), m)
	if len(got) != 1 {
		t.Fatalf("got %d overlaps, want 1", len(got))
	}
	if got[0].A != "X" || got[0].B != "Y" {
		t.Errorf("overlap pair = (%s, %s), want (X, Y)", got[0].A, got[0].B)
	}
}

func TestTextOverlapSameRowTooClose(t *testing.T) {
	m := DefaultMetrics()

	tests := []struct {
		name string
		dx   float64
		want int
	}{
		{"well separated", 2.0, 0},
		{"just under label width", 0.5, 1},
		{"at label width", 0.64, 0}, // strict inequality
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := elems(
				layout.Element{Name: "a", X: 0, Y: 3},
				layout.Element{Name: "b", X: tt.dx, Y: 3},
			)
			got := TextOverlaps(TakeSnapshot(l, m), m)
			if len(got) != tt.want {
				t.Errorf("got %d overlaps, want %d", len(got), tt.want)
			}
		})
	}
}

func TestTextOverlapDifferentRows(t *testing.T) {
	l := elems(
		layout.Element{Name: "a", X: 0, Y: 0},
		layout.Element{Name: "b", X: 0, Y: 1},
	)
	m := DefaultMetrics()

	if got := TextOverlaps(TakeSnapshot(l, m), m); len(got) != 0 {
		t.Errorf("vertically separated labels should not overlap, got %d", len(got))
	}
}

func crossingLayout() *layout.Layout {
	// P1→P3 and P2→P4 cross at an interior point; no shared endpoints.
	return &layout.Layout{
		Elements: []layout.Element{
			{Name: "P1", X: 0, Y: 2},
			{Name: "P2", X: 2, Y: 2},
			{Name: "P3", X: 2, Y: 0},
			{Name: "P4", X: 0, Y: 0},
		},
		Links: []layout.Link{
			{From: "P1", To: "P3"},
			{From: "P2", To: "P4"},
		},
	}
}

func TestArrowCrossing(t *testing.T) {
	m := DefaultMetrics()
	got := ArrowCrossings(TakeSnapshot(crossingLayout(), m))

	if len(got) != 1 {
		t.Fatalf("got %d crossings, want 1", len(got))
	}
	c := got[0]
	if c.Degenerate {
		t.Error("proper crossing should not be degenerate")
	}
	if c.At.X < 0 || c.At.X > 2 || c.At.Y < 0 || c.At.Y > 2 {
		t.Errorf("crossing point (%v, %v) outside segment bounds", c.At.X, c.At.Y)
	}
}

func TestArrowCrossingAdjacencyExclusion(t *testing.T) {
	// Both arrows leave the same source; their extensions meet there, but
	// adjacent arrows are never flagged.
	l := &layout.Layout{
		Elements: []layout.Element{
			{Name: "hub", X: 1, Y: 2},
			{Name: "a", X: 0, Y: 0},
			{Name: "b", X: 2, Y: 0},
		},
		Links: []layout.Link{
			{From: "hub", To: "a"},
			{From: "hub", To: "b"},
		},
	}
	m := DefaultMetrics()

	if got := ArrowCrossings(TakeSnapshot(l, m)); len(got) != 0 {
		t.Errorf("arrows sharing a source should never cross, got %d", len(got))
	}

	// Shared target variant.
	l.Links = []layout.Link{
		{From: "a", To: "hub"},
		{From: "b", To: "hub"},
	}
	if got := ArrowCrossings(TakeSnapshot(l, m)); len(got) != 0 {
		t.Errorf("arrows sharing a target should never cross, got %d", len(got))
	}
}

func TestArrowThroughText(t *testing.T) {
	// Arrow A→B passes directly over unrelated element M, well clear of
	// both endpoints.
	l := &layout.Layout{
		Elements: []layout.Element{
			{Name: "A", X: 0, Y: 1},
			{Name: "B", X: 4, Y: 1},
			{Name: "M", X: 2, Y: 1},
		},
		Links: []layout.Link{{From: "A", To: "B"}},
	}
	m := DefaultMetrics()

	got := ArrowsThroughText(TakeSnapshot(l, m), m)
	if len(got) != 1 {
		t.Fatalf("got %d hits, want 1", len(got))
	}
	h := got[0]
	if h.Arrow.Source != "A" || h.Arrow.Target != "B" || h.Element != "M" {
		t.Errorf("hit = %s→%s through %s, want A→B through M", h.Arrow.Source, h.Arrow.Target, h.Element)
	}
}

func TestArrowThroughTextSkipsEndpoints(t *testing.T) {
	l := &layout.Layout{
		Elements: []layout.Element{
			{Name: "A", X: 0, Y: 1},
			{Name: "B", X: 4, Y: 1},
		},
		Links: []layout.Link{{From: "A", To: "B"}},
	}
	m := DefaultMetrics()

	if got := ArrowsThroughText(TakeSnapshot(l, m), m); len(got) != 0 {
		t.Errorf("endpoints are never flagged, got %d", len(got))
	}
}

func TestSnapshotDropsUnknownLinks(t *testing.T) {
	l := &layout.Layout{
		Elements: []layout.Element{{Name: "a", X: 0, Y: 0}},
		Links: []layout.Link{
			{From: "a", To: "ghost"},
			{From: "ghost", To: "a"},
		},
	}
	s := TakeSnapshot(l, DefaultMetrics())
	if len(s.Arrows) != 0 {
		t.Errorf("links with unknown endpoints should be dropped, got %d arrows", len(s.Arrows))
	}
}

func TestSnapshotUnderlineOrigin(t *testing.T) {
	// An underlined composite group sends arrows from its horizontal
	// center, offset below the baseline.
	l := &layout.Layout{
		Elements: []layout.Element{
			{Name: "p", X: 0, Y: 2},
			{Name: "q", X: 2, Y: 2},
			{Name: "r", X: 4, Y: 2},
			{Name: "sink", X: 2, Y: 0},
		},
		Groups: []layout.Group{
			{Name: "pqr", StartX: 0, Members: []string{"p", "q", "r"}, Underline: true},
			{Name: "sink", StartX: 2},
		},
		Links: []layout.Link{{From: "pqr", To: "sink"}},
	}
	m := DefaultMetrics()

	s := TakeSnapshot(l, m)
	if len(s.Arrows) != 1 {
		t.Fatalf("got %d arrows, want 1", len(s.Arrows))
	}
	a := s.Arrows[0]
	if a.From.X != 2 {
		t.Errorf("arrow origin x = %v, want group center 2", a.From.X)
	}
	if a.From.Y != 2-0.3 {
		t.Errorf("arrow origin y = %v, want 1.7 (south anchor)", a.From.Y)
	}
}

func TestSnapshotGroupNamedEndpoints(t *testing.T) {
	// A link may name a composite group that has no same-named element;
	// either endpoint then resolves to the group's center slot.
	l := &layout.Layout{
		Elements: []layout.Element{
			{Name: "src", X: 2, Y: 4},
			{Name: "p", X: 0, Y: 0},
			{Name: "q", X: 2, Y: 0},
			{Name: "r", X: 4, Y: 0},
		},
		Groups: []layout.Group{
			{Name: "src", StartX: 2},
			{Name: "pqr", StartX: 0, Members: []string{"p", "q", "r"}},
		},
		Links: []layout.Link{
			{From: "src", To: "pqr"},
			{From: "pqr", To: "src"},
		},
	}
	m := DefaultMetrics()

	s := TakeSnapshot(l, m)
	if len(s.Arrows) != 2 {
		t.Fatalf("got %d arrows, want 2", len(s.Arrows))
	}

	// Target side: center slot is StartX + 1*spacing at the center
	// member's baseline.
	in := s.Arrows[0]
	if in.To.X != 0+m.WithinGroupSpacing || in.To.Y != 0 {
		t.Errorf("group-named target = (%v, %v), want (%v, 0)", in.To.X, in.To.Y, m.WithinGroupSpacing)
	}

	// Source side: a non-underlined group keeps the baseline, no south
	// anchor offset.
	out := s.Arrows[1]
	if out.From.X != 0+m.WithinGroupSpacing || out.From.Y != 0 {
		t.Errorf("group-named source = (%v, %v), want (%v, 0)", out.From.X, out.From.Y, m.WithinGroupSpacing)
	}
}

// TestDetectIdempotent confirms that detection on an unchanged layout is
// deterministic: two passes return identical, equal-length lists.
func TestDetectIdempotent(t *testing.T) {
	l := crossingLayout()
	l.Elements = append(l.Elements, layout.Element{Name: "extra", X: 0.3, Y: 2})
	m := DefaultMetrics()

	first := Detect(l, m)
	second := Detect(l, m)

	if !reflect.DeepEqual(first, second) {
		t.Error("detection on an unchanged layout must be idempotent")
	}
	if first.Total() == 0 {
		t.Error("fixture should produce conflicts")
	}
}

func TestSetTotal(t *testing.T) {
	s := &Set{
		TextOverlaps:   []TextOverlap{{A: "a", B: "b"}},
		ArrowCrossings: []ArrowCrossing{{}},
	}
	if s.Total() != 2 {
		t.Errorf("Total = %d, want 2", s.Total())
	}
	if s.Empty() {
		t.Error("non-empty set reported empty")
	}
	if !(&Set{}).Empty() {
		t.Error("empty set not reported empty")
	}
}
