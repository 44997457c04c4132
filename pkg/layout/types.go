package layout

import (
	"fmt"
	"slices"
)

// =============================================================================
// Element - Positioned Label
// =============================================================================

// Element is a named label placed on the layout plane by the upstream
// placement step. The name is the unique key; NodeID is the opaque
// identifier the downstream renderer uses for the same node.
//
// Elements are created by upstream placement, mutated only by a group
// shift, and never deleted during conflict resolution.
type Element struct {
	Name   string  `json:"name"`
	NodeID string  `json:"node_id,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// =============================================================================
// Group - Horizontal Unit
// =============================================================================

// Group is one or more elements treated as a single horizontal unit.
// A group with a nil member list is a singleton: its sole member is the
// element carrying the group's own name. Composite groups list their
// members in order; members sit at StartX + i*spacing, an invariant a
// shift must preserve.
type Group struct {
	Name      string   `json:"name"`
	StartX    float64  `json:"start_x"`
	Members   []string `json:"members,omitempty"`
	Underline bool     `json:"underline,omitempty"`
}

// IsSingleton reports whether the group is its own single member.
func (g *Group) IsSingleton() bool { return len(g.Members) == 0 }

// MemberNames returns the ordered member names. For singletons this is a
// one-element slice holding the group name itself.
func (g *Group) MemberNames() []string {
	if g.IsSingleton() {
		return []string{g.Name}
	}
	return g.Members
}

// Contains reports whether the named element belongs to this group.
// This is the single membership function: composite groups match on the
// member list, singleton groups match on the group name.
func (g *Group) Contains(name string) bool {
	if g.IsSingleton() {
		return g.Name == name
	}
	return slices.Contains(g.Members, name)
}

// CenterMember returns the member an underlined group's outgoing arrows
// originate from: the middle of the ordered member list.
func (g *Group) CenterMember() string {
	members := g.MemberNames()
	return members[len(members)/2]
}

// =============================================================================
// Link - Directed Connection
// =============================================================================

// Link is a directed pair of names. The target may be a group treated as
// a single node or an individual element. Fan-out is expressed as multiple
// links sharing a From.
type Link struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// =============================================================================
// Layout - Mutable Position/Group State
// =============================================================================

// Layout is the mutable layout context: the element positions, group
// anchors, and link set a resolution run operates on. Elements, groups,
// and links are held in declaration order; conflict resolution depends on
// that order being stable, so slices are the primary representation and
// maps are never used for iteration.
//
// A Layout is exclusively owned by the resolver for the duration of a run.
// It is not safe for concurrent use.
type Layout struct {
	Elements []Element `json:"elements"`
	Groups   []Group   `json:"groups"`
	Links    []Link    `json:"links"`
}

// Element returns a pointer to the named element, or nil if absent.
func (l *Layout) Element(name string) *Element {
	for i := range l.Elements {
		if l.Elements[i].Name == name {
			return &l.Elements[i]
		}
	}
	return nil
}

// Group returns a pointer to the named group, or nil if absent.
func (l *Layout) Group(name string) *Group {
	for i := range l.Groups {
		if l.Groups[i].Name == name {
			return &l.Groups[i]
		}
	}
	return nil
}

// GroupOf locates the owning group of an element in declaration order.
// Returns nil when the element belongs to no group; the resolver treats
// that as a Stuck condition, not an error.
func (l *Layout) GroupOf(element string) *Group {
	for i := range l.Groups {
		if l.Groups[i].Contains(element) {
			return &l.Groups[i]
		}
	}
	return nil
}

// HasIncomingLinks reports whether any link targets the group by name.
// Groups receiving links are kept more stable during resolution: other
// groups route around them, so they get the larger shift when implicated
// in an arrow-through-text conflict.
func (l *Layout) HasIncomingLinks(group string) bool {
	for _, link := range l.Links {
		if link.To == group {
			return true
		}
	}
	return false
}

// MaxX returns the largest element x-coordinate, the figure reported as
// the diagram's horizontal extent. Returns 0 for an empty layout.
func (l *Layout) MaxX() float64 {
	maxX := 0.0
	for i := range l.Elements {
		if l.Elements[i].X > maxX {
			maxX = l.Elements[i].X
		}
	}
	return maxX
}

// Validate checks structural consistency: element and group names must be
// unique. Links referencing unknown names are legal; the arrow builder
// silently drops them.
func (l *Layout) Validate() error {
	seen := make(map[string]bool, len(l.Elements))
	for i := range l.Elements {
		name := l.Elements[i].Name
		if name == "" {
			return fmt.Errorf("element %d: empty name", i)
		}
		if seen[name] {
			return fmt.Errorf("duplicate element name %q", name)
		}
		seen[name] = true
	}

	groups := make(map[string]bool, len(l.Groups))
	for i := range l.Groups {
		name := l.Groups[i].Name
		if name == "" {
			return fmt.Errorf("group %d: empty name", i)
		}
		if groups[name] {
			return fmt.Errorf("duplicate group name %q", name)
		}
		groups[name] = true
	}
	return nil
}

// Clone returns a deep copy of the layout. Useful when the caller wants
// to keep the pre-resolution positions around.
func (l *Layout) Clone() *Layout {
	out := &Layout{
		Elements: slices.Clone(l.Elements),
		Groups:   slices.Clone(l.Groups),
		Links:    slices.Clone(l.Links),
	}
	for i := range out.Groups {
		out.Groups[i].Members = slices.Clone(out.Groups[i].Members)
	}
	return out
}
