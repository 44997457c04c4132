// Package layout defines the diagram layout document: named elements with
// 2-D positions, groups that move as horizontal units, and directed links.
//
// The layout is produced by an upstream placement step and consumed by a
// downstream renderer; this package only carries the structures between
// them and serializes them as JSON. Declaration order is significant
// throughout - conflict resolution fixes the first conflict it finds, so
// elements, groups, and links are stored as ordered arrays and a
// re-serialized layout preserves the order it was read with.
//
// A group is either a singleton (no member list; the group name doubles as
// its only element) or a composite (ordered member list). Membership is
// resolved through [Group.Contains] and [Layout.GroupOf] rather than by
// inspecting the shape at the call site.
package layout
