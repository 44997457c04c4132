package resolve

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/deconflict/pkg/conflict"
	"github.com/matzehuels/deconflict/pkg/layout"
	"github.com/matzehuels/deconflict/pkg/observability"
)

// Status is the terminal state of a resolution run.
type Status string

const (
	// StatusConverged means a scan found zero conflicts.
	StatusConverged Status = "converged"
	// StatusStuck means conflicts remain but no flagged party could be
	// mapped to an owning group, so no further mutation is possible.
	StatusStuck Status = "stuck"
	// StatusExhausted means the iteration cap was reached with conflicts
	// still present.
	StatusExhausted Status = "exhausted"
)

// Kind names the conflict category a shift was applied for.
type Kind string

const (
	KindTextOverlap      Kind = "text_overlap"
	KindArrowCrossing    Kind = "arrow_crossing"
	KindArrowThroughText Kind = "arrow_through_text"
)

// Shift records one applied group shift: which group moved, by how much,
// and which conflict category triggered it. StableTarget marks the
// through-text case where the group received links and got the larger
// delta.
type Shift struct {
	Group        string  `json:"group"`
	Delta        float64 `json:"delta"`
	Kind         Kind    `json:"kind"`
	StableTarget bool    `json:"stable_target,omitempty"`
}

// Resolver runs the bounded conflict repair loop over a layout.
//
// The resolver exclusively owns the layout for the duration of a run: it
// is the only component that mutates positions and group anchors, and it
// applies exactly one group shift per iteration before rescanning.
type Resolver struct {
	cfg    Config
	logger *log.Logger
}

// New creates a resolver with the given tuning. A nil logger discards
// log output.
func New(cfg Config, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Resolver{cfg: cfg, logger: logger}
}

// Run executes the repair loop on the layout, mutating it in place, and
// returns the run report. The loop is fully synchronous: it terminates in
// Converged, Stuck, or Exhausted within the configured iteration cap and
// never mutates state after reaching a terminal status.
//
// The context is used only for observability hooks; there is no
// mid-run cancellation - the iteration cap is the sole bound.
func (r *Resolver) Run(ctx context.Context, l *layout.Layout) *Report {
	start := time.Now()
	metrics := r.cfg.Metrics()
	report := &Report{
		RunID:  uuid.NewString(),
		Config: r.cfg,
	}

	r.logger.Info("starting conflict resolution", "run_id", report.RunID, "max_iterations", r.cfg.MaxIterations)

	for iteration := 1; iteration <= r.cfg.MaxIterations; iteration++ {
		set := conflict.Detect(l, metrics)
		stats := statsOf(set)
		observability.Resolver().OnScan(ctx, iteration, stats.TextOverlaps, stats.ArrowCrossings, stats.ArrowsThroughText)
		r.logger.Debug("scan complete",
			"iteration", iteration,
			"text_overlaps", stats.TextOverlaps,
			"arrow_crossings", stats.ArrowCrossings,
			"arrow_through_text", stats.ArrowsThroughText)

		record := IterationRecord{Iteration: iteration, Stats: stats}

		if set.Empty() {
			report.Iterations = append(report.Iterations, record)
			r.finish(ctx, report, StatusConverged, l, start)
			return report
		}

		shift, ok := r.fixOne(l, set)
		if !ok {
			report.Iterations = append(report.Iterations, record)
			r.finish(ctx, report, StatusStuck, l, start)
			return report
		}

		record.Shift = &shift
		report.Iterations = append(report.Iterations, record)
		observability.Resolver().OnShift(ctx, shift.Group, shift.Delta, string(shift.Kind))
		r.logger.Info("shifted group",
			"iteration", iteration,
			"group", shift.Group,
			"delta", shift.Delta,
			"kind", shift.Kind)
	}

	// Cap reached. One last pure scan settles whether the final shift
	// happened to clear the board.
	final := statsOf(conflict.Detect(l, metrics))
	if final.Total() == 0 {
		r.finish(ctx, report, StatusConverged, l, start)
		return report
	}
	report.Remaining = final
	r.finish(ctx, report, StatusExhausted, l, start)
	return report
}

// finish stamps the terminal state on the report. No mutation of the
// layout happens at or after this point.
func (r *Resolver) finish(ctx context.Context, report *Report, status Status, l *layout.Layout, start time.Time) {
	report.Status = status
	report.MaxX = l.MaxX()
	report.Duration = time.Since(start)
	observability.Resolver().OnRunComplete(ctx, string(status), len(report.Iterations), report.Duration)

	switch status {
	case StatusConverged:
		r.logger.Info("all conflicts resolved", "iterations", len(report.Iterations), "max_x", report.MaxX)
	case StatusStuck:
		r.logger.Warn("could not map any flagged element to a group", "iterations", len(report.Iterations))
	case StatusExhausted:
		r.logger.Warn("iteration cap reached with conflicts remaining",
			"iterations", len(report.Iterations),
			"remaining", report.Remaining.Total())
	}
}

// =============================================================================
// Fix Selection - Strict Category Priority
// =============================================================================

// fixOne applies exactly one group shift for the highest-priority fixable
// conflict: text overlaps first, then arrow crossings, then arrows
// through text. Within a category, conflicts are visited in detection
// order and the first one whose implicated party maps to a known group is
// acted on. Returns false when no conflict in any category could be
// mapped to a group.
func (r *Resolver) fixOne(l *layout.Layout, set *conflict.Set) (Shift, bool) {
	for _, o := range set.TextOverlaps {
		g := l.GroupOf(o.A)
		if g == nil {
			continue
		}
		r.shiftGroup(l, g, r.cfg.TextOverlapShift)
		return Shift{Group: g.Name, Delta: r.cfg.TextOverlapShift, Kind: KindTextOverlap}, true
	}

	for _, c := range set.ArrowCrossings {
		// An arrow source is usually an element, but a link may name a
		// composite group directly; then the group itself is the party.
		g := l.GroupOf(c.A.Source)
		if g == nil {
			g = l.Group(c.A.Source)
		}
		if g == nil {
			continue
		}
		r.shiftGroup(l, g, r.cfg.ArrowCrossingShift)
		return Shift{Group: g.Name, Delta: r.cfg.ArrowCrossingShift, Kind: KindArrowCrossing}, true
	}

	for _, h := range set.ArrowsThroughText {
		g := l.GroupOf(h.Element)
		if g == nil {
			continue
		}
		delta := r.cfg.ThroughTextShift
		stable := l.HasIncomingLinks(g.Name)
		if stable {
			delta = r.cfg.ThroughTextStableShift
		}
		r.shiftGroup(l, g, delta)
		return Shift{Group: g.Name, Delta: delta, Kind: KindArrowThroughText, StableTarget: stable}, true
	}

	return Shift{}, false
}

// shiftGroup moves a group right by delta: the anchor advances and every
// member's x is recomputed from the anchor at the fixed within-group
// spacing. Y-coordinates, member order, and all other groups are
// untouched.
func (r *Resolver) shiftGroup(l *layout.Layout, g *layout.Group, delta float64) {
	g.StartX += delta
	for i, name := range g.MemberNames() {
		if e := l.Element(name); e != nil {
			e.X = g.StartX + float64(i)*r.cfg.WithinGroupSpacing
		}
	}
}

func statsOf(set *conflict.Set) Stats {
	return Stats{
		TextOverlaps:      len(set.TextOverlaps),
		ArrowCrossings:    len(set.ArrowCrossings),
		ArrowsThroughText: len(set.ArrowsThroughText),
	}
}
