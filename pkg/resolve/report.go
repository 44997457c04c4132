package resolve

import (
	"fmt"
	"strings"
	"time"
)

// TextVersion identifies the diagnostic text contract produced by
// [Report.Text]. Downstream quality gates parse the exact substrings
// "Text overlaps: N", "Arrow crossings: N", "Arrow through text: N", and
// "Max x coordinate: F"; changing any of those phrases requires bumping
// this version and publishing a replacement contract.
const TextVersion = 1

// Stats holds per-category conflict counts from one detection pass.
type Stats struct {
	TextOverlaps      int `json:"text_overlaps"`
	ArrowCrossings    int `json:"arrow_crossings"`
	ArrowsThroughText int `json:"arrow_through_text"`
}

// Total returns the combined conflict count.
func (s Stats) Total() int {
	return s.TextOverlaps + s.ArrowCrossings + s.ArrowsThroughText
}

// IterationRecord captures one pass of the repair loop: the scan counts
// and the single shift applied, if any. Shift is nil on the terminal
// iteration (converged or stuck).
type IterationRecord struct {
	Iteration int    `json:"iteration"`
	Stats     Stats  `json:"stats"`
	Shift     *Shift `json:"shift,omitempty"`
}

// Report is the structured outcome of a resolution run. It replaces
// print-based diagnostics as the interface to downstream tooling: the
// structure carries the data, and [Report.Text] renders the stable
// parseable transcript.
type Report struct {
	RunID      string            `json:"run_id"`
	Status     Status            `json:"status"`
	Iterations []IterationRecord `json:"iterations"`
	// Remaining holds the final conflict counts when the run exhausted
	// its iteration cap; zero-valued otherwise.
	Remaining Stats         `json:"remaining,omitempty"`
	MaxX      float64       `json:"max_x"`
	Duration  time.Duration `json:"duration"`
	Config    Config        `json:"config"`
}

// Initial returns the conflict counts of the first scan, or zero stats
// for an empty report.
func (r *Report) Initial() Stats {
	if len(r.Iterations) == 0 {
		return Stats{}
	}
	return r.Iterations[0].Stats
}

// ShiftCount returns the number of group shifts applied during the run.
func (r *Report) ShiftCount() int {
	n := 0
	for i := range r.Iterations {
		if r.Iterations[i].Shift != nil {
			n++
		}
	}
	return n
}

// Text renders the version-1 diagnostic transcript. The per-category
// count lines and the maximum-x figure are a parsing contract with
// downstream tooling and must stay verbatim.
func (r *Report) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Starting Conflict Resolution ===\n\n")

	initial := r.Initial()
	fmt.Fprintf(&b, "--- Initial State Before Resolution ---\n")
	fmt.Fprintf(&b, "Initial conflicts: %d\n", initial.Total())
	writeStats(&b, initial)
	b.WriteString("\n")

	for _, rec := range r.Iterations {
		if rec.Stats.Total() == 0 {
			fmt.Fprintf(&b, "Iteration %d: 0 conflicts detected\n", rec.Iteration)
			writeStats(&b, rec.Stats)
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(&b, "Iteration %d: %d conflicts detected\n", rec.Iteration, rec.Stats.Total())
		writeStats(&b, rec.Stats)
		if rec.Shift != nil {
			b.WriteString(shiftLine(*rec.Shift))
		}
		b.WriteString("\n")
	}

	switch r.Status {
	case StatusConverged:
		b.WriteString("✓ All conflicts resolved!\n\n")
	case StatusStuck:
		fmt.Fprintf(&b, "⚠ Could not resolve conflicts in iteration %d\n\n", len(r.Iterations))
	case StatusExhausted:
		fmt.Fprintf(&b, "⚠ Iteration limit reached with %d conflicts remaining\n\n", r.Remaining.Total())
	}

	b.WriteString("=== Conflict Resolution Complete ===\n")
	fmt.Fprintf(&b, "Max x coordinate: %.2f\n", r.MaxX)

	return b.String()
}

func writeStats(b *strings.Builder, s Stats) {
	fmt.Fprintf(b, "  - Text overlaps: %d\n", s.TextOverlaps)
	fmt.Fprintf(b, "  - Arrow crossings: %d\n", s.ArrowCrossings)
	fmt.Fprintf(b, "  - Arrow through text: %d\n", s.ArrowsThroughText)
}

func shiftLine(s Shift) string {
	switch {
	case s.Kind == KindTextOverlap:
		return fmt.Sprintf("    → Shifted %s by +%.1f\n", s.Group, s.Delta)
	case s.Kind == KindArrowCrossing:
		return fmt.Sprintf("    → Shifted %s horizontally by +%.1f to avoid crossing\n", s.Group, s.Delta)
	case s.StableTarget:
		return fmt.Sprintf("    → Shifted %s horizontally by +%.1f (avoiding horizontal arrow)\n", s.Group, s.Delta)
	default:
		return fmt.Sprintf("    → Shifted %s horizontally by +%.1f\n", s.Group, s.Delta)
	}
}
