package resolve

import (
	"strings"
	"testing"
)

func sampleReport(status Status) *Report {
	r := &Report{
		RunID:  "test-run",
		Status: status,
		MaxX:   4.5,
		Iterations: []IterationRecord{
			{
				Iteration: 1,
				Stats:     Stats{TextOverlaps: 2, ArrowCrossings: 1},
				Shift:     &Shift{Group: "X", Delta: 1.0, Kind: KindTextOverlap},
			},
			{Iteration: 2, Stats: Stats{}},
		},
	}
	if status == StatusExhausted {
		r.Remaining = Stats{ArrowCrossings: 1}
	}
	return r
}

// TestTextContract pins the verbatim substrings downstream tooling
// parses out of the transcript.
func TestTextContract(t *testing.T) {
	text := sampleReport(StatusConverged).Text()

	for _, want := range []string{
		"=== Starting Conflict Resolution ===",
		"=== Conflict Resolution Complete ===",
		"Text overlaps: 2",
		"Arrow crossings: 1",
		"Arrow through text: 0",
		"Max x coordinate: 4.50",
		"✓ All conflicts resolved!",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("transcript missing %q\n%s", want, text)
		}
	}
}

func TestTextShiftLines(t *testing.T) {
	tests := []struct {
		name  string
		shift Shift
		want  string
	}{
		{
			name:  "text overlap",
			shift: Shift{Group: "X", Delta: 1.0, Kind: KindTextOverlap},
			want:  "→ Shifted X by +1.0",
		},
		{
			name:  "arrow crossing",
			shift: Shift{Group: "P1", Delta: 1.5, Kind: KindArrowCrossing},
			want:  "→ Shifted P1 horizontally by +1.5 to avoid crossing",
		},
		{
			name:  "through text",
			shift: Shift{Group: "M", Delta: 1.0, Kind: KindArrowThroughText},
			want:  "→ Shifted M horizontally by +1.0",
		},
		{
			name:  "through text stable",
			shift: Shift{Group: "M", Delta: 1.5, Kind: KindArrowThroughText, StableTarget: true},
			want:  "→ Shifted M horizontally by +1.5 (avoiding horizontal arrow)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shiftLine(tt.shift)
			if !strings.Contains(got, tt.want) {
				t.Errorf("shiftLine() = %q, want substring %q", got, tt.want)
			}
		})
	}
}

func TestTextExhausted(t *testing.T) {
	text := sampleReport(StatusExhausted).Text()
	if !strings.Contains(text, "Iteration limit reached with 1 conflicts remaining") {
		t.Errorf("missing exhaustion notice:\n%s", text)
	}
	if strings.Contains(text, "All conflicts resolved") {
		t.Error("exhausted transcript must not claim success")
	}
}

func TestTextStuck(t *testing.T) {
	text := sampleReport(StatusStuck).Text()
	if !strings.Contains(text, "Could not resolve conflicts") {
		t.Errorf("missing stuck notice:\n%s", text)
	}
}

func TestInitialAndShiftCount(t *testing.T) {
	r := sampleReport(StatusConverged)
	if got := r.Initial(); got.TextOverlaps != 2 {
		t.Errorf("Initial().TextOverlaps = %d, want 2", got.TextOverlaps)
	}
	if r.ShiftCount() != 1 {
		t.Errorf("ShiftCount() = %d, want 1", r.ShiftCount())
	}

	empty := &Report{}
	if got := empty.Initial(); got.Total() != 0 {
		t.Errorf("empty report Initial() = %+v, want zero", got)
	}
}
