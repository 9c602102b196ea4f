package constellation

import (
	"testing"

	"constellation-viewer/pkg/geometry"
)

func makeLines(n int) []geometry.LineSegment {
	lines := make([]geometry.LineSegment, n)
	for i := range lines {
		f := float64(i)
		lines[i] = geometry.NewLineSegment(f, f, f+1, f+1)
	}
	return lines
}

func intPtr(v int) *int { return &v }

func TestHighlightedLinesSelectsGroup(t *testing.T) {
	lines := makeLines(9)
	got := HighlightedLines(lines, intPtr(1))
	want := lines[3:6]
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestHighlightedLinesMatchesDefinition(t *testing.T) {
	for n := 0; n <= 10; n++ {
		lines := makeLines(n)
		for k := -1; k <= 4; k++ {
			got := HighlightedLines(lines, intPtr(k))

			var want []geometry.LineSegment
			for i, l := range lines {
				if i/3 == k {
					want = append(want, l)
				}
			}
			if len(got) != len(want) {
				t.Fatalf("n=%d k=%d: len = %d, want %d", n, k, len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("n=%d k=%d: got[%d] = %+v, want %+v", n, k, i, got[i], want[i])
				}
			}
		}
	}
}

func TestHighlightedLinesShortLastGroup(t *testing.T) {
	lines := makeLines(7)
	got := HighlightedLines(lines, intPtr(2))
	if len(got) != 1 || got[0] != lines[6] {
		t.Errorf("got %+v, want only lines[6]", got)
	}
}

func TestHighlightedLinesEmpty(t *testing.T) {
	lines := makeLines(6)
	cases := []struct {
		name     string
		selected *int
	}{
		{"nil selection", nil},
		{"out of range", intPtr(2)},
		{"negative", intPtr(-1)},
	}
	for _, c := range cases {
		if got := HighlightedLines(lines, c.selected); len(got) != 0 {
			t.Errorf("%s: got %d lines, want 0", c.name, len(got))
		}
	}
	if got := HighlightedLines(nil, intPtr(0)); len(got) != 0 {
		t.Errorf("no lines: got %d, want 0", len(got))
	}
}

func TestHighlightedLinesDoesNotAlias(t *testing.T) {
	lines := makeLines(3)
	got := HighlightedLines(lines, intPtr(0))
	got[0] = geometry.LineSegment{}
	if lines[0] == (geometry.LineSegment{}) {
		t.Error("mutating the result changed the input lines")
	}
}

func TestClusterCountAndOf(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 3: 1, 4: 2, 9: 3, 10: 4}
	for n, want := range cases {
		if got := ClusterCount(makeLines(n)); got != want {
			t.Errorf("ClusterCount(%d) = %d, want %d", n, got, want)
		}
	}
	if ClusterOf(5) != 1 || ClusterOf(6) != 2 || ClusterOf(0) != 0 {
		t.Error("ClusterOf mismatch")
	}
}
