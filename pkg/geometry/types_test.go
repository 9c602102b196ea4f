package geometry

import (
	"encoding/json"
	"math"
	"testing"
)

func TestPointArithmetic(t *testing.T) {
	a := NewPoint2D(3, 4)
	b := NewPoint2D(1, 1)

	if got := a.Distance(Point2D{}); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := a.Add(b); got != (Point2D{X: 4, Y: 5}) {
		t.Errorf("Add = %+v", got)
	}
	if got := a.Sub(b); got != (Point2D{X: 2, Y: 3}) {
		t.Errorf("Sub = %+v", got)
	}
	if got := a.Scale(2); got != (Point2D{X: 6, Y: 8}) {
		t.Errorf("Scale = %+v", got)
	}
}

func TestPointIsFinite(t *testing.T) {
	cases := []struct {
		p    Point2D
		want bool
	}{
		{Point2D{X: 1, Y: 2}, true},
		{Point2D{X: math.NaN(), Y: 2}, false},
		{Point2D{X: 1, Y: math.Inf(1)}, false},
	}
	for _, c := range cases {
		if got := c.p.IsFinite(); got != c.want {
			t.Errorf("IsFinite(%+v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestLineSegmentDirectionAndNormal(t *testing.T) {
	s := NewLineSegment(0, 0, 10, 0)
	if got := s.Length(); got != 10 {
		t.Fatalf("Length = %v, want 10", got)
	}
	d := s.Direction()
	if d.X != 1 || d.Y != 0 {
		t.Errorf("Direction = %+v, want (1,0)", d)
	}
	n := s.Normal()
	if n.X != 0 || n.Y != 1 {
		t.Errorf("Normal = %+v, want (0,1)", n)
	}
}

func TestLineSegmentDegenerateDirection(t *testing.T) {
	s := NewLineSegment(5, 5, 5, 5)
	d := s.Direction()
	if d.X != 0 || d.Y != 0 {
		t.Errorf("Direction of degenerate segment = %+v, want zero", d)
	}
}

func TestLineSegmentJSON(t *testing.T) {
	var s LineSegment
	if err := json.Unmarshal([]byte(`{"start":{"x":1,"y":2},"end":{"x":3.5,"y":4}}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := NewLineSegment(1, 2, 3.5, 4)
	if s != want {
		t.Errorf("got %+v, want %+v", s, want)
	}
}
