package layout

import "testing"

func TestHitTest(t *testing.T) {
	cases := []struct {
		x, y int
		want Button
	}{
		{20, 20, ButtonChangeDir},
		{199, 59, ButtonChangeDir},
		{200, 20, ButtonNone},
		{19, 30, ButtonNone},
		{600, 20, ButtonSkip},
		{779, 59, ButtonSkip},
		{780, 30, ButtonNone},
		{400, 300, ButtonNone},
		{600, 60, ButtonNone},
	}
	for _, tc := range cases {
		if got := HitTest(FieldWidth, tc.x, tc.y); got != tc.want {
			t.Fatalf("HitTest(%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestSkipRectFollowsWidth(t *testing.T) {
	r := SkipRect(1024)
	if r.X != 1024-ButtonWidth-ButtonMargin || r.Y != ButtonMargin {
		t.Fatalf("unexpected skip rect %+v", r)
	}
	if x, y := r.Center(); x != r.X+90 || y != 40 {
		t.Fatalf("unexpected center %d,%d", x, y)
	}
}

func TestFit(t *testing.T) {
	cases := []struct {
		name       string
		imgW, imgH int
		want       Rect
	}{
		{"wide", 1600, 400, Rect{X: 0, Y: 200, W: 800, H: 200}},
		{"tall", 300, 600, Rect{X: 250, Y: 0, W: 300, H: 600}},
		{"small", 80, 60, Rect{X: 0, Y: 0, W: 800, H: 600}},
		{"empty", 0, 10, Rect{}},
	}
	for _, tc := range cases {
		if got := Fit(tc.imgW, tc.imgH, FieldWidth, FieldHeight); got != tc.want {
			t.Fatalf("%s: Fit = %+v, want %+v", tc.name, got, tc.want)
		}
	}
}
