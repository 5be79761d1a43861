package board

import (
	"testing"
	"time"

	"github.com/interviewday/board/core/model"
)

func TestBucketCursor(t *testing.T) {
	headings := []time.Time{day(9, 0), day(10, 0), day(11, 0)}
	c := newBucketCursor(headings)

	cases := []struct {
		start time.Time
		want  int
	}{
		{day(9, 0), 0},
		{day(9, 30), 0},
		{day(10, 0), 1},  // boundary: 9+1h <= 10 advances the cursor
		{day(10, 30), 1}, // mid-hour stays in its start column
		{day(11, 45), 2},
		{day(13, 0), 2}, // past the grid pins to the final heading
	}
	for _, tc := range cases {
		got, ok := c.bucket(tc.start)
		if !ok {
			t.Fatalf("bucket(%v): not ok", tc.start)
		}
		if got != tc.want {
			t.Errorf("bucket(%v): got %d, want %d", tc.start, got, tc.want)
		}
	}
}

func TestBucketCursorBeforeFirstHeading(t *testing.T) {
	c := newBucketCursor([]time.Time{day(9, 0), day(10, 0)})
	got, ok := c.bucket(day(8, 15))
	if !ok || got != 0 {
		t.Fatalf("got (%d, %v), want (0, true)", got, ok)
	}
}

func TestBucketCursorNoHeadings(t *testing.T) {
	c := newBucketCursor(nil)
	if _, ok := c.bucket(day(9, 0)); ok {
		t.Fatal("expected ok=false with no headings")
	}
}

func TestBucketCursorIsForwardOnly(t *testing.T) {
	// the cursor never rewinds; an out-of-order item lands where the
	// cursor already is, which is why every sorted list needs its own
	c := newBucketCursor([]time.Time{day(9, 0), day(10, 0), day(11, 0)})
	if got, _ := c.bucket(day(11, 0)); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
	if got, _ := c.bucket(day(9, 0)); got != 2 {
		t.Fatalf("cursor rewound: got %d, want 2", got)
	}
}

func TestCellGeometry(t *testing.T) {
	left, width := cellGeometry(model.Interval{Start: day(10, 15), End: day(10, 45)})
	if left != 25 {
		t.Errorf("left: got %v, want 25", left)
	}
	if width != 50 {
		t.Errorf("width: got %v, want 50", width)
	}

	left, width = cellGeometry(model.Interval{Start: day(10, 0), End: day(11, 0)})
	if left != 0 || width != 100 {
		t.Errorf("full hour: got (%v, %v), want (0, 100)", left, width)
	}
}
