// Package board projects a Schedule onto regular hourly grids and tracks
// the in-progress drag-and-drop swap proposal between grid cells.
package board

import (
	"time"

	"github.com/interviewday/board/core/model"
)

// Headings derives the ordered hourly grid columns from the convention
// windows: each window contributes its start, then one more column per
// whole hour while still strictly before the window's end. Windows are
// concatenated in order; they are assumed sorted and disjoint (owned by
// upstream data entry), so no sort or dedup happens here. Regenerating
// the slice restarts the sequence.
func Headings(times []model.Interval) []time.Time {
	var headings []time.Time
	for _, window := range times {
		for t := window.Start; t.Before(window.End); t = t.Add(time.Hour) {
			headings = append(headings, t)
		}
	}
	return headings
}

// timeLabel formats a grid time the way cells reference it, e.g.
// "10:00 AM". Drag sources and drop targets compare these labels.
func timeLabel(t time.Time) string {
	return t.Format("3:04 PM")
}

// headingLabel formats a column header, e.g. "Jun 4, 10:00 AM".
func headingLabel(t time.Time) string {
	return t.Format("Jan 2, 3:04 PM")
}
