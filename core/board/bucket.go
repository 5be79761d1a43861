package board

import (
	"time"

	"github.com/interviewday/board/core/model"
)

// bucketCursor assigns items of one sorted list to grid columns with a
// single forward pass: the cursor advances through the sorted headings
// only while the next-hour boundary is still at or before the item's
// start, then the item buckets under the cursor's current heading. This
// is a linear two-pointer merge, not a search, so it depends on both the
// headings and the item list being sorted ascending. A fresh cursor is
// required for every independent list; carrying one across lists
// misplaces items.
type bucketCursor struct {
	headings []time.Time
	i        int
}

func newBucketCursor(headings []time.Time) *bucketCursor {
	return &bucketCursor{headings: headings}
}

// bucket returns the column index for an item starting at the given
// time. Items before the first span bucket under the first heading;
// items past the last span pin to the final heading. ok is false only
// when there are no headings at all.
func (c *bucketCursor) bucket(start time.Time) (int, bool) {
	if len(c.headings) == 0 {
		return 0, false
	}
	for c.i < len(c.headings)-1 && !c.headings[c.i].Add(time.Hour).After(start) {
		c.i++
	}
	return c.i, true
}

// cellGeometry returns the horizontal placement of an item within its
// hour column: left offset from the start minute within the hour and
// width from the duration, both as percentages of 60 minutes. Items
// spanning a column boundary stay pinned to their start hour.
func cellGeometry(iv model.Interval) (left, width float64) {
	left = float64(iv.Start.Minute()) / 60 * 100
	width = iv.Minutes() / 60 * 100
	return left, width
}
