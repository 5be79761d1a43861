package model

import (
	"fmt"
	"time"
)

// Interval is a half-open time range [Start, End). The length is always
// derived from the bounds, never stored.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Minutes returns the interval length in minutes.
func (iv Interval) Minutes() float64 {
	return iv.End.Sub(iv.Start).Minutes()
}

// Validate checks the End > Start invariant.
func (iv Interval) Validate() error {
	if !iv.End.After(iv.Start) {
		return fmt.Errorf("interval end %s not after start %s", iv.End.Format(time.RFC3339), iv.Start.Format(time.RFC3339))
	}
	return nil
}

// Intersects reports whether two half-open intervals overlap.
func (iv Interval) Intersects(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}
