// Package metrics defines the board's metrics sink contract. Concrete
// sinks (Prometheus, InfluxDB) live in infra/metrics.
package metrics

import "time"

// SwapEvent records one confirmed swap negotiation round trip.
type SwapEvent struct {
	Room         string
	IsCoffeeChat bool
	Outcome      string // accepted, declined, failed
	Duration     time.Duration
	At           time.Time
}

// EngineRequest records one request to the Scheduling Engine.
type EngineRequest struct {
	Endpoint string
	Duration time.Duration
	Failed   bool
	At       time.Time
}

// ScheduleSnapshot describes the schedule currently held by the board.
type ScheduleSnapshot struct {
	Attendees    int
	Rooms        int
	Appointments int
	Filled       int
	TotalUtility float64
	At           time.Time
}

// Sink receives board telemetry. Implementations must be safe for
// concurrent use.
type Sink interface {
	RecordSwap(SwapEvent)
	RecordEngineRequest(EngineRequest)
	RecordSchedule(ScheduleSnapshot)
}

// NopSink discards all telemetry.
type NopSink struct{}

func (NopSink) RecordSwap(SwapEvent)              {}
func (NopSink) RecordEngineRequest(EngineRequest) {}
func (NopSink) RecordSchedule(ScheduleSnapshot)   {}
