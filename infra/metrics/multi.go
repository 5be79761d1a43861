package metrics

import coremetrics "github.com/interviewday/board/core/metrics"

// MultiSink fans telemetry out to several sinks.
type MultiSink struct {
	sinks []coremetrics.Sink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordSwap(ev coremetrics.SwapEvent) {
	for _, s := range m.sinks {
		s.RecordSwap(ev)
	}
}

func (m *MultiSink) RecordEngineRequest(ev coremetrics.EngineRequest) {
	for _, s := range m.sinks {
		s.RecordEngineRequest(ev)
	}
}

func (m *MultiSink) RecordSchedule(ev coremetrics.ScheduleSnapshot) {
	for _, s := range m.sinks {
		s.RecordSchedule(ev)
	}
}
