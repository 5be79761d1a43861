package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/interviewday/board/core/metrics"
)

// PromSink records board telemetry in Prometheus metrics.
type PromSink struct {
	swaps        *prometheus.CounterVec
	engineReqs   *prometheus.HistogramVec
	attendees    prometheus.Gauge
	appointments prometheus.Gauge
	filled       prometheus.Gauge
	utility      prometheus.Gauge
}

// NewPromSink registers board metrics on the default Prometheus
// registerer. The /metrics server is started separately.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	swaps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "board_swap_requests_total",
		Help: "Total number of confirmed swap proposals by outcome",
	}, []string{"outcome", "coffee_chat"})
	engineReqs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "board_engine_request_seconds",
		Help:    "Latency of Scheduling Engine requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "failed"})
	attendees := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "board_schedule_attendees",
		Help: "Attendees in the current schedule",
	})
	appointments := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "board_schedule_appointments",
		Help: "Appointment slots in the current schedule",
	})
	filled := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "board_schedule_appointments_filled",
		Help: "Occupied appointment slots in the current schedule",
	})
	utility := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "board_schedule_total_utility",
		Help: "Total preference utility of the current schedule",
	})

	s := &PromSink{
		swaps:        swaps,
		engineReqs:   engineReqs,
		attendees:    attendees,
		appointments: appointments,
		filled:       filled,
		utility:      utility,
	}
	if err := register(reg, &s.swaps); err != nil {
		return nil, err
	}
	if err := registerHist(reg, &s.engineReqs); err != nil {
		return nil, err
	}
	for _, g := range []*prometheus.Gauge{&s.attendees, &s.appointments, &s.filled, &s.utility} {
		if err := registerGauge(reg, g); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func register(reg prometheus.Registerer, c **prometheus.CounterVec) error {
	if err := reg.Register(*c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*c = are.ExistingCollector.(*prometheus.CounterVec)
			return nil
		}
		return err
	}
	return nil
}

func registerHist(reg prometheus.Registerer, h **prometheus.HistogramVec) error {
	if err := reg.Register(*h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*h = are.ExistingCollector.(*prometheus.HistogramVec)
			return nil
		}
		return err
	}
	return nil
}

func registerGauge(reg prometheus.Registerer, g *prometheus.Gauge) error {
	if err := reg.Register(*g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*g = are.ExistingCollector.(prometheus.Gauge)
			return nil
		}
		return err
	}
	return nil
}

// RecordSwap counts a settled swap proposal.
func (s *PromSink) RecordSwap(ev coremetrics.SwapEvent) {
	s.swaps.WithLabelValues(ev.Outcome, strconv.FormatBool(ev.IsCoffeeChat)).Inc()
}

// RecordEngineRequest observes one engine round trip.
func (s *PromSink) RecordEngineRequest(ev coremetrics.EngineRequest) {
	s.engineReqs.WithLabelValues(ev.Endpoint, strconv.FormatBool(ev.Failed)).Observe(ev.Duration.Seconds())
}

// RecordSchedule updates the current-schedule gauges.
func (s *PromSink) RecordSchedule(ev coremetrics.ScheduleSnapshot) {
	s.attendees.Set(float64(ev.Attendees))
	s.appointments.Set(float64(ev.Appointments))
	s.filled.Set(float64(ev.Filled))
	s.utility.Set(ev.TotalUtility)
}
