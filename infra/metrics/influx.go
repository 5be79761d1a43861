package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	corelogger "github.com/interviewday/board/core/logger"
	coremetrics "github.com/interviewday/board/core/metrics"
	"github.com/interviewday/board/infra/logger"
)

// InfluxSink writes board telemetry to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      corelogger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails, so a dead telemetry backend never
// blocks the board.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSwap writes the settled proposal as a point.
func (s *InfluxSink) RecordSwap(ev coremetrics.SwapEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("swap_event").
		AddTag("room", ev.Room).
		AddTag("outcome", ev.Outcome).
		AddTag("coffee_chat", strconv.FormatBool(ev.IsCoffeeChat)).
		AddField("duration_ms", ev.Duration.Milliseconds()).
		SetTime(ev.At)
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		s.log.Errorf("influx write swap: %v", err)
	}
}

// RecordEngineRequest writes one engine round trip as a point.
func (s *InfluxSink) RecordEngineRequest(ev coremetrics.EngineRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("engine_request").
		AddTag("endpoint", ev.Endpoint).
		AddTag("failed", strconv.FormatBool(ev.Failed)).
		AddField("duration_ms", ev.Duration.Milliseconds()).
		SetTime(ev.At)
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		s.log.Errorf("influx write engine request: %v", err)
	}
}

// RecordSchedule writes the current schedule shape as a point.
func (s *InfluxSink) RecordSchedule(ev coremetrics.ScheduleSnapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("schedule_snapshot").
		AddField("attendees", ev.Attendees).
		AddField("rooms", ev.Rooms).
		AddField("appointments", ev.Appointments).
		AddField("filled", ev.Filled).
		AddField("total_utility", ev.TotalUtility).
		SetTime(ev.At)
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		s.log.Errorf("influx write schedule: %v", err)
	}
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
