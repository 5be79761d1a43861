// Package app wires the board together: engine client, session, audit
// store, metrics sinks, event bus, notifier and HTTP server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	auditapi "github.com/interviewday/board/api/audit"
	boardapi "github.com/interviewday/board/api/board"
	"github.com/interviewday/board/config"
	"github.com/interviewday/board/connectors/engine"
	"github.com/interviewday/board/core/audit"
	"github.com/interviewday/board/core/board"
	coremetrics "github.com/interviewday/board/core/metrics"
	"github.com/interviewday/board/core/model"
	"github.com/interviewday/board/core/session"
	"github.com/interviewday/board/infra/logger"
	"github.com/interviewday/board/infra/metrics"
	"github.com/interviewday/board/infra/notify"
	"github.com/interviewday/board/internal/eventbus"
)

// Service orchestrates the schedule board.
type Service struct {
	Session *session.Session

	cfg      *config.Config
	bus      *eventbus.Bus[board.Event]
	store    audit.Store
	notifier *notify.Notifier
	log      logger.Logger
}

// engineAdapter bridges the REST client to the session's Engine port.
type engineAdapter struct {
	cli *engine.Client
}

func (a engineAdapter) GenerateSchedule(ctx context.Context) (*model.Schedule, error) {
	return a.cli.GenerateSchedule(ctx)
}

func (a engineAdapter) SwapSchedule(ctx context.Context, req model.SwapRequest) (*model.Schedule, error) {
	return a.cli.SwapSchedule(ctx, req)
}

func (a engineAdapter) WriteSchedule(ctx context.Context, sched *model.Schedule) (*session.ScheduleExport, error) {
	exp, err := a.cli.WriteSchedule(ctx, sched)
	if err != nil {
		return nil, err
	}
	return &session.ScheduleExport{Filename: exp.Filename, ContentType: exp.ContentType, Body: exp.Body}, nil
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	cli, err := engine.New(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("engine client: %w", err)
	}

	store, err := newAuditStore(cfg.Audit)
	if err != nil {
		return nil, fmt.Errorf("audit store: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New[board.Event]()
	drag := board.NewDragState(bus, logger.New("drag-state"))
	sess := session.New(engineAdapter{cli: cli}, drag, store, sink, bus, logger.New("session"))

	svc := &Service{Session: sess, cfg: cfg, bus: bus, store: store, log: logg}
	if cfg.Notify.Enabled {
		notifier, err := notify.New(cfg.Notify, bus, logger.New("notifier"))
		if err != nil {
			return nil, fmt.Errorf("notifier: %w", err)
		}
		svc.notifier = notifier
	}
	return svc, nil
}

func newAuditStore(cfg config.AuditConfig) (audit.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return audit.NewSQLiteStore(cfg.Path)
	case "jsonl":
		return audit.NewJSONLStore(cfg.Path)
	default:
		return audit.NopStore{}, nil
	}
}

// Run serves the board API (and the /metrics endpoint when enabled)
// until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/api/board/", boardapi.New(s.Session, s.cfg.API.Token, logger.New("board-api")))
	mux.Handle("/api/audit/swaps", auditapi.New(s.store, s.cfg.API.Token))

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.notifier != nil {
		go s.notifier.Run(ctx)
	}

	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("server shutdown: %v", err)
		}
	}()

	s.log.Infof("schedule board listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return s.store.Close()
}
