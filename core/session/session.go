// Package session owns the board's only mutable state: the current
// schedule snapshot and the single in-flight mutation slot. Every
// change to the schedule is a wholesale replacement by the engine's
// answer; nothing is ever patched locally. That asymmetry is deliberate:
// the engine alone judges feasibility (capacity, break conflicts,
// preference tie-breaks), so the board must not second-guess it.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/interviewday/board/core/audit"
	"github.com/interviewday/board/core/board"
	"github.com/interviewday/board/core/logger"
	"github.com/interviewday/board/core/metrics"
	"github.com/interviewday/board/core/model"
	"github.com/interviewday/board/internal/eventbus"
)

// ErrBusy is returned while a schedule-mutating request is outstanding.
// The in-flight slot is the de-facto mutex the original UI expressed by
// disabling its controls.
var ErrBusy = errors.New("a schedule request is already in flight")

// ErrNoSchedule is returned before the first successful generate.
var ErrNoSchedule = errors.New("no schedule loaded")

// ErrUnknownProposal is returned for a confirm against a missing or
// superseded proposal.
var ErrUnknownProposal = errors.New("no such proposal")

// ScheduleExport is a streamed export file; the caller owns Body.
type ScheduleExport struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

// Engine is the session's view of the Scheduling Engine.
type Engine interface {
	GenerateSchedule(ctx context.Context) (*model.Schedule, error)
	SwapSchedule(ctx context.Context, req model.SwapRequest) (*model.Schedule, error)
	WriteSchedule(ctx context.Context, sched *model.Schedule) (*ScheduleExport, error)
}

// SwapOutcome is the result of confirming a proposal.
type SwapOutcome struct {
	Accepted bool           `json:"accepted"`
	Stats    *board.Summary `json:"stats,omitempty"`
}

// Session negotiates schedule mutations with the engine on behalf of the
// board.
type Session struct {
	mu       sync.Mutex
	inFlight bool
	schedule *model.Schedule

	engine Engine
	drag   *board.DragState
	store  audit.Store
	sink   metrics.Sink
	bus    *eventbus.Bus[board.Event]
	log    logger.Logger
}

// New creates a session. store and sink may be the Nop implementations.
func New(eng Engine, drag *board.DragState, store audit.Store, sink metrics.Sink, bus *eventbus.Bus[board.Event], log logger.Logger) *Session {
	return &Session{engine: eng, drag: drag, store: store, sink: sink, bus: bus, log: log}
}

// Generate fetches a fresh schedule from the engine and replaces the
// local one wholesale.
func (s *Session) Generate(ctx context.Context) (*board.Summary, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	start := time.Now()
	sched, err := s.engine.GenerateSchedule(ctx)
	s.sink.RecordEngineRequest(metrics.EngineRequest{
		Endpoint: "generateSchedule", Duration: time.Since(start), Failed: err != nil, At: time.Now(),
	})
	if err != nil {
		s.log.Errorf("generate schedule: %v", err)
		return nil, err
	}
	if err := sched.Validate(); err != nil {
		return nil, fmt.Errorf("engine returned invalid schedule: %w", err)
	}
	return s.replace(sched), nil
}

// Schedule returns the current snapshot. The snapshot is immutable by
// convention: it is only ever replaced, never written through.
func (s *Session) Schedule() (*model.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedule == nil {
		return nil, ErrNoSchedule
	}
	return s.schedule, nil
}

// View rebuilds the grid projection from the current schedule. Nothing
// in the returned view is cached across calls.
func (s *Session) View() (*board.View, error) {
	sched, err := s.Schedule()
	if err != nil {
		return nil, err
	}
	return board.Build(sched), nil
}

// DragStart holds a drag source.
func (s *Session) DragStart(src board.CellRef) {
	s.drag.Begin(src)
}

// DragEnd clears the held source unconditionally.
func (s *Session) DragEnd() {
	s.drag.End()
}

// Drop resolves the held source against the target into a proposal.
// Drops are refused outright while a request is in flight, matching the
// disabled drop targets of the original UI.
func (s *Session) Drop(target board.CellRef) (board.Proposal, error) {
	s.mu.Lock()
	busy := s.inFlight
	loaded := s.schedule != nil
	s.mu.Unlock()
	if busy {
		return board.Proposal{}, ErrBusy
	}
	if !loaded {
		return board.Proposal{}, ErrNoSchedule
	}
	return s.drag.Drop(target)
}

// Confirm settles the named proposal. Declining sends nothing and leaves
// the schedule untouched. Accepting performs exactly one engine round
// trip; on success the returned schedule replaces the local one, on
// failure the prior schedule is kept and the error is surfaced.
func (s *Session) Confirm(ctx context.Context, id string, accept bool) (*SwapOutcome, error) {
	if !accept {
		p, ok := s.drag.Take(id)
		if !ok {
			return nil, ErrUnknownProposal
		}
		s.audit(ctx, p, audit.OutcomeDeclined, nil)
		s.bus.Publish(board.SwapResult{ProposalID: p.ID, Accepted: false, At: time.Now()})
		s.sink.RecordSwap(metrics.SwapEvent{Room: p.Room, IsCoffeeChat: p.IsCoffeeChat, Outcome: "declined", At: time.Now()})
		return &SwapOutcome{Accepted: false}, nil
	}

	// The slot is taken before the proposal: a confirm bounced with
	// ErrBusy must leave the proposal confirmable once the flight
	// settles.
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	p, ok := s.drag.Take(id)
	if !ok {
		return nil, ErrUnknownProposal
	}

	s.mu.Lock()
	sched := s.schedule
	s.mu.Unlock()
	if sched == nil {
		return nil, ErrNoSchedule
	}

	req := model.SwapRequest{
		Schedule:     *sched,
		App1:         p.Target.App,
		Att1:         p.Target.Att,
		App2:         p.Source.App,
		Att2:         p.Source.Att,
		IsCoffeeChat: p.IsCoffeeChat,
	}

	start := time.Now()
	next, err := s.engine.SwapSchedule(ctx, req)
	elapsed := time.Since(start)
	s.sink.RecordEngineRequest(metrics.EngineRequest{
		Endpoint: "swapSchedule", Duration: elapsed, Failed: err != nil, At: time.Now(),
	})
	if err != nil {
		s.log.Errorf("swap %s: %v", p.ID, err)
		s.audit(ctx, p, audit.OutcomeFailed, err)
		s.bus.Publish(board.SwapResult{ProposalID: p.ID, Accepted: true, Error: err.Error(), At: time.Now()})
		s.sink.RecordSwap(metrics.SwapEvent{Room: p.Room, IsCoffeeChat: p.IsCoffeeChat, Outcome: "failed", Duration: elapsed, At: time.Now()})
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("engine returned invalid schedule: %w", err)
	}

	stats := s.replace(next)
	s.audit(ctx, p, audit.OutcomeAccepted, nil)
	s.bus.Publish(board.SwapResult{ProposalID: p.ID, Accepted: true, At: time.Now()})
	s.sink.RecordSwap(metrics.SwapEvent{Room: p.Room, IsCoffeeChat: p.IsCoffeeChat, Outcome: "accepted", Duration: elapsed, At: time.Now()})
	return &SwapOutcome{Accepted: true, Stats: stats}, nil
}

// Export streams the engine-rendered schedule file. The snapshot is
// read only once the slot is held, so a concurrently finishing
// Generate cannot slip a different schedule in between.
func (s *Session) Export(ctx context.Context) (*ScheduleExport, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	s.mu.Lock()
	sched := s.schedule
	s.mu.Unlock()
	if sched == nil {
		return nil, ErrNoSchedule
	}

	start := time.Now()
	exp, err := s.engine.WriteSchedule(ctx, sched)
	s.sink.RecordEngineRequest(metrics.EngineRequest{
		Endpoint: "writeSchedule", Duration: time.Since(start), Failed: err != nil, At: time.Now(),
	})
	if err != nil {
		s.log.Errorf("export schedule: %v", err)
		s.bus.Publish(board.ExportResult{Error: err.Error(), At: time.Now()})
		return nil, err
	}
	s.bus.Publish(board.ExportResult{Filename: exp.Filename, At: time.Now()})
	return exp, nil
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrBusy
	}
	s.inFlight = true
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// replace installs the engine's schedule wholesale and reports it.
func (s *Session) replace(next *model.Schedule) *board.Summary {
	s.mu.Lock()
	s.schedule = next
	s.mu.Unlock()

	stats := board.Summarize(next)
	s.bus.Publish(board.ScheduleReplaced{Stats: stats, At: time.Now()})
	s.sink.RecordSchedule(snapshot(next))
	s.log.Infof("schedule replaced: %d attendees, %d/%d appointments filled",
		len(next.Attendees), next.NoAttendeesChosen, next.NoAppointments)
	return &stats
}

func (s *Session) audit(ctx context.Context, p board.Proposal, outcome audit.Outcome, cause error) {
	rec := audit.Record{
		Timestamp:    time.Now(),
		ProposalID:   p.ID,
		Room:         p.Room,
		IsCoffeeChat: p.IsCoffeeChat,
		Att1:         p.Target.Att,
		Att2:         p.Source.Att,
		Time1:        p.Target.Time,
		Time2:        p.Source.Time,
		Removal:      p.Removal,
		Outcome:      outcome,
	}
	if cause != nil {
		rec.Error = cause.Error()
	}
	if err := s.store.Append(ctx, rec); err != nil {
		s.log.Warnf("audit append: %v", err)
	}
}

func snapshot(sched *model.Schedule) metrics.ScheduleSnapshot {
	rooms, apps := 0, 0
	for _, rs := range sched.Companies {
		rooms += len(rs)
		for _, r := range rs {
			apps += len(r.Apps)
		}
	}
	return metrics.ScheduleSnapshot{
		Attendees:    len(sched.Attendees),
		Rooms:        rooms,
		Appointments: apps,
		Filled:       sched.NoAttendeesChosen,
		TotalUtility: sched.TotalUtility,
		At:           time.Now(),
	}
}
