package board

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/interviewday/board/core/logger"
	"github.com/interviewday/board/core/model"
	"github.com/interviewday/board/internal/eventbus"
)

// ErrInvalidDrop marks a drop target that cannot accept the held source.
var ErrInvalidDrop = errors.New("invalid drop target")

// ErrNoDrag marks a drop with nothing being dragged.
var ErrNoDrag = errors.New("no drag in progress")

// CellRef describes one end of a drag gesture: the grid cell (or Extra
// column chip) the gesture touched. Att is absent on empty slots and the
// remove target; App is absent on candidate chips and the remove target;
// Time is the cell's formatted start label, absent off the grid.
type CellRef struct {
	Room         string             `json:"room"`
	Att          *int               `json:"att,omitempty"`
	Time         string             `json:"time,omitempty"`
	App          *model.Appointment `json:"app,omitempty"`
	IsCoffeeChat bool               `json:"isCoffeeChat,omitempty"`
}

// SideKind tags the four shapes a swap side can take.
type SideKind string

const (
	// SideEmpty is the remove target: no attendee, no appointment.
	SideEmpty SideKind = "empty"
	// SideCandidate is an unassigned candidate chip: attendee only.
	SideCandidate SideKind = "candidate"
	// SideOpenSlot is an unoccupied appointment: appointment only.
	SideOpenSlot SideKind = "openSlot"
	// SideOccupied is an occupied appointment: attendee and appointment.
	SideOccupied SideKind = "occupied"
)

// SwapSide is one resolved end of a swap proposal. The tag makes the
// attendee/appointment combinations explicit instead of two
// independently optional fields.
type SwapSide struct {
	Kind SideKind           `json:"kind"`
	Att  *int               `json:"att,omitempty"`
	App  *model.Appointment `json:"app,omitempty"`
	Time string             `json:"time,omitempty"`
}

func sideOf(ref CellRef) SwapSide {
	side := SwapSide{Att: ref.Att, App: ref.App, Time: ref.Time}
	switch {
	case ref.Att == nil && ref.App == nil:
		side.Kind = SideEmpty
	case ref.App == nil:
		side.Kind = SideCandidate
	case ref.Att == nil:
		side.Kind = SideOpenSlot
	default:
		side.Kind = SideOccupied
	}
	return side
}

// Proposal is a pending swap awaiting user confirmation. Target is the
// dropped-on cell, Source the dragged one, mirroring the app1/app2 order
// of the swap request.
type Proposal struct {
	ID           string   `json:"id"`
	Room         string   `json:"room"`
	IsCoffeeChat bool     `json:"isCoffeeChat"`
	Target       SwapSide `json:"target"`
	Source       SwapSide `json:"source"`
	Removal      bool     `json:"removal"`
	Prompt       string   `json:"prompt"`
}

// DragState is the proposal state machine: Idle, then Held(source) from
// drag start until drag end. It is the single shared descriptor all grid
// cells consult; the origin and destination cells have no other common
// reference. End clears it unconditionally, drop or no drop, so a stale
// source can never leak into a later gesture. At most one proposal is
// outstanding; a newer drop supersedes an unconfirmed one.
type DragState struct {
	mu       sync.Mutex
	held     *CellRef
	proposal *Proposal
	bus      *eventbus.Bus[Event]
	log      logger.Logger
}

// NewDragState creates an idle state machine publishing on bus.
func NewDragState(bus *eventbus.Bus[Event], log logger.Logger) *DragState {
	return &DragState{bus: bus, log: log}
}

// Begin holds the source. A drag already in progress is replaced; the
// browser fires dragstart before any dragend it may have swallowed.
func (d *DragState) Begin(src CellRef) {
	d.mu.Lock()
	cp := src
	d.held = &cp
	d.mu.Unlock()
	d.log.Debugw("drag started", map[string]any{"room": src.Room, "time": src.Time})
	d.bus.Publish(DragStarted{Source: src, At: time.Now()})
}

// End returns the machine to Idle. Always called on drag end, whether or
// not a drop occurred.
func (d *DragState) End() {
	d.mu.Lock()
	was := d.held != nil
	d.held = nil
	d.mu.Unlock()
	if was {
		d.bus.Publish(DragEnded{At: time.Now()})
	}
}

// Held returns a copy of the current drag source, if any.
func (d *DragState) Held() (CellRef, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.held == nil {
		return CellRef{}, false
	}
	return *d.held, true
}

// AllowDrop reports whether the target may accept the held source: a
// source must exist, the rooms must match (swaps never cross rooms), the
// time labels must differ (except that two off-grid cells never pair),
// at least one side must carry an attendee, and at least one side must
// carry an appointment.
func (d *DragState) AllowDrop(target CellRef) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.held == nil {
		return false
	}
	return validDrop(target, *d.held) == nil
}

func validDrop(target, source CellRef) error {
	if target.Time == "" && source.Time == "" {
		return fmt.Errorf("%w: neither side is on the grid", ErrInvalidDrop)
	}
	if target.Time == source.Time {
		return fmt.Errorf("%w: no-op swap at %s", ErrInvalidDrop, target.Time)
	}
	if target.Room != source.Room {
		return fmt.Errorf("%w: cross-room move from %s to %s", ErrInvalidDrop, source.Room, target.Room)
	}
	if target.Att == nil && source.Att == nil {
		return fmt.Errorf("%w: neither side has an attendee", ErrInvalidDrop)
	}
	if target.App == nil && source.App == nil {
		return fmt.Errorf("%w: neither side has an appointment", ErrInvalidDrop)
	}
	return nil
}

// Drop resolves the held source against the target into a confirmable
// proposal. The drag stays held until End; the proposal survives it.
func (d *DragState) Drop(target CellRef) (Proposal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.held == nil {
		return Proposal{}, ErrNoDrag
	}
	source := *d.held
	if err := validDrop(target, source); err != nil {
		return Proposal{}, err
	}
	// Identical appointments on both sides would be a no-op round trip;
	// refuse here rather than bothering the engine.
	if target.App != nil && source.App != nil && target.App.Equal(*source.App) {
		return Proposal{}, fmt.Errorf("%w: both sides are the same appointment", ErrInvalidDrop)
	}

	p := Proposal{
		ID:           uuid.NewString(),
		Room:         target.Room,
		IsCoffeeChat: target.IsCoffeeChat || source.IsCoffeeChat,
		Target:       sideOf(target),
		Source:       sideOf(source),
		Removal:      target.Att == nil && target.App == nil,
	}
	if p.Removal {
		p.Prompt = fmt.Sprintf(
			"Are you sure you want to move %s out of the schedule (to the extra column) for %s?",
			describeSide(p.Source), p.Room,
		)
	} else {
		p.Prompt = fmt.Sprintf(
			"Are you sure you want to swap %s with %s for %s?",
			describeSide(p.Source), describeSide(p.Target), p.Room,
		)
	}

	d.proposal = &p
	d.log.Debugw("proposal issued", map[string]any{"id": p.ID, "room": p.Room, "removal": p.Removal})
	d.bus.Publish(ProposalIssued{ProposalID: p.ID, Room: p.Room, Prompt: p.Prompt, At: time.Now()})
	return p, nil
}

// Take consumes the outstanding proposal if its id matches.
func (d *DragState) Take(id string) (Proposal, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.proposal == nil || d.proposal.ID != id {
		return Proposal{}, false
	}
	p := *d.proposal
	d.proposal = nil
	return p, true
}

func describeSide(s SwapSide) string {
	desc := "Appointment"
	if s.Att != nil {
		desc = fmt.Sprintf("Attendee %d", *s.Att)
	}
	if s.Time != "" {
		desc += " @ " + s.Time
	}
	return desc
}
