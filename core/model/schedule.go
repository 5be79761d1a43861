package model

import (
	"fmt"
	"time"
)

// Attendee is one interviewee. Prefs maps a company name to the rank the
// attendee gave it; ranks are positive and smaller is better (rank 1 is
// the first choice). The board displays and averages ranks, it never
// reorders by them.
type Attendee struct {
	Name        string         `json:"name"`
	Commitments []Interval     `json:"commitments"`
	Prefs       map[string]int `json:"prefs"`
}

// Appointment is one slot in a room's track. A nil Att means the slot is
// empty. Room is denormalized onto the appointment by the engine so a
// snapshot is self-describing on the wire; the room remains the owner.
type Appointment struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Att          *int      `json:"att"`
	IsCoffeeChat bool      `json:"isCoffeeChat"`
	Room         string    `json:"room"`
}

// Interval returns the appointment's time range.
func (a Appointment) Interval() Interval {
	return Interval{Start: a.Start, End: a.End}
}

// Empty reports whether the slot has no attendee.
func (a Appointment) Empty() bool { return a.Att == nil }

// Equal reports whether two appointments describe the same slot.
func (a Appointment) Equal(b Appointment) bool {
	if a.Room != b.Room || a.IsCoffeeChat != b.IsCoffeeChat {
		return false
	}
	if !a.Start.Equal(b.Start) || !a.End.Equal(b.End) {
		return false
	}
	if (a.Att == nil) != (b.Att == nil) {
		return false
	}
	return a.Att == nil || *a.Att == *b.Att
}

// CoffeeChat is a multi-occupant session inside a room: one interval
// shared by up to Capacity attendees drawn from Candidates. Its seats are
// realized as same-interval coffee-chat appointments in the room's Apps.
type CoffeeChat struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Candidates []int     `json:"candidates"`
	Capacity   int       `json:"capacity"`
}

// Interval returns the session's time range.
func (c CoffeeChat) Interval() Interval {
	return Interval{Start: c.Start, End: c.End}
}

// Room is one interview room belonging to exactly one company.
// Candidates lists attendees eligible for the room, assigned or not.
type Room struct {
	Apps       []Appointment `json:"apps"`
	Candidates []int         `json:"candidates"`
	CoffeeChat *CoffeeChat   `json:"coffeeChat,omitempty"`
}

// Schedule is the aggregate root. It is owned entirely by the Scheduling
// Engine: the board fetches it, renders it, and replaces it wholesale
// after every successful swap. It is never mutated locally.
type Schedule struct {
	Attendees              map[int]Attendee           `json:"attendees"`
	Companies              map[string]map[string]Room `json:"companies"`
	ConventionTimes        []Interval                 `json:"conventionTimes"`
	TotalUtility           float64                    `json:"totalUtility"`
	NoAppointments         int                        `json:"noAppointments"`
	NoAppointmentsNotEmpty int                        `json:"noAppointmentsNotEmpty"`
	NoAttendeesChosen      int                        `json:"noAttendeesChosen"`
	VarNoAppointments      float64                    `json:"varNoAppointments"`
}

// Validate checks interval invariants and referential integrity of
// attendee ids. Convention windows are trusted to be sorted and
// non-overlapping; upstream data entry owns that invariant.
func (s *Schedule) Validate() error {
	for i, iv := range s.ConventionTimes {
		if err := iv.Validate(); err != nil {
			return fmt.Errorf("convention time %d: %w", i, err)
		}
	}
	for id, att := range s.Attendees {
		for i, c := range att.Commitments {
			if err := c.Validate(); err != nil {
				return fmt.Errorf("attendee %d commitment %d: %w", id, i, err)
			}
		}
	}
	for company, rooms := range s.Companies {
		for roomName, room := range rooms {
			for i, app := range room.Apps {
				if err := app.Interval().Validate(); err != nil {
					return fmt.Errorf("room %s appointment %d: %w", roomName, i, err)
				}
				if app.Att != nil {
					if _, ok := s.Attendees[*app.Att]; !ok {
						return fmt.Errorf("room %s appointment %d: unknown attendee %d", roomName, i, *app.Att)
					}
				}
			}
			for _, id := range room.Candidates {
				if _, ok := s.Attendees[id]; !ok {
					return fmt.Errorf("company %s room %s: unknown candidate %d", company, roomName, id)
				}
			}
			if cc := room.CoffeeChat; cc != nil {
				if err := cc.Interval().Validate(); err != nil {
					return fmt.Errorf("room %s coffee chat: %w", roomName, err)
				}
				for _, id := range cc.Candidates {
					if _, ok := s.Attendees[id]; !ok {
						return fmt.Errorf("room %s coffee chat: unknown candidate %d", roomName, id)
					}
				}
			}
		}
	}
	return nil
}

// CompanyOf returns the company owning the named room, if any.
func (s *Schedule) CompanyOf(roomName string) (string, bool) {
	for company, rooms := range s.Companies {
		if _, ok := rooms[roomName]; ok {
			return company, true
		}
	}
	return "", false
}

// SwapRequest is the body of a swap negotiation: the entire current
// schedule plus the two sides of the proposed exchange. A nil App or Att
// on one side means that side is empty (a removal, or a candidate not
// yet holding a slot).
type SwapRequest struct {
	Schedule
	App1         *Appointment `json:"app1"`
	Att1         *int         `json:"att1"`
	App2         *Appointment `json:"app2"`
	Att2         *int         `json:"att2"`
	IsCoffeeChat bool         `json:"isCoffeeChat"`
}
