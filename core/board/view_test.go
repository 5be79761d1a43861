package board

import (
	"testing"
	"time"

	"github.com/interviewday/board/core/model"
)

func ip(v int) *int { return &v }

func app(start, end time.Time, att *int, room string) model.Appointment {
	return model.Appointment{Start: start, End: end, Att: att, Room: room}
}

func ccApp(start, end time.Time, att *int, room string) model.Appointment {
	a := app(start, end, att, room)
	a.IsCoffeeChat = true
	return a
}

func TestBuildBucketsAndReconciles(t *testing.T) {
	s := &model.Schedule{
		Attendees: map[int]model.Attendee{
			7: {Name: "Ada", Prefs: map[string]int{"Initech": 1}},
			8: {Name: "Grace", Prefs: map[string]int{"Initech": 2}},
		},
		Companies: map[string]map[string]model.Room{
			"Initech": {
				"Room A": {
					Apps: []model.Appointment{
						app(day(10, 0), day(10, 30), ip(7), "Room A"),
					},
					Candidates: []int{7, 8},
				},
			},
		},
		ConventionTimes: []model.Interval{{Start: day(9, 0), End: day(12, 0)}},
	}

	v := Build(s)

	if len(v.Headings) != 3 {
		t.Fatalf("got %d headings, want 3", len(v.Headings))
	}
	if len(v.Rooms) != 1 {
		t.Fatalf("got %d room rows, want 1", len(v.Rooms))
	}
	row := v.Rooms[0]
	if row.Company != "Initech" || row.Room != "Room A" {
		t.Fatalf("unexpected row identity: %q %q", row.Company, row.Room)
	}

	// the 10:00-10:30 slot buckets under the 10:00 column
	if len(row.Columns[0]) != 0 || len(row.Columns[2]) != 0 {
		t.Errorf("appointment leaked into wrong column: %v", row.Columns)
	}
	if len(row.Columns[1]) != 1 {
		t.Fatalf("got %d cells in column 1, want 1", len(row.Columns[1]))
	}
	cell := row.Columns[1][0]
	if cell.TimeLabel != "10:00 AM" {
		t.Errorf("time label: got %q", cell.TimeLabel)
	}
	if cell.LengthMins != 30 {
		t.Errorf("length: got %v, want 30", cell.LengthMins)
	}
	if cell.Left != 0 || cell.Width != 50 {
		t.Errorf("geometry: got (%v, %v), want (0, 50)", cell.Left, cell.Width)
	}
	if cell.Pref == nil || *cell.Pref != 1 {
		t.Errorf("pref: got %v, want 1", cell.Pref)
	}
	if !cell.Draggable {
		t.Error("occupied interview cell should be draggable")
	}

	// attendee 7 holds a slot, so only 8 stays a candidate chip
	if len(row.CandidatesNotSelected) != 1 {
		t.Fatalf("got %d chips, want 1: %v", len(row.CandidatesNotSelected), row.CandidatesNotSelected)
	}
	if chip := row.CandidatesNotSelected[0]; chip.Att != 8 || chip.Name != "Grace" || chip.Pref != 2 {
		t.Errorf("unexpected chip: %+v", chip)
	}
}

func TestBuildCoffeeChatDedup(t *testing.T) {
	cc := &model.CoffeeChat{Start: day(10, 0), End: day(11, 0), Candidates: []int{1, 2, 3}, Capacity: 3}
	s := &model.Schedule{
		Attendees: map[int]model.Attendee{
			1: {Name: "A"}, 2: {Name: "B"}, 3: {Name: "C"},
		},
		Companies: map[string]map[string]model.Room{
			"Initech": {
				"Lounge": {
					Apps: []model.Appointment{
						ccApp(day(10, 0), day(11, 0), ip(1), "Lounge"),
						ccApp(day(10, 0), day(11, 0), ip(2), "Lounge"),
						ccApp(day(10, 0), day(11, 0), ip(3), "Lounge"),
					},
					CoffeeChat: cc,
				},
			},
		},
		ConventionTimes: []model.Interval{{Start: day(9, 0), End: day(12, 0)}},
	}

	v := Build(s)

	// the room grid shows a single session marker
	var cells int
	for _, col := range v.Rooms[0].Columns {
		cells += len(col)
	}
	if cells != 1 {
		t.Fatalf("room grid has %d coffee-chat cells, want 1", cells)
	}

	// the coffee-chat grid shows every occupant
	if len(v.CoffeeChats) != 1 {
		t.Fatalf("got %d coffee-chat rows, want 1", len(v.CoffeeChats))
	}
	ccRow := v.CoffeeChats[0]
	if len(ccRow.Cells) != 3 {
		t.Fatalf("got %d occupant cells, want 3", len(ccRow.Cells))
	}
	if ccRow.Session.Capacity != 3 {
		t.Errorf("session not carried: %+v", ccRow.Session)
	}
	for _, c := range ccRow.Cells {
		if c.Draggable {
			t.Error("coffee-chat cells are not draggable")
		}
	}
}

func TestBuildAttendeeRows(t *testing.T) {
	cc := &model.CoffeeChat{Start: day(11, 0), End: day(12, 0), Candidates: []int{7}, Capacity: 2}
	s := &model.Schedule{
		Attendees: map[int]model.Attendee{
			7: {
				Name:        "Ada",
				Prefs:       map[string]int{"Initech": 1, "Globex": 3},
				Commitments: []model.Interval{{Start: day(9, 30), End: day(10, 0)}},
			},
			9: {Name: "Linus"}, // no candidacy anywhere: omitted
		},
		Companies: map[string]map[string]model.Room{
			"Globex": {
				"Room G": {Candidates: []int{7}},
			},
			"Initech": {
				"Room A": {
					Apps: []model.Appointment{
						app(day(10, 0), day(10, 30), ip(7), "Room A"),
					},
					Candidates: []int{7},
				},
				"Lounge": {CoffeeChat: cc},
			},
		},
		ConventionTimes: []model.Interval{{Start: day(9, 0), End: day(12, 0)}},
	}

	v := Build(s)

	if len(v.Attendees) != 1 {
		t.Fatalf("got %d attendee rows, want 1", len(v.Attendees))
	}
	row := v.Attendees[0]
	if row.Att != 7 {
		t.Fatalf("got attendee %d, want 7", row.Att)
	}
	if len(row.Columns[1]) != 1 {
		t.Fatalf("appointment missing from column 1: %v", row.Columns)
	}
	if len(row.Breaks[0]) != 1 {
		t.Fatalf("break missing from column 0: %v", row.Breaks)
	}
	br := row.Breaks[0][0]
	if br.TimeLabel != "9:30 AM" || br.LengthMins != 30 {
		t.Errorf("unexpected break cell: %+v", br)
	}

	// Room A is claimed; Room G (interview) and Lounge (coffee chat)
	// remain available, interviews listed first
	if len(row.RoomsAvailable) != 2 {
		t.Fatalf("got %d room chips, want 2: %v", len(row.RoomsAvailable), row.RoomsAvailable)
	}
	if c := row.RoomsAvailable[0]; c.Room != "Room G" || c.IsCoffeeChat || c.Company != "Globex" || c.Pref != 3 {
		t.Errorf("unexpected interview chip: %+v", c)
	}
	if c := row.RoomsAvailable[1]; c.Room != "Lounge" || !c.IsCoffeeChat || c.Company != "Initech" {
		t.Errorf("unexpected coffee-chat chip: %+v", c)
	}
}

func TestBuildDeterministicOrder(t *testing.T) {
	s := &model.Schedule{
		Attendees: map[int]model.Attendee{1: {Name: "A"}, 2: {Name: "B"}},
		Companies: map[string]map[string]model.Room{
			"Globex":  {"Room Z": {Candidates: []int{2}}, "Room B": {Candidates: []int{1}}},
			"Initech": {"Room A": {Candidates: []int{1, 2}}},
		},
		ConventionTimes: []model.Interval{{Start: day(9, 0), End: day(10, 0)}},
	}

	v := Build(s)
	var got []string
	for _, r := range v.Rooms {
		got = append(got, r.Company+"/"+r.Room)
	}
	want := []string{"Globex/Room B", "Globex/Room Z", "Initech/Room A"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("room order: got %v, want %v", got, want)
		}
	}
	if v.Attendees[0].Att != 1 || v.Attendees[1].Att != 2 {
		t.Fatalf("attendee order: got %d, %d", v.Attendees[0].Att, v.Attendees[1].Att)
	}
}
