package board

import (
	"sort"
	"time"

	"github.com/interviewday/board/core/model"
)

// Cell is one rendered appointment (or coffee-chat session marker)
// inside an hour column. Left and Width position it within the column as
// percentages of the hour.
type Cell struct {
	App        model.Appointment `json:"app"`
	Company    string            `json:"company"`
	Room       string            `json:"room"`
	TimeLabel  string            `json:"timeLabel"`
	LengthMins float64           `json:"lengthMins"`
	Left       float64           `json:"left"`
	Width      float64           `json:"width"`
	Pref       *int              `json:"pref,omitempty"`
	Draggable  bool              `json:"draggable"`
}

// BreakCell is one rendered attendee commitment.
type BreakCell struct {
	Interval   model.Interval `json:"interval"`
	TimeLabel  string         `json:"timeLabel"`
	LengthMins float64        `json:"lengthMins"`
	Left       float64        `json:"left"`
	Width      float64        `json:"width"`
}

// CandidateChip is an attendee eligible for a room but holding no
// ordinary slot there; it renders in the room's Extra column and is a
// valid drag source.
type CandidateChip struct {
	Att  int    `json:"att"`
	Name string `json:"name"`
	Pref int    `json:"pref"`
}

// RoomChip is a room an attendee is still available for; it renders in
// the attendee row's Extra column.
type RoomChip struct {
	Room         string `json:"room"`
	Company      string `json:"company"`
	Pref         int    `json:"pref"`
	IsCoffeeChat bool   `json:"isCoffeeChat"`
}

// RoomRow is one room's grid line. Columns is index-aligned with the
// view's Headings; only the first coffee-chat appointment of the room
// appears in Columns, the full session renders in the coffee-chat grid.
type RoomRow struct {
	Company               string          `json:"company"`
	Room                  string          `json:"room"`
	Columns               [][]Cell        `json:"columns"`
	CandidatesNotSelected []CandidateChip `json:"candidatesNotSelected"`
}

// CoffeeChatRow renders all occupants of one room's coffee-chat session
// side by side.
type CoffeeChatRow struct {
	Company string           `json:"company"`
	Room    string           `json:"room"`
	Session model.CoffeeChat `json:"session"`
	Cells   []Cell           `json:"cells"`
}

// AttendeeRow is one attendee's grid line, with breaks and appointments
// bucketed independently and the rooms still available to them.
type AttendeeRow struct {
	Att            int           `json:"att"`
	Name           string        `json:"name"`
	Columns        [][]Cell      `json:"columns"`
	Breaks         [][]BreakCell `json:"breaks"`
	RoomsAvailable []RoomChip    `json:"roomsAvailable"`
}

// View is the full grid projection of one Schedule. It is rebuilt from
// scratch on every request; every index in it is a cache over the
// schedule, never a source of truth, and must not outlive the schedule
// it was built from.
type View struct {
	Headings      []time.Time     `json:"headings"`
	HeadingLabels []string        `json:"headingLabels"`
	Rooms         []RoomRow       `json:"rooms"`
	CoffeeChats   []CoffeeChatRow `json:"coffeeChats"`
	Attendees     []AttendeeRow   `json:"attendees"`
	Stats         Summary         `json:"stats"`
}

type attApp struct {
	app     model.Appointment
	company string
}

// Build projects the schedule onto the hourly grid: headings, per-room
// rows with candidate reconciliation, the coffee-chat grid, and
// per-attendee rows.
func Build(s *model.Schedule) *View {
	headings := Headings(s.ConventionTimes)
	labels := make([]string, len(headings))
	for i, h := range headings {
		labels[i] = headingLabel(h)
	}

	v := &View{Headings: headings, HeadingLabels: labels, Stats: Summarize(s)}

	// Rebuilt per pass, exactly like the room scan below rebuilds the
	// candidate sets: none of these survive the view.
	attToApps := make(map[int][]attApp)
	attToInterviewRooms := make(map[int]map[string]bool)
	attToCoffeeChatRooms := make(map[int]map[string]bool)
	roomToCompany := make(map[string]string)

	companies := make([]string, 0, len(s.Companies))
	for name := range s.Companies {
		companies = append(companies, name)
	}
	sort.Strings(companies)

	for _, company := range companies {
		rooms := s.Companies[company]
		roomNames := make([]string, 0, len(rooms))
		for name := range rooms {
			roomNames = append(roomNames, name)
		}
		sort.Strings(roomNames)

		for _, roomName := range roomNames {
			room := rooms[roomName]
			roomToCompany[roomName] = company

			candidatesNotSelected := make(map[int]bool, len(room.Candidates))
			for _, id := range room.Candidates {
				candidatesNotSelected[id] = true
				if attToInterviewRooms[id] == nil {
					attToInterviewRooms[id] = make(map[string]bool)
				}
				attToInterviewRooms[id][roomName] = true
			}
			if room.CoffeeChat != nil {
				for _, id := range room.CoffeeChat.Candidates {
					if attToCoffeeChatRooms[id] == nil {
						attToCoffeeChatRooms[id] = make(map[string]bool)
					}
					attToCoffeeChatRooms[id][roomName] = true
				}
			}

			row := RoomRow{
				Company: company,
				Room:    roomName,
				Columns: make([][]Cell, len(headings)),
			}
			var ccRow *CoffeeChatRow

			// Attendees lose their candidate chip the moment an ordinary
			// appointment claims them; coffee-chat occupancy is tracked
			// separately since one attendee can hold both in the same room.
			cursor := newBucketCursor(headings)
			addedCoffeeChat := false
			for _, app := range room.Apps {
				if app.Att != nil {
					if !app.IsCoffeeChat {
						delete(candidatesNotSelected, *app.Att)
					}
					attToApps[*app.Att] = append(attToApps[*app.Att], attApp{app: app, company: company})
				}
				if app.IsCoffeeChat {
					if ccRow == nil {
						ccRow = &CoffeeChatRow{Company: company, Room: roomName}
						if room.CoffeeChat != nil {
							ccRow.Session = *room.CoffeeChat
						}
					}
					ccRow.Cells = append(ccRow.Cells, makeCell(app, company, roomName, s))
					if addedCoffeeChat {
						// one session marker per grid cell
						continue
					}
					addedCoffeeChat = true
				}
				if col, ok := cursor.bucket(app.Start); ok {
					row.Columns[col] = append(row.Columns[col], makeCell(app, company, roomName, s))
				}
			}

			remaining := make([]int, 0, len(candidatesNotSelected))
			for id := range candidatesNotSelected {
				remaining = append(remaining, id)
			}
			sort.Ints(remaining)
			for _, id := range remaining {
				att := s.Attendees[id]
				row.CandidatesNotSelected = append(row.CandidatesNotSelected, CandidateChip{
					Att:  id,
					Name: att.Name,
					Pref: att.Prefs[company],
				})
			}

			v.Rooms = append(v.Rooms, row)
			if ccRow != nil {
				v.CoffeeChats = append(v.CoffeeChats, *ccRow)
			}
		}
	}

	attIDs := make([]int, 0, len(s.Attendees))
	for id := range s.Attendees {
		attIDs = append(attIDs, id)
	}
	sort.Ints(attIDs)

	for _, id := range attIDs {
		if len(attToInterviewRooms[id])+len(attToCoffeeChatRooms[id]) == 0 {
			continue
		}
		att := s.Attendees[id]
		row := AttendeeRow{
			Att:     id,
			Name:    att.Name,
			Columns: make([][]Cell, len(headings)),
			Breaks:  make([][]BreakCell, len(headings)),
		}

		apps := append([]attApp(nil), attToApps[id]...)
		sort.Slice(apps, func(i, j int) bool { return apps[i].app.Start.Before(apps[j].app.Start) })

		interviewNotSelected := cloneSet(attToInterviewRooms[id])
		coffeeChatNotSelected := cloneSet(attToCoffeeChatRooms[id])

		cursor := newBucketCursor(headings)
		for _, a := range apps {
			if a.app.IsCoffeeChat {
				delete(coffeeChatNotSelected, a.app.Room)
			} else {
				delete(interviewNotSelected, a.app.Room)
			}
			if col, ok := cursor.bucket(a.app.Start); ok {
				row.Columns[col] = append(row.Columns[col], makeCell(a.app, a.company, a.app.Room, s))
			}
		}

		// Breaks are an independent sorted list; the cursor starts over.
		cursor = newBucketCursor(headings)
		for _, br := range att.Commitments {
			col, ok := cursor.bucket(br.Start)
			if !ok {
				continue
			}
			left, width := cellGeometry(br)
			row.Breaks[col] = append(row.Breaks[col], BreakCell{
				Interval:   br,
				TimeLabel:  timeLabel(br.Start),
				LengthMins: br.Minutes(),
				Left:       left,
				Width:      width,
			})
		}

		for _, isCoffeeChat := range []bool{false, true} {
			set := interviewNotSelected
			if isCoffeeChat {
				set = coffeeChatNotSelected
			}
			names := make([]string, 0, len(set))
			for name := range set {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, roomName := range names {
				company := roomToCompany[roomName]
				row.RoomsAvailable = append(row.RoomsAvailable, RoomChip{
					Room:         roomName,
					Company:      company,
					Pref:         att.Prefs[company],
					IsCoffeeChat: isCoffeeChat,
				})
			}
		}

		v.Attendees = append(v.Attendees, row)
	}

	return v
}

func makeCell(app model.Appointment, company, roomName string, s *model.Schedule) Cell {
	iv := app.Interval()
	left, width := cellGeometry(iv)
	c := Cell{
		App:        app,
		Company:    company,
		Room:       roomName,
		TimeLabel:  timeLabel(app.Start),
		LengthMins: iv.Minutes(),
		Left:       left,
		Width:      width,
		Draggable:  app.Att != nil && !app.IsCoffeeChat,
	}
	if app.Att != nil && !app.IsCoffeeChat {
		if att, ok := s.Attendees[*app.Att]; ok {
			pref := att.Prefs[company]
			c.Pref = &pref
		}
	}
	return c
}

func cloneSet(set map[string]bool) map[string]bool {
	out := make(map[string]bool, len(set))
	for k := range set {
		out[k] = true
	}
	return out
}
