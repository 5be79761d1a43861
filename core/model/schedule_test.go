package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func fixtureSchedule() *Schedule {
	start := time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)
	return &Schedule{
		Attendees: map[int]Attendee{
			7: {Name: "Ada", Prefs: map[string]int{"Initech": 1}},
		},
		Companies: map[string]map[string]Room{
			"Initech": {
				"Room A": {
					Apps: []Appointment{
						{Start: start, End: start.Add(30 * time.Minute), Att: intPtr(7), Room: "Room A"},
					},
					Candidates: []int{7},
				},
			},
		},
		ConventionTimes: []Interval{
			{Start: start.Add(-time.Hour), End: start.Add(2 * time.Hour)},
		},
		NoAppointments:    1,
		NoAttendeesChosen: 1,
	}
}

func TestScheduleValidate(t *testing.T) {
	require.NoError(t, fixtureSchedule().Validate())

	s := fixtureSchedule()
	room := s.Companies["Initech"]["Room A"]
	room.Apps[0].Att = intPtr(99)
	s.Companies["Initech"]["Room A"] = room
	assert.Error(t, s.Validate(), "unknown attendee accepted")

	s = fixtureSchedule()
	room = s.Companies["Initech"]["Room A"]
	room.Candidates = append(room.Candidates, 42)
	s.Companies["Initech"]["Room A"] = room
	assert.Error(t, s.Validate(), "unknown candidate accepted")

	s = fixtureSchedule()
	s.ConventionTimes[0].End = s.ConventionTimes[0].Start
	assert.Error(t, s.Validate(), "empty convention window accepted")
}

func TestScheduleJSONRoundTrip(t *testing.T) {
	s := fixtureSchedule()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	var back Schedule
	require.NoError(t, json.Unmarshal(b, &back))
	require.Contains(t, back.Attendees, 7)
	assert.Equal(t, "Ada", back.Attendees[7].Name)
	app := back.Companies["Initech"]["Room A"].Apps[0]
	require.NotNil(t, app.Att)
	assert.Equal(t, 7, *app.Att)
	assert.False(t, app.IsCoffeeChat)
}

func TestSwapRequestInlinesSchedule(t *testing.T) {
	s := fixtureSchedule()
	req := SwapRequest{
		Schedule: *s,
		App2:     &s.Companies["Initech"]["Room A"].Apps[0],
		Att2:     intPtr(7),
	}
	b, err := json.Marshal(req)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &raw))
	// schedule fields and swap fields share one flat object
	for _, key := range []string{"attendees", "companies", "conventionTimes", "app1", "att1", "app2", "att2", "isCoffeeChat"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "null", string(raw["app1"]))
	assert.Equal(t, "null", string(raw["att1"]))
}

func TestAppointmentEqual(t *testing.T) {
	start := time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)
	a := Appointment{Start: start, End: start.Add(30 * time.Minute), Att: intPtr(7), Room: "Room A"}
	b := a
	b.Att = intPtr(7)
	assert.True(t, a.Equal(b))
	b.Att = intPtr(8)
	assert.False(t, a.Equal(b))
	b = a
	b.Room = "Room B"
	assert.False(t, a.Equal(b))
	b = a
	b.Att = nil
	assert.False(t, a.Equal(b))
}
