package board

import (
	"gonum.org/v1/gonum/stat"

	"github.com/interviewday/board/core/model"
)

// Summary carries the aggregate statistics shown above the grids. The
// engine's figures are reported as-is; the per-attendee mean and
// variance are derived locally from the schedule for comparison against
// the engine's VarNoAppointments.
type Summary struct {
	AverageRank            float64 `json:"averageRank"`
	TotalUtility           float64 `json:"totalUtility"`
	NoAppointments         int     `json:"noAppointments"`
	NoAppointmentsNotEmpty int     `json:"noAppointmentsNotEmpty"`
	NoAttendeesChosen      int     `json:"noAttendeesChosen"`
	VarNoAppointments      float64 `json:"varNoAppointments"`
	MeanAppointmentsPerAtt float64 `json:"meanAppointmentsPerAtt"`
	VarAppointmentsPerAtt  float64 `json:"varAppointmentsPerAtt"`
}

// Summarize computes the board-side statistics for a schedule.
func Summarize(s *model.Schedule) Summary {
	sum := Summary{
		TotalUtility:           s.TotalUtility,
		NoAppointments:         s.NoAppointments,
		NoAppointmentsNotEmpty: s.NoAppointmentsNotEmpty,
		NoAttendeesChosen:      s.NoAttendeesChosen,
		VarNoAppointments:      s.VarNoAppointments,
	}
	if s.NoAttendeesChosen > 0 {
		sum.AverageRank = s.TotalUtility / float64(s.NoAttendeesChosen)
	}

	counts := appointmentCounts(s)
	if len(counts) > 0 {
		sum.MeanAppointmentsPerAtt = stat.Mean(counts, nil)
	}
	if len(counts) > 1 {
		sum.VarAppointmentsPerAtt = stat.Variance(counts, nil)
	}
	return sum
}

// appointmentCounts returns, per known attendee, the number of ordinary
// interview slots held. Every attendee contributes a value, including
// zeros: the spread the variance describes is over the whole roster.
func appointmentCounts(s *model.Schedule) []float64 {
	byAtt := make(map[int]int, len(s.Attendees))
	for id := range s.Attendees {
		byAtt[id] = 0
	}
	for _, rooms := range s.Companies {
		for _, room := range rooms {
			for _, app := range room.Apps {
				if app.Att != nil && !app.IsCoffeeChat {
					byAtt[*app.Att]++
				}
			}
		}
	}
	counts := make([]float64, 0, len(byAtt))
	for _, n := range byAtt {
		counts = append(counts, float64(n))
	}
	return counts
}
