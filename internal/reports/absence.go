// Package reports reshapes Bakalari absence and grade responses into
// display-ready summaries. These are plain aggregation passes: no
// change overlay, no inference, deterministic ordering.
package reports

import (
	"context"
	"math"
	"sort"

	"bakamcp/internal/bakalari"
)

// AbsenceSource is the slice of the API client this package consumes.
type AbsenceSource interface {
	Absences(ctx context.Context) (*bakalari.AbsenceReport, error)
}

// AbsenceDayView is one day's summed absence counts.
type AbsenceDayView struct {
	Date     string `json:"date"`
	Unsolved int    `json:"unsolved"`
	Ok       int    `json:"ok"`
	Missed   int    `json:"missed"`
	Late     int    `json:"late"`
	Soon     int    `json:"soon"`
	School   int    `json:"school"`
	Total    int    `json:"total"`
}

// AbsenceSubjectView is the per-subject tally with the derived
// over-threshold flag. Percent is nil when the subject has no
// recorded lessons.
type AbsenceSubjectView struct {
	Subject       string   `json:"subject"`
	Lessons       int      `json:"lessons"`
	Absences      int      `json:"absences"`
	Late          int      `json:"late"`
	Percent       *float64 `json:"percent"`
	OverThreshold bool     `json:"over_threshold"`
}

// AbsenceView is the absence tool payload.
type AbsenceView struct {
	ThresholdPercent float64              `json:"threshold_percent"`
	Days             []AbsenceDayView     `json:"days"`
	Subjects         []AbsenceSubjectView `json:"subjects"`
}

// Absences fetches and aggregates the student absence report. Days
// are sorted date-descending, subjects alphabetically.
func Absences(ctx context.Context, src AbsenceSource) (*AbsenceView, error) {
	report, err := src.Absences(ctx)
	if err != nil {
		return nil, err
	}

	threshold := round2(report.PercentageThreshold * 100)
	view := &AbsenceView{
		ThresholdPercent: threshold,
		Days:             []AbsenceDayView{},
		Subjects:         []AbsenceSubjectView{},
	}

	for _, d := range report.Absences {
		view.Days = append(view.Days, AbsenceDayView{
			Date:     d.Date,
			Unsolved: d.Unsolved,
			Ok:       d.Ok,
			Missed:   d.Missed,
			Late:     d.Late,
			Soon:     d.Soon,
			School:   d.School,
			Total:    d.Unsolved + d.Ok + d.Missed + d.Late + d.Soon + d.School + d.DistanceTeaching,
		})
	}
	sort.SliceStable(view.Days, func(i, j int) bool {
		return view.Days[i].Date > view.Days[j].Date
	})

	for _, s := range report.AbsencesPerSubject {
		sv := AbsenceSubjectView{
			Subject:  s.SubjectName,
			Lessons:  s.LessonsCount,
			Absences: s.Base,
			Late:     s.Late,
		}
		if s.LessonsCount > 0 {
			pct := round2(float64(s.Base) / float64(s.LessonsCount) * 100)
			sv.Percent = &pct
			sv.OverThreshold = pct > threshold
		}
		view.Subjects = append(view.Subjects, sv)
	}
	sort.SliceStable(view.Subjects, func(i, j int) bool {
		return view.Subjects[i].Subject < view.Subjects[j].Subject
	})

	return view, nil
}

// round2 rounds to two decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
