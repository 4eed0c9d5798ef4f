package reports

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"bakamcp/internal/bakalari"
)

// MarkSource is the slice of the API client the grades pass consumes.
type MarkSource interface {
	Marks(ctx context.Context) (*bakalari.MarkReport, error)
}

// GradeView is one display-ready grade. Percent is only set for
// point-based marks with a parseable score and a positive maximum; a
// zero maximum or a non-numeric score leaves it nil rather than
// failing.
type GradeView struct {
	Date      string   `json:"date"`
	Caption   string   `json:"caption"`
	Theme     string   `json:"theme,omitempty"`
	Mark      string   `json:"mark"`
	IsPoints  bool     `json:"is_points"`
	MaxPoints int      `json:"max_points,omitempty"`
	Percent   *float64 `json:"percent"`
	Weight    int      `json:"weight"`
}

// GradeSubjectView groups the grades of one subject.
type GradeSubjectView struct {
	Subject string      `json:"subject"`
	Abbrev  string      `json:"abbrev"`
	Average string      `json:"average,omitempty"`
	Marks   []GradeView `json:"marks"`
}

// GradesView is the grades tool payload.
type GradesView struct {
	Subjects     []GradeSubjectView `json:"subjects"`
	SubjectCount int                `json:"subject_count"`
	TotalMarks   int                `json:"total_marks"`
}

// Grades fetches and reshapes the grade report. Subjects are sorted
// alphabetically, marks date-descending within each subject.
func Grades(ctx context.Context, src MarkSource) (*GradesView, error) {
	report, err := src.Marks(ctx)
	if err != nil {
		return nil, err
	}

	view := &GradesView{Subjects: []GradeSubjectView{}}
	for _, subj := range report.Subjects {
		sv := GradeSubjectView{
			Subject: subj.Subject.Name,
			Abbrev:  subj.Subject.Abbrev,
			Average: subj.AverageText,
			Marks:   []GradeView{},
		}
		for _, m := range subj.Marks {
			gv := GradeView{
				Date:      m.MarkDate,
				Caption:   m.Caption,
				Theme:     m.Theme,
				Mark:      m.MarkText,
				IsPoints:  m.IsPoints,
				MaxPoints: m.MaxPoints,
				Percent:   pointsPercent(m),
				Weight:    m.Weight,
			}
			sv.Marks = append(sv.Marks, gv)
			view.TotalMarks++
		}
		sort.SliceStable(sv.Marks, func(i, j int) bool {
			return sv.Marks[i].Date > sv.Marks[j].Date
		})
		view.Subjects = append(view.Subjects, sv)
	}

	sort.SliceStable(view.Subjects, func(i, j int) bool {
		return view.Subjects[i].Subject < view.Subjects[j].Subject
	})
	view.SubjectCount = len(view.Subjects)
	return view, nil
}

// pointsPercent derives score/max*100 for point-based marks, rounded
// to two decimals. Returns nil when the mark is not point-based, the
// maximum is zero, or the score does not parse as a number.
func pointsPercent(m bakalari.Mark) *float64 {
	if !m.IsPoints || m.MaxPoints <= 0 {
		return nil
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(m.MarkText), 64)
	if err != nil {
		return nil
	}
	pct := round2(score / float64(m.MaxPoints) * 100)
	return &pct
}
