package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakamcp/internal/bakalari"
)

type fakeMarkSource struct {
	report *bakalari.MarkReport
}

func (f *fakeMarkSource) Marks(ctx context.Context) (*bakalari.MarkReport, error) {
	return f.report, nil
}

func TestGrades_PointPercentage(t *testing.T) {
	src := &fakeMarkSource{report: &bakalari.MarkReport{
		Subjects: []bakalari.MarkSubject{
			{
				Subject: bakalari.Subject{Name: "Matematika", Abbrev: "M"},
				Marks: []bakalari.Mark{
					{MarkDate: "2024-03-01", MarkText: "8", IsPoints: true, MaxPoints: 10},
				},
			},
		},
	}}

	view, err := Grades(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, view.Subjects, 1)
	require.Len(t, view.Subjects[0].Marks, 1)

	mark := view.Subjects[0].Marks[0]
	require.NotNil(t, mark.Percent)
	assert.Equal(t, 80.0, *mark.Percent)
}

func TestGrades_PercentageUnavailable(t *testing.T) {
	src := &fakeMarkSource{report: &bakalari.MarkReport{
		Subjects: []bakalari.MarkSubject{
			{
				Subject: bakalari.Subject{Name: "Fyzika"},
				Marks: []bakalari.Mark{
					// Zero maximum must not divide.
					{MarkDate: "2024-03-01", MarkText: "8", IsPoints: true, MaxPoints: 0},
					// Non-numeric score.
					{MarkDate: "2024-03-02", MarkText: "A", IsPoints: true, MaxPoints: 10},
					// Not point-based at all.
					{MarkDate: "2024-03-03", MarkText: "1", IsPoints: false},
				},
			},
		},
	}}

	view, err := Grades(context.Background(), src)
	require.NoError(t, err)
	for _, mark := range view.Subjects[0].Marks {
		assert.Nil(t, mark.Percent, "mark %s", mark.Date)
	}
}

func TestGrades_Ordering(t *testing.T) {
	src := &fakeMarkSource{report: &bakalari.MarkReport{
		Subjects: []bakalari.MarkSubject{
			{
				Subject: bakalari.Subject{Name: "Zeměpis"},
				Marks: []bakalari.Mark{
					{MarkDate: "2024-01-10", MarkText: "1"},
					{MarkDate: "2024-03-05", MarkText: "2"},
				},
			},
			{
				Subject: bakalari.Subject{Name: "Biologie"},
				Marks:   []bakalari.Mark{{MarkDate: "2024-02-01", MarkText: "3"}},
			},
		},
	}}

	view, err := Grades(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, view.Subjects, 2)

	// Subjects alphabetical, marks date-descending within each.
	assert.Equal(t, "Biologie", view.Subjects[0].Subject)
	assert.Equal(t, "Zeměpis", view.Subjects[1].Subject)
	assert.Equal(t, "2024-03-05", view.Subjects[1].Marks[0].Date)
	assert.Equal(t, "2024-01-10", view.Subjects[1].Marks[1].Date)

	assert.Equal(t, 2, view.SubjectCount)
	assert.Equal(t, 3, view.TotalMarks)
}

func TestGrades_RoundsToTwoDecimals(t *testing.T) {
	src := &fakeMarkSource{report: &bakalari.MarkReport{
		Subjects: []bakalari.MarkSubject{
			{
				Subject: bakalari.Subject{Name: "Matematika"},
				Marks: []bakalari.Mark{
					{MarkDate: "2024-03-01", MarkText: "2", IsPoints: true, MaxPoints: 3},
				},
			},
		},
	}}

	view, err := Grades(context.Background(), src)
	require.NoError(t, err)
	require.NotNil(t, view.Subjects[0].Marks[0].Percent)
	assert.Equal(t, 66.67, *view.Subjects[0].Marks[0].Percent)
}
