package timetable

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"bakamcp/internal/bakalari"
	"bakamcp/internal/logging"
)

// CancelledMarker replaces the subject display of a cancelled lesson.
const CancelledMarker = "ZRUŠENO"

// cancelledAbbrev is the matching abbreviation display.
const cancelledAbbrev = "❌"

// changeTypeCancelled is the server's change type for cancellations.
// The upstream API spells it with one l.
const changeTypeCancelled = "Canceled"

// DateFormat is the caller-facing date format.
const DateFormat = "2006-01-02"

// Source is the slice of the API client the reconciler consumes.
type Source interface {
	ActualTimetable(ctx context.Context, date string) (*bakalari.Timetable, error)
	PermanentTimetable(ctx context.Context) (*bakalari.Timetable, error)
}

// ChangeSummary is attached to a lesson whenever the server reports
// any deviation, cancelled or not.
type ChangeSummary struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// LessonView is one display-ready lesson of the actual schedule.
// Entity fields are resolved through lookups; an id with no matching
// entity resolves to an empty string, never a missing field.
type LessonView struct {
	Hour            string         `json:"hour"`
	Time            string         `json:"time"`
	Subject         string         `json:"subject"`
	SubjectAbbrev   string         `json:"subject_abbrev"`
	Teacher         string         `json:"teacher"`
	TeacherAbbrev   string         `json:"teacher_abbrev"`
	Room            string         `json:"room"`
	Theme           string         `json:"theme"`
	Cancelled       bool           `json:"cancelled,omitempty"`
	OriginalSubject string         `json:"original_subject,omitempty"`
	OriginalTeacher string         `json:"original_teacher,omitempty"`
	Change          *ChangeSummary `json:"change,omitempty"`
}

// DayView is the ordered schedule of one calendar day.
type DayView struct {
	Date      string       `json:"date"`
	DayOfWeek int          `json:"day_of_week"`
	Lessons   []LessonView `json:"lessons"`
	Count     int          `json:"lesson_count"`
}

// PermanentLesson is one lesson of the baseline weekly timetable. No
// change overlay applies there; group carries the abbreviation of the
// first restricting group, if any.
type PermanentLesson struct {
	Hour          string `json:"hour"`
	Time          string `json:"time"`
	Subject       string `json:"subject"`
	SubjectAbbrev string `json:"subject_abbrev"`
	Teacher       string `json:"teacher"`
	TeacherAbbrev string `json:"teacher_abbrev"`
	Room          string `json:"room"`
	Group         string `json:"group"`
}

// PermanentDay groups the permanent lessons of one weekday.
type PermanentDay struct {
	DayOfWeek int               `json:"day_of_week"`
	Day       int               `json:"day"`
	Lessons   []PermanentLesson `json:"lessons"`
}

// PermanentView is the full-week permanent schedule.
type PermanentView struct {
	Days []PermanentDay `json:"days"`
}

// DaySchedule fetches and reconciles the actual schedule for one day.
// An empty date means today. A malformed date fails with
// *bakalari.ValidationError before any network call.
func DaySchedule(ctx context.Context, src Source, date string) (*DayView, error) {
	if date == "" {
		date = time.Now().Format(DateFormat)
	}
	parsed, err := time.Parse(DateFormat, date)
	if err != nil {
		return nil, &bakalari.ValidationError{
			Message: "invalid date format, use YYYY-MM-DD",
			Example: "2024-03-15",
		}
	}

	tt, err := src.ActualTimetable(ctx, date)
	if err != nil {
		return nil, err
	}
	lookup := bakalari.BuildLookup(tt)

	view := &DayView{
		Date:      date,
		DayOfWeek: int(parsed.Weekday()),
		Lessons:   []LessonView{},
	}
	// The API numbers Monday as 1.
	if view.DayOfWeek == 0 {
		view.DayOfWeek = 7
	}

	for _, day := range tt.Days {
		if !strings.Contains(day.Date, date) {
			continue
		}
		for _, atom := range day.Atoms {
			view.Lessons = append(view.Lessons, buildLesson(atom, lookup))
		}
		break
	}

	sortByHourCaption(view.Lessons)
	view.Count = len(view.Lessons)
	logging.Tools("schedule %s: %d lessons", date, view.Count)
	return view, nil
}

// buildLesson resolves one atom against the lookups and applies the
// change overlay.
func buildLesson(atom bakalari.Atom, lookup *bakalari.Lookup) LessonView {
	hour := lookup.Hours[atom.HourID]
	subject := lookup.Subjects[atom.SubjectID]
	teacher := lookup.Teachers[atom.TeacherID]
	room := lookup.Rooms[atom.RoomID]

	lesson := LessonView{
		Hour:          hourCaption(hour, atom.HourID),
		Time:          timeRange(hour),
		Subject:       subject.Name,
		SubjectAbbrev: subject.Abbrev,
		Teacher:       teacherDisplay(teacher),
		TeacherAbbrev: teacher.Abbrev,
		Room:          room.Abbrev,
		Theme:         atom.Theme,
	}

	if atom.Change != nil && atom.Change.ChangeType == changeTypeCancelled {
		lesson.Cancelled = true
		lesson.Subject = CancelledMarker
		lesson.SubjectAbbrev = cancelledAbbrev
		parsed := ParseChangeDescription(atom.Change.Description)
		lesson.OriginalSubject = parsed.Subject
		lesson.OriginalTeacher = parsed.Teacher
	}

	// Best-effort fallback: infer the subject from the theme, only for
	// lessons the server left without one.
	if !lesson.Cancelled && lesson.Subject == "" && lesson.Theme != "" {
		if inferred := InferSubject(lesson.Theme); inferred != "" {
			lesson.Subject = inferred
			lesson.SubjectAbbrev = SubjectAbbrev(inferred)
		}
	}

	if atom.Change != nil {
		lesson.Change = &ChangeSummary{
			Type:        atom.Change.ChangeType,
			Description: atom.Change.Description,
		}
	}
	return lesson
}

// PermanentSchedule fetches and resolves the baseline weekly
// timetable: every day the server reports, no change overlay.
func PermanentSchedule(ctx context.Context, src Source) (*PermanentView, error) {
	tt, err := src.PermanentTimetable(ctx)
	if err != nil {
		return nil, err
	}
	lookup := bakalari.BuildLookup(tt)

	view := &PermanentView{Days: []PermanentDay{}}
	for _, day := range tt.Days {
		pd := PermanentDay{
			DayOfWeek: day.DayOfWeek,
			Day:       day.Day,
			Lessons:   []PermanentLesson{},
		}

		atoms := make([]bakalari.Atom, len(day.Atoms))
		copy(atoms, day.Atoms)
		sort.SliceStable(atoms, func(i, j int) bool {
			return atoms[i].HourID < atoms[j].HourID
		})

		for _, atom := range atoms {
			hour := lookup.Hours[atom.HourID]
			subject := lookup.Subjects[atom.SubjectID]
			teacher := lookup.Teachers[atom.TeacherID]
			room := lookup.Rooms[atom.RoomID]

			group := ""
			if len(atom.GroupIDs) > 0 {
				group = lookup.Groups[atom.GroupIDs[0]].Abbrev
			}

			pd.Lessons = append(pd.Lessons, PermanentLesson{
				Hour:          hourCaption(hour, atom.HourID),
				Time:          timeRange(hour),
				Subject:       subject.Name,
				SubjectAbbrev: subject.Abbrev,
				Teacher:       teacherDisplay(teacher),
				TeacherAbbrev: teacher.Abbrev,
				Room:          room.Abbrev,
				Group:         group,
			})
		}
		view.Days = append(view.Days, pd)
	}
	return view, nil
}

// hourCaption prefers the hour's caption and falls back to the raw id,
// so a dangling hour reference still renders something orderable.
func hourCaption(hour bakalari.Hour, hourID int) string {
	if hour.Caption != "" {
		return hour.Caption
	}
	return strconv.Itoa(hourID)
}

// timeRange renders "HH:MM - HH:MM", or "" when the hour is unknown.
func timeRange(hour bakalari.Hour) string {
	if hour.BeginTime == "" {
		return ""
	}
	return fmt.Sprintf("%s - %s", hour.BeginTime, hour.EndTime)
}

// teacherDisplay prefers the full name over the abbreviation.
func teacherDisplay(teacher bakalari.Teacher) string {
	if teacher.Name != "" {
		return teacher.Name
	}
	return teacher.Abbrev
}

// sortByHourCaption orders lessons ascending by numeric hour caption.
// Lessons whose caption is not a pure number sort after all numeric
// ones, keeping their original relative order.
func sortByHourCaption(lessons []LessonView) {
	sort.SliceStable(lessons, func(i, j int) bool {
		ni, iNum := atoiOK(lessons[i].Hour)
		nj, jNum := atoiOK(lessons[j].Hour)
		if iNum != jNum {
			// Numeric captions come before non-numeric ones.
			return iNum
		}
		if !iNum {
			return false
		}
		return ni < nj
	})
}

func atoiOK(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
