// Package bakalari implements a client for the Bakalari v3 school API:
// login with single-use refresh token rotation, authenticated data
// requests with one retry on token expiry, and the raw wire types the
// timetable, absence and marks endpoints return.
package bakalari

// Hour is one slot of the school day grid.
type Hour struct {
	ID        int    `json:"Id"`
	Caption   string `json:"Caption"`
	BeginTime string `json:"BeginTime"`
	EndTime   string `json:"EndTime"`
}

// Subject, Teacher, Room and Group share the same descriptive shape.
type Subject struct {
	ID     string `json:"Id"`
	Abbrev string `json:"Abbrev"`
	Name   string `json:"Name"`
}

type Teacher struct {
	ID     string `json:"Id"`
	Abbrev string `json:"Abbrev"`
	Name   string `json:"Name"`
}

type Room struct {
	ID     string `json:"Id"`
	Abbrev string `json:"Abbrev"`
	Name   string `json:"Name"`
}

type Group struct {
	ID     string `json:"Id"`
	Abbrev string `json:"Abbrev"`
	Name   string `json:"Name"`
}

// Change is a day-specific deviation attached to an atom. It is absent
// when the lesson follows the permanent schedule.
type Change struct {
	ChangeType  string `json:"ChangeType"`
	Description string `json:"Description"`
	Time        string `json:"Time,omitempty"`
	TypeAbbrev  string `json:"TypeAbbrev,omitempty"`
	TypeName    string `json:"TypeName,omitempty"`
}

// Atom is one scheduled lesson slot within a day. Entity references
// are ids into the response's embedded collections.
type Atom struct {
	HourID    int      `json:"HourId"`
	SubjectID string   `json:"SubjectId"`
	TeacherID string   `json:"TeacherId"`
	RoomID    string   `json:"RoomId"`
	GroupIDs  []string `json:"GroupIds"`
	Theme     string   `json:"Theme"`
	Change    *Change  `json:"Change"`
}

// Day groups the atoms of one calendar day.
type Day struct {
	Date      string `json:"Date"`
	DayOfWeek int    `json:"DayOfWeek"`
	Day       int    `json:"Day"`
	DayType   string `json:"DayType,omitempty"`
	Atoms     []Atom `json:"Atoms"`
}

// Timetable is the shape of both /timetable/actual and
// /timetable/permanent responses: days plus every entity collection
// needed to resolve atom references inline.
type Timetable struct {
	Hours    []Hour    `json:"Hours"`
	Subjects []Subject `json:"Subjects"`
	Teachers []Teacher `json:"Teachers"`
	Rooms    []Room    `json:"Rooms"`
	Groups   []Group   `json:"Groups"`
	Days     []Day     `json:"Days"`
}

// AbsenceDay is one day's absence counts from /absence/student.
type AbsenceDay struct {
	Date             string `json:"Date"`
	Unsolved         int    `json:"Unsolved"`
	Ok               int    `json:"Ok"`
	Missed           int    `json:"Missed"`
	Late             int    `json:"Late"`
	Soon             int    `json:"Soon"`
	School           int    `json:"School"`
	DistanceTeaching int    `json:"DistanceTeaching"`
}

// AbsenceSubject is the per-subject absence tally.
type AbsenceSubject struct {
	SubjectName      string `json:"SubjectName"`
	LessonsCount     int    `json:"LessonsCount"`
	Base             int    `json:"Base"`
	Late             int    `json:"Late"`
	Soon             int    `json:"Soon"`
	School           int    `json:"School"`
	DistanceTeaching int    `json:"DistanceTeaching"`
}

// AbsenceReport is the /api/3/absence/student response.
type AbsenceReport struct {
	PercentageThreshold float64          `json:"PercentageThreshold"`
	Absences            []AbsenceDay     `json:"Absences"`
	AbsencesPerSubject  []AbsenceSubject `json:"AbsencesPerSubject"`
}

// Mark is one grade entry.
type Mark struct {
	MarkDate           string `json:"MarkDate"`
	Caption            string `json:"Caption"`
	Theme              string `json:"Theme"`
	MarkText           string `json:"MarkText"`
	IsPoints           bool   `json:"IsPoints"`
	CalculatedMarkText string `json:"CalculatedMarkText"`
	PointsText         string `json:"PointsText"`
	MaxPoints          int    `json:"MaxPoints"`
	Weight             int    `json:"Weight"`
	TypeNote           string `json:"TypeNote"`
}

// MarkSubject groups the marks of one subject.
type MarkSubject struct {
	Subject     Subject `json:"Subject"`
	Marks       []Mark  `json:"Marks"`
	AverageText string  `json:"AverageText"`
}

// MarkReport is the /api/3/marks response.
type MarkReport struct {
	Subjects []MarkSubject `json:"Subjects"`
}
