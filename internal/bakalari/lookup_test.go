package bakalari

import "testing"

func TestBuildLookup(t *testing.T) {
	tt := &Timetable{
		Hours:    []Hour{{ID: 1, Caption: "1", BeginTime: "8:00", EndTime: "8:45"}},
		Subjects: []Subject{{ID: "SUB1", Abbrev: "M", Name: "Matematika"}},
		Teachers: []Teacher{{ID: "TEA1", Abbrev: "Nov", Name: "Nováková Jana"}},
		Rooms:    []Room{{ID: "ROO1", Abbrev: "U5"}},
	}

	l := BuildLookup(tt)

	if l.Hours[1].Caption != "1" {
		t.Errorf("hour 1 = %+v", l.Hours[1])
	}
	if l.Subjects["SUB1"].Name != "Matematika" {
		t.Errorf("subject SUB1 = %+v", l.Subjects["SUB1"])
	}
	if l.Teachers["TEA1"].Name != "Nováková Jana" {
		t.Errorf("teacher TEA1 = %+v", l.Teachers["TEA1"])
	}
	if l.Rooms["ROO1"].Abbrev != "U5" {
		t.Errorf("room ROO1 = %+v", l.Rooms["ROO1"])
	}
}

func TestBuildLookup_MissingCollections(t *testing.T) {
	l := BuildLookup(&Timetable{})

	if len(l.Hours) != 0 || len(l.Subjects) != 0 || len(l.Teachers) != 0 || len(l.Rooms) != 0 || len(l.Groups) != 0 {
		t.Errorf("expected empty maps, got %+v", l)
	}
	// Dangling ids resolve to zero values, not panics.
	if got := l.Subjects["nope"].Name; got != "" {
		t.Errorf("dangling subject name = %q, want empty", got)
	}
}
