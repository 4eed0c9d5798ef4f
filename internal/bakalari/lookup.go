package bakalari

// Lookup resolves the terse id references inside atoms into full
// entity records. One map per entity kind, built fresh from a single
// timetable response; the server is the source of truth and may change
// collections between calls, so lookups are never cached.
type Lookup struct {
	Hours    map[int]Hour
	Subjects map[string]Subject
	Teachers map[string]Teacher
	Rooms    map[string]Room
	Groups   map[string]Group
}

// BuildLookup indexes the entity collections of a timetable response
// by id. Missing collections yield empty maps; dangling ids are the
// consumer's concern and resolve to zero values there.
func BuildLookup(tt *Timetable) *Lookup {
	l := &Lookup{
		Hours:    make(map[int]Hour, len(tt.Hours)),
		Subjects: make(map[string]Subject, len(tt.Subjects)),
		Teachers: make(map[string]Teacher, len(tt.Teachers)),
		Rooms:    make(map[string]Room, len(tt.Rooms)),
		Groups:   make(map[string]Group, len(tt.Groups)),
	}
	for _, h := range tt.Hours {
		l.Hours[h.ID] = h
	}
	for _, s := range tt.Subjects {
		l.Subjects[s.ID] = s
	}
	for _, t := range tt.Teachers {
		l.Teachers[t.ID] = t
	}
	for _, r := range tt.Rooms {
		l.Rooms[r.ID] = r
	}
	for _, g := range tt.Groups {
		l.Groups[g.ID] = g
	}
	return l
}
