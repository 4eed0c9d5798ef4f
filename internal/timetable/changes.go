// Package timetable turns raw Bakalari timetable responses into
// normalized per-day lesson views: entity resolution through lookups,
// change overlay with free-text description parsing, and a keyword
// fallback for lessons the server reports without a subject.
package timetable

import (
	"regexp"
	"strings"
)

// ChangeInfo holds whatever could be recovered from a free-text change
// description. A missing field means "unknown", never an error.
type ChangeInfo struct {
	Subject string
	Teacher string
	Room    string
}

// The server emits Czech free-text descriptions in three known shapes:
//
//	"Spojeno: IT, Breginová Ivana, MMU (Aj, Lipinová Ivana, M2)"
//	"Suplování: Hennhofer Dennis (Tru)"
//	"Zrušeno (PCV, Czernek Pavel)"
var (
	mergedRe       = regexp.MustCompile(`Spojeno:\s*([^,]+),\s*([^,]+),\s*([^(]+)`)
	substitutionRe = regexp.MustCompile(`Suplování:\s*([^(]+)\s*\(([^)]+)\)`)
	cancelledRe    = regexp.MustCompile(`Zrušeno\s*\(([^,]+),\s*([^)]+)\)`)
)

// ParseChangeDescription extracts subject/teacher/room from a change
// description. Patterns are tried in priority order, first match wins;
// an unrecognized format yields the zero value.
func ParseChangeDescription(description string) ChangeInfo {
	if description == "" {
		return ChangeInfo{}
	}

	if m := mergedRe.FindStringSubmatch(description); m != nil {
		return ChangeInfo{
			Subject: strings.TrimSpace(m[1]),
			Teacher: strings.TrimSpace(m[2]),
			Room:    strings.TrimSpace(m[3]),
		}
	}

	if m := substitutionRe.FindStringSubmatch(description); m != nil {
		// The parenthesized group names the original teacher; only the
		// substitute is propagated.
		return ChangeInfo{Teacher: strings.TrimSpace(m[1])}
	}

	if m := cancelledRe.FindStringSubmatch(description); m != nil {
		return ChangeInfo{
			Subject: strings.TrimSpace(m[1]),
			Teacher: strings.TrimSpace(m[2]),
		}
	}

	return ChangeInfo{}
}
