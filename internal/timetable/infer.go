package timetable

import "strings"

// inferRule maps a keyword set to a subject name. Rules are evaluated
// in order, first match wins; overlapping keyword sets resolve by
// position in the table. requireAll must additionally be present, and
// exactPhrase gates the rule on a full phrase.
type inferRule struct {
	keywords    []string
	requireAll  string
	exactPhrase string
	subject     string
}

// inferRules is a closed, ordered table. Evaluation order is an
// observable contract: do not reorder.
var inferRules = []inferRule{
	{keywords: []string{"nerovnic", "interval", "rovnic", "funkc", "integrál", "derivac", "logaritm", "goniometri"}, subject: "Matematika"},
	{keywords: []string{"souvětí", "skladba", "gramatik", "pravopis", "literatur", "sloh", "čtení", "interpretac", "rozbor", "básn"}, subject: "Český jazyk a literatura"},
	{keywords: []string{"hydraulick", "hydrostatick", "tlak", "síla", "energie", "pohyb", "mechanik", "elektřin", "magnet"}, subject: "Fyzika"},
	{keywords: []string{"hospodářství", "století", "manufaktur", "monarchie", "absolutis", "stavovsk", "historie"}, subject: "Dějepis"},
	{keywords: []string{"afrika", "continent", "západní", "centrální", "geografie", "klima"}, subject: "Zeměpis"},
	{keywords: []string{"časování", "slovesa", "gramatik"}, requireAll: "sloves", subject: "Cizí jazyk"},
	{keywords: []string{"život", "oblacích", "organismus", "buňka", "ekologie"}, subject: "Biologie"},
	{keywords: []string{"maketa", "pokoje", "nábytek", "dekorace", "výtvarné"}, subject: "Výtvarná výchova"},
	{keywords: []string{"flétnu", "orffovy", "nástroje", "píseň", "hudba"}, subject: "Hudební výchova"},
	{keywords: []string{"brendan", "kellsu", "tajemství", "kniha", "film"}, subject: "Český jazyk a literatura"},
	{keywords: []string{"vybíjená", "sport", "tělocvik"}, subject: "Tělesná výchova"},
	{keywords: []string{"test", "zkouška", "opakování"}, exactPhrase: "prázdniny francouzů", subject: "Český jazyk a literatura"},
	{keywords: []string{"prezentace"}, exactPhrase: "záchranné stanice", subject: "Biologie"},
}

// InferSubject guesses the subject of a lesson from its theme text.
// Best effort only: returns "" for an empty theme or when no rule
// matches. Callers must never let the result override a
// server-supplied subject.
func InferSubject(theme string) string {
	if theme == "" {
		return ""
	}
	lower := strings.ToLower(theme)

	for _, rule := range inferRules {
		matched := false
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if rule.requireAll != "" && !strings.Contains(lower, rule.requireAll) {
			continue
		}
		if rule.exactPhrase != "" && !strings.Contains(lower, rule.exactPhrase) {
			continue
		}
		return rule.subject
	}
	return ""
}

// subjectAbbrevs maps full subject names to their display
// abbreviations.
var subjectAbbrevs = map[string]string{
	"Matematika":               "M",
	"Český jazyk a literatura": "Cj",
	"Fyzika":                   "F",
	"Dějepis":                  "D",
	"Zeměpis":                  "Z",
	"Cizí jazyk":               "Aj",
	"Biologie":                 "Bi",
	"Výtvarná výchova":         "Vv",
	"Hudební výchova":          "Hv",
	"Tělesná výchova":          "Tv",
}

// SubjectAbbrev returns the display abbreviation for a subject name,
// falling back to its first two characters.
func SubjectAbbrev(subject string) string {
	if subject == "" {
		return ""
	}
	if abbrev, ok := subjectAbbrevs[subject]; ok {
		return abbrev
	}
	runes := []rune(subject)
	if len(runes) < 2 {
		return string(runes)
	}
	return string(runes[:2])
}
