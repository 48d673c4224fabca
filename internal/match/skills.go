package match

import "strings"

// Canonical returns the canonical skill form used for equality comparison:
// trimmed and lower-cased. Display casing of the job's lists is preserved in
// outputs; only comparison goes through this form.
func Canonical(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

// SkillOverlap is the set comparison between a job's skill lists and one
// candidate's skills. MatchedRequired and MissingRequired are disjoint and
// together cover the job's required list exactly.
type SkillOverlap struct {
	MatchedRequired []string
	MatchedNice     []string
	MissingRequired []string
	RequiredTotal   int
	NiceTotal       int
}

// MatchSkills compares by canonical equality only; no fuzzy matching.
// A skill listed both as required and nice-to-have counts as required.
// Job declaration order is kept so outputs are reproducible; duplicate
// canonical entries on the job side collapse to their first occurrence.
func MatchSkills(required, niceToHave, candidate []string) SkillOverlap {
	have := make(map[string]struct{}, len(candidate))
	for _, s := range candidate {
		have[Canonical(s)] = struct{}{}
	}

	seen := make(map[string]struct{}, len(required)+len(niceToHave))
	ov := SkillOverlap{
		MatchedRequired: []string{},
		MatchedNice:     []string{},
		MissingRequired: []string{},
	}

	for _, s := range required {
		c := Canonical(s)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		ov.RequiredTotal++
		if _, ok := have[c]; ok {
			ov.MatchedRequired = append(ov.MatchedRequired, s)
		} else {
			ov.MissingRequired = append(ov.MissingRequired, s)
		}
	}

	for _, s := range niceToHave {
		c := Canonical(s)
		if c == "" {
			continue
		}
		// required takes precedence; also collapses duplicates within the nice list
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		ov.NiceTotal++
		if _, ok := have[c]; ok {
			ov.MatchedNice = append(ov.MatchedNice, s)
		}
	}

	return ov
}
