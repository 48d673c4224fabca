// Package match implements the candidate-job matching and ranking engine:
// text normalization, term-frequency vectors, cosine similarity, skill-set
// overlap, the combined score and deterministic pool ranking.
package match

import "strings"

// stopWords are function words dropped during normalization (English and
// Vietnamese, matching the corpora the platform serves).
var stopWords = map[string]struct{}{
	"and": {}, "or": {}, "the": {}, "is": {}, "a": {}, "an": {}, "of": {},
	"to": {}, "in": {}, "for": {}, "on": {}, "at": {}, "with": {},
	"và": {}, "hoặc": {}, "là": {}, "của": {}, "cho": {}, "trong": {},
	"với": {}, "các": {}, "những": {}, "một": {}, "được": {}, "từ": {},
}

// vietnameseLetters are the lower-case diacritic letters recognized as token
// characters in addition to ASCII alphanumerics and hyphen.
const vietnameseLetters = "àáạãảâầấậẫẩăằắặẵẳèéẹẽẻêềếệễểìíịĩỉòóọõỏôồốộỗổơờớợỡởùúụũủưừứựữửỳýỵỹỷđ"

var tokenRunes = func() map[rune]struct{} {
	m := make(map[rune]struct{}, len(vietnameseLetters))
	for _, r := range vietnameseLetters {
		m[r] = struct{}{}
	}
	return m
}()

func isTokenRune(r rune) bool {
	if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
		return true
	}
	_, ok := tokenRunes[r]
	return ok
}

// Tokenize lowers the input, treats every rune outside the token alphabet as a
// separator, splits on separator runs and drops stop words and empty tokens.
// No stemming; same input always yields the same sequence.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	fields := strings.FieldsFunc(lowered, func(r rune) bool { return !isTokenRune(r) })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}
