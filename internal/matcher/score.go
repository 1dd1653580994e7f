// Package matcher scores how much of a job description's vocabulary a
// resume covers.
package matcher

const maxMissing = 20

// Result is one scoring of a candidate text against a target text.
type Result struct {
	Score    int      `json:"score"`
	Matched  []string `json:"matched_keywords"`
	Missing  []string `json:"missing_keywords"`
	Keywords int      `json:"target_keywords"`
}

// Score returns the percentage (0-100) of the target's keywords that also
// appear in the candidate. It is not symmetric: the target's keyword count is
// always the denominator. A target without keywords scores 0.
func Score(candidate, target string) int {
	return Analyze(candidate, target).Score
}

// Analyze is Score plus the sorted matched and missing target keywords.
// Missing keywords are capped at 20.
func Analyze(candidate, target string) Result {
	t := Keywords(target)
	if len(t) == 0 {
		return Result{}
	}
	c := Keywords(candidate)

	res := Result{Keywords: len(t)}
	for _, kw := range t.Sorted() {
		if c.Has(kw) {
			res.Matched = append(res.Matched, kw)
		} else if len(res.Missing) < maxMissing {
			res.Missing = append(res.Missing, kw)
		}
	}
	res.Score = percent(len(res.Matched), len(t))
	return res
}

// percent is round(100*part/whole) with halves rounded up.
func percent(part, whole int) int {
	return (200*part + whole) / (2 * whole)
}
