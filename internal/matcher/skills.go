package matcher

import (
	"regexp"
	"strings"
)

// SkillSet is a list of required skills compiled once for matching against
// many documents.
type SkillSet struct {
	skills []skill
}

type skill struct {
	name    string
	pattern *regexp.Regexp
}

// CompileSkills trims, deduplicates (ignoring case) and compiles skills.
// Blank entries are dropped. The first spelling of a skill is kept.
func CompileSkills(skills []string) SkillSet {
	seen := make(map[string]bool, len(skills))
	set := SkillSet{skills: make([]skill, 0, len(skills))}
	for _, s := range skills {
		name := strings.TrimSpace(s)
		lower := strings.ToLower(name)
		if lower == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		set.skills = append(set.skills, skill{name: name, pattern: skillPattern(lower)})
	}
	return set
}

// Len is the number of distinct skills in the set.
func (s SkillSet) Len() int { return len(s.skills) }

// Match returns the skills that occur in text as whole words, ignoring case,
// in the order they were compiled.
func (s SkillSet) Match(text string) []string {
	if len(s.skills) == 0 {
		return nil
	}
	lower := strings.ToLower(text)
	var matched []string
	for _, sk := range s.skills {
		if sk.pattern.MatchString(lower) {
			matched = append(matched, sk.name)
		}
	}
	return matched
}

// MatchSkills returns the skills that occur in text as whole words, ignoring
// case, in the order given. Blank and repeated skills are skipped.
func MatchSkills(skills []string, text string) []string {
	return CompileSkills(skills).Match(text)
}

// skillPattern only anchors on sides that start or end with a word
// character, so skills like "c++" and ".net" still match.
func skillPattern(skill string) *regexp.Regexp {
	pattern := regexp.QuoteMeta(skill)
	if isWordByte(skill[0]) {
		pattern = `\b` + pattern
	}
	if isWordByte(skill[len(skill)-1]) {
		pattern += `\b`
	}
	return regexp.MustCompile(pattern)
}

func isWordByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}
