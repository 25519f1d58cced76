// Package score interprets free-text tennis score strings.
//
// Scores are entered by hand ("8-6", "7-6 6-4", "7-6,6-4", "7-6 / 6-4") and
// are always written Team1-Team2 per set. The interpreter tallies set wins and
// never guesses: anything it cannot decide is reported as ambiguous so the
// caller can ask the user to fix the input.
package score

import (
	"regexp"
	"strconv"
	"strings"
)

// Team identifies a side of a doubles match.
type Team int

const (
	// TeamNone means the score does not determine a winner.
	TeamNone Team = 0
	Team1    Team = 1
	Team2    Team = 2
)

// Set is a single parsed set, in Team1-Team2 order.
type Set struct {
	Games1 int
	Games2 int
}

// Tied reports whether the set has no winner on its own.
func (s Set) Tied() bool { return s.Games1 == s.Games2 }

var (
	dashes   = strings.NewReplacer("–", "-", "—", "-") // en/em dash -> hyphen
	setToken = regexp.MustCompile(`^\d+\s*-\s*\d+$`)
)

// Normalize rewrites a raw score string into space-separated tokens: en/em
// dashes become hyphens, commas and slashes become spaces, and whitespace
// runs collapse.
func Normalize(raw string) string {
	s := dashes.Replace(strings.TrimSpace(raw))
	s = strings.NewReplacer(",", " ", "/", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Sets extracts every token of the form "<int>-<int>" from a raw score
// string. Tokens that do not look like a set are ignored; a tied set (6-6) is
// kept, it just decides nothing.
func Sets(raw string) []Set {
	var sets []Set
	for _, token := range strings.Fields(Normalize(raw)) {
		if !setToken.MatchString(token) {
			continue
		}
		parts := strings.SplitN(token, "-", 2)
		a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		sets = append(sets, Set{Games1: a, Games2: b})
	}
	return sets
}

// InferWinner determines the winning team from a raw score string.
//
// Each decisive set counts one set-win for its team; a tied set counts for
// neither side. The team with strictly more set-wins is the winner. TeamNone
// is returned when no set tokens are present or when the tallies are equal
// (a lone tied set, or splits like "6-4 4-6").
func InferWinner(raw string) Team {
	sets := Sets(raw)
	if len(sets) == 0 {
		return TeamNone
	}

	var wins1, wins2 int
	for _, s := range sets {
		switch {
		case s.Games1 > s.Games2:
			wins1++
		case s.Games2 > s.Games1:
			wins2++
		}
	}

	switch {
	case wins1 > wins2:
		return Team1
	case wins2 > wins1:
		return Team2
	default:
		return TeamNone
	}
}
