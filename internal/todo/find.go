package todo

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Match is a todo scored against a search query. Lower distance is better.
type Match struct {
	Todo     Todo
	Distance int
}

// Find ranks todos by how closely their text matches query. A todo whose
// text contains the query (case-insensitive) scores 0. Otherwise the score
// is the Levenshtein distance to the closest word window of the same
// length as the query. Ties keep list order. limit <= 0 means no limit.
func Find(todos []Todo, query string, limit int) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	qWords := len(strings.Fields(q))

	matches := make([]Match, 0, len(todos))
	for _, t := range todos {
		matches = append(matches, Match{Todo: t, Distance: distance(strings.ToLower(t.Text), q, qWords)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func distance(text, query string, queryWords int) int {
	if strings.Contains(text, query) {
		return 0
	}

	words := strings.Fields(text)
	if len(words) <= queryWords {
		return levenshtein.ComputeDistance(text, query)
	}

	best := -1
	for i := 0; i+queryWords <= len(words); i++ {
		window := strings.Join(words[i:i+queryWords], " ")
		d := levenshtein.ComputeDistance(window, query)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}
