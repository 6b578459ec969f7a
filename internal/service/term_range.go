package service

import (
	"sort"
	"time"

	"github.com/noah-isme/jieqi-converter/internal/models"
)

// ResolveTerms anchors each term to year (or year+1 for January terms) and sorts them ascending.
func ResolveTerms(terms []models.SolarTerm, year int) []models.ResolvedTerm {
	resolved := make([]models.ResolvedTerm, 0, len(terms))
	for _, t := range terms {
		at := time.Date(models.AnchorYear(year, t.Month), t.Month, t.Day, t.Hour, t.Minute, 0, 0, time.UTC)
		resolved = append(resolved, models.ResolvedTerm{SolarTerm: t, At: at})
	}
	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].At.Before(resolved[j].At)
	})
	return resolved
}

// FindTermRange returns the term interval containing query. Boundaries are left-closed, so a
// term owns its own instant. The sequence is cyclic: after the last term the next one is the
// first. A query before the first term falls back to the first interval.
func FindTermRange(query time.Time, terms []models.SolarTerm, year int) (models.TermInterval, bool) {
	list := ResolveTerms(terms, year)
	n := len(list)
	if n < 2 {
		return models.TermInterval{}, false
	}

	// index of the first term strictly after query
	next := sort.Search(n, func(i int) bool {
		return list[i].At.After(query)
	})

	if next == 0 {
		return models.TermInterval{Prev: list[n-1], Current: list[0], Next: list[1]}, true
	}

	cur := next - 1
	return models.TermInterval{
		Prev:    list[(cur-1+n)%n],
		Current: list[cur],
		Next:    list[(cur+1)%n],
	}, true
}
