package service

import (
	"time"

	"github.com/noah-isme/jieqi-converter/internal/models"
)

type termOffset struct {
	month  time.Month
	day    int
	hour   int
	minute int
}

// localTermOffsets is one typical tropical year, in models.TermNames order. The same offsets are
// used for every year, so instants can be off by about a day across the leap-year cycle.
var localTermOffsets = [models.TermCount]termOffset{
	{time.February, 4, 19, 0}, {time.February, 19, 14, 50}, {time.March, 5, 12, 59}, {time.March, 20, 13, 48},
	{time.April, 4, 17, 46}, {time.April, 20, 0, 51}, {time.May, 5, 11, 3}, {time.May, 21, 0, 1},
	{time.June, 5, 15, 12}, {time.June, 21, 7, 59}, {time.July, 7, 1, 27}, {time.July, 22, 18, 55},
	{time.August, 7, 11, 16}, {time.August, 23, 2, 2}, {time.September, 7, 14, 14}, {time.September, 22, 23, 44},
	{time.October, 8, 5, 57}, {time.October, 23, 9, 9}, {time.November, 7, 9, 11}, {time.November, 22, 6, 44},
	{time.December, 7, 2, 2}, {time.December, 21, 20, 4}, {time.January, 5, 13, 14}, {time.January, 20, 6, 40},
}

// LocalSolarTerms builds the fallback term set for a solar year from the fixed offset table.
func LocalSolarTerms(year int) models.TermSet {
	terms := make([]models.SolarTerm, 0, models.TermCount)
	for i, off := range localTermOffsets {
		terms = append(terms, models.SolarTerm{
			Name:   models.TermNames[i],
			Year:   models.AnchorYear(year, off.month),
			Month:  off.month,
			Day:    off.day,
			Hour:   off.hour,
			Minute: off.minute,
		})
	}
	return models.TermSet{Year: year, Source: models.TermSourceLocal, Terms: terms}
}
