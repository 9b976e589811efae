package models

import "time"

// Week groups production records by ISO week. The remote service creates
// weeks lazily when the first production of a week arrives.
type Week struct {
	ID         string    `json:"id" bson:"_id"`
	Year       int       `json:"year" bson:"year"`
	Month      int       `json:"month" bson:"month"`
	WeekNumber int       `json:"weekNumber" bson:"week_number"`
	StartDate  time.Time `json:"startDate" bson:"start_date"`
	EndDate    time.Time `json:"endDate" bson:"end_date"`
	CreatedAt  time.Time `json:"createdAt,omitempty" bson:"created_at,omitempty"`
}

// WeekOf computes the ISO week window containing t, Monday through Sunday.
func WeekOf(t time.Time) Week {
	year, weekNumber := t.ISOWeek()

	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := t.AddDate(0, 0, -(weekday - 1))
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 6)

	return Week{
		Year:       year,
		Month:      int(t.Month()),
		WeekNumber: weekNumber,
		StartDate:  start,
		EndDate:    end,
	}
}
