package contracts

import "time"

type Clock interface {
	Now() time.Time
	Location() *time.Location
	CombineDateTime(date, clockTime string) (time.Time, error)
	AddCalendarDays(date string, days int) (string, error)
}
