package clock

import (
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/pkg/constvars"
	"time"
)

const civilDateTimeLayout = constvars.CivilDateLayout + " " + constvars.CivilTimeLayout

type civilClock struct {
	location *time.Location
	now      func() time.Time
}

// NewClock returns a clock whose civil dates and times are read in location.
func NewClock(location *time.Location) contracts.Clock {
	return &civilClock{location: location, now: time.Now}
}

// NewClockWithNow is NewClock with an injectable time source.
func NewClockWithNow(location *time.Location, now func() time.Time) contracts.Clock {
	return &civilClock{location: location, now: now}
}

func (c *civilClock) Now() time.Time {
	return c.now().In(c.location)
}

func (c *civilClock) Location() *time.Location {
	return c.location
}

func (c *civilClock) CombineDateTime(date, clockTime string) (time.Time, error) {
	return time.ParseInLocation(civilDateTimeLayout, date+" "+clockTime, c.location)
}

// AddCalendarDays moves by calendar days, not by 24h periods, so DST changes
// in the location never shift the resulting date.
func (c *civilClock) AddCalendarDays(date string, days int) (string, error) {
	start, err := time.ParseInLocation(constvars.CivilDateLayout, date, c.location)
	if err != nil {
		return "", err
	}
	return start.AddDate(0, 0, days).Format(constvars.CivilDateLayout), nil
}
