package service

import (
	"time"

	"github.com/iliyamo/office-seat-reservation/internal/model"
)

// Clock supplies "today" in the office's timezone.  The zero value uses
// time.Now in the local zone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// Today returns the current calendar date as a normalised date.
func (c Clock) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := time.Local
	if c.Location != nil {
		loc = c.Location
	}
	return model.DateOf(now().In(loc))
}

func (c Clock) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
