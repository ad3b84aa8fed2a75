package availability

import (
	"time"

	"rezzy/pkg/model"
)

// DayHours is one weekday's opening window in minutes since midnight.
type DayHours struct {
	Open     bool
	OpenMin  int
	CloseMin int
}

// Interval is an occupied [StartMin, EndMin) span within a single day.
type Interval struct {
	StartMin int
	EndMin   int
}

// Overlaps is the half-open interval test: [a,b) and [c,d) collide
// iff a < d && c < b.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.StartMin < other.EndMin && other.StartMin < iv.EndMin
}

// GenerateSlots computes the candidate start times for one day.
//
// Candidates run from the opening time through closeMin-totalDurMin on
// a fixed stepMin grid. Candidates before cutoffMin are not emitted at
// all (same-day lead time); candidates whose [start, start+totalDurMin)
// interval collides with a busy interval are emitted but flagged
// unavailable. A closed day or a service that cannot fit yields nil.
func GenerateSlots(day DayHours, totalDurMin, stepMin, cutoffMin int, busy []Interval) []model.TimeSlot {
	if !day.Open || totalDurMin <= 0 || stepMin <= 0 {
		return nil
	}

	lastStart := day.CloseMin - totalDurMin
	if lastStart < day.OpenMin {
		return nil
	}

	var slots []model.TimeSlot
	for start := day.OpenMin; start <= lastStart; start += stepMin {
		if start < cutoffMin {
			continue
		}

		candidate := Interval{StartMin: start, EndMin: start + totalDurMin}
		available := true
		for _, b := range busy {
			if candidate.Overlaps(b) {
				available = false
				break
			}
		}

		slots = append(slots, model.TimeSlot{
			Time:      FormatClock(start),
			Available: available,
		})
	}

	return slots
}

// SameDayCutoff returns the earliest bookable minute for a same-day
// request: now plus the lead time, rounded up to the next grid step.
// For future dates the cutoff is zero (no restriction).
func SameDayCutoff(now time.Time, lead time.Duration, stepMin int) int {
	earliest := MinutesOfDay(now) + int(lead.Minutes())
	if rem := earliest % stepMin; rem != 0 {
		earliest += stepMin - rem
	}
	return earliest
}

// BusyIntervals projects a day's bookings onto minute intervals,
// skipping cancelled rows and rows for other staff when staffID is set.
func BusyIntervals(bookings []*model.Booking, staffID string) []Interval {
	var busy []Interval
	for _, b := range bookings {
		if !b.Occupies() {
			continue
		}
		if staffID != "" && b.StaffID != "" && b.StaffID != staffID {
			continue
		}
		busy = append(busy, Interval{
			StartMin: MinutesOfDay(b.StartAt),
			EndMin:   MinutesOfDay(b.EndAt),
		})
	}
	return busy
}
