package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"medical-appointment-scheduler/internal/domain/entity"
)

var ErrInvalidClockTime = errors.New("invalid time of day, use HH:MM")

// Slot is one bookable time of day on a given date.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// ParseClock converts "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 {
		return 0, ErrInvalidClockTime
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrInvalidClockTime
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes after midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClockOf returns the "HH:MM" of t in loc, dropping seconds.
func ClockOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04")
}

// GenerateSlots expands schedule windows into slots. Each window yields
// start, start+duration, ... while the time stays strictly before its end.
// Windows with a non-positive duration or an empty range yield nothing.
// Times produced by several windows appear once; such a slot is unavailable
// when its time is in booked. Output is sorted by time.
func GenerateSlots(schedules []entity.DoctorSchedule, booked map[string]bool) []Slot {
	seen := make(map[string]bool)
	slots := make([]Slot, 0)

	for _, sc := range schedules {
		start, err := ParseClock(sc.StartTime)
		if err != nil {
			continue
		}
		end, err := ParseClock(sc.EndTime)
		if err != nil {
			continue
		}
		if sc.SlotDuration <= 0 || start >= end {
			continue
		}

		for m := start; m < end; m += sc.SlotDuration {
			label := FormatClock(m)
			if seen[label] {
				continue
			}
			seen[label] = true
			slots = append(slots, Slot{Time: label, Available: !booked[label]})
		}
	}

	// Zero-padded HH:MM sorts lexicographically in time order.
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Time < slots[j].Time
	})
	return slots
}

// WithinSchedules reports whether the time of day falls inside any window,
// using the same half-open [start, end) rule as GenerateSlots.
func WithinSchedules(schedules []entity.DoctorSchedule, clock string) bool {
	t, err := ParseClock(clock)
	if err != nil {
		return false
	}
	for _, sc := range schedules {
		start, err := ParseClock(sc.StartTime)
		if err != nil {
			continue
		}
		end, err := ParseClock(sc.EndTime)
		if err != nil {
			continue
		}
		if start <= t && t < end {
			return true
		}
	}
	return false
}
