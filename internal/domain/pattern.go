package domain

import (
	"fmt"
	"sort"
	"time"
)

// TimeSlot is one weekday's lesson time within a recurrence pattern.
type TimeSlot struct {
	Weekday time.Weekday
	Start   ClockTime
	End     ClockTime

	// AnchorDate pins the first occurrence for this weekday. Optional.
	AnchorDate *time.Time
}

// Validate checks that the slot describes a usable, non-empty interval.
func (s TimeSlot) Validate() error {
	if s.Weekday < time.Sunday || s.Weekday > time.Saturday {
		return fmt.Errorf("weekday %d out of range 0-6", s.Weekday)
	}
	if !s.Start.Before(s.End) {
		return fmt.Errorf("slot %s: end %s must be after start %s", s.Weekday, s.End, s.Start)
	}
	if s.AnchorDate != nil && s.AnchorDate.Weekday() != s.Weekday {
		return fmt.Errorf("slot %s: anchor date %s falls on %s",
			s.Weekday, s.AnchorDate.Format(DateLayout), s.AnchorDate.Weekday())
	}
	return nil
}

// RecurrencePattern is the weekly schedule of a course assignment.
type RecurrencePattern struct {
	CourseAssignmentID string
	ActiveWeekdays     map[time.Weekday]bool
	TimeSlots          map[time.Weekday]TimeSlot
	TargetLessonCount  int
}

// IsEmpty reports whether the pattern cannot produce any occurrence.
func (p *RecurrencePattern) IsEmpty() bool {
	return p == nil || len(p.ActiveWeekdays) == 0 || len(p.TimeSlots) == 0
}

// SlotFor returns the slot to use on weekday. Inactive weekdays, weekdays
// without a slot and slots that fail validation are reported as unusable.
func (p *RecurrencePattern) SlotFor(weekday time.Weekday) (TimeSlot, bool) {
	if p == nil || !p.ActiveWeekdays[weekday] {
		return TimeSlot{}, false
	}
	slot, ok := p.TimeSlots[weekday]
	if !ok {
		return TimeSlot{}, false
	}
	slot.Weekday = weekday
	if err := slot.Validate(); err != nil {
		return TimeSlot{}, false
	}
	return slot, true
}

// UsableWeekdays lists active weekdays with a valid slot, Sunday first.
func (p *RecurrencePattern) UsableWeekdays() []time.Weekday {
	var out []time.Weekday
	if p == nil {
		return out
	}
	for wd := range p.ActiveWeekdays {
		if _, ok := p.SlotFor(wd); ok {
			out = append(out, wd)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Problems returns every inconsistency in the pattern. An empty result
// does not imply the pattern is non-empty; see IsEmpty.
func (p *RecurrencePattern) Problems() []error {
	var errs []error
	if p == nil {
		return errs
	}
	for wd, active := range p.ActiveWeekdays {
		if !active {
			continue
		}
		slot, ok := p.TimeSlots[wd]
		if !ok {
			errs = append(errs, fmt.Errorf("active weekday %s has no time slot", wd))
			continue
		}
		slot.Weekday = wd
		if err := slot.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.TargetLessonCount < 0 {
		errs = append(errs, fmt.Errorf("target lesson count %d is negative", p.TargetLessonCount))
	}
	return errs
}
