package booking

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
)

// Layouts for the slot's wire form
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrInvalidSlot    = shared.NewDomainError("INVALID_SLOT", "Slot date or time is malformed")
	ErrSlotNotOffered = shared.NewDomainError("SLOT_NOT_OFFERED", "Consultations are not offered at this time")
	ErrSlotTooSoon    = shared.NewDomainError("SLOT_TOO_SOON", "This slot is in the past or too close to book")
	ErrSlotTooFar     = shared.NewDomainError("SLOT_TOO_FAR", "This slot is too far in the future to book")
)

// Slot is a consultation start time on a calendar date in the firm's timezone
type Slot struct {
	Date string // YYYY-MM-DD
	Time string // HH:MM, 24h
}

// ParseSlot validates and canonicalises a date and time pair
func ParseSlot(date, clock string) (Slot, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return Slot{}, ErrInvalidSlot
	}
	c, err := time.Parse(TimeLayout, strings.TrimSpace(clock))
	if err != nil {
		return Slot{}, ErrInvalidSlot
	}
	return Slot{Date: d.Format(DateLayout), Time: c.Format(TimeLayout)}, nil
}

// Start returns the slot's wall-clock start in loc
func (s Slot) Start(loc *time.Location) time.Time {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, s.Date+" "+s.Time, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// String formats as "2024-05-01 09:00"
func (s Slot) String() string {
	return s.Date + " " + s.Time
}

// Schedule describes which slots are bookable
type Schedule struct {
	location     *time.Location
	times        []string
	weekdays     map[time.Weekday]bool
	minLeadTime  time.Duration
	maxDaysAhead int
}

// NewSchedule builds a schedule from configured values. times are HH:MM strings.
func NewSchedule(loc *time.Location, times []string, weekdays []time.Weekday, minLeadTime time.Duration, maxDaysAhead int) (*Schedule, error) {
	if loc == nil {
		loc = time.UTC
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("schedule needs at least one slot time")
	}
	if len(weekdays) == 0 {
		return nil, fmt.Errorf("schedule needs at least one weekday")
	}
	if maxDaysAhead < 1 {
		return nil, fmt.Errorf("max days ahead must be positive")
	}

	seen := make(map[string]bool, len(times))
	canon := make([]string, 0, len(times))
	for _, t := range times {
		c, err := time.Parse(TimeLayout, strings.TrimSpace(t))
		if err != nil {
			return nil, fmt.Errorf("invalid slot time %q: %w", t, err)
		}
		v := c.Format(TimeLayout)
		if !seen[v] {
			seen[v] = true
			canon = append(canon, v)
		}
	}
	sort.Strings(canon)

	days := make(map[time.Weekday]bool, len(weekdays))
	for _, d := range weekdays {
		days[d] = true
	}

	return &Schedule{
		location:     loc,
		times:        canon,
		weekdays:     days,
		minLeadTime:  minLeadTime,
		maxDaysAhead: maxDaysAhead,
	}, nil
}

// Location returns the firm's timezone
func (s *Schedule) Location() *time.Location { return s.location }

// Times returns the configured slot times in order
func (s *Schedule) Times() []string {
	out := make([]string, len(s.times))
	copy(out, s.times)
	return out
}

// Offers reports whether the slot is on an open weekday at a configured time
func (s *Schedule) Offers(slot Slot) bool {
	start := slot.Start(s.location)
	if start.IsZero() || !s.weekdays[start.Weekday()] {
		return false
	}
	i := sort.SearchStrings(s.times, slot.Time)
	return i < len(s.times) && s.times[i] == slot.Time
}

// Validate checks that slot can be booked at now
func (s *Schedule) Validate(slot Slot, now time.Time) error {
	start := slot.Start(s.location)
	if start.IsZero() {
		return ErrInvalidSlot
	}
	if !s.Offers(slot) {
		return ErrSlotNotOffered
	}
	if start.Before(now.Add(s.minLeadTime)) {
		return ErrSlotTooSoon
	}
	today := midnight(now.In(s.location))
	if midnight(start).After(today.AddDate(0, 0, s.maxDaysAhead)) {
		return ErrSlotTooFar
	}
	return nil
}

// DayTimes lists every configured time on date with whether the calendar alone allows it at now.
// Existing bookings are not considered.
func (s *Schedule) DayTimes(date string, now time.Time) ([]Slot, []bool, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), s.location)
	if err != nil {
		return nil, nil, ErrInvalidSlot
	}
	slots := make([]Slot, 0, len(s.times))
	open := make([]bool, 0, len(s.times))
	for _, t := range s.times {
		slot := Slot{Date: d.Format(DateLayout), Time: t}
		slots = append(slots, slot)
		open = append(open, s.Validate(slot, now) == nil)
	}
	return slots, open, nil
}

// MonthBounds returns the start of the month containing t and of the next month, in loc
func MonthBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
