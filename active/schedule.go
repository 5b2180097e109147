// active/schedule.go
// Copyright(c) 2022 Matt Pharr, Apache License

package active

import (
	"fmt"
	"strconv"
	"time"
)

// Date is a calendar date; a zero Year means the date recurs every year.
type Date struct {
	Year, Month, Day int
}

func (d Date) String() string {
	if d.Year == 0 {
		return fmt.Sprintf("%02d%02d", d.Month, d.Day)
	}
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// ClockTime is a UTC time of day.
type ClockTime struct {
	Hour, Minute int
}

func (t ClockTime) String() string { return fmt.Sprintf("%02d%02d", t.Hour, t.Minute) }

func (t ClockTime) minutes() int { return t.Hour*60 + t.Minute }

// Weekdays is a bit mask with Monday in bit 0 through Sunday in bit 6.
type Weekdays uint8

const AllWeekdays Weekdays = 0x7f

// Includes reports whether the mask includes the given day.
func (w Weekdays) Includes(d time.Weekday) bool {
	idx := (int(d) + 6) % 7 // Monday=0
	return w&(1<<idx) != 0
}

func (w Weekdays) String() string {
	if w == AllWeekdays {
		return "0"
	}
	var s []byte
	for i := 0; i < 7; i++ {
		if w&(1<<i) != 0 {
			s = append(s, byte('1'+i))
		}
	}
	return string(s)
}

// Schedule is a date range, the days of the week within it, and a daily
// time window.
type Schedule struct {
	Start, End         Date
	Days               Weekdays
	StartTime, EndTime ClockTime
}

// ParseSchedule parses the five fields start:end:weekdays:from:to. Dates
// are YYYYMMDD or MMDD, weekdays is a string of digits 1 (Monday)
// through 7 (Sunday) with 0 meaning every day, and times are HHMM.
func ParseSchedule(f []string) (*Schedule, error) {
	if len(f) != 5 {
		return nil, fmt.Errorf("%d fields, expected 5: %w", len(f), ErrBadSchedule)
	}
	var s Schedule
	var err error
	if s.Start, err = parseDate(f[0]); err != nil {
		return nil, err
	}
	if s.End, err = parseDate(f[1]); err != nil {
		return nil, err
	}
	if (s.Start.Year == 0) != (s.End.Year == 0) {
		return nil, fmt.Errorf("%s-%s: dates must both include or both omit the year: %w", f[0], f[1], ErrBadSchedule)
	}
	if s.Days, err = parseWeekdays(f[2]); err != nil {
		return nil, err
	}
	if s.StartTime, err = parseClock(f[3]); err != nil {
		return nil, err
	}
	if s.EndTime, err = parseClock(f[4]); err != nil {
		return nil, err
	}
	return &s, nil
}

func parseDate(s string) (Date, error) {
	if !isDigits(s) || (len(s) != 4 && len(s) != 8) {
		return Date{}, fmt.Errorf("date %q: %w", s, ErrBadSchedule)
	}
	var d Date
	md := s
	if len(s) == 8 {
		d.Year, _ = strconv.Atoi(s[:4])
		md = s[4:]
	}
	d.Month, _ = strconv.Atoi(md[:2])
	d.Day, _ = strconv.Atoi(md[2:])

	year := d.Year
	if year == 0 {
		year = 2000 // a leap year, so that 0229 is accepted
	}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 ||
		d.Day > time.Date(year, time.Month(d.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day() {
		return Date{}, fmt.Errorf("date %q: %w", s, ErrBadSchedule)
	}
	return d, nil
}

func parseWeekdays(s string) (Weekdays, error) {
	if !isDigits(s) {
		return 0, fmt.Errorf("weekdays %q: %w", s, ErrBadSchedule)
	}
	var w Weekdays
	for i := 0; i < len(s); i++ {
		switch d := s[i] - '0'; {
		case d == 0:
			w = AllWeekdays
		case d <= 7:
			w |= 1 << (d - 1)
		default:
			return 0, fmt.Errorf("weekday %q: %w", s[i:i+1], ErrBadSchedule)
		}
	}
	return w, nil
}

func parseClock(s string) (ClockTime, error) {
	if !isDigits(s) || len(s) != 4 {
		return ClockTime{}, fmt.Errorf("time %q: %w", s, ErrBadSchedule)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[2:])
	// 2400 is accepted as the end of the day.
	if h > 24 || m > 59 || (h == 24 && m != 0) {
		return ClockTime{}, fmt.Errorf("time %q: %w", s, ErrBadSchedule)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

func (s *Schedule) String() string {
	return s.Start.String() + ":" + s.End.String() + ":" + s.Days.String() + ":" +
		s.StartTime.String() + ":" + s.EndTime.String()
}

// ActiveAt reports whether the schedule covers the given time, which is
// converted to UTC. Year-less date ranges whose end precedes their start
// wrap over the new year, and time windows whose end precedes their
// start wrap over midnight.
func (s *Schedule) ActiveAt(t time.Time) bool {
	t = t.UTC()
	if !s.Days.Includes(t.Weekday()) {
		return false
	}

	if s.Start.Year == 0 {
		md := int(t.Month())*100 + t.Day()
		start, end := s.Start.Month*100+s.Start.Day, s.End.Month*100+s.End.Day
		if start <= end && (md < start || md > end) {
			return false
		}
		if start > end && md < start && md > end {
			return false
		}
	} else {
		ymd := t.Year()*10000 + int(t.Month())*100 + t.Day()
		if ymd < s.Start.Year*10000+s.Start.Month*100+s.Start.Day ||
			ymd > s.End.Year*10000+s.End.Month*100+s.End.Day {
			return false
		}
	}

	m := t.Hour()*60 + t.Minute()
	from, to := s.StartTime.minutes(), s.EndTime.minutes()
	if from <= to {
		return m >= from && m < to
	}
	return m >= from || m < to
}
