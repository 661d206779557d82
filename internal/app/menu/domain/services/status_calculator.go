package services

import (
	"strings"
	"time"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/pkg/clock"
)

// DayHours is an open/close pair in "HH:MM".
type DayHours struct {
	Open  string
	Close string
}

// WeekendOverride replaces the weekly hours on Saturday or Sunday when Open is set.
type WeekendOverride struct {
	Open  bool
	Hours DayHours
}

// WeeklySchedule is the opening rule set of a storefront.
type WeeklySchedule struct {
	Days     []string
	Hours    DayHours
	Saturday *WeekendOverride
	Sunday   *WeekendOverride
}

// ScheduleFromConfig derives the schedule stored in an operating config.
func ScheduleFromConfig(cfg *domain.OperatingConfig) WeeklySchedule {
	if cfg == nil {
		return WeeklySchedule{}
	}
	return WeeklySchedule{
		Days:  cfg.Days,
		Hours: DayHours{Open: cfg.OpenTime, Close: cfg.CloseTime},
		Saturday: &WeekendOverride{
			Open:  cfg.SaturdayOpen,
			Hours: DayHours{Open: cfg.SaturdayOpenTime, Close: cfg.SaturdayCloseTime},
		},
		Sunday: &WeekendOverride{
			Open:  cfg.SundayOpen,
			Hours: DayHours{Open: cfg.SundayOpenTime, Close: cfg.SundayCloseTime},
		},
	}
}

// IsOpenNow reports whether the store is open at now, read in now's location.
// Both ends of the interval are inclusive, so the closing minute still reads
// as open. Missing or malformed hours read as closed.
func IsOpenNow(s WeeklySchedule, now time.Time) bool {
	hours, ok := hoursFor(s, now.Weekday())
	if !ok {
		return false
	}
	open, ok := domain.ParseClockMinutes(hours.Open)
	if !ok {
		return false
	}
	closing, ok := domain.ParseClockMinutes(hours.Close)
	if !ok {
		return false
	}
	minutes := now.Hour()*60 + now.Minute()
	return minutes >= open && minutes <= closing
}

func hoursFor(s WeeklySchedule, wd time.Weekday) (DayHours, bool) {
	switch {
	case wd == time.Saturday && s.Saturday != nil && s.Saturday.Open:
		return s.Saturday.Hours, true
	case wd == time.Sunday && s.Sunday != nil && s.Sunday.Open:
		return s.Sunday.Hours, true
	}
	name := domain.DayName(wd)
	for _, d := range s.Days {
		if strings.EqualFold(strings.TrimSpace(d), name) {
			return s.Hours, true
		}
	}
	return DayHours{}, false
}

// StatusCalculator evaluates schedules against a clock in the store's time zone.
type StatusCalculator struct {
	clock clock.Clock
	loc   *time.Location
}

func NewStatusCalculator(clk clock.Clock, loc *time.Location) *StatusCalculator {
	if loc == nil {
		loc = time.UTC
	}
	return &StatusCalculator{clock: clk, loc: loc}
}

// IsOpen evaluates cfg at the current time.
func (sc *StatusCalculator) IsOpen(cfg *domain.OperatingConfig) bool {
	return IsOpenNow(ScheduleFromConfig(cfg), sc.clock.Now().In(sc.loc))
}
