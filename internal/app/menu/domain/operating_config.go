package domain

import (
	"slices"
	"strings"
	"time"
)

// Day names as stored in the weekly inclusion list.
const (
	DaySunday    = "domingo"
	DayMonday    = "segunda"
	DayTuesday   = "terca"
	DayWednesday = "quarta"
	DayThursday  = "quinta"
	DayFriday    = "sexta"
	DaySaturday  = "sabado"
)

var weekdayNames = [...]string{DaySunday, DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday}

// DayName maps a time.Weekday to the stored day name.
func DayName(wd time.Weekday) string {
	return weekdayNames[wd]
}

// Field constants for operating config change tracking.
const (
	FieldConfigPhone             = "phone"
	FieldConfigOpenTime          = "open_time"
	FieldConfigCloseTime         = "close_time"
	FieldConfigDays              = "days"
	FieldConfigSaturdayOpen      = "saturday_open"
	FieldConfigSaturdayOpenTime  = "saturday_open_time"
	FieldConfigSaturdayCloseTime = "saturday_close_time"
	FieldConfigSundayOpen        = "sunday_open"
	FieldConfigSundayOpenTime    = "sunday_open_time"
	FieldConfigSundayCloseTime   = "sunday_close_time"
)

// OperatingConfig is the contact phone and opening hours of one tenant.
type OperatingConfig struct {
	ConfigID          string    `json:"configId"`
	TenantID          string    `json:"tenantId"`
	Phone             string    `json:"phone"`
	OpenTime          string    `json:"openTime"`
	CloseTime         string    `json:"closeTime"`
	Days              []string  `json:"days"`
	SaturdayOpen      bool      `json:"saturdayOpen"`
	SaturdayOpenTime  string    `json:"saturdayOpenTime"`
	SaturdayCloseTime string    `json:"saturdayCloseTime"`
	SundayOpen        bool      `json:"sundayOpen"`
	SundayOpenTime    string    `json:"sundayOpenTime"`
	SundayCloseTime   string    `json:"sundayCloseTime"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// DefaultOperatingConfig is used when a tenant never saved a configuration.
func DefaultOperatingConfig(tenantID string) *OperatingConfig {
	return &OperatingConfig{
		TenantID:  tenantID,
		OpenTime:  "08:00",
		CloseTime: "18:00",
		Days:      []string{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday},
	}
}

func (c *OperatingConfig) Clone() *OperatingConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Days = slices.Clone(c.Days)
	return &out
}

// NewestConfig picks the most recently updated row when a tenant has duplicates.
func NewestConfig(rows []*OperatingConfig) *OperatingConfig {
	var newest *OperatingConfig
	for _, r := range rows {
		if r == nil {
			continue
		}
		if newest == nil || r.UpdatedAt.After(newest.UpdatedAt) {
			newest = r
		}
	}
	return newest
}

// OperatingConfigPatch is a partial update of OperatingConfig.
type OperatingConfigPatch struct {
	Phone             *string  `json:"phone,omitempty"`
	OpenTime          *string  `json:"openTime,omitempty"`
	CloseTime         *string  `json:"closeTime,omitempty"`
	Days              []string `json:"days,omitempty"`
	SaturdayOpen      *bool    `json:"saturdayOpen,omitempty"`
	SaturdayOpenTime  *string  `json:"saturdayOpenTime,omitempty"`
	SaturdayCloseTime *string  `json:"saturdayCloseTime,omitempty"`
	SundayOpen        *bool    `json:"sundayOpen,omitempty"`
	SundayOpenTime    *string  `json:"sundayOpenTime,omitempty"`
	SundayCloseTime   *string  `json:"sundayCloseTime,omitempty"`
}

func (p OperatingConfigPatch) Changes() *ChangeTracker {
	ct := NewChangeTracker()
	mark := func(set bool, field string) {
		if set {
			ct.MarkDirty(field)
		}
	}
	mark(p.Phone != nil, FieldConfigPhone)
	mark(p.OpenTime != nil, FieldConfigOpenTime)
	mark(p.CloseTime != nil, FieldConfigCloseTime)
	mark(p.Days != nil, FieldConfigDays)
	mark(p.SaturdayOpen != nil, FieldConfigSaturdayOpen)
	mark(p.SaturdayOpenTime != nil, FieldConfigSaturdayOpenTime)
	mark(p.SaturdayCloseTime != nil, FieldConfigSaturdayCloseTime)
	mark(p.SundayOpen != nil, FieldConfigSundayOpen)
	mark(p.SundayOpenTime != nil, FieldConfigSundayOpenTime)
	mark(p.SundayCloseTime != nil, FieldConfigSundayCloseTime)
	return ct
}

func (p OperatingConfigPatch) IsEmpty() bool {
	return !p.Changes().HasChanges()
}

// Validate checks the clock strings the patch sets. Empty strings are allowed
// and read as "closed".
func (p OperatingConfigPatch) Validate() error {
	for _, v := range []*string{p.OpenTime, p.CloseTime, p.SaturdayOpenTime, p.SaturdayCloseTime, p.SundayOpenTime, p.SundayCloseTime} {
		if v == nil || *v == "" {
			continue
		}
		if _, ok := ParseClockMinutes(*v); !ok {
			return ErrInvalidClockTime
		}
	}
	return nil
}

// Apply shallow-merges the patch into a copy of c.
func (p OperatingConfigPatch) Apply(c *OperatingConfig, now time.Time) *OperatingConfig {
	out := c.Clone()
	if out == nil {
		out = &OperatingConfig{}
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&out.Phone, p.Phone)
	set(&out.OpenTime, p.OpenTime)
	set(&out.CloseTime, p.CloseTime)
	if p.Days != nil {
		out.Days = normalizeDays(p.Days)
	}
	setBool(&out.SaturdayOpen, p.SaturdayOpen)
	set(&out.SaturdayOpenTime, p.SaturdayOpenTime)
	set(&out.SaturdayCloseTime, p.SaturdayCloseTime)
	setBool(&out.SundayOpen, p.SundayOpen)
	set(&out.SundayOpenTime, p.SundayOpenTime)
	set(&out.SundayCloseTime, p.SundayCloseTime)
	out.UpdatedAt = now
	return out
}

func normalizeDays(days []string) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

// ParseClockMinutes parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
func ParseClockMinutes(s string) (int, bool) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}
	h, ok := parseTwoDigits(parts[0], 23)
	if !ok {
		return 0, false
	}
	m, ok := parseTwoDigits(parts[1], 59)
	if !ok {
		return 0, false
	}
	if len(parts) == 3 {
		if _, ok := parseTwoDigits(parts[2], 59); !ok {
			return 0, false
		}
	}
	return h*60 + m, true
}

func parseTwoDigits(s string, limit int) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	v := int(s[0]-'0')*10 + int(s[1]-'0')
	if v > limit {
		return 0, false
	}
	return v, true
}
