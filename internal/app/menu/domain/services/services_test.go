package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/murkotick/digital-menu-service/internal/app/menu/cart"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/pkg/clock"
)

// 2026-03-02 is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2026, 3, day, hour, minute, 0, 0, time.UTC)
}

func weekdayConfig() *domain.OperatingConfig {
	return &domain.OperatingConfig{
		OpenTime:  "08:00",
		CloseTime: "18:00",
		Days:      []string{domain.DayMonday, domain.DayTuesday, domain.DayWednesday, domain.DayThursday, domain.DayFriday},
	}
}

func TestIsOpenNow_WeekdayBoundaries(t *testing.T) {
	s := ScheduleFromConfig(weekdayConfig())

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before opening", at(2, 7, 59), false},
		{"opening minute", at(2, 8, 0), true},
		{"mid morning", at(2, 10, 0), true},
		{"closing minute", at(2, 18, 0), true},
		{"after closing", at(2, 18, 1), false},
		{"friday", at(6, 12, 0), true},
		{"saturday not listed", at(7, 12, 0), false},
		{"sunday not listed", at(8, 12, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsOpenNow(s, tc.now))
		})
	}
}

func TestIsOpenNow_WeekendOverrides(t *testing.T) {
	cfg := weekdayConfig()
	cfg.SaturdayOpen = true
	cfg.SaturdayOpenTime = "09:00"
	cfg.SaturdayCloseTime = "13:00"
	s := ScheduleFromConfig(cfg)

	assert.True(t, IsOpenNow(s, at(7, 12, 30)))
	assert.False(t, IsOpenNow(s, at(7, 14, 0)))
	assert.False(t, IsOpenNow(s, at(8, 10, 0)))

	// A listed Sunday without the override uses the weekly hours.
	cfg.Days = append(cfg.Days, domain.DaySunday)
	assert.True(t, IsOpenNow(ScheduleFromConfig(cfg), at(8, 17, 0)))

	// The override wins over the weekly hours.
	cfg.SundayOpen = true
	cfg.SundayOpenTime = "10:00"
	cfg.SundayCloseTime = "12:00"
	assert.False(t, IsOpenNow(ScheduleFromConfig(cfg), at(8, 17, 0)))
}

// TestIsOpenNow_SaturdayMorningSundayClosed covers a weekday store opening
// Saturday mornings only and staying shut on Sunday.
func TestIsOpenNow_SaturdayMorningSundayClosed(t *testing.T) {
	s := WeeklySchedule{
		Days:     weekdayConfig().Days,
		Hours:    DayHours{Open: "08:00", Close: "18:00"},
		Saturday: &WeekendOverride{Open: true, Hours: DayHours{Open: "08:00", Close: "12:00"}},
		Sunday:   &WeekendOverride{Open: false},
	}

	assert.True(t, IsOpenNow(s, at(7, 11, 30)))
	assert.True(t, IsOpenNow(s, at(7, 12, 0)))
	assert.False(t, IsOpenNow(s, at(7, 13, 0)))

	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 30, 59} {
			assert.False(t, IsOpenNow(s, at(8, hour, minute)), "sunday %02d:%02d", hour, minute)
		}
	}

	cfg := weekdayConfig()
	cfg.SaturdayOpen = true
	cfg.SaturdayOpenTime = "08:00"
	cfg.SaturdayCloseTime = "12:00"
	fromConfig := ScheduleFromConfig(cfg)
	assert.True(t, IsOpenNow(fromConfig, at(7, 11, 30)))
	assert.False(t, IsOpenNow(fromConfig, at(7, 13, 0)))
	assert.False(t, IsOpenNow(fromConfig, at(8, 11, 30)))
}

func TestIsOpenNow_MalformedHoursAreClosed(t *testing.T) {
	cfg := weekdayConfig()
	cfg.CloseTime = "6pm"
	assert.False(t, IsOpenNow(ScheduleFromConfig(cfg), at(2, 10, 0)))

	cfg = weekdayConfig()
	cfg.OpenTime = ""
	assert.False(t, IsOpenNow(ScheduleFromConfig(cfg), at(2, 10, 0)))

	assert.False(t, IsOpenNow(ScheduleFromConfig(nil), at(2, 10, 0)))
}

func TestIsOpenNow_DayNamesAreCaseInsensitive(t *testing.T) {
	cfg := weekdayConfig()
	cfg.Days = []string{" Segunda "}
	assert.True(t, IsOpenNow(ScheduleFromConfig(cfg), at(2, 9, 0)))
}

func TestStatusCalculator_UsesStoreLocation(t *testing.T) {
	// 20:30 UTC Monday is 17:30 at UTC-3.
	clk := clock.NewFake(at(2, 20, 30))
	cfg := weekdayConfig()

	assert.False(t, NewStatusCalculator(clk, time.UTC).IsOpen(cfg))
	assert.True(t, NewStatusCalculator(clk, time.FixedZone("BRT", -3*60*60)).IsOpen(cfg))
	assert.False(t, NewStatusCalculator(clk, nil).IsOpen(cfg))
}

func TestPricingCalculator(t *testing.T) {
	pc := NewPricingCalculator()
	promo := decimal.RequireFromString("29.90")
	p := domain.Product{ID: "bolo", Name: "Bolo", Price: decimal.RequireFromString("35.00"), PromotionalPrice: &promo, SaleUnit: domain.SaleUnitKg}

	assert.True(t, pc.HasActivePromotion(p))
	assert.Equal(t, "29.9", pc.EffectivePrice(p).String())
	assert.Equal(t, "5.1", pc.CalculateSavings(p).String())

	higher := decimal.NewFromInt(40)
	p.PromotionalPrice = &higher
	assert.False(t, pc.HasActivePromotion(p))
	assert.Equal(t, "35", pc.EffectivePrice(p).String())
	assert.True(t, pc.CalculateSavings(p).IsZero())

	zero := decimal.Zero
	p.PromotionalPrice = &zero
	assert.False(t, pc.HasActivePromotion(p))
}

func TestPricingCalculator_LineFor(t *testing.T) {
	pc := NewPricingCalculator()
	promo := decimal.NewFromInt(8)
	obs := "sem açúcar"
	p := domain.Product{ID: "pudim", Name: "Pudim", Price: decimal.NewFromInt(10), PromotionalPrice: &promo, SaleUnit: domain.SaleUnitUnit}

	l := pc.LineFor(p, 2, cart.Choices{Topping: "Calda"}, &obs)
	assert.Equal(t, "8", l.UnitPrice.String())
	assert.Equal(t, "16", l.Subtotal().String())
	assert.Empty(t, l.ChosenTopping, "choices need a customizable product")
	assert.Equal(t, "sem açúcar", *l.Observation)

	obs = "changed"
	assert.Equal(t, "sem açúcar", *l.Observation)
}
