// Package pricing computes rental quotes. It is pure: no clocks, no storage,
// no side effects, so the workflow can snapshot its output.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
)

// Flat per-booking surcharges in currency units (not per-day).
var (
	InsuranceSurcharge = decimal.NewFromInt(150)
	GPSSurcharge       = decimal.NewFromInt(50)
	ChildSeatSurcharge = decimal.NewFromInt(75)
)

// PriceQuote is the computed price for a prospective booking
type PriceQuote struct {
	Days        int
	DailyRate   decimal.Decimal
	Base        decimal.Decimal
	AddonsTotal decimal.Decimal
	Total       decimal.Decimal
}

// Quote derives the rental cost for a date range with optional add-ons.
// Partial days round up: a rental ending one hour past a 24h multiple bills a
// full extra day. A non-positive duration returns ErrInvalidDateRange and a
// nil quote, which callers must treat as distinct from a legitimate zero total.
func Quote(dailyRate decimal.Decimal, start, end time.Time, addons entities.BookingAddons) (*PriceQuote, error) {
	if !end.After(start) {
		return nil, domainerrors.ErrInvalidDateRange
	}

	days := int(end.Sub(start) / (24 * time.Hour))
	if end.Sub(start)%(24*time.Hour) != 0 {
		days++
	}

	base := dailyRate.Mul(decimal.NewFromInt(int64(days)))

	addonsTotal := decimal.Zero
	if addons.Insurance {
		addonsTotal = addonsTotal.Add(InsuranceSurcharge)
	}
	if addons.GPS {
		addonsTotal = addonsTotal.Add(GPSSurcharge)
	}
	if addons.ChildSeat {
		addonsTotal = addonsTotal.Add(ChildSeatSurcharge)
	}

	return &PriceQuote{
		Days:        days,
		DailyRate:   dailyRate,
		Base:        base.Round(2),
		AddonsTotal: addonsTotal.Round(2),
		Total:       base.Add(addonsTotal).Round(2),
	}, nil
}

// AddonsCost returns the flat surcharge total for the selected add-ons
func AddonsCost(addons entities.BookingAddons) decimal.Decimal {
	total := decimal.Zero
	if addons.Insurance {
		total = total.Add(InsuranceSurcharge)
	}
	if addons.GPS {
		total = total.Add(GPSSurcharge)
	}
	if addons.ChildSeat {
		total = total.Add(ChildSeatSurcharge)
	}
	return total
}
