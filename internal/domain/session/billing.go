package session

import (
	"time"

	"cuetab/internal/domain/tariff"

	"github.com/shopspring/decimal"
)

// Quote is the priced view of a session at one instant.
type Quote struct {
	TotalMinutes    int
	FreeMinutesUsed int
	BillableMinutes int
	Cost            decimal.Decimal
}

var (
	sixty       = decimal.NewFromInt(60)
	minutesADay = 24 * 60
)

// Price computes the amount owed for a session under a tariff as of the given
// instant. It is a pure function: callers may invoke it repeatedly with a
// moving asOf for live display without touching the session. An ended session
// always returns its stored final values.
func Price(s *Session, t *tariff.Tariff, asOf time.Time) Quote {
	if s.Status() == StatusEnded {
		return Quote{
			TotalMinutes:    s.FreeMinutesUsed() + s.PaidMinutes(),
			FreeMinutesUsed: s.FreeMinutesUsed(),
			BillableMinutes: s.PaidMinutes(),
			Cost:            s.TotalAmount(),
		}
	}

	// A paused session is billed up to the moment the pause began.
	effectiveEnd := asOf
	if s.Status() == StatusPaused && s.PauseStartTime() != nil {
		effectiveEnd = *s.PauseStartTime()
	}

	elapsed := effectiveEnd.Sub(s.StartTime()) - s.TotalPausedTime()
	totalMinutes := ceilMinutes(elapsed)

	if t.MinDuration > 0 && totalMinutes < t.MinDuration {
		totalMinutes = t.MinDuration
	}
	if t.MaxDuration > 0 && totalMinutes > t.MaxDuration {
		totalMinutes = t.MaxDuration
	}

	freeMinutes := t.FreeMinutes
	if freeMinutes > totalMinutes {
		freeMinutes = totalMinutes
	}
	billableMinutes := totalMinutes - freeMinutes

	var cost decimal.Decimal
	switch t.RateType {
	case tariff.RateFixed:
		cost = t.Rate
	case tariff.RateSession:
		blocks := (billableMinutes + minutesADay - 1) / minutesADay
		cost = t.Rate.Mul(decimal.NewFromInt(int64(blocks)))
	default: // hourly
		if len(t.TieredRates) > 0 {
			// Tiers replace the flat rate entirely.
			cost = applyTieredRates(billableMinutes, t.TieredRates)
		} else {
			hours := (billableMinutes + 59) / 60
			cost = t.Rate.Mul(decimal.NewFromInt(int64(hours)))
		}
	}

	meta := s.Metadata()
	cost = cost.Add(meta.ServicesTotal())
	cost = cost.Sub(meta.DiscountsTotal())
	if cost.IsNegative() {
		cost = decimal.Zero
	}

	return Quote{
		TotalMinutes:    totalMinutes,
		FreeMinutesUsed: freeMinutes,
		BillableMinutes: billableMinutes,
		Cost:            cost.Round(2),
	}
}

// applyTieredRates charges each minute span at its tier's per-minute rate
// (rate/60); the last tier absorbs whatever minutes remain.
func applyTieredRates(billableMinutes int, tiers []tariff.TieredRate) decimal.Decimal {
	total := decimal.Zero
	remaining := billableMinutes

	for i, tier := range tiers {
		if remaining <= 0 {
			break
		}
		if i == len(tiers)-1 {
			total = total.Add(minuteCost(remaining, tier.Rate))
			break
		}
		span := tiers[i+1].FromMinute - tier.FromMinute
		minutes := span
		if remaining < minutes {
			minutes = remaining
		}
		total = total.Add(minuteCost(minutes, tier.Rate))
		remaining -= minutes
	}
	return total
}

func minuteCost(minutes int, hourlyRate decimal.Decimal) decimal.Decimal {
	return hourlyRate.Mul(decimal.NewFromInt(int64(minutes))).Div(sixty)
}

func ceilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	m := d / time.Minute
	if d%time.Minute != 0 {
		m++
	}
	return int(m)
}
