package tariff

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRate        = errors.New("rate cannot be negative")
	ErrInvalidRateType    = errors.New("invalid rate type")
	ErrInvalidTiers       = errors.New("tiered rates must start at minute 0 and strictly ascend")
	ErrInvalidRestriction = errors.New("invalid tariff restriction")
	ErrPlayerCount        = errors.New("player count outside tariff limits")
	ErrOutsideSchedule    = errors.New("tariff not available at this time")
	ErrInactive           = errors.New("tariff is inactive")
)

// TieredRate is one step of a duration-dependent hourly schedule. FromMinute
// is the cumulative billable minute at which this rate takes over.
type TieredRate struct {
	FromMinute int             `json:"fromMinute"`
	Rate       decimal.Decimal `json:"rate"`
}

// TimeRange is a wall-clock window in "HH:MM" 24h form. Both bounds are
// inclusive so "00:00".."23:59" covers the whole day.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Restrictions gate which sessions may start under a tariff. They never affect
// the billing math itself.
type Restrictions struct {
	MinPlayers int         `json:"minPlayers"`
	MaxPlayers int         `json:"maxPlayers"` // 0 = unbounded
	DaysOfWeek []int       `json:"daysOfWeek"` // 0 = Sunday; empty = every day
	TimeRanges []TimeRange `json:"timeRanges"` // empty = all day
}

// Tariff is a pricing policy. It is configured outside the core and read-only
// here: a session captures the tariff values at start time and prices against
// that snapshot even if the tariff is edited afterwards.
type Tariff struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Rate         decimal.Decimal `json:"rate"`
	RateType     RateType        `json:"rateType"`
	IsActive     bool            `json:"isActive"`
	MinDuration  int             `json:"minDuration"` // minutes, 0 = no floor
	MaxDuration  int             `json:"maxDuration"` // minutes, 0 = no cap
	FreeMinutes  int             `json:"freeMinutes"`
	Restrictions Restrictions    `json:"restrictions"`
	TieredRates  []TieredRate    `json:"tieredRates,omitempty"`
}

// Validate checks structural invariants. It returns configuration warnings
// separately from hard errors; a warning does not make the tariff unusable.
func (t *Tariff) Validate() ([]string, error) {
	if t.Rate.IsNegative() {
		return nil, ErrInvalidRate
	}
	if !t.RateType.IsValid() {
		return nil, ErrInvalidRateType
	}
	if t.MinDuration < 0 || t.MaxDuration < 0 || t.FreeMinutes < 0 {
		return nil, fmt.Errorf("%w: durations cannot be negative", ErrInvalidRestriction)
	}
	for _, d := range t.Restrictions.DaysOfWeek {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: day of week %d", ErrInvalidRestriction, d)
		}
	}
	for _, r := range t.Restrictions.TimeRanges {
		if _, err := parseClock(r.Start); err != nil {
			return nil, fmt.Errorf("%w: time range start %q", ErrInvalidRestriction, r.Start)
		}
		if _, err := parseClock(r.End); err != nil {
			return nil, fmt.Errorf("%w: time range end %q", ErrInvalidRestriction, r.End)
		}
	}
	if err := validateTiers(t.TieredRates); err != nil {
		return nil, err
	}

	var warnings []string
	if len(t.TieredRates) > 0 && t.RateType == RateHourly && t.Rate.IsPositive() {
		warnings = append(warnings, "both flat rate and tieredRates are set; tiers override the flat rate")
	}
	if len(t.TieredRates) > 0 && t.RateType != RateHourly {
		warnings = append(warnings, "tieredRates are ignored unless rateType is hourly")
	}
	return warnings, nil
}

func validateTiers(tiers []TieredRate) error {
	if len(tiers) == 0 {
		return nil
	}
	if tiers[0].FromMinute != 0 {
		return ErrInvalidTiers
	}
	prev := -1
	for _, tier := range tiers {
		if tier.FromMinute < 0 || tier.Rate.IsNegative() {
			return ErrInvalidTiers
		}
		if tier.FromMinute <= prev {
			return ErrInvalidTiers
		}
		prev = tier.FromMinute
	}
	return nil
}

// EligibleFor reports whether a session may start under this tariff for the
// given player count at the given instant.
func (t *Tariff) EligibleFor(playerCount int, at time.Time) error {
	if !t.IsActive {
		return ErrInactive
	}

	minPlayers := t.Restrictions.MinPlayers
	if minPlayers < 1 {
		minPlayers = 1
	}
	if playerCount < minPlayers {
		return ErrPlayerCount
	}
	if t.Restrictions.MaxPlayers > 0 && playerCount > t.Restrictions.MaxPlayers {
		return ErrPlayerCount
	}

	if len(t.Restrictions.DaysOfWeek) > 0 {
		day := int(at.Weekday())
		found := false
		for _, d := range t.Restrictions.DaysOfWeek {
			if d == day {
				found = true
				break
			}
		}
		if !found {
			return ErrOutsideSchedule
		}
	}

	if len(t.Restrictions.TimeRanges) > 0 {
		minuteOfDay := at.Hour()*60 + at.Minute()
		inRange := false
		for _, r := range t.Restrictions.TimeRanges {
			start, err := parseClock(r.Start)
			if err != nil {
				continue
			}
			end, err := parseClock(r.End)
			if err != nil {
				continue
			}
			if minuteOfDay >= start && minuteOfDay <= end {
				inRange = true
				break
			}
		}
		if !inRange {
			return ErrOutsideSchedule
		}
	}

	return nil
}

// parseClock turns "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value out of range: %s", s)
	}
	return h*60 + m, nil
}
