package builder

import (
	"cuetab/internal/domain/tariff"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TariffBuilder assembles tariff values for tests. Defaults mirror a plain
// hourly bar tariff with a short free lead-in.
type TariffBuilder struct {
	tariff tariff.Tariff
}

func NewTariffBuilder() *TariffBuilder {
	return &TariffBuilder{
		tariff: tariff.Tariff{
			ID:          uuid.New(),
			Name:        "Standard Hourly",
			Rate:        decimal.NewFromInt(15),
			RateType:    tariff.RateHourly,
			IsActive:    true,
			MinDuration: 0,
			MaxDuration: 0,
			FreeMinutes: 0,
		},
	}
}

func (b *TariffBuilder) WithName(name string) *TariffBuilder {
	b.tariff.Name = name
	return b
}

func (b *TariffBuilder) WithRate(rate decimal.Decimal) *TariffBuilder {
	b.tariff.Rate = rate
	return b
}

func (b *TariffBuilder) WithRateType(rt tariff.RateType) *TariffBuilder {
	b.tariff.RateType = rt
	return b
}

func (b *TariffBuilder) WithFreeMinutes(minutes int) *TariffBuilder {
	b.tariff.FreeMinutes = minutes
	return b
}

func (b *TariffBuilder) WithMinDuration(minutes int) *TariffBuilder {
	b.tariff.MinDuration = minutes
	return b
}

func (b *TariffBuilder) WithMaxDuration(minutes int) *TariffBuilder {
	b.tariff.MaxDuration = minutes
	return b
}

func (b *TariffBuilder) WithTiers(tiers ...tariff.TieredRate) *TariffBuilder {
	b.tariff.TieredRates = tiers
	return b
}

func (b *TariffBuilder) WithRestrictions(r tariff.Restrictions) *TariffBuilder {
	b.tariff.Restrictions = r
	return b
}

func (b *TariffBuilder) Inactive() *TariffBuilder {
	b.tariff.IsActive = false
	return b
}

func (b *TariffBuilder) Build() *tariff.Tariff {
	t := b.tariff
	return &t
}
