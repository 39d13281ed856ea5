package readstore

import (
	"context"
	"encoding/json"

	"cuetab/internal/domain/tariff"
	"cuetab/internal/infra"
	"cuetab/internal/infra/db"

	"github.com/shopspring/decimal"
)

type TariffReadStore struct {
	db db.DBTX
}

func NewTariffReadStore(dbtx db.DBTX) *TariffReadStore {
	return &TariffReadStore{db: dbtx}
}

const activeTariffsQuery = `
select id, name, rate::text, rate_type, is_active, min_duration, max_duration, free_minutes, restrictions, tiered_rates
from tariffs
where is_active
order by name`

func (r *TariffReadStore) FindActive(ctx context.Context) ([]*tariff.Tariff, error) {
	rows, err := r.db.Query(ctx, activeTariffsQuery)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query active tariffs", err)
	}
	defer rows.Close()

	tariffs := []*tariff.Tariff{}
	for rows.Next() {
		var (
			t                tariff.Tariff
			rateText         string
			rateType         string
			restrictionsJSON []byte
			tiersJSON        []byte
		)
		if err := rows.Scan(
			&t.ID, &t.Name, &rateText, &rateType, &t.IsActive,
			&t.MinDuration, &t.MaxDuration, &t.FreeMinutes,
			&restrictionsJSON, &tiersJSON,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan tariff row", err)
		}

		rate, err := decimal.NewFromString(rateText)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid tariff rate", err)
		}
		t.Rate = rate
		t.RateType = tariff.RateType(rateType)

		if len(restrictionsJSON) > 0 {
			if err := json.Unmarshal(restrictionsJSON, &t.Restrictions); err != nil {
				return nil, infra.WrapRepoErr("invalid tariff restrictions", err)
			}
		}
		if len(tiersJSON) > 0 {
			if err := json.Unmarshal(tiersJSON, &t.TieredRates); err != nil {
				return nil, infra.WrapRepoErr("invalid tiered rates", err)
			}
		}
		tariffs = append(tariffs, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read tariff rows", err)
	}
	return tariffs, nil
}
