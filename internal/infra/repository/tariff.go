package repository

import (
	"context"
	"encoding/json"

	"cuetab/internal/domain/tariff"
	"cuetab/internal/infra"
	"cuetab/internal/infra/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TariffRepository struct {
	db db.DBTX
}

func NewTariffRepository(dbtx db.DBTX) *TariffRepository {
	return &TariffRepository{db: dbtx}
}

const tariffByIDQuery = `
select id, name, rate::text, rate_type, is_active, min_duration, max_duration, free_minutes, restrictions, tiered_rates
from tariffs
where id = $1`

func (r *TariffRepository) FindByID(ctx context.Context, id uuid.UUID) (*tariff.Tariff, error) {
	var (
		t                tariff.Tariff
		rateText         string
		rateType         string
		restrictionsJSON []byte
		tiersJSON        []byte
	)
	err := r.db.QueryRow(ctx, tariffByIDQuery, id).Scan(
		&t.ID, &t.Name, &rateText, &rateType, &t.IsActive,
		&t.MinDuration, &t.MaxDuration, &t.FreeMinutes,
		&restrictionsJSON, &tiersJSON,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("tariff not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find tariff by id", err)
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
	return &t, nil
}
