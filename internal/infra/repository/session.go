package repository

import (
	"context"
	"encoding/json"
	"time"

	"cuetab/internal/domain/session"
	"cuetab/internal/domain/tariff"
	"cuetab/internal/infra"
	"cuetab/internal/infra/db"
	"cuetab/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SessionRepository struct {
	db db.DBTX
}

func NewSessionRepository(dbtx db.DBTX) *SessionRepository {
	return &SessionRepository{db: dbtx}
}

const insertSessionQuery = `
insert into table_sessions (
    id, table_id, tariff_id, tariff_snapshot, player_count,
    start_time, end_time, status, pause_start_time, total_paused_ms,
    notes, metadata, total_amount, free_minutes_used, paid_minutes
) values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

func (r *SessionRepository) Create(ctx context.Context, s *session.Session, snapshot *tariff.Tariff) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return infra.WrapRepoErr("failed to marshal tariff snapshot", err)
	}
	metadataJSON, err := json.Marshal(s.Metadata())
	if err != nil {
		return infra.WrapRepoErr("failed to marshal session metadata", err)
	}

	_, err = r.db.Exec(ctx, insertSessionQuery,
		s.ID(), s.TableID(), s.TariffID(), snapshotJSON, s.PlayerCount(),
		s.StartTime(), s.EndTime(), string(s.Status()), s.PauseStartTime(), s.TotalPausedTime().Milliseconds(),
		s.Notes(), metadataJSON, s.TotalAmount().String(), s.FreeMinutesUsed(), s.PaidMinutes(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert session", err)
	}
	return nil
}

const updateSessionQuery = `
update table_sessions set
    end_time = $2,
    status = $3,
    pause_start_time = $4,
    total_paused_ms = $5,
    notes = $6,
    metadata = $7,
    total_amount = $8,
    free_minutes_used = $9,
    paid_minutes = $10,
    updated_at = now()
where id = $1`

func (r *SessionRepository) Update(ctx context.Context, s *session.Session) error {
	metadataJSON, err := json.Marshal(s.Metadata())
	if err != nil {
		return infra.WrapRepoErr("failed to marshal session metadata", err)
	}

	tag, err := r.db.Exec(ctx, updateSessionQuery,
		s.ID(), s.EndTime(), string(s.Status()), s.PauseStartTime(), s.TotalPausedTime().Milliseconds(),
		s.Notes(), metadataJSON, s.TotalAmount().String(), s.FreeMinutesUsed(), s.PaidMinutes(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update session", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepositoryError("session not found", infra.KindNotFound)
	}
	return nil
}

const sessionForUpdateQuery = `
select id, table_id, tariff_id, tariff_snapshot, player_count,
       start_time, end_time, status, pause_start_time, total_paused_ms,
       notes, metadata, total_amount::text, free_minutes_used, paid_minutes
from table_sessions
where id = $1
for update`

// FindForUpdate locks the session row and rehydrates it together with the
// tariff snapshot captured at start time.
func (r *SessionRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*shared.SessionWithTariff, error) {
	row := r.db.QueryRow(ctx, sessionForUpdateQuery, id)
	rec, err := scanSessionRow(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find session for update", err)
	}
	return rec, nil
}

const hasOpenSessionQuery = `
select exists (
    select 1 from table_sessions
    where table_id = $1 and status in ('active', 'paused')
)`

func (r *SessionRepository) HasOpen(ctx context.Context, tableID uuid.UUID) (bool, error) {
	var open bool
	if err := r.db.QueryRow(ctx, hasOpenSessionQuery, tableID).Scan(&open); err != nil {
		return false, infra.WrapRepoErr("failed to check open sessions", err)
	}
	return open, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSessionRow(row rowScanner) (*shared.SessionWithTariff, error) {
	var (
		id, tableID, tariffID uuid.UUID
		snapshotJSON          []byte
		playerCount           int
		startTime             time.Time
		endTime               *time.Time
		status                string
		pauseStartTime        *time.Time
		totalPausedMs         int64
		notes                 string
		metadataJSON          []byte
		totalAmountText       string
		freeMinutesUsed       int
		paidMinutes           int
	)
	if err := row.Scan(
		&id, &tableID, &tariffID, &snapshotJSON, &playerCount,
		&startTime, &endTime, &status, &pauseStartTime, &totalPausedMs,
		&notes, &metadataJSON, &totalAmountText, &freeMinutesUsed, &paidMinutes,
	); err != nil {
		return nil, err
	}

	var snapshot tariff.Tariff
	if err := json.Unmarshal(snapshotJSON, &snapshot); err != nil {
		return nil, err
	}
	var metadata session.Metadata
	if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
		return nil, err
	}
	totalAmount, err := decimal.NewFromString(totalAmountText)
	if err != nil {
		return nil, err
	}

	entity := session.ReconstructSession(
		id, tableID, tariffID,
		playerCount,
		startTime, endTime,
		session.Status(status),
		pauseStartTime,
		time.Duration(totalPausedMs)*time.Millisecond,
		notes, metadata, totalAmount,
		freeMinutesUsed, paidMinutes,
	)
	return &shared.SessionWithTariff{Session: entity, Tariff: &snapshot}, nil
}
