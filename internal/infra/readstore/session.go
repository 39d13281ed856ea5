package readstore

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"cuetab/internal/domain/session"
	"cuetab/internal/domain/tariff"
	"cuetab/internal/infra"
	"cuetab/internal/infra/db"
	"cuetab/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SessionReadStore struct {
	db db.DBTX
}

func NewSessionReadStore(dbtx db.DBTX) *SessionReadStore {
	return &SessionReadStore{db: dbtx}
}

const sessionColumns = `
    s.id, s.table_id, s.tariff_id, s.tariff_snapshot, s.player_count,
    s.start_time, s.end_time, s.status, s.pause_start_time, s.total_paused_ms,
    s.notes, s.metadata, s.total_amount::text, s.free_minutes_used, s.paid_minutes,
    t.name as table_name`

const sessionByIDQuery = `
select` + sessionColumns + `
from table_sessions s
join tables t on t.id = s.table_id
where s.id = $1`

func (r *SessionReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.SessionRecord, error) {
	rows, err := r.db.Query(ctx, sessionByIDQuery, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query session", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, infra.WrapRepoErr("failed to read session row", err)
		}
		return nil, infra.NewRepositoryError("session not found", infra.KindNotFound)
	}
	rec, err := scanSessionRecord(rows)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan session row", err)
	}
	return rec, nil
}

const openSessionsQuery = `
select` + sessionColumns + `
from table_sessions s
join tables t on t.id = s.table_id
where s.status in ('active', 'paused')
order by s.start_time`

func (r *SessionReadStore) FindOpen(ctx context.Context) ([]*queries.SessionRecord, error) {
	rows, err := r.db.Query(ctx, openSessionsQuery)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query open sessions", err)
	}
	defer rows.Close()
	return collectSessionRecords(rows)
}

// Find builds the listing query from the filter. Conditions are appended in a
// fixed order so placeholder numbering stays stable.
func (r *SessionReadStore) Find(ctx context.Context, filter queries.SessionFilter) ([]*queries.SessionRecord, error) {
	query := `
select` + sessionColumns + `
from table_sessions s
join tables t on t.id = s.table_id
where 1=1`
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += " and s.status = $" + strconv.Itoa(len(args))
	} else if !filter.IncludeEnded {
		query += " and s.status in ('active', 'paused')"
	}
	if filter.TableID != nil {
		args = append(args, *filter.TableID)
		query += " and s.table_id = $" + strconv.Itoa(len(args))
	}
	if filter.StartedFrom != nil {
		args = append(args, *filter.StartedFrom)
		query += " and s.start_time >= $" + strconv.Itoa(len(args))
	}
	if filter.StartedUntil != nil {
		args = append(args, *filter.StartedUntil)
		query += " and s.start_time <= $" + strconv.Itoa(len(args))
	}
	query += " order by s.start_time desc"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query sessions", err)
	}
	defer rows.Close()
	return collectSessionRecords(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

type sessionRows interface {
	Next() bool
	Err() error
	Scan(dest ...any) error
}

func collectSessionRecords(rows sessionRows) ([]*queries.SessionRecord, error) {
	records := []*queries.SessionRecord{}
	for rows.Next() {
		rec, err := scanSessionRecord(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan session row", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read session rows", err)
	}
	return records, nil
}

func scanSessionRecord(row rowScanner) (*queries.SessionRecord, error) {
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
		tableName             string
	)
	if err := row.Scan(
		&id, &tableID, &tariffID, &snapshotJSON, &playerCount,
		&startTime, &endTime, &status, &pauseStartTime, &totalPausedMs,
		&notes, &metadataJSON, &totalAmountText, &freeMinutesUsed, &paidMinutes,
		&tableName,
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
	return &queries.SessionRecord{Session: entity, Tariff: &snapshot, TableName: tableName}, nil
}
