package builder

import (
	"time"

	"cuetab/internal/domain/session"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionBuilder assembles sessions in arbitrary lifecycle states without
// replaying the transitions that would normally produce them.
type SessionBuilder struct {
	id          uuid.UUID
	tableID     uuid.UUID
	tariffID    uuid.UUID
	playerCount int
	startTime   time.Time
	endTime     *time.Time
	status      session.Status
	pauseStart  *time.Time
	totalPaused time.Duration
	notes       string
	metadata    session.Metadata
	totalAmount decimal.Decimal
	freeMinutes int
	paidMinutes int
}

func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{
		id:          uuid.New(),
		tableID:     uuid.New(),
		tariffID:    uuid.New(),
		playerCount: 2,
		startTime:   time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC),
		status:      session.StatusActive,
		metadata:    session.Metadata{Services: []session.Service{}, Discounts: []session.Discount{}},
		totalAmount: decimal.Zero,
	}
}

func (b *SessionBuilder) WithID(id uuid.UUID) *SessionBuilder {
	b.id = id
	return b
}

func (b *SessionBuilder) WithTableID(id uuid.UUID) *SessionBuilder {
	b.tableID = id
	return b
}

func (b *SessionBuilder) WithTariffID(id uuid.UUID) *SessionBuilder {
	b.tariffID = id
	return b
}

func (b *SessionBuilder) WithPlayerCount(count int) *SessionBuilder {
	b.playerCount = count
	return b
}

func (b *SessionBuilder) WithStartTime(t time.Time) *SessionBuilder {
	b.startTime = t
	return b
}

func (b *SessionBuilder) Paused(pauseStart time.Time) *SessionBuilder {
	b.status = session.StatusPaused
	b.pauseStart = &pauseStart
	return b
}

func (b *SessionBuilder) WithTotalPaused(d time.Duration) *SessionBuilder {
	b.totalPaused = d
	return b
}

func (b *SessionBuilder) Ended(endTime time.Time, total decimal.Decimal, freeMinutes, paidMinutes int) *SessionBuilder {
	b.status = session.StatusEnded
	b.endTime = &endTime
	b.totalAmount = total
	b.freeMinutes = freeMinutes
	b.paidMinutes = paidMinutes
	return b
}

func (b *SessionBuilder) WithServices(services ...session.Service) *SessionBuilder {
	b.metadata.Services = services
	return b
}

func (b *SessionBuilder) WithDiscounts(discounts ...session.Discount) *SessionBuilder {
	b.metadata.Discounts = discounts
	return b
}

func (b *SessionBuilder) WithNotes(notes string) *SessionBuilder {
	b.notes = notes
	return b
}

func (b *SessionBuilder) Build() *session.Session {
	return session.ReconstructSession(
		b.id, b.tableID, b.tariffID,
		b.playerCount,
		b.startTime, b.endTime,
		b.status,
		b.pauseStart, b.totalPaused,
		b.notes, b.metadata, b.totalAmount,
		b.freeMinutes, b.paidMinutes,
	)
}
