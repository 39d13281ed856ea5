package session

import (
	"errors"
	"time"

	"cuetab/internal/domain/tariff"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPlayerCount = errors.New("player count must be at least 1")
	ErrNotActive          = errors.New("only active sessions can be paused")
	ErrNotPaused          = errors.New("only paused sessions can be resumed")
	ErrAlreadyEnded       = errors.New("session has already ended")
	ErrNotOpen            = errors.New("session is not active or paused")
	ErrServiceMissing     = errors.New("service not found in session")
	ErrEndBeforeStart     = errors.New("end time cannot precede start time")
)

// Session is one timed occupancy of a table billed under one tariff. Status
// moves active -> paused -> active any number of times and terminates at
// ended; the final totals written by End are never recomputed.
type Session struct {
	id              uuid.UUID
	tableID         uuid.UUID
	tariffID        uuid.UUID
	playerCount     int
	startTime       time.Time
	endTime         *time.Time
	status          Status
	pauseStartTime  *time.Time
	totalPausedTime time.Duration
	notes           string
	metadata        Metadata
	totalAmount     decimal.Decimal
	freeMinutesUsed int
	paidMinutes     int
}

func NewSession(tableID, tariffID uuid.UUID, playerCount int, notes string, now time.Time) (*Session, error) {
	if playerCount < 1 {
		return nil, ErrInvalidPlayerCount
	}
	return &Session{
		id:          uuid.New(),
		tableID:     tableID,
		tariffID:    tariffID,
		playerCount: playerCount,
		startTime:   now,
		status:      StatusActive,
		notes:       notes,
		metadata:    Metadata{Services: []Service{}, Discounts: []Discount{}},
		totalAmount: decimal.Zero,
	}, nil
}

func ReconstructSession(
	id, tableID, tariffID uuid.UUID,
	playerCount int,
	startTime time.Time,
	endTime *time.Time,
	status Status,
	pauseStartTime *time.Time,
	totalPausedTime time.Duration,
	notes string,
	metadata Metadata,
	totalAmount decimal.Decimal,
	freeMinutesUsed, paidMinutes int,
) *Session {
	return &Session{
		id:              id,
		tableID:         tableID,
		tariffID:        tariffID,
		playerCount:     playerCount,
		startTime:       startTime,
		endTime:         endTime,
		status:          status,
		pauseStartTime:  pauseStartTime,
		totalPausedTime: totalPausedTime,
		notes:           notes,
		metadata:        metadata,
		totalAmount:     totalAmount,
		freeMinutesUsed: freeMinutesUsed,
		paidMinutes:     paidMinutes,
	}
}

func (s *Session) ID() uuid.UUID                  { return s.id }
func (s *Session) TableID() uuid.UUID             { return s.tableID }
func (s *Session) TariffID() uuid.UUID            { return s.tariffID }
func (s *Session) PlayerCount() int               { return s.playerCount }
func (s *Session) StartTime() time.Time           { return s.startTime }
func (s *Session) EndTime() *time.Time            { return s.endTime }
func (s *Session) Status() Status                 { return s.status }
func (s *Session) PauseStartTime() *time.Time     { return s.pauseStartTime }
func (s *Session) TotalPausedTime() time.Duration { return s.totalPausedTime }
func (s *Session) Notes() string                  { return s.notes }
func (s *Session) Metadata() Metadata             { return s.metadata }
func (s *Session) TotalAmount() decimal.Decimal   { return s.totalAmount }
func (s *Session) FreeMinutesUsed() int           { return s.freeMinutesUsed }
func (s *Session) PaidMinutes() int               { return s.paidMinutes }

func (s *Session) IsOpen() bool {
	return s.status.IsOpen()
}

// Pause stops the billing clock. The physical table is released by the
// caller; the session keeps its accumulated state.
func (s *Session) Pause(reason string, now time.Time) error {
	if s.status != StatusActive {
		return ErrNotActive
	}
	s.status = StatusPaused
	s.pauseStartTime = &now
	s.metadata.PauseReason = reason
	return nil
}

// Resume restarts the billing clock, folding the pause interval into
// totalPausedTime. Table availability must be re-checked by the caller inside
// the same transaction; another session may have claimed the table meanwhile.
func (s *Session) Resume(now time.Time) error {
	if s.status != StatusPaused || s.pauseStartTime == nil {
		return ErrNotPaused
	}
	paused := now.Sub(*s.pauseStartTime)
	if paused > 0 {
		s.totalPausedTime += paused
	}
	s.pauseStartTime = nil
	s.status = StatusActive
	s.metadata.PauseReason = ""
	return nil
}

// End finalizes the session as of endTime, fixing its totals forever.
func (s *Session) End(t *tariff.Tariff, endTime time.Time, notes string) (Quote, error) {
	if s.status == StatusEnded {
		return Quote{}, ErrAlreadyEnded
	}
	if endTime.Before(s.startTime) {
		return Quote{}, ErrEndBeforeStart
	}

	quote := Price(s, t, endTime)

	s.status = StatusEnded
	s.endTime = &endTime
	s.pauseStartTime = nil
	s.totalAmount = quote.Cost
	s.freeMinutesUsed = quote.FreeMinutesUsed
	s.paidMinutes = quote.TotalMinutes - quote.FreeMinutesUsed
	if notes != "" {
		s.notes = notes
	}
	return quote, nil
}

func (s *Session) AddService(svc Service) error {
	if !s.IsOpen() {
		return ErrNotOpen
	}
	s.metadata.Services = append(s.metadata.Services, svc)
	return nil
}

func (s *Session) RemoveService(serviceID string) error {
	if !s.IsOpen() {
		return ErrNotOpen
	}
	kept := s.metadata.Services[:0]
	removed := false
	for _, svc := range s.metadata.Services {
		if svc.ID == serviceID {
			removed = true
			continue
		}
		kept = append(kept, svc)
	}
	if !removed {
		return ErrServiceMissing
	}
	s.metadata.Services = kept
	return nil
}

func (s *Session) AddDiscount(d Discount) error {
	if !s.IsOpen() {
		return ErrNotOpen
	}
	s.metadata.Discounts = append(s.metadata.Discounts, d)
	return nil
}
