package commands

import (
	"context"
	"time"

	"cuetab/internal/domain/session"
	"cuetab/internal/domain/tariff"
	"cuetab/internal/infra"
	"cuetab/internal/metrics"
	"cuetab/internal/pkg/clock"
	"cuetab/internal/pkg/errs"
	"cuetab/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StartSessionParams struct {
	TableID     uuid.UUID
	TariffID    uuid.UUID
	PlayerCount int
	Notes       string
}

type AddServiceParams struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
	Notes    string
}

// SessionResult is what a lifecycle operation hands back: the mutated session,
// the tariff snapshot it is billed under, and the quote as of the operation.
type SessionResult struct {
	Session *session.Session
	Tariff  *tariff.Tariff
	Quote   session.Quote
}

type SessionCommands interface {
	Start(ctx context.Context, params StartSessionParams) (*SessionResult, error)
	Pause(ctx context.Context, sessionID uuid.UUID, reason string) (*SessionResult, error)
	Resume(ctx context.Context, sessionID uuid.UUID) (*SessionResult, error)
	End(ctx context.Context, sessionID uuid.UUID, endTime *time.Time, notes string) (*SessionResult, error)
	AddService(ctx context.Context, sessionID uuid.UUID, params AddServiceParams) (*SessionResult, error)
	RemoveService(ctx context.Context, sessionID uuid.UUID, serviceID string) (*SessionResult, error)
}

type sessionCommandsImpl struct {
	uow      shared.UnitOfWork
	notifier Notifier
	clock    clock.Clock
	metrics  *metrics.Metrics
}

func NewSessionCommands(uow shared.UnitOfWork, notifier Notifier, clk clock.Clock, m *metrics.Metrics) SessionCommands {
	return &sessionCommandsImpl{
		uow:      uow,
		notifier: notifier,
		clock:    clk,
		metrics:  m,
	}
}

func (c *sessionCommandsImpl) Start(ctx context.Context, params StartSessionParams) (*SessionResult, error) {
	if params.TableID == uuid.Nil || params.TariffID == uuid.Nil {
		return nil, errs.Mark(errs.New("tableId and tariffId are required"), errs.ErrDomainValidation)
	}
	playerCount := params.PlayerCount
	if playerCount == 0 {
		playerCount = 1
	}
	now := c.clock.Now()

	var result *SessionResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		tbl, err := tx.Reads().TableForUpdate(ctx, params.TableID)
		if err != nil {
			return mapReadErr(err, errs.ErrTableNotFound)
		}
		if !tbl.IsAvailable() {
			return errs.ErrTableNotAvailable
		}

		trf, err := tx.Reads().TariffByID(ctx, params.TariffID)
		if err != nil {
			return mapReadErr(err, errs.ErrTariffNotFound)
		}
		if err := trf.EligibleFor(playerCount, now); err != nil {
			return errs.Mark(err, errs.ErrTariffRestriction)
		}

		open, err := tx.Reads().HasOpenSession(ctx, params.TableID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if open {
			return errs.ErrSessionConflict
		}

		s, err := session.NewSession(params.TableID, params.TariffID, playerCount, params.Notes, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		if err := tx.Sessions().Create(ctx, s, trf); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Tables().Claim(ctx, params.TableID); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.ErrTableNotAvailable
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		result = &SessionResult{Session: s, Tariff: trf, Quote: session.Price(s, trf, now)}
		return nil
	})
	c.observe("start", err)
	if err != nil {
		return nil, err
	}

	c.notifySession(result.Session)
	c.notifier.NotifyTableUpdated(TableDelta{ID: params.TableID, Status: "occupied"})
	return result, nil
}

func (c *sessionCommandsImpl) Pause(ctx context.Context, sessionID uuid.UUID, reason string) (*SessionResult, error) {
	now := c.clock.Now()

	var result *SessionResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Reads().SessionForUpdate(ctx, sessionID)
		if err != nil {
			return mapReadErr(err, errs.ErrSessionNotFound)
		}

		if err := rec.Session.Pause(reason, now); err != nil {
			return errs.Mark(err, errs.ErrSessionNotActive)
		}
		if err := tx.Sessions().Update(ctx, rec.Session); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		// A paused session keeps its billing state but gives the physical
		// table back to the floor.
		if err := tx.Tables().Release(ctx, rec.Session.TableID()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		result = &SessionResult{Session: rec.Session, Tariff: rec.Tariff, Quote: session.Price(rec.Session, rec.Tariff, now)}
		return nil
	})
	c.observe("pause", err)
	if err != nil {
		return nil, err
	}

	c.notifySession(result.Session)
	c.notifier.NotifyTableUpdated(TableDelta{ID: result.Session.TableID(), Status: "available"})
	return result, nil
}

func (c *sessionCommandsImpl) Resume(ctx context.Context, sessionID uuid.UUID) (*SessionResult, error) {
	now := c.clock.Now()

	var result *SessionResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Reads().SessionForUpdate(ctx, sessionID)
		if err != nil {
			return mapReadErr(err, errs.ErrSessionNotFound)
		}
		if rec.Session.Status() != session.StatusPaused {
			return errs.ErrSessionNotPaused
		}

		// The table may have been claimed by another session while this one
		// was paused; the row must be re-read here, not trusted from cache.
		tbl, err := tx.Reads().TableForUpdate(ctx, rec.Session.TableID())
		if err != nil {
			return mapReadErr(err, errs.ErrTableNotFound)
		}
		if !tbl.IsAvailable() {
			return errs.ErrTableNotAvailable
		}

		if err := rec.Session.Resume(now); err != nil {
			return errs.Mark(err, errs.ErrSessionNotPaused)
		}
		if err := tx.Sessions().Update(ctx, rec.Session); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Tables().Claim(ctx, rec.Session.TableID()); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.ErrTableNotAvailable
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		result = &SessionResult{Session: rec.Session, Tariff: rec.Tariff, Quote: session.Price(rec.Session, rec.Tariff, now)}
		return nil
	})
	c.observe("resume", err)
	if err != nil {
		return nil, err
	}

	c.notifySession(result.Session)
	c.notifier.NotifyTableUpdated(TableDelta{ID: result.Session.TableID(), Status: "occupied"})
	return result, nil
}

func (c *sessionCommandsImpl) End(ctx context.Context, sessionID uuid.UUID, endTime *time.Time, notes string) (*SessionResult, error) {
	endAt := c.clock.Now()
	if endTime != nil {
		endAt = *endTime
	}

	var result *SessionResult
	var releaseTable bool
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Reads().SessionForUpdate(ctx, sessionID)
		if err != nil {
			return mapReadErr(err, errs.ErrSessionNotFound)
		}

		// A paused session no longer occupies the table; freeing it here
		// could steal it from a session that claimed it meanwhile.
		releaseTable = rec.Session.Status() == session.StatusActive

		quote, err := rec.Session.End(rec.Tariff, endAt, notes)
		if err != nil {
			switch err {
			case session.ErrAlreadyEnded:
				return errs.ErrSessionAlreadyEnded
			default:
				return errs.Mark(err, errs.ErrDomainValidation)
			}
		}
		if err := tx.Sessions().Update(ctx, rec.Session); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if releaseTable {
			if err := tx.Tables().Release(ctx, rec.Session.TableID()); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		result = &SessionResult{Session: rec.Session, Tariff: rec.Tariff, Quote: quote}
		return nil
	})
	c.observe("end", err)
	if err != nil {
		return nil, err
	}

	c.notifySession(result.Session)
	if releaseTable {
		c.notifier.NotifyTableUpdated(TableDelta{ID: result.Session.TableID(), Status: "available"})
	}
	return result, nil
}

func (c *sessionCommandsImpl) AddService(ctx context.Context, sessionID uuid.UUID, params AddServiceParams) (*SessionResult, error) {
	now := c.clock.Now()

	svc, err := session.NewService(uuid.NewString(), params.Name, params.Price, params.Quantity, now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	svc.Notes = params.Notes

	var result *SessionResult
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Reads().SessionForUpdate(ctx, sessionID)
		if err != nil {
			return mapReadErr(err, errs.ErrSessionNotFound)
		}
		if err := rec.Session.AddService(svc); err != nil {
			return errs.Mark(err, errs.ErrSessionAlreadyEnded)
		}
		if err := tx.Sessions().Update(ctx, rec.Session); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		result = &SessionResult{Session: rec.Session, Tariff: rec.Tariff, Quote: session.Price(rec.Session, rec.Tariff, now)}
		return nil
	})
	c.observe("add_service", err)
	if err != nil {
		return nil, err
	}

	c.notifySession(result.Session)
	return result, nil
}

func (c *sessionCommandsImpl) RemoveService(ctx context.Context, sessionID uuid.UUID, serviceID string) (*SessionResult, error) {
	now := c.clock.Now()

	var result *SessionResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Reads().SessionForUpdate(ctx, sessionID)
		if err != nil {
			return mapReadErr(err, errs.ErrSessionNotFound)
		}
		if err := rec.Session.RemoveService(serviceID); err != nil {
			switch err {
			case session.ErrServiceMissing:
				return errs.ErrServiceNotFound
			default:
				return errs.Mark(err, errs.ErrSessionAlreadyEnded)
			}
		}
		if err := tx.Sessions().Update(ctx, rec.Session); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		result = &SessionResult{Session: rec.Session, Tariff: rec.Tariff, Quote: session.Price(rec.Session, rec.Tariff, now)}
		return nil
	})
	c.observe("remove_service", err)
	if err != nil {
		return nil, err
	}

	c.notifySession(result.Session)
	return result, nil
}

func (c *sessionCommandsImpl) notifySession(s *session.Session) {
	c.notifier.NotifySessionUpdated(SessionDelta{
		ID:          s.ID(),
		TableID:     s.TableID(),
		Status:      s.Status().String(),
		StartTime:   s.StartTime(),
		EndTime:     s.EndTime(),
		PlayerCount: s.PlayerCount(),
		TotalAmount: s.TotalAmount(),
	})
}

func (c *sessionCommandsImpl) observe(op string, err error) {
	if c.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.metrics.LifecycleOps.WithLabelValues(op, outcome).Inc()
}

func mapReadErr(err error, notFound error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return notFound
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}
