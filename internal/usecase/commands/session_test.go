//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"cuetab/internal/domain/session"
	"cuetab/internal/domain/table"
	"cuetab/internal/domain/tariff"
	"cuetab/internal/infra"
	"cuetab/internal/metrics"
	"cuetab/internal/pkg/clock"
	"cuetab/internal/pkg/errs"
	"cuetab/internal/usecase/commands"
	"cuetab/internal/usecase/shared"
	"cuetab/tests/common/builder"
	commandsmock "cuetab/tests/mock/commands"
	sharedmock "cuetab/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

type fixture struct {
	uow      *sharedmock.MockUnitOfWork
	tx       *sharedmock.MockTx
	reads    *sharedmock.MockCommandReads
	sessions *sharedmock.MockSessionRepository
	tables   *sharedmock.MockTableRepository
	notifier *commandsmock.MockNotifier
	clock    *clock.MockClock
	cmds     commands.SessionCommands
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		uow:      sharedmock.NewMockUnitOfWork(ctrl),
		tx:       sharedmock.NewMockTx(ctrl),
		reads:    sharedmock.NewMockCommandReads(ctrl),
		sessions: sharedmock.NewMockSessionRepository(ctrl),
		tables:   sharedmock.NewMockTableRepository(ctrl),
		notifier: commandsmock.NewMockNotifier(ctrl),
		clock:    clock.NewMockClock(now),
	}
	f.tx.EXPECT().Reads().Return(f.reads).AnyTimes()
	f.tx.EXPECT().Sessions().Return(f.sessions).AnyTimes()
	f.tx.EXPECT().Tables().Return(f.tables).AnyTimes()
	f.uow.EXPECT().Within(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, f.tx)
		}).AnyTimes()
	f.cmds = commands.NewSessionCommands(f.uow, f.notifier, f.clock, metrics.NewForTest())
	return f
}

func availableTable(t *testing.T, id uuid.UUID) *table.Table {
	t.Helper()
	tbl, err := table.ReconstructTable(id, uuid.New(), "Table 1", "main", table.StatusAvailable, table.Position{})
	require.NoError(t, err)
	return tbl
}

func occupiedTable(t *testing.T, id uuid.UUID) *table.Table {
	t.Helper()
	tbl, err := table.ReconstructTable(id, uuid.New(), "Table 1", "main", table.StatusOccupied, table.Position{})
	require.NoError(t, err)
	return tbl
}

func notFound() error {
	return infra.NewRepositoryError("no rows", infra.KindNotFound)
}

func TestSessionCommands_Start(t *testing.T) {
	tableID := uuid.New()
	tariffID := uuid.New()
	params := commands.StartSessionParams{TableID: tableID, TariffID: tariffID, PlayerCount: 2}

	t.Run("starts a session and claims the table", func(t *testing.T) {
		f := newFixture(t)
		trf := builder.NewTariffBuilder().Build()

		f.reads.EXPECT().TableForUpdate(gomock.Any(), tableID).Return(availableTable(t, tableID), nil)
		f.reads.EXPECT().TariffByID(gomock.Any(), tariffID).Return(trf, nil)
		f.reads.EXPECT().HasOpenSession(gomock.Any(), tableID).Return(false, nil)
		f.sessions.EXPECT().Create(gomock.Any(), gomock.Any(), trf).Return(nil)
		f.tables.EXPECT().Claim(gomock.Any(), tableID).Return(nil)
		f.notifier.EXPECT().NotifySessionUpdated(gomock.Any())
		f.notifier.EXPECT().NotifyTableUpdated(commands.TableDelta{ID: tableID, Status: "occupied"})

		result, err := f.cmds.Start(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, session.StatusActive, result.Session.Status())
		assert.Equal(t, tableID, result.Session.TableID())
		assert.Equal(t, 2, result.Session.PlayerCount())
		assert.True(t, result.Quote.Cost.IsZero(), "nothing billable at start instant")
	})

	t.Run("defaults player count to one", func(t *testing.T) {
		f := newFixture(t)
		trf := builder.NewTariffBuilder().Build()

		f.reads.EXPECT().TableForUpdate(gomock.Any(), tableID).Return(availableTable(t, tableID), nil)
		f.reads.EXPECT().TariffByID(gomock.Any(), tariffID).Return(trf, nil)
		f.reads.EXPECT().HasOpenSession(gomock.Any(), tableID).Return(false, nil)
		f.sessions.EXPECT().Create(gomock.Any(), gomock.Any(), trf).Return(nil)
		f.tables.EXPECT().Claim(gomock.Any(), tableID).Return(nil)
		f.notifier.EXPECT().NotifySessionUpdated(gomock.Any())
		f.notifier.EXPECT().NotifyTableUpdated(gomock.Any())

		result, err := f.cmds.Start(context.Background(), commands.StartSessionParams{TableID: tableID, TariffID: tariffID})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Session.PlayerCount())
	})

	t.Run("rejects missing ids before opening a transaction", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.cmds.Start(context.Background(), commands.StartSessionParams{TariffID: tariffID})
		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("occupied table", func(t *testing.T) {
		f := newFixture(t)

		f.reads.EXPECT().TableForUpdate(gomock.Any(), tableID).Return(occupiedTable(t, tableID), nil)

		_, err := f.cmds.Start(context.Background(), params)
		assert.ErrorIs(t, err, errs.ErrTableNotAvailable)
	})

	t.Run("unknown table", func(t *testing.T) {
		f := newFixture(t)

		f.reads.EXPECT().TableForUpdate(gomock.Any(), tableID).Return(nil, notFound())

		_, err := f.cmds.Start(context.Background(), params)
		assert.ErrorIs(t, err, errs.ErrTableNotFound)
	})

	t.Run("tariff restriction", func(t *testing.T) {
		f := newFixture(t)
		trf := builder.NewTariffBuilder().
			WithRestrictions(tariff.Restrictions{MinPlayers: 4}).
			Build()

		f.reads.EXPECT().TableForUpdate(gomock.Any(), tableID).Return(availableTable(t, tableID), nil)
		f.reads.EXPECT().TariffByID(gomock.Any(), tariffID).Return(trf, nil)

		_, err := f.cmds.Start(context.Background(), params)
		assert.ErrorIs(t, err, errs.ErrTariffRestriction)
	})

	t.Run("open session already on the table", func(t *testing.T) {
		f := newFixture(t)
		trf := builder.NewTariffBuilder().Build()

		f.reads.EXPECT().TableForUpdate(gomock.Any(), tableID).Return(availableTable(t, tableID), nil)
		f.reads.EXPECT().TariffByID(gomock.Any(), tariffID).Return(trf, nil)
		f.reads.EXPECT().HasOpenSession(gomock.Any(), tableID).Return(true, nil)

		_, err := f.cmds.Start(context.Background(), params)
		assert.ErrorIs(t, err, errs.ErrSessionConflict)
	})

	t.Run("claim race loses to a concurrent start", func(t *testing.T) {
		f := newFixture(t)
		trf := builder.NewTariffBuilder().Build()

		f.reads.EXPECT().TableForUpdate(gomock.Any(), tableID).Return(availableTable(t, tableID), nil)
		f.reads.EXPECT().TariffByID(gomock.Any(), tariffID).Return(trf, nil)
		f.reads.EXPECT().HasOpenSession(gomock.Any(), tableID).Return(false, nil)
		f.sessions.EXPECT().Create(gomock.Any(), gomock.Any(), trf).Return(nil)
		f.tables.EXPECT().Claim(gomock.Any(), tableID).
			Return(infra.NewRepositoryError("table is not available", infra.KindConflict))

		_, err := f.cmds.Start(context.Background(), params)
		assert.ErrorIs(t, err, errs.ErrTableNotAvailable)
	})
}

func TestSessionCommands_Pause(t *testing.T) {
	sessionID := uuid.New()
	tableID := uuid.New()

	t.Run("pauses and releases the table", func(t *testing.T) {
		f := newFixture(t)
		s := builder.NewSessionBuilder().WithID(sessionID).WithTableID(tableID).WithStartTime(now.Add(-time.Hour)).Build()
		trf := builder.NewTariffBuilder().Build()

		f.reads.EXPECT().SessionForUpdate(gomock.Any(), sessionID).
			Return(&shared.SessionWithTariff{Session: s, Tariff: trf}, nil)
		f.sessions.EXPECT().Update(gomock.Any(), s).Return(nil)
		f.tables.EXPECT().Release(gomock.Any(), tableID).Return(nil)
		f.notifier.EXPECT().NotifySessionUpdated(gomock.Any())
		f.notifier.EXPECT().NotifyTableUpdated(commands.TableDelta{ID: tableID, Status: "available"})

		result, err := f.cmds.Pause(context.Background(), sessionID, "break")
		require.NoError(t, err)
		assert.Equal(t, session.StatusPaused, result.Session.Status())
		require.NotNil(t, result.Session.PauseStartTime())
		assert.Equal(t, now, *result.Session.PauseStartTime())
	})

	t.Run("paused session cannot be paused again", func(t *testing.T) {
		f := newFixture(t)
		s := builder.NewSessionBuilder().WithID(sessionID).WithTableID(tableID).
			WithStartTime(now.Add(-time.Hour)).Paused(now.Add(-10 * time.Minute)).Build()
		trf := builder.NewTariffBuilder().Build()

		f.reads.EXPECT().SessionForUpdate(gomock.Any(), sessionID).
			Return(&shared.SessionWithTariff{Session: s, Tariff: trf}, nil)

		_, err := f.cmds.Pause(context.Background(), sessionID, "")
		assert.ErrorIs(t, err, errs.ErrSessionNotActive)
	})

	t.Run("unknown session", func(t *testing.T) {
		f := newFixture(t)

		f.reads.EXPECT().SessionForUpdate(gomock.Any(), sessionID).Return(nil, notFound())

		_, err := f.cmds.Pause(context.Background(), sessionID, "")
		assert.ErrorIs(t, err, errs.ErrSessionNotFound)
	})
}

func TestSessionCommands_Resume(t *testing.T) {
	sessionID := uuid.New()
	tableID := uuid.New()

	t.Run("resumes and reclaims the table", func(t *testing.T) {
		f := newFixture(t)
		s := builder.NewSessionBuilder().WithID(sessionID).WithTableID(tableID).
			WithStartTime(now.Add(-time.Hour)).Paused(now.Add(-10 * time.Minute)).Build()
		trf := builder.NewTariffBuilder().Build()

		f.reads.EXPECT().SessionForUpdate(gomock.Any(), sessionID).
			Return(&shared.SessionWithTariff{Session: s, Tariff: trf}, nil)
		f.reads.EXPECT().TableForUpdate(gomock.Any(), tableID).Return(availableTable(t, tableID), nil)
		f.sessions.EXPECT().Update(gomock.Any(), s).Return(nil)
		f.tables.EXPECT().Claim(gomock.Any(), tableID).Return(nil)
		f.notifier.EXPECT().NotifySessionUpdated(gomock.Any())
		f.notifier.EXPECT().NotifyTableUpdated(commands.TableDelta{ID: tableID, Status: "occupied"})

		result, err := f.cmds.Resume(context.Background(), sessionID)
		require.NoError(t, err)
		assert.Equal(t, session.StatusActive, result.Session.Status())
		assert.Equal(t, 10*time.Minute, result.Session.TotalPausedTime())
	})

	t.Run("table reclaimed while paused", func(t *testing.T) {
		f := newFixture(t)
		s := builder.NewSessionBuilder().WithID(sessionID).WithTableID(tableID).
			WithStartTime(now.Add(-time.Hour)).Paused(now.Add(-10 * time.Minute)).Build()
		trf := builder.NewTariffBuilder().Build()

		f.reads.EXPECT().SessionForUpdate(gomock.Any(), sessionID).
			Return(&shared.SessionWithTariff{Session: s, Tariff: trf}, nil)
		f.reads.EXPECT().TableForUpdate(gomock.Any(), tableID).Return(occupiedTable(t, tableID), nil)

		_, err := f.cmds.Resume(context.Background(), sessionID)
		assert.ErrorIs(t, err, errs.ErrTableNotAvailable)
	})

	t.Run("active session cannot be resumed", func(t *testing.T) {
		f := newFixture(t)
		s := builder.NewSessionBuilder().WithID(sessionID).WithTableID(tableID).
			WithStartTime(now.Add(-time.Hour)).Build()
		trf := builder.NewTariffBuilder().Build()

		f.reads.EXPECT().SessionForUpdate(gomock.Any(), sessionID).
			Return(&shared.SessionWithTariff{Session: s, Tariff: trf}, nil)

		_, err := f.cmds.Resume(context.Background(), sessionID)
		assert.ErrorIs(t, err, errs.ErrSessionNotPaused)
	})
}

func TestSessionCommands_End(t *testing.T) {
	sessionID := uuid.New()
	tableID := uuid.New()

	t.Run("ends an active session and frees the table", func(t *testing.T) {
		f := newFixture(t)
		s := builder.NewSessionBuilder().WithID(sessionID).WithTableID(tableID).
			WithStartTime(now.Add(-75 * time.Minute)).Build()
		trf := builder.NewTariffBuilder().WithRate(decimal.NewFromInt(15)).WithFreeMinutes(15).Build()

		f.reads.EXPECT().SessionForUpdate(gomock.Any(), sessionID).
			Return(&shared.SessionWithTariff{Session: s, Tariff: trf}, nil)
		f.sessions.EXPECT().Update(gomock.Any(), s).Return(nil)
		f.tables.EXPECT().Release(gomock.Any(), tableID).Return(nil)
		f.notifier.EXPECT().NotifySessionUpdated(gomock.Any())
		f.notifier.EXPECT().NotifyTableUpdated(commands.TableDelta{ID: tableID, Status: "available"})

		result, err := f.cmds.End(context.Background(), sessionID, nil, "closing out")
		require.NoError(t, err)
		assert.Equal(t, session.StatusEnded, result.Session.Status())
		assert.Equal(t, 75, result.Quote.TotalMinutes)
		assert.Equal(t, 60, result.Quote.BillableMinutes)
		assert.True(t, decimal.NewFromInt(15).Equal(result.Quote.Cost))
		assert.True(t, result.Session.TotalAmount().Equal(result.Quote.Cost))
	})

	t.Run("ending a paused session leaves the table alone", func(t *testing.T) {
		f := newFixture(t)
		s := builder.NewSessionBuilder().WithID(sessionID).WithTableID(tableID).
			WithStartTime(now.Add(-time.Hour)).Paused(now.Add(-10 * time.Minute)).Build()
		trf := builder.NewTariffBuilder().Build()

		f.reads.EXPECT().SessionForUpdate(gomock.Any(), sessionID).
			Return(&shared.SessionWithTariff{Session: s, Tariff: trf}, nil)
		f.sessions.EXPECT().Update(gomock.Any(), s).Return(nil)
		f.notifier.EXPECT().NotifySessionUpdated(gomock.Any())

		result, err := f.cmds.End(context.Background(), sessionID, nil, "")
		require.NoError(t, err)
		assert.Equal(t, session.StatusEnded, result.Session.Status())
	})

	t.Run("explicit end time wins over the clock", func(t *testing.T) {
		f := newFixture(t)
		s := builder.NewSessionBuilder().WithID(sessionID).WithTableID(tableID).
			WithStartTime(now.Add(-2 * time.Hour)).Build()
		trf := builder.NewTariffBuilder().WithRate(decimal.NewFromInt(10)).WithFreeMinutes(0).Build()

		f.reads.EXPECT().SessionForUpdate(gomock.Any(), sessionID).
			Return(&shared.SessionWithTariff{Session: s, Tariff: trf}, nil)
		f.sessions.EXPECT().Update(gomock.Any(), s).Return(nil)
		f.tables.EXPECT().Release(gomock.Any(), tableID).Return(nil)
		f.notifier.EXPECT().NotifySessionUpdated(gomock.Any())
		f.notifier.EXPECT().NotifyTableUpdated(gomock.Any())

		endAt := now.Add(-time.Hour)
		result, err := f.cmds.End(context.Background(), sessionID, &endAt, "")
		require.NoError(t, err)
		assert.Equal(t, 60, result.Quote.TotalMinutes)
	})

	t.Run("already ended", func(t *testing.T) {
		f := newFixture(t)
		endAt := now.Add(-time.Hour)
		s := builder.NewSessionBuilder().WithID(sessionID).WithTableID(tableID).
			WithStartTime(now.Add(-2 * time.Hour)).
			Ended(endAt, decimal.NewFromInt(15), 10, 50).Build()
		trf := builder.NewTariffBuilder().Build()

		f.reads.EXPECT().SessionForUpdate(gomock.Any(), sessionID).
			Return(&shared.SessionWithTariff{Session: s, Tariff: trf}, nil)

		_, err := f.cmds.End(context.Background(), sessionID, nil, "")
		assert.ErrorIs(t, err, errs.ErrSessionAlreadyEnded)
	})

	t.Run("end before start", func(t *testing.T) {
		f := newFixture(t)
		s := builder.NewSessionBuilder().WithID(sessionID).WithTableID(tableID).
			WithStartTime(now).Build()
		trf := builder.NewTariffBuilder().Build()

		f.reads.EXPECT().SessionForUpdate(gomock.Any(), sessionID).
			Return(&shared.SessionWithTariff{Session: s, Tariff: trf}, nil)

		endAt := now.Add(-time.Minute)
		_, err := f.cmds.End(context.Background(), sessionID, &endAt, "")
		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})
}

func TestSessionCommands_Services(t *testing.T) {
	sessionID := uuid.New()
	tableID := uuid.New()

	t.Run("adds a service to an open session", func(t *testing.T) {
		f := newFixture(t)
		s := builder.NewSessionBuilder().WithID(sessionID).WithTableID(tableID).
			WithStartTime(now.Add(-time.Hour)).Build()
		trf := builder.NewTariffBuilder().Build()

		f.reads.EXPECT().SessionForUpdate(gomock.Any(), sessionID).
			Return(&shared.SessionWithTariff{Session: s, Tariff: trf}, nil)
		f.sessions.EXPECT().Update(gomock.Any(), s).Return(nil)
		f.notifier.EXPECT().NotifySessionUpdated(gomock.Any())

		result, err := f.cmds.AddService(context.Background(), sessionID, commands.AddServiceParams{
			Name:     "nachos",
			Price:    decimal.NewFromInt(8),
			Quantity: 2,
		})
		require.NoError(t, err)
		require.Len(t, result.Session.Metadata().Services, 1)
		assert.Equal(t, "nachos", result.Session.Metadata().Services[0].Name)
		assert.Equal(t, 2, result.Session.Metadata().Services[0].Quantity)
	})

	t.Run("rejects an invalid service without touching storage", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.cmds.AddService(context.Background(), sessionID, commands.AddServiceParams{
			Name:  "",
			Price: decimal.NewFromInt(8),
		})
		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("ended session rejects service changes", func(t *testing.T) {
		f := newFixture(t)
		endAt := now.Add(-time.Hour)
		s := builder.NewSessionBuilder().WithID(sessionID).WithTableID(tableID).
			WithStartTime(now.Add(-2 * time.Hour)).
			Ended(endAt, decimal.NewFromInt(15), 10, 50).Build()
		trf := builder.NewTariffBuilder().Build()

		f.reads.EXPECT().SessionForUpdate(gomock.Any(), sessionID).
			Return(&shared.SessionWithTariff{Session: s, Tariff: trf}, nil)

		_, err := f.cmds.AddService(context.Background(), sessionID, commands.AddServiceParams{
			Name:  "nachos",
			Price: decimal.NewFromInt(8),
		})
		assert.ErrorIs(t, err, errs.ErrSessionAlreadyEnded)
	})

	t.Run("removes a service by id", func(t *testing.T) {
		f := newFixture(t)
		svc, err := session.NewService("svc-1", "soda", decimal.NewFromInt(3), 1, now)
		require.NoError(t, err)
		s := builder.NewSessionBuilder().WithID(sessionID).WithTableID(tableID).
			WithStartTime(now.Add(-time.Hour)).WithServices(svc).Build()
		trf := builder.NewTariffBuilder().Build()

		f.reads.EXPECT().SessionForUpdate(gomock.Any(), sessionID).
			Return(&shared.SessionWithTariff{Session: s, Tariff: trf}, nil)
		f.sessions.EXPECT().Update(gomock.Any(), s).Return(nil)
		f.notifier.EXPECT().NotifySessionUpdated(gomock.Any())

		result, err := f.cmds.RemoveService(context.Background(), sessionID, "svc-1")
		require.NoError(t, err)
		assert.Empty(t, result.Session.Metadata().Services)
	})

	t.Run("unknown service id", func(t *testing.T) {
		f := newFixture(t)
		s := builder.NewSessionBuilder().WithID(sessionID).WithTableID(tableID).
			WithStartTime(now.Add(-time.Hour)).Build()
		trf := builder.NewTariffBuilder().Build()

		f.reads.EXPECT().SessionForUpdate(gomock.Any(), sessionID).
			Return(&shared.SessionWithTariff{Session: s, Tariff: trf}, nil)

		_, err := f.cmds.RemoveService(context.Background(), sessionID, "nope")
		assert.ErrorIs(t, err, errs.ErrServiceNotFound)
	})
}
