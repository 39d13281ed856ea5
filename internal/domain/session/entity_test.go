//go:build unit

package session_test

import (
	"testing"
	"time"

	"cuetab/internal/domain/session"
	"cuetab/tests/common/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	t.Run("starts active with empty metadata", func(t *testing.T) {
		s, err := session.NewSession(uuid.New(), uuid.New(), 2, "birthday", startAt)
		require.NoError(t, err)

		assert.Equal(t, session.StatusActive, s.Status())
		assert.Equal(t, startAt, s.StartTime())
		assert.Nil(t, s.EndTime())
		assert.Equal(t, "birthday", s.Notes())
		assert.Empty(t, s.Metadata().Services)
		assert.True(t, s.TotalAmount().IsZero())
	})

	t.Run("rejects player count below one", func(t *testing.T) {
		_, err := session.NewSession(uuid.New(), uuid.New(), 0, "", startAt)
		assert.ErrorIs(t, err, session.ErrInvalidPlayerCount)
	})
}

func TestSession_PauseResume(t *testing.T) {
	t.Run("pause records the reason and the instant", func(t *testing.T) {
		s := builder.NewSessionBuilder().WithStartTime(startAt).Build()
		pauseAt := startAt.Add(30 * time.Minute)

		require.NoError(t, s.Pause("kitchen break", pauseAt))

		assert.Equal(t, session.StatusPaused, s.Status())
		require.NotNil(t, s.PauseStartTime())
		assert.Equal(t, pauseAt, *s.PauseStartTime())
		assert.Equal(t, "kitchen break", s.Metadata().PauseReason)
	})

	t.Run("pause requires an active session", func(t *testing.T) {
		s := builder.NewSessionBuilder().
			WithStartTime(startAt).
			Paused(startAt.Add(10 * time.Minute)).
			Build()

		err := s.Pause("", startAt.Add(20*time.Minute))
		assert.ErrorIs(t, err, session.ErrNotActive)
	})

	t.Run("resume folds the pause into the accumulated total", func(t *testing.T) {
		s := builder.NewSessionBuilder().WithStartTime(startAt).Build()
		pauseAt := startAt.Add(30 * time.Minute)
		resumeAt := pauseAt.Add(12 * time.Minute)

		require.NoError(t, s.Pause("break", pauseAt))
		require.NoError(t, s.Resume(resumeAt))

		assert.Equal(t, session.StatusActive, s.Status())
		assert.Nil(t, s.PauseStartTime())
		assert.Equal(t, 12*time.Minute, s.TotalPausedTime())
		assert.Empty(t, s.Metadata().PauseReason)
	})

	t.Run("pause and resume repeat across the session", func(t *testing.T) {
		s := builder.NewSessionBuilder().WithStartTime(startAt).Build()

		require.NoError(t, s.Pause("first", startAt.Add(10*time.Minute)))
		require.NoError(t, s.Resume(startAt.Add(15*time.Minute)))
		require.NoError(t, s.Pause("second", startAt.Add(40*time.Minute)))
		require.NoError(t, s.Resume(startAt.Add(50*time.Minute)))

		assert.Equal(t, 15*time.Minute, s.TotalPausedTime())
	})

	t.Run("resume requires a paused session", func(t *testing.T) {
		s := builder.NewSessionBuilder().WithStartTime(startAt).Build()
		assert.ErrorIs(t, s.Resume(startAt.Add(time.Minute)), session.ErrNotPaused)
	})
}

func TestSession_End(t *testing.T) {
	trf := builder.NewTariffBuilder().WithRate(decimal.NewFromInt(20)).Build()

	t.Run("fixes totals and status", func(t *testing.T) {
		s := builder.NewSessionBuilder().WithStartTime(startAt).Build()
		endAt := startAt.Add(90 * time.Minute)

		quote, err := s.End(trf, endAt, "paid cash")
		require.NoError(t, err)

		assert.Equal(t, session.StatusEnded, s.Status())
		require.NotNil(t, s.EndTime())
		assert.Equal(t, endAt, *s.EndTime())
		assert.Equal(t, "paid cash", s.Notes())
		assert.True(t, s.TotalAmount().Equal(quote.Cost))
		assert.Equal(t, quote.TotalMinutes-quote.FreeMinutesUsed, s.PaidMinutes())
	})

	t.Run("ending a paused session uses the pause instant", func(t *testing.T) {
		pauseAt := startAt.Add(60 * time.Minute)
		s := builder.NewSessionBuilder().WithStartTime(startAt).Paused(pauseAt).Build()

		quote, err := s.End(trf, startAt.Add(5*time.Hour), "")
		require.NoError(t, err)

		assert.Equal(t, 60, quote.TotalMinutes)
		assert.Nil(t, s.PauseStartTime())
	})

	t.Run("ending twice fails", func(t *testing.T) {
		s := builder.NewSessionBuilder().WithStartTime(startAt).Build()
		_, err := s.End(trf, startAt.Add(time.Hour), "")
		require.NoError(t, err)

		_, err = s.End(trf, startAt.Add(2*time.Hour), "")
		assert.ErrorIs(t, err, session.ErrAlreadyEnded)
	})

	t.Run("end before start fails", func(t *testing.T) {
		s := builder.NewSessionBuilder().WithStartTime(startAt).Build()
		_, err := s.End(trf, startAt.Add(-time.Minute), "")
		assert.ErrorIs(t, err, session.ErrEndBeforeStart)
	})
}

func TestSession_Services(t *testing.T) {
	newService := func(t *testing.T, id string) session.Service {
		t.Helper()
		svc, err := session.NewService(id, "Nachos", decimal.NewFromInt(8), 1, startAt)
		require.NoError(t, err)
		return svc
	}

	t.Run("add and remove round trip", func(t *testing.T) {
		s := builder.NewSessionBuilder().WithStartTime(startAt).Build()

		require.NoError(t, s.AddService(newService(t, "a")))
		require.NoError(t, s.AddService(newService(t, "b")))
		require.Len(t, s.Metadata().Services, 2)

		require.NoError(t, s.RemoveService("a"))
		services := s.Metadata().Services
		require.Len(t, services, 1)
		assert.Equal(t, "b", services[0].ID)
	})

	t.Run("removing an unknown service fails", func(t *testing.T) {
		s := builder.NewSessionBuilder().WithStartTime(startAt).Build()
		assert.ErrorIs(t, s.RemoveService("missing"), session.ErrServiceMissing)
	})

	t.Run("ended sessions reject line item changes", func(t *testing.T) {
		s := builder.NewSessionBuilder().
			WithStartTime(startAt).
			Ended(startAt.Add(time.Hour), decimal.NewFromInt(20), 0, 60).
			Build()

		assert.ErrorIs(t, s.AddService(newService(t, "late")), session.ErrNotOpen)
		assert.ErrorIs(t, s.RemoveService("late"), session.ErrNotOpen)
	})

	t.Run("paused sessions still accept line items", func(t *testing.T) {
		s := builder.NewSessionBuilder().
			WithStartTime(startAt).
			Paused(startAt.Add(30 * time.Minute)).
			Build()

		assert.NoError(t, s.AddService(newService(t, "during-pause")))
	})
}

func TestServiceAndDiscountValidation(t *testing.T) {
	t.Run("service requires a name", func(t *testing.T) {
		_, err := session.NewService("id", "  ", decimal.NewFromInt(1), 1, startAt)
		assert.ErrorIs(t, err, session.ErrInvalidService)
	})

	t.Run("service rejects negative price", func(t *testing.T) {
		_, err := session.NewService("id", "Drink", decimal.NewFromInt(-1), 1, startAt)
		assert.ErrorIs(t, err, session.ErrInvalidService)
	})

	t.Run("service quantity defaults to one", func(t *testing.T) {
		svc, err := session.NewService("id", "Drink", decimal.NewFromInt(3), 0, startAt)
		require.NoError(t, err)
		assert.Equal(t, 1, svc.Quantity)
	})

	t.Run("discount rejects negative amount", func(t *testing.T) {
		_, err := session.NewDiscount("bad", decimal.NewFromInt(-5))
		assert.ErrorIs(t, err, session.ErrInvalidDiscount)
	})
}
