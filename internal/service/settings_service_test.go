package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	errorvalues "github.com/jjtjtyt6644/studify/internal/error_values"
	"github.com/jjtjtyt6644/studify/internal/service"
)

func TestGetSettings(t *testing.T) {
	kv := newKVMock()
	s := service.NewSettingsService(kv)
	ctx := context.Background()
	t.Run("defaults when nothing stored", func(t *testing.T) {
		settings, err := s.Get(ctx)
		assert.NoError(t, err)
		assert.Equal(t, service.DefaultWorkMinutes, settings.WorkMinutes)
		assert.Equal(t, service.DefaultBreakMinutes, settings.BreakMinutes)
		assert.Equal(t, service.DefaultLongBreakMinutes, settings.LongBreakMinutes)
	})
	t.Run("unparsable stored value falls back to default", func(t *testing.T) {
		kv.Set(ctx, "workTime", "lots")
		settings, err := s.Get(ctx)
		assert.NoError(t, err)
		assert.Equal(t, service.DefaultWorkMinutes, settings.WorkMinutes)
	})
	t.Run("db error", func(t *testing.T) {
		kv.setState(stateDBError)
		_, err := s.Get(ctx)
		assert.Error(t, err)
	})
}

func TestUpdateSettings(t *testing.T) {
	kv := newKVMock()
	s := service.NewSettingsService(kv)
	ctx := context.Background()
	observed := 0
	s.RegisterObserver(func() { observed++ })
	t.Run("success", func(t *testing.T) {
		err := s.Update(ctx, &service.UpdateSettingsRequest{
			WorkMinutes:      50,
			BreakMinutes:     10,
			LongBreakMinutes: 30,
		})
		assert.NoError(t, err)
		settings, err := s.Get(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 50, settings.WorkMinutes)
		assert.Equal(t, 10, settings.BreakMinutes)
		assert.Equal(t, 30, settings.LongBreakMinutes)
		assert.Equal(t, 1, observed)
	})
	t.Run("out of range values are rejected", func(t *testing.T) {
		cases := []service.UpdateSettingsRequest{
			{WorkMinutes: 0, BreakMinutes: 5, LongBreakMinutes: 15},
			{WorkMinutes: 121, BreakMinutes: 5, LongBreakMinutes: 15},
			{WorkMinutes: 25, BreakMinutes: 61, LongBreakMinutes: 15},
			{WorkMinutes: 25, BreakMinutes: 5, LongBreakMinutes: 61},
		}
		for _, req := range cases {
			err := s.Update(ctx, &req)
			assert.ErrorIs(t, err, errorvalues.ErrInvalidSettings)
		}
		// Rejected updates fire no observers and change nothing
		assert.Equal(t, 1, observed)
		settings, err := s.Get(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 50, settings.WorkMinutes)
	})
	t.Run("reset restores defaults", func(t *testing.T) {
		err := s.Reset(ctx)
		assert.NoError(t, err)
		settings, err := s.Get(ctx)
		assert.NoError(t, err)
		assert.Equal(t, service.DefaultWorkMinutes, settings.WorkMinutes)
		assert.Equal(t, service.DefaultBreakMinutes, settings.BreakMinutes)
		assert.Equal(t, service.DefaultLongBreakMinutes, settings.LongBreakMinutes)
		assert.Equal(t, 2, observed)
	})
}
