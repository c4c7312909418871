package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	errorvalues "github.com/jjtjtyt6644/studify/internal/error_values"
	"github.com/jjtjtyt6644/studify/internal/service"
)

func TestBalance(t *testing.T) {
	kv := newKVMock()
	s := service.NewCoinsService(kv)
	ctx := context.Background()
	t.Run("empty store reads as zero", func(t *testing.T) {
		balance, err := s.Balance(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 0, balance)
	})
	t.Run("unparsable value reads as zero", func(t *testing.T) {
		kv.Set(ctx, "gameCoins", "not a number")
		balance, err := s.Balance(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 0, balance)
	})
	t.Run("db error", func(t *testing.T) {
		kv.setState(stateDBError)
		_, err := s.Balance(ctx)
		assert.Error(t, err)
	})
}

func TestCreditAndDebit(t *testing.T) {
	kv := newKVMock()
	s := service.NewCoinsService(kv)
	ctx := context.Background()
	t.Run("credit", func(t *testing.T) {
		balance, err := s.Credit(ctx, 10, "Completed Pomodoro session")
		assert.NoError(t, err)
		assert.Equal(t, 10, balance)
	})
	t.Run("over-debit is refused without mutating", func(t *testing.T) {
		ok, err := s.Debit(ctx, 25, "Purchased: something")
		assert.NoError(t, err)
		assert.False(t, ok)
		balance, err := s.Balance(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 10, balance)
	})
	t.Run("exact debit drains the balance", func(t *testing.T) {
		ok, err := s.Debit(ctx, 10, "Purchased: something")
		assert.NoError(t, err)
		assert.True(t, ok)
		balance, err := s.Balance(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 0, balance)
	})
	t.Run("non-positive amounts are rejected", func(t *testing.T) {
		_, err := s.Credit(ctx, 0, "nothing")
		assert.ErrorIs(t, err, errorvalues.ErrNonPositiveAmount)
		_, err = s.Credit(ctx, -5, "nothing")
		assert.ErrorIs(t, err, errorvalues.ErrNonPositiveAmount)
		_, err = s.Debit(ctx, 0, "nothing")
		assert.ErrorIs(t, err, errorvalues.ErrNonPositiveAmount)
	})
	t.Run("db error", func(t *testing.T) {
		kv.setState(stateDBError)
		_, err := s.Credit(ctx, 10, "reason")
		assert.Error(t, err)
		_, err = s.Debit(ctx, 10, "reason")
		assert.Error(t, err)
	})
}

// Balance must always equal the sum of accepted mutations.
func TestBalanceMatchesLedger(t *testing.T) {
	kv := newKVMock()
	s := service.NewCoinsService(kv)
	ctx := context.Background()
	expected := 0
	steps := []struct {
		credit bool
		amount int
	}{
		{true, 10}, {true, 15}, {false, 20}, {true, 50},
		{false, 100}, {false, 30}, {true, 10}, {false, 35},
	}
	for _, step := range steps {
		if step.credit {
			_, err := s.Credit(ctx, step.amount, "credit")
			assert.NoError(t, err)
			expected += step.amount
			continue
		}
		ok, err := s.Debit(ctx, step.amount, "debit")
		assert.NoError(t, err)
		if ok {
			expected -= step.amount
		}
	}
	balance, err := s.Balance(ctx)
	assert.NoError(t, err)
	assert.Equal(t, expected, balance)
	assert.GreaterOrEqual(t, balance, 0)
}

func TestHistory(t *testing.T) {
	kv := newKVMock()
	s := service.NewCoinsService(kv)
	ctx := context.Background()
	t.Run("empty store reads as empty log", func(t *testing.T) {
		history, err := s.History(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 0, len(history))
	})
	t.Run("newest entry first", func(t *testing.T) {
		s.Credit(ctx, 10, "first")
		s.Credit(ctx, 15, "second")
		s.Debit(ctx, 5, "third")
		history, err := s.History(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 3, len(history))
		assert.Equal(t, "third", history[0].Reason)
		assert.Equal(t, -5, history[0].Amount)
		assert.Equal(t, "first", history[2].Reason)
	})
	t.Run("log is capped at 50 entries", func(t *testing.T) {
		for i := 0; i < 55; i++ {
			_, err := s.Credit(ctx, 1, fmt.Sprintf("credit_%d", i))
			assert.NoError(t, err)
		}
		history, err := s.History(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 50, len(history))
		assert.Equal(t, "credit_54", history[0].Reason)
	})
}
