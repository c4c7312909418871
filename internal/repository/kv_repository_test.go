package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"

	errorvalues "github.com/jjtjtyt6644/studify/internal/error_values"
	"github.com/jjtjtyt6644/studify/internal/repository"
)

func TestKVGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewKVRepoWithConn(mock)
	query := regexp.QuoteMeta(`SELECT value FROM kv_store WHERE key = $1;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("gameCoins").
			WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("120"))
		value, err := repo.Get(ctx, "gameCoins")
		assert.NoError(t, err)
		assert.Equal(t, "120", value)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.Get(ctx, "missing")
		assert.ErrorIs(t, err, errorvalues.ErrKeyNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("gameCoins").
			WillReturnError(errors.New("db error"))
		_, err := repo.Get(ctx, "gameCoins")
		assert.Error(t, err)
	})
}

func TestKVSet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewKVRepoWithConn(mock)
	query := regexp.QuoteMeta(`INSERT INTO kv_store (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = $2;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("gameCoins", "130").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		err := repo.Set(ctx, "gameCoins", "130")
		assert.NoError(t, err)
	})
	t.Run("overwrite goes through the same upsert", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("gameCoins", "140").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		err := repo.Set(ctx, "gameCoins", "140")
		assert.NoError(t, err)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("gameCoins", "150").
			WillReturnError(errors.New("db error"))
		err := repo.Set(ctx, "gameCoins", "150")
		assert.Error(t, err)
	})
}

func TestKVRemove(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewKVRepoWithConn(mock)
	query := regexp.QuoteMeta(`DELETE FROM kv_store WHERE key = $1;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("timerState").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		err := repo.Remove(ctx, "timerState")
		assert.NoError(t, err)
	})
	t.Run("removing an absent key is not an error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("timerState").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		err := repo.Remove(ctx, "timerState")
		assert.NoError(t, err)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("timerState").
			WillReturnError(errors.New("db error"))
		err := repo.Remove(ctx, "timerState")
		assert.Error(t, err)
	})
}

func TestKVClear(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewKVRepoWithConn(mock)
	query := regexp.QuoteMeta(`DELETE FROM kv_store;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WillReturnResult(pgxmock.NewResult("DELETE", 12))
		err := repo.Clear(ctx)
		assert.NoError(t, err)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WillReturnError(errors.New("db error"))
		err := repo.Clear(ctx)
		assert.Error(t, err)
	})
}
