package service

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	errorvalues "github.com/jjtjtyt6644/studify/internal/error_values"
	"github.com/jjtjtyt6644/studify/internal/repository"
	"github.com/jjtjtyt6644/studify/pkg/entity"
)

// Coin rewards
const (
	RewardPomodoroComplete = 10
	RewardHomeworkComplete = 15
	RewardDailyStreak      = 20
	RewardLevelUp          = 50
)

const (
	coinBalanceKey = "gameCoins"
	coinHistoryKey = "coinHistory"

	historyLimit = 50
)

// CoinsService is the ledger: an integer balance plus a capped, newest-first
// transaction log. The mutex serializes every read-modify-write so two rapid
// mutations can't lose an update.
type CoinsService struct {
	mu sync.Mutex
	kv repository.KVStoreI
}

func NewCoinsService(kv repository.KVStoreI) *CoinsService {
	if kv == nil {
		log.Fatal("provided nil kv store to coins service")
	}
	return &CoinsService{
		kv: kv,
	}
}

func (cs *CoinsService) Balance(ctx context.Context) (int, error) {
	raw, err := cs.kv.Get(ctx, coinBalanceKey)
	if err != nil {
		if errors.Is(err, errorvalues.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, errors.New("kv store error: " + err.Error())
	}
	balance, err := strconv.Atoi(raw)
	if err != nil {
		// Unparsable balance reads as empty
		return 0, nil
	}
	return balance, nil
}

func (cs *CoinsService) Credit(ctx context.Context, amount int, reason string) (int, error) {
	if amount <= 0 {
		return 0, errorvalues.ErrNonPositiveAmount
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	balance, err := cs.Balance(ctx)
	if err != nil {
		return 0, err
	}
	newBalance := balance + amount
	err = cs.kv.Set(ctx, coinBalanceKey, strconv.Itoa(newBalance))
	if err != nil {
		return 0, errors.New("kv store error: " + err.Error())
	}
	cs.logTransaction(ctx, amount, reason)
	return newBalance, nil
}

func (cs *CoinsService) Debit(ctx context.Context, amount int, reason string) (bool, error) {
	if amount <= 0 {
		return false, errorvalues.ErrNonPositiveAmount
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	// A spend must not proceed without a confirmed sufficient balance
	balance, err := cs.Balance(ctx)
	if err != nil {
		return false, err
	}
	if balance < amount {
		return false, nil
	}
	err = cs.kv.Set(ctx, coinBalanceKey, strconv.Itoa(balance-amount))
	if err != nil {
		return false, errors.New("kv store error: " + err.Error())
	}
	cs.logTransaction(ctx, -amount, reason)
	return true, nil
}

func (cs *CoinsService) History(ctx context.Context) ([]entity.CoinTransaction, error) {
	raw, err := cs.kv.Get(ctx, coinHistoryKey)
	if err != nil {
		if errors.Is(err, errorvalues.ErrKeyNotFound) {
			return []entity.CoinTransaction{}, nil
		}
		return nil, errors.New("kv store error: " + err.Error())
	}
	history := make([]entity.CoinTransaction, 0, historyLimit)
	err = sonic.ConfigDefault.UnmarshalFromString(raw, &history)
	if err != nil {
		return nil, errors.New("unmarshalling coin history error: " + err.Error())
	}
	return history, nil
}

// logTransaction prepends the entry and evicts past the cap. The log is
// best-effort: a failed write keeps the balance mutation that preceded it.
func (cs *CoinsService) logTransaction(ctx context.Context, amount int, reason string) {
	history, err := cs.History(ctx)
	if err != nil {
		slog.Error("reading coin history failed", slog.String("error", err.Error()))
		return
	}
	history = append([]entity.CoinTransaction{{
		Amount:    amount,
		Reason:    reason,
		Timestamp: time.Now(),
	}}, history...)
	if len(history) > historyLimit {
		history = history[:historyLimit]
	}
	raw, err := sonic.ConfigDefault.MarshalToString(history)
	if err != nil {
		slog.Error("marshalling coin history failed", slog.String("error", err.Error()))
		return
	}
	err = cs.kv.Set(ctx, coinHistoryKey, raw)
	if err != nil {
		slog.Error("writing coin history failed", slog.String("error", err.Error()))
	}
}
