package service

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"sync"

	"github.com/bytedance/sonic"

	errorvalues "github.com/jjtjtyt6644/studify/internal/error_values"
	"github.com/jjtjtyt6644/studify/internal/repository"
	"github.com/jjtjtyt6644/studify/pkg/entity"
)

const (
	petDataKey = "petData"

	xpPerSession = 10
	xpPerLevel   = 100

	defaultPetName = "Mochi"
)

// PetService grows the study pet from completed work sessions: each session
// not yet seen grants XP, rolling over into levels. Level-ups pay the ledger
// reward.
type PetService struct {
	mu    sync.Mutex
	kv    repository.KVStoreI
	stats StatsServiceI
	coins CoinsServiceI
}

func NewPetService(kv repository.KVStoreI, stats StatsServiceI, coins CoinsServiceI) *PetService {
	if kv == nil || stats == nil || coins == nil {
		log.Fatal("provided nil deps to pet service")
	}
	return &PetService{
		kv:    kv,
		stats: stats,
		coins: coins,
	}
}

func (ps *PetService) Get(ctx context.Context) (*entity.Pet, error) {
	raw, err := ps.kv.Get(ctx, petDataKey)
	if err != nil {
		if errors.Is(err, errorvalues.ErrKeyNotFound) {
			return &entity.Pet{Name: defaultPetName, Level: 1}, nil
		}
		return nil, errors.New("kv store error: " + err.Error())
	}
	var pet entity.Pet
	err = sonic.ConfigDefault.UnmarshalFromString(raw, &pet)
	if err != nil {
		return nil, errors.New("unmarshalling pet error: " + err.Error())
	}
	return &pet, nil
}

func (ps *PetService) Sync(ctx context.Context) (*entity.Pet, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	pet, err := ps.Get(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := ps.stats.CompletedSessions(ctx)
	if err != nil {
		return nil, err
	}
	if sessions <= pet.TotalSessions {
		return pet, nil
	}
	gained := sessions - pet.TotalSessions
	pet.TotalSessions = sessions
	pet.XP += gained * xpPerSession
	levelsGained := 0
	for pet.XP >= xpPerLevel {
		pet.XP -= xpPerLevel
		pet.Level++
		levelsGained++
	}
	raw, err := sonic.ConfigDefault.MarshalToString(pet)
	if err != nil {
		return nil, errors.New("marshalling pet error: " + err.Error())
	}
	err = ps.kv.Set(ctx, petDataKey, raw)
	if err != nil {
		return nil, errors.New("kv store error: " + err.Error())
	}
	for i := 0; i < levelsGained; i++ {
		_, err = ps.coins.Credit(ctx, RewardLevelUp, "Pet leveled up")
		if err != nil {
			slog.Error("crediting level-up reward failed", slog.String("error", err.Error()))
			break
		}
	}
	return pet, nil
}
