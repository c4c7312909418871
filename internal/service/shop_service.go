package service

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/bytedance/sonic"

	errorvalues "github.com/jjtjtyt6644/studify/internal/error_values"
	"github.com/jjtjtyt6644/studify/internal/repository"
	"github.com/jjtjtyt6644/studify/pkg/entity"
)

const ownedItemsKey = "ownedItems"

var storeItems = []entity.ShopItem{
	{ID: "theme_ocean", Name: "Ocean Theme", Description: "Cool blue color scheme", Price: 100, Category: "theme"},
	{ID: "theme_forest", Name: "Forest Theme", Description: "Calming green aesthetic", Price: 100, Category: "theme"},
	{ID: "theme_sunset", Name: "Sunset Theme", Description: "Warm orange and pink", Price: 150, Category: "theme"},
	{ID: "boost_2x_coins", Name: "2x Coin Boost", Description: "Double coins for 24 hours", Price: 200, Category: "boost"},
	{ID: "boost_focus", Name: "Focus Boost", Description: "Extended timer by 5 minutes", Price: 150, Category: "boost"},
	{ID: "deco_plants", Name: "Study Plants", Description: "Decorative plants for your space", Price: 80, Category: "decoration"},
	{ID: "deco_books", Name: "Book Stack", Description: "Decorative book collection", Price: 60, Category: "decoration"},
	{ID: "avatar_hat", Name: "Cool Hat", Description: "Stylish hat for your cat", Price: 120, Category: "avatar"},
	{ID: "avatar_glasses", Name: "Study Glasses", Description: "Smart glasses for your cat", Price: 100, Category: "avatar"},
	{ID: "avatar_bow", Name: "Cute Bow", Description: "Adorable bow accessory", Price: 80, Category: "avatar"},
}

// ShopService sells the static catalog against the coin ledger and tracks
// owned item ids in the kv store.
type ShopService struct {
	mu    sync.Mutex
	kv    repository.KVStoreI
	coins CoinsServiceI
}

func NewShopService(kv repository.KVStoreI, coins CoinsServiceI) *ShopService {
	if kv == nil || coins == nil {
		log.Fatal("provided nil deps to shop service")
	}
	return &ShopService{
		kv:    kv,
		coins: coins,
	}
}

func (sh *ShopService) Items() []entity.ShopItem {
	items := make([]entity.ShopItem, len(storeItems))
	copy(items, storeItems)
	return items
}

func (sh *ShopService) Owned(ctx context.Context) ([]string, error) {
	raw, err := sh.kv.Get(ctx, ownedItemsKey)
	if err != nil {
		if errors.Is(err, errorvalues.ErrKeyNotFound) {
			return []string{}, nil
		}
		return nil, errors.New("kv store error: " + err.Error())
	}
	owned := make([]string, 0)
	err = sonic.ConfigDefault.UnmarshalFromString(raw, &owned)
	if err != nil {
		return nil, errors.New("unmarshalling owned items error: " + err.Error())
	}
	return owned, nil
}

func (sh *ShopService) Purchase(ctx context.Context, itemID string) error {
	var item *entity.ShopItem
	for i := range storeItems {
		if storeItems[i].ID == itemID {
			item = &storeItems[i]
			break
		}
	}
	if item == nil {
		return errorvalues.ErrItemNotFound
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	owned, err := sh.Owned(ctx)
	if err != nil {
		return err
	}
	for _, id := range owned {
		if id == itemID {
			return errorvalues.ErrItemOwned
		}
	}
	ok, err := sh.coins.Debit(ctx, item.Price, "Purchased: "+item.Name)
	if err != nil {
		return err
	}
	if !ok {
		return errorvalues.ErrInsufficientFunds
	}
	owned = append(owned, itemID)
	raw, err := sonic.ConfigDefault.MarshalToString(owned)
	if err != nil {
		return errors.New("marshalling owned items error: " + err.Error())
	}
	err = sh.kv.Set(ctx, ownedItemsKey, raw)
	if err != nil {
		return errors.New("kv store error: " + err.Error())
	}
	return nil
}
