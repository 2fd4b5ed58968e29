package shop

import (
	"errors"
	"math"
	"sort"

	"pokeidle/server/balance"
	"pokeidle/server/currency"
	"pokeidle/server/gamedata"
	"pokeidle/server/httpx"
	"pokeidle/server/progression"
	"pokeidle/shared/game/types"
	"pokeidle/shared/protocol"
)

const MaxQty = 99

var ErrUnknownItem = errors.New("unknown item")

type Service struct {
	data func() *gamedata.Data
}

func NewService(reg *gamedata.Registry) *Service {
	return &Service{data: reg.Current}
}

// Items lists the evolution items for sale, ordered by id.
func (s *Service) Items() []types.ShopItem {
	d := s.data()
	out := make([]types.ShopItem, 0, len(d.Evolutions.Items))
	for _, it := range d.Evolutions.Items {
		out = append(out, types.ShopItem{
			ID:           it.ID,
			NameFr:       it.NameFr,
			NameEn:       it.NameEn,
			CostGems:     it.CostGems,
			ApplicableTo: it.ApplicableTo,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// View is the shop as one player sees it.
func (s *Service) View(p *types.Player) protocol.ShopResponse {
	owned := make(map[string]int, len(p.Items))
	for k, v := range p.Items {
		owned[k] = v
	}
	return protocol.ShopResponse{
		Items:    s.Items(),
		Upgrades: Offers(p),
		Gold:     p.Gold,
		Gems:     p.Gems,
		Owned:    owned,
	}
}

// BuyItem spends gems for qty of an item. Balances and stock are untouched
// on failure.
func (s *Service) BuyItem(p *types.Player, itemID string, qty int) error {
	if qty < 1 || qty > MaxQty {
		return httpx.Invalid("qty", "must be between 1 and %d", MaxQty)
	}
	it, ok := s.data().Item(itemID)
	if !ok {
		return ErrUnknownItem
	}
	if err := currency.Spend(p, currency.Gems, it.CostGems*int64(qty)); err != nil {
		return err
	}
	if p.Items == nil {
		p.Items = map[string]int{}
	}
	p.Items[itemID] += qty
	return nil
}

// UpgradeCost is the gold price of raising a bonus from current to current+1.
func UpgradeCost(kind types.UpgradeKind, current int64) int64 {
	base := float64(balance.ClickUpgradeBaseGold)
	if kind == types.UpgradeDps {
		base = balance.DpsUpgradeBaseGold
	}
	return int64(math.Floor(base * math.Pow(balance.UpgradeCostExponent, float64(current))))
}

func Offers(p *types.Player) []types.UpgradeOffer {
	return []types.UpgradeOffer{
		{Kind: types.UpgradeClick, Current: p.ClickDamageBonus, CostGold: UpgradeCost(types.UpgradeClick, p.ClickDamageBonus)},
		{Kind: types.UpgradeDps, Current: p.TeamDpsBonus, CostGold: UpgradeCost(types.UpgradeDps, p.TeamDpsBonus)},
	}
}

// BuyUpgrade raises a permanent bonus by one for gold.
func BuyUpgrade(p *types.Player, kind types.UpgradeKind) error {
	var bonus *int64
	switch kind {
	case types.UpgradeClick:
		bonus = &p.ClickDamageBonus
	case types.UpgradeDps:
		bonus = &p.TeamDpsBonus
	default:
		return httpx.Invalid("kind", "must be click or dps")
	}
	if err := currency.Spend(p, currency.Gold, UpgradeCost(kind, *bonus)); err != nil {
		return err
	}
	*bonus++
	progression.RecomputeClickDamage(p)
	return nil
}
