package types

// ShopItem is an evolution item offered for gems.
type ShopItem struct {
	ID           string   `json:"id"`
	NameFr       string   `json:"nameFr"`
	NameEn       string   `json:"nameEn"`
	CostGems     int64    `json:"costGems"`
	ApplicableTo []string `json:"applicableTo"`
}

type UpgradeKind string

const (
	UpgradeClick UpgradeKind = "click"
	UpgradeDps   UpgradeKind = "dps"
)

// UpgradeOffer is the next level of a permanent bonus and its gold price.
type UpgradeOffer struct {
	Kind     UpgradeKind `json:"kind"`
	Current  int64       `json:"current"`
	CostGold int64       `json:"costGold"`
}
