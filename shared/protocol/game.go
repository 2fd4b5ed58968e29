package protocol

import "pokeidle/shared/game/types"

type AfkReward struct {
	HoursAway       float64 `json:"hoursAway"`
	GoldEarned      int64   `json:"goldEarned"`
	EnemiesDefeated int64   `json:"enemiesDefeated"`
}

type LoadStateResponse struct {
	Player    PlayerView           `json:"player"`
	Pokemons  []types.OwnedPokemon `json:"pokemons"`
	AfkReward *AfkReward           `json:"afkReward"`
}

// SaveStateRequest is the client-side snapshot accepted by /game/save.
type SaveStateRequest struct {
	Gold              int64                `json:"gold"`
	Gems              int64                `json:"gems"`
	XP                int64                `json:"xp"`
	Level             int                  `json:"level"`
	CurrentGeneration int                  `json:"currentGeneration"`
	CurrentZone       int                  `json:"currentZone"`
	CurrentStage      int                  `json:"currentStage"`
	ClickDamage       int64                `json:"clickDamage"`
	Badges            int                  `json:"badges"`
	Candies           *types.Candies       `json:"candies,omitempty"`
	Daycare           *[]types.DaycareSlot `json:"daycare,omitempty"`
	ClientTime        int64                `json:"clientTime,omitempty"`
}

type SavedPokemon struct {
	SpeciesID int64  `json:"speciesId"`
	Level     int    `json:"level"`
	XP        int64  `json:"xp"`
	Stars     int    `json:"stars"`
	IsShiny   bool   `json:"isShiny"`
	Rarity    string `json:"rarity,omitempty"`
	TeamSlot  *int   `json:"teamSlot"`
}

type SavePokemonsRequest struct {
	Pokemons []SavedPokemon `json:"pokemons"`
}

type PullRequest struct {
	BannerID string `json:"bannerId"`
	Count    int    `json:"count"`
	Currency string `json:"currency"`
	Nonce    string `json:"nonce"`
}

type PulledPokemon struct {
	Pokemon types.OwnedPokemon `json:"pokemon"`
	IsNew   bool               `json:"isNew"`
	IsShiny bool               `json:"isShiny"`
}

type PullResponse struct {
	Results []PulledPokemon `json:"results"`
	Gold    int64           `json:"gold"`
	Gems    int64           `json:"gems"`
}

type EvolveRequest struct {
	PokemonID string `json:"pokemonId"`
	ItemID    string `json:"itemId,omitempty"`
}

type EvolutionEvent struct {
	PokemonID string `json:"pokemonId"`
	From      string `json:"from"`
	To        string `json:"to"`
	Method    string `json:"method"`
}

type EvolveResponse struct {
	Evolution EvolutionEvent     `json:"evolution"`
	Pokemon   types.OwnedPokemon `json:"pokemon"`
}

type TeamSlotRequest struct {
	PokemonID string `json:"pokemonId"`
	Slot      *int   `json:"slot"`
}

type TeamResponse struct {
	Team []types.OwnedPokemon `json:"team"`
}

type DaycareDepositRequest struct {
	PokemonID string `json:"pokemonId"`
}

type DaycareResponse struct {
	Slots []types.DaycareSlot `json:"slots"`
	Gold  int64               `json:"gold"`
}

type HatchEvent struct {
	Pokemon types.OwnedPokemon `json:"pokemon"`
	IsShiny bool               `json:"isShiny"`
	IsNew   bool               `json:"isNew"`
}

type BuyItemRequest struct {
	ItemID string `json:"itemId"`
	Qty    int    `json:"qty"`
}

type BuyUpgradeRequest struct {
	Kind types.UpgradeKind `json:"kind"`
}

type ShopResponse struct {
	Items    []types.ShopItem     `json:"items"`
	Upgrades []types.UpgradeOffer `json:"upgrades"`
	Gold     int64                `json:"gold"`
	Gems     int64                `json:"gems"`
	Owned    map[string]int       `json:"owned"`
}
