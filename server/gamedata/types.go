package gamedata

import "pokeidle/shared/game/types"

// Evolution methods.
const (
	MethodLevel     = "level"
	MethodStone     = "stone"
	MethodTrade     = "trade"
	MethodHappiness = "happiness"
)

type Gacha struct {
	RarityWeights    map[string]float64 `yaml:"rarity_weights" json:"rarityWeights"`
	RarityDpsMult    map[string]float64 `yaml:"rarity_dps_mult" json:"rarityDpsMult"`
	StarDpsMult      []float64          `yaml:"star_dps_mult" json:"starDpsMult"`
	StarDpsMultShiny []float64          `yaml:"star_dps_mult_shiny" json:"starDpsMultShiny"`
	ShinyOdds        int                `yaml:"shiny_odds" json:"shinyOdds"`
	Banners          []Banner           `yaml:"banners" json:"banners"`
}

type Banner struct {
	ID         string      `yaml:"id" json:"id"`
	NameFr     string      `yaml:"name_fr" json:"nameFr"`
	NameEn     string      `yaml:"name_en" json:"nameEn"`
	Generation int         `yaml:"generation" json:"generation"`
	CostGold   int64       `yaml:"cost_gold" json:"costGold"`
	CostGems   int64       `yaml:"cost_gems" json:"costGems"`
	Pool       []PoolEntry `yaml:"pool" json:"pool"`
}

type PoolEntry struct {
	Slug      string  `yaml:"slug" json:"slug"`
	NameFr    string  `yaml:"name_fr" json:"nameFr"`
	NameEn    string  `yaml:"name_en" json:"nameEn"`
	RarityTag string  `yaml:"rarity" json:"rarity"`
	ShinyRate float64 `yaml:"shiny_rate" json:"shinyRate"`
}

func (e PoolEntry) Rarity() types.Rarity { return types.ParseRarity(e.RarityTag) }

type Zones struct {
	Generations []Generation `yaml:"generations"`
}

type Generation struct {
	ID       int    `yaml:"id" json:"id"`
	NameFr   string `yaml:"name_fr" json:"nameFr"`
	NameEn   string `yaml:"name_en" json:"nameEn"`
	RegionFr string `yaml:"region_fr" json:"regionFr"`
	RegionEn string `yaml:"region_en" json:"regionEn"`
	Zones    []Zone `yaml:"zones" json:"zones"`
}

type Zone struct {
	ID     int           `yaml:"id" json:"id"`
	NameFr string        `yaml:"name_fr" json:"nameFr"`
	NameEn string        `yaml:"name_en" json:"nameEn"`
	Wild   []WildPokemon `yaml:"wild" json:"wild"`
	Boss   Boss          `yaml:"boss" json:"boss"`
}

type WildPokemon struct {
	Slug    string `yaml:"slug" json:"slug"`
	NameFr  string `yaml:"name_fr" json:"nameFr"`
	NameEn  string `yaml:"name_en" json:"nameEn"`
	BaseHP  int64  `yaml:"base_hp" json:"baseHp"`
	BaseAtk int    `yaml:"base_atk" json:"baseAtk"`
}

// Boss is the gym trainer waiting on the last stage of a zone.
type Boss struct {
	Slug         string        `yaml:"slug" json:"slug"`
	NameFr       string        `yaml:"name_fr" json:"nameFr"`
	NameEn       string        `yaml:"name_en" json:"nameEn"`
	TimerSeconds int           `yaml:"timer_seconds" json:"timerSeconds"`
	Team         []BossPokemon `yaml:"team" json:"team"`
}

type BossPokemon struct {
	Slug   string `yaml:"slug" json:"slug"`
	NameFr string `yaml:"name_fr" json:"nameFr"`
	NameEn string `yaml:"name_en" json:"nameEn"`
	Level  int    `yaml:"level" json:"level"`
}

type Evolutions struct {
	StageMult  []float64   `yaml:"stage_mult"`
	Evolutions []Evolution `yaml:"evolutions"`
	Items      []Item      `yaml:"items"`
}

type Evolution struct {
	From     string `yaml:"from" json:"from"`
	To       string `yaml:"to" json:"to"`
	ToNameFr string `yaml:"to_name_fr" json:"toNameFr"`
	ToNameEn string `yaml:"to_name_en" json:"toNameEn"`
	Method   string `yaml:"method" json:"method"`
	Level    int    `yaml:"level,omitempty" json:"level,omitempty"`
	Item     string `yaml:"item,omitempty" json:"item,omitempty"`
}

type Item struct {
	ID           string   `yaml:"id" json:"id"`
	NameFr       string   `yaml:"name_fr" json:"nameFr"`
	NameEn       string   `yaml:"name_en" json:"nameEn"`
	DescFr       string   `yaml:"desc_fr" json:"descFr"`
	DescEn       string   `yaml:"desc_en" json:"descEn"`
	CostGems     int64    `yaml:"cost_gems" json:"costGems"`
	ApplicableTo []string `yaml:"applicable_to" json:"applicableTo"`
}

// TypeChart holds attacker -> defender effectiveness.
type TypeChart struct {
	Multipliers struct {
		Super    float64 `yaml:"super"`
		Resisted float64 `yaml:"resisted"`
		Immune   float64 `yaml:"immune"`
	} `yaml:"multipliers"`
	Chart   map[string]Matchups `yaml:"chart"`
	Aliases map[string]string   `yaml:"aliases"`
	Species map[string]string   `yaml:"species"`
}

type Matchups struct {
	Super    []string `yaml:"super"`
	Resisted []string `yaml:"resisted"`
	Immune   []string `yaml:"immune"`
}
