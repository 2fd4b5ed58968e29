package species

import (
	"regexp"
	"strconv"
	"strings"
)

const showdownBase = "https://play.pokemonshowdown.com/sprites"

var specialSlugs = map[string]string{
	"Nidoran♀":   "nidoranf",
	"Nidoran♂":   "nidoranm",
	"Mr. Mime":   "mr-mime",
	"Mr. Rime":   "mr-rime",
	"Farfetch'd": "farfetchd",
	"Sirfetch'd": "sirfetchd",
	"Ho-Oh":      "ho-oh",
	"Mime Jr.":   "mime-jr",
	"Porygon-Z":  "porygon-z",
	"Jangmo-o":   "jangmo-o",
	"Hakamo-o":   "hakamo-o",
	"Kommo-o":    "kommo-o",
	"Tapu Koko":  "tapu-koko",
	"Tapu Lele":  "tapu-lele",
	"Tapu Bulu":  "tapu-bulu",
	"Tapu Fini":  "tapu-fini",
	"Type: Null": "type-null",
	"Flabébé":    "flabebe",
}

// Sprite file names differ from our slugs for a handful of species.
var slugFixes = map[string]string{
	"nidoran-f": "nidoranf",
	"nidoran-m": "nidoranm",
	"mr-mime":   "mrmime",
	"mime-jr":   "mimejr",
	"mr-rime":   "mrrime",
}

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]`)
	dashRuns     = regexp.MustCompile(`--+`)
)

// ToShowdownSlug derives the slug from an English species name.
func ToShowdownSlug(nameEn string) string {
	if s, ok := specialSlugs[nameEn]; ok {
		return s
	}
	s := nonSlugChars.ReplaceAllString(strings.ToLower(nameEn), "")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func FixSlug(slug string) string {
	if f, ok := slugFixes[slug]; ok {
		return f
	}
	return slug
}

func SpriteURL(slug string) string {
	return showdownBase + "/ani/" + FixSlug(slug) + ".gif"
}

func ShinySpriteURL(slug string) string {
	return showdownBase + "/ani-shiny/" + FixSlug(slug) + ".gif"
}

func StaticSpriteURL(slug string) string {
	return showdownBase + "/dex/" + FixSlug(slug) + ".png"
}

func StaticShinySpriteURL(slug string) string {
	return showdownBase + "/dex-shiny/" + FixSlug(slug) + ".png"
}

func TrainerSpriteURL(slug string) string {
	return showdownBase + "/trainers/" + slug + ".png"
}

func PokeAPISpriteURL(id int64, shiny bool) string {
	path := ""
	if shiny {
		path = "shiny/"
	}
	return "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/" + path + strconv.FormatInt(id, 10) + ".png"
}
