package feedback

import "github.com/afdhfjfkcm/spotle-football-bot/internal/catalog"

// countryToContinent is the static geography table used for the NEAR band
// on birth country. Countries absent from the table never produce NEAR.
var countryToContinent = map[string]string{
	// Europe
	"italy":          "europe",
	"france":         "europe",
	"spain":          "europe",
	"portugal":       "europe",
	"england":        "europe",
	"uk":             "europe",
	"united kingdom": "europe",
	"wales":          "europe",
	"scotland":       "europe",
	"ireland":        "europe",
	"netherlands":    "europe",
	"germany":        "europe",
	"croatia":        "europe",
	"serbia":         "europe",
	"belgium":        "europe",
	"poland":         "europe",
	"sweden":         "europe",
	"norway":         "europe",
	"denmark":        "europe",
	"finland":        "europe",
	"switzerland":    "europe",
	"austria":        "europe",
	"czech republic": "europe",
	"slovakia":       "europe",
	"slovenia":       "europe",
	"hungary":        "europe",
	"romania":        "europe",
	"bulgaria":       "europe",
	"greece":         "europe",
	"ukraine":        "europe",
	"russia":         "europe",

	// North America
	"usa":           "north_america",
	"united states": "north_america",
	"mexico":        "north_america",
	"canada":        "north_america",
	"costa rica":    "north_america",
	"jamaica":       "north_america",

	// South America
	"brazil":    "south_america",
	"argentina": "south_america",
	"uruguay":   "south_america",
	"paraguay":  "south_america",
	"colombia":  "south_america",
	"chile":     "south_america",
	"peru":      "south_america",
	"ecuador":   "south_america",
	"venezuela": "south_america",

	// Asia
	"japan":        "asia",
	"south korea":  "asia",
	"korea":        "asia",
	"china":        "asia",
	"india":        "asia",
	"iran":         "asia",
	"iraq":         "asia",
	"saudi arabia": "asia",
	"qatar":        "asia",
	"uzbekistan":   "asia",
	"turkey":       "asia",

	// Africa
	"nigeria":      "africa",
	"senegal":      "africa",
	"egypt":        "africa",
	"morocco":      "africa",
	"algeria":      "africa",
	"tunisia":      "africa",
	"ghana":        "africa",
	"ivory coast":  "africa",
	"cameroon":     "africa",
	"south africa": "africa",
	"gabon":        "africa",
	"mali":         "africa",
	"guinea":       "africa",
	"dr congo":     "africa",
	"burkina faso": "africa",

	// Oceania
	"australia":   "oceania",
	"new zealand": "oceania",
}

// sameContinent reports whether both countries resolve to the same known
// continent. An unmapped country on either side always falls through to
// false, never a spurious NEAR.
func sameContinent(a, b string) bool {
	ca, ok := countryToContinent[catalog.Normalize(a)]
	if !ok {
		return false
	}
	cb, ok := countryToContinent[catalog.Normalize(b)]
	return ok && ca == cb
}
