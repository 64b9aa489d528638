package league

// Static registry of the leagues the app tracks. Edited at deploy time only;
// runtime code treats it as immutable.

const (
	LigaProfesional = "Liga Profesional"
	PrimeraNacional = "Primera Nacional"
	LaLiga          = "La Liga"
	PremierLeague   = "Premier League"
)

// Names lists every supported league in display order.
var Names = []string{LigaProfesional, PrimeraNacional, LaLiga, PremierLeague}

// API-Football league IDs.
var idByName = map[string]int{
	LigaProfesional: 128,
	PrimeraNacional: 129,
	LaLiga:          140,
	PremierLeague:   39,
}

// Seasons per region. The free API tier lags the live calendar, so both point
// at the last fully covered year.
const (
	SeasonArgentina = 2024
	SeasonEurope    = 2024
)

// European leagues use the cross-year season; everything else falls into the
// Argentina bucket. Known coarse rule: a newly added league lands in the
// Argentina bucket no matter its region.
var europeanLeagues = map[string]bool{
	LaLiga:        true,
	PremierLeague: true,
}

// ResolveID maps a display name to its API-Football league ID. The second
// return is false for unsupported leagues.
func ResolveID(name string) (int, bool) {
	id, ok := idByName[name]
	return id, ok
}

// ResolveSeason picks the active season for a league via the binary
// Europe/Argentina split.
func ResolveSeason(name string) int {
	if europeanLeagues[name] {
		return SeasonEurope
	}
	return SeasonArgentina
}

// Supported reports whether the registry knows the league.
func Supported(name string) bool {
	_, ok := idByName[name]
	return ok
}
