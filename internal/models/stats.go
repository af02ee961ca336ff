package models

import "time"

// League maps a public slug to a competition code of the stats provider.
type League struct {
	Slug string `json:"slug"`
	Code string `json:"code"`
	Name string `json:"name"`
}

var leagues = []League{
	{Slug: "premier-league", Code: "PL", Name: "Premier League"},
	{Slug: "champions-league", Code: "CL", Name: "Champions League"},
	{Slug: "bundesliga", Code: "BL1", Name: "Bundesliga"},
	{Slug: "eredivisie", Code: "DED", Name: "Eredivisie"},
	{Slug: "serie-a-brazil", Code: "BSA", Name: "Campeonato Brasileiro Série A"},
	{Slug: "la-liga", Code: "PD", Name: "La Liga"},
	{Slug: "ligue-1", Code: "FL1", Name: "Ligue 1"},
	{Slug: "championship", Code: "ELC", Name: "Championship"},
	{Slug: "primeira-liga", Code: "PPL", Name: "Primeira Liga"},
	{Slug: "euros", Code: "EC", Name: "European Championship"},
	{Slug: "serie-a", Code: "SA", Name: "Serie A"},
}

// LookupLeague resolves a slug such as "premier-league".
func LookupLeague(slug string) (League, bool) {
	for _, l := range leagues {
		if l.Slug == slug {
			return l, true
		}
	}
	return League{}, false
}

// TopFiveCodes are the leagues sampled for the upcoming-fixtures widget.
var TopFiveCodes = []string{"PL", "PD", "SA", "BL1", "FL1"}

// AllFixturesLeagues are the leagues listed on the fixtures page, in display order.
var AllFixturesLeagues = []League{
	{Code: "PL", Name: "Premier League"},
	{Code: "BL1", Name: "Bundesliga"},
	{Code: "SA", Name: "Serie A"},
	{Code: "PD", Name: "La Liga"},
	{Code: "FL1", Name: "Ligue 1"},
	{Code: "CL", Name: "Champions League"},
}

type StandingRow struct {
	Position       int    `json:"position"`
	Name           string `json:"name"`
	Crest          string `json:"crest"`
	PlayedGames    int    `json:"playedGames"`
	Won            int    `json:"won"`
	Draw           int    `json:"draw"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
}

type ScorerPlayer struct {
	ID          int    `json:"id,omitempty"`
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
	Photo       string `json:"photo,omitempty"`
}

type ScorerTeam struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Crest     string `json:"crest"`
}

type Scorer struct {
	Player    ScorerPlayer `json:"player"`
	Team      ScorerTeam   `json:"team"`
	Goals     int          `json:"goals"`
	Assists   int          `json:"assists"`
	Penalties int          `json:"penalties"`
}

type Fixture struct {
	HomeTeam     string    `json:"homeTeam"`
	HomeTeamFull string    `json:"homeTeamFull,omitempty"`
	HomeLogo     string    `json:"homeLogo"`
	AwayTeam     string    `json:"awayTeam"`
	AwayTeamFull string    `json:"awayTeamFull,omitempty"`
	AwayLogo     string    `json:"awayLogo"`
	Date         time.Time `json:"date"`
	Competition  string    `json:"competition,omitempty"`
	Matchday     int       `json:"matchday"`
}

type LeagueFixtures struct {
	League     string    `json:"league"`
	LeagueCode string    `json:"leagueCode"`
	Fixtures   []Fixture `json:"fixtures"`
}
