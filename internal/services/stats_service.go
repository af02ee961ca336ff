package services

import (
	"context"
	"log/slog"
	"slices"

	"github.com/anonto42/kickoff/backend/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	upcomingFixturesLimit = 4
	leagueFixturesLimit   = 5
	defaultScorersLeague  = "premier-league"
)

// FootballData is the stats provider.
type FootballData interface {
	Standings(ctx context.Context, code string) ([]models.StandingRow, error)
	Scorers(ctx context.Context, code string) ([]models.Scorer, error)
	ScheduledMatches(ctx context.Context, code string) ([]models.Fixture, error)
}

// Stats serves league tables, scorers and fixtures.
type Stats struct {
	provider FootballData
	logger   *slog.Logger
}

func NewStats(provider FootballData, logger *slog.Logger) *Stats {
	return &Stats{provider: provider, logger: logger}
}

// Standings returns the table for a league slug.
func (s *Stats) Standings(ctx context.Context, slug string) ([]models.StandingRow, error) {
	league, ok := models.LookupLeague(slug)
	if !ok {
		return nil, models.ErrUnknownLeague
	}

	rows, err := s.provider.Standings(ctx, league.Code)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, models.ErrNoStatsData
	}
	return rows, nil
}

// Scorers returns top scorers for a league slug. Unknown slugs use the Premier League.
func (s *Stats) Scorers(ctx context.Context, slug string) ([]models.Scorer, error) {
	league, ok := models.LookupLeague(slug)
	if !ok {
		league, _ = models.LookupLeague(defaultScorersLeague)
	}
	return s.provider.Scorers(ctx, league.Code)
}

// UpcomingFixtures returns the next match of each top-five league, soonest
// first, capped at four. Leagues that fail are skipped unless all of them do.
func (s *Stats) UpcomingFixtures(ctx context.Context) ([]models.Fixture, error) {
	codes := models.TopFiveCodes
	next := make([]*models.Fixture, len(codes))
	errs := make([]error, len(codes))

	var g errgroup.Group
	for i, code := range codes {
		g.Go(func() error {
			matches, err := s.provider.ScheduledMatches(ctx, code)
			if err != nil {
				errs[i] = err
				return nil
			}
			if len(matches) > 0 {
				f := matches[0]
				// The widget shows full names.
				f.HomeTeam, f.AwayTeam = f.HomeTeamFull, f.AwayTeamFull
				f.HomeTeamFull, f.AwayTeamFull = "", ""
				next[i] = &f
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := s.allFailed(ctx, codes, errs); err != nil {
		return nil, err
	}

	fixtures := make([]models.Fixture, 0, len(codes))
	for _, f := range next {
		if f != nil {
			fixtures = append(fixtures, *f)
		}
	}
	slices.SortStableFunc(fixtures, func(a, b models.Fixture) int {
		return a.Date.Compare(b.Date)
	})
	if len(fixtures) > upcomingFixturesLimit {
		fixtures = fixtures[:upcomingFixturesLimit]
	}
	return fixtures, nil
}

// LeagueFixtures returns the next five matches of a league slug.
func (s *Stats) LeagueFixtures(ctx context.Context, slug string) ([]models.Fixture, error) {
	league, ok := models.LookupLeague(slug)
	if !ok {
		return nil, models.ErrUnknownLeague
	}

	matches, err := s.provider.ScheduledMatches(ctx, league.Code)
	if err != nil {
		return nil, err
	}
	if len(matches) > leagueFixturesLimit {
		matches = matches[:leagueFixturesLimit]
	}
	return matches, nil
}

// AllFixtures returns five upcoming matches for each fixtures-page league, in
// display order. Leagues without matches are omitted.
func (s *Stats) AllFixtures(ctx context.Context) ([]models.LeagueFixtures, error) {
	leagues := models.AllFixturesLeagues
	groups := make([]models.LeagueFixtures, len(leagues))
	errs := make([]error, len(leagues))

	var g errgroup.Group
	for i, league := range leagues {
		g.Go(func() error {
			matches, err := s.provider.ScheduledMatches(ctx, league.Code)
			if err != nil {
				errs[i] = err
				return nil
			}
			fixtures := make([]models.Fixture, 0, leagueFixturesLimit)
			for _, m := range matches[:min(len(matches), leagueFixturesLimit)] {
				m.Competition = ""
				fixtures = append(fixtures, m)
			}
			groups[i] = models.LeagueFixtures{League: league.Name, LeagueCode: league.Code, Fixtures: fixtures}
			return nil
		})
	}
	_ = g.Wait()

	codes := make([]string, len(leagues))
	for i, l := range leagues {
		codes[i] = l.Code
	}
	if err := s.allFailed(ctx, codes, errs); err != nil {
		return nil, err
	}

	out := make([]models.LeagueFixtures, 0, len(groups))
	for _, grp := range groups {
		if len(grp.Fixtures) > 0 {
			out = append(out, grp)
		}
	}
	return out, nil
}

// allFailed logs per-league failures and returns the first one when every
// league failed.
func (s *Stats) allFailed(ctx context.Context, codes []string, errs []error) error {
	failed := 0
	var first error
	for i, err := range errs {
		if err == nil {
			continue
		}
		failed++
		if first == nil {
			first = err
		}
		s.logger.WarnContext(ctx, "league fixtures unavailable",
			slog.String("league", codes[i]),
			slog.Any("error", err),
		)
	}
	if failed > 0 && failed == len(errs) {
		return first
	}
	return nil
}
