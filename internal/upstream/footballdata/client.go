// Package footballdata is a client for the football-data.org v4 API.
package footballdata

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anonto42/kickoff/backend/internal/cache"
	"github.com/anonto42/kickoff/backend/internal/models"
	"github.com/anonto42/kickoff/backend/internal/upstream"
)

const (
	Provider = "football-data"

	authHeader      = "X-Auth-Token"
	statusScheduled = "SCHEDULED"
)

type Options struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
	Recorder   upstream.Recorder
	Cache      *cache.JSON
}

type Client struct {
	api     *upstream.Client
	baseURL *url.URL
	header  http.Header
	cache   *cache.JSON
}

func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid football-data base URL %q", opts.BaseURL)
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewJSON(cache.Noop{}, 0, opts.Logger, nil)
	}

	header := http.Header{}
	if opts.APIKey != "" {
		header.Set(authHeader, opts.APIKey)
	}

	return &Client{
		api:     upstream.NewClient(Provider, opts.HTTPClient, opts.Timeout, opts.Logger, opts.Recorder),
		baseURL: base,
		header:  header,
		cache:   opts.Cache,
	}, nil
}

// Standings returns the first table of the competition. An empty result
// means the provider has no data for it (or refused the request).
func (c *Client) Standings(ctx context.Context, code string) ([]models.StandingRow, error) {
	key := "fd:standings:" + code
	rows := []models.StandingRow{}
	if c.cache.Load(ctx, key, &rows) {
		return rows, nil
	}

	var resp standingsResponse
	if err := c.get(ctx, &resp, nil, "competitions", code, "standings"); err != nil {
		return nil, err
	}
	if len(resp.Standings) == 0 {
		return rows, nil
	}

	for _, r := range resp.Standings[0].Table {
		rows = append(rows, models.StandingRow{
			Position:       r.Position,
			Name:           firstNonEmpty(r.Team.ShortName, r.Team.Name),
			Crest:          r.Team.Crest,
			PlayedGames:    r.PlayedGames,
			Won:            r.Won,
			Draw:           r.Draw,
			Lost:           r.Lost,
			GoalsFor:       r.GoalsFor,
			GoalsAgainst:   r.GoalsAgainst,
			GoalDifference: r.GoalDifference,
			Points:         r.Points,
		})
	}

	c.cache.Store(ctx, key, rows)
	return rows, nil
}

// Scorers returns the competition's top scorers.
func (c *Client) Scorers(ctx context.Context, code string) ([]models.Scorer, error) {
	key := "fd:scorers:" + code
	scorers := []models.Scorer{}
	if c.cache.Load(ctx, key, &scorers) {
		return scorers, nil
	}

	var resp scorersResponse
	if err := c.get(ctx, &resp, nil, "competitions", code, "scorers"); err != nil {
		return nil, err
	}

	for _, s := range resp.Scorers {
		scorers = append(scorers, models.Scorer{
			Player: models.ScorerPlayer{
				ID:          s.Player.ID,
				Name:        firstNonEmpty(s.Player.Name, "Unknown"),
				Nationality: s.Player.Nationality,
				Photo:       s.Player.Photo,
			},
			Team: models.ScorerTeam{
				Name:      firstNonEmpty(s.Team.Name, "Unknown"),
				ShortName: s.Team.ShortName,
				Crest:     s.Team.Crest,
			},
			Goals:     deref(s.Goals),
			Assists:   deref(s.Assists),
			Penalties: deref(s.Penalties),
		})
	}

	if len(scorers) > 0 {
		c.cache.Store(ctx, key, scorers)
	}
	return scorers, nil
}

// ScheduledMatches returns the competition's upcoming matches in provider order.
func (c *Client) ScheduledMatches(ctx context.Context, code string) ([]models.Fixture, error) {
	key := "fd:matches:" + code
	fixtures := []models.Fixture{}
	if c.cache.Load(ctx, key, &fixtures) {
		return fixtures, nil
	}

	var resp matchesResponse
	if err := c.get(ctx, &resp, url.Values{"status": {statusScheduled}}, "competitions", code, "matches"); err != nil {
		return nil, err
	}

	for _, m := range resp.Matches {
		fixtures = append(fixtures, models.Fixture{
			HomeTeam:     firstNonEmpty(m.HomeTeam.ShortName, m.HomeTeam.Name),
			HomeTeamFull: m.HomeTeam.Name,
			HomeLogo:     m.HomeTeam.Crest,
			AwayTeam:     firstNonEmpty(m.AwayTeam.ShortName, m.AwayTeam.Name),
			AwayTeamFull: m.AwayTeam.Name,
			AwayLogo:     m.AwayTeam.Crest,
			Date:         m.UTCDate,
			Competition:  m.Competition.Name,
			Matchday:     m.Matchday,
		})
	}

	if len(fixtures) > 0 {
		c.cache.Store(ctx, key, fixtures)
	}
	return fixtures, nil
}

func (c *Client) get(ctx context.Context, dst any, query url.Values, path ...string) error {
	u := c.baseURL.JoinPath(path...)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	_, err := c.api.GetJSON(ctx, u, c.header, dst)
	return err
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func deref(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

type team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Crest     string `json:"crest"`
}

type standingsResponse struct {
	Standings []struct {
		Type  string `json:"type"`
		Table []struct {
			Position       int  `json:"position"`
			Team           team `json:"team"`
			PlayedGames    int  `json:"playedGames"`
			Won            int  `json:"won"`
			Draw           int  `json:"draw"`
			Lost           int  `json:"lost"`
			Points         int  `json:"points"`
			GoalsFor       int  `json:"goalsFor"`
			GoalsAgainst   int  `json:"goalsAgainst"`
			GoalDifference int  `json:"goalDifference"`
		} `json:"table"`
	} `json:"standings"`
}

type scorersResponse struct {
	Scorers []struct {
		Player struct {
			ID          int    `json:"id"`
			Name        string `json:"name"`
			Nationality string `json:"nationality"`
			Photo       string `json:"photo"`
		} `json:"player"`
		Team      team `json:"team"`
		Goals     *int `json:"goals"`
		Assists   *int `json:"assists"`
		Penalties *int `json:"penalties"`
	} `json:"scorers"`
}

type matchesResponse struct {
	Matches []struct {
		UTCDate     time.Time `json:"utcDate"`
		Matchday    int       `json:"matchday"`
		HomeTeam    team      `json:"homeTeam"`
		AwayTeam    team      `json:"awayTeam"`
		Competition struct {
			Name string `json:"name"`
			Code string `json:"code"`
		} `json:"competition"`
	} `json:"matches"`
}
