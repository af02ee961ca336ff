package handlers

import (
	"net/http"

	"github.com/anonto42/kickoff/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// StatsHandler serves league tables, scorers and fixtures.
type StatsHandler struct {
	stats *services.Stats
}

func NewStatsHandler(stats *services.Stats) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) RegisterStatsRoutes(g *echo.Group) {
	g.GET("/standings/:league", h.GetStandings)
	g.GET("/scorers/:league", h.GetScorers)
	g.GET("/fixtures", h.GetUpcomingFixtures)
	g.GET("/fixtures/:league", h.GetLeagueFixtures)
	g.GET("/all-fixtures", h.GetAllFixtures)
}

func (h *StatsHandler) GetStandings(c echo.Context) error {
	rows, err := h.stats.Standings(c.Request().Context(), c.Param("league"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "standings": rows})
}

// GetScorers answers 200 even when the provider has no scorers, with success=false.
func (h *StatsHandler) GetScorers(c echo.Context) error {
	scorers, err := h.stats.Scorers(c.Request().Context(), c.Param("league"))
	if err != nil {
		return err
	}
	if len(scorers) == 0 {
		return c.JSON(http.StatusOK, echo.Map{
			"success": false,
			"scorers": scorers,
			"message": "No scorers data available",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "scorers": scorers})
}

func (h *StatsHandler) GetUpcomingFixtures(c echo.Context) error {
	fixtures, err := h.stats.UpcomingFixtures(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "fixtures": fixtures})
}

func (h *StatsHandler) GetLeagueFixtures(c echo.Context) error {
	fixtures, err := h.stats.LeagueFixtures(c.Request().Context(), c.Param("league"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "fixtures": fixtures})
}

func (h *StatsHandler) GetAllFixtures(c echo.Context) error {
	leagues, err := h.stats.AllFixtures(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "leagues": leagues})
}
