package game

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"pokeidle/server/auth"
	"pokeidle/server/httpx"
	"pokeidle/shared/protocol"
)

// Routes mounts the public catalog routes on e and the player routes under
// /game behind requireAuth.
func (s *Service) Routes(e *echo.Echo, requireAuth echo.MiddlewareFunc) {
	e.GET("/", s.handleIndex)
	e.GET("/pokedex", s.handlePokedex)
	e.GET("/trainers", s.handleTrainers)

	g := e.Group("/game", requireAuth)
	g.GET("/load", s.handleLoad)
	g.POST("/save", s.handleSave)
	g.POST("/save-pokemons", s.handleSavePokemons)

	g.GET("/banners", s.handleBanners)
	g.GET("/zones/:gen", s.handleZones)
	g.POST("/gacha/pull", s.handlePull)
	g.POST("/evolve", s.handleEvolve)
	g.POST("/team", s.handleTeamSlot)
	g.DELETE("/team/:id", s.handleTeamRemove)
	g.POST("/daycare", s.handleDaycareDeposit)
	g.DELETE("/daycare/:index", s.handleDaycareRemove)
	g.GET("/shop", s.handleShop)
	g.POST("/shop/item", s.handleBuyItem)
	g.POST("/shop/upgrade", s.handleBuyUpgrade)
}

func (s *Service) handleIndex(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "name": "Poke-Idle Legacy API"})
}

func (s *Service) handlePokedex(c echo.Context) error {
	list, err := s.Pokedex(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Service) handleTrainers(c echo.Context) error {
	gen := 0
	if raw := c.QueryParam("generation"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return httpx.Invalid("generation", "must be a positive integer")
		}
		gen = n
	}
	list, err := s.Trainers(c.Request().Context(), gen)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Service) handleLoad(c echo.Context) error {
	resp, err := s.Load(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Service) handleSave(c echo.Context) error {
	var req protocol.SaveStateRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	if err := s.Save(c.Request().Context(), auth.UserID(c), req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, protocol.MessageResponse{Message: "Game state saved"})
}

func (s *Service) handleSavePokemons(c echo.Context) error {
	var req protocol.SavePokemonsRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	if err := s.SavePokemons(c.Request().Context(), auth.UserID(c), req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, protocol.MessageResponse{Message: "Pokémon saved"})
}

func (s *Service) handleBanners(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Banners())
}

func (s *Service) handleZones(c echo.Context) error {
	gen, err := strconv.Atoi(c.Param("gen"))
	if err != nil {
		return httpx.Invalid("gen", "must be an integer")
	}
	g, err := s.Zones(gen)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, g)
}

func (s *Service) handlePull(c echo.Context) error {
	var req protocol.PullRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	resp, err := s.Pull(c.Request().Context(), auth.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Service) handleEvolve(c echo.Context) error {
	var req protocol.EvolveRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	resp, err := s.Evolve(c.Request().Context(), auth.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Service) handleTeamSlot(c echo.Context) error {
	var req protocol.TeamSlotRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	resp, err := s.SetTeamSlot(c.Request().Context(), auth.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Service) handleTeamRemove(c echo.Context) error {
	resp, err := s.RemoveFromTeam(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Service) handleDaycareDeposit(c echo.Context) error {
	var req protocol.DaycareDepositRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	resp, err := s.DaycareDeposit(c.Request().Context(), auth.UserID(c), req.PokemonID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Service) handleDaycareRemove(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return httpx.Invalid("index", "must be an integer")
	}
	resp, err := s.DaycareRemove(c.Request().Context(), auth.UserID(c), idx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Service) handleShop(c echo.Context) error {
	resp, err := s.Shop(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Service) handleBuyItem(c echo.Context) error {
	var req protocol.BuyItemRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	resp, err := s.BuyItem(c.Request().Context(), auth.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Service) handleBuyUpgrade(c echo.Context) error {
	var req protocol.BuyUpgradeRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	resp, err := s.BuyUpgrade(c.Request().Context(), auth.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
