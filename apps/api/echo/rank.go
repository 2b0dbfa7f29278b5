package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Einzelgaanger/darasa/core/rank"
)

type (
	RefreshRanksResponse struct {
		Ranked int `json:"ranked"`
	}

	rankApi struct {
		svc *rank.Service
	}
)

func registerRankAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *rank.Service) {
	api := rankApi{svc: svc}

	g.GET("/units/:code/rankings", api.unitRankings, jwt)
	g.POST("/rankings/refresh", api.refreshOverallRanks, jwt, adminMiddleware())
}

// Handlers

func (api *rankApi) unitRankings(ctx echo.Context) error {
	entries, err := api.svc.ComputeRanking(paramCode(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *rankApi) refreshOverallRanks(ctx echo.Context) error {
	n, err := api.svc.RefreshOverallRanks()
	if err != nil {
		return errors.Wrap(err, "refreshing overall ranks")
	}
	return ctx.JSON(http.StatusOK, RefreshRanksResponse{Ranked: n})
}
