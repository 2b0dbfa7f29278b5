package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Einzelgaanger/darasa/core/track"
)

type (
	// UnitSummary reports the requesting user's outstanding work in a unit.
	UnitSummary struct {
		UnitCode           string `json:"unit_code"`
		UnviewedNotes      int    `json:"unviewed_notes"`
		UnviewedPastPapers int    `json:"unviewed_past_papers"`
		PendingAssignments int    `json:"pending_assignments"`
	}

	trackApi struct {
		svc *track.Service
	}
)

func registerTrackAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *track.Service) {
	api := trackApi{svc: svc}

	g.POST("/notes/:id/view", api.viewNote, jwt)
	g.POST("/past-papers/:id/view", api.viewPastPaper, jwt)
	g.POST("/assignments/:id/complete", api.completeAssignment, jwt)
	g.GET("/units/:code/summary", api.unitSummary, jwt)
}

// Handlers

func (api *trackApi) viewNote(ctx echo.Context) error {
	return api.recordView(ctx, track.KindNote)
}

func (api *trackApi) viewPastPaper(ctx echo.Context) error {
	return api.recordView(ctx, track.KindPaper)
}

func (api *trackApi) recordView(ctx echo.Context, kind track.ItemKind) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.RecordView(claims.Subject, ctx.Param("id"), kind); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *trackApi) completeAssignment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.RecordCompletion(claims.Subject, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *trackApi) unitSummary(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	code := paramCode(ctx)

	notes, err := api.svc.UnviewedCount(claims.Subject, code, track.KindNote)
	if err != nil {
		return err
	}
	papers, err := api.svc.UnviewedCount(claims.Subject, code, track.KindPaper)
	if err != nil {
		return err
	}
	pending, err := api.svc.PendingCount(claims.Subject, code)
	if err != nil {
		return errors.Wrap(err, "counting pending assignments")
	}

	return ctx.JSON(http.StatusOK, UnitSummary{
		UnitCode:           code,
		UnviewedNotes:      notes,
		UnviewedPastPapers: papers,
		PendingAssignments: pending,
	})
}
