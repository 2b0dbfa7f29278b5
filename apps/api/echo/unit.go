package echoapi

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Einzelgaanger/darasa/core"
	"github.com/Einzelgaanger/darasa/core/unit"
)

type unitApi struct {
	svc   *unit.Service
	files core.FileStorage
}

func registerUnitAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *unit.Service, files core.FileStorage) {
	api := unitApi{svc: svc, files: files}

	ug := g.Group("/units", jwt)
	ug.POST("", api.create, teacherMiddleware())
	ug.GET("", api.query)
	ug.GET("/:code", api.retrieve)

	ug.POST("/:code/notes", api.createNote)
	ug.GET("/:code/notes", api.queryNotes)
	ug.POST("/:code/past-papers", api.createPastPaper)
	ug.GET("/:code/past-papers", api.queryPastPapers)
	ug.POST("/:code/assignments", api.createAssignment)
	ug.GET("/:code/assignments", api.queryAssignments)

	g.DELETE("/notes/:id", api.deleteNote, jwt)
	g.DELETE("/past-papers/:id", api.deletePastPaper, jwt)
	g.DELETE("/assignments/:id", api.deleteAssignment, jwt)
}

// Handlers

func (api *unitApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	var data unit.NewUnit
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUnit")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}
	u, err := api.svc.Create(data, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "creating unit")
	}
	return ctx.JSON(http.StatusCreated, u)
}

func (api *unitApi) query(ctx echo.Context) error {
	units, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying units")
	}
	if units == nil {
		units = []unit.Unit{}
	}
	return ctx.JSON(http.StatusOK, units)
}

func (api *unitApi) retrieve(ctx echo.Context) error {
	u, err := api.svc.GetByCode(paramCode(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, u)
}

// Notes

func (api *unitApi) createNote(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	code := paramCode(ctx)

	var data unit.NewNote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNote")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}
	if data.FileURL, err = api.storeUpload(ctx, code, "notes"); err != nil {
		return err
	}

	n, err := api.svc.CreateNote(code, data, claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, n)
}

func (api *unitApi) queryNotes(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	notes, err := api.svc.QueryNotes(paramCode(ctx), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, notes)
}

func (api *unitApi) deleteNote(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteNote(ctx.Request().Context(), ctx.Param("id"), claims.Subject); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Past papers

func (api *unitApi) createPastPaper(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	code := paramCode(ctx)

	var data unit.NewPastPaper
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPastPaper")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}
	if data.FileURL, err = api.storeUpload(ctx, code, "past-papers"); err != nil {
		return err
	}

	p, err := api.svc.CreatePastPaper(code, data, claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *unitApi) queryPastPapers(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	papers, err := api.svc.QueryPastPapers(paramCode(ctx), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, papers)
}

func (api *unitApi) deletePastPaper(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeletePastPaper(ctx.Request().Context(), ctx.Param("id"), claims.Subject); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Assignments

func (api *unitApi) createAssignment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	code := paramCode(ctx)

	var data unit.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	// multipart forms carry the deadline as an RFC 3339 string
	if data.Deadline == nil {
		if v := ctx.FormValue("deadline"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return core.NewValidationError(nil, core.FieldError{Field: "deadline", Error: "invalid timestamp, expected RFC 3339"})
			}
			data.Deadline = &t
		}
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}
	if data.FileURL, err = api.storeUpload(ctx, code, "assignments"); err != nil {
		return err
	}

	a, err := api.svc.CreateAssignment(code, data, claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *unitApi) queryAssignments(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	assignments, err := api.svc.QueryAssignments(paramCode(ctx), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *unitApi) deleteAssignment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteAssignment(ctx.Request().Context(), ctx.Param("id"), claims.Subject); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// storeUpload saves the "file" part of a multipart request, if any, and
// returns the stored file's URL. Content items without an attachment are fine.
func (api *unitApi) storeUpload(ctx echo.Context, unitCode, kind string) (string, error) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart || err == echo.ErrUnsupportedMediaType {
			return "", nil
		}
		return "", errors.Wrap(err, "reading multipart file")
	}
	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "opening multipart file")
	}
	defer src.Close()

	key := fmt.Sprintf("units/%s/%s/%s_%s", core.SlugifyCode(unitCode), kind, uuid.New().String(), filepath.Base(fh.Filename))
	url, err := api.files.Store(ctx.Request().Context(), key, src)
	if err != nil {
		return "", errors.Wrap(err, "storing file")
	}
	return url, nil
}
