package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/session"
)

type sessionApi struct {
	mgr      *session.Manager
	validate *validator.Validate
}

func registerSessionAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := sessionApi{
		mgr:      deps.Sessions,
		validate: deps.Validate,
	}

	sg := g.Group("/session", jwt)
	sg.GET("/preferences", api.retrieve)
	sg.PUT("/preferences", api.update)
	sg.DELETE("/preferences", api.destroy)
}

// Handlers

func (api *sessionApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	sess, err := api.mgr.Load(ctx.Request().Context(), usr.ID)
	if err != nil {
		if err == session.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "loading session")
	}
	return ctx.JSON(http.StatusOK, sess.Preferences)
}

func (api *sessionApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var prefs session.Preferences
	if err = ctx.Bind(&prefs); err != nil {
		return errHttpBadPayload
	}
	if err = api.validate.Struct(prefs); err != nil {
		return err
	}
	if err = prefs.Filter.Validate(api.validate); err != nil {
		return err
	}
	if usr.IsStudent() {
		prefs.Filter.StudentIDs = []string{usr.ID}
	}

	sess, err := api.mgr.Save(ctx.Request().Context(), session.Session{
		UserID:      usr.ID,
		Roles:       usr.Roles,
		Preferences: prefs,
	})
	if err != nil {
		return errors.Wrap(err, "saving session")
	}
	return ctx.JSON(http.StatusOK, sess.Preferences)
}

func (api *sessionApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.mgr.Clear(ctx.Request().Context(), usr.ID); err != nil {
		return errors.Wrap(err, "clearing session")
	}
	return ctx.NoContent(http.StatusNoContent)
}
