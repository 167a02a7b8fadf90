package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/alert"
	"github.com/trezcool/mahudhurio/core/user"
)

type alertApi struct {
	svc      *alert.Service
	validate *validator.Validate
}

func registerAlertAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := alertApi{
		svc:      deps.AlertSvc,
		validate: deps.Validate,
	}
	g.POST("/alerts", api.send, jwt, capabilityMiddleware(user.CapSendAlerts))
}

// send emails the teachers of the filtered subjects about their at-risk students.
func (api *alertApi) send(ctx echo.Context) error {
	var rq reportQuery
	if err := rq.Bind(ctx); err != nil {
		return err
	}
	if err := rq.Filter.Validate(api.validate); err != nil {
		return err
	}

	alerts, err := api.svc.Notify(ctx.Request().Context(), rq.Filter)
	if err != nil {
		return errors.Wrap(err, "sending alerts")
	}
	return ctx.JSON(http.StatusAccepted, echo.Map{
		"sent":   len(alerts),
		"alerts": alerts,
	})
}
