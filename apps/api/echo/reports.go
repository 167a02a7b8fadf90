package echoapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/user"
)

const maxAggregateBody = "5M"

type reportApi struct {
	svc      *attendance.Service
	validate *validator.Validate
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := reportApi{
		svc:      deps.AttendanceSvc,
		validate: deps.Validate,
	}

	rg := g.Group("/reports", jwt)
	rg.GET("/trend", api.trend, capabilityMiddleware(user.CapViewPredictions))
	rg.POST("/aggregate", api.aggregate, capabilityMiddleware(user.CapViewPredictions), middleware.BodyLimit(maxAggregateBody))
	rg.GET("/students", api.students, capabilityMiddleware(user.CapViewReports))
	rg.GET("/subjects", api.subjects, capabilityMiddleware(user.CapViewReports))
	rg.GET("/risk", api.risk, capabilityMiddleware(user.CapViewReports))
}

// bindQuery binds and validates the report query. Students are restricted to their own records.
func (api *reportApi) bindQuery(ctx echo.Context) (reportQuery, error) {
	var rq reportQuery
	if err := rq.Bind(ctx); err != nil {
		return rq, err
	}
	if err := rq.Filter.Validate(api.validate); err != nil {
		return rq, err
	}

	usr, err := getContextUser(ctx)
	if err != nil {
		return rq, err
	}
	if usr.IsStudent() {
		for _, id := range rq.Filter.StudentIDs {
			if id != usr.ID {
				return rq, errHttpForbidden
			}
		}
		rq.Filter.StudentIDs = []string{usr.ID}
	}
	return rq, nil
}

// Handlers

func (api *reportApi) trend(ctx echo.Context) error {
	rq, err := api.bindQuery(ctx)
	if err != nil {
		return err
	}
	report, err := api.svc.Trend(ctx.Request().Context(), rq.Filter, rq.Horizon)
	if err != nil {
		return errors.Wrap(err, "computing trend")
	}
	return ctx.JSON(http.StatusOK, report)
}

// aggregate computes the trend of caller-supplied rows instead of stored records.
func (api *reportApi) aggregate(ctx echo.Context) error {
	var rq reportQuery
	if err := rq.Bind(ctx); err != nil {
		return err
	}
	var raws []attendance.RawRecord
	if err := json.NewDecoder(ctx.Request().Body).Decode(&raws); err != nil {
		return errHttpBadPayload
	}

	settings := api.svc.Settings()
	agg := settings.Aggregator().AggregateRaw(raws)
	return ctx.JSON(http.StatusOK, echo.Map{
		"aggregation": agg,
		"trend":       settings.TrendOf(attendance.QueryFilter{}, agg, rq.Horizon),
	})
}

func (api *reportApi) students(ctx echo.Context) error {
	rq, err := api.bindQuery(ctx)
	if err != nil {
		return err
	}
	summaries, err := api.svc.StudentSummaries(ctx.Request().Context(), rq.Filter)
	if err != nil {
		return errors.Wrap(err, "computing student summaries")
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (api *reportApi) subjects(ctx echo.Context) error {
	rq, err := api.bindQuery(ctx)
	if err != nil {
		return err
	}
	risks, err := api.svc.SubjectRisks(ctx.Request().Context(), rq.Filter)
	if err != nil {
		return errors.Wrap(err, "computing subject risks")
	}
	return ctx.JSON(http.StatusOK, risks)
}

func (api *reportApi) risk(ctx echo.Context) error {
	rq, err := api.bindQuery(ctx)
	if err != nil {
		return err
	}
	overview, err := api.svc.RiskOverview(ctx.Request().Context(), rq.Filter)
	if err != nil {
		return errors.Wrap(err, "computing risk overview")
	}
	return ctx.JSON(http.StatusOK, overview)
}

func me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"user":         usr,
		"capabilities": user.Capabilities(usr.Roles),
	})
}
