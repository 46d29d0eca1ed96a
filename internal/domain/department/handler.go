package department

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opd/opd/internal/platform/apierrors"
	"github.com/opd/opd/internal/platform/auth"
	"github.com/opd/opd/pkg/pagination"
)

type Handler struct {
	svc *Service
	log zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/departments", h.List)
	api.GET("/departments/:id", h.Get)
	api.GET("/departments/:id/days", h.Days)
	api.GET("/visit-days", h.AllVisitDays)

	write := api.Group("", auth.RequireRole("admin", "staff"))
	write.POST("/departments", h.Create)
	write.PUT("/departments/:id", h.Update)
	write.DELETE("/departments/:id", h.Delete)
}

func (h *Handler) fail(c echo.Context, err error) error {
	httpErr := apierrors.ToHTTP(err)
	if httpErr.Code == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.Path()).Msg("department request failed")
	}
	return httpErr
}

type departmentRequest struct {
	Name        string   `json:"name"`
	MaxPatients int      `json:"max_patients"`
	Days        []string `json:"days"`
}

func (h *Handler) Create(c echo.Context) error {
	var req departmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d := &Department{Name: req.Name, MaxPatients: req.MaxPatients, Days: req.Days}
	if err := h.svc.Create(c.Request().Context(), d); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid department id")
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid department id")
	}
	var req departmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d := &Department{ID: id, Name: req.Name, MaxPatients: req.MaxPatients, Days: req.Days}
	if err := h.svc.Update(c.Request().Context(), d); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid department id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	deps, total, err := h.svc.List(c.Request().Context(), c.QueryParam("name"), p.Limit, p.Offset)
	if err != nil {
		return h.fail(c, err)
	}
	if deps == nil {
		deps = []*Department{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(deps, total, p.Limit, p.Offset))
}

// Days returns the weekday indices (0=Sunday) a department accepts visits on.
func (h *Handler) Days(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid department id")
	}
	indices, err := h.svc.AllowedWeekdayIndices(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"days": indices})
}

func (h *Handler) AllVisitDays(c echo.Context) error {
	days, err := h.svc.AllVisitDays(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"days": days})
}
