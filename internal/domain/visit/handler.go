package visit

import (
	"net/http"
	"time"

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
	api.GET("/visits", h.List)
	api.GET("/visits/open", h.ListOpen)
	api.GET("/visits/today", h.ListToday)
	api.GET("/visits/:id", h.Get)

	write := api.Group("", auth.RequireRole("admin", "staff"))
	write.POST("/visits", h.Create)
	write.PUT("/visits/:id", h.Update)
}

func (h *Handler) fail(c echo.Context, err error) error {
	httpErr := apierrors.ToHTTP(err)
	if httpErr.Code == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.Path()).Msg("visit request failed")
	}
	return httpErr
}

type visitRequest struct {
	DepartmentID uuid.UUID `json:"department_id"`
	Date         string    `json:"date"`
	HospitalName string    `json:"hospital_name"`
	SlotNumber   int       `json:"slot_number"`
	Status       string    `json:"status"`
}

func (req *visitRequest) toVisit() (*Visit, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apierrors.NewValidationError("date", "must be a calendar date (YYYY-MM-DD)")
	}
	return &Visit{
		DepartmentID: req.DepartmentID,
		Date:         date,
		HospitalName: req.HospitalName,
		SlotNumber:   req.SlotNumber,
		Status:       Status(req.Status),
	}, nil
}

func (h *Handler) Create(c echo.Context) error {
	var req visitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v, err := req.toVisit()
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.svc.Create(c.Request().Context(), v); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	var req visitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v, err := req.toVisit()
	if err != nil {
		return h.fail(c, err)
	}
	v.ID = id
	if err := h.svc.Update(c.Request().Context(), v); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	v, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	visits, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return h.fail(c, err)
	}
	if visits == nil {
		visits = []*Visit{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(visits, total, p.Limit, p.Offset))
}

func (h *Handler) ListOpen(c echo.Context) error {
	visits, err := h.svc.ListOpenFuture(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	if visits == nil {
		visits = []*Visit{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"visits": visits})
}

func (h *Handler) ListToday(c echo.Context) error {
	visits, err := h.svc.ListToday(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	if visits == nil {
		visits = []*Visit{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"visits": visits})
}
