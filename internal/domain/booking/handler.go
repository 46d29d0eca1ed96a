package booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opd/opd/internal/platform/apierrors"
	"github.com/opd/opd/internal/platform/auth"
)

type Handler struct {
	svc *Service
	log zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/visits/:id/patients", h.ListPatients)

	write := api.Group("", auth.RequireRole("admin", "staff"))
	write.POST("/visits/:id/patients", h.AttachPatient)
}

func (h *Handler) fail(c echo.Context, err error) error {
	if errors.Is(err, ErrAlreadyBooked) {
		return echo.NewHTTPError(http.StatusConflict, ErrAlreadyBooked.Error())
	}
	httpErr := apierrors.ToHTTP(err)
	if httpErr.Code == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.Path()).Msg("booking request failed")
	}
	return httpErr
}

type attachRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
}

func (h *Handler) AttachPatient(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	var req attachRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PatientID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	rec, err := h.svc.Attach(c.Request().Context(), visitID, req.PatientID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListPatients(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	out, err := h.svc.ListPatientsForVisit(c.Request().Context(), visitID)
	if err != nil {
		return h.fail(c, err)
	}
	if out == nil {
		out = []*PatientBooking{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"patients": out})
}
