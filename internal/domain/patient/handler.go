package patient

import (
	"net/http"
	"time"

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
	api.GET("/patients/search", h.Search)
	api.GET("/patients/:id", h.Get)

	write := api.Group("", auth.RequireRole("admin", "staff"))
	write.POST("/patients", h.Create)
}

func (h *Handler) fail(c echo.Context, err error) error {
	httpErr := apierrors.ToHTTP(err)
	if httpErr.Code == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.Path()).Msg("patient request failed")
	}
	return httpErr
}

type patientRequest struct {
	HospitalID string  `json:"hospital_id"`
	Name       string  `json:"name"`
	Gender     *string `json:"gender"`
	DOB        *string `json:"dob"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	District   string  `json:"district"`
	State      *string `json:"state"`
	PinCode    *string `json:"pin_code"`
	Phone      string  `json:"phone"`
}

func (h *Handler) Create(c echo.Context) error {
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p := &Patient{
		HospitalID: req.HospitalID,
		Name:       req.Name,
		Gender:     req.Gender,
		Address:    req.Address,
		City:       req.City,
		District:   req.District,
		State:      req.State,
		PinCode:    req.PinCode,
		Phone:      req.Phone,
	}
	if req.DOB != nil && *req.DOB != "" {
		dob, err := time.Parse("2006-01-02", *req.DOB)
		if err != nil {
			return h.fail(c, apierrors.NewValidationError("dob", "must be a calendar date (YYYY-MM-DD)"))
		}
		p.DOB = &dob
	}
	if err := h.svc.Create(c.Request().Context(), p); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// searchResponse is the envelope the booking screens consume: an empty match
// set still returns 200, with the message distinguishing it from an error.
type searchResponse struct {
	Message  string     `json:"message"`
	Patients []*Patient `json:"patients"`
	Status   int        `json:"status"`
}

func (h *Handler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q query parameter is required")
	}
	patients, err := h.svc.Search(c.Request().Context(), query)
	if err != nil {
		return h.fail(c, err)
	}
	resp := searchResponse{Message: "Patients Found", Patients: patients, Status: http.StatusOK}
	if len(patients) == 0 {
		resp.Message = "No Patient Found"
		resp.Patients = []*Patient{}
	}
	return c.JSON(http.StatusOK, resp)
}
