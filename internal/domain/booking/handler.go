package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/frontdesk/frontdesk/internal/domain/availability"
	"github.com/frontdesk/frontdesk/internal/domain/patient"
	"github.com/frontdesk/frontdesk/internal/domain/roster"
	"github.com/frontdesk/frontdesk/internal/platform/auth"
	"github.com/frontdesk/frontdesk/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	reg := api.Group("", auth.RequireRole(auth.RoleRegistrar))
	reg.POST("/appointments", h.Schedule)
	reg.POST("/appointments/:id/cancel", h.Cancel)
	reg.GET("/appointments/:id", h.GetAppointment)
	reg.GET("/patients/:id/appointments", h.ListPatientAppointments)
	reg.GET("/reception-log", h.ReceptionLog)
}

type scheduleRequest struct {
	PatientID  uuid.UUID `json:"patient_id"`
	Complaints []string  `json:"complaints"`
	// Either a single moment...
	At string `json:"at,omitempty"`
	// ...or an explicit range.
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	StartMinute int    `json:"start_minute,omitempty"`
	EndMinute   int    `json:"end_minute,omitempty"`
}

func (r scheduleRequest) interval() (availability.TimeInterval, error) {
	if r.At != "" {
		ts, err := time.Parse(time.RFC3339, r.At)
		if err != nil {
			return availability.TimeInterval{}, errors.New("at must be RFC3339")
		}
		return availability.At(ts), nil
	}
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return availability.TimeInterval{}, errors.New("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return availability.TimeInterval{}, errors.New("end_date must be YYYY-MM-DD")
	}
	return availability.NewInterval(start, end, r.StartMinute, r.EndMinute)
}

func (h *Handler) Schedule(c echo.Context) error {
	var body scheduleRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.PatientID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	iv, err := body.interval()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	appt, err := h.svc.Schedule(c.Request().Context(), body.PatientID, body.Complaints, iv)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, appt)
	case errors.Is(err, patient.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	case errors.Is(err, roster.ErrNoDepartment):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrNoAvailability):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, availability.ErrInvalidInterval):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

type cancelRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body cancelRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.PatientID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}

	err = h.svc.Cancel(c.Request().Context(), id, body.PatientID)
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	case errors.Is(err, ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrAlreadyCancelled):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	appt, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) ListPatientAppointments(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	appts, err := h.svc.AppointmentsOf(c.Request().Context(), patientID)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, appts)
}

func (h *Handler) ReceptionLog(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ReceptionLog(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
