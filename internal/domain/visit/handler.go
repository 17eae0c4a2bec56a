package visit

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/frontdesk/frontdesk/internal/domain/booking"
	"github.com/frontdesk/frontdesk/internal/domain/patient"
	"github.com/frontdesk/frontdesk/internal/domain/roster"
	"github.com/frontdesk/frontdesk/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole(auth.RoleRegistrar, auth.RolePhysician, auth.RoleNurse))
	staff.POST("/visits/check-in", h.CheckIn)

	nurse := api.Group("", auth.RequireRole(auth.RoleNurse))
	nurse.POST("/visits/assist", h.Assist)
	nurse.POST("/visits/samples", h.TakeSample)
}

type checkInRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
}

// CheckIn handles a patient arriving for a scheduled appointment.
func (h *Handler) CheckIn(c echo.Context) error {
	var body checkInRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.AppointmentID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "appointment_id is required")
	}

	res, err := h.svc.Process(c.Request().Context(), body.AppointmentID)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, res)
	case errors.Is(err, ErrNoAppointment), errors.Is(err, booking.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNoAppointment.Error())
	case errors.Is(err, ErrNoDoctorAssigned):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNoDiagnosis):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

type assistRequest struct {
	NurseID  uuid.UUID `json:"nurse_id"`
	DoctorID uuid.UUID `json:"doctor_id"`
}

func (h *Handler) Assist(c echo.Context) error {
	var body assistRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	err := h.svc.Assist(c.Request().Context(), body.NurseID, body.DoctorID)
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, roster.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotNurse), errors.Is(err, ErrNoDoctorAssigned):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

type sampleRequest struct {
	NurseID   uuid.UUID `json:"nurse_id"`
	PatientID uuid.UUID `json:"patient_id"`
	Kind      string    `json:"kind"`
}

func (h *Handler) TakeSample(c echo.Context) error {
	var body sampleRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.TakeSample(c.Request().Context(), body.NurseID, body.PatientID, body.Kind)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, res)
	case errors.Is(err, roster.ErrNotFound), errors.Is(err, patient.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotNurse):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
