package medrecord

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/frontdesk/frontdesk/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleNurse))
	read.GET("/patients/:id/card", h.GetCard)
	read.GET("/cards/:id/diagnoses", h.ListDiagnoses)

	write := api.Group("", auth.RequireRole(auth.RolePhysician))
	write.POST("/cards/:id/diagnoses", h.AddDiagnosis)
	write.PUT("/diagnoses/:id/treatment", h.UpdateTreatment)
	write.PUT("/diagnoses/:id/active", h.SetActive)
}

func (h *Handler) GetCard(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	card, err := h.svc.GetCard(c.Request().Context(), patientID)
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medical card not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, card)
}

func (h *Handler) ListDiagnoses(c echo.Context) error {
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	list, err := h.svc.ListDiagnoses(c.Request().Context(), cardID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, list)
}

type addDiagnosisRequest struct {
	Description   string     `json:"description"`
	Treatment     string     `json:"treatment"`
	DateDiagnosed *time.Time `json:"date_diagnosed,omitempty"`
}

func (h *Handler) AddDiagnosis(c echo.Context) error {
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body addDiagnosisRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.Description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "description is required")
	}
	diagnosedAt := time.Now()
	if body.DateDiagnosed != nil {
		diagnosedAt = *body.DateDiagnosed
	}
	d, err := h.svc.AddDiagnosis(c.Request().Context(), cardID, body.Description, body.Treatment, diagnosedAt)
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medical card not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) UpdateTreatment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Treatment string `json:"treatment"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.UpdateTreatment(c.Request().Context(), id, body.Treatment)
	if err != nil {
		if errors.Is(err, ErrDiagnosisNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "diagnosis not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) SetActive(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Active bool `json:"active"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.SetActive(c.Request().Context(), id, body.Active)
	if err != nil {
		if errors.Is(err, ErrDiagnosisNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "diagnosis not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}
