package availability

import (
	"errors"
	"net/http"
	"strconv"
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
	read := api.Group("", auth.RequireRole(auth.RoleRegistrar, auth.RolePhysician, auth.RoleNurse))
	read.GET("/workers/:id/schedule", h.GetSchedule)
	read.GET("/workers/:id/availability", h.CheckAvailability)

	admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("/workers/:id/working-hours", h.AddWorkingHours)
	admin.PUT("/workers/:id/working-hours/:entryId", h.UpdateWorkingHours)
	admin.DELETE("/workers/:id/working-hours/:entryId", h.RemoveWorkingHours)
}

// intervalRequest is the wire shape of a time interval: calendar dates plus
// minutes from midnight.
type intervalRequest struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
}

func (r intervalRequest) interval() (TimeInterval, error) {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return TimeInterval{}, errors.New("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return TimeInterval{}, errors.New("end_date must be YYYY-MM-DD")
	}
	return NewInterval(start, end, r.StartMinute, r.EndMinute)
}

func (h *Handler) AddWorkingHours(c echo.Context) error {
	workerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid worker id")
	}
	var body intervalRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	iv, err := body.interval()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	entry, err := h.svc.AddWorkingHours(c.Request().Context(), workerID, iv)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *Handler) UpdateWorkingHours(c echo.Context) error {
	workerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid worker id")
	}
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid entry id")
	}
	var body intervalRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	iv, err := body.interval()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	entry, err := h.svc.UpdateWorkingHours(c.Request().Context(), workerID, entryID, iv)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "working hours not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handler) RemoveWorkingHours(c echo.Context) error {
	workerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid worker id")
	}
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid entry id")
	}
	if err := h.svc.RemoveWorkingHours(c.Request().Context(), workerID, entryID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "working hours not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// CheckAvailability answers the free/busy question for a worker at a single
// moment (?at=RFC3339) or over an explicit interval.
func (h *Handler) CheckAvailability(c echo.Context) error {
	workerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid worker id")
	}

	var iv TimeInterval
	if at := c.QueryParam("at"); at != "" {
		ts, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "at must be RFC3339")
		}
		iv = At(ts)
	} else {
		body := intervalRequest{
			StartDate: c.QueryParam("start_date"),
			EndDate:   c.QueryParam("end_date"),
		}
		if body.StartMinute, err = strconv.Atoi(c.QueryParam("start_minute")); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "start_minute must be an integer")
		}
		if body.EndMinute, err = strconv.Atoi(c.QueryParam("end_minute")); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "end_minute must be an integer")
		}
		iv, err = body.interval()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"worker_id": workerID,
		"interval":  iv,
		"available": h.svc.IsAvailable(workerID, iv),
	})
}

func (h *Handler) GetSchedule(c echo.Context) error {
	workerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid worker id")
	}
	return c.JSON(http.StatusOK, h.svc.SchedulesFor(workerID))
}
