package roster

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

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
	read := api.Group("", auth.RequireRole(auth.RoleRegistrar, auth.RolePhysician, auth.RoleNurse))
	read.GET("/hospitals", h.ListHospitals)
	read.GET("/hospitals/:id", h.GetHospital)
	read.GET("/departments", h.ListDepartments)
	read.GET("/departments/:id", h.GetDepartment)
	read.GET("/departments/:id/staff", h.ListStaff)
	read.GET("/workers", h.ListWorkers)
	read.GET("/workers/:id", h.GetWorker)
	read.GET("/routing-rules", h.ListRoutingRules)

	admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("/hospitals", h.CreateHospital)
	admin.POST("/departments", h.CreateDepartment)
	admin.POST("/departments/:id/staff/:workerId", h.AssignWorker)
	admin.DELETE("/departments/:id/staff/:workerId", h.UnassignWorker)
	admin.POST("/workers", h.CreateWorker)
	admin.PUT("/workers/:id", h.UpdateWorker)
	admin.DELETE("/workers/:id", h.DeleteWorker)
	admin.POST("/routing-rules", h.CreateRoutingRule)
	admin.DELETE("/routing-rules/:id", h.DeleteRoutingRule)
}

// -- Hospital --

func (h *Handler) CreateHospital(c echo.Context) error {
	var hp Hospital
	if err := c.Bind(&hp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateHospital(c.Request().Context(), &hp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, hp)
}

func (h *Handler) GetHospital(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	hp, err := h.svc.GetHospital(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
	}
	return c.JSON(http.StatusOK, hp)
}

func (h *Handler) ListHospitals(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListHospitals(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- Department --

func (h *Handler) CreateDepartment(c echo.Context) error {
	var d Department
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDepartment(c.Request().Context(), &d); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDepartment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDepartment(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "department not found")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDepartments(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.QueryParam("hospital_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "hospital_id query parameter is required")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListDepartments(c.Request().Context(), hospitalID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) AssignWorker(c echo.Context) error {
	deptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid department id")
	}
	workerID, err := uuid.Parse(c.Param("workerId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid worker id")
	}
	if err := h.svc.AssignWorker(c.Request().Context(), deptID, workerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UnassignWorker(c echo.Context) error {
	deptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid department id")
	}
	workerID, err := uuid.Parse(c.Param("workerId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid worker id")
	}
	if err := h.svc.UnassignWorker(c.Request().Context(), deptID, workerID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListStaff(c echo.Context) error {
	deptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid department id")
	}
	staff, err := h.svc.StaffOf(c.Request().Context(), deptID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, staff)
}

// -- Worker --

func (h *Handler) CreateWorker(c echo.Context) error {
	var w MedicalWorker
	if err := c.Bind(&w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateWorker(c.Request().Context(), &w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, w)
}

func (h *Handler) GetWorker(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	w, err := h.svc.GetWorker(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "worker not found")
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) UpdateWorker(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var w MedicalWorker
	if err := c.Bind(&w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	w.ID = id
	if err := h.svc.UpdateWorker(c.Request().Context(), &w); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "worker not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) DeleteWorker(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteWorker(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListWorkers(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListWorkers(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- Routing --

func (h *Handler) CreateRoutingRule(c echo.Context) error {
	var r RoutingRule
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateRoutingRule(c.Request().Context(), &r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) DeleteRoutingRule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteRoutingRule(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListRoutingRules(c echo.Context) error {
	rules, err := h.svc.ListRoutingRules(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rules)
}
