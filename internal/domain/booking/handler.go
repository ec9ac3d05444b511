package booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicapp/clinic/internal/domain/directory"
	"github.com/clinicapp/clinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/book-appointment", h.Book)
	e.GET("/appointments", h.ListAppointments)
	e.DELETE("/cancel-appointment/:id", h.CancelAppointment)
}

type bookRequest struct {
	Doctor string `json:"doctor"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
}

func (h *Handler) Book(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	doctorID, err := uuid.Parse(req.Doctor)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Doctor not found")
	}

	var identity *auth.Identity
	if id, ok := auth.IdentityFromContext(c.Request().Context()); ok {
		identity = &id
	}

	detail, err := h.svc.Book(c.Request().Context(), BookInput{
		DoctorID: doctorID,
		Date:     req.Date,
		Time:     req.Time,
		Name:     req.Name,
		Phone:    req.Phone,
		Identity: identity,
	})
	switch {
	case errors.Is(err, directory.ErrDoctorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Doctor not found")
	case errors.Is(err, ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date or time")
	case err != nil:
		return err
	}

	return c.JSON(http.StatusCreated, detail)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	items, err := h.svc.ListAppointments(c.Request().Context())
	if err != nil {
		return err
	}
	if items == nil {
		items = []*AppointmentDetail{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CancelAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Appointment not found")
	}
	if err := h.svc.CancelAppointment(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Appointment not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Appointment deleted successfully"})
}
