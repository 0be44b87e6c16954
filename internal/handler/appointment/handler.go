package appointment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medcita/clinic-api/internal/apperror"
	"github.com/medcita/clinic-api/internal/handler"
	"github.com/medcita/clinic-api/internal/middleware"
	"github.com/medcita/clinic-api/internal/model"
	"github.com/medcita/clinic-api/internal/service/appointment"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.Error(apperror.New(apperror.Unauthorized, "missing identity"))
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.Wrap(apperror.Validation, "invalid request body", err))
		return
	}

	if _, err := h.service.Book(c.Request.Context(), callerID, &req); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewMessageResponse("appointment created"))
}

func (h *Handler) GetHistory(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.Error(apperror.New(apperror.Unauthorized, "missing identity"))
		return
	}

	history, err := h.service.HistoryFor(c.Request.Context(), callerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"history": history}))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.Error(apperror.New(apperror.Unauthorized, "missing identity"))
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.New(apperror.Validation, "invalid appointment ID"))
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id, callerID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("appointment cancelled"))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("/history", h.GetHistory)
		appointments.PUT("/:id/cancel", h.CancelAppointment)
	}
}
