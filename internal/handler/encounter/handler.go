package encounter

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medcita/clinic-api/internal/apperror"
	"github.com/medcita/clinic-api/internal/handler"
	"github.com/medcita/clinic-api/internal/middleware"
	"github.com/medcita/clinic-api/internal/model"
	"github.com/medcita/clinic-api/internal/service/encounter"
)

type Handler struct {
	service *encounter.Service
}

func NewHandler(service *encounter.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CompleteAppointment(c *gin.Context) {
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

	var req model.CompleteAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.Wrap(apperror.Validation, "invalid request body", err))
		return
	}

	if err := h.service.Complete(c.Request.Context(), id, callerID, &req); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("appointment completed and recorded"))
}

func (h *Handler) GetSummary(c *gin.Context) {
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

	summary, err := h.service.Summary(c.Request.Context(), id, callerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(summary))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("/:id/complete", h.CompleteAppointment)
		appointments.GET("/:id/summary", h.GetSummary)
	}
}
