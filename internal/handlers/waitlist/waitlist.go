package waitlist

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parqueo-service/internal/domain/waitlist"
	"parqueo-service/internal/pkg/response"
	service "parqueo-service/internal/service/waitlist"
)

type WaitlistHandler struct {
	waitlistService *service.WaitlistService
}

func NewWaitlistHandler(waitlistService *service.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{waitlistService: waitlistService}
}

// Join queues a client for the lot
func (h *WaitlistHandler) Join(c *gin.Context) {
	var req waitlist.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	result, err := h.waitlistService.Join(c.Request.Context(), c.Param("lotId"), &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "added to waiting list", result)
}

// List returns the lot's waiting list
func (h *WaitlistHandler) List(c *gin.Context) {
	result, err := h.waitlistService.ListByLot(c.Request.Context(), c.Param("lotId"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "waiting list retrieved", result)
}

// Cancel withdraws a waiting list entry
func (h *WaitlistHandler) Cancel(c *gin.Context) {
	if err := h.waitlistService.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "waiting list entry cancelled", nil)
}
