package reservation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parqueo-service/internal/domain/space"
	"parqueo-service/internal/pkg/response"
	service "parqueo-service/internal/service/reservation"
)

type ReservationHandler struct {
	reservationService *service.ReservationService
}

func NewReservationHandler(reservationService *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// Request assigns the client a space or queues them on the waiting list
func (h *ReservationHandler) Request(c *gin.Context) {
	var req space.ClientReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.reservationService.Request(c.Request.Context(), c.Param("lotId"), &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	if result.Waitlist != nil {
		response.Success(c, http.StatusAccepted, "lot is full, added to waiting list", result)
		return
	}
	response.Success(c, http.StatusCreated, "reservation requested", result)
}

// Accept confirms a pending request
func (h *ReservationHandler) Accept(c *gin.Context) {
	sp, err := h.reservationService.Accept(c.Request.Context(), c.Param("lotId"), c.Param("number"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "reservation accepted", space.ToView(sp))
}

// Reject declines a pending request
func (h *ReservationHandler) Reject(c *gin.Context) {
	sp, err := h.reservationService.Reject(c.Request.Context(), c.Param("lotId"), c.Param("number"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "reservation rejected", space.ToView(sp))
}

// Cancel lets the requesting client withdraw their hold
func (h *ReservationHandler) Cancel(c *gin.Context) {
	clientID := c.Query("clientId")
	if clientID == "" {
		response.Error(c, http.StatusBadRequest, "clientId query parameter is required", nil)
		return
	}
	sp, err := h.reservationService.Cancel(c.Request.Context(), c.Param("lotId"), c.Param("number"), clientID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "reservation cancelled", space.ToView(sp))
}

// SetManual places a staff hold on a space
func (h *ReservationHandler) SetManual(c *gin.Context) {
	var req space.ManualReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	sp, err := h.reservationService.SetManual(c.Request.Context(), c.Param("lotId"), c.Param("number"), &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "reservation placed", space.ToView(sp))
}

// Clear releases any hold on a space
func (h *ReservationHandler) Clear(c *gin.Context) {
	sp, err := h.reservationService.Clear(c.Request.Context(), c.Param("lotId"), c.Param("number"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "reservation cleared", space.ToView(sp))
}

// ListPending returns the requests awaiting an owner decision
func (h *ReservationHandler) ListPending(c *gin.Context) {
	spaces, err := h.reservationService.ListPending(c.Request.Context(), c.Param("lotId"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "pending reservations retrieved", space.ToViews(spaces))
}

// ListForClient returns the client's live holds across all lots
func (h *ReservationHandler) ListForClient(c *gin.Context) {
	clientID := c.Query("clientId")
	if clientID == "" {
		response.Error(c, http.StatusBadRequest, "clientId query parameter is required", nil)
		return
	}
	reservations, err := h.reservationService.ListForClient(c.Request.Context(), clientID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "client reservations retrieved", reservations)
}
