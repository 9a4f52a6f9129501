package lot

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parqueo-service/internal/domain/lot"
	"parqueo-service/internal/domain/space"
	"parqueo-service/internal/pkg/response"
	service "parqueo-service/internal/service/lot"
)

type LotHandler struct {
	lotService *service.LotService
}

func NewLotHandler(lotService *service.LotService) *LotHandler {
	return &LotHandler{lotService: lotService}
}

// CreateLot registers a lot with its seed layout
func (h *LotHandler) CreateLot(c *gin.Context) {
	var req lot.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.lotService.CreateLot(c.Request.Context(), &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "lot created successfully", result)
}

// GetLot retrieves a lot by ID
func (h *LotHandler) GetLot(c *gin.Context) {
	result, err := h.lotService.GetLot(c.Request.Context(), c.Param("lotId"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "lot retrieved", result)
}

// ListLots lists the lots owned by the given owner
func (h *LotHandler) ListLots(c *gin.Context) {
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		response.Error(c, http.StatusBadRequest, "ownerId query parameter is required", nil)
		return
	}
	result, err := h.lotService.ListLotsByOwner(c.Request.Context(), ownerID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "lots retrieved", result)
}

// UpdateLot renames or re-addresses a lot
func (h *LotHandler) UpdateLot(c *gin.Context) {
	var req lot.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	result, err := h.lotService.UpdateLot(c.Request.Context(), c.Param("lotId"), &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "lot updated", result)
}

// ConfigureSpaces rebuilds the lot's layout, discarding the old one
func (h *LotHandler) ConfigureSpaces(c *gin.Context) {
	var req lot.ConfigureSpacesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	spaces, err := h.lotService.ConfigureSpaces(c.Request.Context(), c.Param("lotId"), &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "lot layout configured", space.ToViews(spaces))
}

// GetAvailability serves the cached occupancy summary for polling clients
func (h *LotHandler) GetAvailability(c *gin.Context) {
	result, err := h.lotService.Availability(c.Request.Context(), c.Param("lotId"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "availability retrieved", result)
}
