package pricing

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parqueo-service/internal/domain/pricing"
	"parqueo-service/internal/pkg/response"
	service "parqueo-service/internal/service/pricing"
)

type PricingHandler struct {
	pricingService *service.PricingService
}

func NewPricingHandler(pricingService *service.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// GetSettings returns the lot's pricing configuration
func (h *PricingHandler) GetSettings(c *gin.Context) {
	settings, err := h.pricingService.GetSettings(c.Request.Context(), c.Param("lotId"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "pricing retrieved", settings)
}

// UpdateSettings replaces the lot's pricing configuration
func (h *PricingHandler) UpdateSettings(c *gin.Context) {
	var req pricing.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	settings, err := h.pricingService.UpdateSettings(c.Request.Context(), c.Param("lotId"), &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "pricing updated", settings)
}

// ResetDefaults restores the stock rate table
func (h *PricingHandler) ResetDefaults(c *gin.Context) {
	settings, err := h.pricingService.ResetDefaults(c.Request.Context(), c.Param("lotId"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "pricing reset to defaults", settings)
}

// ListDiscountCodes returns the accepted discount codes
func (h *PricingHandler) ListDiscountCodes(c *gin.Context) {
	response.Success(c, http.StatusOK, "discount codes retrieved", h.pricingService.DiscountCodes())
}
