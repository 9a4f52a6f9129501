package parking

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parqueo-service/internal/domain/pricing"
	"parqueo-service/internal/domain/space"
	"parqueo-service/internal/domain/transaction"
	"parqueo-service/internal/pkg/response"
	service "parqueo-service/internal/service/parking"
)

type ParkingHandler struct {
	parkingService *service.ParkingService
}

func NewParkingHandler(parkingService *service.ParkingService) *ParkingHandler {
	return &ParkingHandler{parkingService: parkingService}
}

// ListSpaces returns every space in the lot
func (h *ParkingHandler) ListSpaces(c *gin.Context) {
	spaces, err := h.parkingService.ListSpaces(c.Request.Context(), c.Param("lotId"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "spaces retrieved", space.ToViews(spaces))
}

// GetSpace returns one space
func (h *ParkingHandler) GetSpace(c *gin.Context) {
	sp, err := h.parkingService.GetSpace(c.Request.Context(), c.Param("lotId"), c.Param("number"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "space retrieved", space.ToView(sp))
}

// RegisterEntry admits a vehicle into the space
func (h *ParkingHandler) RegisterEntry(c *gin.Context) {
	var req space.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	txn, sp, err := h.parkingService.RegisterEntry(c.Request.Context(), c.Param("lotId"), c.Param("number"), &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "entry registered", gin.H{
		"space":       space.ToView(sp),
		"transaction": transaction.ToView(txn),
	})
}

// RegisterExit settles the fee and frees the space
func (h *ParkingHandler) RegisterExit(c *gin.Context) {
	var req pricing.ExitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.parkingService.RegisterExit(c.Request.Context(),
		c.Param("lotId"), c.Param("number"), &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "exit registered", result)
}

// PreviewFee quotes the current fee without closing the stay
func (h *ParkingHandler) PreviewFee(c *gin.Context) {
	var req pricing.FeePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	breakdown, err := h.parkingService.PreviewFee(c.Request.Context(),
		c.Param("lotId"), c.Param("number"),
		req.DiscountCode, req.DiscountPercent)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "fee preview", breakdown)
}

// SetMaintenance takes a space out of service
func (h *ParkingHandler) SetMaintenance(c *gin.Context) {
	var req space.MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	sp, err := h.parkingService.SetMaintenance(c.Request.Context(), c.Param("lotId"), c.Param("number"), req.Notes)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "space set to maintenance", space.ToView(sp))
}

// ClearMaintenance returns a space to service
func (h *ParkingHandler) ClearMaintenance(c *gin.Context) {
	sp, err := h.parkingService.ClearMaintenance(c.Request.Context(), c.Param("lotId"), c.Param("number"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "maintenance cleared", space.ToView(sp))
}

// ListTransactions returns the lot's transaction history
func (h *ParkingHandler) ListTransactions(c *gin.Context) {
	var filter transaction.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filter", err)
		return
	}
	txns, err := h.parkingService.ListTransactions(c.Request.Context(), c.Param("lotId"), filter)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "transactions retrieved", transaction.ToViews(txns))
}

// GetTransaction returns one transaction by ID
func (h *ParkingHandler) GetTransaction(c *gin.Context) {
	txn, err := h.parkingService.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "transaction retrieved", transaction.ToView(txn))
}
