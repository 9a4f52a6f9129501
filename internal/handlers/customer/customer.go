package customer

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parqueo-service/internal/domain/customer"
	"parqueo-service/internal/pkg/response"
	service "parqueo-service/internal/service/customer"
)

type CustomerHandler struct {
	customerService *service.CustomerService
}

func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Register creates a customer profile
func (h *CustomerHandler) Register(c *gin.Context) {
	var req customer.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	result, err := h.customerService.Register(c.Request.Context(), &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "customer registered", customer.ToView(result))
}

// GetCustomer retrieves a customer by ID
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	result, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "customer retrieved", customer.ToView(result))
}

// UpdateCustomer edits profile details
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	var req customer.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	result, err := h.customerService.UpdateCustomer(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "customer updated", customer.ToView(result))
}

// FindByPlate resolves the owner of a plate
func (h *CustomerHandler) FindByPlate(c *gin.Context) {
	plate := c.Query("plate")
	if plate == "" {
		response.Error(c, http.StatusBadRequest, "plate query parameter is required", nil)
		return
	}
	result, err := h.customerService.FindByPlate(c.Request.Context(), plate)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "customer retrieved", customer.ToView(result))
}
