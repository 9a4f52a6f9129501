package employee

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parqueo-service/internal/domain/employee"
	"parqueo-service/internal/pkg/response"
	service "parqueo-service/internal/service/employee"
)

type EmployeeHandler struct {
	employeeService *service.EmployeeService
}

func NewEmployeeHandler(employeeService *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Create adds a staff member to the lot
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req employee.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	result, err := h.employeeService.Create(c.Request.Context(), c.Param("lotId"), &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "employee created", result)
}

// List returns the lot's staff
func (h *EmployeeHandler) List(c *gin.Context) {
	result, err := h.employeeService.ListByLot(c.Request.Context(), c.Param("lotId"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "employees retrieved", result)
}

// Update edits a staff member
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req employee.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	result, err := h.employeeService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "employee updated", result)
}
