package app

import (
	"github.com/gin-gonic/gin"

	customerHandler "parqueo-service/internal/handlers/customer"
	employeeHandler "parqueo-service/internal/handlers/employee"
	lotHandler "parqueo-service/internal/handlers/lot"
	parkingHandler "parqueo-service/internal/handlers/parking"
	pricingHandler "parqueo-service/internal/handlers/pricing"
	reservationHandler "parqueo-service/internal/handlers/reservation"
	waitlistHandler "parqueo-service/internal/handlers/waitlist"
)

type Handlers struct {
	LotHandler         *lotHandler.LotHandler
	ParkingHandler     *parkingHandler.ParkingHandler
	ReservationHandler *reservationHandler.ReservationHandler
	PricingHandler     *pricingHandler.PricingHandler
	CustomerHandler    *customerHandler.CustomerHandler
	EmployeeHandler    *employeeHandler.EmployeeHandler
	WaitlistHandler    *waitlistHandler.WaitlistHandler
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Lots ====================
	lots := api.Group("/lots")
	{
		lots.POST("", h.LotHandler.CreateLot)
		lots.GET("", h.LotHandler.ListLots)
		lots.GET("/:lotId", h.LotHandler.GetLot)
		lots.PATCH("/:lotId", h.LotHandler.UpdateLot)
		lots.GET("/:lotId/availability", h.LotHandler.GetAvailability)
		lots.PUT("/:lotId/spaces/configuration", h.LotHandler.ConfigureSpaces)
	}

	// ==================== Spaces & Parking ====================
	spaces := api.Group("/lots/:lotId/spaces")
	{
		spaces.GET("", h.ParkingHandler.ListSpaces)
		spaces.GET("/:number", h.ParkingHandler.GetSpace)
		spaces.POST("/:number/entry", h.ParkingHandler.RegisterEntry)
		spaces.POST("/:number/exit", h.ParkingHandler.RegisterExit)
		spaces.POST("/:number/fee-preview", h.ParkingHandler.PreviewFee)
		spaces.POST("/:number/maintenance", h.ParkingHandler.SetMaintenance)
		spaces.DELETE("/:number/maintenance", h.ParkingHandler.ClearMaintenance)
	}

	// ==================== Reservations ====================
	api.GET("/reservations", h.ReservationHandler.ListForClient)
	reservations := api.Group("/lots/:lotId/reservations")
	{
		reservations.POST("", h.ReservationHandler.Request)
		reservations.GET("/pending", h.ReservationHandler.ListPending)
		reservations.POST("/:number/accept", h.ReservationHandler.Accept)
		reservations.POST("/:number/reject", h.ReservationHandler.Reject)
		reservations.DELETE("/:number", h.ReservationHandler.Cancel)
		reservations.PUT("/:number/manual", h.ReservationHandler.SetManual)
		reservations.DELETE("/:number/manual", h.ReservationHandler.Clear)
	}

	// ==================== Pricing ====================
	pricing := api.Group("/lots/:lotId/pricing")
	{
		pricing.GET("", h.PricingHandler.GetSettings)
		pricing.PUT("", h.PricingHandler.UpdateSettings)
		pricing.POST("/reset", h.PricingHandler.ResetDefaults)
	}
	api.GET("/discount-codes", h.PricingHandler.ListDiscountCodes)

	// ==================== Transactions ====================
	api.GET("/lots/:lotId/transactions", h.ParkingHandler.ListTransactions)
	api.GET("/transactions/:id", h.ParkingHandler.GetTransaction)

	// ==================== Customers ====================
	customers := api.Group("/customers")
	{
		customers.POST("", h.CustomerHandler.Register)
		customers.GET("/search", h.CustomerHandler.FindByPlate)
		customers.GET("/:id", h.CustomerHandler.GetCustomer)
		customers.PATCH("/:id", h.CustomerHandler.UpdateCustomer)
	}

	// ==================== Employees ====================
	employees := api.Group("/lots/:lotId/employees")
	{
		employees.POST("", h.EmployeeHandler.Create)
		employees.GET("", h.EmployeeHandler.List)
	}
	api.PATCH("/employees/:id", h.EmployeeHandler.Update)

	// ==================== Waiting List ====================
	waitlist := api.Group("/lots/:lotId/waitlist")
	{
		waitlist.POST("", h.WaitlistHandler.Join)
		waitlist.GET("", h.WaitlistHandler.List)
	}
	api.DELETE("/waitlist/:id", h.WaitlistHandler.Cancel)
}
