package app

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"parqueo-service/internal/config"
	"parqueo-service/internal/db"
	"parqueo-service/internal/engine"
	customerHandler "parqueo-service/internal/handlers/customer"
	employeeHandler "parqueo-service/internal/handlers/employee"
	lotHandler "parqueo-service/internal/handlers/lot"
	parkingHandler "parqueo-service/internal/handlers/parking"
	pricingHandler "parqueo-service/internal/handlers/pricing"
	reservationHandler "parqueo-service/internal/handlers/reservation"
	waitlistHandler "parqueo-service/internal/handlers/waitlist"
	"parqueo-service/internal/middleware"
	"parqueo-service/internal/pkg/cache"
	"parqueo-service/internal/repository/postgres"
	customersvc "parqueo-service/internal/service/customer"
	employeesvc "parqueo-service/internal/service/employee"
	lotsvc "parqueo-service/internal/service/lot"
	parkingsvc "parqueo-service/internal/service/parking"
	pricingsvc "parqueo-service/internal/service/pricing"
	reservationsvc "parqueo-service/internal/service/reservation"
	waitlistsvc "parqueo-service/internal/service/waitlist"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	return &Server{cfg: cfg, engine: gin.New()}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	spaceRepo := postgres.NewSpaceRepository(pool)
	txnRepo := postgres.NewTransactionRepository(pool)
	pricingRepo := postgres.NewPricingRepository(pool)
	lotRepo := postgres.NewLotRepository(pool, dbWrapper, spaceRepo, pricingRepo)
	customerRepo := postgres.NewCustomerRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	waitlistRepo := postgres.NewWaitlistRepository(pool)

	// ----- Engine -----
	gateway := postgres.NewGateway(dbWrapper, spaceRepo, txnRepo, pricingRepo, customerRepo)
	eng := engine.New(gateway, engine.SystemClock{}, logger)

	// ----- Caches -----
	availability := cache.NewAvailabilityCache(redisClient, s.cfg.AvailabilityTTL)

	// ----- Services -----
	lotService := lotsvc.NewLotService(lotRepo, spaceRepo, availability, logger)
	parkingService := parkingsvc.NewParkingService(eng, spaceRepo, txnRepo, availability, logger)
	reservationService := reservationsvc.NewReservationService(eng, waitlistRepo, lotRepo, availability, logger)
	pricingService := pricingsvc.NewPricingService(pricingRepo, logger)
	customerService := customersvc.NewCustomerService(customerRepo, logger)
	employeeService := employeesvc.NewEmployeeService(employeeRepo, logger)
	waitlistService := waitlistsvc.NewWaitlistService(waitlistRepo, logger)

	// ----- Handlers -----
	handlers := &Handlers{
		LotHandler:         lotHandler.NewLotHandler(lotService),
		ParkingHandler:     parkingHandler.NewParkingHandler(parkingService),
		ReservationHandler: reservationHandler.NewReservationHandler(reservationService),
		PricingHandler:     pricingHandler.NewPricingHandler(pricingService),
		CustomerHandler:    customerHandler.NewCustomerHandler(customerService),
		EmployeeHandler:    employeeHandler.NewEmployeeHandler(employeeService),
		WaitlistHandler:    waitlistHandler.NewWaitlistHandler(waitlistService),
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
		middleware.RateLimitMiddleware(redisClient, s.cfg.RateLimit),
	)

	SetupRouter(s.engine, handlers)

	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
