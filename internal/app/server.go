// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"offers-service/internal/cache"
	"offers-service/internal/config"
	"offers-service/internal/db"
	checkoutHandler "offers-service/internal/handlers/checkout"
	messageHandler "offers-service/internal/handlers/message"
	ruleHandler "offers-service/internal/handlers/rule"
	"offers-service/internal/middleware"
	"offers-service/internal/repository/postgres"
	checkoutUsecase "offers-service/internal/service/checkout"
	"offers-service/internal/service/evaluation"
	"offers-service/internal/service/lifecycle"
	messageUsecase "offers-service/internal/service/message"
	ruleUsecase "offers-service/internal/service/rule"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg     config.AppConfig
	engine  *gin.Engine
	logger  *zap.Logger
	sweeper *lifecycle.Sweeper
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.Default()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- PostgreSQL -----
	pool, err := postgres.ConnectDB(ctx)
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
	log.Println("[REDIS] connected successfully")

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- Repositories -----
	ruleRepo := postgres.NewOfferRuleRepository(pool)
	redemptionRepo := postgres.NewRedemptionRepository(pool)
	partyRepo := postgres.NewPartyRepository(pool)

	// ----- Cache -----
	ruleCache := cache.NewActiveRuleCache(redisClient, s.cfg.RuleCacheTTL, logger)

	// ----- Services (Usecases) -----
	engine := evaluation.NewEngine(logger)
	ruleService := ruleUsecase.NewRuleService(ruleRepo, ruleCache, logger)
	checkoutService := checkoutUsecase.NewCheckoutService(ruleRepo, ruleCache, redemptionRepo, engine, logger)
	messageService := messageUsecase.NewMessageService(partyRepo, ruleRepo, logger)

	// ----- Lifecycle Sweeper -----
	s.sweeper = lifecycle.NewSweeper(ruleRepo, logger, s.cfg.SweepInterval)
	if err := s.sweeper.Start(); err != nil {
		return fmt.Errorf("failed to start lifecycle sweeper: %w", err)
	}

	// ----- Handlers -----
	ruleHandlerInst := ruleHandler.NewRuleHandler(ruleService)
	checkoutHandlerInst := checkoutHandler.NewCheckoutHandler(checkoutService)
	messageHandlerInst := messageHandler.NewMessageHandler(messageService)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(s.cfg.JWTSecret)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		RuleHandler:     ruleHandlerInst,
		CheckoutHandler: checkoutHandlerInst,
		MessageHandler:  messageHandlerInst,
		AuthMiddleware:  authMiddleware,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

// Shutdown stops the background sweeper.
func (s *Server) Shutdown() {
	if s.sweeper != nil {
		s.sweeper.Stop()
	}
}
