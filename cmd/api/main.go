package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahwlsqja/ts-pass-claims/docs"
	"github.com/ahwlsqja/ts-pass-claims/internal/claim"
	"github.com/ahwlsqja/ts-pass-claims/internal/common/handler"
	"github.com/ahwlsqja/ts-pass-claims/internal/common/middleware"
	"github.com/ahwlsqja/ts-pass-claims/internal/config"
	pkgdb "github.com/ahwlsqja/ts-pass-claims/pkg/db"
	"github.com/ahwlsqja/ts-pass-claims/pkg/message"
	"github.com/ahwlsqja/ts-pass-claims/pkg/nonce"
	"github.com/ahwlsqja/ts-pass-claims/pkg/personalsign"
	pkgredis "github.com/ahwlsqja/ts-pass-claims/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title TS Pass Claims API
// @version 1.0
// @description Wallet-signed registration of claim details (email, Discord) with nonce replay protection
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	// 1) 로거 초기화
	logger, err := initLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// 2) 설정 로드
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logger.Info("starting server",
		zap.String("environment", cfg.Server.Environment),
		zap.String("addr", cfg.Server.Addr()),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("limiter", cfg.Claims.Limiter),
		zap.Bool("require_nonce", cfg.Claims.RequireNonce),
	)

	// 3) DB 초기화
	db, err := pkgdb.New(context.Background(), cfg.Database.Pool())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// 4) Redis 초기화 (limiter=redis 일 때만)
	var rdb *redis.Client
	if cfg.Claims.UsesRedis() {
		rdb = pkgredis.New(cfg.Redis.Client())
		defer rdb.Close()
	}

	// 5) 연결 테스트 (fail-fast)
	if err := testConnections(db, rdb); err != nil {
		logger.Fatal("failed to test connections", zap.Error(err))
	}

	// 6) 라우터 구성
	router := setupRouter(cfg, logger, db, rdb)

	// 7) HTTP 서버 생성
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 8) 서버 비동기 시작
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	logger.Info("server started",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("swagger", fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.Server.Port)),
	)

	// 9) 종료 시그널 대기
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// 10) Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func initLogger() (*zap.Logger, error) {
	env := os.Getenv("ENVIRONMENT")
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func testConnections(db *sql.DB, rdb *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pkgdb.Ping(ctx, db); err != nil {
		return err
	}

	if rdb != nil {
		if err := pkgredis.Ping(ctx, rdb); err != nil {
			return err
		}
	}

	return nil
}

func newLimiter(cfg config.ClaimsConfig, rdb *redis.Client, logger *zap.Logger) nonce.Limiter {
	if cfg.NonceCooldown <= 0 {
		return nonce.NopLimiter{}
	}
	switch cfg.Limiter {
	case config.LimiterRedis:
		return nonce.NewRedisLimiter(rdb, cfg.NonceCooldown, logger)
	case config.LimiterMemory:
		return nonce.NewMemoryLimiter(cfg.NonceCooldown)
	default:
		return nonce.NopLimiter{}
	}
}

func setupRouter(cfg *config.Config, logger *zap.Logger, db *sql.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(middleware.NoMethod)

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.Server.CORSAllowOrigin))

	// Swagger 설정
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.Server.Port)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoints
	var healthRedis redis.UniversalClient
	if rdb != nil {
		healthRedis = rdb
	}
	healthHandler := handler.NewHealthHandler(db, healthRedis)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// ============================================================================
	// Dependencies Setup
	// ============================================================================

	// TxRunner for transaction management
	txRunner := pkgdb.NewTxRunner(db)

	// Claim store (unique constraints + nonce compare-and-clear)
	gateway := claim.NewSQLGateway(txRunner, logger)

	// Per-wallet nonce cooldown
	limiter := newLimiter(cfg.Claims, rdb, logger)

	// personal_sign verifier for wallet signature verification
	verifier := personalsign.NewEthVerifier()

	// ============================================================================
	// Service & Handler Setup
	// ============================================================================

	nonceService := claim.NewNonceService(gateway, limiter, cfg.Claims.RetryAfter, logger)
	claimService := claim.NewService(gateway, nonceService, verifier, message.NewBuilder(cfg.Claims.AppName), claim.Options{
		RequireNonce: cfg.Claims.RequireNonce,
		RetryAfter:   cfg.Claims.RetryAfter,
	}, logger)
	claimHandler := claim.NewHandler(claimService)

	// ============================================================================
	// Route Registration
	// ============================================================================

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		claimHandler.RegisterRoutes(v1)
	}

	return router
}
