package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-inventory-service/config"
	"github.com/fekuna/omnipos-inventory-service/internal/server"
	"github.com/fekuna/omnipos-inventory-service/internal/session"
	"github.com/fekuna/omnipos-inventory-service/pkg/database"
	"github.com/fekuna/omnipos-inventory-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/outbox"
	"github.com/fekuna/omnipos-inventory-service/pkg/render"
	"github.com/fekuna/omnipos-inventory-service/web"

	catH "github.com/fekuna/omnipos-inventory-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-inventory-service/internal/category/usecase"

	custH "github.com/fekuna/omnipos-inventory-service/internal/customer/handler"
	custRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/customer/repository"
	custUCPkg "github.com/fekuna/omnipos-inventory-service/internal/customer/usecase"

	dashH "github.com/fekuna/omnipos-inventory-service/internal/dashboard/handler"
	dashRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/dashboard/repository"
	dashUCPkg "github.com/fekuna/omnipos-inventory-service/internal/dashboard/usecase"

	invH "github.com/fekuna/omnipos-inventory-service/internal/inventory/handler"
	invRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-inventory-service/internal/inventory/usecase"

	orderDoc "github.com/fekuna/omnipos-inventory-service/internal/order/document"
	orderH "github.com/fekuna/omnipos-inventory-service/internal/order/handler"
	orderRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-inventory-service/internal/order/usecase"

	prodH "github.com/fekuna/omnipos-inventory-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-inventory-service/internal/product/usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const serviceName = "omnipos.inventory"

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.IsDevelopment() {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			appLogger.Fatal("Could not apply schema", zap.Error(err))
		}
		appLogger.Info("Database schema applied")
	}
	txManager := database.NewTxManager(db)

	// 4. Initialize Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Outbox
	outboxStore := outbox.NewPGStore(db)
	var producer outbox.Producer = outbox.Discard{}
	if cfg.Kafka.Enabled {
		writer := outbox.NewWriter(cfg.Kafka.Brokers)
		defer writer.Close()
		producer = writer
		appLogger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	} else {
		appLogger.Warn("Kafka disabled, order events are marked sent without delivery")
	}
	relay := outbox.NewRelay(appLogger, outboxStore, outbox.NewDispatcher(appLogger, producer, cfg.Kafka.Topic), outbox.RelayConfig{
		RelayID:   cfg.Outbox.RelayID,
		BatchSize: cfg.Outbox.BatchSize,
		Interval:  cfg.Outbox.Interval,
		Lease:     cfg.Outbox.Lease,
	})

	// 6. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	custRepo := custRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	dashRepo := dashRepoPkg.NewPGRepository(db)

	// 7. Initialize UseCases
	catUC := catUCPkg.NewCategoryUseCase(catRepo, txManager, appLogger)
	custUC := custUCPkg.NewCustomerUseCase(custRepo, txManager, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, txManager, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, txManager, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, custUC, invUC, outboxStore, orderDoc.NewPDFGenerator("Order"), txManager, appLogger)
	dashUC := dashUCPkg.NewDashboardUseCase(dashRepo, txManager, appLogger)

	// 8. Initialize Handlers
	renderer, err := render.New(web.Templates, "templates")
	if err != nil {
		appLogger.Fatal("Could not parse templates", zap.Error(err))
	}
	sessions := session.NewManager(session.NewRedisStore(redisClient, cfg.Session.TTL), session.Options{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	}, appLogger)

	router := server.NewRouter(server.Handlers{
		Dashboard:  dashH.NewDashboardHandler(dashUC, renderer, appLogger),
		Categories: catH.NewCategoryHandler(catUC, renderer, sessions, appLogger),
		Customers:  custH.NewCustomerHandler(custUC, renderer, sessions, appLogger),
		Products:   prodH.NewProductHandler(prodUC, catUC, renderer, sessions, appLogger),
		Orders:     orderH.NewOrderHandler(orderUC, custUC, prodUC, renderer, sessions, appLogger),
		Inventory:  invH.NewInventoryHandler(invUC, renderer, appLogger),
	}, sessions, appLogger)

	// 9. Start Outbox Relay
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		if err := relay.Run(ctx); err != nil {
			appLogger.Error("outbox relay stopped", zap.Error(err))
		}
	}()

	// 10. Start gRPC Health Server
	grpcPort := listenAddr(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	// Register Reflection
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC health server", zap.String("port", grpcPort))
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// 11. Start HTTP Server
	httpServer := &http.Server{
		Addr:         listenAddr(cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	<-relayDone
	appLogger.Info("Server stopped")
}

func listenAddr(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
