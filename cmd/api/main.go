package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ps-assigner/app/config"
	"github.com/ps-assigner/app/controllers"
	"github.com/ps-assigner/app/services"
	"github.com/ps-assigner/helpers/utils"
	"github.com/ps-assigner/routes"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	loadConfig()
	if err := config.Load(viper.GetString("assign_config")); err != nil {
		log.Fatal("Cannot load assignment config: ", err)
	}

	// 2. Khởi tạo logger
	logger, err := utils.NewLogger(viper.GetString("app_env"), viper.GetString("log_level"))
	if err != nil {
		log.Fatal("Cannot initialize logger: ", err)
	}
	defer logger.Sync()

	logger.Info("Starting PS Assignment Service",
		zap.String("env", viper.GetString("app_env")),
		zap.String("overlap_policy", config.C.OverlapPolicy),
		zap.Int("workers", config.C.Workers))

	// 3. Khởi tạo job store
	jobStore, cleanup := initJobStore(logger)
	defer cleanup()

	// 4. Khởi tạo services
	assignmentService, err := services.NewAssignmentService(config.C, jobStore, logger)
	if err != nil {
		logger.Fatal("Failed to initialize assignment service", zap.Error(err))
	}

	// 5. Khởi tạo controllers
	assignmentController := controllers.NewAssignmentController(assignmentService, logger)
	adminController := controllers.NewAdminController(assignmentService, logger)

	// 6. Khởi tạo Gin router và routes
	if viper.GetString("app_env") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, assignmentController, adminController)

	// 7. Khởi động server
	port := viper.GetString("app_port")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// loadConfig load configuration từ file và env vars
func loadConfig() {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	// Set defaults
	viper.SetDefault("app_port", "8080")
	viper.SetDefault("app_env", "development")
	viper.SetDefault("log_level", "")
	viper.SetDefault("assign_config", "config/assign.yaml")
	viper.SetDefault("job_store", "memory")
	viper.SetDefault("redis_url", "redis://localhost:6379/0")
	viper.SetDefault("mongo_url", "mongodb://localhost:27017")
	viper.SetDefault("mongo_database", "ps_assigner")
	viper.SetDefault("max_jobs", 1000)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Cannot read config file: %v", err)
	}
}

// initJobStore chọn job store theo JOB_STORE (memory | redis | mongo)
func initJobStore(logger *zap.Logger) (services.IJobStore, func()) {
	ttl := config.C.JobTTL

	switch store := viper.GetString("job_store"); store {
	case "redis":
		redisStore, err := services.NewRedisJobStore(viper.GetString("redis_url"), ttl, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis job store", zap.Error(err))
		}
		logger.Info("Using Redis job store")
		return redisStore, func() { redisStore.Close() }

	case "mongo":
		db := initMongoDB(logger)
		mongoStore, err := services.NewMongoJobStore(db, ttl, logger)
		if err != nil {
			logger.Fatal("Failed to initialize MongoDB job store", zap.Error(err))
		}
		logger.Info("Using MongoDB job store", zap.String("database", db.Name()))
		return mongoStore, func() {
			if err := db.Client().Disconnect(context.Background()); err != nil {
				logger.Error("Error disconnecting MongoDB", zap.Error(err))
			}
		}

	case "memory", "":
		logger.Info("Using in-memory job store", zap.Duration("ttl", ttl))
		return services.NewMemoryJobStore(viper.GetInt("max_jobs"), ttl), func() {}

	default:
		logger.Fatal("Unknown job store", zap.String("job_store", store))
		return nil, nil
	}
}

// initMongoDB khởi tạo kết nối MongoDB
func initMongoDB(logger *zap.Logger) *mongo.Database {
	mongoURL := viper.GetString("mongo_url")

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURL))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}

	db := client.Database(viper.GetString("mongo_database"))
	logger.Info("Connected to MongoDB", zap.String("database", db.Name()))
	return db
}
