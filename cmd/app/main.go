package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"marqueelz_backend/internal/api"
	"marqueelz_backend/internal/imghost"
	"marqueelz_backend/internal/middleware"
	"marqueelz_backend/internal/repository"
	"marqueelz_backend/internal/service"
	"marqueelz_backend/internal/textgen"
	"marqueelz_backend/pkg/auth"
	"marqueelz_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			zapLogger.Warn("Redis unavailable, token revocation falls back to memory", zap.Error(err))
			rdb = nil
		}
	}

	authService := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), auth.NewBlacklist(rdb))

	if cfg.Auth.AdminEmail != "" {
		if err := repo.PromoteAdmin(context.Background(), cfg.Auth.AdminEmail); err != nil {
			zapLogger.Warn("Failed to promote admin account", zap.Error(err))
		}
	}

	loc := time.UTC
	if cfg.Streak.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Streak.Timezone)
		if err != nil {
			zapLogger.Fatal("Invalid streak timezone", zap.Error(err))
		}
	}

	notifier := service.NewNotifications()

	userService := service.NewUserService(repo)
	streakService := service.NewStreakService(repo, loc)
	voucherService := service.NewVoucherService(repo)
	chatService := service.NewChatService(repo, textgen.NewClient(textgen.Config{
		APIKey:  cfg.TextGen.APIKey,
		BaseURL: cfg.TextGen.BaseURL,
		Timeout: time.Duration(cfg.TextGen.TimeoutSeconds) * time.Second,
	}), notifier)
	galleryService := service.NewGalleryService(repo, imghost.NewClient(imghost.Config{
		APIKey:  cfg.ImageHost.APIKey,
		BaseURL: cfg.ImageHost.BaseURL,
		Timeout: time.Duration(cfg.ImageHost.TimeoutSeconds) * time.Second,
	}), notifier)

	authz := middleware.NewAuthorization(userService)

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	corsConfig.AllowHeaders = []string{"*"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour

	router.Use(cors.New(corsConfig))

	a := router.Group("/api/v1")
	api.NewUserRoutes(a, userService, authService)
	api.NewStreakRoutes(a, streakService, voucherService, notifier, authService)
	api.NewVoucherRoutes(a, voucherService, authService, authz)
	api.NewChatRoutes(a, chatService, authService, cfg.Chat.RatePerMinute)
	api.NewGalleryRoutes(a, galleryService, authService)
	api.NewLiveRoutes(a, notifier, authService)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
