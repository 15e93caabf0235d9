package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/voyagabagae/backend/internal/config"
	"github.com/voyagabagae/backend/internal/db"
	httpHandlers "github.com/voyagabagae/backend/internal/http/handlers"
	httpRouter "github.com/voyagabagae/backend/internal/http/router"
	"github.com/voyagabagae/backend/internal/logger"
	"github.com/voyagabagae/backend/internal/repository"
	"github.com/voyagabagae/backend/internal/service"
	"github.com/voyagabagae/backend/internal/storage"
	"github.com/voyagabagae/backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Хранилище: postgres при наличии DATABASE_URL, иначе in-memory.
	var (
		dbConn         *sqlx.DB
		userStore      service.AuthRepository
		announcementSt service.AnnouncementStore
	)

	if cfg.DatabaseURL != "" {
		dbConn, err = db.NewPostgres(ctx, cfg.DatabaseURL, cfg.DBConnectRetries)
		if err != nil {
			log.Fatalf("main: ошибка подключения к базе: %v", err)
		}
		defer safeClose(dbConn)

		if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
			log.Fatalf("main: ошибка миграций: %v", err)
		}

		userStore = repository.NewUserRepository(dbConn)
		announcementSt = repository.NewAnnouncementRepository(dbConn)
		logger.Log.Info("main: хранилище postgres")
	} else {
		memUsers := repository.NewMemoryUserRepository()
		userStore = memUsers
		// In-memory репозиторий объявлений подтягивает карточку отправителя
		// через пользовательское хранилище.
		announcementSt = repository.NewMemoryAnnouncementRepository(memUsers)
		logger.Log.Warn("main: DATABASE_URL не задан, работаем на in-memory хранилище")
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Вебсокеты: общая лента новых объявлений.
	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Сервисы.
	authService := service.NewAuthService(userStore, tokenManager)
	announcementService := service.NewAnnouncementService(announcementSt, hub)

	// Фоновая проверка просроченных объявлений.
	sweeper := service.NewExpirySweeper(announcementSt, cfg.ExpirySweepEvery)
	sweeper.Start(ctx)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	announcementHandler := httpHandlers.NewAnnouncementHandler(announcementService)
	mediaHandler := httpHandlers.NewMediaHandler(announcementService, photoStorage)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)
	catalogHandler := httpHandlers.NewCatalogHandler()

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, announcementHandler, mediaHandler, wsHandler, healthHandler, catalogHandler, tokenManager)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      engine,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(dbConn *sqlx.DB) {
	if err := dbConn.Close(); err != nil {
		log.Printf("main: ошибка закрытия соединения с базой: %v", err)
	}
}
