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

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"ikam/internal/adapter/api"
	"ikam/internal/adapter/api/handler"
	apimiddleware "ikam/internal/adapter/api/middleware"
	"ikam/internal/adapter/api/router"
	"ikam/internal/adapter/repository"
	"ikam/internal/adapter/repository/memory"
	domainrepo "ikam/internal/domain/repository"
	"ikam/internal/domain/service"
	"ikam/internal/infrastructure/cache"
	"ikam/internal/infrastructure/firebase"
	"ikam/internal/infrastructure/push"
	"ikam/internal/infrastructure/ratelimit"
	"ikam/internal/infrastructure/websocket"
	"ikam/internal/usecase"
	"ikam/pkg/config"
	"ikam/pkg/logger"
)

type repositories struct {
	chats     domainrepo.ChatRepository
	users     domainrepo.UserRepository
	pymes     domainrepo.PymeRepository
	favorites domainrepo.FavoriteRepository
	catalog   domainrepo.CatalogRepository
	support   domainrepo.SupportRepository
}

// verifier authenticates bearer tokens and reports on the auth backend.
type verifier interface {
	apimiddleware.TokenVerifier
	handler.ConnectionTester
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		repos repositories
		auth  verifier
	)

	switch cfg.StoreDriver {
	case config.StoreMemory:
		store := memory.NewStore()
		if cfg.MemorySeedFile != "" {
			if err := memory.LoadFixtures(store, cfg.MemorySeedFile); err != nil {
				log.Fatalf("Failed to load seed data: %v", err)
			}
			logger.Info("Loaded seed data from %s", cfg.MemorySeedFile)
		}
		repos = repositories{
			chats:     memory.NewChatRepository(store),
			users:     memory.NewUserRepository(store),
			pymes:     memory.NewPymeRepository(store),
			favorites: memory.NewFavoriteRepository(store),
			catalog:   memory.NewCatalogRepository(store),
			support:   memory.NewSupportRepository(store),
		}

	default:
		opt := credentials(cfg)

		firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}

		authClient, err := firebaseApp.Auth(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase Auth: %v", err)
		}
		auth = firebase.NewFirebaseAuthClient(authClient)

		firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()

		repos = repositories{
			chats:     repository.NewFirestoreChatRepository(firestoreClient),
			users:     repository.NewFirestoreUserRepository(firestoreClient),
			pymes:     repository.NewFirestorePymeRepository(firestoreClient),
			favorites: repository.NewFirestoreFavoriteRepository(firestoreClient),
			catalog:   repository.NewFirestoreCatalogRepository(firestoreClient),
			support:   repository.NewFirestoreSupportRepository(firestoreClient),
		}
	}

	if auth == nil {
		if !cfg.IsDevelopment() {
			log.Fatalf("The memory store needs ENVIRONMENT=development")
		}
		logger.Warn("Using development tokens (Bearer dev:<uid>)")
		auth = firebase.DevTokenVerifier{}
	}

	var profileCache service.ProfileCache
	if cfg.RedisURL != "" {
		redisClient := cache.NewRedisClient(cfg.RedisURL, cfg.RedisPassword)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		profileCache = cache.NewRedisProfileCache(redisClient, cfg.ProfileCacheTTL)
	} else {
		profileCache = cache.NewMemoryProfileCache()
	}

	rateLimiter := ratelimit.NewRateLimiter(cfg.SendMessagePerMinute, cfg.EnsureChatPerHour)
	rateLimiter.StartCleanupRoutine(ctx)

	notifier := push.NewExpoClient(cfg.PushEndpoint, cfg.PushTimeout)

	userUseCase := usecase.NewUserUseCase(repos.users, profileCache)
	unreadUseCase := usecase.NewUnreadUseCase(repos.chats, userUseCase)
	chatUseCase := usecase.NewChatUseCase(repos.chats, repos.pymes, userUseCase, unreadUseCase, notifier, rateLimiter)
	favoriteUseCase := usecase.NewFavoriteUseCase(repos.favorites, repos.pymes)
	catalogUseCase := usecase.NewCatalogUseCase(repos.catalog, repos.pymes, repos.support)
	supportUseCase := usecase.NewSupportUseCase(repos.support)

	wsManager := websocket.NewManager(websocket.Services{
		Chats:    chatUseCase,
		Unread:   unreadUseCase,
		Catalog:  catalogUseCase,
		Profiles: userUseCase,
	})
	wsManager.Start(ctx)

	handler.Setup(userUseCase, favoriteUseCase, catalogUseCase, supportUseCase, auth)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(auth)
	chatHandler := handler.NewChatHandler(chatUseCase, unreadUseCase)
	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware, cfg.WebSocketSendBuffer)

	router.Setup(e, authMiddleware, rateLimiter)
	router.SetupChatRouter(e, chatHandler, authMiddleware, rateLimiter)
	router.SetupWebSocketRouter(e, wsHandler)

	go func() {
		logger.Info("Starting server on port %s (store=%s)", cfg.ServerPort, cfg.StoreDriver)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}

	// Let in-flight push notifications finish.
	chatUseCase.Wait()
}

func credentials(cfg *config.Config) option.ClientOption {
	if cfg.ServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON))
	}

	if cfg.ServiceAccountPath == "" {
		log.Fatalf("FIREBASE_SERVICE_ACCOUNT_JSON or FIREBASE_SERVICE_ACCOUNT_PATH is required for the firestore store")
	}
	if _, err := os.Stat(cfg.ServiceAccountPath); os.IsNotExist(err) {
		log.Fatalf("Service account file does not exist: %s", cfg.ServiceAccountPath)
	}

	logger.Info("Using Firebase service account from file: %s", cfg.ServiceAccountPath)
	return option.WithCredentialsFile(cfg.ServiceAccountPath)
}
