package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"campushub/internal/adapter/api"
	"campushub/internal/adapter/api/handler"
	apimiddleware "campushub/internal/adapter/api/middleware"
	"campushub/internal/adapter/api/router"
	"campushub/internal/adapter/repository"
	"campushub/internal/infrastructure/firebase"
	"campushub/internal/infrastructure/ratelimit"
	"campushub/internal/infrastructure/storage"
	"campushub/internal/infrastructure/websocket"
	"campushub/internal/usecase"
	"campushub/pkg/config"
	"campushub/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
		serviceAccountPath = ""
	} else if serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.FirebaseProject, serviceAccountPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)
	marketRepo := repository.NewFirestoreMarketRepository(firestoreClient)
	assignmentRepo := repository.NewFirestoreAssignmentRepository(firestoreClient)
	lostFoundRepo := repository.NewFirestoreLostFoundRepository(firestoreClient)
	eventRepo := repository.NewFirestoreEventRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, notificationRepo, wsManager, rateLimiter)
	inboxUseCase := usecase.NewInboxUseCase(chatRepo, wsManager)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, wsManager, cfg.PanelSize)
	marketUseCase := usecase.NewMarketUseCase(marketRepo, userRepo, storageClient, rateLimiter)
	assignmentUseCase := usecase.NewAssignmentUseCase(assignmentRepo, userRepo, rateLimiter)
	lostFoundUseCase := usecase.NewLostFoundUseCase(lostFoundRepo, userRepo, rateLimiter)
	eventUseCase := usecase.NewEventUseCase(eventRepo, userRepo, notificationRepo)
	userUseCase := usecase.NewUserUseCase(userRepo, marketRepo, assignmentRepo, lostFoundRepo, eventRepo)
	feedUseCase := usecase.NewFeedUseCase(marketRepo, assignmentRepo, lostFoundRepo, eventRepo, wsManager)

	// Closing a chat view records the instant into the viewer's inbox,
	// so unread counts reset from that point.
	chatUseCase.OnSessionClose(inboxUseCase.MarkReadAt)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	moderatorMiddleware := apimiddleware.NewModeratorMiddleware(userRepo)

	chatHandler := handler.NewChatHandler(chatUseCase, inboxUseCase)
	marketHandler := handler.NewMarketHandler(marketUseCase, firebaseAuthClient)
	assignmentHandler := handler.NewAssignmentHandler(assignmentUseCase)
	lostFoundHandler := handler.NewLostFoundHandler(lostFoundUseCase)
	eventHandler := handler.NewEventHandler(eventUseCase)
	notificationHandler := handler.NewNotificationHandler(notificationUseCase)
	userHandler := handler.NewUserHandler(userUseCase)
	healthHandler := handler.NewHealthHandler()
	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware, chatUseCase, inboxUseCase, notificationUseCase, feedUseCase)

	router.SetupCommonRouter(e, healthHandler)
	router.SetupUserRouter(e, userHandler, authMiddleware)
	router.SetupChatRouter(e, chatHandler, authMiddleware)
	router.SetupMarketRouter(e, marketHandler, authMiddleware)
	router.SetupAssignmentRouter(e, assignmentHandler, authMiddleware)
	router.SetupLostFoundRouter(e, lostFoundHandler, authMiddleware)
	router.SetupEventRouter(e, eventHandler, authMiddleware, moderatorMiddleware)
	router.SetupNotificationRouter(e, notificationHandler, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	if cfg.Environment != "production" {
		devTokenHandler := handler.NewDevTokenHandler(firebaseAuthClient, cfg.FirebaseApiKey)
		router.SetupDevTokenRouter(e, devTokenHandler)
	}

	logger.Info("Starting server on port %s (%s)", cfg.ServerPort, cfg.Environment)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
