package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trinhnail/config"
	"trinhnail/database"
	"trinhnail/database/kv"
	"trinhnail/handlers"
	"trinhnail/middleware"
	"trinhnail/routes"
	"trinhnail/services/content"
	"trinhnail/services/i18n"
	"trinhnail/services/media"
	"trinhnail/services/session"
	"trinhnail/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	local, closeLocal, err := openLocalStore()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to open local store: %v", err)
	}
	defer closeLocal()

	// A remote that cannot be opened degrades to the local fallback.
	remote, closeRemote, err := openRemoteStore(ctx)
	if err != nil {
		logger.Warn("main: remote content store unavailable, using local fallback", zap.Error(err))
	}
	defer closeRemote()

	contentStore := content.NewStore(remote, local, config.ContentDocID, logger.Named("content"))
	if err := contentStore.Start(ctx); err != nil {
		logger.Sugar().Fatalf("main: failed to start content store: %v", err)
	}
	defer contentStore.Close()

	var host media.ImageHost
	cld, err := utils.Cloudinary()
	if err != nil {
		logger.Warn("main: image host disabled", zap.Error(err))
	} else if cld != nil {
		host = media.NewCloudinaryHost(cld)
	}

	transcoder := media.NewTranscoder(config.AppConfig.ImageMaxWidth, config.AppConfig.ImageQuality)
	sessions := session.NewManager(local, config.AppConfig.AdminPassphrase)

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewContentHandler(contentStore, transcoder, host),
		handlers.NewAdminHandler(sessions, config.IsProduction()),
		handlers.NewBookingHandler(i18n.Default),
	)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlerBundle, config.AppConfig.AllowedOrigins)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	// Open SSE streams end when the store releases its observers.
	contentStore.Close()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// openRemoteStore connects the configured document store. The returned close
// function is always safe to call.
func openRemoteStore(ctx context.Context) (content.DocumentStore, func(), error) {
	noop := func() {}
	switch config.AppConfig.RemoteBackend {
	case "", "none":
		return nil, noop, nil

	case "firestore":
		client, err := utils.FirestoreClient(ctx)
		if err != nil {
			return nil, noop, err
		}
		return content.NewFirestoreStore(client, config.ContentCollection), func() { client.Close() }, nil

	case "mongo":
		client, err := database.ConnectMongo(ctx, config.AppConfig.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return content.NewMongoStore(client, config.AppConfig.MongoDatabase, config.ContentCollection), closeFn, nil
	}
	return nil, noop, fmt.Errorf("unknown REMOTE_BACKEND %q", config.AppConfig.RemoteBackend)
}

// openLocalStore opens the key-value store backing the local snapshot and admin sessions.
func openLocalStore() (kv.Store, func(), error) {
	switch config.AppConfig.LocalBackend {
	case "redis":
		client, err := utils.GetCacheClient()
		if err != nil {
			return nil, nil, err
		}
		return kv.NewRedisStore(client), func() { client.Close() }, nil

	case "", "sqlite":
		store, err := kv.NewSQLiteStore(config.AppConfig.LocalStorePath, config.AppConfig.LocalQuotaBytes)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown LOCAL_BACKEND %q", config.AppConfig.LocalBackend)
}
