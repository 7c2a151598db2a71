package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	log "github.com/sirupsen/logrus"
	"github.com/uma-arai/sbcntr-stay/internal/cache"
	"github.com/uma-arai/sbcntr-stay/internal/common/config"
	"github.com/uma-arai/sbcntr-stay/internal/common/database"
	"github.com/uma-arai/sbcntr-stay/internal/common/logger"
	"github.com/uma-arai/sbcntr-stay/internal/common/utils"
	"github.com/uma-arai/sbcntr-stay/internal/event"
	"github.com/uma-arai/sbcntr-stay/internal/handler"
	"github.com/uma-arai/sbcntr-stay/internal/repository"
	"github.com/uma-arai/sbcntr-stay/internal/service"
)

const (
	projectName     = "sbcntr-stay"
	shutdownTimeout = 10 * time.Second
)

func main() {
	// 設定の読み込み
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", utils.GetStackWithError(err))
	}
	logger.Setup(cfg)

	// X-Ray設定
	if cfg.EnableTracing {
		if err := xray.Configure(xray.Config{
			DaemonAddr:     "127.0.0.1:2000", // X-Rayデーモンのアドレス
			ServiceVersion: "1.0.0",
		}); err != nil {
			log.Warnf("Failed to configure X-Ray: %v", err)
		}
		os.Setenv("AWS_XRAY_CONTEXT_MISSING", "LOG_ERROR")
	}

	ctx := context.Background()

	conn, err := database.NewDB(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", utils.GetStackWithError(err))
	}
	defer conn.Close()
	db := repository.NewDB(conn.DB)

	listingRepo := repository.NewListingRepository(db)
	schemaRepo := repository.NewSchemaRepository(db)
	selector := repository.NewListingSourceSelector(
		listingRepo,
		repository.NewFixtureListingSource(),
		provisioned(ctx, cfg, schemaRepo),
	)

	// 検索結果のキャッシュ。Redisが未設定または接続できない場合はキャッシュしない
	var listingCache cache.ListingCache = cache.NopListingCache{}
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warnf("Redis is unavailable, search cache disabled: %v", err)
		} else {
			defer client.Close()
			listingCache = cache.NewRedisListingCache(client, cfg.Redis.CacheTTL)
		}
	}

	// 予約ワークフローの起動。ローカルまたはARN未設定の場合は何もしない
	var publisher event.BookingPublisher = event.NopBookingPublisher{}
	if !cfg.Local && cfg.SFN.BookingStateMachineArn != "" {
		client, err := event.NewSFNClient(ctx)
		if err != nil {
			log.Fatalf("Failed to create Step Functions client: %v", utils.GetStackWithError(err))
		}
		publisher = event.NewSFNBookingPublisher(client, cfg.SFN.BookingStateMachineArn)
	}

	timeout := cfg.Server.RequestTimeout
	h := handler.New(
		service.NewListingService(selector, listingRepo, listingCache, timeout),
		service.NewBookingService(repository.NewBookingRepository(db), publisher, timeout),
		service.NewAuthService(repository.NewUserRepository(db), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		service.NewSetupService(schemaRepo, selector, listingCache),
	)

	server := &http.Server{
		Addr: ":" + cfg.Server.Port,
		Handler: h.HTTPHandler(handler.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			EnableTracing:  cfg.EnableTracing,
			TracingName:    projectName,
		}),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   timeout + 5*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// シグナルハンドリングの設定
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v, shutting down", sig)
	case err := <-errChan:
		log.Fatalf("Server failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}

// provisioned はリスティングの読み取り先をDBにするかを決めます
func provisioned(ctx context.Context, cfg *config.Config, schema repository.SchemaRepository) bool {
	switch cfg.ListingSource {
	case config.ListingSourceLive:
		return true
	case config.ListingSourceFixture:
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ok, err := schema.TablesExist(ctx)
	if err != nil {
		log.Warnf("Failed to check schema, serving sample listings: %v", err)
		return false
	}
	if !ok {
		log.Info("Schema is not provisioned, serving sample listings until setup runs")
	}
	return ok
}
