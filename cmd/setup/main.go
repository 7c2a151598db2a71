package main

import (
	"context"
	"flag"
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
	"github.com/uma-arai/sbcntr-stay/internal/repository"
	"github.com/uma-arai/sbcntr-stay/internal/service"
)

const (
	projectName = "sbcntr-stay-setup"
)

func main() {
	// コマンドライン引数のパース
	timeout := flag.Duration("timeout", 5*time.Minute, "セットアップ処理のタイムアウト時間")
	seed := flag.Bool("seed", true, "リスティングが無い場合にサンプルデータを投入する")
	flag.Parse()

	// 設定の読み込み
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", utils.GetStackWithError(err))
	}
	logger.Setup(cfg)

	conn, err := database.NewDB(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", utils.GetStackWithError(err))
	}
	defer conn.Close()

	// サーバーのキャッシュに古い検索結果が残らないよう破棄する
	var listingCache cache.ListingCache = cache.NopListingCache{}
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warnf("Redis is unavailable, skipping cache invalidation: %v", err)
		} else {
			defer client.Close()
			listingCache = cache.NewRedisListingCache(client, cfg.Redis.CacheTTL)
		}
	}

	setup := service.NewSetupService(repository.NewSchemaRepository(repository.NewDB(conn.DB)), nil, listingCache)

	// コンテキストの作成
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// X-Rayセグメントの作成
	if cfg.EnableTracing {
		var seg *xray.Segment
		ctx, seg = xray.BeginSegment(ctx, projectName)
		defer seg.Close(nil)

		if err := seg.AddMetadata("seed", *seed); err != nil {
			log.Printf("Failed to add seed metadata: %v", err)
		}
	}

	// シグナルハンドリングの設定
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- utils.RunWithTimeout(ctx, *timeout, func(ctx context.Context) error {
			result, err := setup.Setup(ctx, *seed)
			if err != nil {
				return err
			}
			log.WithField("seeded", result.Seeded).Info("Setup completed successfully")
			return nil
		})
	}()

	// シグナルまたはエラーの待機
	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		cancel()
		os.Exit(1)
	case err := <-errChan:
		if err != nil {
			log.Errorf("Setup failed: %v", utils.GetStackWithError(err))
			os.Exit(1)
		}
	}
}
