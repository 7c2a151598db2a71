package service

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/uma-arai/sbcntr-stay/internal/cache"
	"github.com/uma-arai/sbcntr-stay/internal/common/tracing"
	"github.com/uma-arai/sbcntr-stay/internal/repository"
)

// Provisioner はスキーマ構築後にDBからの読み取りへ切り替える対象です
type Provisioner interface {
	MarkProvisioned()
	Provisioned() bool
}

// SetupResult はスキーマ構築の結果です
type SetupResult struct {
	Seeded bool
}

// SetupService はスキーマの構築と構築状態の確認を担当します
type SetupService struct {
	schema   repository.SchemaRepository
	selector Provisioner
	cache    cache.ListingCache
}

func NewSetupService(schema repository.SchemaRepository, selector Provisioner, c cache.ListingCache) *SetupService {
	if c == nil {
		c = cache.NopListingCache{}
	}
	return &SetupService{
		schema:   schema,
		selector: selector,
		cache:    c,
	}
}

// Setup はテーブルを作成し、必要であればサンプルデータを投入します
// 成功後はリスティングの読み取り先をDBに切り替えます
func (s *SetupService) Setup(ctx context.Context, seed bool) (*SetupResult, error) {
	ctx, span := tracing.Start(ctx, "SetupService.Setup")
	defer span.End(nil)

	seeded, err := s.schema.Setup(ctx, seed)
	if err != nil {
		span.End(err)
		return nil, err
	}

	if s.selector != nil {
		s.selector.MarkProvisioned()
	}
	// サンプルデータの結果がキャッシュに残らないようにする
	s.cache.Invalidate(ctx)

	log.WithField("seeded", seeded).Info("database setup completed")
	return &SetupResult{Seeded: seeded}, nil
}

// Status はテーブルが揃っているかを返します
func (s *SetupService) Status(ctx context.Context) (bool, error) {
	ctx, span := tracing.Start(ctx, "SetupService.Status")
	defer span.End(nil)

	ok, err := s.schema.TablesExist(ctx)
	if err != nil {
		span.End(err)
		return false, err
	}
	if ok && s.selector != nil && !s.selector.Provisioned() {
		s.selector.MarkProvisioned()
	}
	return ok, nil
}
