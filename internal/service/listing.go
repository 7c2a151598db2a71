package service

import (
	"context"
	"time"

	"github.com/uma-arai/sbcntr-stay/internal/cache"
	"github.com/uma-arai/sbcntr-stay/internal/common/tracing"
	"github.com/uma-arai/sbcntr-stay/internal/model"
	"github.com/uma-arai/sbcntr-stay/internal/repository"
)

// ListingService はリスティングの検索・詳細取得・登録を担当します
type ListingService struct {
	source  repository.ListingSource
	repo    repository.ListingRepository
	cache   cache.ListingCache
	timeout time.Duration
}

// NewListingService は新しいListingServiceを作成します
// 読み取りはsource(DBまたはサンプルデータ)、登録はrepoに対して行います
func NewListingService(source repository.ListingSource, repo repository.ListingRepository, c cache.ListingCache, timeout time.Duration) *ListingService {
	if c == nil {
		c = cache.NopListingCache{}
	}
	return &ListingService{
		source:  source,
		repo:    repo,
		cache:   c,
		timeout: timeout,
	}
}

// Search は検索パラメーターを検証し、一致するリスティングを新しい順に返します
func (s *ListingService) Search(ctx context.Context, params map[string]string) ([]model.ListingSummary, error) {
	ctx, span := tracing.Start(ctx, "ListingService.Search")
	defer span.End(nil)

	filter, err := model.ParseListingFilter(params)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.GetSearch(ctx, filter); ok {
		return cached, nil
	}

	var rows []model.ListingRow
	err = runWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		var err error
		rows, err = s.source.Search(ctx, filter)
		return err
	})
	if err != nil {
		span.End(err)
		return nil, err
	}

	listings := model.ToListingSummaries(rows)
	s.cache.SetSearch(ctx, filter, listings)
	return listings, nil
}

// Get はリスティングの詳細を返します。存在しないか非公開の場合はNotFoundErrorです
func (s *ListingService) Get(ctx context.Context, id int64) (*model.ListingDetail, error) {
	ctx, span := tracing.Start(ctx, "ListingService.Get")
	defer span.End(nil)

	if id <= 0 {
		return nil, model.NewNotFoundError("listing %d not found", id)
	}

	var row *model.ListingRow
	err := runWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		var err error
		row, err = s.source.GetByID(ctx, id)
		return err
	})
	if err != nil {
		span.End(err)
		return nil, err
	}

	detail := model.ToListingDetail(*row)
	return &detail, nil
}

// Create はホストのリスティングを登録し、登録後の詳細を返します
func (s *ListingService) Create(ctx context.Context, hostID int64, in model.CreateListingInput) (*model.ListingDetail, error) {
	ctx, span := tracing.Start(ctx, "ListingService.Create")
	defer span.End(nil)

	if err := validateInput(in); err != nil {
		return nil, err
	}

	row := model.NewListingRow(hostID, in)
	var created *model.ListingRow
	err := runWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, &row); err != nil {
			return err
		}
		var err error
		created, err = s.repo.GetByID(ctx, row.ID)
		return err
	})
	if err != nil {
		span.End(err)
		return nil, err
	}

	// 新しいリスティングが検索結果に含まれるようキャッシュを破棄する
	s.cache.Invalidate(ctx)

	detail := model.ToListingDetail(*created)
	return &detail, nil
}
