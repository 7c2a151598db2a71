package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/jmoiron/sqlx"
	"github.com/uma-arai/sbcntr-stay/internal/common/tracing"
	"github.com/uma-arai/sbcntr-stay/internal/model"
)

// ListingSource はリスティングの読み取り元です
// DB(ListingRepositoryImpl)とDB未構築時のサンプルデータ(FixtureListingSource)が実装します
type ListingSource interface {
	Search(ctx context.Context, filter model.ListingFilter) ([]model.ListingRow, error)
	GetByID(ctx context.Context, id int64) (*model.ListingRow, error)
}

type ListingRepository interface {
	ListingSource
	Create(ctx context.Context, row *model.ListingRow) error
}

type ListingRepositoryImpl struct {
	db *DB
}

func NewListingRepository(db *DB) *ListingRepositoryImpl {
	return &ListingRepositoryImpl{db: db}
}

// Search は検索条件に一致する公開中のリスティングを新しい順に取得します
func (r *ListingRepositoryImpl) Search(ctx context.Context, filter model.ListingFilter) ([]model.ListingRow, error) {
	ctx, span := tracing.Start(ctx, "ListingRepository.Search")
	defer span.End(nil)

	query, args := buildSearchQuery(filter)
	span.AddMetadata("filter", filter.CacheKey())

	rows := []model.ListingRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		span.End(err)
		return nil, model.NewPersistenceError("search listings", err)
	}

	return rows, nil
}

// GetByID は公開中のリスティングを1件取得します。存在しない場合はNotFoundErrorを返します
func (r *ListingRepositoryImpl) GetByID(ctx context.Context, id int64) (*model.ListingRow, error) {
	ctx, span := tracing.Start(ctx, "ListingRepository.GetByID")
	defer span.End(nil)

	var row model.ListingRow
	if err := r.db.GetContext(ctx, &row, detailQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("listing %d not found", id)
		}
		span.End(err)
		return nil, model.NewPersistenceError("get listing", err)
	}

	return &row, nil
}

// Create はリスティングを登録し、採番されたIDと作成日時をrowに設定します
func (r *ListingRepositoryImpl) Create(ctx context.Context, row *model.ListingRow) error {
	ctx, span := tracing.Start(ctx, "ListingRepository.Create")
	defer span.End(nil)

	if err := insertListing(ctx, r.db, row); err != nil {
		span.End(err)
		return classify("create listing", err)
	}

	return nil
}

const insertListingQuery = `
	INSERT INTO listings (
		host_id,
		title,
		description,
		location,
		latitude,
		longitude,
		price_per_night,
		guests,
		bedrooms,
		bathrooms,
		property_type,
		amenities,
		images,
		house_rules,
		is_active
	) VALUES (
		:host_id,
		:title,
		:description,
		:location,
		:latitude,
		:longitude,
		:price_per_night,
		:guests,
		:bedrooms,
		:bathrooms,
		:property_type,
		:amenities,
		:images,
		:house_rules,
		:is_active
	)
	RETURNING id, created_at, updated_at
`

func insertListing(ctx context.Context, ext sqlx.ExtContext, row *model.ListingRow) error {
	query, args, err := ext.BindNamed(insertListingQuery, row)
	if err != nil {
		return fmt.Errorf("failed to bind listing: %w", err)
	}
	return ext.QueryRowxContext(ctx, query, args...).Scan(&row.ID, &row.CreatedAt, &row.UpdatedAt)
}

// ListingSourceSelector はスキーマの構築状況に応じてDBとサンプルデータを切り替えます
type ListingSourceSelector struct {
	live        ListingSource
	fixture     ListingSource
	provisioned atomic.Bool
}

func NewListingSourceSelector(live, fixture ListingSource, provisioned bool) *ListingSourceSelector {
	s := &ListingSourceSelector{live: live, fixture: fixture}
	s.provisioned.Store(provisioned)
	return s
}

// MarkProvisioned はスキーマ構築の完了を記録し、以降はDBから読み取ります
func (s *ListingSourceSelector) MarkProvisioned() {
	s.provisioned.Store(true)
}

func (s *ListingSourceSelector) Provisioned() bool {
	return s.provisioned.Load()
}

func (s *ListingSourceSelector) current() ListingSource {
	if s.provisioned.Load() {
		return s.live
	}
	return s.fixture
}

func (s *ListingSourceSelector) Search(ctx context.Context, filter model.ListingFilter) ([]model.ListingRow, error) {
	return s.current().Search(ctx, filter)
}

func (s *ListingSourceSelector) GetByID(ctx context.Context, id int64) (*model.ListingRow, error) {
	return s.current().GetByID(ctx, id)
}
