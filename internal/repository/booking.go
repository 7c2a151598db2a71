package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
	"github.com/uma-arai/sbcntr-stay/internal/common/tracing"
	"github.com/uma-arai/sbcntr-stay/internal/model"
)

// シリアライズ失敗時に予約作成をやり直す回数
const bookingTxRetries = 3

// キャンセル済みを除く予約のうち、宿泊期間が重なるものを取得する
// daterangeは'[]'で両端を含むため、チェックアウト日と同日のチェックインも重複になる
const conflictingBookingsQuery = `
		SELECT id, listing_id, guest_id, check_in, check_out, guests, total_price, status, payment_status, created_at, updated_at
		FROM bookings
		WHERE listing_id = $1
		AND status <> 'cancelled'
		AND daterange(check_in, check_out, '[]') && daterange($2::date, $3::date, '[]')
		ORDER BY check_in
	`

const bookableListingQuery = `SELECT guests, price_per_night, is_active FROM listings WHERE id = $1`

const bookingColumns = `
			b.id,
			b.listing_id,
			b.guest_id,
			b.check_in,
			b.check_out,
			b.guests,
			b.total_price,
			b.status,
			b.payment_status,
			b.created_at,
			b.updated_at`

type BookingRepository interface {
	IsAvailable(ctx context.Context, listingID int64, stay model.StayDates) (bool, error)
	CreateIfAvailable(ctx context.Context, booking *model.Booking) error
	ListByGuest(ctx context.Context, guestID int64) ([]model.BookingRow, error)
	ListByHost(ctx context.Context, hostID int64) ([]model.BookingRow, error)
}

type BookingRepositoryImpl struct {
	db *DB
}

func NewBookingRepository(db *DB) *BookingRepositoryImpl {
	return &BookingRepositoryImpl{db: db}
}

// IsAvailable は指定期間に重なる有効な予約が無い場合にtrueを返します
// 存在しないまたは非公開のリスティングはNotFoundErrorです
func (r *BookingRepositoryImpl) IsAvailable(ctx context.Context, listingID int64, stay model.StayDates) (bool, error) {
	ctx, span := tracing.Start(ctx, "BookingRepository.IsAvailable")
	defer span.End(nil)

	if _, err := findBookableListing(ctx, r.db, listingID); err != nil {
		if model.IsClassified(err) {
			return false, err
		}
		span.End(err)
		return false, model.NewPersistenceError("check availability", err)
	}

	conflicts, err := findConflictingBookings(ctx, r.db, listingID, stay)
	if err != nil {
		span.End(err)
		return false, model.NewPersistenceError("check availability", err)
	}

	return len(conflicts) == 0, nil
}

type bookableListing struct {
	Guests        int     `db:"guests"`
	PricePerNight float64 `db:"price_per_night"`
	IsActive      bool    `db:"is_active"`
}

func findBookableListing(ctx context.Context, q sqlx.QueryerContext, listingID int64) (*bookableListing, error) {
	var listing bookableListing
	err := sqlx.GetContext(ctx, q, &listing, bookableListingQuery, listingID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !listing.IsActive) {
		return nil, model.NewNotFoundError("listing %d not found", listingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load listing %d: %w", listingID, err)
	}
	return &listing, nil
}

// findConflictingBookings は宿泊期間が重なる有効な予約を返します
// DBの判定結果をモデルの重複規則でも確認し、両者がずれた行は返しません
func findConflictingBookings(ctx context.Context, q sqlx.QueryerContext, listingID int64, stay model.StayDates) ([]model.Booking, error) {
	var candidates []model.Booking
	err := sqlx.SelectContext(ctx, q, &candidates, conflictingBookingsQuery,
		listingID,
		stay.CheckIn.Format(model.DateLayout),
		stay.CheckOut.Format(model.DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}

	conflicts := candidates[:0]
	for _, b := range candidates {
		if b.BlocksDates() && b.Stay().Overlaps(stay) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts, nil
}

// CreateIfAvailable は空き確認と登録を1つのトランザクションで行います
// 同じリスティングへの予約はアドバイザリーロックで直列化されるため、重なる予約が同時に確定することはありません
// 登録に成功するとbookingにID・作成日時が設定されます
func (r *BookingRepositoryImpl) CreateIfAvailable(ctx context.Context, booking *model.Booking) error {
	ctx, span := tracing.Start(ctx, "BookingRepository.CreateIfAvailable")
	defer span.End(nil)

	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var err error
	for attempt := 0; attempt <= bookingTxRetries; attempt++ {
		err = r.db.InTx(ctx, opts, func(tx *sqlx.Tx) error {
			return createBookingInTx(ctx, tx, booking)
		})
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			break
		}
		log.WithFields(log.Fields{
			"listing_id": booking.ListingID,
			"attempt":    attempt + 1,
		}).Warn("serialization failure while creating booking, retrying")
	}

	span.End(err)
	return classify("create booking", err)
}

func createBookingInTx(ctx context.Context, tx *sqlx.Tx, b *model.Booking) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, b.ListingID); err != nil {
		return fmt.Errorf("failed to lock listing %d: %w", b.ListingID, err)
	}

	listing, err := findBookableListing(ctx, tx, b.ListingID)
	if err != nil {
		return err
	}
	if b.Guests > listing.Guests {
		return model.NewValidationError("listing %d accommodates at most %d guests", b.ListingID, listing.Guests)
	}
	// 合計金額には清掃料などが加わるため、宿泊料金を下回る場合のみ拒否する
	// 比較はDECIMAL(10,2)と同じセント単位で行う
	stay := b.Stay()
	if minTotal := float64(stay.Nights()) * listing.PricePerNight; math.Round(b.TotalPrice*100) < math.Round(minTotal*100) {
		return model.NewValidationError("totalPrice must be at least %.2f for %d nights", minTotal, stay.Nights())
	}

	conflicts, err := findConflictingBookings(ctx, tx, b.ListingID, stay)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return model.NewConflictError("listing %d is not available for the selected dates", b.ListingID)
	}

	query := `
		INSERT INTO bookings (
			listing_id,
			guest_id,
			check_in,
			check_out,
			guests,
			total_price,
			status,
			payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowxContext(ctx, query,
		b.ListingID,
		b.GuestID,
		b.CheckIn.Format(model.DateLayout),
		b.CheckOut.Format(model.DateLayout),
		b.Guests,
		b.TotalPrice,
		b.Status,
		b.PaymentStatus,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

// ListByGuest はゲストの予約をリスティング情報付きで新しい順に取得します
func (r *BookingRepositoryImpl) ListByGuest(ctx context.Context, guestID int64) ([]model.BookingRow, error) {
	ctx, span := tracing.Start(ctx, "BookingRepository.ListByGuest")
	defer span.End(nil)

	query := `
		SELECT` + bookingColumns + `,
			l.title AS listing_title,
			l.location AS listing_location,
			l.images[1] AS listing_image
		FROM bookings b
		JOIN listings l ON b.listing_id = l.id
		WHERE b.guest_id = $1
		ORDER BY b.created_at DESC, b.id DESC
	`

	rows := []model.BookingRow{}
	if err := r.db.SelectContext(ctx, &rows, query, guestID); err != nil {
		span.End(err)
		return nil, model.NewPersistenceError("list guest bookings", err)
	}

	return rows, nil
}

// ListByHost はホストが所有するリスティングへの予約をゲスト名付きで新しい順に取得します
func (r *BookingRepositoryImpl) ListByHost(ctx context.Context, hostID int64) ([]model.BookingRow, error) {
	ctx, span := tracing.Start(ctx, "BookingRepository.ListByHost")
	defer span.End(nil)

	query := `
		SELECT` + bookingColumns + `,
			l.title AS listing_title,
			u.first_name AS guest_first_name,
			u.last_name AS guest_last_name
		FROM bookings b
		JOIN listings l ON b.listing_id = l.id
		JOIN users u ON b.guest_id = u.id
		WHERE l.host_id = $1
		ORDER BY b.created_at DESC, b.id DESC
	`

	rows := []model.BookingRow{}
	if err := r.db.SelectContext(ctx, &rows, query, hostID); err != nil {
		span.End(err)
		return nil, model.NewPersistenceError("list host bookings", err)
	}

	return rows, nil
}
