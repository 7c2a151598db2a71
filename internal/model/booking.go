package model

import (
	"database/sql"
	"strings"
	"time"
)

// 予約ステータス
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"

	PaymentStatusPending = "pending"
)

// DateLayout はチェックイン・チェックアウト日の形式です
const DateLayout = "2006-01-02"

// StayDates はチェックイン日からチェックアウト日までの宿泊期間です
// 重複判定では両端を含む閉区間として扱います
type StayDates struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewStayDates は"YYYY-MM-DD"形式の日付から宿泊期間を作成します
// チェックアウト日がチェックイン日以前の場合はValidationErrorを返します
func NewStayDates(checkIn, checkOut string) (StayDates, error) {
	in, err := parseDate("checkIn", checkIn)
	if err != nil {
		return StayDates{}, err
	}
	out, err := parseDate("checkOut", checkOut)
	if err != nil {
		return StayDates{}, err
	}
	if !out.After(in) {
		return StayDates{}, NewValidationError("checkOut must be after checkIn")
	}
	return StayDates{CheckIn: in, CheckOut: out}, nil
}

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, NewValidationError("%s is required", field)
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, NewValidationError("%s must be a date in YYYY-MM-DD format", field)
	}
	return t, nil
}

// Overlaps は2つの期間が1日でも重なる場合にtrueを返します
// 一方のチェックアウト日ともう一方のチェックイン日が同じ場合も重複とみなします
func (s StayDates) Overlaps(other StayDates) bool {
	return !s.CheckIn.After(other.CheckOut) && !other.CheckIn.After(s.CheckOut)
}

// Nights は宿泊数を返します
func (s StayDates) Nights() int {
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / 24)
}

// Booking はbookingsテーブルのレコードです
type Booking struct {
	ID            int64     `db:"id"`
	ListingID     int64     `db:"listing_id"`
	GuestID       int64     `db:"guest_id"`
	CheckIn       time.Time `db:"check_in"`
	CheckOut      time.Time `db:"check_out"`
	Guests        int       `db:"guests"`
	TotalPrice    float64   `db:"total_price"`
	Status        string    `db:"status"`
	PaymentStatus string    `db:"payment_status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// Stay は予約の宿泊期間を返します
func (b Booking) Stay() StayDates {
	return StayDates{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// BlocksDates はキャンセル済みでない予約かどうかを返します
func (b Booking) BlocksDates() bool {
	return b.Status != BookingStatusCancelled
}

// BookingRow は予約にリスティングとゲスト情報を結合した行です
type BookingRow struct {
	Booking
	ListingTitle    sql.NullString `db:"listing_title"`
	ListingLocation sql.NullString `db:"listing_location"`
	ListingImage    sql.NullString `db:"listing_image"`
	GuestFirstName  sql.NullString `db:"guest_first_name"`
	GuestLastName   sql.NullString `db:"guest_last_name"`
}

// CreateBookingInput は予約作成の入力です
type CreateBookingInput struct {
	ListingID  int64   `json:"listingId" validate:"required,gt=0"`
	CheckIn    string  `json:"checkIn" validate:"required"`
	CheckOut   string  `json:"checkOut" validate:"required"`
	Guests     int     `json:"guests" validate:"required,min=1,max=2147483647"`
	TotalPrice float64 `json:"totalPrice" validate:"required,gt=0,lte=99999999.99"`
}

// NewBooking は入力と検証済みの宿泊期間から新規予約を作成します
func NewBooking(guestID int64, in CreateBookingInput, stay StayDates) Booking {
	return Booking{
		ListingID:     in.ListingID,
		GuestID:       guestID,
		CheckIn:       stay.CheckIn,
		CheckOut:      stay.CheckOut,
		Guests:        in.Guests,
		TotalPrice:    in.TotalPrice,
		Status:        BookingStatusPending,
		PaymentStatus: PaymentStatusPending,
	}
}

// BookingEvent は予約作成時に発行されるイベントの構造体
type BookingEvent struct {
	BookingID int64     `json:"booking_id"`
	ListingID int64     `json:"listing_id"`
	GuestID   int64     `json:"guest_id"`
	CheckIn   string    `json:"check_in"`
	CheckOut  string    `json:"check_out"`
	Guests    int       `json:"guests"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBookingEvent は作成済みの予約からイベントを作成します
func NewBookingEvent(b Booking) BookingEvent {
	return BookingEvent{
		BookingID: b.ID,
		ListingID: b.ListingID,
		GuestID:   b.GuestID,
		CheckIn:   b.CheckIn.Format(DateLayout),
		CheckOut:  b.CheckOut.Format(DateLayout),
		Guests:    b.Guests,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
}
