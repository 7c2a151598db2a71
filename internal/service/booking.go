package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uma-arai/sbcntr-stay/internal/common/tracing"
	"github.com/uma-arai/sbcntr-stay/internal/event"
	"github.com/uma-arai/sbcntr-stay/internal/model"
	"github.com/uma-arai/sbcntr-stay/internal/repository"
)

// BookingService は空き確認と予約の作成・一覧を担当します
type BookingService struct {
	repo      repository.BookingRepository
	publisher event.BookingPublisher
	timeout   time.Duration
}

func NewBookingService(repo repository.BookingRepository, publisher event.BookingPublisher, timeout time.Duration) *BookingService {
	if publisher == nil {
		publisher = event.NopBookingPublisher{}
	}
	return &BookingService{
		repo:      repo,
		publisher: publisher,
		timeout:   timeout,
	}
}

// CheckAvailability は指定期間にリスティングが予約可能かを返します
func (s *BookingService) CheckAvailability(ctx context.Context, listingID int64, checkIn, checkOut string) (bool, error) {
	ctx, span := tracing.Start(ctx, "BookingService.CheckAvailability")
	defer span.End(nil)

	stay, err := model.NewStayDates(checkIn, checkOut)
	if err != nil {
		return false, err
	}

	var available bool
	err = runWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		var err error
		available, err = s.repo.IsAvailable(ctx, listingID, stay)
		return err
	})
	if err != nil {
		span.End(err)
		return false, err
	}

	return available, nil
}

// Create は空きを確認したうえで予約を作成します
// 期間が重なる有効な予約がある場合はConflictErrorを返し、予約は作成されません
func (s *BookingService) Create(ctx context.Context, guestID int64, in model.CreateBookingInput) (*model.BookingView, error) {
	ctx, span := tracing.Start(ctx, "BookingService.Create")
	defer span.End(nil)

	if err := validateInput(in); err != nil {
		return nil, err
	}
	stay, err := model.NewStayDates(in.CheckIn, in.CheckOut)
	if err != nil {
		return nil, err
	}

	booking := model.NewBooking(guestID, in, stay)
	err = runWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		return s.repo.CreateIfAvailable(ctx, &booking)
	})
	if err != nil {
		span.End(err)
		return nil, err
	}

	// ワークフローの起動に失敗しても予約は確定済みのためエラーにしない
	if err := s.publisher.PublishBookingCreated(ctx, model.NewBookingEvent(booking)); err != nil {
		log.WithFields(log.Fields{
			"booking_id": booking.ID,
			"listing_id": booking.ListingID,
		}).Errorf("failed to publish booking event: %v", err)
	}

	view := model.ToBookingView(model.BookingRow{Booking: booking})
	return &view, nil
}

// ListByGuest はゲストの予約を新しい順に返します
func (s *BookingService) ListByGuest(ctx context.Context, guestID int64) ([]model.BookingView, error) {
	ctx, span := tracing.Start(ctx, "BookingService.ListByGuest")
	defer span.End(nil)

	var rows []model.BookingRow
	err := runWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		var err error
		rows, err = s.repo.ListByGuest(ctx, guestID)
		return err
	})
	if err != nil {
		span.End(err)
		return nil, err
	}

	return model.ToBookingViews(rows), nil
}

// ListByHost はホストのリスティングに対する予約を新しい順に返します
func (s *BookingService) ListByHost(ctx context.Context, hostID int64) ([]model.BookingView, error) {
	ctx, span := tracing.Start(ctx, "BookingService.ListByHost")
	defer span.End(nil)

	var rows []model.BookingRow
	err := runWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		var err error
		rows, err = s.repo.ListByHost(ctx, hostID)
		return err
	})
	if err != nil {
		span.End(err)
		return nil, err
	}

	return model.ToBookingViews(rows), nil
}
