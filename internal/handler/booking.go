package handler

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/uma-arai/sbcntr-stay/internal/model"
)

type bookingResponse struct {
	Message string             `json:"message"`
	Booking *model.BookingView `json:"booking"`
}

type bookingsResponse struct {
	Bookings []model.BookingView `json:"bookings"`
	Total    int                 `json:"total"`
}

// CreateBooking は POST /api/bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, r, model.NewUnauthorizedError("authentication required"))
		return
	}

	var in model.CreateBookingInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.bookings.Create(r.Context(), claims.UserID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	requestLogger(r).WithFields(log.Fields{
		"booking_id": booking.ID,
		"listing_id": booking.ListingID,
	}).Info("booking created")
	writeJSON(w, http.StatusCreated, bookingResponse{Message: "Booking created successfully", Booking: booking})
}

// ListGuestBookings は GET /api/bookings
func (h *Handler) ListGuestBookings(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, r, model.NewUnauthorizedError("authentication required"))
		return
	}

	bookings, err := h.bookings.ListByGuest(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingsResponse{Bookings: bookings, Total: len(bookings)})
}

// ListHostBookings は GET /api/host/bookings
func (h *Handler) ListHostBookings(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, r, model.NewUnauthorizedError("authentication required"))
		return
	}

	bookings, err := h.bookings.ListByHost(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingsResponse{Bookings: bookings, Total: len(bookings)})
}
