package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/uma-arai/sbcntr-stay/internal/model"
)

var searchParams = []string{
	model.ParamLocation,
	model.ParamMinPrice,
	model.ParamMaxPrice,
	model.ParamGuests,
	model.ParamLimit,
	model.ParamOffset,
}

type listingsResponse struct {
	Listings []model.ListingSummary `json:"listings"`
	Total    int                    `json:"total"`
}

type listingResponse struct {
	Message string               `json:"message,omitempty"`
	Listing *model.ListingDetail `json:"listing"`
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

// SearchListings は GET /api/listings
func (h *Handler) SearchListings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := make(map[string]string, len(searchParams))
	for _, name := range searchParams {
		params[name] = query.Get(name)
	}

	listings, err := h.listings.Search(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listingsResponse{Listings: listings, Total: len(listings)})
}

// GetListing は GET /api/listings/{id}
func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	listing, err := h.listings.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listingResponse{Listing: listing})
}

// CreateListing は POST /api/listings
func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, r, model.NewUnauthorizedError("authentication required"))
		return
	}

	var in model.CreateListingInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	listing, err := h.listings.Create(r.Context(), claims.UserID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, listingResponse{Message: "Listing created successfully", Listing: listing})
}

// CheckAvailability は GET /api/listings/{id}/availability
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	query := r.URL.Query()
	available, err := h.bookings.CheckAvailability(r.Context(), id, query.Get("checkIn"), query.Get("checkOut"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{Available: available})
}

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewNotFoundError("listing %s not found", raw)
	}
	return id, nil
}
