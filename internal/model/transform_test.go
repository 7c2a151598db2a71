package model

import (
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"4.9", 4.9},
		{"0", 0},
		{"4.5000000000000000", 4.5},
		{"", 0},
		{"n/a", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseRating(tt.raw); got != tt.want {
				t.Errorf("ParseRating(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestToListingSummary(t *testing.T) {
	row := ListingRow{
		ID:            1,
		Title:         "Cozy Mountain Cabin",
		Location:      "Aspen, Colorado, United States",
		PricePerNight: 180,
		Guests:        4,
		Bedrooms:      2,
		Bathrooms:     1,
		Amenities:     pq.StringArray{"Wifi", "Kitchen"},
		Images:        pq.StringArray{"/img/1.jpg", "/img/2.jpg"},
		HostFirstName: sql.NullString{String: "Sarah", Valid: true},
		HostLastName:  sql.NullString{String: "Johnson", Valid: true},
		IsSuperhost:   sql.NullBool{Bool: true, Valid: true},
		Rating:        "4.9",
		ReviewCount:   127,
	}

	got := ToListingSummary(row)

	if got.Image != "/img/1.jpg" {
		t.Errorf("Image = %q, want first image", got.Image)
	}
	if got.Rating != 4.9 || got.Reviews != 127 {
		t.Errorf("Rating/Reviews = %v/%d, want 4.9/127", got.Rating, got.Reviews)
	}
	if got.Host.Name != "Sarah Johnson" || !got.Host.IsSuperhost {
		t.Errorf("Host = %+v", got.Host)
	}
	if got.Price != 180 {
		t.Errorf("Price = %v, want 180", got.Price)
	}
}

// レビューが無いリスティングは評価0・件数0で、nullやエラーにならない
func TestToListingSummary_NoReviewsNoImages(t *testing.T) {
	row := ListingRow{ID: 2, Rating: "0", ReviewCount: 0}

	got := ToListingSummary(row)

	if got.Rating != 0 || got.Reviews != 0 {
		t.Errorf("Rating/Reviews = %v/%d, want 0/0", got.Rating, got.Reviews)
	}
	if got.Image != PlaceholderCardImage {
		t.Errorf("Image = %q, want placeholder", got.Image)
	}
	if got.Amenities == nil {
		t.Error("Amenities should be an empty slice, not nil")
	}

	body, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if !strings.Contains(string(body), `"amenities":[]`) {
		t.Errorf("amenities should encode as [], got %s", body)
	}
	if !strings.Contains(string(body), `"rating":0`) || !strings.Contains(string(body), `"reviews":0`) {
		t.Errorf("rating/reviews should encode as 0, got %s", body)
	}
}

func TestToListingDetail(t *testing.T) {
	row := ListingRow{
		ID:            3,
		Title:         "Downtown Loft",
		Description:   sql.NullString{String: "Great loft", Valid: true},
		Latitude:      sql.NullFloat64{Float64: 40.7, Valid: true},
		PropertyType:  "Loft",
		Amenities:     pq.StringArray{"Wifi", "Gym Access"},
		HouseRules:    pq.StringArray{"No smoking"},
		HostFirstName: sql.NullString{String: "Mike", Valid: true},
		HostLastName:  sql.NullString{String: "Wilson", Valid: true},
		HostJoined:    sql.NullTime{Time: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), Valid: true},
		Rating:        "not-a-number",
	}

	got := ToListingDetail(row)

	if len(got.Images) != 1 || got.Images[0] != PlaceholderDetailImage {
		t.Errorf("Images = %v, want detail placeholder", got.Images)
	}
	if len(got.Amenities) != 2 || got.Amenities[1].Name != "Gym Access" || got.Amenities[1].Icon == "" {
		t.Errorf("Amenities = %+v", got.Amenities)
	}
	if got.Host.JoinedDate != "2019" || got.Host.Avatar != PlaceholderAvatar {
		t.Errorf("Host = %+v", got.Host)
	}
	if got.Rating != 0 {
		t.Errorf("Rating = %v, want 0 on parse failure", got.Rating)
	}
	if got.Latitude == nil || *got.Latitude != 40.7 || got.Longitude != nil {
		t.Errorf("Latitude/Longitude = %v/%v", got.Latitude, got.Longitude)
	}
	if got.Description != "Great loft" || len(got.Rules) != 1 {
		t.Errorf("Description/Rules = %q/%v", got.Description, got.Rules)
	}
}

func TestToBookingView(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	row := BookingRow{
		Booking: Booking{
			ID:            10,
			ListingID:     1,
			GuestID:       2,
			CheckIn:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			CheckOut:      time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
			Guests:        2,
			TotalPrice:    720,
			Status:        BookingStatusPending,
			PaymentStatus: PaymentStatusPending,
			CreatedAt:     created,
		},
		ListingTitle:   sql.NullString{String: "Cabin", Valid: true},
		GuestFirstName: sql.NullString{String: "John", Valid: true},
		GuestLastName:  sql.NullString{String: "Doe", Valid: true},
	}

	got := ToBookingView(row)

	if got.CheckIn != "2025-01-01" || got.CheckOut != "2025-01-05" {
		t.Errorf("dates = %s/%s", got.CheckIn, got.CheckOut)
	}
	if got.GuestName != "John Doe" || got.ListingTitle != "Cabin" {
		t.Errorf("joined fields = %q/%q", got.GuestName, got.ListingTitle)
	}
	if got.CreatedAt != "2025-01-02T03:04:05Z" {
		t.Errorf("CreatedAt = %q", got.CreatedAt)
	}

	body, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	for _, key := range []string{`"listingId"`, `"checkIn"`, `"totalPrice"`, `"paymentStatus"`} {
		if !strings.Contains(string(body), key) {
			t.Errorf("encoded booking should contain %s: %s", key, body)
		}
	}
}

func TestToUserView(t *testing.T) {
	u := User{ID: 1, FirstName: "Emma", LastName: "Davis", Email: "emma@example.com", PasswordHash: "secret-hash"}

	body, err := json.Marshal(ToUserView(u))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if strings.Contains(string(body), "secret-hash") {
		t.Errorf("user view must not expose the password hash: %s", body)
	}
}
