package model

import (
	"strconv"
	"strings"
	"time"
)

// 画像が登録されていない場合のプレースホルダー
const (
	PlaceholderCardImage   = "/placeholder.svg?height=300&width=400"
	PlaceholderDetailImage = "/placeholder.svg?height=400&width=600"
	PlaceholderAvatar      = "/placeholder.svg?height=40&width=40"
	defaultAmenityIcon     = "Wifi"
)

// HostSummary は検索結果に含めるホスト情報です
type HostSummary struct {
	Name        string `json:"name"`
	IsSuperhost bool   `json:"isSuperhost"`
}

// ListingSummary は検索結果一覧のリスティングです
type ListingSummary struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Location  string      `json:"location"`
	Price     float64     `json:"price"`
	Rating    float64     `json:"rating"`
	Reviews   int         `json:"reviews"`
	Image     string      `json:"image"`
	Amenities []string    `json:"amenities"`
	Guests    int         `json:"guests"`
	Bedrooms  int         `json:"bedrooms"`
	Bathrooms int         `json:"bathrooms"`
	Host      HostSummary `json:"host"`
}

type Amenity struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type HostDetail struct {
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	JoinedDate  string `json:"joinedDate"`
	IsSuperhost bool   `json:"isSuperhost"`
}

// ListingDetail は詳細画面向けのリスティングです
type ListingDetail struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Location     string     `json:"location"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	Price        float64    `json:"price"`
	Rating       float64    `json:"rating"`
	Reviews      int        `json:"reviews"`
	Images       []string   `json:"images"`
	Amenities    []Amenity  `json:"amenities"`
	Guests       int        `json:"guests"`
	Bedrooms     int        `json:"bedrooms"`
	Bathrooms    int        `json:"bathrooms"`
	PropertyType string     `json:"propertyType"`
	Description  string     `json:"description"`
	Host         HostDetail `json:"host"`
	Rules        []string   `json:"rules"`
}

// BookingView はAPIレスポンス用の予約です
type BookingView struct {
	ID              int64   `json:"id"`
	ListingID       int64   `json:"listingId"`
	GuestID         int64   `json:"guestId"`
	CheckIn         string  `json:"checkIn"`
	CheckOut        string  `json:"checkOut"`
	Guests          int     `json:"guests"`
	TotalPrice      float64 `json:"totalPrice"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`
	CreatedAt       string  `json:"createdAt"`
	ListingTitle    string  `json:"listingTitle,omitempty"`
	ListingLocation string  `json:"listingLocation,omitempty"`
	ListingImage    string  `json:"listingImage,omitempty"`
	GuestName       string  `json:"guestName,omitempty"`
}

// ParseRating は文字列で保持された評価を数値に変換します。変換できない場合は0です
func ParseRating(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

func hostName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// ToListingSummary は検索結果の行を一覧表示用に変換します
func ToListingSummary(l ListingRow) ListingSummary {
	image := PlaceholderCardImage
	if len(l.Images) > 0 && l.Images[0] != "" {
		image = l.Images[0]
	}

	return ListingSummary{
		ID:        l.ID,
		Title:     l.Title,
		Location:  l.Location,
		Price:     l.PricePerNight,
		Rating:    ParseRating(l.Rating),
		Reviews:   l.ReviewCount,
		Image:     image,
		Amenities: nonNil(l.Amenities),
		Guests:    l.Guests,
		Bedrooms:  l.Bedrooms,
		Bathrooms: l.Bathrooms,
		Host: HostSummary{
			Name:        hostName(l.HostFirstName.String, l.HostLastName.String),
			IsSuperhost: l.IsSuperhost.Bool,
		},
	}
}

// ToListingSummaries は複数行をまとめて変換します。結果が0件でも空スライスを返します
func ToListingSummaries(rows []ListingRow) []ListingSummary {
	out := make([]ListingSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToListingSummary(r))
	}
	return out
}

// ToListingDetail は詳細取得の行を詳細表示用に変換します
func ToListingDetail(l ListingRow) ListingDetail {
	images := []string(l.Images)
	if len(images) == 0 {
		images = []string{PlaceholderDetailImage}
	}

	amenities := make([]Amenity, 0, len(l.Amenities))
	for _, a := range l.Amenities {
		amenities = append(amenities, Amenity{Name: a, Icon: defaultAmenityIcon})
	}

	joined := ""
	if l.HostJoined.Valid {
		joined = strconv.Itoa(l.HostJoined.Time.Year())
	}

	d := ListingDetail{
		ID:           l.ID,
		Title:        l.Title,
		Location:     l.Location,
		Price:        l.PricePerNight,
		Rating:       ParseRating(l.Rating),
		Reviews:      l.ReviewCount,
		Images:       images,
		Amenities:    amenities,
		Guests:       l.Guests,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		PropertyType: l.PropertyType,
		Description:  l.Description.String,
		Host: HostDetail{
			Name:        hostName(l.HostFirstName.String, l.HostLastName.String),
			Avatar:      PlaceholderAvatar,
			JoinedDate:  joined,
			IsSuperhost: l.IsSuperhost.Bool,
		},
		Rules: nonNil(l.HouseRules),
	}
	if l.Latitude.Valid {
		lat := l.Latitude.Float64
		d.Latitude = &lat
	}
	if l.Longitude.Valid {
		lng := l.Longitude.Float64
		d.Longitude = &lng
	}
	return d
}

// ToBookingView は予約行をAPIレスポンス用に変換します
func ToBookingView(b BookingRow) BookingView {
	v := BookingView{
		ID:              b.ID,
		ListingID:       b.ListingID,
		GuestID:         b.GuestID,
		CheckIn:         b.CheckIn.Format(DateLayout),
		CheckOut:        b.CheckOut.Format(DateLayout),
		Guests:          b.Guests,
		TotalPrice:      b.TotalPrice,
		Status:          b.Status,
		PaymentStatus:   b.PaymentStatus,
		ListingTitle:    b.ListingTitle.String,
		ListingLocation: b.ListingLocation.String,
		ListingImage:    b.ListingImage.String,
		GuestName:       hostName(b.GuestFirstName.String, b.GuestLastName.String),
	}
	if !b.CreatedAt.IsZero() {
		v.CreatedAt = b.CreatedAt.UTC().Format(time.RFC3339)
	}
	return v
}

// ToBookingViews は複数の予約行を変換します
func ToBookingViews(rows []BookingRow) []BookingView {
	out := make([]BookingView, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToBookingView(r))
	}
	return out
}

// ToUserView はユーザーをAPIレスポンス用に変換します
func ToUserView(u User) UserView {
	return UserView{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		IsHost:      u.IsHost,
		IsSuperhost: u.IsSuperhost,
	}
}
