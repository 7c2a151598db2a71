package model

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// ListingRow はlistingsテーブルにホスト情報とレビュー集計を結合した行です
// カラム名はDBのsnake_caseのまま保持します
type ListingRow struct {
	ID            int64           `db:"id"`
	HostID        int64           `db:"host_id"`
	Title         string          `db:"title"`
	Description   sql.NullString  `db:"description"`
	Location      string          `db:"location"`
	Latitude      sql.NullFloat64 `db:"latitude"`
	Longitude     sql.NullFloat64 `db:"longitude"`
	PricePerNight float64         `db:"price_per_night"`
	Guests        int             `db:"guests"`
	Bedrooms      int             `db:"bedrooms"`
	Bathrooms     int             `db:"bathrooms"`
	PropertyType  string          `db:"property_type"`
	Amenities     pq.StringArray  `db:"amenities"`
	Images        pq.StringArray  `db:"images"`
	HouseRules    pq.StringArray  `db:"house_rules"`
	IsActive      bool            `db:"is_active"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`

	// 結合・集計カラム
	HostFirstName sql.NullString `db:"host_first_name"`
	HostLastName  sql.NullString `db:"host_last_name"`
	IsSuperhost   sql.NullBool   `db:"is_superhost"`
	HostJoined    sql.NullTime   `db:"host_joined"`
	Rating        string         `db:"rating"` // AVG()の結果はnumericのため文字列で受け取る
	ReviewCount   int            `db:"review_count"`
}

// CreateListingInput はリスティング作成の入力です
type CreateListingInput struct {
	Title         string   `json:"title" validate:"required,max=255"`
	Description   string   `json:"description"`
	Location      string   `json:"location" validate:"required,max=255"`
	Latitude      *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude     *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	PricePerNight float64  `json:"pricePerNight" validate:"required,gt=0,lte=99999999.99"`
	Guests        int      `json:"guests" validate:"required,min=1,max=2147483647"`
	Bedrooms      int      `json:"bedrooms" validate:"min=0,max=2147483647"`
	Bathrooms     int      `json:"bathrooms" validate:"min=0,max=2147483647"`
	PropertyType  string   `json:"propertyType" validate:"max=50"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	HouseRules    []string `json:"houseRules"`
}

// DefaultPropertyType はproperty_typeの既定値です
const DefaultPropertyType = "House"

// NewListingRow は入力からINSERT用の行を組み立てます
func NewListingRow(hostID int64, in CreateListingInput) ListingRow {
	row := ListingRow{
		HostID:        hostID,
		Title:         in.Title,
		Description:   sql.NullString{String: in.Description, Valid: in.Description != ""},
		Location:      in.Location,
		PricePerNight: in.PricePerNight,
		Guests:        in.Guests,
		Bedrooms:      in.Bedrooms,
		Bathrooms:     in.Bathrooms,
		PropertyType:  in.PropertyType,
		Amenities:     nonNil(in.Amenities),
		Images:        nonNil(in.Images),
		HouseRules:    nonNil(in.HouseRules),
		IsActive:      true,
	}
	if row.PropertyType == "" {
		row.PropertyType = DefaultPropertyType
	}
	if in.Latitude != nil {
		row.Latitude = sql.NullFloat64{Float64: *in.Latitude, Valid: true}
	}
	if in.Longitude != nil {
		row.Longitude = sql.NullFloat64{Float64: *in.Longitude, Valid: true}
	}
	return row
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
