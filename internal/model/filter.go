package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// 検索パラメーター名
const (
	ParamLocation = "location"
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"
	ParamGuests   = "guests"
	ParamLimit    = "limit"
	ParamOffset   = "offset"
)

// ListingFilter はリスティング検索の条件です。nilのフィールドは未指定を表します
type ListingFilter struct {
	Location *string
	MinPrice *float64
	MaxPrice *float64
	Guests   *int
	Limit    *int
	Offset   *int
}

// ParseListingFilter はクエリ文字列などの生の値を検索条件に変換します
// 空文字は未指定として扱い、数値として解釈できない値はValidationErrorにします
func ParseListingFilter(params map[string]string) (ListingFilter, error) {
	var f ListingFilter

	if v := strings.TrimSpace(params[ParamLocation]); v != "" {
		f.Location = &v
	}

	var err error
	if f.MinPrice, err = parsePrice(ParamMinPrice, params[ParamMinPrice]); err != nil {
		return ListingFilter{}, err
	}
	if f.MaxPrice, err = parsePrice(ParamMaxPrice, params[ParamMaxPrice]); err != nil {
		return ListingFilter{}, err
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return ListingFilter{}, NewValidationError("minPrice must not exceed maxPrice")
	}
	// guestsはINTEGER列と比較するためint32の範囲に収める
	if f.Guests, err = parseInt(ParamGuests, params[ParamGuests], 1, math.MaxInt32); err != nil {
		return ListingFilter{}, err
	}
	if f.Limit, err = parseInt(ParamLimit, params[ParamLimit], 1, math.MaxInt); err != nil {
		return ListingFilter{}, err
	}
	if f.Offset, err = parseInt(ParamOffset, params[ParamOffset], 0, math.MaxInt); err != nil {
		return ListingFilter{}, err
	}

	return f, nil
}

func parsePrice(name, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	// ParseFloatは"NaN"や"Inf"も受け付けるため明示的に弾く
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, NewValidationError("%s must be a number", name)
	}
	if v < 0 {
		return nil, NewValidationError("%s must not be negative", name)
	}
	return &v, nil
}

func parseInt(name, raw string, min, max int) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, NewValidationError("%s must be an integer", name)
	}
	if v < min {
		return nil, NewValidationError("%s must be at least %d", name, min)
	}
	if v > max {
		return nil, NewValidationError("%s must be at most %d", name, max)
	}
	return &v, nil
}

// Matches はリスティングがlimit/offset以外の全ての条件を満たすかを返します
// 非公開(is_active=false)のリスティングは常に対象外です
func (f ListingFilter) Matches(l ListingRow) bool {
	if !l.IsActive {
		return false
	}
	if f.Location != nil && !strings.Contains(strings.ToLower(l.Location), strings.ToLower(*f.Location)) {
		return false
	}
	if f.MinPrice != nil && l.PricePerNight < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.PricePerNight > *f.MaxPrice {
		return false
	}
	if f.Guests != nil && l.Guests < *f.Guests {
		return false
	}
	return true
}

// Page はlimit/offsetを適用した範囲[start, end)を返します
func (f ListingFilter) Page(total int) (int, int) {
	start := 0
	if f.Offset != nil {
		start = *f.Offset
	}
	if start > total {
		start = total
	}
	end := total
	// start+limitはlimitが大きいとオーバーフローするため残り件数と比較する
	if f.Limit != nil && *f.Limit < end-start {
		end = start + *f.Limit
	}
	return start, end
}

// CacheKey は検索条件を一意に表す文字列を返します
func (f ListingFilter) CacheKey() string {
	var b strings.Builder
	if f.Location != nil {
		fmt.Fprintf(&b, "location=%s&", strings.ToLower(*f.Location))
	}
	if f.MinPrice != nil {
		fmt.Fprintf(&b, "minPrice=%g&", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		fmt.Fprintf(&b, "maxPrice=%g&", *f.MaxPrice)
	}
	if f.Guests != nil {
		fmt.Fprintf(&b, "guests=%d&", *f.Guests)
	}
	if f.Limit != nil {
		fmt.Fprintf(&b, "limit=%d&", *f.Limit)
	}
	if f.Offset != nil {
		fmt.Fprintf(&b, "offset=%d&", *f.Offset)
	}
	return strings.TrimSuffix(b.String(), "&")
}
