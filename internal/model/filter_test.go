package model

import (
	"errors"
	"math"
	"strconv"
	"testing"
)

func ptrString(v string) *string { return &v }
func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int { return &v }

func TestParseListingFilter(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]string
		want    ListingFilter
		wantErr bool
	}{
		{
			name:   "全て未指定",
			params: map[string]string{},
			want:   ListingFilter{},
		},
		{
			name: "空文字と空白は未指定として扱う",
			params: map[string]string{
				ParamLocation: "  ",
				ParamMinPrice: "",
				ParamGuests:   " ",
			},
			want: ListingFilter{},
		},
		{
			name: "全ての条件を指定",
			params: map[string]string{
				ParamLocation: " Aspen ",
				ParamMinPrice: "50",
				ParamMaxPrice: "150.5",
				ParamGuests:   "4",
				ParamLimit:    "10",
				ParamOffset:   "0",
			},
			want: ListingFilter{
				Location: ptrString("Aspen"),
				MinPrice: ptrFloat(50),
				MaxPrice: ptrFloat(150.5),
				Guests:   ptrInt(4),
				Limit:    ptrInt(10),
				Offset:   ptrInt(0),
			},
		},
		{name: "数値でない価格", params: map[string]string{ParamMinPrice: "abc"}, wantErr: true},
		{name: "NaNの価格", params: map[string]string{ParamMaxPrice: "NaN"}, wantErr: true},
		{name: "Infの価格", params: map[string]string{ParamMaxPrice: "Inf"}, wantErr: true},
		{name: "負の価格", params: map[string]string{ParamMinPrice: "-1"}, wantErr: true},
		{name: "下限が上限を超える", params: map[string]string{ParamMinPrice: "200", ParamMaxPrice: "100"}, wantErr: true},
		{name: "整数でない人数", params: map[string]string{ParamGuests: "2.5"}, wantErr: true},
		{name: "人数が0", params: map[string]string{ParamGuests: "0"}, wantErr: true},
		{name: "limitが0", params: map[string]string{ParamLimit: "0"}, wantErr: true},
		{name: "負のoffset", params: map[string]string{ParamOffset: "-5"}, wantErr: true},
		{name: "数値でないoffset", params: map[string]string{ParamOffset: "ten"}, wantErr: true},
		{name: "人数がINTEGERの範囲を超える", params: map[string]string{ParamGuests: "3000000000"}, wantErr: true},
		{name: "人数がINTEGERの上限", params: map[string]string{ParamGuests: strconv.Itoa(math.MaxInt32)}, want: ListingFilter{Guests: ptrInt(math.MaxInt32)}},
		{
			name:   "limitがintの上限",
			params: map[string]string{ParamLimit: strconv.Itoa(math.MaxInt), ParamOffset: "1"},
			want:   ListingFilter{Limit: ptrInt(math.MaxInt), Offset: ptrInt(1)},
		},
		{name: "limitがintの範囲を超える", params: map[string]string{ParamLimit: "99999999999999999999"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseListingFilter(tt.params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseListingFilter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("ParseListingFilter() error = %v, want ErrValidation", err)
				}
				return
			}
			if got.CacheKey() != tt.want.CacheKey() {
				t.Errorf("ParseListingFilter() = %q, want %q", got.CacheKey(), tt.want.CacheKey())
			}
		})
	}
}

func TestListingFilter_Matches(t *testing.T) {
	listing := ListingRow{
		Location:      "Aspen, Colorado, United States",
		PricePerNight: 100,
		Guests:        4,
		IsActive:      true,
	}

	tests := []struct {
		name    string
		filter  ListingFilter
		listing ListingRow
		want    bool
	}{
		{name: "条件なし", filter: ListingFilter{}, listing: listing, want: true},
		{name: "非公開は常に対象外", filter: ListingFilter{}, listing: ListingRow{IsActive: false}, want: false},
		{name: "場所は大文字小文字を区別しない部分一致", filter: ListingFilter{Location: ptrString("colorado")}, listing: listing, want: true},
		{name: "場所が一致しない", filter: ListingFilter{Location: ptrString("Malibu")}, listing: listing, want: false},
		{name: "下限価格と同額は含む", filter: ListingFilter{MinPrice: ptrFloat(100)}, listing: listing, want: true},
		{name: "上限価格と同額は含む", filter: ListingFilter{MaxPrice: ptrFloat(100)}, listing: listing, want: true},
		{name: "下限価格を下回る", filter: ListingFilter{MinPrice: ptrFloat(100.01)}, listing: listing, want: false},
		{name: "上限価格を上回る", filter: ListingFilter{MaxPrice: ptrFloat(99.99)}, listing: listing, want: false},
		{name: "定員ちょうど", filter: ListingFilter{Guests: ptrInt(4)}, listing: listing, want: true},
		{name: "定員超過", filter: ListingFilter{Guests: ptrInt(5)}, listing: listing, want: false},
		{
			name: "全ての条件を満たす",
			filter: ListingFilter{
				Location: ptrString("aspen"),
				MinPrice: ptrFloat(50),
				MaxPrice: ptrFloat(150),
				Guests:   ptrInt(4),
			},
			listing: listing,
			want:    true,
		},
		{
			name: "1つでも満たさなければ対象外",
			filter: ListingFilter{
				Location: ptrString("aspen"),
				MinPrice: ptrFloat(50),
				MaxPrice: ptrFloat(150),
				Guests:   ptrInt(5),
			},
			listing: listing,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.listing); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListingFilter_Page(t *testing.T) {
	tests := []struct {
		name      string
		filter    ListingFilter
		total     int
		wantStart int
		wantEnd   int
	}{
		{name: "指定なし", filter: ListingFilter{}, total: 6, wantStart: 0, wantEnd: 6},
		{name: "limitのみ", filter: ListingFilter{Limit: ptrInt(2)}, total: 6, wantStart: 0, wantEnd: 2},
		{name: "limitとoffset", filter: ListingFilter{Limit: ptrInt(2), Offset: ptrInt(3)}, total: 6, wantStart: 3, wantEnd: 5},
		{name: "offsetが件数を超える", filter: ListingFilter{Offset: ptrInt(10)}, total: 6, wantStart: 6, wantEnd: 6},
		{name: "limitが残り件数より大きい", filter: ListingFilter{Limit: ptrInt(10), Offset: ptrInt(4)}, total: 6, wantStart: 4, wantEnd: 6},
		{name: "limitがintの上限", filter: ListingFilter{Limit: ptrInt(math.MaxInt), Offset: ptrInt(1)}, total: 6, wantStart: 1, wantEnd: 6},
		{name: "limitとoffsetがintの上限", filter: ListingFilter{Limit: ptrInt(math.MaxInt), Offset: ptrInt(math.MaxInt)}, total: 6, wantStart: 6, wantEnd: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.filter.Page(tt.total)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Page() = [%d, %d), want [%d, %d)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
