package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/uma-arai/sbcntr-stay/internal/model"
)

func mustFilter(t *testing.T, params map[string]string) model.ListingFilter {
	t.Helper()
	f, err := model.ParseListingFilter(params)
	if err != nil {
		t.Fatalf("ParseListingFilter(%v) error = %v", params, err)
	}
	return f
}

func titles(rows []model.ListingRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Title)
	}
	return out
}

func TestFixtureListingSource_Search(t *testing.T) {
	src := NewFixtureListingSource()
	ctx := context.Background()

	tests := []struct {
		name   string
		params map[string]string
		want   []string
	}{
		{
			name:   "条件なしは全件を新しい順",
			params: map[string]string{},
			want: []string{
				"Cozy Mountain Cabin with Stunning Views",
				"Modern Beach House",
				"Downtown Loft",
				"Lakefront Cottage",
				"Urban Studio Apartment",
				"Desert Villa with Pool",
			},
		},
		{
			name:   "場所は大文字小文字を区別しない",
			params: map[string]string{"location": "CALIFORNIA"},
			want:   []string{"Modern Beach House", "Lakefront Cottage"},
		},
		{
			name:   "価格の範囲は両端を含む",
			params: map[string]string{"minPrice": "120", "maxPrice": "220"},
			want:   []string{"Cozy Mountain Cabin with Stunning Views", "Downtown Loft", "Lakefront Cottage"},
		},
		{
			name:   "人数は定員以上のリスティングのみ",
			params: map[string]string{"guests": "8"},
			want:   []string{"Modern Beach House", "Desert Villa with Pool"},
		},
		{
			name:   "limitとoffset",
			params: map[string]string{"limit": "2", "offset": "1"},
			want:   []string{"Modern Beach House", "Downtown Loft"},
		},
		{
			name:   "limitがintの上限でもoffset以降を全件返す",
			params: map[string]string{"limit": "9223372036854775807", "offset": "4"},
			want:   []string{"Urban Studio Apartment", "Desert Villa with Pool"},
		},
		{
			name:   "offsetが件数を超える",
			params: map[string]string{"offset": "100"},
			want:   []string{},
		},
		{
			name:   "一致なし",
			params: map[string]string{"location": "Tokyo"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := src.Search(ctx, mustFilter(t, tt.params))
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			got := titles(rows)
			if len(got) != len(tt.want) {
				t.Fatalf("Search() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Search()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// 全ての検索結果が指定した条件を全て満たし、条件を満たす行は漏れなく返ることを確認する
func TestFixtureListingSource_SearchSatisfiesEveryPredicate(t *testing.T) {
	src := NewFixtureListingSource()
	ctx := context.Background()

	locations := []string{"", "united", "york"}
	mins := []string{"", "100"}
	maxes := []string{"", "300"}
	guests := []string{"", "2", "6"}

	all, _ := src.Search(ctx, model.ListingFilter{})

	for _, loc := range locations {
		for _, lo := range mins {
			for _, hi := range maxes {
				for _, g := range guests {
					f := mustFilter(t, map[string]string{"location": loc, "minPrice": lo, "maxPrice": hi, "guests": g})
					rows, err := src.Search(ctx, f)
					if err != nil {
						t.Fatalf("Search() error = %v", err)
					}
					expected := 0
					for _, r := range all {
						if f.Matches(r) {
							expected++
						}
					}
					if len(rows) != expected {
						t.Errorf("filter %s: got %d rows, want %d", f.CacheKey(), len(rows), expected)
					}
					for _, r := range rows {
						if !f.Matches(r) {
							t.Errorf("filter %s returned non-matching %q", f.CacheKey(), r.Title)
						}
					}
				}
			}
		}
	}
}

func TestFixtureListingSource_ExcludesInactive(t *testing.T) {
	now := time.Now()
	src := NewFixtureListingSourceWithRows([]model.ListingRow{
		{ID: 1, Title: "active", IsActive: true, CreatedAt: now},
		{ID: 2, Title: "inactive", IsActive: false, CreatedAt: now.Add(time.Hour)},
	})

	rows, err := src.Search(context.Background(), model.ListingFilter{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "active" {
		t.Errorf("Search() = %v, want [active]", titles(rows))
	}

	if _, err := src.GetByID(context.Background(), 2); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("GetByID(inactive) error = %v, want ErrNotFound", err)
	}
}

// 同じ作成日時の場合はIDの降順になる
func TestFixtureListingSource_TieBreakByID(t *testing.T) {
	now := time.Now()
	src := NewFixtureListingSourceWithRows([]model.ListingRow{
		{ID: 1, Title: "first", IsActive: true, CreatedAt: now},
		{ID: 2, Title: "second", IsActive: true, CreatedAt: now},
	})

	rows, _ := src.Search(context.Background(), model.ListingFilter{})
	if got := titles(rows); len(got) != 2 || got[0] != "second" {
		t.Errorf("Search() = %v, want [second first]", got)
	}
}

func TestFixtureListingSource_GetByID(t *testing.T) {
	src := NewFixtureListingSource()

	row, err := src.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if row.Title != "Cozy Mountain Cabin with Stunning Views" {
		t.Errorf("Title = %q", row.Title)
	}
	if row.Description.String != fixtureDescription {
		t.Errorf("Description = %q, want placeholder", row.Description.String)
	}
	if !row.HostJoined.Valid || row.HostJoined.Time.Year() != 2019 {
		t.Errorf("HostJoined = %v, want 2019", row.HostJoined)
	}
	if len(row.HouseRules) != 4 {
		t.Errorf("HouseRules = %v", row.HouseRules)
	}
	if row.HostFirstName.String != "Sarah" || !row.IsSuperhost.Bool {
		t.Errorf("host = %s superhost=%v", row.HostFirstName.String, row.IsSuperhost.Bool)
	}

	if _, err := src.GetByID(context.Background(), 999); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("GetByID(999) error = %v, want ErrNotFound", err)
	}
}

// MockListingSource はテスト用のモックです
type MockListingSource struct {
	searchCalled bool
	rows         []model.ListingRow
}

func (m *MockListingSource) Search(ctx context.Context, filter model.ListingFilter) ([]model.ListingRow, error) {
	m.searchCalled = true
	return m.rows, nil
}

func (m *MockListingSource) GetByID(ctx context.Context, id int64) (*model.ListingRow, error) {
	return nil, model.NewNotFoundError("listing %d not found", id)
}

func TestListingSourceSelector(t *testing.T) {
	live := &MockListingSource{}
	fixture := &MockListingSource{}
	selector := NewListingSourceSelector(live, fixture, false)

	if _, err := selector.Search(context.Background(), model.ListingFilter{}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !fixture.searchCalled || live.searchCalled {
		t.Errorf("unprovisioned selector should read fixtures (live=%v fixture=%v)", live.searchCalled, fixture.searchCalled)
	}

	selector.MarkProvisioned()
	if !selector.Provisioned() {
		t.Fatal("Provisioned() = false after MarkProvisioned")
	}
	if _, err := selector.Search(context.Background(), model.ListingFilter{}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !live.searchCalled {
		t.Error("provisioned selector should read the live source")
	}
}
