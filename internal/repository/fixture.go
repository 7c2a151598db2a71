package repository

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/lib/pq"
	"github.com/uma-arai/sbcntr-stay/internal/model"
)

const fixtureDescription = "This is a sample listing. Set up your database to see real listings with full descriptions and features."

var fixtureHouseRules = []string{"Check-in: 3:00 PM - 10:00 PM", "Checkout: 11:00 AM", "No smoking", "No pets allowed"}

// サンプルデータのレビュー集計(評価, 件数)。sampleListingsと同じ順序です
var fixtureStats = []struct {
	rating  string
	reviews int
}{
	{"4.9", 127},
	{"4.8", 89},
	{"4.7", 203},
	{"4.9", 156},
	{"4.6", 78},
	{"4.8", 92},
}

// FixtureListingSource はDBが未構築の場合に使うメモリ上のリスティングです
// 検索条件の解釈・並び順・ページングはDBの検索と同じです
type FixtureListingSource struct {
	rows []model.ListingRow
}

func NewFixtureListingSource() *FixtureListingSource {
	// 先頭のリスティングが最も新しくなるよう作成日時を割り当てる
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	hosts := make(map[string]model.User, len(sampleUsers))
	for i, u := range sampleUsers {
		u.ID = int64(i + 1)
		hosts[u.Email] = u
	}

	rows := make([]model.ListingRow, 0, len(sampleListings))
	for i, s := range sampleListings {
		host := hosts[s.hostEmail]
		row := model.NewListingRow(host.ID, s.input)
		row.ID = int64(i + 1)
		row.Images = pq.StringArray{model.PlaceholderDetailImage}
		row.CreatedAt = base.Add(time.Duration(len(sampleListings)-i) * time.Hour)
		row.UpdatedAt = row.CreatedAt
		row.HostFirstName = sql.NullString{String: host.FirstName, Valid: true}
		row.HostLastName = sql.NullString{String: host.LastName, Valid: true}
		row.IsSuperhost = sql.NullBool{Bool: host.IsSuperhost, Valid: true}
		row.Rating = fixtureStats[i].rating
		row.ReviewCount = fixtureStats[i].reviews
		rows = append(rows, row)
	}

	return NewFixtureListingSourceWithRows(rows)
}

// NewFixtureListingSourceWithRows は任意の行でFixtureListingSourceを作成します
func NewFixtureListingSourceWithRows(rows []model.ListingRow) *FixtureListingSource {
	sorted := make([]model.ListingRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	return &FixtureListingSource{rows: sorted}
}

// Search は検索条件に一致するサンプルのリスティングを返します
func (s *FixtureListingSource) Search(ctx context.Context, filter model.ListingFilter) ([]model.ListingRow, error) {
	matched := make([]model.ListingRow, 0, len(s.rows))
	for _, row := range s.rows {
		if filter.Matches(row) {
			matched = append(matched, row)
		}
	}

	start, end := filter.Page(len(matched))
	return matched[start:end], nil
}

// GetByID はサンプルのリスティングを詳細表示用の項目を補って返します
func (s *FixtureListingSource) GetByID(ctx context.Context, id int64) (*model.ListingRow, error) {
	for _, row := range s.rows {
		if row.ID != id || !row.IsActive {
			continue
		}
		detail := row
		detail.Description = sql.NullString{String: fixtureDescription, Valid: true}
		detail.HouseRules = pq.StringArray(fixtureHouseRules)
		detail.HostJoined = sql.NullTime{Time: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), Valid: true}
		return &detail, nil
	}
	return nil, model.NewNotFoundError("listing %d not found", id)
}
