package service

import (
	"context"
	"strings"

	"github.com/uma-arai/sbcntr-stay/internal/model"
)

// MockListingRepository はテスト用のモックリポジトリです
type MockListingRepository struct {
	rows        []model.ListingRow
	searchCalls int
	searchError error
	getError    error
	createError error
	created     *model.ListingRow
}

func (m *MockListingRepository) Search(ctx context.Context, filter model.ListingFilter) ([]model.ListingRow, error) {
	m.searchCalls++
	if m.searchError != nil {
		return nil, m.searchError
	}
	var out []model.ListingRow
	for _, r := range m.rows {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockListingRepository) GetByID(ctx context.Context, id int64) (*model.ListingRow, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, r := range m.rows {
		if r.ID == id {
			row := r
			return &row, nil
		}
	}
	return nil, model.NewNotFoundError("listing %d not found", id)
}

func (m *MockListingRepository) Create(ctx context.Context, row *model.ListingRow) error {
	if m.createError != nil {
		return m.createError
	}
	row.ID = int64(len(m.rows) + 1)
	m.created = row
	m.rows = append(m.rows, *row)
	return nil
}

// MockListingCache はテスト用のモックキャッシュです
type MockListingCache struct {
	entries     map[string][]model.ListingSummary
	invalidated int
}

func newMockListingCache() *MockListingCache {
	return &MockListingCache{entries: map[string][]model.ListingSummary{}}
}

func (m *MockListingCache) GetSearch(ctx context.Context, filter model.ListingFilter) ([]model.ListingSummary, bool) {
	v, ok := m.entries[filter.CacheKey()]
	return v, ok
}

func (m *MockListingCache) SetSearch(ctx context.Context, filter model.ListingFilter, listings []model.ListingSummary) {
	m.entries[filter.CacheKey()] = listings
}

func (m *MockListingCache) Invalidate(ctx context.Context) {
	m.invalidated++
	m.entries = map[string][]model.ListingSummary{}
}

// MockBookingRepository はテスト用のモックリポジトリです
type MockBookingRepository struct {
	available   bool
	checkError  error
	createError error
	createCalls int
	created     *model.Booking
	rows        []model.BookingRow
}

func (m *MockBookingRepository) IsAvailable(ctx context.Context, listingID int64, stay model.StayDates) (bool, error) {
	return m.available, m.checkError
}

func (m *MockBookingRepository) CreateIfAvailable(ctx context.Context, b *model.Booking) error {
	m.createCalls++
	if m.createError != nil {
		return m.createError
	}
	b.ID = 100
	m.created = b
	return nil
}

func (m *MockBookingRepository) ListByGuest(ctx context.Context, guestID int64) ([]model.BookingRow, error) {
	var out []model.BookingRow
	for _, r := range m.rows {
		if r.GuestID == guestID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockBookingRepository) ListByHost(ctx context.Context, hostID int64) ([]model.BookingRow, error) {
	return m.rows, nil
}

// MockBookingPublisher はテスト用のモックパブリッシャーです
type MockBookingPublisher struct {
	events []model.BookingEvent
	err    error
}

func (m *MockBookingPublisher) PublishBookingCreated(ctx context.Context, event model.BookingEvent) error {
	m.events = append(m.events, event)
	return m.err
}

// MockUserRepository はテスト用のモックリポジトリです
type MockUserRepository struct {
	users    []model.User
	getError error
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return model.NewConflictError("user with email %s already exists", user.Email)
		}
	}
	user.ID = int64(len(m.users) + 1)
	user.Email = strings.ToLower(user.Email)
	m.users = append(m.users, *user)
	return nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			user := u
			return &user, nil
		}
	}
	return nil, model.NewNotFoundError("user not found")
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, u := range m.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, model.NewNotFoundError("user %d not found", id)
}

// MockSchemaRepository はテスト用のモックリポジトリです
type MockSchemaRepository struct {
	exists     bool
	existsErr  error
	setupErr   error
	seeded     bool
	setupCalls int
}

func (m *MockSchemaRepository) TablesExist(ctx context.Context) (bool, error) {
	return m.exists, m.existsErr
}

func (m *MockSchemaRepository) Setup(ctx context.Context, seed bool) (bool, error) {
	m.setupCalls++
	if m.setupErr != nil {
		return false, m.setupErr
	}
	m.exists = true
	return seed && m.seeded, nil
}

// MockProvisioner はテスト用のモックです
type MockProvisioner struct {
	provisioned bool
}

func (m *MockProvisioner) MarkProvisioned() {
	m.provisioned = true
}

func (m *MockProvisioner) Provisioned() bool {
	return m.provisioned
}
