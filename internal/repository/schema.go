package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"github.com/uma-arai/sbcntr-stay/internal/common/tracing"
	"github.com/uma-arai/sbcntr-stay/internal/model"
)

// requiredTables は検索・予約に最低限必要なテーブルです
var requiredTables = []string{"users", "listings", "bookings", "reviews"}

// セットアップを同時に実行させないためのアドバイザリーロックのキー
const setupLockKey = 7_300_001

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		phone VARCHAR(20),
		avatar_url TEXT,
		is_host BOOLEAN NOT NULL DEFAULT FALSE,
		is_superhost BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS listings (
		id SERIAL PRIMARY KEY,
		host_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		location VARCHAR(255) NOT NULL,
		latitude DECIMAL(10, 8),
		longitude DECIMAL(11, 8),
		price_per_night DECIMAL(10, 2) NOT NULL,
		guests INTEGER NOT NULL,
		bedrooms INTEGER NOT NULL,
		bathrooms INTEGER NOT NULL,
		property_type VARCHAR(50) NOT NULL DEFAULT 'House',
		amenities TEXT[] NOT NULL DEFAULT '{}',
		images TEXT[] NOT NULL DEFAULT '{}',
		house_rules TEXT[] NOT NULL DEFAULT '{}',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id SERIAL PRIMARY KEY,
		listing_id INTEGER REFERENCES listings(id) ON DELETE CASCADE,
		guest_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
		check_in DATE NOT NULL,
		check_out DATE NOT NULL,
		guests INTEGER NOT NULL,
		total_price DECIMAL(10, 2) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK (check_out > check_in)
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id SERIAL PRIMARY KEY,
		booking_id INTEGER REFERENCES bookings(id) ON DELETE CASCADE,
		reviewer_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
		listing_id INTEGER REFERENCES listings(id) ON DELETE CASCADE,
		rating INTEGER CHECK (rating >= 1 AND rating <= 5),
		comment TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		id SERIAL PRIMARY KEY,
		user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
		listing_id INTEGER REFERENCES listings(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, listing_id)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id SERIAL PRIMARY KEY,
		booking_id INTEGER REFERENCES bookings(id) ON DELETE CASCADE,
		sender_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
		receiver_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
		message TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_location ON listings(location)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_price ON listings(price_per_night)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_host ON listings(host_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_guest ON bookings(guest_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_listing ON bookings(listing_id, check_in, check_out)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_listing ON reviews(listing_id)`,
}

type SchemaRepository interface {
	TablesExist(ctx context.Context) (bool, error)
	Setup(ctx context.Context, seed bool) (bool, error)
}

type SchemaRepositoryImpl struct {
	db *DB
}

func NewSchemaRepository(db *DB) *SchemaRepositoryImpl {
	return &SchemaRepositoryImpl{db: db}
}

// TablesExist は必要なテーブルが全て作成済みかを返します
func (r *SchemaRepositoryImpl) TablesExist(ctx context.Context) (bool, error) {
	ctx, span := tracing.Start(ctx, "SchemaRepository.TablesExist")
	defer span.End(nil)

	query := `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		AND table_name = ANY($1)
	`

	var count int
	if err := r.db.GetContext(ctx, &count, query, pq.Array(requiredTables)); err != nil {
		span.End(err)
		return false, model.NewPersistenceError("check tables", err)
	}

	return count == len(requiredTables), nil
}

// Setup はテーブルとインデックスを作成します。何度実行しても結果は変わりません
// seedがtrueかつリスティングが1件も無い場合のみサンプルデータを投入し、投入したかどうかを返します
func (r *SchemaRepositoryImpl) Setup(ctx context.Context, seed bool) (bool, error) {
	ctx, span := tracing.Start(ctx, "SchemaRepository.Setup")
	defer span.End(nil)

	seeded := false
	err := r.db.InTx(ctx, nil, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, setupLockKey); err != nil {
			return fmt.Errorf("failed to acquire setup lock: %w", err)
		}

		for _, stmt := range schemaStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}

		if !seed {
			return nil
		}

		var populated bool
		if err := tx.GetContext(ctx, &populated, `SELECT EXISTS (SELECT 1 FROM listings)`); err != nil {
			return fmt.Errorf("failed to check existing listings: %w", err)
		}
		if populated {
			log.Println("listings already exist, skipping sample data")
			return nil
		}

		if err := seedSampleData(ctx, tx); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		span.End(err)
		return false, model.NewPersistenceError("setup schema", err)
	}

	return seeded, nil
}

func seedSampleData(ctx context.Context, tx *sqlx.Tx) error {
	emails := make([]string, 0, len(sampleUsers))
	for _, u := range sampleUsers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (first_name, last_name, email, password_hash, is_host, is_superhost)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (email) DO NOTHING
		`, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.IsHost, u.IsSuperhost)
		if err != nil {
			return fmt.Errorf("failed to insert sample user %s: %w", u.Email, err)
		}
		emails = append(emails, u.Email)
	}

	// シーケンスの値に依存しないよう、IDはメールアドレスから引き直す
	var users []model.User
	if err := tx.SelectContext(ctx, &users, `SELECT id, email FROM users WHERE email = ANY($1)`, pq.Array(emails)); err != nil {
		return fmt.Errorf("failed to load sample users: %w", err)
	}
	userIDs := make(map[string]int64, len(users))
	for _, u := range users {
		userIDs[u.Email] = u.ID
	}

	listingIDs := make([]int64, len(sampleListings))
	for i, s := range sampleListings {
		row := model.NewListingRow(userIDs[s.hostEmail], s.input)
		if err := insertListing(ctx, tx, &row); err != nil {
			return fmt.Errorf("failed to insert sample listing %q: %w", s.input.Title, err)
		}
		listingIDs[i] = row.ID
	}

	for _, rv := range sampleReviews {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO reviews (reviewer_id, listing_id, rating, comment)
			VALUES ($1, $2, $3, $4)
		`, userIDs[rv.reviewerEmail], listingIDs[rv.listingIndex], rv.rating, rv.comment)
		if err != nil {
			return fmt.Errorf("failed to insert sample review: %w", err)
		}
	}

	log.WithFields(log.Fields{
		"users":    len(sampleUsers),
		"listings": len(sampleListings),
		"reviews":  len(sampleReviews),
	}).Info("sample data inserted")

	return nil
}
