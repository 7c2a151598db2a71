package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uma-arai/sbcntr-stay/internal/common/tracing"
	"github.com/uma-arai/sbcntr-stay/internal/model"
)

const userColumns = `id, first_name, last_name, email, password_hash, is_host, is_superhost, created_at`

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type UserRepositoryImpl struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepositoryImpl {
	return &UserRepositoryImpl{db: db}
}

// Create はユーザーを登録します。メールアドレスが登録済みの場合はConflictErrorを返します
func (r *UserRepositoryImpl) Create(ctx context.Context, user *model.User) error {
	ctx, span := tracing.Start(ctx, "UserRepository.Create")
	defer span.End(nil)

	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, is_host, is_superhost)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		user.FirstName,
		user.LastName,
		strings.ToLower(user.Email),
		user.PasswordHash,
		user.IsHost,
		user.IsSuperhost,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return model.NewConflictError("user with email %s already exists", user.Email)
		}
		span.End(err)
		return model.NewPersistenceError("create user", err)
	}

	user.Email = strings.ToLower(user.Email)
	return nil
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, span := tracing.Start(ctx, "UserRepository.GetByEmail")
	defer span.End(nil)

	var user model.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("user not found")
		}
		span.End(err)
		return nil, model.NewPersistenceError("get user", err)
	}

	return &user, nil
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id int64) (*model.User, error) {
	ctx, span := tracing.Start(ctx, "UserRepository.GetByID")
	defer span.End(nil)

	var user model.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("user %d not found", id)
		}
		span.End(err)
		return nil, model.NewPersistenceError("get user", err)
	}

	return &user, nil
}
