package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/uma-arai/sbcntr-stay/internal/common/tracing"
	"github.com/uma-arai/sbcntr-stay/internal/model"
	"github.com/uma-arai/sbcntr-stay/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var errInvalidCredentials = model.NewUnauthorizedError("invalid email or password")

type tokenClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthResult はユーザー登録・ログインの結果です
type AuthResult struct {
	User  model.UserView
	Token string
}

// AuthService はユーザー登録とトークンの発行・検証を担当します
type AuthService struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
}

func NewAuthService(users repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Register はユーザーを登録してトークンを発行します
func (s *AuthService) Register(ctx context.Context, in model.RegisterInput) (*AuthResult, error) {
	ctx, span := tracing.Start(ctx, "AuthService.Register")
	defer span.End(nil)

	if err := validateInput(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		span.End(err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		span.End(err)
		return nil, err
	}

	return s.issue(user)
}

// Login はメールアドレスとパスワードを照合してトークンを発行します
// ユーザーが存在しない場合もパスワード不一致と同じUnauthorizedErrorを返します
func (s *AuthService) Login(ctx context.Context, in model.LoginInput) (*AuthResult, error) {
	ctx, span := tracing.Start(ctx, "AuthService.Login")
	defer span.End(nil)

	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		span.End(err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	return s.issue(*user)
}

func (s *AuthService) issue(user model.User) (*AuthResult, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResult{
		User:  model.ToUserView(user),
		Token: token,
	}, nil
}

// Verify はトークンの署名と有効期限を検証し、ユーザーが存在することを確認します
func (s *AuthService) Verify(ctx context.Context, token string) (model.Claims, error) {
	ctx, span := tracing.Start(ctx, "AuthService.Verify")
	defer span.End(nil)

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return model.Claims{}, model.NewUnauthorizedError("invalid or expired token")
	}
	if claims.UserID <= 0 {
		return model.Claims{}, model.NewUnauthorizedError("token has no user")
	}

	// 削除されたユーザーのトークンは受け付けない
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Claims{}, model.NewUnauthorizedError("user no longer exists")
		}
		span.End(err)
		return model.Claims{}, err
	}

	return model.Claims{UserID: user.ID, Email: user.Email}, nil
}
