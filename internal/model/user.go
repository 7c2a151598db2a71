package model

import "time"

// User はusersテーブルのレコードです
type User struct {
	ID           int64     `db:"id"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsHost       bool      `db:"is_host"`
	IsSuperhost  bool      `db:"is_superhost"`
	CreatedAt    time.Time `db:"created_at"`
}

// UserView はAPIレスポンス用のユーザー情報です。パスワードハッシュは含みません
type UserView struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	IsHost      bool   `json:"isHost"`
	IsSuperhost bool   `json:"isSuperhost"`
}

// RegisterInput はユーザー登録の入力です
type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput はログインの入力です
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Claims は検証済みトークンから取り出したユーザー識別子です
type Claims struct {
	UserID int64
	Email  string
}
