package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"github.com/uma-arai/sbcntr-stay/internal/common/tracing"
	"github.com/uma-arai/sbcntr-stay/internal/model"
)

// PostgreSQLのエラーコード
const (
	pqSerializationFailure = "40001"
	pqForeignKeyViolation  = "23503"
	pqUniqueViolation      = "23505"
)

type DB struct {
	*sqlx.DB
}

func NewDB(conn *sqlx.DB) *DB {
	return &DB{conn}
}

// QueryxContext wraps sqlx.DB.QueryxContext with X-Ray tracing
func (db *DB) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	ctx, span := tracing.Start(ctx, "DB.Queryx")
	defer span.End(nil)

	// クエリをメタデータとして追加
	span.AddMetadata("query", query)

	rows, err := db.DB.QueryxContext(ctx, query, args...)
	if err != nil {
		span.End(err)
		return nil, err
	}

	return rows, nil
}

// SelectContext wraps sqlx.DB.SelectContext with X-Ray tracing
func (db *DB) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, span := tracing.Start(ctx, "DB.Select")
	defer span.End(nil)

	span.AddMetadata("query", query)

	if err := db.DB.SelectContext(ctx, dest, query, args...); err != nil {
		span.End(err)
		return err
	}
	return nil
}

// GetContext wraps sqlx.DB.GetContext with X-Ray tracing
func (db *DB) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, span := tracing.Start(ctx, "DB.Get")
	defer span.End(nil)

	span.AddMetadata("query", query)

	if err := db.DB.GetContext(ctx, dest, query, args...); err != nil {
		// 0件はエラーとしてトレースに残さない
		if !errors.Is(err, sql.ErrNoRows) {
			span.End(err)
		}
		return err
	}
	return nil
}

// InTx はトランザクション内でfnを実行します
// fnがエラーを返した場合はロールバックし、そのエラーをそのまま返します
func (db *DB) InTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sqlx.Tx) error) error {
	ctx, span := tracing.Start(ctx, "DB.InTx")
	defer span.End(nil)

	tx, err := db.DB.BeginTxx(ctx, opts)
	if err != nil {
		span.End(err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Printf("rollback failed: %v, original error: %v", rbErr, err)
		}
		span.End(err)
		return err
	}

	if err := tx.Commit(); err != nil {
		span.End(err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isSerializationFailure(err error) bool {
	return pqCode(err) == pqSerializationFailure
}

// classify はドライバーのエラーをドメインのエラー種別に変換します
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	switch pqCode(err) {
	case pqUniqueViolation:
		return model.NewConflictError("%s: duplicate value", op)
	case pqForeignKeyViolation:
		return model.NewNotFoundError("%s: referenced record does not exist", op)
	}
	return model.NewPersistenceError(op, err)
}
