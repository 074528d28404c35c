// Package tr передаёт транзакцию pgx через контекст между репозиториями,
// которые участвуют в одной записи.
package tr

import (
	"context"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type txKey struct{}

// Querier — общее подмножество pgx.Tx и pgxpool.Pool.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WithTx кладёт транзакцию в контекст.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromCtx извлекает транзакцию из контекста.
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	if !ok || tx == nil {
		return nil, e.ErrTransactionNotFound
	}
	return tx, nil
}

// QuerierFromCtx возвращает транзакцию из контекста, а без неё — fallback (обычно пул).
func QuerierFromCtx(ctx context.Context, fallback Querier) Querier {
	if tx, err := TxFromCtx(ctx); err == nil {
		return tx
	}
	return fallback
}
