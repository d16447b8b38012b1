package dbmetrics

import (
	"context"
	"database/sql"
)

// DBExecutor минимальный интерфейс для выполнения запросов
// Реализуется *sql.DB, *sql.Tx и обёртками этого пакета
type DBExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// TxExecutor executor с поддержкой завершения транзакции
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

// ctxKey приватный тип ключа контекста
type ctxKey int

const executorKey ctxKey = iota

// WithExecutor кладет executor (обычно транзакцию) в контекст
// Репозитории достают его через GetExecutor и выполняют запросы внутри транзакции
func WithExecutor(ctx context.Context, ex DBExecutor) context.Context {
	return context.WithValue(ctx, executorKey, ex)
}

// GetExecutor возвращает executor из контекста, либо fallback
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if ex, ok := ctx.Value(executorKey).(DBExecutor); ok {
		return ex
	}
	return fallback
}

// IsInTransaction возвращает true, если в контексте есть активная транзакция
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(executorKey).(DBExecutor)
	return ok
}
