package repository

import (
	"context"
	"fmt"
)

type txKey struct{}

// TransactionManager управляет транзакциями над каталогом.
type TransactionManager struct {
	dir *Directory
}

// NewTransactionManager создаёт новый менеджер.
func NewTransactionManager(dir *Directory) *TransactionManager {
	return &TransactionManager{dir: dir}
}

// RunInTransaction выполняет функцию fn под эксклюзивной блокировкой каталога.
// Все вызовы репозитория с переданным в fn контекстом используют уже взятую блокировку.
// Если fn вернула ошибку, каталог откатывается к состоянию на момент начала транзакции.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Вложенная транзакция просто продолжает внешнюю
	if tm.dir.inTransaction(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	tm.dir.mu.Lock()
	defer tm.dir.mu.Unlock()

	backup := cloneActivities(tm.dir.activities)

	// Кладём транзакцию в контекст
	ctx = context.WithValue(ctx, txKey{}, tm.dir)

	if err := fn(ctx); err != nil {
		tm.dir.activities = backup
		return err
	}
	return nil
}

func (d *Directory) inTransaction(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Directory)
	return ok && owner == d
}
