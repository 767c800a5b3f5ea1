package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// TxManager выполняет fn в одной транзакции: коммит при nil, откат при ошибке или панике.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, exec SQLExecutor) error) error
}

type postgresTxManager struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresTxManager(db *sql.DB, logger *slog.Logger) TxManager {
	return &postgresTxManager{db: db, logger: logger}
}

func (m *postgresTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, exec SQLExecutor) error) (txErr error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				m.logger.Error("transaction rollback failed", slog.Any("error", rbErr), slog.Any("cause", txErr))
				txErr = fmt.Errorf("%w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", translatePQError(cErr))
		}
	}()

	return fn(ctx, tx)
}
