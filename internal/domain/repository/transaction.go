package repository

import (
	"context"

	"gorm.io/gorm"
)

// TransactionManager runs fn inside a database transaction. The repositories
// receive the tx handle so several writes commit or roll back together.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
