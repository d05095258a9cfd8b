package repo

import (
	"context"
	"errors"

	pkgerrors "github.com/oxygenixlabs/storefront/pkg/errors"
	"gorm.io/gorm"
)

// Base provides a shared foundation for gorm-backed repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Transaction runs fn in a transaction bound to ctx.
func (b Base) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return b.DB(ctx).Transaction(fn)
}

// Translate maps gorm sentinel errors onto typed errors. A missing row becomes
// NOT_FOUND with msg; anything else is wrapped as a dependency failure.
func Translate(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, msg)
	case errors.Is(err, gorm.ErrDuplicatedKey), pkgerrors.IsUniqueViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msg)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
	}
}
