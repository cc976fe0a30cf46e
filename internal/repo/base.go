package repo

import (
	"context"
	"errors"

	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
	"gorm.io/gorm"
)

// Base carries the gorm handle shared by the pricing repositories. A Base
// bound to a transaction routes every query through that transaction.
type Base struct {
	db *gorm.DB
}

// NewBase wraps db.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// Bind returns a Base scoped to tx, or b itself when tx is nil.
func (b Base) Bind(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// DB returns the handle with ctx attached. A nil ctx yields the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Translate maps a storage error onto the API error taxonomy: missing rows
// become CodeNotFound naming resource, typed errors pass through, and the
// rest are wrapped as CodeDependency with action as context.
func Translate(err error, resource, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, resource+" not found")
	}
	var typed *pkgerrors.Error
	if errors.As(err, &typed) {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
