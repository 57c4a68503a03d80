// Package gateway is the Postgres-backed remote data gateway. Counters,
// like toggles and achievement grants are delegated to stored procedures;
// the gateway never reimplements them.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileStore uploads a blob and returns its public URL.
type FileStore interface {
	Upload(ctx context.Context, folder, name string, data []byte) (string, error)
}

type Gateway struct {
	db    *gorm.DB
	files FileStore
}

// New wraps db. files may be nil, in which case uploads are refused.
func New(db *gorm.DB, files FileStore) *Gateway {
	return &Gateway{db: db, files: files}
}

func (g *Gateway) conn(ctx context.Context) *gorm.DB {
	return g.db.WithContext(ctx)
}

// translate maps gorm errors onto the shared taxonomy. what names the
// entity in the message.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", apperr.ErrConflict, what)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %s: %v", apperr.ErrRemote, what, err)
}

func ownedBy(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// authoredBy limits a mutation to rows the actor wrote unless the actor is
// an administrator.
func authoredBy(actorID uuid.UUID, asAdmin bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if asAdmin {
			return db
		}
		return db.Where("user_id = ?", actorID)
	}
}

// affected turns a zero-row mutation into not-found or forbidden, depending
// on whether the row exists at all.
func (g *Gateway) affected(ctx context.Context, res *gorm.DB, model any, id uuid.UUID, what string) error {
	if res.Error != nil {
		return translate(res.Error, what)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := g.conn(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return translate(err, what)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, what)
	}
	return fmt.Errorf("%w: %s belongs to another user", apperr.ErrForbidden, what)
}

// UploadFile stores data under folder/name.
func (g *Gateway) UploadFile(ctx context.Context, folder, name string, data []byte) (string, error) {
	if g.files == nil {
		return "", fmt.Errorf("%w: file storage is not configured", apperr.ErrNotImplemented)
	}
	return g.files.Upload(ctx, folder, name, data)
}
