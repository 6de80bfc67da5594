package gormstore

import (
	"context"
	"time"

	"github.com/dom/xwing-campaign/internal/domain"
	"gorm.io/gorm"
)

type sessionRepository struct {
	*collection[domain.Session, *domain.Session]
}

func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{collection: newCollection[domain.Session](db, "sessions")}
}

// DeleteExpired removes sessions that expired before the given time,
// regardless of their version.
func (r *sessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires < ?", before).Delete(&domain.Session{})
	if res.Error != nil {
		return 0, r.translate("deleteExpired", res.Error)
	}
	return res.RowsAffected, nil
}
