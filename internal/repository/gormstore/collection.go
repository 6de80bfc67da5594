package gormstore

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/metrics"
	"github.com/dom/xwing-campaign/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// collection implements repository.Collection for one table. Updates and
// deletes are conditional on (id, version); the single-row compare-and-swap
// of the database is the only guard against lost updates.
type collection[T any, PT interface {
	*T
	domain.Enveloped
}] struct {
	db   *gorm.DB
	name string
	now  func() time.Time
}

func newCollection[T any, PT interface {
	*T
	domain.Enveloped
}](db *gorm.DB, name string) *collection[T, PT] {
	return &collection[T, PT]{db: db, name: name, now: now}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (c *collection[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	var doc T
	if err := c.db.WithContext(ctx).Take(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("No document with id %s", id)
		}
		return nil, c.translate("get", err)
	}
	return &doc, nil
}

func (c *collection[T, PT]) FindOne(ctx context.Context, filter repository.Filter) (*T, error) {
	var doc T
	if err := c.where(ctx, filter).Take(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("No matching document found")
		}
		return nil, c.translate("findOne", err)
	}
	return &doc, nil
}

func (c *collection[T, PT]) Select(ctx context.Context, filter repository.Filter, fields ...string) ([]*T, error) {
	tx := c.where(ctx, filter)
	if len(fields) > 0 {
		tx = tx.Select(fields)
	}

	var docs []*T
	if err := tx.Find(&docs).Error; err != nil {
		return nil, c.translate("select", err)
	}
	return docs, nil
}

func (c *collection[T, PT]) Put(ctx context.Context, doc *T) (string, error) {
	rec := PT(doc).Envelope()
	if rec.IsNew() {
		return c.insert(ctx, doc)
	}
	return rec.ID, c.update(ctx, doc)
}

func (c *collection[T, PT]) insert(ctx context.Context, doc *T) (string, error) {
	rec := PT(doc).Envelope()
	rec.ID = uuid.NewString()
	rec.Version = 0
	rec.LastModified = c.now()

	if err := c.db.WithContext(ctx).Create(doc).Error; err != nil {
		rec.ID = ""
		return "", c.translate("insert", err)
	}
	return rec.ID, nil
}

func (c *collection[T, PT]) update(ctx context.Context, doc *T) error {
	rec := PT(doc).Envelope()
	expected, modified := rec.Version, rec.LastModified
	rec.Version = expected + 1
	rec.LastModified = c.now()

	res := c.db.WithContext(ctx).
		Model(doc).
		Where("id = ? AND version = ?", rec.ID, expected).
		Select("*").
		Updates(doc)
	if res.Error == nil && res.RowsAffected == 1 {
		return nil
	}

	rec.Version, rec.LastModified = expected, modified
	if res.Error != nil {
		return c.translate("update", res.Error)
	}
	return c.versionMismatch(ctx, rec.ID, expected)
}

func (c *collection[T, PT]) Delete(ctx context.Context, id string, version int) error {
	res := c.db.WithContext(ctx).
		Where("id = ? AND version = ?", id, version).
		Delete(PT(new(T)))
	if res.Error != nil {
		return c.translate("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return c.versionMismatch(ctx, id, version)
	}
	return nil
}

func (c *collection[T, PT]) Insert(ctx context.Context, docs []*T) error {
	conflicts := 0
	for _, doc := range docs {
		if _, err := c.insert(ctx, doc); err != nil {
			if domain.IsKind(err, domain.KindConflict) {
				conflicts++
				continue
			}
			return err
		}
	}
	if conflicts > 0 {
		return domain.Conflict("%d of %d documents already exist in %s", conflicts, len(docs), c.name)
	}
	return nil
}

func (c *collection[T, PT]) where(ctx context.Context, filter repository.Filter) *gorm.DB {
	tx := c.db.WithContext(ctx).Model(PT(new(T)))
	if len(filter) > 0 {
		tx = tx.Where(map[string]interface{}(filter))
	}
	return tx
}

// versionMismatch explains why a conditional write touched no row.
func (c *collection[T, PT]) versionMismatch(ctx context.Context, id string, version int) error {
	var count int64
	if err := c.db.WithContext(ctx).Model(PT(new(T))).Where("id = ?", id).Count(&count).Error; err != nil {
		return c.translate("count", err)
	}
	if count == 0 {
		return domain.NotFound("No document with id %s", id)
	}

	metrics.LockConflicts.WithLabelValues(c.name).Inc()
	log.Printf("WARN [gormstore.%s] id=%s version=%d is stale", c.name, id, version)
	return domain.LockingError("Document %s was modified by someone else", id)
}

func (c *collection[T, PT]) translate(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.Conflict("Duplicate key in %s", c.name)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NotFound("No matching document found")
	}
	log.Printf("ERROR [gormstore.%s] %s failed: %v", c.name, op, err)
	return domain.DatabaseError("%s %s failed", c.name, op)
}
