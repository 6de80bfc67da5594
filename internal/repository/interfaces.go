package repository

import (
	"context"
	"time"

	"github.com/dom/xwing-campaign/internal/domain"
)

// Filter is an equality predicate on column names. An empty filter matches
// every document.
type Filter map[string]interface{}

// Collection is the versioned document contract shared by all entity
// collections. Every error it returns is a *domain.Error.
type Collection[T any] interface {
	// Get fails with NotFound if no document has the id.
	Get(ctx context.Context, id string) (*T, error)
	// FindOne fails with NotFound if nothing matches. With several matches
	// an arbitrary one is returned.
	FindOne(ctx context.Context, filter Filter) (*T, error)
	// Select returns matching documents with only the named columns loaded.
	// No fields loads every column.
	Select(ctx context.Context, filter Filter, fields ...string) ([]*T, error)
	// Put inserts a document without id, or updates the document with the
	// same id and version. A version mismatch fails with LockingError.
	Put(ctx context.Context, doc *T) (string, error)
	// Delete removes the document with the given id and version.
	Delete(ctx context.Context, id string, version int) error
	// Insert adds fixture documents. Duplicates are reported as a single
	// Conflict after every document was attempted.
	Insert(ctx context.Context, docs []*T) error
}

type UserRepository interface {
	Collection[domain.User]
}

type SessionRepository interface {
	Collection[domain.Session]
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type CampaignRepository interface {
	Collection[domain.Campaign]
}

type PilotRepository interface {
	Collection[domain.Pilot]
}

type ShipRepository interface {
	Collection[domain.Ship]
}

type MissionRepository interface {
	Collection[domain.Mission]
}

type UpgradeRepository interface {
	Collection[domain.Upgrade]
}

type Repositories struct {
	User     UserRepository
	Session  SessionRepository
	Campaign CampaignRepository
	Pilot    PilotRepository
	Ship     ShipRepository
	Mission  MissionRepository
	Upgrade  UpgradeRepository
}
