package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/repository"
	"github.com/gosimple/slug"
)

const (
	shipsFile    = "ships.json"
	missionsFile = "missions.json"
	upgradesDir  = "upgrades"
)

// Loader inserts static reference data. Documents that are already stored
// are left untouched, so loading is safe on every start.
type Loader struct {
	source Source
	repos  *repository.Repositories
}

func NewLoader(source Source, repos *repository.Repositories) *Loader {
	return &Loader{source: source, repos: repos}
}

// Counts holds how many documents each file offered.
type Counts struct {
	Ships    int
	Upgrades int
	Missions int
}

func (l *Loader) LoadAll(ctx context.Context) (*Counts, error) {
	counts := &Counts{}

	n, err := loadFile(ctx, l.source, shipsFile, l.repos.Ship, prepareShip)
	if err != nil {
		return nil, err
	}
	counts.Ships = n

	files, err := l.source.List(ctx, upgradesDir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", upgradesDir, err)
	}
	for _, file := range files {
		slot, err := slotForFile(file)
		if err != nil {
			return nil, err
		}
		n, err := loadFile(ctx, l.source, file, l.repos.Upgrade, func(u *domain.Upgrade) error {
			if u.Slot == "" {
				u.Slot = slot
			}
			return prepareUpgrade(u)
		})
		if err != nil {
			return nil, err
		}
		counts.Upgrades += n
	}

	n, err = loadFile(ctx, l.source, missionsFile, l.repos.Mission, prepareMission)
	if err != nil {
		return nil, err
	}
	counts.Missions = n

	return counts, nil
}

func loadFile[T any](ctx context.Context, src Source, name string, repo repository.Collection[T], prepare func(*T) error) (int, error) {
	data, err := src.ReadFile(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", name, err)
	}

	var items []*T
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	for i, item := range items {
		if err := prepare(item); err != nil {
			return 0, fmt.Errorf("%s item %d: %w", name, i, err)
		}
	}

	log.Printf("Inserting %d fixtures from %s", len(items), name)
	if err := repo.Insert(ctx, items); err != nil {
		if !domain.IsKind(err, domain.KindConflict) {
			return 0, fmt.Errorf("insert %s: %w", name, err)
		}
		log.Printf("Fixtures from %s already present", name)
	}
	return len(items), nil
}

func nameFor(name, displayName string) (string, error) {
	if name != "" {
		return name, nil
	}
	if displayName == "" {
		return "", domain.Invalid("Name or display name must be set")
	}
	return slug.Make(displayName), nil
}

func prepareShip(s *domain.Ship) error {
	name, err := nameFor(s.Name, s.DisplayName)
	if err != nil {
		return err
	}
	s.Name = name
	if s.DisplayName == "" {
		s.DisplayName = name
	}
	return nil
}

func prepareMission(m *domain.Mission) error {
	name, err := nameFor(m.Name, m.DisplayName)
	if err != nil {
		return err
	}
	m.Name = name
	if m.DisplayName == "" {
		m.DisplayName = name
	}
	return nil
}

func prepareUpgrade(u *domain.Upgrade) error {
	name, err := nameFor(u.Name, u.DisplayName)
	if err != nil {
		return err
	}
	u.Name = name
	if u.DisplayName == "" {
		u.DisplayName = name
	}
	if !u.Slot.IsValid() {
		return domain.Invalid("Unknown slot %s", u.Slot)
	}
	return nil
}

// slotForFile maps upgrades/<slot>.json to its slot. crew-* files all hold
// crew upgrades.
func slotForFile(file string) (domain.Slot, error) {
	base := strings.TrimSuffix(path.Base(file), path.Ext(file))
	if strings.HasPrefix(base, "crew-") {
		return domain.SlotCrew, nil
	}
	for _, slot := range domain.Slots() {
		if slug.Make(string(slot)) == base {
			return slot, nil
		}
	}
	return "", fmt.Errorf("no upgrade slot matches %s", file)
}
