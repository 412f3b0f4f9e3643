package store

import (
	"sync"

	"salesboard/internal/model"
	"salesboard/internal/seed"
	"salesboard/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	actionPathNamespace     = "action-path-storage"
	actionPathSchemaVersion = 1
)

// DefaultPathID is the reserved id of the per-company default path. The
// default path lives in a dedicated slot outside the normal collection; it
// cannot be removed, only its contents mutated.
const DefaultPathID = "default"

// PathConfig is the catalog state owned by the store: deal sizes,
// territories, products and the named action paths.
type PathConfig struct {
	DealSizes   []model.DealSize   `json:"deal_sizes"`
	Territories []model.Territory  `json:"territories"`
	Products    []model.Product    `json:"products"`
	ActionPaths []model.ActionPath `json:"action_paths"`
}

type actionPathSnapshot struct {
	Config      PathConfig        `json:"config"`
	DefaultPath *model.ActionPath `json:"default_path"`
}

// ActionPathStore owns the territory/product catalog, the collection of
// named action paths, and the reserved default path slot.
type ActionPathStore struct {
	mu          sync.RWMutex
	adapter     storage.Adapter
	config      PathConfig
	defaultPath *model.ActionPath
	log         *zap.Logger
}

// NewActionPathStore loads the persisted state, falling back to the seed
// catalog and seed default path when no current-version snapshot exists.
func NewActionPathStore(adapter storage.Adapter, log *zap.Logger) (*ActionPathStore, error) {
	s := &ActionPathStore{adapter: adapter, log: log}
	var snap actionPathSnapshot
	found, err := adapter.Load(actionPathNamespace, actionPathSchemaVersion, &snap)
	if err != nil {
		return nil, err
	}
	if found {
		s.config = snap.Config
		s.defaultPath = snap.DefaultPath
	} else {
		defaultPath := seed.DefaultPath()
		s.config = PathConfig{
			DealSizes:   append([]model.DealSize(nil), model.DealSizes...),
			Territories: seed.Territories(),
			Products:    seed.Products(),
			ActionPaths: []model.ActionPath{},
		}
		s.defaultPath = &defaultPath
	}
	return s, nil
}

// Config returns a copy of the catalog state.
func (s *ActionPathStore) Config() PathConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.configCopy()
}

// AddTerritory appends a territory, assigning an id when the caller did not.
func (s *ActionPathStore) AddTerritory(t model.Territory) (model.Territory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	next := s.configCopy()
	next.Territories = append(next.Territories, t)
	if err := s.persist(next, s.defaultPath); err != nil {
		return model.Territory{}, err
	}
	s.config = next
	return t, nil
}

// UpdateTerritory merges the patch into the territory. Unknown ids no-op.
func (s *ActionPathStore) UpdateTerritory(id string, patch model.TerritoryPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.configCopy()
	for i := range next.Territories {
		if next.Territories[i].ID == id {
			patch.Apply(&next.Territories[i])
			if err := s.persist(next, s.defaultPath); err != nil {
				return err
			}
			s.config = next
			return nil
		}
	}
	return nil
}

// RemoveTerritory deletes the territory and pulls its id out of every
// path's territory reference list. Referential integrity is maintained by
// this cascade, not by a foreign-key constraint.
func (s *ActionPathStore) RemoveTerritory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.configCopy()
	next.Territories = removeByID(next.Territories, id, func(t model.Territory) string { return t.ID })
	for i := range next.ActionPaths {
		next.ActionPaths[i].Territories = removeString(next.ActionPaths[i].Territories, id)
	}
	if err := s.persist(next, s.defaultPath); err != nil {
		return err
	}
	s.config = next
	return nil
}

// AddProduct appends a product, assigning an id when the caller did not.
func (s *ActionPathStore) AddProduct(p model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	next := s.configCopy()
	next.Products = append(next.Products, p)
	if err := s.persist(next, s.defaultPath); err != nil {
		return model.Product{}, err
	}
	s.config = next
	return p, nil
}

// UpdateProduct merges the patch into the product. Unknown ids no-op.
func (s *ActionPathStore) UpdateProduct(id string, patch model.ProductPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.configCopy()
	for i := range next.Products {
		if next.Products[i].ID == id {
			patch.Apply(&next.Products[i])
			if err := s.persist(next, s.defaultPath); err != nil {
				return err
			}
			s.config = next
			return nil
		}
	}
	return nil
}

// RemoveProduct deletes the product and cascades its id out of every path.
func (s *ActionPathStore) RemoveProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.configCopy()
	next.Products = removeByID(next.Products, id, func(p model.Product) string { return p.ID })
	for i := range next.ActionPaths {
		next.ActionPaths[i].Products = removeString(next.ActionPaths[i].Products, id)
	}
	if err := s.persist(next, s.defaultPath); err != nil {
		return err
	}
	s.config = next
	return nil
}

// Add appends a fully-formed path; the caller supplies the id.
func (s *ActionPathStore) Add(p model.ActionPath) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.configCopy()
	next.ActionPaths = append(next.ActionPaths, p.Clone())
	if err := s.persist(next, s.defaultPath); err != nil {
		return err
	}
	s.config = next
	return nil
}

// Update merges the patch into the path with the given id. The reserved
// DefaultPathID routes into the default slot so both kinds of path share
// one update signature.
func (s *ActionPathStore) Update(id string, patch model.ActionPathPatch) error {
	if id == DefaultPathID {
		return s.UpdateDefault(patch)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.configCopy()
	for i := range next.ActionPaths {
		if next.ActionPaths[i].ID == id {
			patch.Apply(&next.ActionPaths[i])
			if err := s.persist(next, s.defaultPath); err != nil {
				return err
			}
			s.config = next
			return nil
		}
	}
	return nil
}

// UpdateDefault merges the patch into the default slot only; it never
// touches the normal collection.
func (s *ActionPathStore) UpdateDefault(patch model.ActionPathPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.defaultPath == nil {
		return nil
	}
	updated := s.defaultPath.Clone()
	patch.Apply(&updated)
	if err := s.persist(s.config, &updated); err != nil {
		return err
	}
	s.defaultPath = &updated
	return nil
}

// SetDefaultActions replaces the default slot's actions, stamping each as a
// default action owned by the slot's company.
func (s *ActionPathStore) SetDefaultActions(actions []model.SalesAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.defaultPath == nil {
		return nil
	}
	updated := s.defaultPath.Clone()
	updated.Actions = model.CloneActions(actions)
	for i := range updated.Actions {
		updated.Actions[i].IsDefault = true
		updated.Actions[i].ActionPathID = DefaultPathID
	}
	if err := s.persist(s.config, &updated); err != nil {
		return err
	}
	s.defaultPath = &updated
	return nil
}

// Remove deletes a path from the collection. The default path is protected
// and removal of it always fails with no state change. Actions are embedded
// in the path, so no cascade is needed.
func (s *ActionPathStore) Remove(id string) error {
	if id == DefaultPathID {
		return ErrDefaultPathProtected
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.configCopy()
	next.ActionPaths = removeByID(next.ActionPaths, id, func(p model.ActionPath) string { return p.ID })
	if len(next.ActionPaths) == len(s.config.ActionPaths) {
		return nil
	}
	if err := s.persist(next, s.defaultPath); err != nil {
		return err
	}
	s.config = next
	return nil
}

// Get returns the path with the given id; DefaultPathID resolves to the
// default slot.
func (s *ActionPathStore) Get(id string) (model.ActionPath, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id == DefaultPathID {
		if s.defaultPath == nil {
			return model.ActionPath{}, false
		}
		return s.defaultPath.Clone(), true
	}
	for _, p := range s.config.ActionPaths {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return model.ActionPath{}, false
}

// Default returns the default slot.
func (s *ActionPathStore) Default() (model.ActionPath, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.defaultPath == nil {
		return model.ActionPath{}, false
	}
	return s.defaultPath.Clone(), true
}

// ByCompany returns the company's paths. The company that owns the default
// slot gets it prepended to the result.
func (s *ActionPathStore) ByCompany(companyID string) []model.ActionPath {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ActionPath, 0)
	if s.defaultPath != nil && s.defaultPath.CompanyID == companyID {
		out = append(out, s.defaultPath.Clone())
	}
	for _, p := range s.config.ActionPaths {
		if p.CompanyID == companyID {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (s *ActionPathStore) configCopy() PathConfig {
	out := PathConfig{
		DealSizes:   append([]model.DealSize(nil), s.config.DealSizes...),
		Territories: make([]model.Territory, len(s.config.Territories)),
		Products:    append([]model.Product(nil), s.config.Products...),
		ActionPaths: make([]model.ActionPath, len(s.config.ActionPaths)),
	}
	for i, t := range s.config.Territories {
		out.Territories[i] = t
		out.Territories[i].Regions = append([]string(nil), t.Regions...)
	}
	for i, p := range s.config.ActionPaths {
		out.ActionPaths[i] = p.Clone()
	}
	return out
}

func (s *ActionPathStore) persist(config PathConfig, defaultPath *model.ActionPath) error {
	return s.adapter.Save(actionPathNamespace, actionPathSchemaVersion, actionPathSnapshot{
		Config:      config,
		DefaultPath: defaultPath,
	})
}

func removeString(values []string, target string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}

func removeByID[T any](items []T, id string, key func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if key(item) != id {
			out = append(out, item)
		}
	}
	return out
}
