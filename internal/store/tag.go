// Package store holds the normalized in-memory domain stores. Each store is
// an explicit service object constructed once at startup, persists its whole
// state as one namespaced snapshot after every successful mutation, and
// keeps state untouched when an operation fails.
package store

import (
	"strings"
	"sync"

	"salesboard/internal/model"
	"salesboard/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	tagNamespace     = "tag-storage"
	tagSchemaVersion = 1
)

type tagSnapshot struct {
	Tags []model.Tag `json:"tags"`
}

// TagStore maps labels to colors per company. Tag names are unique
// case-insensitively within a company.
type TagStore struct {
	mu      sync.RWMutex
	adapter storage.Adapter
	tags    []model.Tag
	log     *zap.Logger
}

// NewTagStore loads the persisted tag table, starting empty when no snapshot
// with the current schema version exists.
func NewTagStore(adapter storage.Adapter, log *zap.Logger) (*TagStore, error) {
	s := &TagStore{adapter: adapter, log: log}
	var snap tagSnapshot
	found, err := adapter.Load(tagNamespace, tagSchemaVersion, &snap)
	if err != nil {
		return nil, err
	}
	if found {
		s.tags = snap.Tags
	}
	return s, nil
}

// Add creates a tag. Duplicate names within the company are rejected.
func (s *TagStore) Add(name, color, companyID string) (model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" || color == "" {
		return model.Tag{}, ErrInvalidTag
	}
	for _, t := range s.tags {
		if t.CompanyID == companyID && strings.EqualFold(t.Name, name) {
			s.log.Warn("tag name collision", zap.String("name", name), zap.String("company_id", companyID))
			return model.Tag{}, ErrDuplicateTag
		}
	}

	tag := model.Tag{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		CompanyID: companyID,
	}
	next := append(append([]model.Tag(nil), s.tags...), tag)
	if err := s.persist(next); err != nil {
		return model.Tag{}, err
	}
	s.tags = next
	return tag, nil
}

// Update merges the patch into the tag with the given id. Renaming onto an
// existing name in the same company is rejected; an unknown id is a no-op.
func (s *TagStore) Update(id string, patch model.TagPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, t := range s.tags {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	if patch.Name != nil {
		for _, t := range s.tags {
			if t.ID != id && t.CompanyID == s.tags[idx].CompanyID && strings.EqualFold(t.Name, *patch.Name) {
				return ErrDuplicateTag
			}
		}
	}

	next := append([]model.Tag(nil), s.tags...)
	patch.Apply(&next[idx])
	if err := s.persist(next); err != nil {
		return err
	}
	s.tags = next
	return nil
}

// Remove deletes the tag with the given id. Unknown ids are a no-op.
func (s *TagStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		if t.ID != id {
			next = append(next, t)
		}
	}
	if len(next) == len(s.tags) {
		return nil
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.tags = next
	return nil
}

// ByCompany returns the company's tags.
func (s *TagStore) ByCompany(companyID string) []model.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Tag, 0)
	for _, t := range s.tags {
		if t.CompanyID == companyID {
			out = append(out, t)
		}
	}
	return out
}

func (s *TagStore) persist(tags []model.Tag) error {
	return s.adapter.Save(tagNamespace, tagSchemaVersion, tagSnapshot{Tags: tags})
}
