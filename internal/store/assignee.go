package store

import (
	"encoding/csv"
	"strings"
	"sync"

	"salesboard/internal/model"
	"salesboard/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	assigneeNamespace     = "assignee-storage"
	assigneeSchemaVersion = 1
)

type assigneeSnapshot struct {
	Assignees []model.Assignee `json:"assignees"`
}

// AssigneeStore is the per-company roster of people an action can be
// assigned to. (Email, CompanyID) is unique across the whole roster.
type AssigneeStore struct {
	mu        sync.RWMutex
	adapter   storage.Adapter
	assignees []model.Assignee
	log       *zap.Logger
}

// NewAssigneeStore loads the persisted roster, starting empty when no
// snapshot with the current schema version exists.
func NewAssigneeStore(adapter storage.Adapter, log *zap.Logger) (*AssigneeStore, error) {
	s := &AssigneeStore{adapter: adapter, log: log}
	var snap assigneeSnapshot
	found, err := adapter.Load(assigneeNamespace, assigneeSchemaVersion, &snap)
	if err != nil {
		return nil, err
	}
	if found {
		s.assignees = snap.Assignees
	}
	return s, nil
}

// Add appends an assignee with a fresh id. An (email, company) pair already
// present is rejected.
func (s *AssigneeStore) Add(a model.Assignee) (model.Assignee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exists(a.Email, a.CompanyID) {
		s.log.Warn("assignee already exists",
			zap.String("email", a.Email),
			zap.String("company_id", a.CompanyID))
		return model.Assignee{}, ErrDuplicateAssignee
	}

	a.ID = uuid.NewString()
	next := append(append([]model.Assignee(nil), s.assignees...), a)
	if err := s.persist(next); err != nil {
		return model.Assignee{}, err
	}
	s.assignees = next
	return a, nil
}

// Update merges the patch into the assignee with the given id. Unknown ids
// are a no-op.
func (s *AssigneeStore) Update(id string, patch model.AssigneePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, a := range s.assignees {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	next := append([]model.Assignee(nil), s.assignees...)
	patch.Apply(&next[idx])
	if err := s.persist(next); err != nil {
		return err
	}
	s.assignees = next
	return nil
}

// Remove deletes the assignee with the given id. Unknown ids are a no-op.
func (s *AssigneeStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Assignee, 0, len(s.assignees))
	for _, a := range s.assignees {
		if a.ID != id {
			next = append(next, a)
		}
	}
	if len(next) == len(s.assignees) {
		return nil
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.assignees = next
	return nil
}

// ByCompany returns the company's assignees.
func (s *AssigneeStore) ByCompany(companyID string) []model.Assignee {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Assignee, 0)
	for _, a := range s.assignees {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	return out
}

// ImportCSV bulk-creates assignees from CSV text. The first line is a
// case-insensitive header naming any subset of "first name", "last name",
// "email", "image url" in any order; unrecognized columns are ignored. Rows
// missing a first name, last name, or email are dropped, as are rows whose
// (email, company) pair already exists in the roster. Rows are only ever
// inserted whole or skipped, never partially merged. Duplicates within the
// same file are not deduplicated against each other.
//
// Malformed input yields zero imported rows, not an error; the caller
// decides whether "0 imported" is worth reporting.
func (s *AssigneeStore) ImportCSV(content, companyID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil || len(records) < 2 {
		return 0, nil
	}

	header := records[0]
	firstIdx, lastIdx, emailIdx, imageIdx := -1, -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "first name":
			firstIdx = i
		case "last name":
			lastIdx = i
		case "email":
			emailIdx = i
		case "image url":
			imageIdx = i
		}
	}

	field := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var incoming []model.Assignee
	for _, row := range records[1:] {
		candidate := model.Assignee{
			FirstName: field(row, firstIdx),
			LastName:  field(row, lastIdx),
			Email:     field(row, emailIdx),
			ImageURL:  field(row, imageIdx),
			CompanyID: companyID,
		}
		if candidate.FirstName == "" || candidate.LastName == "" || candidate.Email == "" {
			continue
		}
		if s.exists(candidate.Email, companyID) {
			continue
		}
		candidate.ID = uuid.NewString()
		incoming = append(incoming, candidate)
	}

	if len(incoming) == 0 {
		return 0, nil
	}

	next := append(append([]model.Assignee(nil), s.assignees...), incoming...)
	if err := s.persist(next); err != nil {
		return 0, err
	}
	s.assignees = next
	s.log.Info("assignees imported from CSV",
		zap.Int("imported", len(incoming)),
		zap.String("company_id", companyID))
	return len(incoming), nil
}

func (s *AssigneeStore) exists(email, companyID string) bool {
	for _, a := range s.assignees {
		if a.Email == email && a.CompanyID == companyID {
			return true
		}
	}
	return false
}

func (s *AssigneeStore) persist(assignees []model.Assignee) error {
	return s.adapter.Save(assigneeNamespace, assigneeSchemaVersion, assigneeSnapshot{Assignees: assignees})
}
