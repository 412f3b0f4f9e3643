package store

import (
	"errors"
	"testing"

	"salesboard/internal/model"
	"salesboard/pkg/storage"

	"go.uber.org/zap"
)

func newAssigneeStore(t *testing.T) *AssigneeStore {
	t.Helper()
	s, err := NewAssigneeStore(storage.NewMemory(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewAssigneeStore: %v", err)
	}
	return s
}

func TestAssigneeStoreAdd(t *testing.T) {
	t.Run("assigns a fresh id", func(t *testing.T) {
		s := newAssigneeStore(t)
		a, err := s.Add(model.Assignee{FirstName: "Ana", LastName: "Lee", Email: "ana@x.com", CompanyID: "company-a"})
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if a.ID == "" {
			t.Error("expected a generated id")
		}
	})

	t.Run("rejects duplicate email within company", func(t *testing.T) {
		s := newAssigneeStore(t)
		if _, err := s.Add(model.Assignee{FirstName: "Ana", LastName: "Lee", Email: "ana@x.com", CompanyID: "company-a"}); err != nil {
			t.Fatalf("Add: %v", err)
		}
		if _, err := s.Add(model.Assignee{FirstName: "Other", LastName: "Name", Email: "ana@x.com", CompanyID: "company-a"}); !errors.Is(err, ErrDuplicateAssignee) {
			t.Errorf("err = %v, want ErrDuplicateAssignee", err)
		}
	})

	t.Run("same email in another company is allowed", func(t *testing.T) {
		s := newAssigneeStore(t)
		if _, err := s.Add(model.Assignee{FirstName: "Ana", LastName: "Lee", Email: "ana@x.com", CompanyID: "company-a"}); err != nil {
			t.Fatalf("Add: %v", err)
		}
		if _, err := s.Add(model.Assignee{FirstName: "Ana", LastName: "Lee", Email: "ana@x.com", CompanyID: "company-b"}); err != nil {
			t.Errorf("Add in other company: %v", err)
		}
	})
}

func TestAssigneeStoreImportCSV(t *testing.T) {
	t.Run("imports well-formed rows", func(t *testing.T) {
		s := newAssigneeStore(t)
		csv := "first name,last name,email,image url\n" +
			"Ana,Lee,ana@x.com,\n" +
			"Bob,Roy,bob@x.com,https://img.example/bob.png\n"
		n, err := s.ImportCSV(csv, "company-a")
		if err != nil {
			t.Fatalf("ImportCSV: %v", err)
		}
		if n != 2 {
			t.Errorf("imported = %d, want 2", n)
		}
		roster := s.ByCompany("company-a")
		if len(roster) != 2 {
			t.Fatalf("roster size = %d, want 2", len(roster))
		}
		for _, a := range roster {
			if a.ID == "" {
				t.Errorf("assignee %s has no id", a.Email)
			}
		}
	})

	t.Run("header columns may appear in any order and case", func(t *testing.T) {
		s := newAssigneeStore(t)
		csv := "EMAIL,Last Name,unused,First Name\n" +
			"ana@x.com,Lee,ignored,Ana\n"
		n, err := s.ImportCSV(csv, "company-a")
		if err != nil {
			t.Fatalf("ImportCSV: %v", err)
		}
		if n != 1 {
			t.Fatalf("imported = %d, want 1", n)
		}
		got := s.ByCompany("company-a")[0]
		if got.FirstName != "Ana" || got.LastName != "Lee" || got.Email != "ana@x.com" {
			t.Errorf("imported assignee = %+v", got)
		}
	})

	t.Run("drops incomplete rows", func(t *testing.T) {
		s := newAssigneeStore(t)
		csv := "first name,last name,email\n" +
			"Ana,,ana@x.com\n" +
			",Lee,lee@x.com\n" +
			"Bob,Roy,\n" +
			"Cam,Diaz,cam@x.com\n"
		n, err := s.ImportCSV(csv, "company-a")
		if err != nil {
			t.Fatalf("ImportCSV: %v", err)
		}
		if n != 1 {
			t.Errorf("imported = %d, want only the complete row", n)
		}
	})

	t.Run("skips rows already in the roster", func(t *testing.T) {
		s := newAssigneeStore(t)
		if _, err := s.Add(model.Assignee{FirstName: "Ana", LastName: "Lee", Email: "ana@x.com", CompanyID: "company-a"}); err != nil {
			t.Fatalf("Add: %v", err)
		}
		csv := "first name,last name,email\n" +
			"Ana,Lee,ana@x.com\n" +
			"Bob,Roy,bob@x.com\n"
		n, err := s.ImportCSV(csv, "company-a")
		if err != nil {
			t.Fatalf("ImportCSV: %v", err)
		}
		if n != 1 {
			t.Errorf("imported = %d, want 1", n)
		}
	})

	t.Run("second import of the same file imports nothing", func(t *testing.T) {
		s := newAssigneeStore(t)
		csv := "first name,last name,email\nAna,Lee,ana@x.com\n"
		if n, _ := s.ImportCSV(csv, "company-a"); n != 1 {
			t.Fatalf("first import = %d, want 1", n)
		}
		if n, _ := s.ImportCSV(csv, "company-a"); n != 0 {
			t.Errorf("second import = %d, want 0", n)
		}
	})

	t.Run("duplicates within one file are not deduplicated", func(t *testing.T) {
		s := newAssigneeStore(t)
		csv := "first name,last name,email\n" +
			"Ana,Lee,ana@x.com\n" +
			"Ana,Lee,ana@x.com\n"
		n, err := s.ImportCSV(csv, "company-a")
		if err != nil {
			t.Fatalf("ImportCSV: %v", err)
		}
		if n != 2 {
			t.Errorf("imported = %d, want 2 (intra-file duplicates pass through)", n)
		}
	})

	t.Run("malformed input imports zero rows without error", func(t *testing.T) {
		s := newAssigneeStore(t)
		for _, input := range []string{"", "first name,last name,email", "\"unterminated\nAna,Lee,ana@x.com"} {
			n, err := s.ImportCSV(input, "company-a")
			if err != nil {
				t.Errorf("ImportCSV(%q): %v", input, err)
			}
			if n != 0 {
				t.Errorf("ImportCSV(%q) = %d, want 0", input, n)
			}
		}
	})
}
