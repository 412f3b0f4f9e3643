package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"salesboard/internal/board"
	"salesboard/internal/model"
	"salesboard/internal/seed"
	"salesboard/internal/store"
	"salesboard/pkg/storage"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type boardFixture struct {
	e       *echo.Echo
	handler *BoardHandler
	paths   *store.ActionPathStore
}

func newBoardFixture(t *testing.T) *boardFixture {
	t.Helper()
	adapter := storage.NewMemory()
	auth, err := store.NewAuthStore(adapter, "123", zap.NewNop())
	if err != nil {
		t.Fatalf("NewAuthStore: %v", err)
	}
	paths, err := store.NewActionPathStore(adapter, zap.NewNop())
	if err != nil {
		t.Fatalf("NewActionPathStore: %v", err)
	}
	sessions := board.NewSessions(paths, zap.NewNop())
	return &boardFixture{
		e:       echo.New(),
		handler: NewBoardHandler(auth, sessions),
		paths:   paths,
	}
}

// call runs a board handler as the seeded super admin.
func (f *boardFixture) call(t *testing.T, h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, rec := postJSON(target, body)
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	}
	c := f.e.NewContext(req, rec)
	c.Set("email", seed.SuperAdminEmail)
	if err := h(c); err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	return rec
}

type boardState struct {
	SelectedPath      string              `json:"selected_path"`
	Actions           []model.SalesAction `json:"actions"`
	HasUnsavedChanges bool                `json:"has_unsaved_changes"`
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) boardState {
	t.Helper()
	var state boardState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return state
}

func TestBoardHandlerState(t *testing.T) {
	f := newBoardFixture(t)

	rec := f.call(t, f.handler.State, http.MethodGet, "/api/board", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	state := decodeState(t, rec)
	if state.SelectedPath != "" {
		t.Errorf("selected path = %q, want none", state.SelectedPath)
	}
	if len(state.Actions) != 5 {
		t.Errorf("actions = %d, want the 5 starter actions", len(state.Actions))
	}
	if state.HasUnsavedChanges {
		t.Error("fresh board reads dirty")
	}

	t.Run("unknown user gets 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/board", nil)
		rec := httptest.NewRecorder()
		c := f.e.NewContext(req, rec)
		c.Set("email", "nobody@7salessteps.com")
		if err := f.handler.State(c); err != nil {
			t.Fatalf("State: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestBoardHandlerDrag(t *testing.T) {
	f := newBoardFixture(t)

	rec := f.call(t, f.handler.DragOver, http.MethodPost, "/api/board/drag-over",
		`{"action_id":"t1","stage":"INFLUENCE"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	state := decodeState(t, rec)
	if !state.HasUnsavedChanges {
		t.Error("expected dirty after a stage hover")
	}
	for _, a := range state.Actions {
		if a.ID == "t1" && a.Category != model.CategoryInfluence {
			t.Errorf("t1 category = %q, want INFLUENCE", a.Category)
		}
	}

	rec = f.call(t, f.handler.DragEnd, http.MethodPost, "/api/board/drag-end",
		`{"action_id":"t1","over_id":"i1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	t.Run("unknown stage gets 400", func(t *testing.T) {
		rec := f.call(t, f.handler.DragOver, http.MethodPost, "/api/board/drag-over",
			`{"action_id":"t1","stage":"NOWHERE"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("neither stage nor over_id gets 400", func(t *testing.T) {
		rec := f.call(t, f.handler.DragOver, http.MethodPost, "/api/board/drag-over",
			`{"action_id":"t1"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestBoardHandlerSaveFlow(t *testing.T) {
	f := newBoardFixture(t)
	if err := f.paths.Add(model.ActionPath{
		ID:       "path-1",
		Name:     "Enterprise Flow",
		DealSize: model.DealEnterprise,
		Actions: []model.SalesAction{
			{ID: "e1", Title: "Qualify", Category: model.CategoryTarget, Account: seed.CompanyDomain},
		},
		CompanyID: seed.CompanyID,
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	rec := f.call(t, f.handler.Select, http.MethodPost, "/api/board/select", `{"path_id":"path-1"}`)
	if state := decodeState(t, rec); state.SelectedPath != "path-1" {
		t.Fatalf("selected path = %q, want path-1", state.SelectedPath)
	}

	rec = f.call(t, f.handler.AddAction, http.MethodPost, "/api/board/actions",
		`{"title":"Security review","category":"COMMIT"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}

	rec = f.call(t, f.handler.Save, http.MethodPost, "/api/board/save", "{}")
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body %s", rec.Code, rec.Body.String())
	}

	saved, _ := f.paths.Get("path-1")
	if len(saved.Actions) != 2 {
		t.Errorf("stored actions = %d, want 2", len(saved.Actions))
	}

	t.Run("save-as-new forks the selection", func(t *testing.T) {
		rec := f.call(t, f.handler.SaveAsNew, http.MethodPost, "/api/board/save-as-new", "{}")
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			ActionPath model.ActionPath `json:"action_path"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.ActionPath.Name != "Enterprise Flow (Copy)" {
			t.Errorf("fork name = %q", resp.ActionPath.Name)
		}
		if _, ok := f.paths.Get(resp.ActionPath.ID); !ok {
			t.Error("fork not in the store")
		}
	})

	t.Run("save-as-new without a selection gets 400", func(t *testing.T) {
		f.call(t, f.handler.Select, http.MethodPost, "/api/board/select", `{"path_id":""}`)
		rec := f.call(t, f.handler.SaveAsNew, http.MethodPost, "/api/board/save-as-new", "{}")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("bad category gets 400", func(t *testing.T) {
		rec := f.call(t, f.handler.AddAction, http.MethodPost, "/api/board/actions",
			`{"title":"x","category":"UNKNOWN"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
