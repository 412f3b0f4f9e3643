package board

import (
	"sort"
	"testing"

	"salesboard/internal/model"
)

func TestGesture(t *testing.T) {
	t.Run("starts idle", func(t *testing.T) {
		var g Gesture
		if g.Phase() != PhaseIdle {
			t.Errorf("phase = %v, want idle", g.Phase())
		}
		if _, ok := g.Active(); ok {
			t.Error("idle gesture reports an active card")
		}
	})

	t.Run("pointer down arms but does not drag", func(t *testing.T) {
		var g Gesture
		g.PointerDown("t1", Point{X: 10, Y: 10})
		if g.Phase() != PhasePending {
			t.Errorf("phase = %v, want pending", g.Phase())
		}
		if _, ok := g.Active(); ok {
			t.Error("pending gesture reports an active card")
		}
	})

	t.Run("short movement stays pending", func(t *testing.T) {
		var g Gesture
		g.PointerDown("t1", Point{X: 10, Y: 10})
		if g.PointerMove(Point{X: 14, Y: 14}) {
			t.Error("drag activated inside the activation distance")
		}
		if g.Phase() != PhasePending {
			t.Errorf("phase = %v, want pending", g.Phase())
		}
	})

	t.Run("crossing the activation distance starts the drag", func(t *testing.T) {
		var g Gesture
		g.PointerDown("t1", Point{X: 10, Y: 10})
		if !g.PointerMove(Point{X: 10, Y: 18}) {
			t.Error("drag did not activate at the activation distance")
		}
		id, ok := g.Active()
		if !ok || id != "t1" {
			t.Errorf("active = %q %v, want t1 true", id, ok)
		}
	})

	t.Run("release reports whether a drag happened", func(t *testing.T) {
		var g Gesture
		g.PointerDown("t1", Point{X: 10, Y: 10})
		if g.Release() {
			t.Error("plain click reported as a drag")
		}

		g.PointerDown("t1", Point{X: 10, Y: 10})
		g.PointerMove(Point{X: 30, Y: 30})
		if !g.Release() {
			t.Error("completed drag reported as a click")
		}
		if g.Phase() != PhaseIdle {
			t.Errorf("phase after release = %v, want idle", g.Phase())
		}
	})
}

func TestDragOverStage(t *testing.T) {
	t.Run("reassigns the category eagerly", func(t *testing.T) {
		c := newController(t, newPathStore(t))
		c.DragOverStage("t1", model.CategoryInfluence)

		for _, a := range c.Visible() {
			if a.ID == "t1" && a.Category != model.CategoryInfluence {
				t.Errorf("t1 category = %q, want INFLUENCE", a.Category)
			}
		}
		if !c.HasUnsavedChanges() {
			t.Error("expected dirty after a category move")
		}
	})

	t.Run("same category is a no-op", func(t *testing.T) {
		c := newController(t, newPathStore(t))
		c.DragOverStage("t1", model.CategoryTarget)
		if c.HasUnsavedChanges() {
			t.Error("no-op hover marked the board dirty")
		}
	})

	t.Run("abandoning the drop does not roll the move back", func(t *testing.T) {
		c := newController(t, newPathStore(t))
		c.DragOverStage("t1", model.CategoryInfluence)
		c.DragEnd("t1", "")

		for _, a := range c.Visible() {
			if a.ID == "t1" && a.Category != model.CategoryInfluence {
				t.Error("category reverted after an abandoned drop")
			}
		}
	})
}

func TestDragOverCard(t *testing.T) {
	t.Run("foreign-column card adopts its category", func(t *testing.T) {
		c := newController(t, newPathStore(t))
		c.DragOverCard("t1", "i1")

		for _, a := range c.Visible() {
			if a.ID == "t1" && a.Category != model.CategoryInfluence {
				t.Errorf("t1 category = %q, want INFLUENCE", a.Category)
			}
		}
	})

	t.Run("same-column card changes nothing before the drop", func(t *testing.T) {
		c := newController(t, newPathStore(t))
		before := visibleIDs(c)
		c.DragOverCard("t1", "t2")
		after := visibleIDs(c)
		for i := range before {
			if before[i] != after[i] {
				t.Fatalf("order changed on hover: %v -> %v", before, after)
			}
		}
		if c.HasUnsavedChanges() {
			t.Error("same-column hover marked the board dirty")
		}
	})

	t.Run("unknown ids are ignored", func(t *testing.T) {
		c := newController(t, newPathStore(t))
		c.DragOverCard("t1", "missing")
		c.DragOverCard("missing", "t1")
		if c.HasUnsavedChanges() {
			t.Error("hover with unknown id mutated the board")
		}
	})
}

func TestDragEnd(t *testing.T) {
	t.Run("same-category drop reorders within the column", func(t *testing.T) {
		c := newController(t, newPathStore(t))
		c.DragEnd("t1", "t2")

		ids := visibleIDs(c)
		if ids[0] != "t2" || ids[1] != "t1" {
			t.Errorf("order = %v, want t2 before t1", ids[:2])
		}
		if !c.HasUnsavedChanges() {
			t.Error("expected dirty after a reorder")
		}
	})

	t.Run("reorder preserves the action multiset", func(t *testing.T) {
		c := newController(t, newPathStore(t))
		before := visibleIDs(c)
		c.DragEnd("t1", "t2")
		c.DragEnd("c1", "s1")
		after := visibleIDs(c)

		sort.Strings(before)
		sort.Strings(after)
		if len(before) != len(after) {
			t.Fatalf("action count changed: %d -> %d", len(before), len(after))
		}
		for i := range before {
			if before[i] != after[i] {
				t.Fatalf("multiset changed: %v vs %v", before, after)
			}
		}
	})

	t.Run("cross-category drop is a no-op", func(t *testing.T) {
		c := newController(t, newPathStore(t))
		before := visibleIDs(c)
		c.DragEnd("t1", "i1")
		after := visibleIDs(c)
		for i := range before {
			if before[i] != after[i] {
				t.Fatalf("cross-category drop mutated order: %v -> %v", before, after)
			}
		}
	})

	t.Run("stage hover then drop on a card in that column", func(t *testing.T) {
		c := newController(t, newPathStore(t))
		c.DragOverStage("t1", model.CategoryInfluence)
		c.DragEnd("t1", "i1")

		ids := visibleIDs(c)
		posT1, posI1 := -1, -1
		for i, id := range ids {
			switch id {
			case "t1":
				posT1 = i
			case "i1":
				posI1 = i
			}
		}
		if posT1 < 0 || posI1 < 0 {
			t.Fatalf("actions missing from the board: %v", ids)
		}
		if posT1 != posI1+1 {
			t.Errorf("t1 did not land in i1's slot: %v", ids)
		}
	})
}

func TestArrayMove(t *testing.T) {
	build := func(ids ...string) []model.SalesAction {
		out := make([]model.SalesAction, len(ids))
		for i, id := range ids {
			out[i] = model.SalesAction{ID: id}
		}
		return out
	}
	ids := func(actions []model.SalesAction) []string {
		out := make([]string, len(actions))
		for i, a := range actions {
			out[i] = a.ID
		}
		return out
	}

	cases := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"b", "c", "a", "d"}},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}},
		{"same index", 2, 2, []string{"a", "b", "c", "d"}},
		{"out of range", 0, 9, []string{"a", "b", "c", "d"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(arrayMove(build("a", "b", "c", "d"), tc.from, tc.to))
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("arrayMove(%d, %d) = %v, want %v", tc.from, tc.to, got, tc.want)
				}
			}
		})
	}
}
