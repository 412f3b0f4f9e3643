package board

import (
	"math"

	"salesboard/internal/model"
)

// ActivationDistance is how far the pointer must travel from pointer-down
// before a drag starts. Keeps plain clicks from becoming drags.
const ActivationDistance = 8.0

// DragPhase is the state of a drag gesture.
type DragPhase int

const (
	// PhaseIdle: no pointer interaction in progress.
	PhaseIdle DragPhase = iota
	// PhasePending: pointer is down on a card but has not traveled far
	// enough to start a drag.
	PhasePending
	// PhaseDragging: the card is being dragged.
	PhaseDragging
)

// Point is a pointer position.
type Point struct {
	X float64
	Y float64
}

func (p Point) distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Gesture tracks one drag gesture through Idle -> Pending -> Dragging and
// back. It only decides whether a drag is active; the category and order
// effects live on the Controller.
type Gesture struct {
	phase    DragPhase
	actionID string
	origin   Point
}

// Phase returns the current gesture phase.
func (g *Gesture) Phase() DragPhase {
	return g.phase
}

// PointerDown arms the gesture on a card.
func (g *Gesture) PointerDown(actionID string, at Point) {
	g.phase = PhasePending
	g.actionID = actionID
	g.origin = at
}

// PointerMove activates the drag once the pointer has traveled the
// activation distance. It reports whether the gesture is now dragging.
func (g *Gesture) PointerMove(at Point) bool {
	switch g.phase {
	case PhasePending:
		if g.origin.distance(at) >= ActivationDistance {
			g.phase = PhaseDragging
		}
	case PhaseDragging:
		// stays dragging until release
	}
	return g.phase == PhaseDragging
}

// Active returns the dragged card id while a drag is in progress.
func (g *Gesture) Active() (string, bool) {
	if g.phase != PhaseDragging {
		return "", false
	}
	return g.actionID, true
}

// Release ends the gesture and reports whether a drag had activated. A
// pending gesture released before the activation distance is a plain click.
func (g *Gesture) Release() bool {
	wasDragging := g.phase == PhaseDragging
	g.phase = PhaseIdle
	g.actionID = ""
	return wasDragging
}

// DragOverStage handles the dragged card hovering a stage container. The
// category is reassigned eagerly so the user sees where the card will land;
// a later cancel does not roll this back.
func (c *Controller) DragOverStage(actionID string, stage model.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(actionID)
	if idx < 0 || c.working[idx].Category == stage {
		return
	}
	c.working[idx].Category = stage
	c.recomputeDirtyLocked()
}

// DragOverCard handles the dragged card hovering another card. Same
// category: nothing happens here, ordering resolves at drop. Different
// category: hovering a foreign-column card behaves like hovering its column.
func (c *Controller) DragOverCard(actionID, overID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := c.indexOf(actionID)
	over := c.indexOf(overID)
	if active < 0 || over < 0 {
		return
	}
	if c.working[active].Category == c.working[over].Category {
		return
	}
	c.working[active].Category = c.working[over].Category
	c.recomputeDirtyLocked()
}

// DragEnd resolves the drop. An empty overID means the gesture was released
// off any valid target and is abandoned without mutation. When dragged and
// dropped-on cards share a category, the dragged card moves to the
// dropped-on card's position with a stable array move. Differing categories
// at drop time should not occur after the over-event reassignments and are
// defensively a no-op.
func (c *Controller) DragEnd(actionID, overID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if overID == "" {
		return
	}
	active := c.indexOf(actionID)
	over := c.indexOf(overID)
	if active < 0 || over < 0 {
		return
	}
	if c.working[active].Category != c.working[over].Category {
		return
	}
	c.working = arrayMove(c.working, active, over)
	c.recomputeDirtyLocked()
}

func (c *Controller) indexOf(actionID string) int {
	for i := range c.working {
		if c.working[i].ID == actionID {
			return i
		}
	}
	return -1
}

// arrayMove removes the element at from and reinserts it at to, preserving
// the relative order of everything else.
func arrayMove(actions []model.SalesAction, from, to int) []model.SalesAction {
	if from == to || from < 0 || to < 0 || from >= len(actions) || to >= len(actions) {
		return actions
	}
	out := make([]model.SalesAction, 0, len(actions))
	out = append(out, actions[:from]...)
	out = append(out, actions[from+1:]...)
	moved := actions[from]
	out = append(out[:to], append([]model.SalesAction{moved}, out[to:]...)...)
	return out
}
