// Package board implements the application core: the working copy of the
// currently displayed action list, its dirty tracking against the last
// saved baseline, and the drag-and-drop reordering state machine.
package board

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"salesboard/internal/model"
	"salesboard/internal/seed"
	"salesboard/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNoPathSelected is returned by SaveAsNew when no path is active.
	ErrNoPathSelected = errors.New("no action path selected")
	// ErrSaveInFlight guards against interleaved writes to the same path.
	ErrSaveInFlight = errors.New("a save for this path is already in flight")
)

// Controller owns one user's working copy of the board. Stores own the
// persisted collections; the working copy is discarded and reloaded whenever
// the selected path changes.
type Controller struct {
	mu    sync.Mutex
	paths *store.ActionPathStore
	user  model.User
	// email domain of the user; the tenant partition key for actions
	userDomain string
	log        *zap.Logger

	selectedPath string // "" means no path selected
	working      []model.SalesAction
	// last-saved working set for the no-path view, kept in memory only
	defaultWorking []model.SalesAction

	baseline      string
	lastSavedPath string
	dirty         bool

	savesInFlight map[string]bool
}

// NewController builds a controller for the given user and loads the
// ambient (no path selected) working set.
func NewController(paths *store.ActionPathStore, user model.User, log *zap.Logger) *Controller {
	c := &Controller{
		paths:         paths,
		user:          user,
		userDomain:    emailDomain(user.Email),
		log:           log,
		savesInFlight: make(map[string]bool),
	}
	c.mu.Lock()
	c.loadLocked("")
	c.mu.Unlock()
	return c
}

// SelectPath switches the active set to the given path, or to the ambient
// working set when pathID is empty. The working copy is replaced and the
// baseline snapshot reset, so the board starts clean.
func (c *Controller) SelectPath(pathID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked(pathID)
}

func (c *Controller) loadLocked(pathID string) {
	c.selectedPath = pathID
	if pathID != "" {
		path, ok := c.paths.Get(pathID)
		if ok {
			working := model.CloneActions(path.Actions)
			for i := range working {
				working[i].ActionPathID = pathID
			}
			c.working = working
		} else {
			c.working = nil
		}
	} else if c.defaultWorking != nil {
		c.working = model.CloneActions(c.defaultWorking)
	} else {
		working := seed.InitialActions()
		for i := range working {
			working[i].Account = c.userDomain
			working[i].ActionPathID = ""
		}
		c.working = working
	}
	c.baseline = normalize(c.working)
	c.dirty = false
}

// SelectedPath returns the active path id, empty when none is selected.
func (c *Controller) SelectedPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedPath
}

// Working returns a copy of the full working set, unfiltered.
func (c *Controller) Working() []model.SalesAction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.CloneActions(c.working)
}

// Visible returns the working set restricted to the user's account domain
// and, when a path is selected, to actions that are unparented or parented
// to that path. Unparented actions surfacing in any path view is deliberate.
func (c *Controller) Visible() []model.SalesAction {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.SalesAction, 0, len(c.working))
	for _, a := range c.working {
		if a.Account != c.userDomain {
			continue
		}
		if c.selectedPath != "" && a.ActionPathID != "" && a.ActionPathID != c.selectedPath {
			continue
		}
		out = append(out, a)
	}
	return model.CloneActions(out)
}

// HasUnsavedChanges reports whether the working set differs from the
// baseline AND the selected path is the one last saved into. Right after
// switching to a path that has never been saved this session, changes are
// not flagged until a save happens once.
func (c *Controller) HasUnsavedChanges() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// AddAction appends a new action to the working set in the given category,
// stamped with the user's domain and the selected path.
func (c *Controller) AddAction(template model.SalesAction, category model.Category) model.SalesAction {
	c.mu.Lock()
	defer c.mu.Unlock()

	action := template
	action.ID = uuid.NewString()
	action.Category = category
	action.TargetDate = time.Now().Format("2006-01-02")
	action.AssignedTo = ""
	action.Account = c.userDomain
	action.ActionPathID = c.selectedPath
	c.working = append(c.working, action)
	c.recomputeDirtyLocked()
	return action
}

// DeleteAction removes an action from the working set.
func (c *Controller) DeleteAction(actionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]model.SalesAction, 0, len(c.working))
	for _, a := range c.working {
		if a.ID != actionID {
			next = append(next, a)
		}
	}
	c.working = next
	c.recomputeDirtyLocked()
}

// SetAssignee points an action at an assignee email.
func (c *Controller) SetAssignee(actionID, assigneeEmail string) {
	c.mutateAction(actionID, func(a *model.SalesAction) {
		a.AssignedTo = assigneeEmail
	})
}

// SetTags replaces an action's tag references.
func (c *Controller) SetTags(actionID string, tags []string) {
	c.mutateAction(actionID, func(a *model.SalesAction) {
		a.Tags = append([]string(nil), tags...)
	})
}

// SetTargetDate replaces an action's target date.
func (c *Controller) SetTargetDate(actionID, date string) {
	c.mutateAction(actionID, func(a *model.SalesAction) {
		a.TargetDate = date
	})
}

func (c *Controller) mutateAction(actionID string, fn func(*model.SalesAction)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.working {
		if c.working[i].ID == actionID {
			fn(&c.working[i])
			break
		}
	}
	c.recomputeDirtyLocked()
}

// Save merges the working set back into the selected path, or stores it as
// the in-memory ambient working set when no path is selected. A second save
// for the same path while one is outstanding is refused.
func (c *Controller) Save() error {
	c.mu.Lock()
	pathID := c.selectedPath
	if c.savesInFlight[pathID] {
		c.mu.Unlock()
		return ErrSaveInFlight
	}
	c.savesInFlight[pathID] = true
	working := model.CloneActions(c.working)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.savesInFlight, pathID)
		c.mu.Unlock()
	}()

	if pathID != "" {
		if _, ok := c.paths.Get(pathID); !ok {
			return nil
		}
		stamped := model.CloneActions(working)
		for i := range stamped {
			stamped[i].ActionPathID = pathID
		}
		if err := c.paths.Update(pathID, model.ActionPathPatch{Actions: &stamped}); err != nil {
			c.log.Error("failed to save action path", zap.String("path_id", pathID), zap.Error(err))
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if pathID == "" {
		c.defaultWorking = model.CloneActions(c.working)
	}
	c.baseline = normalize(c.working)
	c.lastSavedPath = pathID
	c.dirty = false
	return nil
}

// SaveAsNew forks the selected path: same metadata, fresh path id, name
// suffixed with " (Copy)", every action re-idded and unparented. The fork is
// appended to the collection and becomes the active selection; the original
// path is untouched.
func (c *Controller) SaveAsNew() (model.ActionPath, error) {
	c.mu.Lock()
	pathID := c.selectedPath
	working := model.CloneActions(c.working)
	c.mu.Unlock()

	if pathID == "" {
		return model.ActionPath{}, ErrNoPathSelected
	}
	current, ok := c.paths.Get(pathID)
	if !ok {
		return model.ActionPath{}, ErrNoPathSelected
	}

	actions := model.CloneActions(working)
	for i := range actions {
		actions[i].ID = uuid.NewString()
		actions[i].ActionPathID = ""
	}
	fork := model.ActionPath{
		ID:               uuid.NewString(),
		Name:             current.Name + " (Copy)",
		DealSize:         current.DealSize,
		Territories:      append([]string(nil), current.Territories...),
		Products:         append([]string(nil), current.Products...),
		SalesCycleDays:   current.SalesCycleDays,
		EstimatedValue:   current.EstimatedValue,
		ConfidenceFactor: current.ConfidenceFactor,
		Actions:          actions,
		CompanyID:        current.CompanyID,
	}
	if err := c.paths.Add(fork); err != nil {
		return model.ActionPath{}, err
	}

	c.mu.Lock()
	c.loadLocked(fork.ID)
	c.mu.Unlock()
	return fork, nil
}

// recomputeDirtyLocked runs synchronously inside every mutation so the flag
// is never stale at the next decision point.
func (c *Controller) recomputeDirtyLocked() {
	if len(c.working) == 0 {
		c.dirty = false
		return
	}
	c.dirty = c.selectedPath == c.lastSavedPath && normalize(c.working) != c.baseline
}

// normalize serializes actions for comparison with the path parent stripped,
// so stamping an action into a path does not by itself read as a change.
func normalize(actions []model.SalesAction) string {
	stripped := model.CloneActions(actions)
	for i := range stripped {
		stripped[i].ActionPathID = ""
	}
	data, err := json.Marshal(stripped)
	if err != nil {
		return ""
	}
	return string(data)
}

func emailDomain(email string) string {
	if at := strings.LastIndex(email, "@"); at >= 0 {
		return email[at+1:]
	}
	return ""
}
