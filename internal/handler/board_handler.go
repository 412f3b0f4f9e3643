package handler

import (
	"errors"
	"net/http"

	"salesboard/internal/board"
	"salesboard/internal/model"
	"salesboard/internal/store"
	"salesboard/pkg/logger"
	"salesboard/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BoardHandler serves one user's board session: the working copy, its
// mutations, the drag events, and save.
type BoardHandler struct {
	Auth     *store.AuthStore
	Sessions *board.Sessions
}

// NewBoardHandler wires the handler to the auth store and session registry.
func NewBoardHandler(auth *store.AuthStore, sessions *board.Sessions) *BoardHandler {
	return &BoardHandler{Auth: auth, Sessions: sessions}
}

func (h *BoardHandler) controller(c echo.Context) (*board.Controller, error) {
	email, _ := c.Get("email").(string)
	user, ok := h.Auth.UserByEmail(email)
	if !ok {
		return nil, errors.New("user not found")
	}
	return h.Sessions.Get(user), nil
}

// State returns the visible board, the selection, and the dirty flag.
func (h *BoardHandler) State(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"selected_path":       ctrl.SelectedPath(),
		"actions":             ctrl.Visible(),
		"has_unsaved_changes": ctrl.HasUnsavedChanges(),
	})
}

// Select switches the active path; empty path_id selects the ambient set.
// The working copy is discarded and reloaded.
func (h *BoardHandler) Select(c echo.Context) error {
	prometheus.RecordBoardOperation("select")

	var req struct {
		PathID string `json:"path_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctrl, err := h.controller(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	ctrl.SelectPath(req.PathID)
	return c.JSON(http.StatusOK, echo.Map{
		"selected_path":       ctrl.SelectedPath(),
		"actions":             ctrl.Visible(),
		"has_unsaved_changes": ctrl.HasUnsavedChanges(),
	})
}

// AddAction appends an action to the working set.
func (h *BoardHandler) AddAction(c echo.Context) error {
	prometheus.RecordBoardOperation("add_action")

	var req struct {
		Title       string         `json:"title"`
		Description string         `json:"description"`
		Category    model.Category `json:"category"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if !req.Category.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
	}

	ctrl, err := h.controller(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	action := ctrl.AddAction(model.SalesAction{Title: req.Title, Description: req.Description}, req.Category)
	return c.JSON(http.StatusCreated, echo.Map{"action": action})
}

// DeleteAction removes an action from the working set.
func (h *BoardHandler) DeleteAction(c echo.Context) error {
	prometheus.RecordBoardOperation("delete_action")

	ctrl, err := h.controller(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	ctrl.DeleteAction(c.Param("id"))
	return c.JSON(http.StatusOK, echo.Map{"has_unsaved_changes": ctrl.HasUnsavedChanges()})
}

// SetAssignee points an action at an assignee.
func (h *BoardHandler) SetAssignee(c echo.Context) error {
	prometheus.RecordBoardOperation("set_assignee")

	var req struct {
		AssignedTo string `json:"assigned_to"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctrl, err := h.controller(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	ctrl.SetAssignee(c.Param("id"), req.AssignedTo)
	return c.JSON(http.StatusOK, echo.Map{"has_unsaved_changes": ctrl.HasUnsavedChanges()})
}

// SetTags replaces an action's tag references.
func (h *BoardHandler) SetTags(c echo.Context) error {
	prometheus.RecordBoardOperation("set_tags")

	var req struct {
		Tags []string `json:"tags"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctrl, err := h.controller(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	ctrl.SetTags(c.Param("id"), req.Tags)
	return c.JSON(http.StatusOK, echo.Map{"has_unsaved_changes": ctrl.HasUnsavedChanges()})
}

// SetDate replaces an action's target date.
func (h *BoardHandler) SetDate(c echo.Context) error {
	prometheus.RecordBoardOperation("set_date")

	var req struct {
		TargetDate string `json:"target_date"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctrl, err := h.controller(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	ctrl.SetTargetDate(c.Param("id"), req.TargetDate)
	return c.JSON(http.StatusOK, echo.Map{"has_unsaved_changes": ctrl.HasUnsavedChanges()})
}

// DragOver applies an over-event: the dragged card hovering a stage or
// another card. Category reassignment is applied live.
func (h *BoardHandler) DragOver(c echo.Context) error {
	prometheus.RecordBoardOperation("drag_over")

	var req struct {
		ActionID string         `json:"action_id"`
		Stage    model.Category `json:"stage,omitempty"`
		OverID   string         `json:"over_id,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctrl, err := h.controller(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	switch {
	case req.Stage != "":
		if !req.Stage.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
		}
		ctrl.DragOverStage(req.ActionID, req.Stage)
	case req.OverID != "":
		ctrl.DragOverCard(req.ActionID, req.OverID)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stage or over_id is required"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"actions":             ctrl.Visible(),
		"has_unsaved_changes": ctrl.HasUnsavedChanges(),
	})
}

// DragEnd resolves a drop. Empty over_id abandons the gesture.
func (h *BoardHandler) DragEnd(c echo.Context) error {
	prometheus.RecordBoardOperation("drag_end")

	var req struct {
		ActionID string `json:"action_id"`
		OverID   string `json:"over_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctrl, err := h.controller(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	ctrl.DragEnd(req.ActionID, req.OverID)
	return c.JSON(http.StatusOK, echo.Map{
		"actions":             ctrl.Visible(),
		"has_unsaved_changes": ctrl.HasUnsavedChanges(),
	})
}

// Save merges the working set into the selected path (or captures the
// ambient set) and resets the baseline.
func (h *BoardHandler) Save(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordBoardOperation("save")

	ctrl, err := h.controller(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	if err := ctrl.Save(); err != nil {
		if errors.Is(err, board.ErrSaveInFlight) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		log.Error("Save failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"has_unsaved_changes": ctrl.HasUnsavedChanges()})
}

// SaveAsNew forks the selected path and switches to the fork.
func (h *BoardHandler) SaveAsNew(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordBoardOperation("save_as_new")

	ctrl, err := h.controller(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	fork, err := ctrl.SaveAsNew()
	if err != nil {
		if errors.Is(err, board.ErrNoPathSelected) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		log.Error("Save-as-new failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"action_path": fork})
}
