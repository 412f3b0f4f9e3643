package handler

import (
	"errors"
	"net/http"

	"salesboard/internal/model"
	"salesboard/internal/store"
	"salesboard/pkg/logger"
	"salesboard/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TagHandler serves the company tag table.
type TagHandler struct {
	Tags *store.TagStore
}

// NewTagHandler wires the handler to the tag store.
func NewTagHandler(tags *store.TagStore) *TagHandler {
	return &TagHandler{Tags: tags}
}

// List returns the caller's company tags.
func (h *TagHandler) List(c echo.Context) error {
	companyID, _ := c.Get("company_id").(string)
	return c.JSON(http.StatusOK, echo.Map{"tags": h.Tags.ByCompany(companyID)})
}

// Create adds a tag scoped to the caller's company.
func (h *TagHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordStoreOperation("tag", "add")

	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	companyID, _ := c.Get("company_id").(string)
	tag, err := h.Tags.Add(req.Name, req.Color, companyID)
	if err != nil {
		log.Warn("Tag creation rejected", zap.Error(err), zap.String("name", req.Name))
		if errors.Is(err, store.ErrDuplicateTag) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"tag": tag})
}

// Update merges a patch into a tag.
func (h *TagHandler) Update(c echo.Context) error {
	prometheus.RecordStoreOperation("tag", "update")

	var patch model.TagPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.Tags.Update(c.Param("id"), patch); err != nil {
		if errors.Is(err, store.ErrDuplicateTag) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "tag updated"})
}

// Delete removes a tag.
func (h *TagHandler) Delete(c echo.Context) error {
	prometheus.RecordStoreOperation("tag", "remove")
	if err := h.Tags.Remove(c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "tag removed"})
}
