package handler

import (
	"errors"
	"net/http"

	"salesboard/internal/model"
	"salesboard/internal/salesforce"
	"salesboard/internal/store"
	"salesboard/pkg/logger"
	"salesboard/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ActionPathHandler serves the path catalog: territories, products, and the
// action paths themselves.
type ActionPathHandler struct {
	Paths      *store.ActionPathStore
	Salesforce *salesforce.Client
}

// NewActionPathHandler wires the handler to its store and the CRM client.
func NewActionPathHandler(paths *store.ActionPathStore, sf *salesforce.Client) *ActionPathHandler {
	return &ActionPathHandler{Paths: paths, Salesforce: sf}
}

// Config returns the catalog: deal sizes, territories, products.
func (h *ActionPathHandler) Config(c echo.Context) error {
	cfg := h.Paths.Config()
	return c.JSON(http.StatusOK, echo.Map{
		"deal_sizes":  cfg.DealSizes,
		"territories": cfg.Territories,
		"products":    cfg.Products,
	})
}

// List returns the caller's company paths, default slot first when owned.
func (h *ActionPathHandler) List(c echo.Context) error {
	companyID, _ := c.Get("company_id").(string)
	return c.JSON(http.StatusOK, echo.Map{"action_paths": h.Paths.ByCompany(companyID)})
}

// Get returns one path; the reserved id resolves to the default slot.
func (h *ActionPathHandler) Get(c echo.Context) error {
	path, ok := h.Paths.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "action path not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"action_path": path})
}

// Create appends a new path owned by the caller's company.
func (h *ActionPathHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordStoreOperation("action_path", "add")

	var path model.ActionPath
	if err := c.Bind(&path); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if path.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if path.ID == "" {
		path.ID = uuid.NewString()
	}
	companyID, _ := c.Get("company_id").(string)
	path.CompanyID = companyID
	for i := range path.Actions {
		if path.Actions[i].ID == "" {
			path.Actions[i].ID = uuid.NewString()
		}
		path.Actions[i].ActionPathID = path.ID
	}

	if err := h.Paths.Add(path); err != nil {
		log.Error("Failed to add action path", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"action_path": path})
}

// Update merges a patch into a path; the reserved id routes to the default
// slot and never touches the collection.
func (h *ActionPathHandler) Update(c echo.Context) error {
	prometheus.RecordStoreOperation("action_path", "update")

	var patch model.ActionPathPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.Paths.Update(c.Param("id"), patch); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "action path updated"})
}

// Delete removes a path. The default path is protected.
func (h *ActionPathHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordStoreOperation("action_path", "remove")

	if err := h.Paths.Remove(c.Param("id")); err != nil {
		if errors.Is(err, store.ErrDefaultPathProtected) {
			log.Warn("Refused to remove default action path")
			return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "action path removed"})
}

// CreateTerritory adds a territory owned by the caller's company.
func (h *ActionPathHandler) CreateTerritory(c echo.Context) error {
	prometheus.RecordStoreOperation("action_path", "add_territory")

	var t model.Territory
	if err := c.Bind(&t); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if t.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	companyID, _ := c.Get("company_id").(string)
	t.CompanyID = companyID
	created, err := h.Paths.AddTerritory(t)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"territory": created})
}

// UpdateTerritory merges a patch into a territory.
func (h *ActionPathHandler) UpdateTerritory(c echo.Context) error {
	prometheus.RecordStoreOperation("action_path", "update_territory")

	var patch model.TerritoryPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.Paths.UpdateTerritory(c.Param("id"), patch); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "territory updated"})
}

// DeleteTerritory removes a territory; an item is only deletable by the
// owning company (global items only by an admin of the seed tenant).
func (h *ActionPathHandler) DeleteTerritory(c echo.Context) error {
	prometheus.RecordStoreOperation("action_path", "remove_territory")

	if !h.mayDeleteCatalogItem(c, h.territoryOwner(c.Param("id"))) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not owned by your company"})
	}
	if err := h.Paths.RemoveTerritory(c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "territory removed"})
}

// CreateProduct adds a product owned by the caller's company.
func (h *ActionPathHandler) CreateProduct(c echo.Context) error {
	prometheus.RecordStoreOperation("action_path", "add_product")

	var p model.Product
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if p.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	companyID, _ := c.Get("company_id").(string)
	p.CompanyID = companyID
	created, err := h.Paths.AddProduct(p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"product": created})
}

// UpdateProduct merges a patch into a product.
func (h *ActionPathHandler) UpdateProduct(c echo.Context) error {
	prometheus.RecordStoreOperation("action_path", "update_product")

	var patch model.ProductPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.Paths.UpdateProduct(c.Param("id"), patch); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "product updated"})
}

// DeleteProduct removes a product, company ownership permitting.
func (h *ActionPathHandler) DeleteProduct(c echo.Context) error {
	prometheus.RecordStoreOperation("action_path", "remove_product")

	if !h.mayDeleteCatalogItem(c, h.productOwner(c.Param("id"))) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not owned by your company"})
	}
	if err := h.Paths.RemoveProduct(c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "product removed"})
}

// Export posts a path plus a field mapping to the configured CRM endpoint.
func (h *ActionPathHandler) Export(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordStoreOperation("action_path", "export")

	var req struct {
		FieldMapping map[string]string `json:"field_mapping"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	path, ok := h.Paths.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "action path not found"})
	}

	result, err := h.Salesforce.Export(c.Request().Context(), path, req.FieldMapping)
	if err != nil {
		if errors.Is(err, salesforce.ErrNotConfigured) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
		}
		log.Error("Salesforce export failed", zap.Error(err), zap.String("path_id", path.ID))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

func (h *ActionPathHandler) territoryOwner(id string) string {
	for _, t := range h.Paths.Config().Territories {
		if t.ID == id {
			return t.CompanyID
		}
	}
	return ""
}

func (h *ActionPathHandler) productOwner(id string) string {
	for _, p := range h.Paths.Config().Products {
		if p.ID == id {
			return p.CompanyID
		}
	}
	return ""
}

func (h *ActionPathHandler) mayDeleteCatalogItem(c echo.Context, owner string) bool {
	if owner == "" {
		isAdmin, _ := c.Get("is_admin").(bool)
		return isAdmin
	}
	companyID, _ := c.Get("company_id").(string)
	return owner == companyID
}
