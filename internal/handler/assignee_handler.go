package handler

import (
	"errors"
	"io"
	"net/http"

	"salesboard/internal/model"
	"salesboard/internal/store"
	"salesboard/pkg/logger"
	"salesboard/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AssigneeHandler serves the per-company assignee roster.
type AssigneeHandler struct {
	Assignees *store.AssigneeStore
}

// NewAssigneeHandler wires the handler to the assignee store.
func NewAssigneeHandler(assignees *store.AssigneeStore) *AssigneeHandler {
	return &AssigneeHandler{Assignees: assignees}
}

// List returns the caller's company assignees.
func (h *AssigneeHandler) List(c echo.Context) error {
	companyID, _ := c.Get("company_id").(string)
	return c.JSON(http.StatusOK, echo.Map{"assignees": h.Assignees.ByCompany(companyID)})
}

// Create adds one assignee to the caller's company.
func (h *AssigneeHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordStoreOperation("assignee", "add")

	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Color     string `json:"color"`
		ImageURL  string `json:"image_url,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	companyID, _ := c.Get("company_id").(string)
	assignee, err := h.Assignees.Add(model.Assignee{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Color:     req.Color,
		ImageURL:  req.ImageURL,
		CompanyID: companyID,
	})
	if err != nil {
		log.Warn("Assignee creation rejected", zap.Error(err), zap.String("email", req.Email))
		if errors.Is(err, store.ErrDuplicateAssignee) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"assignee": assignee})
}

// Update merges a patch into an assignee.
func (h *AssigneeHandler) Update(c echo.Context) error {
	prometheus.RecordStoreOperation("assignee", "update")

	var patch model.AssigneePatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.Assignees.Update(c.Param("id"), patch); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "assignee updated"})
}

// Delete removes an assignee.
func (h *AssigneeHandler) Delete(c echo.Context) error {
	prometheus.RecordStoreOperation("assignee", "remove")
	if err := h.Assignees.Remove(c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "assignee removed"})
}

// Import bulk-creates assignees from an uploaded CSV file. Rows that fail
// the reconciliation rules are skipped, never an error; the response says
// how many survived.
func (h *AssigneeHandler) Import(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordStoreOperation("assignee", "import_csv")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "failed to open uploaded file"})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "failed to read uploaded file"})
	}

	companyID, _ := c.Get("company_id").(string)
	imported, err := h.Assignees.ImportCSV(string(content), companyID)
	if err != nil {
		log.Error("CSV import failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	prometheus.CSVImportedRowsCounter.Add(float64(imported))
	log.Info("CSV import finished", zap.Int("imported", imported), zap.String("company_id", companyID))
	return c.JSON(http.StatusOK, echo.Map{"imported": imported})
}
