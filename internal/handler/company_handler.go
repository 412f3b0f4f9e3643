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

// CompanyHandler serves company and roster management.
type CompanyHandler struct {
	Auth *store.AuthStore
}

// NewCompanyHandler wires the handler to the auth store.
func NewCompanyHandler(auth *store.AuthStore) *CompanyHandler {
	return &CompanyHandler{Auth: auth}
}

// List returns all companies.
func (h *CompanyHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"companies": h.Auth.Companies()})
}

// Get returns one company by id.
func (h *CompanyHandler) Get(c echo.Context) error {
	company, ok := h.Auth.CompanyByID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"company": company})
}

// Create adds a company.
func (h *CompanyHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordStoreOperation("auth", "add_company")

	var req struct {
		Name        string            `json:"name"`
		Domain      string            `json:"domain"`
		LicenseType model.LicenseType `json:"license_type,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	company, err := h.Auth.AddCompany(req.Name, req.Domain, req.LicenseType)
	if err != nil {
		log.Warn("Company creation rejected", zap.Error(err), zap.String("domain", req.Domain))
		switch {
		case errors.Is(err, store.ErrDuplicateDomain):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}

	log.Info("Company created", zap.String("company_id", company.ID), zap.String("domain", company.Domain))
	return c.JSON(http.StatusCreated, echo.Map{"company": company})
}

// AddUser appends a user to a company roster.
func (h *CompanyHandler) AddUser(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordStoreOperation("auth", "add_user")

	var req struct {
		Email   string             `json:"email"`
		Role    model.UserRole     `json:"role,omitempty"`
		Profile *model.UserProfile `json:"profile,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.Auth.AddUserToCompany(c.Param("id"), req.Email, req.Role, req.Profile)
	if err != nil {
		log.Warn("User addition rejected", zap.Error(err), zap.String("email", req.Email))
		switch {
		case errors.Is(err, store.ErrCompanyNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case errors.Is(err, store.ErrDuplicateUser):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"user": user})
}

// RemoveUser drops a user from a roster. Super-admin removal is silently
// refused by the store, so this reports success with the record intact.
func (h *CompanyHandler) RemoveUser(c echo.Context) error {
	prometheus.RecordStoreOperation("auth", "remove_user")
	if err := h.Auth.RemoveUserFromCompany(c.Param("id"), c.Param("email")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user removed"})
}

// UpdateUser merges a patch into a roster user.
func (h *CompanyHandler) UpdateUser(c echo.Context) error {
	prometheus.RecordStoreOperation("auth", "update_user")

	var patch model.UserPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.Auth.UpdateCompanyUser(c.Param("id"), c.Param("email"), patch); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user updated"})
}

// UpdateSalesforceCredentials replaces a company's CRM credentials.
func (h *CompanyHandler) UpdateSalesforceCredentials(c echo.Context) error {
	prometheus.RecordStoreOperation("auth", "update_salesforce_credentials")

	var creds model.SalesforceCredentials
	if err := c.Bind(&creds); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.Auth.UpdateCompanySalesforceCredentials(c.Param("id"), creds); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "credentials updated"})
}

// UpdateLogo replaces a company's logo URL.
func (h *CompanyHandler) UpdateLogo(c echo.Context) error {
	prometheus.RecordStoreOperation("auth", "update_logo")

	var req struct {
		LogoURL string `json:"logo_url"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.Auth.UpdateCompanyLogo(c.Param("id"), req.LogoURL); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logo updated"})
}

// UpdateLicense sets the license tier and optional billing cycle.
func (h *CompanyHandler) UpdateLicense(c echo.Context) error {
	prometheus.RecordStoreOperation("auth", "update_license")

	var req struct {
		LicenseType  model.LicenseType   `json:"license_type"`
		BillingCycle *model.BillingCycle `json:"billing_cycle,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.Auth.UpdateCompanyLicense(c.Param("id"), req.LicenseType, req.BillingCycle); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "license updated"})
}

// UpdateDefaultPath replaces a company's default action path.
func (h *CompanyHandler) UpdateDefaultPath(c echo.Context) error {
	prometheus.RecordStoreOperation("auth", "update_default_path")

	var path model.ActionPath
	if err := c.Bind(&path); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.Auth.UpdateCompanyDefaultPath(c.Param("id"), path); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "default path updated"})
}
