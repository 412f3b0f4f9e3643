package store

import (
	"regexp"
	"strings"
	"sync"

	"salesboard/internal/model"
	"salesboard/internal/seed"
	"salesboard/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	authNamespace     = "auth-storage"
	authSchemaVersion = 1
)

// Only the last-used login email survives restarts, never the session.
type authSnapshot struct {
	LastLoginEmail string `json:"last_login_email"`
}

var domainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{1,61}[a-zA-Z0-9]\.[a-zA-Z]{2,}$`)

var userColors = []string{
	"#3B82F6", // Blue
	"#10B981", // Emerald
	"#F59E0B", // Amber
	"#EF4444", // Red
	"#8B5CF6", // Violet
	"#EC4899", // Pink
	"#6366F1", // Indigo
	"#06B6D4", // Cyan
}

// AuthStore owns the companies, their users, licensing, and the current
// session. It gates every other store by company id / email domain.
//
// Credential policy is the demo policy: the seeded super admin logs in with
// any password; every other account shares one placeholder password, kept
// as a bcrypt hash.
type AuthStore struct {
	mu             sync.RWMutex
	adapter        storage.Adapter
	companies      []model.Company
	user           *model.User
	lastLoginEmail string
	demoHash       []byte
	log            *zap.Logger
}

// NewAuthStore seeds the company table and restores the last login email.
func NewAuthStore(adapter storage.Adapter, demoPassword string, log *zap.Logger) (*AuthStore, error) {
	demoHash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s := &AuthStore{
		adapter:   adapter,
		companies: []model.Company{seed.Company()},
		demoHash:  demoHash,
		log:       log,
	}
	var snap authSnapshot
	found, err := adapter.Load(authNamespace, authSchemaVersion, &snap)
	if err != nil {
		return nil, err
	}
	if found {
		s.lastLoginEmail = snap.LastLoginEmail
	}
	return s, nil
}

// Login authenticates against the company rosters and sets the current
// user. It fetches or merges no other state.
func (s *AuthStore) Login(email, password string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if email == "" || password == "" {
		return model.User{}, ErrMissingCredentials
	}

	var found *model.User
	for ci := range s.companies {
		for ui := range s.companies[ci].Users {
			if strings.EqualFold(s.companies[ci].Users[ui].Email, email) {
				found = &s.companies[ci].Users[ui]
				break
			}
		}
		if found != nil {
			break
		}
	}
	if found == nil {
		s.log.Warn("login failed: user not found", zap.String("email", email))
		return model.User{}, ErrUserNotFound
	}

	if !found.IsSuperAdmin {
		if err := bcrypt.CompareHashAndPassword(s.demoHash, []byte(password)); err != nil {
			s.log.Warn("login failed: invalid credentials", zap.String("email", email))
			return model.User{}, ErrInvalidCredentials
		}
	}

	user := *found
	s.user = &user
	s.lastLoginEmail = email
	if err := s.adapter.Save(authNamespace, authSchemaVersion, authSnapshot{LastLoginEmail: email}); err != nil {
		s.log.Error("failed to persist last login email", zap.Error(err))
	}
	s.log.Info("user logged in", zap.String("email", user.Email), zap.String("company_id", user.CompanyID))
	return user, nil
}

// Logout clears the current session.
func (s *AuthStore) Logout() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// CurrentUser returns the logged-in user, if any.
func (s *AuthStore) CurrentUser() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// LastLoginEmail returns the email used for the most recent login.
func (s *AuthStore) LastLoginEmail() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastLoginEmail
}

// Companies returns a copy of the company table.
func (s *AuthStore) Companies() []model.Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyCompanies()
}

// CompanyByID returns the company with the given id.
func (s *AuthStore) CompanyByID(id string) (model.Company, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.companies {
		if c.ID == id {
			return copyCompany(c), true
		}
	}
	return model.Company{}, false
}

// UserByEmail finds a user by email across all companies.
func (s *AuthStore) UserByEmail(email string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.companies {
		for _, u := range c.Users {
			if strings.EqualFold(u.Email, email) {
				return u, true
			}
		}
	}
	return model.User{}, false
}

// AddCompany creates a company. Name and a well-formed, globally unique
// domain are required; the license tier defaults to TRIAL on a monthly
// cycle.
func (s *AuthStore) AddCompany(name, domain string, licenseType model.LicenseType) (model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" || domain == "" {
		return model.Company{}, ErrInvalidCompany
	}
	if !domainPattern.MatchString(domain) {
		return model.Company{}, ErrInvalidDomain
	}
	for _, c := range s.companies {
		if strings.EqualFold(c.Domain, domain) {
			return model.Company{}, ErrDuplicateDomain
		}
	}
	if licenseType == "" {
		licenseType = model.LicenseTrial
	}

	company := model.Company{
		ID:           uuid.NewString(),
		Name:         name,
		Domain:       domain,
		LicenseType:  licenseType,
		BillingCycle: model.BillingMonthly,
		Users:        []model.User{},
	}
	s.companies = append(s.companies, company)
	s.log.Info("company added", zap.String("company_id", company.ID), zap.String("domain", domain))
	return copyCompany(company), nil
}

// AddUserToCompany appends a user to the company roster. The email's domain
// suffix must equal the company domain and must not already be present.
// Missing profile names are derived from the email's local part.
func (s *AuthStore) AddUserToCompany(companyID, email string, role model.UserRole, profile *model.UserProfile) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if email == "" {
		return model.User{}, ErrMissingEmail
	}
	ci := s.companyIndex(companyID)
	if ci < 0 {
		return model.User{}, ErrCompanyNotFound
	}
	company := &s.companies[ci]

	local, domain, ok := splitEmail(email)
	if !ok || !strings.EqualFold(domain, company.Domain) {
		return model.User{}, ErrDomainMismatch
	}
	for _, u := range company.Users {
		if strings.EqualFold(u.Email, email) {
			return model.User{}, ErrDuplicateUser
		}
	}
	if role == "" {
		role = model.RoleUser
	}

	firstName, lastName := namesFromLocalPart(local)
	user := model.User{
		Email:     email,
		Role:      role,
		IsAdmin:   role == model.RoleAdmin,
		CompanyID: companyID,
		Profile: model.UserProfile{
			FirstName:  firstName,
			LastName:   lastName,
			Email:      email,
			Department: "Other",
			Color:      userColors[len(company.Users)%len(userColors)],
		},
	}
	if profile != nil {
		if profile.FirstName != "" {
			user.Profile.FirstName = profile.FirstName
		}
		if profile.LastName != "" {
			user.Profile.LastName = profile.LastName
		}
		if profile.Department != "" {
			user.Profile.Department = profile.Department
		}
		if profile.Color != "" {
			user.Profile.Color = profile.Color
		}
		user.Profile.ImageURL = profile.ImageURL
	}

	company.Users = append(company.Users, user)
	return user, nil
}

// RemoveUserFromCompany drops a user from the roster. Removing the super
// admin is silently refused.
func (s *AuthStore) RemoveUserFromCompany(companyID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ci := s.companyIndex(companyID)
	if ci < 0 {
		return nil
	}
	company := &s.companies[ci]

	next := make([]model.User, 0, len(company.Users))
	for _, u := range company.Users {
		if strings.EqualFold(u.Email, email) {
			if u.IsSuperAdmin {
				s.log.Warn("refused to remove super admin", zap.String("email", email))
				return nil
			}
			continue
		}
		next = append(next, u)
	}
	company.Users = next
	return nil
}

// UpdateCompanyUser merges the patch into the matching user. Edits to the
// super admin are silently refused.
func (s *AuthStore) UpdateCompanyUser(companyID, email string, patch model.UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ci := s.companyIndex(companyID)
	if ci < 0 {
		return nil
	}
	company := &s.companies[ci]
	for i := range company.Users {
		if strings.EqualFold(company.Users[i].Email, email) {
			if company.Users[i].IsSuperAdmin {
				s.log.Warn("refused to update super admin", zap.String("email", email))
				return nil
			}
			patch.Apply(&company.Users[i])
			return nil
		}
	}
	return nil
}

// UpdateCompanySalesforceCredentials replaces a company's CRM credentials.
func (s *AuthStore) UpdateCompanySalesforceCredentials(companyID string, creds model.SalesforceCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ci := s.companyIndex(companyID); ci >= 0 {
		c := creds
		s.companies[ci].SalesforceCredentials = &c
	}
	return nil
}

// UpdateCompanyLogo replaces a company's logo URL.
func (s *AuthStore) UpdateCompanyLogo(companyID, logoURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ci := s.companyIndex(companyID); ci >= 0 {
		s.companies[ci].LogoURL = logoURL
	}
	return nil
}

// UpdateCompanyLicense sets the license tier and, when provided, the
// billing cycle.
func (s *AuthStore) UpdateCompanyLicense(companyID string, licenseType model.LicenseType, billingCycle *model.BillingCycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ci := s.companyIndex(companyID); ci >= 0 {
		s.companies[ci].LicenseType = licenseType
		if billingCycle != nil {
			s.companies[ci].BillingCycle = *billingCycle
		}
	}
	return nil
}

// UpdateCompanyDefaultPath replaces a company's default action path.
func (s *AuthStore) UpdateCompanyDefaultPath(companyID string, path model.ActionPath) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ci := s.companyIndex(companyID); ci >= 0 {
		p := path.Clone()
		s.companies[ci].DefaultActionPath = &p
	}
	return nil
}

func (s *AuthStore) companyIndex(id string) int {
	for i, c := range s.companies {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *AuthStore) copyCompanies() []model.Company {
	out := make([]model.Company, len(s.companies))
	for i, c := range s.companies {
		out[i] = copyCompany(c)
	}
	return out
}

func copyCompany(c model.Company) model.Company {
	out := c
	out.Users = append([]model.User(nil), c.Users...)
	if c.SalesforceCredentials != nil {
		creds := *c.SalesforceCredentials
		out.SalesforceCredentials = &creds
	}
	if c.DefaultActionPath != nil {
		path := c.DefaultActionPath.Clone()
		out.DefaultActionPath = &path
	}
	return out
}

func splitEmail(email string) (local, domain string, ok bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", "", false
	}
	return email[:at], email[at+1:], true
}

// namesFromLocalPart turns "jane.doe" into ("Jane", "Doe").
func namesFromLocalPart(local string) (string, string) {
	parts := strings.SplitN(local, ".", 2)
	first := titleCase(parts[0])
	last := ""
	if len(parts) > 1 {
		last = titleCase(parts[1])
	}
	return first, last
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
