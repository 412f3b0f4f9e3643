package model

// UserRole is a user's role within their company.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleUser     UserRole = "user"
	RoleAssignee UserRole = "assignee"
	RoleViewer   UserRole = "viewer"
)

// LicenseType is a company's licensing tier.
type LicenseType string

const (
	LicenseTrial      LicenseType = "TRIAL"
	LicenseSmall      LicenseType = "SMALL"
	LicenseMedium     LicenseType = "MEDIUM"
	LicenseEnterprise LicenseType = "ENTERPRISE"
)

// BillingCycle is a company's billing interval.
type BillingCycle string

const (
	BillingMonthly BillingCycle = "monthly"
	BillingAnnual  BillingCycle = "annual"
)

// SalesforceCredentials holds a company's CRM connection settings.
type SalesforceCredentials struct {
	URL           string `json:"url"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	SecurityToken string `json:"security_token"`
	APIVersion    string `json:"api_version"`
}

// UserProfile is the displayable part of a user record.
type UserProfile struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Color      string `json:"color"`
	ImageURL   string `json:"image_url,omitempty"`
}

// User is a member of a company. Email is unique within the company and its
// domain suffix must equal the company's domain.
type User struct {
	Email        string      `json:"email"`
	Role         UserRole    `json:"role"`
	IsAdmin      bool        `json:"is_admin"`
	IsSuperAdmin bool        `json:"is_super_admin,omitempty"`
	CompanyID    string      `json:"company_id"`
	Profile      UserProfile `json:"profile"`
}

// Company is the tenant root. Domain is globally unique and scopes every
// child entity either by CompanyID or by email-domain equality.
type Company struct {
	ID                    string                 `json:"id"`
	Name                  string                 `json:"name"`
	Domain                string                 `json:"domain"`
	LogoURL               string                 `json:"logo_url,omitempty"`
	LicenseType           LicenseType            `json:"license_type"`
	BillingCycle          BillingCycle           `json:"billing_cycle"`
	SalesforceCredentials *SalesforceCredentials `json:"salesforce_credentials,omitempty"`
	Users                 []User                 `json:"users"`
	DefaultActionPath     *ActionPath            `json:"default_action_path,omitempty"`
}

// UserPatch is a typed partial update for a company user.
type UserPatch struct {
	Role       *UserRole `json:"role,omitempty"`
	FirstName  *string   `json:"first_name,omitempty"`
	LastName   *string   `json:"last_name,omitempty"`
	Department *string   `json:"department,omitempty"`
	Color      *string   `json:"color,omitempty"`
	ImageURL   *string   `json:"image_url,omitempty"`
}

// Apply merges the patch into the user, keeping IsAdmin consistent with role.
func (pt UserPatch) Apply(u *User) {
	if pt.Role != nil {
		u.Role = *pt.Role
		u.IsAdmin = *pt.Role == RoleAdmin
	}
	if pt.FirstName != nil {
		u.Profile.FirstName = *pt.FirstName
	}
	if pt.LastName != nil {
		u.Profile.LastName = *pt.LastName
	}
	if pt.Department != nil {
		u.Profile.Department = *pt.Department
	}
	if pt.Color != nil {
		u.Profile.Color = *pt.Color
	}
	if pt.ImageURL != nil {
		u.Profile.ImageURL = *pt.ImageURL
	}
}
