package store

import (
	"errors"
	"testing"

	"salesboard/internal/model"
	"salesboard/internal/seed"
	"salesboard/pkg/storage"

	"go.uber.org/zap"
)

const demoPassword = "123"

func newAuthStore(t *testing.T) *AuthStore {
	t.Helper()
	s, err := NewAuthStore(storage.NewMemory(), demoPassword, zap.NewNop())
	if err != nil {
		t.Fatalf("NewAuthStore: %v", err)
	}
	return s
}

func addSeedUser(t *testing.T, s *AuthStore, email string) model.User {
	t.Helper()
	u, err := s.AddUserToCompany(seed.CompanyID, email, model.RoleUser, nil)
	if err != nil {
		t.Fatalf("AddUserToCompany(%s): %v", email, err)
	}
	return u
}

func TestAuthStoreLogin(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		s := newAuthStore(t)
		if _, err := s.Login("", demoPassword); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("empty email: err = %v, want ErrMissingCredentials", err)
		}
		if _, err := s.Login(seed.SuperAdminEmail, ""); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("empty password: err = %v, want ErrMissingCredentials", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		s := newAuthStore(t)
		if _, err := s.Login("nobody@7salessteps.com", demoPassword); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("err = %v, want ErrUserNotFound", err)
		}
	})

	t.Run("super admin bypasses the password check", func(t *testing.T) {
		s := newAuthStore(t)
		u, err := s.Login(seed.SuperAdminEmail, "anything-at-all")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if !u.IsSuperAdmin {
			t.Error("expected the super admin account")
		}
	})

	t.Run("regular user needs the shared password", func(t *testing.T) {
		s := newAuthStore(t)
		addSeedUser(t, s, "jane.doe@7salessteps.com")

		if _, err := s.Login("jane.doe@7salessteps.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
		}
		u, err := s.Login("jane.doe@7salessteps.com", demoPassword)
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if u.Email != "jane.doe@7salessteps.com" {
			t.Errorf("logged-in email = %q", u.Email)
		}
	})

	t.Run("email lookup is case-insensitive", func(t *testing.T) {
		s := newAuthStore(t)
		if _, err := s.Login("MARIUS@7salessteps.com", "x"); err != nil {
			t.Errorf("Login: %v", err)
		}
	})

	t.Run("sets current user and clears it on logout", func(t *testing.T) {
		s := newAuthStore(t)
		if _, err := s.Login(seed.SuperAdminEmail, "x"); err != nil {
			t.Fatalf("Login: %v", err)
		}
		if _, ok := s.CurrentUser(); !ok {
			t.Error("expected a current user after login")
		}
		s.Logout()
		if _, ok := s.CurrentUser(); ok {
			t.Error("current user survived logout")
		}
	})
}

func TestAuthStoreLastLoginEmail(t *testing.T) {
	adapter := storage.NewMemory()
	s, err := NewAuthStore(adapter, demoPassword, zap.NewNop())
	if err != nil {
		t.Fatalf("NewAuthStore: %v", err)
	}
	if _, err := s.Login(seed.SuperAdminEmail, "x"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	reloaded, err := NewAuthStore(adapter, demoPassword, zap.NewNop())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.LastLoginEmail(); got != seed.SuperAdminEmail {
		t.Errorf("last login email = %q, want %q", got, seed.SuperAdminEmail)
	}
	if _, ok := reloaded.CurrentUser(); ok {
		t.Error("session must not survive a restart")
	}
}

func TestAuthStoreAddCompany(t *testing.T) {
	t.Run("creates with trial defaults", func(t *testing.T) {
		s := newAuthStore(t)
		c, err := s.AddCompany("Acme", "acme.io", "")
		if err != nil {
			t.Fatalf("AddCompany: %v", err)
		}
		if c.ID == "" {
			t.Error("expected a generated id")
		}
		if c.LicenseType != model.LicenseTrial {
			t.Errorf("license = %q, want TRIAL", c.LicenseType)
		}
		if c.BillingCycle != model.BillingMonthly {
			t.Errorf("billing = %q, want monthly", c.BillingCycle)
		}
	})

	t.Run("rejects malformed domains", func(t *testing.T) {
		s := newAuthStore(t)
		for _, domain := range []string{"nodot", "-bad.com", "bad-.com", "x.c", "spaces here.com"} {
			if _, err := s.AddCompany("Acme", domain, ""); !errors.Is(err, ErrInvalidDomain) {
				t.Errorf("AddCompany(%q): err = %v, want ErrInvalidDomain", domain, err)
			}
		}
	})

	t.Run("rejects duplicate domains case-insensitively", func(t *testing.T) {
		s := newAuthStore(t)
		if _, err := s.AddCompany("Other", "7SalesSteps.com", ""); !errors.Is(err, ErrDuplicateDomain) {
			t.Errorf("err = %v, want ErrDuplicateDomain", err)
		}
	})

	t.Run("rejects missing name", func(t *testing.T) {
		s := newAuthStore(t)
		if _, err := s.AddCompany("", "acme.io", ""); !errors.Is(err, ErrInvalidCompany) {
			t.Errorf("err = %v, want ErrInvalidCompany", err)
		}
	})
}

func TestAuthStoreAddUserToCompany(t *testing.T) {
	t.Run("derives profile names from the email", func(t *testing.T) {
		s := newAuthStore(t)
		u := addSeedUser(t, s, "jane.doe@7salessteps.com")
		if u.Profile.FirstName != "Jane" || u.Profile.LastName != "Doe" {
			t.Errorf("derived names = %q %q, want Jane Doe", u.Profile.FirstName, u.Profile.LastName)
		}
		if u.Profile.Color == "" {
			t.Error("expected a palette color")
		}
		if u.Role != model.RoleUser || u.IsAdmin {
			t.Errorf("role = %q admin=%v, want plain user", u.Role, u.IsAdmin)
		}
	})

	t.Run("rejects a foreign email domain", func(t *testing.T) {
		s := newAuthStore(t)
		if _, err := s.AddUserToCompany(seed.CompanyID, "jane@elsewhere.com", model.RoleUser, nil); !errors.Is(err, ErrDomainMismatch) {
			t.Errorf("err = %v, want ErrDomainMismatch", err)
		}
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		s := newAuthStore(t)
		addSeedUser(t, s, "jane.doe@7salessteps.com")
		if _, err := s.AddUserToCompany(seed.CompanyID, "Jane.Doe@7salessteps.com", model.RoleUser, nil); !errors.Is(err, ErrDuplicateUser) {
			t.Errorf("err = %v, want ErrDuplicateUser", err)
		}
	})

	t.Run("unknown company", func(t *testing.T) {
		s := newAuthStore(t)
		if _, err := s.AddUserToCompany("missing", "jane@7salessteps.com", model.RoleUser, nil); !errors.Is(err, ErrCompanyNotFound) {
			t.Errorf("err = %v, want ErrCompanyNotFound", err)
		}
	})

	t.Run("admin role sets the admin flag", func(t *testing.T) {
		s := newAuthStore(t)
		u, err := s.AddUserToCompany(seed.CompanyID, "boss@7salessteps.com", model.RoleAdmin, nil)
		if err != nil {
			t.Fatalf("AddUserToCompany: %v", err)
		}
		if !u.IsAdmin {
			t.Error("admin role must set IsAdmin")
		}
	})
}

func TestAuthStoreSuperAdminProtection(t *testing.T) {
	t.Run("removal is refused", func(t *testing.T) {
		s := newAuthStore(t)
		if err := s.RemoveUserFromCompany(seed.CompanyID, seed.SuperAdminEmail); err != nil {
			t.Fatalf("RemoveUserFromCompany: %v", err)
		}
		if _, ok := s.UserByEmail(seed.SuperAdminEmail); !ok {
			t.Error("super admin was removed")
		}
	})

	t.Run("edits are refused", func(t *testing.T) {
		s := newAuthStore(t)
		role := model.RoleUser
		if err := s.UpdateCompanyUser(seed.CompanyID, seed.SuperAdminEmail, model.UserPatch{Role: &role}); err != nil {
			t.Fatalf("UpdateCompanyUser: %v", err)
		}
		u, _ := s.UserByEmail(seed.SuperAdminEmail)
		if u.Role != model.RoleAdmin {
			t.Errorf("super admin role = %q, want unchanged", u.Role)
		}
	})

	t.Run("regular users can be removed", func(t *testing.T) {
		s := newAuthStore(t)
		addSeedUser(t, s, "jane.doe@7salessteps.com")
		if err := s.RemoveUserFromCompany(seed.CompanyID, "jane.doe@7salessteps.com"); err != nil {
			t.Fatalf("RemoveUserFromCompany: %v", err)
		}
		if _, ok := s.UserByEmail("jane.doe@7salessteps.com"); ok {
			t.Error("user still present after removal")
		}
	})
}

func TestAuthStoreCompanyUpdates(t *testing.T) {
	s := newAuthStore(t)

	t.Run("salesforce credentials", func(t *testing.T) {
		creds := model.SalesforceCredentials{URL: "https://example.salesforce.com", Username: "it@7salessteps.com"}
		if err := s.UpdateCompanySalesforceCredentials(seed.CompanyID, creds); err != nil {
			t.Fatalf("UpdateCompanySalesforceCredentials: %v", err)
		}
		c, _ := s.CompanyByID(seed.CompanyID)
		if c.SalesforceCredentials == nil || c.SalesforceCredentials.URL != creds.URL {
			t.Errorf("credentials = %+v", c.SalesforceCredentials)
		}
	})

	t.Run("logo", func(t *testing.T) {
		if err := s.UpdateCompanyLogo(seed.CompanyID, "/new-logo.svg"); err != nil {
			t.Fatalf("UpdateCompanyLogo: %v", err)
		}
		c, _ := s.CompanyByID(seed.CompanyID)
		if c.LogoURL != "/new-logo.svg" {
			t.Errorf("logo = %q", c.LogoURL)
		}
	})

	t.Run("license and billing cycle", func(t *testing.T) {
		cycle := model.BillingAnnual
		if err := s.UpdateCompanyLicense(seed.CompanyID, model.LicenseMedium, &cycle); err != nil {
			t.Fatalf("UpdateCompanyLicense: %v", err)
		}
		c, _ := s.CompanyByID(seed.CompanyID)
		if c.LicenseType != model.LicenseMedium || c.BillingCycle != model.BillingAnnual {
			t.Errorf("license = %q cycle = %q", c.LicenseType, c.BillingCycle)
		}
	})

	t.Run("returned companies are copies", func(t *testing.T) {
		c, _ := s.CompanyByID(seed.CompanyID)
		c.LogoURL = "mutated"
		again, _ := s.CompanyByID(seed.CompanyID)
		if again.LogoURL == "mutated" {
			t.Error("store state leaked through a returned copy")
		}
	})
}
