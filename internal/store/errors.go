package store

import "errors"

// Validation and protected-invariant failures surfaced by the stores. Every
// failed operation leaves store state exactly as it was.
var (
	ErrInvalidTag           = errors.New("tag name and color are required")
	ErrDuplicateTag         = errors.New("tag with this name already exists")
	ErrDuplicateAssignee    = errors.New("assignee with this email already exists in the company")
	ErrDefaultPathProtected = errors.New("cannot remove default action path")
	ErrMissingCredentials   = errors.New("please provide both email and password")
	ErrUserNotFound         = errors.New("user not found in any company")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrCompanyNotFound      = errors.New("company not found")
	ErrInvalidCompany       = errors.New("company name and domain are required")
	ErrInvalidDomain        = errors.New("invalid domain format")
	ErrDuplicateDomain      = errors.New("a company with this domain already exists")
	ErrMissingEmail         = errors.New("email is required")
	ErrDomainMismatch       = errors.New("user email domain must match the company domain")
	ErrDuplicateUser        = errors.New("user already exists in this company")
)
