package domain

import "errors"

// Lookup failures.
var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrJobNotFound        = errors.New("job not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrGroupNotFound      = errors.New("permission group not found")
	ErrResetNotFound      = errors.New("password reset request not found")
)

// Authorization, uniqueness and credential failures.
var (
	ErrForbidden          = errors.New("access forbidden")
	ErrConflict           = errors.New("record already exists")
	ErrEmailTaken         = errors.New("e-mail already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrGatewayFailure     = errors.New("notification could not be sent")
	ErrInvalidManager     = errors.New("manager must be an admin or a manager")
	ErrInvalidInput       = errors.New("invalid input")
)

var notFound = []error{
	ErrEmployeeNotFound, ErrDepartmentNotFound, ErrJobNotFound, ErrClientNotFound,
	ErrProjectNotFound, ErrTaskNotFound, ErrGroupNotFound, ErrResetNotFound,
}

// IsNotFound reports whether err wraps any of the lookup failures.
func IsNotFound(err error) bool {
	for _, target := range notFound {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrEmailTaken)
}
