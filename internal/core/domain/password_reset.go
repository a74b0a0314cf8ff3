package domain

import "time"

// ResetState is where a password reset request is in its lifecycle.
type ResetState string

const (
	ResetPending  ResetState = "pending"
	ResetConsumed ResetState = "consumed"
)

// MinPasswordLength applies to passwords set through a reset link.
const MinPasswordLength = 8

// PasswordResetRequest is created when an employee asks to recover a
// password and expired once the new password is set. Hash is the opaque
// token mailed to the employee.
type PasswordResetRequest struct {
	Hash       string    `json:"-" bson:"_id"`
	EmployeeID string    `json:"employee_id" bson:"employee_id"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	Expired    bool      `json:"expired" bson:"expired"`
}

// State reports the lifecycle state of the request.
func (r *PasswordResetRequest) State() ResetState {
	if r.Expired {
		return ResetConsumed
	}
	return ResetPending
}

// Usable reports whether the token can still be consumed at now. A zero ttl
// means requests never time out.
func (r *PasswordResetRequest) Usable(now time.Time, ttl time.Duration) bool {
	if r.Expired {
		return false
	}
	return ttl <= 0 || now.Sub(r.CreatedAt) <= ttl
}

// ValidateNewPassword applies the reset-link rules: both entries must match
// and be at least MinPasswordLength long.
func ValidateNewPassword(password, confirm string) error {
	if password == "" || password != confirm {
		return ErrPasswordMismatch
	}
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
