package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/policy"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

// AccountOptions carries the settings of the account flows.
type AccountOptions struct {
	AppName      string
	ResetBaseURL string
	// ResetTTL bounds the age of a usable reset link. Zero disables the bound.
	ResetTTL     time.Duration
	DefaultGroup string
	ContactEmail string
	BcryptCost   int
}

type accountService struct {
	repos    ports.Repositories
	tokens   ports.TokenIssuer
	sessions ports.SessionStore
	mailer   ports.Mailer
	opts     AccountOptions
	now      func() time.Time
	log      zerolog.Logger
}

// NewAccountService returns an AccountService implementation.
func NewAccountService(
	repos ports.Repositories,
	tokens ports.TokenIssuer,
	sessions ports.SessionStore,
	mailer ports.Mailer,
	opts AccountOptions,
	log zerolog.Logger,
) ports.AccountService {
	if opts.DefaultGroup == "" {
		opts.DefaultGroup = domain.DefaultGroup
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &accountService{
		repos:    repos,
		tokens:   tokens,
		sessions: sessions,
		mailer:   mailer,
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

func (s *accountService) Authenticate(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	e, err := s.repos.Employees.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrEmployeeNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !e.IsActive || bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(ctx, e)
	if err != nil {
		return nil, err
	}
	summary, err := s.summarize(ctx, e)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("employee_id", e.ID).Str("role", string(e.Role)).Msg("employee authenticated")
	return &ports.LoginResult{Token: token, ExpiresAt: exp, Actor: summary}, nil
}

// summarize projects e onto what a client learns about itself at login.
// Dangling department or manager references are left out.
func (s *accountService) summarize(ctx context.Context, e *domain.Employee) (ports.ActorSummary, error) {
	out := ports.ActorSummary{
		ID:           e.ID,
		Email:        e.Email,
		FullName:     e.FullName(),
		Role:         e.Role,
		DepartmentID: e.DepartmentID,
	}

	if e.DepartmentID != "" {
		d, err := s.repos.Departments.FindByID(ctx, e.DepartmentID)
		switch {
		case err == nil:
			out.Department = d.Title
		case !errors.Is(err, domain.ErrDepartmentNotFound):
			return out, fmt.Errorf("summarize employee: %w", err)
		}
	}

	if e.ManagerID != "" {
		m, err := s.repos.Employees.FindByID(ctx, e.ManagerID)
		switch {
		case err == nil:
			out.Manager = &ports.PersonSummary{ID: m.ID, FullName: m.FullName(), Email: m.Email}
		case !errors.Is(err, domain.ErrEmployeeNotFound):
			return out, fmt.Errorf("summarize employee: %w", err)
		}
	}

	groups, err := s.repos.Groups.GroupsOf(ctx, e.ID)
	if err != nil {
		return out, fmt.Errorf("summarize employee: %w", err)
	}
	out.Groups = groups
	if out.Groups == nil {
		out.Groups = []string{}
	}
	return out, nil
}

func employeeInputFields(in ports.EmployeeInput) policy.FieldSet {
	var fs []policy.Field
	add := func(set bool, f policy.Field) {
		if set {
			fs = append(fs, f)
		}
	}
	add(in.Email != nil, policy.FieldEmail)
	add(in.Password != nil, policy.FieldPassword)
	add(in.FirstName != nil, policy.FieldFirstName)
	add(in.LastName != nil, policy.FieldLastName)
	add(in.PhoneNumber != nil, policy.FieldPhoneNumber)
	add(in.Role != nil, policy.FieldRole)
	add(in.ProfilePhoto != nil, policy.FieldProfilePhoto)
	add(in.DepartmentID != nil, policy.FieldDepartment)
	add(in.ManagerID != nil, policy.FieldManager)
	add(in.JobID != nil, policy.FieldJob)
	add(in.Salary != nil, policy.FieldSalary)
	add(in.Groups != nil, policy.FieldGroups)
	add(in.IsActive != nil, policy.FieldIsActive)
	return policy.Fields(fs...)
}

func (s *accountService) CreateEmployee(ctx context.Context, actor domain.Actor, in ports.EmployeeInput) (*domain.Employee, error) {
	if !policy.CanCreate(actor, domain.KindEmployee) {
		return nil, domain.ErrForbidden
	}
	editable := policy.EditableFields(actor, domain.KindEmployee, true)
	if extra := editable.Missing(employeeInputFields(in)); !extra.Empty() {
		return nil, readOnly(extra)
	}
	if in.Email == nil || !strings.Contains(*in.Email, "@") {
		return nil, fmt.Errorf("%w: a valid e-mail is required", domain.ErrInvalidInput)
	}
	if in.Password == nil || *in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}

	defaults := policy.CreateDefaults(actor, domain.KindEmployee)
	e := &domain.Employee{
		Role:         domain.RoleEmployee,
		IsActive:     true,
		DepartmentID: defaults.DepartmentID,
		DateJoined:   s.now(),
	}
	if in.ManagerID == nil && defaults.ManagerID != "" {
		in.ManagerID = &defaults.ManagerID
	}

	err := s.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.applyEmployee(ctx, actor, e, in); err != nil {
			return err
		}
		if err := s.repos.Employees.Create(ctx, e); err != nil {
			return err
		}
		for _, g := range append([]string{s.opts.DefaultGroup}, in.Groups...) {
			if err := s.repos.Groups.AddMember(ctx, g, e.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}

	s.log.Info().
		Str("employee_id", e.ID).
		Str("created_by", actor.ID).
		Str("role", string(e.Role)).
		Msg("employee created")
	return e, nil
}

func (s *accountService) UpdateEmployee(ctx context.Context, actor domain.Actor, id string, in ports.EmployeeInput) (*domain.Employee, error) {
	e, err := s.repos.Employees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	visible, err := inScope(ctx, s.repos.Resolver, policy.VisibleScope(actor, domain.KindEmployee), e)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, domain.ErrEmployeeNotFound
	}
	if !policy.CanEditEmployee(actor, e) {
		return nil, domain.ErrForbidden
	}
	editable := policy.EditableFields(actor, domain.KindEmployee, false)
	if e.ID == actor.ID && !actor.IsSuperAdmin() {
		// Nobody but a super admin reshapes their own position.
		editable = editable.Without(policy.FieldRole, policy.FieldManager, policy.FieldDepartment,
			policy.FieldSalary, policy.FieldGroups, policy.FieldIsActive)
	}
	if extra := editable.Missing(employeeInputFields(in)); !extra.Empty() {
		return nil, readOnly(extra)
	}

	err = s.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.applyEmployee(ctx, actor, e, in); err != nil {
			return err
		}
		if err := s.repos.Employees.Update(ctx, e); err != nil {
			return err
		}
		for _, g := range in.Groups {
			if err := s.repos.Groups.AddMember(ctx, g, e.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return e, nil
}

// applyEmployee copies the supplied fields onto e. Relations are checked
// against the actor's reference scopes; the manager decides the department.
func (s *accountService) applyEmployee(ctx context.Context, actor domain.Actor, e *domain.Employee, in ports.EmployeeInput) error {
	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		if !strings.Contains(email, "@") {
			return fmt.Errorf("%w: a valid e-mail is required", domain.ErrInvalidInput)
		}
		if other, err := s.repos.Employees.FindByEmail(ctx, email); err == nil && other.ID != e.ID {
			return domain.ErrEmailTaken
		} else if err != nil && !errors.Is(err, domain.ErrEmployeeNotFound) {
			return err
		}
		e.Email = email
	}
	if in.Password != nil {
		if *in.Password == "" {
			return fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.opts.BcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		e.PasswordHash = string(hash)
	}
	if in.FirstName != nil {
		e.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		e.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.PhoneNumber != nil {
		e.PhoneNumber = *in.PhoneNumber
	}
	if in.ProfilePhoto != nil {
		e.ProfilePhoto = *in.ProfilePhoto
	}
	if in.Salary != nil {
		if *in.Salary < 0 {
			return fmt.Errorf("%w: salary cannot be negative", domain.ErrInvalidInput)
		}
		v := *in.Salary
		e.Salary = &v
	}
	if in.IsActive != nil {
		e.IsActive = *in.IsActive
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, *in.Role)
		}
		if !policy.CanAssignRole(actor, *in.Role) {
			return fmt.Errorf("%w: role %s cannot be assigned", domain.ErrForbidden, *in.Role)
		}
		e.Role = *in.Role
	}

	if in.DepartmentID != nil {
		if err := s.setDepartment(ctx, actor, e, *in.DepartmentID); err != nil {
			return err
		}
	}
	if in.ManagerID != nil {
		if err := s.setManager(ctx, actor, e, *in.ManagerID); err != nil {
			return err
		}
	}
	if in.JobID != nil {
		if err := s.setJob(ctx, actor, e, *in.JobID); err != nil {
			return err
		}
	}
	return nil
}

func (s *accountService) setDepartment(ctx context.Context, actor domain.Actor, e *domain.Employee, id string) error {
	if id == "" {
		e.DepartmentID = ""
		return nil
	}
	d, err := s.repos.Departments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	ok, err := inScope(ctx, s.repos.Resolver, policy.ReferenceScope(actor, domain.KindEmployee, policy.FieldDepartment), d)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: department outside your scope", domain.ErrForbidden)
	}
	e.DepartmentID = d.ID
	return nil
}

func (s *accountService) setManager(ctx context.Context, actor domain.Actor, e *domain.Employee, id string) error {
	if id == "" {
		return e.AssignManager(nil)
	}
	if id == e.ID {
		return fmt.Errorf("%w: an employee cannot manage itself", domain.ErrInvalidInput)
	}
	m, err := s.repos.Employees.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := e.AssignManager(m); err != nil {
		return err
	}
	ok, err := inScope(ctx, s.repos.Resolver, policy.ReferenceScope(actor, domain.KindEmployee, policy.FieldManager), m)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: manager outside your scope", domain.ErrForbidden)
	}
	return nil
}

func (s *accountService) setJob(ctx context.Context, actor domain.Actor, e *domain.Employee, id string) error {
	if id == "" {
		e.JobID = ""
		return nil
	}
	j, err := s.repos.Jobs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	ok, err := inScope(ctx, s.repos.Resolver, policy.ReferenceScope(actor, domain.KindEmployee, policy.FieldJob), j)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: job outside your scope", domain.ErrForbidden)
	}
	e.JobID = j.ID
	return nil
}

// ChangePassword has no length or confirmation rule; only resets do.
func (s *accountService) ChangePassword(ctx context.Context, actor domain.Actor, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", domain.ErrInvalidInput)
	}
	e, err := s.repos.Employees.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.opts.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	e.PasswordHash = string(hash)
	if err := s.repos.Employees.Update(ctx, e); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	s.log.Info().Str("employee_id", e.ID).Msg("password changed")
	return nil
}

// RequestReset returns domain.ErrEmployeeNotFound for an unknown address.
// Callers facing the public must answer it exactly as they answer success.
func (s *accountService) RequestReset(ctx context.Context, email string) error {
	e, err := s.repos.Employees.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("request reset: %w", err)
	}

	req := &domain.PasswordResetRequest{
		Hash:       newResetToken(),
		EmployeeID: e.ID,
		CreatedAt:  s.now(),
	}
	body, err := render(resetMail, resetMailData{
		AppName: s.opts.AppName,
		Email:   e.Email,
		Link:    strings.TrimRight(s.opts.ResetBaseURL, "/") + "/" + req.Hash,
	})
	if err != nil {
		return err
	}

	err = s.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repos.Resets.Create(ctx, req); err != nil {
			return err
		}
		msg := ports.Message{
			To:       []string{e.Email},
			Subject:  s.opts.AppName + " - Password change request",
			HTMLBody: body,
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrGatewayFailure, err)
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("employee_id", e.ID).Msg("password reset request failed")
		return fmt.Errorf("request reset: %w", err)
	}

	s.log.Info().Str("employee_id", e.ID).Msg("password reset requested")
	return nil
}

func (s *accountService) ResetTokenValid(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrResetNotFound
	}
	req, err := s.repos.Resets.Find(ctx, token)
	if err != nil {
		return err
	}
	if !req.Usable(s.now(), s.opts.ResetTTL) {
		return domain.ErrResetNotFound
	}
	return nil
}

// ConsumeReset checks the new password before touching the token, so a
// mistyped confirmation leaves the link usable.
func (s *accountService) ConsumeReset(ctx context.Context, token, newPassword, confirm string) error {
	if err := domain.ValidateNewPassword(newPassword, confirm); err != nil {
		return err
	}
	if token == "" {
		return domain.ErrResetNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.opts.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	var employeeID string
	err = s.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		req, err := s.repos.Resets.Consume(ctx, token)
		if err != nil {
			return err
		}
		// The flip above is undone by the rollback.
		if s.opts.ResetTTL > 0 && s.now().Sub(req.CreatedAt) > s.opts.ResetTTL {
			return domain.ErrResetNotFound
		}
		e, err := s.repos.Employees.FindByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		e.PasswordHash = string(hash)
		if err := s.repos.Employees.Update(ctx, e); err != nil {
			return err
		}
		employeeID = e.ID
		return nil
	})
	if err != nil {
		return fmt.Errorf("consume reset: %w", err)
	}

	// Revocation is not transactional, so it only runs once the new password
	// is committed.
	if _, err := s.sessions.Revoke(ctx, employeeID); err != nil {
		s.log.Error().Err(err).Str("employee_id", employeeID).Msg("password reset committed but sessions were not revoked")
		return fmt.Errorf("consume reset: revoke sessions: %w", err)
	}

	s.log.Info().Str("employee_id", employeeID).Msg("password reset consumed, sessions revoked")
	return nil
}

func newResetToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *accountService) SetDeviceToken(ctx context.Context, actor domain.Actor, token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: token is required", domain.ErrInvalidInput)
	}
	e, err := s.repos.Employees.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	e.DeviceToken = token
	if err := s.repos.Employees.Update(ctx, e); err != nil {
		return fmt.Errorf("set device token: %w", err)
	}
	return nil
}

func (s *accountService) SendContact(ctx context.Context, actor domain.Actor, in ports.ContactInput) error {
	if strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Message) == "" {
		return fmt.Errorf("%w: subject and message are required", domain.ErrInvalidInput)
	}
	e, err := s.repos.Employees.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	body, err := render(contactMail, contactMailData{
		AppName: s.opts.AppName,
		Name:    e.FullName(),
		Email:   e.Email,
		Subject: in.Subject,
		Message: in.Message,
	})
	if err != nil {
		return err
	}
	msg := ports.Message{
		To:       []string{s.opts.ContactEmail},
		Subject:  s.opts.AppName + " - Message from a user",
		HTMLBody: body,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("employee_id", e.ID).Msg("contact mail failed")
		return fmt.Errorf("%w: %v", domain.ErrGatewayFailure, err)
	}
	return nil
}

// CreateSuperuser bootstraps the first account from the command line.
func (s *accountService) CreateSuperuser(ctx context.Context, email, password string) (*domain.Employee, error) {
	email = domain.NormalizeEmail(email)
	if !strings.Contains(email, "@") || password == "" {
		return nil, fmt.Errorf("%w: e-mail and password are required", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	e := &domain.Employee{
		Email:        email,
		Role:         domain.RoleSuperAdmin,
		PasswordHash: string(hash),
		IsActive:     true,
		DateJoined:   s.now(),
	}
	if err := s.repos.Employees.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create superuser: %w", err)
	}
	s.log.Info().Str("employee_id", e.ID).Msg("super admin created")
	return e, nil
}
