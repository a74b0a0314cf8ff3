package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

// Entry is one fixture record and whether this run created it.
type Entry struct {
	Kind    string
	Name    string
	Created bool
}

// Result lists the records Apply touched, in fixture order.
type Result struct {
	Entries []Entry
}

// Created counts the entries this run created.
func (r Result) Created() int {
	n := 0
	for _, e := range r.Entries {
		if e.Created {
			n++
		}
	}
	return n
}

func (r *Result) add(kind, name string, created bool) {
	r.Entries = append(r.Entries, Entry{Kind: kind, Name: name, Created: created})
}

// Apply get-or-creates every record of f in one transaction. Applying the
// same fixture again creates nothing.
func Apply(ctx context.Context, repos ports.Repositories, accounts ports.AccountService, f *Fixture, log zerolog.Logger) (Result, error) {
	var res Result
	err := repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		res = Result{}
		deptIDs := make(map[string]string, len(f.Departments))
		for _, title := range f.Departments {
			d, created, err := repos.Departments.GetOrCreate(ctx, title)
			if err != nil {
				return fmt.Errorf("department %q: %w", title, err)
			}
			deptIDs[title] = d.ID
			res.add("department", title, created)
		}

		for _, j := range f.Jobs {
			deptID, ok := deptIDs[j.Department]
			if !ok {
				return fmt.Errorf("job %q: %w", j.Title, domain.ErrDepartmentNotFound)
			}
			_, created, err := repos.Jobs.GetOrCreate(ctx, &domain.Job{
				Title:        j.Title,
				DepartmentID: deptID,
				MinSalary:    j.MinSalary,
				MaxSalary:    j.MaxSalary,
			})
			if err != nil {
				return fmt.Errorf("job %q: %w", j.Title, err)
			}
			res.add("job", j.Title+" ("+j.Department+")", created)
		}

		for _, name := range f.Groups {
			created, err := repos.Groups.Ensure(ctx, name)
			if err != nil {
				return err
			}
			res.add("group", name, created)
		}

		for _, c := range f.Clients {
			_, created, err := repos.Clients.GetOrCreate(ctx, c.Name, c.Email)
			if err != nil {
				return fmt.Errorf("client %q: %w", c.Name, err)
			}
			res.add("client", c.Name, created)
		}

		if a := f.SuperAdmin; a != nil {
			created, err := ensureSuperuser(ctx, repos.Employees, accounts, a)
			if err != nil {
				return err
			}
			res.add("superadmin", domain.NormalizeEmail(a.Email), created)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	log.Info().Int("records", len(res.Entries)).Int("created", res.Created()).Msg("fixture applied")
	return res, nil
}

func ensureSuperuser(ctx context.Context, employees ports.EmployeeRepository, accounts ports.AccountService, a *Admin) (bool, error) {
	existing, err := employees.FindByEmail(ctx, a.Email)
	switch {
	case err == nil:
		if existing.Role != domain.RoleSuperAdmin {
			return false, fmt.Errorf("superadmin %s: %w", existing.Email, domain.ErrConflict)
		}
		return false, nil
	case !errors.Is(err, domain.ErrEmployeeNotFound):
		return false, err
	}
	if _, err := accounts.CreateSuperuser(ctx, a.Email, a.Password); err != nil {
		return false, err
	}
	return true, nil
}
