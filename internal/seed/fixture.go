// Package seed loads the organisation fixture: departments, jobs, permission
// groups, clients and the bootstrap super admin.
package seed

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixture models org.yaml.
type Fixture struct {
	Departments []string `yaml:"departments"`
	Jobs        []Job    `yaml:"jobs"`
	Groups      []string `yaml:"groups"`
	Clients     []Client `yaml:"clients"`
	SuperAdmin  *Admin   `yaml:"superadmin"`
}

type Job struct {
	Title      string   `yaml:"title"`
	Department string   `yaml:"department"`
	MinSalary  *float64 `yaml:"min_salary"`
	MaxSalary  *float64 `yaml:"max_salary"`
}

type Client struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type Admin struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Validate ensures every reference in the fixture resolves.
func (f *Fixture) Validate() error {
	known := make(map[string]bool, len(f.Departments))
	for _, d := range f.Departments {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("departments contains an empty title")
		}
		known[d] = true
	}
	for _, j := range f.Jobs {
		if j.Title == "" {
			return fmt.Errorf("job with empty title in department %q", j.Department)
		}
		if !known[j.Department] {
			return fmt.Errorf("job %q references unknown department %q", j.Title, j.Department)
		}
		if j.MinSalary != nil && j.MaxSalary != nil && *j.MinSalary > *j.MaxSalary {
			return fmt.Errorf("job %q has min_salary above max_salary", j.Title)
		}
	}
	for _, g := range f.Groups {
		if strings.TrimSpace(g) == "" {
			return fmt.Errorf("groups contains an empty name")
		}
	}
	for _, c := range f.Clients {
		if c.Name == "" || !strings.Contains(c.Email, "@") {
			return fmt.Errorf("client %q needs a name and an e-mail", c.Name)
		}
	}
	if a := f.SuperAdmin; a != nil && (a.Email == "" || a.Password == "") {
		return fmt.Errorf("superadmin needs email and password")
	}
	return nil
}

// FromYAML parses and validates a fixture from raw YAML bytes.
func FromYAML(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid fixture yaml: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// FromFile reads a YAML fixture from the given path.
func FromFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// Default returns the fixture used when no file is given.
func Default() *Fixture {
	f, err := FromYAML([]byte(defaultTemplate))
	if err != nil {
		panic(err)
	}
	return f
}

const defaultTemplate = `departments:
  - Administration
groups:
  - Employees
  - Managers
  - Admins
`
