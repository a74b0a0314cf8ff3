package domain

import (
	"fmt"
	"strings"
	"time"
)

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectLate       ProjectStatus = "late"
	ProjectFinished   ProjectStatus = "finished"
	ProjectSuspended  ProjectStatus = "suspended"
	ProjectCanceled   ProjectStatus = "canceled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectInProgress, ProjectLate, ProjectFinished, ProjectSuspended, ProjectCanceled:
		return true
	}
	return false
}

// Project is owned by a department and staffed by a team of employees.
type Project struct {
	ID           string        `json:"id" bson:"_id"`
	Title        string        `json:"title" bson:"title"`
	Status       ProjectStatus `json:"status" bson:"status"`
	Detail       string        `json:"detail,omitempty" bson:"detail,omitempty"`
	File         string        `json:"file,omitempty" bson:"file,omitempty"`
	ClientID     string        `json:"client_id" bson:"client_id"`
	DepartmentID string        `json:"department_id" bson:"department_id"`
	Team         []string      `json:"team" bson:"team"`
	StartDate    time.Time     `json:"start_date" bson:"start_date"`
	EndDate      time.Time     `json:"end_date" bson:"end_date"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
}

// AddMember appends id to the team unless it is already there.
func (p *Project) AddMember(id string) {
	if id == "" || p.HasMember(id) {
		return
	}
	p.Team = append(p.Team, id)
}

// HasMember reports whether id is on the team.
func (p *Project) HasMember(id string) bool {
	for _, m := range p.Team {
		if m == id {
			return true
		}
	}
	return false
}

// Validate checks the fields a caller can supply.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown project status %q", ErrInvalidInput, p.Status)
	}
	if p.ClientID == "" {
		return fmt.Errorf("%w: client is required", ErrInvalidInput)
	}
	return nil
}

func (p *Project) RecordID() string { return p.ID }

func (p *Project) AttrValues(attr Attr) []string {
	switch attr {
	case AttrID:
		return nonEmpty(p.ID)
	case AttrDepartment:
		return nonEmpty(p.DepartmentID)
	case AttrClient:
		return nonEmpty(p.ClientID)
	case AttrTeam:
		return p.Team
	}
	return nil
}

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskCreated    TaskStatus = "created"
	TaskInProgress TaskStatus = "in_progress"
	TaskOnHold     TaskStatus = "on_hold"
	TaskCompleted  TaskStatus = "completed"
	TaskCanceled   TaskStatus = "canceled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskCreated, TaskInProgress, TaskOnHold, TaskCompleted, TaskCanceled:
		return true
	}
	return false
}

// TaskPriority orders tasks: lower values come first.
type TaskPriority int

const (
	PriorityUrgent TaskPriority = iota
	PriorityHigh
	PriorityNormal
	PriorityLow
)

var priorityNames = map[TaskPriority]string{
	PriorityUrgent: "urgent",
	PriorityHigh:   "high",
	PriorityNormal: "normal",
	PriorityLow:    "low",
}

func (p TaskPriority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// ParseTaskPriority maps a priority name to its value. Empty means normal.
func ParseTaskPriority(s string) (TaskPriority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityNormal, nil
	}
	for p, name := range priorityNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, s)
}

// maxWorkingHours mirrors the two integer digits the hours column allows.
const maxWorkingHours = 100

// Task is one unit of work assigned to a single employee inside a project.
type Task struct {
	ID           string       `json:"id" bson:"_id"`
	ProjectID    string       `json:"project_id" bson:"project_id"`
	EmployeeID   string       `json:"employee_id" bson:"employee_id"`
	Title        string       `json:"title" bson:"title"`
	Detail       string       `json:"detail,omitempty" bson:"detail,omitempty"`
	File         string       `json:"file,omitempty" bson:"file,omitempty"`
	Priority     TaskPriority `json:"priority" bson:"priority"`
	DueDate      time.Time    `json:"due_date" bson:"due_date"`
	Status       TaskStatus   `json:"status" bson:"status"`
	WorkingHours *float64     `json:"working_hours,omitempty" bson:"working_hours,omitempty"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
}

// Validate checks the fields a caller can supply.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if t.ProjectID == "" || t.EmployeeID == "" {
		return fmt.Errorf("%w: project and employee are required", ErrInvalidInput)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown task status %q", ErrInvalidInput, t.Status)
	}
	if _, ok := priorityNames[t.Priority]; !ok {
		return fmt.Errorf("%w: unknown priority %d", ErrInvalidInput, t.Priority)
	}
	if t.WorkingHours != nil && (*t.WorkingHours < 0 || *t.WorkingHours >= maxWorkingHours) {
		return fmt.Errorf("%w: working hours must be between 0 and 99.99", ErrInvalidInput)
	}
	return nil
}

func (t *Task) RecordID() string { return t.ID }

func (t *Task) AttrValues(attr Attr) []string {
	switch attr {
	case AttrID:
		return nonEmpty(t.ID)
	case AttrProject:
		return nonEmpty(t.ProjectID)
	case AttrEmployee:
		return nonEmpty(t.EmployeeID)
	}
	return nil
}
