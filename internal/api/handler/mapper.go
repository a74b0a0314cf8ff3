package handler

import (
	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

// --- Request → Service input ---

func toEmployeeInput(req employeeRequest) ports.EmployeeInput {
	return ports.EmployeeInput{
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		Role:         req.Role,
		ProfilePhoto: req.ProfilePhoto,
		DepartmentID: req.DepartmentID,
		ManagerID:    req.ManagerID,
		JobID:        req.JobID,
		Salary:       req.Salary,
		Groups:       req.Groups,
		IsActive:     req.IsActive,
	}
}

func toProjectInput(req projectRequest) ports.ProjectInput {
	return ports.ProjectInput{
		Title:        req.Title,
		Status:       req.Status,
		Detail:       req.Detail,
		File:         req.File,
		ClientID:     req.ClientID,
		DepartmentID: req.DepartmentID,
		Team:         req.Team,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
}

func toTaskInput(req taskRequest) (ports.TaskInput, error) {
	in := ports.TaskInput{
		ProjectID:    req.ProjectID,
		EmployeeID:   req.EmployeeID,
		Title:        req.Title,
		Detail:       req.Detail,
		File:         req.File,
		DueDate:      req.DueDate,
		Status:       req.Status,
		WorkingHours: req.WorkingHours,
	}
	if req.Priority != nil {
		p, err := domain.ParseTaskPriority(*req.Priority)
		if err != nil {
			return ports.TaskInput{}, err
		}
		in.Priority = &p
	}
	return in, nil
}

// --- Domain → Response ---

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:           t.ID,
		ProjectID:    t.ProjectID,
		EmployeeID:   t.EmployeeID,
		Title:        t.Title,
		Detail:       t.Detail,
		File:         t.File,
		Priority:     t.Priority.String(),
		DueDate:      t.DueDate,
		Status:       t.Status,
		WorkingHours: t.WorkingHours,
		CreatedAt:    t.CreatedAt,
	}
}

func toTaskResponses(ts []*domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func list[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Count: len(items), Results: items}
}
